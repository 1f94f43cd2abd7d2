package config

import (
	"errors"
	"fmt"
	"strings"
)

// Difficulty selects one of the fixed board configurations.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// ErrUnknownDifficulty is returned for names outside the difficulty table.
var ErrUnknownDifficulty = errors.New("unknown difficulty")

// Level is the static configuration attached to a Difficulty.
type Level struct {
	PairCount      int
	PreviewSeconds int
	GridColumns    int
	GridRows       int
	Multiplier     int
}

// Tiles is the number of tiles dealt for the level.
func (l Level) Tiles() int {
	return l.PairCount * 2
}

var levels = map[Difficulty]Level{
	Easy:   {PairCount: 6, PreviewSeconds: 5, GridColumns: 4, GridRows: 3, Multiplier: 1},
	Medium: {PairCount: 8, PreviewSeconds: 4, GridColumns: 4, GridRows: 4, Multiplier: 2},
	Hard:   {PairCount: 12, PreviewSeconds: 3, GridColumns: 4, GridRows: 6, Multiplier: 3},
}

// Difficulties lists the recognized difficulties from easiest to hardest.
func Difficulties() []Difficulty {
	return []Difficulty{Easy, Medium, Hard}
}

// Lookup returns the Level for d.
func Lookup(d Difficulty) (Level, error) {
	l, ok := levels[d]
	if !ok {
		return Level{}, fmt.Errorf("%w: %q", ErrUnknownDifficulty, string(d))
	}
	return l, nil
}

// Multiplier returns the score multiplier for d, or 0 for an unknown difficulty.
func Multiplier(d Difficulty) int {
	return levels[d].Multiplier
}

// ParseDifficulty accepts a difficulty name in any case.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if _, err := Lookup(d); err != nil {
		return "", err
	}
	return d, nil
}

// Title is the display form of the difficulty ("Easy", "Medium", ...).
func (d Difficulty) Title() string {
	if d == "" {
		return ""
	}
	return strings.ToUpper(string(d[:1])) + string(d[1:])
}

// Next cycles through the difficulties in table order.
func (d Difficulty) Next() Difficulty {
	all := Difficulties()
	for i, c := range all {
		if c == d {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}

// Set implements flag.Value.
func (d *Difficulty) Set(s string) error {
	parsed, err := ParseDifficulty(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d *Difficulty) String() string {
	return string(*d)
}
