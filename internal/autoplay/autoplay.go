// Package autoplay drives a game with a simulated player. It is used to
// sample score distributions from the command line.
package autoplay

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"go-match/internal/config"
	"go-match/internal/game"
	"go-match/internal/sched"
	"go-match/internal/scoring"
	"go-match/internal/state"
)

// ErrStuck is returned when a game does not finish within its move budget.
var ErrStuck = errors.New("autoplay made no progress")

const settleStep = 100 * time.Millisecond

// Player remembers tiles it has seen face up. Tiles shown during the preview
// are remembered with probability Recall; tiles flipped during play are
// always remembered.
type Player struct {
	Recall float64
	Think  time.Duration // pause after every attempt
	Rand   *rand.Rand

	memory map[int]string
}

// NewPlayer returns a player with the given preview recall in [0, 1].
func NewPlayer(recall float64, rng *rand.Rand) *Player {
	return &Player{Recall: recall, Think: time.Second, Rand: rng}
}

// Run plays one full session of difficulty d on g and returns its result.
// g must be scheduled by clock.
func Run(g *game.Game, clock *sched.Manual, p *Player, d config.Difficulty) (scoring.Result, error) {
	if err := g.RequestStart(d); err != nil {
		return scoring.Result{}, err
	}
	p.memory = make(map[int]string)

	snap := g.Snapshot()
	p.observePreview(snap.Tiles)
	if err := waitPreview(g, clock); err != nil {
		return scoring.Result{}, err
	}

	budget := 4 * len(snap.Tiles) * len(snap.Tiles)
	for g.Phase() == state.PhasePlaying {
		if budget == 0 {
			return scoring.Result{}, fmt.Errorf("%w after %d attempts", ErrStuck, g.Session().Board.Attempts)
		}
		budget--

		first, second := p.move(g)
		if first < 0 || second < 0 {
			return scoring.Result{}, fmt.Errorf("%w: no hidden tiles left", ErrStuck)
		}
		clock.Advance(p.Think)
		if err := settle(g, clock); err != nil {
			return scoring.Result{}, err
		}
	}

	res, ok := g.Session().Result()
	if !ok {
		return scoring.Result{}, fmt.Errorf("session ended in phase %s without a result", g.Phase())
	}
	return res, nil
}

// move flips two tiles and returns their indices.
func (p *Player) move(g *game.Game) (int, int) {
	tiles := g.Snapshot().Tiles

	if a, b, ok := p.knownPair(tiles); ok {
		p.flip(g, a)
		p.flip(g, b)
		return a, b
	}

	first := p.unknownTile(tiles, -1)
	if first < 0 {
		return -1, -1
	}
	sym := p.flip(g, first)

	second := -1
	for i, known := range p.memory {
		if i != first && known == sym && !tiles[i].Matched {
			second = i
			break
		}
	}
	if second < 0 {
		second = p.unknownTile(tiles, first)
	}
	if second < 0 {
		second = p.anyHidden(tiles, first)
	}
	if second < 0 {
		return first, -1
	}
	p.flip(g, second)
	return first, second
}

// flip selects index and memorizes what turned up.
func (p *Player) flip(g *game.Game, index int) string {
	g.SelectTile(index)
	sym := g.Snapshot().Tiles[index].Symbol
	if sym != "" {
		p.memory[index] = sym
	}
	return sym
}

func (p *Player) observePreview(tiles []game.TileView) {
	for i, t := range tiles {
		if p.Recall >= 1 || (p.Rand != nil && p.Rand.Float64() < p.Recall) {
			p.memory[i] = t.Symbol
		}
	}
}

func (p *Player) knownPair(tiles []game.TileView) (int, int, bool) {
	seen := make(map[string]int)
	for i := range tiles {
		sym, ok := p.memory[i]
		if !ok || tiles[i].Matched {
			continue
		}
		if j, ok := seen[sym]; ok {
			return j, i, true
		}
		seen[sym] = i
	}
	return -1, -1, false
}

// unknownTile picks a random hidden tile the player has not seen.
func (p *Player) unknownTile(tiles []game.TileView, exclude int) int {
	var candidates []int
	for i, t := range tiles {
		if _, known := p.memory[i]; !known && !t.FaceUp && i != exclude {
			candidates = append(candidates, i)
		}
	}
	return p.pick(candidates)
}

func (p *Player) anyHidden(tiles []game.TileView, exclude int) int {
	var candidates []int
	for i, t := range tiles {
		if !t.FaceUp && i != exclude {
			candidates = append(candidates, i)
		}
	}
	return p.pick(candidates)
}

func (p *Player) pick(candidates []int) int {
	if len(candidates) == 0 {
		return -1
	}
	if p.Rand == nil {
		return candidates[0]
	}
	return candidates[p.Rand.IntN(len(candidates))]
}

func waitPreview(g *game.Game, clock *sched.Manual) error {
	for i := 0; i < 1000; i++ {
		if g.Phase() != state.PhasePreviewing {
			return nil
		}
		clock.Advance(settleStep)
	}
	return fmt.Errorf("%w: preview never ended", ErrStuck)
}

// settle advances the clock until the flipped pair has been resolved.
func settle(g *game.Game, clock *sched.Manual) error {
	for i := 0; i < 1000; i++ {
		s := g.Session()
		if s.Board == nil || !s.Board.Pending() {
			return nil
		}
		clock.Advance(settleStep)
	}
	return fmt.Errorf("%w: pair never resolved", ErrStuck)
}
