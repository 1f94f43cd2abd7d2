package board

// Status represents the visibility of a tile.
type Status int

const (
	Hidden Status = iota
	Flipped
	Matched
)

// String returns the string representation of a Status.
func (s Status) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case Flipped:
		return "flipped"
	case Matched:
		return "matched"
	default:
		return "unknown"
	}
}

// Outcome describes what a call to Flip did.
type Outcome int

const (
	// Ignored means the selection was illegal and nothing changed.
	Ignored Outcome = iota
	// FirstFlip is the first tile of a pair turned face up.
	FirstFlip
	// PairMatched is a second tile whose symbol equals the first one.
	PairMatched
	// PairMismatched is a second tile with a different symbol.
	PairMismatched
)

func (o Outcome) String() string {
	switch o {
	case Ignored:
		return "ignored"
	case FirstFlip:
		return "flipped"
	case PairMatched:
		return "pair_matched"
	case PairMismatched:
		return "pair_mismatched"
	default:
		return "unknown"
	}
}

// Tile is a single cell on the board.
type Tile struct {
	Index  int
	Symbol string
	Status Status
}

// Board holds the tiles of one session and its counters.
type Board struct {
	Tiles        []Tile
	Attempts     int
	MatchedPairs int

	flipped []int // at most two indices, in flip order
}

// New creates a board with one hidden tile per dealt symbol.
func New(symbols []string) *Board {
	b := &Board{}
	b.Reset(symbols)
	return b
}

// Reset replaces every tile and zeroes the counters.
func (b *Board) Reset(symbols []string) {
	b.Tiles = make([]Tile, len(symbols))
	for i, s := range symbols {
		b.Tiles[i] = Tile{Index: i, Symbol: s, Status: Hidden}
	}
	b.Attempts = 0
	b.MatchedPairs = 0
	b.flipped = make([]int, 0, 2)
}

// PairCount is the number of pairs dealt.
func (b *Board) PairCount() int {
	return len(b.Tiles) / 2
}

// Pending reports whether two tiles are face up and waiting for Resolve.
func (b *Board) Pending() bool {
	return len(b.flipped) == 2
}

// Complete reports whether every pair has been matched.
func (b *Board) Complete() bool {
	return len(b.Tiles) > 0 && b.MatchedPairs == b.PairCount()
}

// Flip turns the tile at index face up. Out of range indices, tiles that are
// already flipped or matched, and any selection while a pair is pending are
// ignored without changing state.
func (b *Board) Flip(index int) Outcome {
	if index < 0 || index >= len(b.Tiles) || b.Pending() {
		return Ignored
	}
	tile := &b.Tiles[index]
	if tile.Status != Hidden {
		return Ignored
	}

	tile.Status = Flipped
	b.flipped = append(b.flipped, index)
	if len(b.flipped) == 1 {
		return FirstFlip
	}

	b.Attempts++
	if b.Tiles[b.flipped[0]].Symbol == tile.Symbol {
		return PairMatched
	}
	return PairMismatched
}

// Resolve settles the pending pair: matching tiles become Matched, others
// go back to Hidden. ok is false when no pair was pending.
func (b *Board) Resolve() (matched bool, ok bool) {
	if !b.Pending() {
		return false, false
	}
	first := &b.Tiles[b.flipped[0]]
	second := &b.Tiles[b.flipped[1]]

	matched = first.Symbol == second.Symbol
	if matched {
		first.Status = Matched
		second.Status = Matched
		b.MatchedPairs++
	} else {
		first.Status = Hidden
		second.Status = Hidden
	}
	b.flipped = b.flipped[:0]
	return matched, true
}
