package game

import (
	"github.com/google/uuid"

	"go-match/internal/board"
	"go-match/internal/config"
	"go-match/internal/scoring"
	"go-match/internal/state"
)

// TileView is what a player can see of one tile.
type TileView struct {
	Symbol  string // empty while face down
	FaceUp  bool
	Matched bool
}

// Snapshot is a read-only view of the current session for rendering.
type Snapshot struct {
	SessionID  uuid.UUID
	Phase      state.Phase
	Difficulty config.Difficulty
	Columns    int
	Rows       int
	Tiles      []TileView

	PairCount        int
	PairsFound       int
	Attempts         int
	Elapsed          int
	PreviewRemaining int

	Result    *scoring.Result // nil until the session ends; a copy
	HighScore bool
}

// Snapshot describes the current session. Symbols of face-down tiles are
// withheld, except during the preview when every tile is shown.
func (g *Game) Snapshot() Snapshot {
	s := g.session
	if s == nil {
		return Snapshot{Phase: state.PhaseIdle}
	}

	snap := Snapshot{
		SessionID:        s.ID,
		Phase:            s.Phase(),
		Difficulty:       s.Difficulty,
		Columns:          s.Level.GridColumns,
		Rows:             s.Level.GridRows,
		PairCount:        s.Level.PairCount,
		Elapsed:          s.Elapsed(),
		PreviewRemaining: s.PreviewRemaining(),
	}
	if res, ok := s.Result(); ok {
		snap.Result = &res
		snap.HighScore = g.History.GotHighScore(res)
	}
	if s.Board == nil {
		return snap
	}

	snap.PairsFound = s.Board.MatchedPairs
	snap.Attempts = s.Board.Attempts
	snap.Tiles = make([]TileView, len(s.Board.Tiles))
	for i, t := range s.Board.Tiles {
		faceUp := snap.Phase == state.PhasePreviewing || t.Status != board.Hidden
		v := TileView{FaceUp: faceUp, Matched: t.Status == board.Matched}
		if faceUp {
			v.Symbol = t.Symbol
		}
		snap.Tiles[i] = v
	}
	return snap
}
