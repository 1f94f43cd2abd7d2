package scoring

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"go-match/internal/config"
)

// Entry is one completed session recorded in a History.
type Entry struct {
	Result
	SessionID uuid.UUID `json:"sessionId"`
	Timestamp time.Time `json:"timestamp"`
}

// History keeps the results of every session played in this process,
// grouped by difficulty. It is not persisted.
type History struct {
	entries map[config.Difficulty][]Entry
}

// NewHistory returns an empty History.
func NewHistory() *History {
	return &History{entries: make(map[config.Difficulty][]Entry)}
}

// Add records a completed session.
func (h *History) Add(e Entry) {
	h.entries[e.Difficulty] = append(h.entries[e.Difficulty], e)
}

// Plays returns the number of sessions recorded for d.
func (h *History) Plays(d config.Difficulty) int {
	return len(h.entries[d])
}

// Best returns the highest scoring entry for d, or nil when nothing was played.
// Ties go to the earlier entry.
func (h *History) Best(d config.Difficulty) *Entry {
	top := h.Top(d, 1)
	if len(top) == 0 {
		return nil
	}
	return &top[0]
}

// Top returns up to n entries for d sorted by score, highest first.
func (h *History) Top(d config.Difficulty, n int) []Entry {
	// Make a copy to avoid modifying the original slice.
	entriesCopy := make([]Entry, len(h.entries[d]))
	copy(entriesCopy, h.entries[d])

	sort.SliceStable(entriesCopy, func(i, j int) bool {
		return entriesCopy[i].Score > entriesCopy[j].Score
	})

	if len(entriesCopy) < n {
		return entriesCopy
	}
	return entriesCopy[:n]
}

// GotHighScore checks if r is greater than or equal to every recorded score
// for its difficulty, so tying the best score counts. An empty history always
// counts as a high score.
func (h *History) GotHighScore(r Result) bool {
	best := h.Best(r.Difficulty)
	if best == nil {
		return true
	}
	return r.Score >= best.Score
}
