package state

import (
	"errors"

	"github.com/google/uuid"

	"go-match/internal/config"
	"go-match/internal/scoring"
)

// ErrClosed is returned when starting a session that has been retired.
var ErrClosed = errors.New("session closed")

// Phase is the lifecycle tag of a session.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhasePreviewing Phase = "previewing"
	PhasePlaying    Phase = "playing"
	PhaseEnded      Phase = "ended"
)

// EventType names a notification sent to the UI.
type EventType string

const (
	EventPreviewStarted   EventType = "preview_started"
	EventPreviewTick      EventType = "preview_tick"
	EventPlayStarted      EventType = "play_started"
	EventSessionStarted   EventType = "session_started" // first flip
	EventTileFlipped      EventType = "tile_flipped"
	EventPairMatched      EventType = "pair_matched"
	EventPairMismatched   EventType = "pair_mismatched"
	EventTimerTick        EventType = "timer_tick"
	EventSessionCompleted EventType = "session_completed"
	EventExitRequested    EventType = "exit_requested"
)

// Event is a notification delivered synchronously, in order, at the point
// where it happens. Only the fields relevant to Type are set.
type Event struct {
	Type       EventType
	SessionID  uuid.UUID
	Difficulty config.Difficulty

	Index      int // tile_flipped
	PairsFound int // pair_matched
	Attempts   int // tile_flipped, pair_matched, pair_mismatched, session_completed
	Remaining  int // preview_started, preview_tick
	Elapsed    int // timer_tick

	Result scoring.Result // session_completed
}

// ElapsedMs is the completion time in milliseconds, 0 for other events.
func (e Event) ElapsedMs() int64 {
	return e.Result.ElapsedMs()
}

// Score is the final score carried by session_completed, 0 otherwise.
func (e Event) Score() int {
	return e.Result.Score
}

// Accepting reports whether tile selections can have any effect in p.
func (p Phase) Accepting() bool {
	return p == PhasePlaying
}

// Active reports whether a session in p is in progress.
func (p Phase) Active() bool {
	return p == PhasePreviewing || p == PhasePlaying
}
