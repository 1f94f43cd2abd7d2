package game

import (
	"context"

	"github.com/google/uuid"

	"go-match/internal/config"
	"go-match/internal/scoring"
	"go-match/internal/state"
)

// Game encapsulates the core game logic, independent of the UI. It owns at
// most one session at a time and replaces it wholesale on every start.
type Game struct {
	History *scoring.History

	opts    state.Options
	notify  func(state.Event)
	session *state.Session
}

// New initializes a game with no session. opts.Notify, if set, receives every
// event of every session the game runs.
func New(opts state.Options) *Game {
	g := &Game{
		History: scoring.NewHistory(),
		notify:  opts.Notify,
	}
	opts.Notify = g.dispatch
	g.opts = opts
	return g
}

// RequestStart begins a new session at difficulty d. An invalid configuration
// is rejected before anything is dealt and leaves the current session alone.
// Otherwise the current session is closed, which cancels its countdown, its
// stopwatch and any pending pair resolution.
func (g *Game) RequestStart(d config.Difficulty) error {
	next, err := state.NewSession(uuid.New(), d, g.opts)
	if err != nil {
		g.opts.Logger.Warn().Err(err).Str("difficulty", string(d)).Msg("start rejected")
		return err
	}

	if g.session != nil {
		g.opts.Logger.Debug().Str("session", g.session.ID.String()).Msg("closing previous session")
		g.session.Close()
	}
	g.session = next

	return next.Start(context.Background())
}

// SelectTile forwards a tile selection to the current session.
func (g *Game) SelectTile(index int) {
	if g.session == nil {
		return
	}
	g.session.Select(index)
}

// RequestReplay returns the current session to idle.
func (g *Game) RequestReplay() {
	if g.session == nil {
		return
	}
	g.session.Reset(context.Background())
}

// RequestExit notifies listeners that the player wants to leave. Game state
// is not touched.
func (g *Game) RequestExit() {
	ev := state.Event{Type: state.EventExitRequested}
	if g.session != nil {
		ev.SessionID = g.session.ID
		ev.Difficulty = g.session.Difficulty
	}
	g.dispatch(ev)
}

// Session returns the current session, or nil before the first start.
func (g *Game) Session() *state.Session {
	return g.session
}

// Phase is the phase of the current session; idle when there is none.
func (g *Game) Phase() state.Phase {
	if g.session == nil {
		return state.PhaseIdle
	}
	return g.session.Phase()
}

// dispatch records completed sessions in the history before passing the
// event on.
func (g *Game) dispatch(ev state.Event) {
	if ev.Type == state.EventSessionCompleted {
		g.History.Add(scoring.Entry{
			Result:    ev.Result,
			SessionID: ev.SessionID,
			Timestamp: g.opts.Scheduler.Now(),
		})
	}
	if g.notify != nil {
		g.notify(ev)
	}
}
