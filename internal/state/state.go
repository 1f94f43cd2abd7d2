package state

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/looplab/fsm"
	"github.com/rs/zerolog"

	"go-match/internal/board"
	"go-match/internal/config"
	"go-match/internal/deal"
	"go-match/internal/sched"
	"go-match/internal/scoring"
	"go-match/internal/timer"
)

// Options carries the collaborators a Session needs.
type Options struct {
	Scheduler     sched.Scheduler
	Rand          *rand.Rand
	Alphabet      []string // defaults to deal.DefaultAlphabet
	MatchDelay    time.Duration
	MismatchDelay time.Duration
	TickInterval  time.Duration // stopwatch sampling and countdown step
	Notify        func(Event)
	Logger        zerolog.Logger
}

// Session is one play-through from difficulty selection to completion.
type Session struct {
	ID         uuid.UUID
	Difficulty config.Difficulty
	Level      config.Level
	Board      *board.Board
	FSM        *fsm.FSM

	opts      Options
	result    scoring.Result
	ended     bool
	stopwatch *timer.Stopwatch
	countdown *timer.Countdown
	pending   sched.Timer
	closed    bool
}

// NewSession creates an idle session for d. It fails if d is unknown or the
// alphabet cannot supply d's pair count, so nothing is ever dealt for an
// invalid configuration.
func NewSession(id uuid.UUID, d config.Difficulty, opts Options) (*Session, error) {
	level, err := config.Lookup(d)
	if err != nil {
		return nil, err
	}
	if opts.Alphabet == nil {
		opts.Alphabet = deal.DefaultAlphabet
	}
	if err := deal.Validate(opts.Alphabet, level.PairCount); err != nil {
		return nil, fmt.Errorf("cannot start %s session: %w", d, err)
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}
	if opts.Rand == nil {
		opts.Rand = deal.NewRand(0)
	}

	s := &Session{
		ID:         id,
		Difficulty: d,
		Level:      level,
		opts:       opts,
		stopwatch:  timer.NewStopwatch(opts.Scheduler, opts.TickInterval),
	}
	s.stopwatch.OnTick = func(elapsed int) {
		s.notify(Event{Type: EventTimerTick, Elapsed: elapsed})
	}

	s.FSM = fsm.NewFSM(
		string(PhaseIdle),
		getStateTransitions(),
		getStateCallbacks(s),
	)
	return s, nil
}

// Start deals a new board and enters the preview phase.
func (s *Session) Start(ctx context.Context) error {
	if s.closed {
		return ErrClosed
	}
	symbols, err := deal.Symbols(s.opts.Alphabet, s.Level.PairCount, s.opts.Rand)
	if err != nil {
		return fmt.Errorf("cannot deal %s board: %w", s.Difficulty, err)
	}
	return s.FSM.Event(ctx, "start", symbols)
}

// Select flips the tile at index. Illegal selections are ignored silently.
func (s *Session) Select(index int) {
	if s.closed || !s.Phase().Accepting() {
		return
	}

	outcome := s.Board.Flip(index)
	if outcome == board.Ignored {
		return
	}

	if !s.Started() {
		s.stopwatch.Start()
		s.opts.Logger.Debug().Str("session", s.ID.String()).Msg("first flip, stopwatch started")
		s.notify(Event{Type: EventSessionStarted})
	}
	s.notify(Event{Type: EventTileFlipped, Index: index, Attempts: s.Board.Attempts})

	switch outcome {
	case board.PairMatched:
		s.scheduleResolve(s.opts.MatchDelay)
	case board.PairMismatched:
		s.scheduleResolve(s.opts.MismatchDelay)
	}
}

func (s *Session) scheduleResolve(delay time.Duration) {
	if delay <= 0 {
		s.resolve()
		return
	}
	s.pending = s.opts.Scheduler.AfterFunc(delay, s.resolve)
}

// resolve runs after the display delay of a pending pair.
func (s *Session) resolve() {
	s.pending = nil
	if s.closed || !s.Phase().Accepting() {
		return
	}

	matched, ok := s.Board.Resolve()
	if !ok {
		return
	}
	if !matched {
		s.notify(Event{Type: EventPairMismatched, Attempts: s.Board.Attempts})
		return
	}

	s.notify(Event{Type: EventPairMatched, PairsFound: s.Board.MatchedPairs, Attempts: s.Board.Attempts})
	if s.Board.Complete() {
		_ = s.FSM.Event(context.Background(), "complete")
	}
}

// Reset abandons the session and returns it to idle, cancelling the
// countdown, the stopwatch and any pending resolution.
func (s *Session) Reset(ctx context.Context) {
	if s.FSM.Is(string(PhaseIdle)) {
		return
	}
	_ = s.FSM.Event(ctx, "reset")
}

// Close resets the session and retires it: scheduled work that still fires
// afterwards, and any further input, is ignored.
func (s *Session) Close() {
	s.Reset(context.Background())
	s.closed = true
}

// Closed reports whether Close was called.
func (s *Session) Closed() bool {
	return s.closed
}

// Phase is the current phase tag.
func (s *Session) Phase() Phase {
	return Phase(s.FSM.Current())
}

// Started reports whether the first tile has been flipped and the stopwatch
// is running.
func (s *Session) Started() bool {
	return s.stopwatch.Running()
}

// Result returns a copy of the final result once the session has ended.
func (s *Session) Result() (scoring.Result, bool) {
	return s.result, s.ended
}

// Elapsed is the stopwatch value in whole seconds.
func (s *Session) Elapsed() int {
	return s.stopwatch.Elapsed()
}

// PreviewRemaining is the countdown value while previewing, 0 otherwise.
func (s *Session) PreviewRemaining() int {
	if s.countdown == nil {
		return 0
	}
	return s.countdown.Remaining()
}

func getStateTransitions() []fsm.EventDesc {
	return fsm.Events{
		{Name: "start", Src: []string{string(PhaseIdle)}, Dst: string(PhasePreviewing)},
		{Name: "play", Src: []string{string(PhasePreviewing)}, Dst: string(PhasePlaying)},
		{Name: "complete", Src: []string{string(PhasePlaying)}, Dst: string(PhaseEnded)},
		{Name: "reset", Src: []string{string(PhasePreviewing), string(PhasePlaying), string(PhaseEnded)}, Dst: string(PhaseIdle)},
	}
}

func getStateCallbacks(s *Session) map[string]fsm.Callback {
	return fsm.Callbacks{
		"enter_" + string(PhasePreviewing): func(ctx context.Context, e *fsm.Event) {
			symbols, _ := e.Args[0].([]string)
			s.Board = board.New(symbols)
			s.result, s.ended = scoring.Result{}, false

			s.countdown = timer.NewCountdown(s.opts.Scheduler, s.opts.TickInterval, s.Level.PreviewSeconds)
			s.countdown.OnTick = func(remaining int) {
				s.notify(Event{Type: EventPreviewTick, Remaining: remaining})
			}
			s.countdown.OnDone = func() {
				if s.closed {
					return
				}
				_ = s.FSM.Event(context.Background(), "play")
			}

			s.opts.Logger.Info().
				Str("session", s.ID.String()).
				Str("difficulty", string(s.Difficulty)).
				Int("pairs", s.Level.PairCount).
				Msg("preview started")
			s.notify(Event{Type: EventPreviewStarted, Remaining: s.Level.PreviewSeconds})
			s.countdown.Start()
		},
		"enter_" + string(PhasePlaying): func(ctx context.Context, e *fsm.Event) {
			s.countdown = nil
			s.notify(Event{Type: EventPlayStarted})
		},
		"enter_" + string(PhaseEnded): func(ctx context.Context, e *fsm.Event) {
			s.stopwatch.Stop()
			res := scoring.NewResult(s.Difficulty, s.Board.Attempts, s.stopwatch.Elapsed())
			s.result, s.ended = res, true

			s.opts.Logger.Info().
				Str("session", s.ID.String()).
				Int("attempts", res.Attempts).
				Int("elapsed", res.ElapsedSeconds).
				Int("score", res.Score).
				Msg("session completed")
			s.notify(Event{
				Type:     EventSessionCompleted,
				Attempts: res.Attempts,
				Result:   res,
			})
		},
		"enter_" + string(PhaseIdle): func(ctx context.Context, e *fsm.Event) {
			if s.countdown != nil {
				s.countdown.Stop()
				s.countdown = nil
			}
			if s.pending != nil {
				s.pending.Stop()
				s.pending = nil
			}
			s.stopwatch.Reset()
			s.Board = nil
			s.result, s.ended = scoring.Result{}, false
			s.opts.Logger.Debug().Str("session", s.ID.String()).Str("from", e.Src).Msg("session reset")
		},
	}
}

func (s *Session) notify(ev Event) {
	if s.opts.Notify == nil {
		return
	}
	ev.SessionID = s.ID
	ev.Difficulty = s.Difficulty
	s.opts.Notify(ev)
}
