package main

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"go-match/internal/config"
	"go-match/internal/game"
	"go-match/internal/sched"
	"go-match/internal/state"
)

// callbackMsg carries scheduled game work onto the bubbletea event loop.
type callbackMsg func()

type LocalState struct {
	Game          *game.Game
	Difficulty    config.Difficulty // menu selection
	Cursor        int
	Message       string
	IsError       bool // Message reports a problem
	QuitNextCycle bool

	keys    keyMap
	help    help.Model
	program *tea.Program
	logger  zerolog.Logger
}

func initialModel(cfg *config.Config, opts state.Options) *LocalState {
	s := &LocalState{
		Difficulty: cfg.Difficulty,
		keys:       defaultKeyMap(),
		help:       help.New(),
		logger:     opts.Logger,
	}

	opts.Scheduler = sched.NewLoop(s.dispatch)
	opts.Notify = s.onEvent
	s.Game = game.New(opts)
	return s
}

// attach connects the model to the program that runs it. It must be called
// before the program starts.
func (s *LocalState) attach(p *tea.Program) {
	s.program = p
}

func (s *LocalState) dispatch(fn func()) {
	if s.program == nil {
		return
	}
	s.program.Send(callbackMsg(fn))
}

func (s *LocalState) Init() tea.Cmd {
	return nil
}

func (s *LocalState) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case callbackMsg:
		msg()
	case tea.WindowSizeMsg:
		s.help.Width = msg.Width
	case tea.KeyMsg:
		s.handleKey(msg)
	}

	if s.QuitNextCycle {
		return s, tea.Quit
	}
	return s, nil
}

func (s *LocalState) handleKey(msg tea.KeyMsg) {
	if key.Matches(msg, s.keys.Quit) {
		s.Game.RequestExit()
		return
	}
	if key.Matches(msg, s.keys.Help) {
		s.help.ShowAll = !s.help.ShowAll
		return
	}

	phase := s.Game.Phase()
	if phase.Active() && key.Matches(msg, s.keys.Replay) {
		s.Game.RequestReplay()
		s.setMessage("", false)
		return
	}

	switch phase {
	case state.PhaseIdle:
		switch {
		case key.Matches(msg, s.keys.Easy):
			s.Difficulty = config.Easy
		case key.Matches(msg, s.keys.Medium):
			s.Difficulty = config.Medium
		case key.Matches(msg, s.keys.Hard):
			s.Difficulty = config.Hard
		case key.Matches(msg, s.keys.Cycle):
			s.Difficulty = s.Difficulty.Next()
		case key.Matches(msg, s.keys.Start), key.Matches(msg, s.keys.Flip):
			s.start()
		}

	case state.PhasePlaying:
		if key.Matches(msg, s.keys.Flip) {
			s.Game.SelectTile(s.Cursor)
		} else {
			s.moveCursor(msg)
		}

	case state.PhaseEnded:
		switch {
		case key.Matches(msg, s.keys.Replay):
			s.Game.RequestReplay()
			s.setMessage("", false)
		case key.Matches(msg, s.keys.Start), key.Matches(msg, s.keys.Flip):
			s.start()
		}
	}
}

func (s *LocalState) start() {
	s.Cursor = 0
	s.setMessage("", false)
	if err := s.Game.RequestStart(s.Difficulty); err != nil {
		s.setMessage(err.Error(), true)
	}
}

func (s *LocalState) setMessage(msg string, isError bool) {
	s.Message = msg
	s.IsError = isError
}

func (s *LocalState) moveCursor(msg tea.KeyMsg) {
	snap := s.Game.Snapshot()
	cols, total := snap.Columns, len(snap.Tiles)
	if cols == 0 || total == 0 {
		return
	}

	next := s.Cursor
	switch {
	case key.Matches(msg, s.keys.Up):
		next -= cols
	case key.Matches(msg, s.keys.Down):
		next += cols
	case key.Matches(msg, s.keys.Left):
		if next%cols > 0 {
			next--
		}
	case key.Matches(msg, s.keys.Right):
		if next%cols < cols-1 {
			next++
		}
	}
	if next >= 0 && next < total {
		s.Cursor = next
	}
}

func (s *LocalState) onEvent(ev state.Event) {
	s.logger.Trace().
		Str("event", string(ev.Type)).
		Str("session", ev.SessionID.String()).
		Msg("game event")

	switch ev.Type {
	case state.EventPreviewStarted:
		s.setMessage("Memorize the board!", false)
	case state.EventPlayStarted:
		s.setMessage("Find the pairs.", false)
	case state.EventPairMatched:
		s.setMessage(fmt.Sprintf("Match! %d pairs found.", ev.PairsFound), false)
	case state.EventPairMismatched:
		s.setMessage("No match.", true)
	case state.EventSessionCompleted:
		s.setMessage(fmt.Sprintf("Solved in %d attempts and %ds.", ev.Attempts, ev.Result.ElapsedSeconds), false)
	case state.EventExitRequested:
		s.QuitNextCycle = true
	}
}
