package state

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-match/internal/board"
	"go-match/internal/config"
	"go-match/internal/deal"
	"go-match/internal/sched"
)

var epoch = time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)

// recorder captures notifications for assertions.
type recorder struct {
	events []Event
}

func (r *recorder) notify(ev Event) {
	r.events = append(r.events, ev)
}

func (r *recorder) count(t EventType) int {
	n := 0
	for _, ev := range r.events {
		if ev.Type == t {
			n++
		}
	}
	return n
}

func (r *recorder) last(t EventType) *Event {
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Type == t {
			return &r.events[i]
		}
	}
	return nil
}

func newTestSession(t *testing.T, d config.Difficulty) (*Session, *sched.Manual, *recorder) {
	t.Helper()
	clock := sched.NewManual(epoch)
	rec := &recorder{}
	s, err := NewSession(uuid.New(), d, Options{
		Scheduler:     clock,
		Rand:          deal.NewRand(42),
		MatchDelay:    500 * time.Millisecond,
		MismatchDelay: time.Second,
		TickInterval:  time.Second,
		Notify:        rec.notify,
	})
	require.NoError(t, err)
	return s, clock, rec
}

// startPlaying starts s and waits out the preview.
func startPlaying(t *testing.T, s *Session, clock *sched.Manual) {
	t.Helper()
	require.NoError(t, s.Start(context.Background()))
	clock.Advance(time.Duration(s.Level.PreviewSeconds) * time.Second)
	require.Equal(t, PhasePlaying, s.Phase())
}

func pairIndices(b *board.Board) [][2]int {
	seen := make(map[string]int)
	var out [][2]int
	for i, tile := range b.Tiles {
		if j, ok := seen[tile.Symbol]; ok {
			out = append(out, [2]int{j, i})
			continue
		}
		seen[tile.Symbol] = i
	}
	return out
}

func mismatchedPair(b *board.Board) (int, int) {
	for i := 1; i < len(b.Tiles); i++ {
		if b.Tiles[i].Symbol != b.Tiles[0].Symbol {
			return 0, i
		}
	}
	return 0, 0
}

func TestNewSession_InvalidConfiguration(t *testing.T) {
	_, err := NewSession(uuid.New(), config.Hard, Options{
		Scheduler: sched.NewManual(epoch),
		Alphabet:  []string{"a", "b", "c"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, deal.ErrInvalidConfiguration)

	_, err = NewSession(uuid.New(), "legendary", Options{Scheduler: sched.NewManual(epoch)})
	assert.ErrorIs(t, err, config.ErrUnknownDifficulty)
}

func TestSession_PreviewCountdown(t *testing.T) {
	s, clock, rec := newTestSession(t, config.Easy)
	assert.Equal(t, PhaseIdle, s.Phase())

	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, PhasePreviewing, s.Phase())
	require.NotNil(t, s.Board)
	assert.Len(t, s.Board.Tiles, 12)
	assert.Equal(t, 5, s.PreviewRemaining())

	// Selections during the preview do nothing.
	s.Select(0)
	assert.Equal(t, board.Hidden, s.Board.Tiles[0].Status)
	assert.Zero(t, rec.count(EventTileFlipped))

	clock.Advance(4 * time.Second)
	assert.Equal(t, PhasePreviewing, s.Phase())
	assert.Equal(t, 1, s.PreviewRemaining())

	clock.Advance(time.Second)
	assert.Equal(t, PhasePlaying, s.Phase())
	assert.Equal(t, 1, rec.count(EventPreviewStarted))
	assert.Equal(t, 5, rec.count(EventPreviewTick))
	assert.Equal(t, 1, rec.count(EventPlayStarted))
	assert.Equal(t, 0, rec.last(EventPreviewTick).Remaining)

	// The stopwatch waits for the first flip, not the end of the preview.
	assert.False(t, s.Started())
	clock.Advance(3 * time.Second)
	assert.Zero(t, s.Elapsed())
	assert.Zero(t, rec.count(EventSessionStarted))
}

func TestSession_CorrectPair(t *testing.T) {
	s, clock, rec := newTestSession(t, config.Easy)
	startPlaying(t, s, clock)

	p := pairIndices(s.Board)[0]
	s.Select(p[0])
	assert.True(t, s.Started())
	assert.Equal(t, 1, rec.count(EventSessionStarted))

	s.Select(p[1])
	assert.Equal(t, 1, s.Board.Attempts)
	assert.Zero(t, s.Board.MatchedPairs, "match resolves after the display delay")

	clock.Advance(499 * time.Millisecond)
	assert.Zero(t, s.Board.MatchedPairs)

	clock.Advance(time.Millisecond)
	assert.Equal(t, 1, s.Board.MatchedPairs)
	assert.Equal(t, board.Matched, s.Board.Tiles[p[0]].Status)
	assert.Equal(t, board.Matched, s.Board.Tiles[p[1]].Status)

	ev := rec.last(EventPairMatched)
	require.NotNil(t, ev)
	assert.Equal(t, 1, ev.PairsFound)
	assert.Equal(t, 1, ev.Attempts)
	assert.Equal(t, s.ID, ev.SessionID)
}

func TestSession_IncorrectPair(t *testing.T) {
	s, clock, rec := newTestSession(t, config.Easy)
	startPlaying(t, s, clock)

	a, b := mismatchedPair(s.Board)
	s.Select(a)
	s.Select(b)
	assert.Equal(t, 1, s.Board.Attempts)

	// A third tile is rejected while the pair is pending.
	third := -1
	for i := range s.Board.Tiles {
		if i != a && i != b {
			third = i
			break
		}
	}
	s.Select(third)
	assert.Equal(t, board.Hidden, s.Board.Tiles[third].Status)
	assert.Equal(t, 1, s.Board.Attempts)

	clock.Advance(time.Second)
	assert.Equal(t, board.Hidden, s.Board.Tiles[a].Status)
	assert.Equal(t, board.Hidden, s.Board.Tiles[b].Status)
	assert.Zero(t, s.Board.MatchedPairs)
	assert.Equal(t, 1, rec.count(EventPairMismatched))
	assert.Zero(t, rec.count(EventPairMatched))
}

func TestSession_IgnoredSelectionsKeepCounters(t *testing.T) {
	s, clock, rec := newTestSession(t, config.Easy)
	startPlaying(t, s, clock)

	p := pairIndices(s.Board)[0]
	s.Select(p[0])
	s.Select(p[0])
	assert.Zero(t, s.Board.Attempts)
	s.Select(p[1])
	clock.Advance(time.Second)

	flips := rec.count(EventTileFlipped)
	s.Select(p[0])
	s.Select(p[1])
	s.Select(99)
	assert.Equal(t, 1, s.Board.Attempts)
	assert.Equal(t, 1, s.Board.MatchedPairs)
	assert.Equal(t, flips, rec.count(EventTileFlipped), "ignored selections send no notification")
}

func TestSession_CompleteGame(t *testing.T) {
	s, clock, rec := newTestSession(t, config.Easy)
	startPlaying(t, s, clock)

	pairs := pairIndices(s.Board)
	require.Len(t, pairs, 6)

	for _, p := range pairs[:5] {
		s.Select(p[0])
		s.Select(p[1])
		clock.Advance(500 * time.Millisecond)
	}
	assert.Equal(t, PhasePlaying, s.Phase())

	clock.Advance(7 * time.Second)
	last := pairs[5]
	s.Select(last[0])
	s.Select(last[1])
	clock.Advance(500 * time.Millisecond)

	require.Equal(t, PhaseEnded, s.Phase())
	res, ok := s.Result()
	require.True(t, ok)
	assert.Equal(t, 6, res.Attempts)
	assert.Equal(t, 10, res.ElapsedSeconds)
	assert.Equal(t, 870, res.Score)

	ev := rec.last(EventSessionCompleted)
	require.NotNil(t, ev)
	assert.Equal(t, 6, ev.Attempts)
	assert.Equal(t, int64(10000), ev.ElapsedMs())
	assert.Equal(t, 870, ev.Score())
	assert.Equal(t, config.Easy, ev.Difficulty)
	assert.Equal(t, 6, rec.count(EventPairMatched))

	// Frozen once ended.
	clock.Advance(time.Minute)
	assert.Equal(t, 10, s.Elapsed())
	assert.Equal(t, 1, rec.count(EventSessionCompleted))
	assert.Zero(t, clock.Pending())
}

func TestSession_ElapsedMonotonicWhilePlaying(t *testing.T) {
	s, clock, rec := newTestSession(t, config.Medium)
	startPlaying(t, s, clock)

	s.Select(0)
	prev := 0
	for i := 0; i < 20; i++ {
		clock.Advance(300 * time.Millisecond)
		require.GreaterOrEqual(t, s.Elapsed(), prev)
		prev = s.Elapsed()
	}
	assert.Equal(t, 6, s.Elapsed())
	assert.Equal(t, 6, rec.count(EventTimerTick))
}

func TestSession_ResetCancelsPendingWork(t *testing.T) {
	s, clock, rec := newTestSession(t, config.Easy)
	startPlaying(t, s, clock)

	a, b := mismatchedPair(s.Board)
	s.Select(a)
	s.Select(b)
	s.Reset(context.Background())

	assert.Equal(t, PhaseIdle, s.Phase())
	assert.Nil(t, s.Board)
	assert.False(t, s.Started())
	assert.Zero(t, s.Elapsed())
	assert.Zero(t, clock.Pending(), "reset must cancel the resolution and the stopwatch")

	clock.Advance(time.Minute)
	assert.Zero(t, rec.count(EventPairMismatched))
	assert.Zero(t, rec.count(EventTimerTick))
}

func TestSession_ResetDuringPreview(t *testing.T) {
	s, clock, rec := newTestSession(t, config.Hard)
	require.NoError(t, s.Start(context.Background()))
	clock.Advance(time.Second)

	s.Reset(context.Background())
	clock.Advance(time.Minute)

	assert.Equal(t, PhaseIdle, s.Phase())
	assert.Zero(t, rec.count(EventPlayStarted))

	// An idle session can be started again with a fresh deal.
	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, PhasePreviewing, s.Phase())
	assert.Len(t, s.Board.Tiles, 24)
}

func TestSession_ReplayAfterEnd(t *testing.T) {
	s, clock, _ := newTestSession(t, config.Easy)
	startPlaying(t, s, clock)
	for _, p := range pairIndices(s.Board) {
		s.Select(p[0])
		s.Select(p[1])
		clock.Advance(time.Second)
	}
	require.Equal(t, PhaseEnded, s.Phase())

	s.Reset(context.Background())
	assert.Equal(t, PhaseIdle, s.Phase())
	_, ok := s.Result()
	assert.False(t, ok)
}

func TestSession_ResultCannotBeChangedByListeners(t *testing.T) {
	s, clock, rec := newTestSession(t, config.Easy)
	startPlaying(t, s, clock)
	for _, p := range pairIndices(s.Board) {
		s.Select(p[0])
		s.Select(p[1])
		clock.Advance(time.Second)
	}
	require.Equal(t, PhaseEnded, s.Phase())

	want, ok := s.Result()
	require.True(t, ok)

	ev := rec.last(EventSessionCompleted)
	require.NotNil(t, ev)
	ev.Result.Score = -1
	got, _ := s.Result()
	got.Attempts = 999

	res, _ := s.Result()
	assert.Equal(t, want, res)
}

func TestSession_CloseRetires(t *testing.T) {
	s, clock, rec := newTestSession(t, config.Easy)
	require.NoError(t, s.Start(context.Background()))
	s.Close()

	assert.True(t, s.Closed())
	assert.ErrorIs(t, s.Start(context.Background()), ErrClosed)

	before := len(rec.events)
	clock.Advance(time.Minute)
	s.Select(0)
	assert.Len(t, rec.events, before)
}

func TestSession_ZeroDelayResolvesImmediately(t *testing.T) {
	clock := sched.NewManual(epoch)
	s, err := NewSession(uuid.New(), config.Easy, Options{Scheduler: clock, Rand: deal.NewRand(5)})
	require.NoError(t, err)
	startPlaying(t, s, clock)

	p := pairIndices(s.Board)[0]
	s.Select(p[0])
	s.Select(p[1])
	assert.Equal(t, 1, s.Board.MatchedPairs)
	assert.False(t, s.Board.Pending())
}

func TestPhase_Helpers(t *testing.T) {
	tests := []struct {
		phase     Phase
		accepting bool
		active    bool
	}{
		{PhaseIdle, false, false},
		{PhasePreviewing, false, true},
		{PhasePlaying, true, true},
		{PhaseEnded, false, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.accepting, tt.phase.Accepting(), "%s accepting", tt.phase)
		assert.Equal(t, tt.active, tt.phase.Active(), "%s active", tt.phase)
	}
}
