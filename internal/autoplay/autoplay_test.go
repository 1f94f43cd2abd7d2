package autoplay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-match/internal/config"
	"go-match/internal/deal"
	"go-match/internal/game"
	"go-match/internal/sched"
	"go-match/internal/scoring"
	"go-match/internal/state"
)

func newGame(seed uint64) (*game.Game, *sched.Manual) {
	clock := sched.NewManual(time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC))
	g := game.New(state.Options{
		Scheduler:     clock,
		Rand:          deal.NewRand(seed),
		MatchDelay:    500 * time.Millisecond,
		MismatchDelay: time.Second,
		TickInterval:  time.Second,
	})
	return g, clock
}

func TestRun_PerfectRecall(t *testing.T) {
	for _, d := range config.Difficulties() {
		t.Run(string(d), func(t *testing.T) {
			g, clock := newGame(11)
			level, err := config.Lookup(d)
			require.NoError(t, err)

			res, err := Run(g, clock, NewPlayer(1, deal.NewRand(3)), d)
			require.NoError(t, err)

			assert.Equal(t, level.PairCount, res.Attempts)
			assert.Equal(t, d, res.Difficulty)
			assert.Equal(t, scoring.Calculate(res.ElapsedSeconds, res.Attempts, d), res.Score)
			assert.Equal(t, state.PhaseEnded, g.Phase())
		})
	}
}

func TestRun_PerfectRecallEasyScore(t *testing.T) {
	g, clock := newGame(1)
	p := NewPlayer(1, nil)
	p.Think = 0

	res, err := Run(g, clock, p, config.Easy)
	require.NoError(t, err)

	// Six matches back to back, each resolved 500ms after its pair.
	assert.Equal(t, 6, res.Attempts)
	assert.Equal(t, 3, res.ElapsedSeconds)
	assert.Equal(t, 940, res.Score)
}

func TestRun_NoRecallStillFinishes(t *testing.T) {
	g, clock := newGame(99)

	res, err := Run(g, clock, NewPlayer(0, deal.NewRand(5)), config.Hard)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, res.Attempts, 12)
	assert.Equal(t, 1, g.History.Plays(config.Hard))
}

func TestRun_RepeatedGamesShareHistory(t *testing.T) {
	g, clock := newGame(4)
	p := NewPlayer(0.5, deal.NewRand(8))

	for i := 0; i < 5; i++ {
		_, err := Run(g, clock, p, config.Medium)
		require.NoError(t, err)
	}
	assert.Equal(t, 5, g.History.Plays(config.Medium))
	assert.Len(t, g.History.Top(config.Medium, 3), 3)
}

func TestRun_InvalidConfiguration(t *testing.T) {
	clock := sched.NewManual(time.Now())
	g := game.New(state.Options{Scheduler: clock, Alphabet: []string{"x", "y"}})

	_, err := Run(g, clock, NewPlayer(1, nil), config.Easy)
	assert.ErrorIs(t, err, deal.ErrInvalidConfiguration)
}
