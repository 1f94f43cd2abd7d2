package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"go-match/internal/autoplay"
	"go-match/internal/config"
	"go-match/internal/deal"
	"go-match/internal/game"
	"go-match/internal/sched"
	"go-match/internal/scoring"
	"go-match/internal/state"
)

type strictIntFlag int

func (i *strictIntFlag) String() string {
	return fmt.Sprint(int(*i))
}

func (i *strictIntFlag) Set(s string) error {
	if s == "true" {
		return fmt.Errorf("value required (format: -flag=value)")
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	if v < 0 {
		return fmt.Errorf("must not be negative, got %d", v)
	}
	*i = strictIntFlag(v)
	return nil
}

func (i *strictIntFlag) IsBoolFlag() bool { return true }

// newLogger writes JSON logs to cfg.LogFile. The terminal belongs to the UI,
// so without a log file nothing is logged.
func newLogger(cfg *config.Config) (zerolog.Logger, io.Closer, error) {
	if cfg.LogFile == "" {
		return zerolog.Nop(), io.NopCloser(nil), nil
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := zerolog.New(f).Level(level).With().Timestamp().Str("app", "go-match").Logger()
	return logger, f, nil
}

// simulate plays n sessions with a simulated player and prints score
// statistics.
func simulate(cfg *config.Config, opts state.Options, n int, recall float64) error {
	clock := sched.NewManual(time.Now())
	opts.Scheduler = clock
	g := game.New(opts)
	player := autoplay.NewPlayer(recall, deal.NewRand(deal.DeriveSeed(cfg.Seed)))

	var totalScore, totalAttempts, totalSeconds int
	worst := -1
	for i := 0; i < n; i++ {
		res, err := autoplay.Run(g, clock, player, cfg.Difficulty)
		if err != nil {
			return fmt.Errorf("simulated game %d: %w", i+1, err)
		}
		totalScore += res.Score
		totalAttempts += res.Attempts
		totalSeconds += res.ElapsedSeconds
		if worst < 0 || res.Score < worst {
			worst = res.Score
		}
	}

	best := g.History.Best(cfg.Difficulty)
	fmt.Println(boldStyle.Render(fmt.Sprintf("%d %s games, recall %.2f", n, cfg.Difficulty.Title(), recall)))
	fmt.Println(scoreStyle.Render(fmt.Sprintf("SCORE: avg %d | best %d | worst %d",
		totalScore/n, best.Score, worst)))
	fmt.Printf("ATTEMPTS: avg %.1f | TIME: avg %.1fs\n",
		float64(totalAttempts)/float64(n), float64(totalSeconds)/float64(n))
	fmt.Println("Top 5:")
	for _, entry := range g.History.Top(cfg.Difficulty, 5) {
		fmt.Println(formatEntry(entry, false))
	}
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	var nSimulate strictIntFlag
	var recall float64

	flag.Var(&cfg.Difficulty, "difficulty", "Difficulty to preselect: easy, medium or hard")
	flag.Var(&cfg.Difficulty, "d", "Difficulty to preselect (shorthand)")

	flag.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Seed for dealing boards (0 = random)")
	flag.StringVar(&cfg.SymbolsFile, "symbols", cfg.SymbolsFile, "File with one tile symbol per line")
	flag.DurationVar(&cfg.MatchDelay, "match-delay", cfg.MatchDelay, "How long a matched pair stays up before it locks")
	flag.DurationVar(&cfg.MismatchDelay, "mismatch-delay", cfg.MismatchDelay, "How long a wrong pair stays up")

	flag.StringVar(&cfg.LogFile, "log", cfg.LogFile, "Write JSON logs to this file")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (trace, debug, info, warn, error)")

	flag.Var(&nSimulate, "simulate", "Play N games with a simulated player and print statistics")
	flag.Var(&nSimulate, "n", "Play N simulated games (shorthand)")
	flag.Float64Var(&recall, "recall", 0.6, "Chance the simulated player remembers a tile from the preview")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		fmt.Fprintf(os.Stderr, "   -d, --difficulty=NAME    Preselect easy, medium or hard\n")
		fmt.Fprintf(os.Stderr, "       --seed=N             Seed for dealing boards (0 = random)\n")
		fmt.Fprintf(os.Stderr, "       --symbols=FILE       Custom alphabet, one symbol per line\n")
		fmt.Fprintf(os.Stderr, "       --match-delay=D      Matched pair display time (default 500ms)\n")
		fmt.Fprintf(os.Stderr, "       --mismatch-delay=D   Wrong pair display time (default 1s)\n")
		fmt.Fprintf(os.Stderr, "       --log=FILE           Write JSON logs to FILE\n")
		fmt.Fprintf(os.Stderr, "       --log-level=LEVEL    trace, debug, info, warn or error\n")
		fmt.Fprintf(os.Stderr, "   -n, --simulate=N         Play N simulated games and print statistics\n")
		fmt.Fprintf(os.Stderr, "       --recall=P           Simulated preview recall, 0 to 1 (default 0.6)\n")
		fmt.Fprintf(os.Stderr, "   -h, --help               Show this help message\n")
		fmt.Fprintf(os.Stderr, "\nSettings can also come from MATCH_* environment variables or a .env file.\n")
	}

	flag.Parse()

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	// Resolved once: every generator derives from this seed.
	cfg.Seed = deal.ResolveSeed(cfg.Seed)

	logger, logCloser, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error setting up logging: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	opts := state.Options{
		Rand:          deal.NewRand(cfg.Seed),
		MatchDelay:    cfg.MatchDelay,
		MismatchDelay: cfg.MismatchDelay,
		TickInterval:  cfg.TickInterval,
		Logger:        logger,
	}
	if cfg.SymbolsFile != "" {
		opts.Alphabet, err = game.LoadAlphabet(cfg.SymbolsFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading symbols: %v\n", err)
			os.Exit(1)
		}
	}
	logger.Info().
		Str("difficulty", string(cfg.Difficulty)).
		Uint64("seed", cfg.Seed).
		Int("symbols", len(opts.Alphabet)).
		Msg("starting go-match")

	if nSimulate > 0 {
		if err := simulate(cfg, opts, int(nSimulate), recall); err != nil {
			logger.Error().Err(err).Msg("simulation failed")
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	model := initialModel(cfg, opts)
	p := tea.NewProgram(model)
	model.attach(p)
	if _, err := p.Run(); err != nil {
		logger.Error().Err(err).Msg("program exited")
		fmt.Printf("Error starting the program: %v\n", err)
	}

	if best := model.Game.History.Best(cfg.Difficulty); best != nil {
		fmt.Println(bestLine(best))
	}
}

func bestLine(best *scoring.Entry) string {
	return greenStyle.Render(fmt.Sprintf("Best %s score this run: %d", best.Difficulty.Title(), best.Score))
}
