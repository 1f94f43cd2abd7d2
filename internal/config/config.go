package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the runtime settings of the game.
type Config struct {
	Difficulty    Difficulty
	Seed          uint64 // 0 picks a seed from the wall clock
	MatchDelay    time.Duration
	MismatchDelay time.Duration
	TickInterval  time.Duration
	SymbolsFile   string // optional custom alphabet
	LogFile       string // empty disables logging
	LogLevel      string
}

// Defaults returns a Config matching the browser game's timings.
func Defaults() *Config {
	return &Config{
		Difficulty:    Easy,
		MatchDelay:    500 * time.Millisecond,
		MismatchDelay: time.Second,
		TickInterval:  time.Second,
		LogLevel:      "info",
	}
}

// Load starts from Defaults, reads an optional .env file from the working
// directory and applies MATCH_* environment overrides. Variables already set
// in the environment win over the .env file.
func Load() (*Config, error) {
	cfg := Defaults()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("could not read .env: %w", err)
	}

	var errs []error
	if v := os.Getenv("MATCH_DIFFICULTY"); v != "" {
		d, err := ParseDifficulty(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("MATCH_DIFFICULTY: %w", err))
		} else {
			cfg.Difficulty = d
		}
	}
	if v := os.Getenv("MATCH_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("MATCH_SEED: %w", err))
		} else {
			cfg.Seed = seed
		}
	}
	errs = append(errs,
		overrideMillis(&cfg.MatchDelay, "MATCH_MATCH_DELAY_MS"),
		overrideMillis(&cfg.MismatchDelay, "MATCH_MISMATCH_DELAY_MS"),
		overrideMillis(&cfg.TickInterval, "MATCH_TICK_MS"),
	)
	overrideString(&cfg.SymbolsFile, "MATCH_SYMBOLS_FILE")
	overrideString(&cfg.LogFile, "MATCH_LOG_FILE")
	overrideString(&cfg.LogLevel, "MATCH_LOG_LEVEL")

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings the game cannot run with.
func (c *Config) Validate() error {
	if _, err := Lookup(c.Difficulty); err != nil {
		return err
	}
	if c.MatchDelay < 0 || c.MismatchDelay < 0 {
		return fmt.Errorf("resolution delays must not be negative")
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick interval must be positive, got %s", c.TickInterval)
	}
	return nil
}

func overrideMillis(field *time.Duration, envKey string) error {
	val := os.Getenv(envKey)
	if val == "" {
		return nil
	}
	ms, err := strconv.Atoi(val)
	if err != nil {
		return fmt.Errorf("%s: invalid value %q: %w", envKey, val, err)
	}
	*field = time.Duration(ms) * time.Millisecond
	return nil
}

func overrideString(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}
