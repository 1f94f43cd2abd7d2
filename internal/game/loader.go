package game

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrInvalidAlphabet is returned for alphabet files that cannot be used.
var ErrInvalidAlphabet = errors.New("invalid alphabet")

// LoadAlphabet reads tile symbols from path, one per line. Blank lines and
// lines starting with # are skipped. Every symbol must be unique.
func LoadAlphabet(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open alphabet %s: %w", path, err)
	}
	defer file.Close()

	var symbols []string
	seen := make(map[string]int)
	line := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line++
		sym := strings.TrimSpace(scanner.Text())
		if sym == "" || strings.HasPrefix(sym, "#") {
			continue
		}
		if first, dup := seen[sym]; dup {
			return nil, fmt.Errorf("%w: %s:%d repeats %q from line %d", ErrInvalidAlphabet, path, line, sym, first)
		}
		seen[sym] = line
		symbols = append(symbols, sym)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan alphabet %s: %w", path, err)
	}

	if len(symbols) == 0 {
		return nil, fmt.Errorf("%w: %s has no symbols", ErrInvalidAlphabet, path)
	}
	return symbols, nil
}
