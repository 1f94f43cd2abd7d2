package scoring

import (
	"go-match/internal/config"
)

// Score table: every session starts from baseScore and loses points per
// elapsed second and per attempt, floored at zero before the difficulty
// multiplier is applied.
const (
	baseScore      = 1000
	secondPenalty  = 10
	attemptPenalty = 5
)

// Result is the immutable outcome of a completed session.
type Result struct {
	Difficulty     config.Difficulty `json:"difficulty"`
	Attempts       int               `json:"attempts"`
	ElapsedSeconds int               `json:"elapsedSeconds"`
	Score          int               `json:"score"`
}

// Calculate returns the score for a finished board. It has no side effects,
// so calling it again with the same inputs yields the same value.
func Calculate(elapsedSeconds, attempts int, d config.Difficulty) int {
	raw := baseScore - secondPenalty*elapsedSeconds - attemptPenalty*attempts
	return max(0, raw) * config.Multiplier(d)
}

// NewResult scores a session and freezes the inputs alongside the score.
func NewResult(d config.Difficulty, attempts, elapsedSeconds int) Result {
	return Result{
		Difficulty:     d,
		Attempts:       attempts,
		ElapsedSeconds: elapsedSeconds,
		Score:          Calculate(elapsedSeconds, attempts, d),
	}
}

// ElapsedMs is the elapsed time reported in completion notifications.
func (r Result) ElapsedMs() int64 {
	return int64(r.ElapsedSeconds) * 1000
}
