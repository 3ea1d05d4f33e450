// Package score turns a solve into a 0-100 final score.
package score

import (
	"time"

	"hotandcold/internal/domain"
)

// Strategy computes a final score from how the challenge was solved. It must
// be deterministic and side-effect free, and faster solves with fewer guesses
// and hints never score lower than slower, more effortful ones.
type Strategy interface {
	Calculate(solveTime time.Duration, totalGuesses, totalHints int) domain.ScoreExplanation
}

const version = "v1"

// Point budgets per component. They sum to 100 so a one-guess, zero-hint solve
// inside the fastest time band earns a perfect score.
const (
	maxTimePoints  = 40
	maxGuessPoints = 40
	maxHintPoints  = 20

	guessCost = 2
	hintCost  = 7
)

// Default is the standard scoring strategy.
type Default struct{}

// NewDefault returns the standard scoring strategy.
func NewDefault() Default {
	return Default{}
}

// Calculate scores a solve. Time is scored in bands rather than linearly so a
// perfect time score stays achievable; every guess beyond the first and every
// hint taken costs a fixed amount from its component's budget.
func (Default) Calculate(solveTime time.Duration, totalGuesses, totalHints int) domain.ScoreExplanation {
	timePoints := timeBandPoints(solveTime)

	guessPoints := maxGuessPoints
	if totalGuesses > 1 {
		guessPoints -= guessCost * (totalGuesses - 1)
	}
	if guessPoints < 0 {
		guessPoints = 0
	}

	hintPoints := maxHintPoints - hintCost*totalHints
	if hintPoints < 0 {
		hintPoints = 0
	}

	final := timePoints + guessPoints + hintPoints
	if final > 100 {
		final = 100
	}
	if final < 0 {
		final = 0
	}

	return domain.ScoreExplanation{
		Version:     version,
		TimePoints:  timePoints,
		GuessPoints: guessPoints,
		HintPoints:  hintPoints,
		FinalScore:  final,
	}
}

func timeBandPoints(solveTime time.Duration) int {
	switch {
	case solveTime < 30*time.Second:
		return maxTimePoints
	case solveTime < 2*time.Minute:
		return 34
	case solveTime < 5*time.Minute:
		return 27
	case solveTime < 15*time.Minute:
		return 18
	case solveTime < time.Hour:
		return 10
	default:
		return 4
	}
}

var _ Strategy = Default{}
