package domain

import "github.com/samber/lo"

// Guess is a single scored guess. Word is always the lemma-normalized form
// returned by the similarity oracle; at most one Guess per distinct lemma may
// exist in a player's record.
type Guess struct {
	Word                 string  `json:"word"`
	Timestamp            int64   `json:"timestamp"`
	Similarity           float64 `json:"similarity"`
	NormalizedSimilarity int     `json:"normalizedSimilarity"`
	// Rank is 0 for the secret word itself, 1..N for a position in the
	// precomputed neighbor list, and -1 for anything not close.
	Rank   int  `json:"rank"`
	IsHint bool `json:"isHint"`
}

// Heat buckets a guess for display and announcements.
type Heat string

const (
	HeatCold Heat = "COLD"
	HeatWarm Heat = "WARM"
	HeatHot  Heat = "HOT"
)

// Heat maps the normalized similarity onto the cold/warm/hot bands shown to players.
func (g Guess) Heat() Heat {
	switch {
	case g.NormalizedSimilarity >= 80:
		return HeatHot
	case g.NormalizedSimilarity >= 40:
		return HeatWarm
	default:
		return HeatCold
	}
}

// FindGuess returns the recorded guess for the given lemma, if any.
func FindGuess(guesses []Guess, word string) (Guess, bool) {
	return lo.Find(guesses, func(g Guess) bool { return g.Word == word })
}

// AppendGuess appends g and applies the repair filter for a historical
// corruption case: entries that carry the secret word but were scored on a
// different word's similarity. The filter runs on every write so the stored
// list self-heals no matter where the write originates.
func AppendGuess(guesses []Guess, g Guess, secretWord string) []Guess {
	repaired := append(append(make([]Guess, 0, len(guesses)+1), guesses...), g)
	return lo.Filter(repaired, func(x Guess, _ int) bool {
		return !(x.Word == secretWord && x.Similarity != 1)
	})
}

// CountHints returns how many of the guesses were hints.
func CountHints(guesses []Guess) int {
	return lo.CountBy(guesses, func(g Guess) bool { return g.IsHint })
}

// BestProgress is the best normalized similarity achieved by non-hint guesses.
// Hints never raise a player's displayed progress.
func BestProgress(guesses []Guess) int {
	earned := lo.Filter(guesses, func(g Guess, _ int) bool { return !g.IsHint })
	if len(earned) == 0 {
		return 0
	}
	best := lo.MaxBy(earned, func(a, b Guess) bool {
		return a.NormalizedSimilarity > b.NormalizedSimilarity
	})
	return best.NormalizedSimilarity
}

// ColdestGuess is the lowest-scoring guess in the list.
func ColdestGuess(guesses []Guess) Guess {
	return lo.MinBy(guesses, func(a, b Guess) bool {
		return a.NormalizedSimilarity < b.NormalizedSimilarity
	})
}

// AverageHeat is the rounded mean normalized similarity over all guesses.
func AverageHeat(guesses []Guess) int {
	if len(guesses) == 0 {
		return 0
	}
	sum := lo.SumBy(guesses, func(g Guess) int { return g.NormalizedSimilarity })
	return (sum + len(guesses)/2) / len(guesses)
}
