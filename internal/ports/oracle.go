package ports

import (
	"context"

	"hotandcold/internal/domain"
)

// Comparison is the similarity oracle's verdict for one (secret, guess) pair.
// The oracle lemmatizes the guessed word; Lemma is the form callers must use
// for deduplication and storage, never the raw input.
type Comparison struct {
	Lemma      string
	Similarity float64
	// Known is false when the guessed word is outside the oracle's
	// vocabulary. Similarity is meaningless in that case.
	Known bool
}

// SimilarityOracle exposes the external word-embedding service.
type SimilarityOracle interface {
	// Compare scores guessWord against secretWord.
	Compare(ctx context.Context, secretWord, guessWord string) (Comparison, error)

	// NearestWords fetches the precomputed neighbor table for a word.
	NearestWords(ctx context.Context, word string) (domain.NeighborTable, error)
}
