package app

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadySolved rejects guesses made after the player has won.
	ErrAlreadySolved = errors.New("you already solved this challenge")

	// ErrAlreadyGaveUp rejects guesses made after the player gave up.
	ErrAlreadyGaveUp = errors.New("you already gave up on this challenge")

	// ErrSolvedWithoutStart flags a data-integrity incident: a winning guess
	// on a record with no start time. A solve cannot occur before a start.
	ErrSolvedWithoutStart = errors.New("challenge solved without a recorded start")

	// ErrNoHintAvailable means every usable neighbor has been guessed already.
	ErrNoHintAvailable = errors.New("no hint available")
)

// DuplicateGuessError rejects a lemma the player has already tried. The
// message differs depending on whether the raw input was itself rewritten by
// lemmatization, so players understand why an unfamiliar-looking guess counts
// as a repeat.
type DuplicateGuessError struct {
	Word                 string
	NormalizedSimilarity int
	Rewritten            bool
}

func (e *DuplicateGuessError) Error() string {
	if e.Rewritten {
		return fmt.Sprintf("We changed your guess to %s (%d%%) and you've already tried that.", e.Word, e.NormalizedSimilarity)
	}
	return fmt.Sprintf("You've already guessed %s (%d%%).", e.Word, e.NormalizedSimilarity)
}

// UnknownWordError rejects a guess outside the oracle's vocabulary. This is an
// expected user-facing outcome, never a zero score.
type UnknownWordError struct {
	Word string
}

func (e *UnknownWordError) Error() string {
	// Keeping an old easter egg: "word" once slipped through a broken import
	// as the only recognized word.
	if e.Word == "word" {
		return "C'mon, you can do better than that!"
	}
	return "Sorry, I'm not familiar with that word."
}

// ExternalServiceError wraps a failure talking to the similarity oracle. The
// submission fails whole with no partial write; retry belongs to the caller.
type ExternalServiceError struct {
	Op  string
	Err error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("similarity oracle %s failed: %v", e.Op, e.Err)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}
