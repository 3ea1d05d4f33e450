package ports

import (
	"context"
	"errors"

	"hotandcold/internal/domain"
)

// ErrChallengeNotFound indicates the requested challenge was never created.
var ErrChallengeNotFound = errors.New("challenge not found")

// ErrVersionConflict indicates an optimistic write lost a race and the
// read-modify-write cycle should be re-run from a fresh read.
var ErrVersionConflict = errors.New("storage version conflict")

// CounterField names one of the per-challenge aggregate counters.
type CounterField string

const (
	CounterTotalGuesses CounterField = "totalGuesses"
	CounterTotalPlayers CounterField = "totalPlayers"
	CounterTotalSolves  CounterField = "totalSolves"
	CounterTotalHints   CounterField = "totalHints"
	CounterTotalGiveUps CounterField = "totalGiveUps"
)

// ChallengeStore persists challenges, their aggregate counters, and the
// pointer to the current day's challenge.
type ChallengeStore interface {
	// GetChallenge returns the challenge or ErrChallengeNotFound.
	GetChallenge(ctx context.Context, number int) (domain.Challenge, error)

	// CreateChallenge persists a brand new challenge. It fails if the
	// challenge number already exists.
	CreateChallenge(ctx context.Context, ch domain.Challenge) error

	// IncrementCounter atomically adds delta to one aggregate counter,
	// independently of any per-user write. Concurrent increments from
	// different users must never be lost.
	IncrementCounter(ctx context.Context, number int, field CounterField, delta int) error

	// CurrentChallengeNumber returns the live challenge number, or 0 when no
	// challenge has been created yet.
	CurrentChallengeNumber(ctx context.Context) (int, error)

	// SetCurrentChallengeNumber moves the live challenge pointer.
	SetCurrentChallengeNumber(ctx context.Context, number int) error
}

// LedgerEntry is a user's challenge record plus the storage version stamp that
// guards its compare-and-swap writes.
type LedgerEntry struct {
	domain.UserChallenge
	Version string
}

// GuessLedger persists per-(challenge, user) guess records.
type GuessLedger interface {
	// GetOrInit loads the entry, lazily creating an empty record on first
	// interaction. The returned Version must be passed back through Put.
	GetOrInit(ctx context.Context, challenge int, username string) (LedgerEntry, error)

	// Put writes the entry if its Version still matches the stored object and
	// returns the new version stamp, otherwise returns ErrVersionConflict.
	Put(ctx context.Context, challenge int, entry LedgerEntry) (string, error)
}

// PlayerRegistry tracks which players have participated in a challenge.
type PlayerRegistry interface {
	// AddPlayer registers the player for the challenge. It reports whether
	// the player was newly added; re-registration is a no-op.
	AddPlayer(ctx context.Context, challenge int, player domain.PlayerProfile) (bool, error)

	// Players lists all registered players for the challenge.
	Players(ctx context.Context, challenge int) ([]domain.PlayerProfile, error)
}
