package ports

import (
	"context"

	"hotandcold/internal/domain"
)

// StreakTracker persists per-user consecutive-day solve counters.
type StreakTracker interface {
	// IncrementEntry records a solve of the given challenge and returns the
	// updated streak. Callers only invoke this for the current day's
	// challenge; the reset-on-missed-day policy lives in domain.Streak.
	IncrementEntry(ctx context.Context, userID, username string, challenge int) (domain.Streak, error)

	// GetStreak returns the user's streak, zero-valued if none exists.
	GetStreak(ctx context.Context, userID string) (domain.Streak, error)
}
