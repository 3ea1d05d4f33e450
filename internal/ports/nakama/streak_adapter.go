package nakama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"

	"hotandcold/internal/domain"
	"hotandcold/internal/ports"
)

// StreakAdapter implements ports.StreakTracker as one user-owned storage
// object per account, advanced under a compare-and-swap loop.
type StreakAdapter struct {
	nk runtime.NakamaModule
}

// NewStreakAdapter creates a new streak tracker adapter.
func NewStreakAdapter(nk runtime.NakamaModule) *StreakAdapter {
	return &StreakAdapter{nk: nk}
}

// IncrementEntry records a solve of the given challenge and returns the
// updated streak. The reset-on-missed-day policy lives in domain.Streak.
func (a *StreakAdapter) IncrementEntry(ctx context.Context, userID, username string, challenge int) (domain.Streak, error) {
	for attempt := 0; attempt < casAttempts; attempt++ {
		value, version, err := readObject(ctx, a.nk, streakCollection, streakKey, userID)
		if err != nil {
			return domain.Streak{}, err
		}

		st := domain.Streak{Username: username}
		if value != "" {
			if err := json.Unmarshal([]byte(value), &st); err != nil {
				return domain.Streak{}, fmt.Errorf("failed to unmarshal streak for %s: %w", username, err)
			}
			st.Username = username
		}

		advanced := st.Advance(challenge)
		encoded, err := json.Marshal(advanced)
		if err != nil {
			return domain.Streak{}, fmt.Errorf("failed to marshal streak for %s: %w", username, err)
		}

		if version == "" {
			version = "*"
		}
		_, err = writeObject(ctx, a.nk, streakCollection, streakKey, userID, string(encoded), version)
		if errors.Is(err, ports.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return domain.Streak{}, err
		}
		return advanced, nil
	}
	return domain.Streak{}, fmt.Errorf("increment streak for %s: %w", username, ports.ErrVersionConflict)
}

// GetStreak returns the user's streak, zero-valued if none exists.
func (a *StreakAdapter) GetStreak(ctx context.Context, userID string) (domain.Streak, error) {
	value, _, err := readObject(ctx, a.nk, streakCollection, streakKey, userID)
	if err != nil {
		return domain.Streak{}, err
	}
	if value == "" {
		return domain.Streak{}, nil
	}

	var st domain.Streak
	if err := json.Unmarshal([]byte(value), &st); err != nil {
		return domain.Streak{}, fmt.Errorf("failed to unmarshal streak: %w", err)
	}
	return st, nil
}

var _ ports.StreakTracker = (*StreakAdapter)(nil)
