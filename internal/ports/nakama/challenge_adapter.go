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

// ChallengeAdapter implements ports.ChallengeStore on Nakama storage.
// Aggregate counters use a compare-and-swap retry loop so concurrent
// different-user submissions never lose increments.
type ChallengeAdapter struct {
	nk runtime.NakamaModule
}

// NewChallengeAdapter creates a new challenge store adapter.
func NewChallengeAdapter(nk runtime.NakamaModule) *ChallengeAdapter {
	return &ChallengeAdapter{nk: nk}
}

// GetChallenge returns the stored challenge or ports.ErrChallengeNotFound.
func (a *ChallengeAdapter) GetChallenge(ctx context.Context, number int) (domain.Challenge, error) {
	value, _, err := readObject(ctx, a.nk, challengeCollection, challengeKey(number), "")
	if err != nil {
		return domain.Challenge{}, err
	}
	if value == "" {
		return domain.Challenge{}, fmt.Errorf("challenge %d: %w", number, ports.ErrChallengeNotFound)
	}

	var ch domain.Challenge
	if err := json.Unmarshal([]byte(value), &ch); err != nil {
		return domain.Challenge{}, fmt.Errorf("failed to unmarshal challenge %d: %w", number, err)
	}
	return ch, nil
}

// CreateChallenge persists a brand new challenge. The "*" version demands a
// fresh object, so re-creating an existing number fails.
func (a *ChallengeAdapter) CreateChallenge(ctx context.Context, ch domain.Challenge) error {
	value, err := json.Marshal(ch)
	if err != nil {
		return fmt.Errorf("failed to marshal challenge %d: %w", ch.Number, err)
	}

	if _, err := writeObject(ctx, a.nk, challengeCollection, challengeKey(ch.Number), "", string(value), "*"); err != nil {
		if errors.Is(err, ports.ErrVersionConflict) {
			return fmt.Errorf("challenge %d already exists", ch.Number)
		}
		return err
	}
	return nil
}

// IncrementCounter atomically adds delta to one aggregate counter via
// read-increment-write guarded by the storage version.
func (a *ChallengeAdapter) IncrementCounter(ctx context.Context, number int, field ports.CounterField, delta int) error {
	key := challengeKey(number)

	for attempt := 0; attempt < casAttempts; attempt++ {
		value, version, err := readObject(ctx, a.nk, challengeCollection, key, "")
		if err != nil {
			return err
		}
		if value == "" {
			return fmt.Errorf("challenge %d: %w", number, ports.ErrChallengeNotFound)
		}

		var ch domain.Challenge
		if err := json.Unmarshal([]byte(value), &ch); err != nil {
			return fmt.Errorf("failed to unmarshal challenge %d: %w", number, err)
		}
		if err := applyCounter(&ch, field, delta); err != nil {
			return err
		}

		updated, err := json.Marshal(ch)
		if err != nil {
			return fmt.Errorf("failed to marshal challenge %d: %w", number, err)
		}

		_, err = writeObject(ctx, a.nk, challengeCollection, key, "", string(updated), version)
		if errors.Is(err, ports.ErrVersionConflict) {
			continue
		}
		return err
	}
	return fmt.Errorf("increment %s on challenge %d: %w", field, number, ports.ErrVersionConflict)
}

// CurrentChallengeNumber returns the live challenge pointer, 0 when unset.
func (a *ChallengeAdapter) CurrentChallengeNumber(ctx context.Context) (int, error) {
	value, _, err := readObject(ctx, a.nk, challengeCollection, currentChallengeKey, "")
	if err != nil {
		return 0, err
	}
	if value == "" {
		return 0, nil
	}

	var current struct {
		Number int `json:"number"`
	}
	if err := json.Unmarshal([]byte(value), &current); err != nil {
		return 0, fmt.Errorf("failed to unmarshal current challenge pointer: %w", err)
	}
	return current.Number, nil
}

// SetCurrentChallengeNumber moves the live challenge pointer.
func (a *ChallengeAdapter) SetCurrentChallengeNumber(ctx context.Context, number int) error {
	value, err := json.Marshal(map[string]int{"number": number})
	if err != nil {
		return fmt.Errorf("failed to marshal current challenge pointer: %w", err)
	}
	_, err = writeObject(ctx, a.nk, challengeCollection, currentChallengeKey, "", string(value), "")
	return err
}

func applyCounter(ch *domain.Challenge, field ports.CounterField, delta int) error {
	switch field {
	case ports.CounterTotalGuesses:
		ch.TotalGuesses += delta
	case ports.CounterTotalPlayers:
		ch.TotalPlayers += delta
	case ports.CounterTotalSolves:
		ch.TotalSolves += delta
	case ports.CounterTotalHints:
		ch.TotalHints += delta
	case ports.CounterTotalGiveUps:
		ch.TotalGiveUps += delta
	default:
		return fmt.Errorf("unknown counter field %q", field)
	}
	return nil
}

var _ ports.ChallengeStore = (*ChallengeAdapter)(nil)
