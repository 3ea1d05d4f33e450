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

// LedgerAdapter implements ports.GuessLedger on Nakama storage. Every write
// carries the version stamp read alongside the record, so two concurrent
// submissions for the same user cannot silently lose an update.
type LedgerAdapter struct {
	nk runtime.NakamaModule
}

// NewLedgerAdapter creates a new guess ledger adapter.
func NewLedgerAdapter(nk runtime.NakamaModule) *LedgerAdapter {
	return &LedgerAdapter{nk: nk}
}

// GetOrInit loads the per-(challenge, user) record, creating an empty one on
// first interaction. Concurrent initial creations collapse onto whichever
// write landed first.
func (a *LedgerAdapter) GetOrInit(ctx context.Context, challenge int, username string) (ports.LedgerEntry, error) {
	key := ledgerKey(challenge, username)

	value, version, err := readObject(ctx, a.nk, ledgerCollection, key, "")
	if err != nil {
		return ports.LedgerEntry{}, err
	}
	if value != "" {
		return decodeLedgerEntry(value, version)
	}

	fresh := domain.UserChallenge{Username: username, Guesses: []domain.Guess{}}
	encoded, err := json.Marshal(fresh)
	if err != nil {
		return ports.LedgerEntry{}, fmt.Errorf("failed to marshal ledger entry: %w", err)
	}

	newVersion, err := writeObject(ctx, a.nk, ledgerCollection, key, "", string(encoded), "*")
	if errors.Is(err, ports.ErrVersionConflict) {
		// Someone else initialized it between our read and write.
		value, version, err = readObject(ctx, a.nk, ledgerCollection, key, "")
		if err != nil {
			return ports.LedgerEntry{}, err
		}
		return decodeLedgerEntry(value, version)
	}
	if err != nil {
		return ports.LedgerEntry{}, err
	}
	return ports.LedgerEntry{UserChallenge: fresh, Version: newVersion}, nil
}

// Put writes the record guarded by the entry's version and returns the new
// version stamp.
func (a *LedgerAdapter) Put(ctx context.Context, challenge int, entry ports.LedgerEntry) (string, error) {
	encoded, err := json.Marshal(entry.UserChallenge)
	if err != nil {
		return "", fmt.Errorf("failed to marshal ledger entry: %w", err)
	}

	version := entry.Version
	if version == "" {
		version = "*"
	}
	return writeObject(ctx, a.nk, ledgerCollection, ledgerKey(challenge, entry.Username), "", string(encoded), version)
}

func decodeLedgerEntry(value, version string) (ports.LedgerEntry, error) {
	var uc domain.UserChallenge
	if err := json.Unmarshal([]byte(value), &uc); err != nil {
		return ports.LedgerEntry{}, fmt.Errorf("failed to unmarshal ledger entry: %w", err)
	}
	return ports.LedgerEntry{UserChallenge: uc, Version: version}, nil
}

var _ ports.GuessLedger = (*LedgerAdapter)(nil)
