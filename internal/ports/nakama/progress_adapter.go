package nakama

import (
	"context"
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"
	"github.com/samber/lo"

	"hotandcold/internal/ports"
)

// ProgressAdapter implements ports.ProgressTracker as one Nakama leaderboard
// per challenge. The "best" operator is what keeps stored progress
// monotonically non-decreasing: a lower upsert simply does not stick.
type ProgressAdapter struct {
	nk runtime.NakamaModule
}

// NewProgressAdapter creates a new progress tracker adapter.
func NewProgressAdapter(nk runtime.NakamaModule) *ProgressAdapter {
	return &ProgressAdapter{nk: nk}
}

// CreateBoard provisions the progress ranking for a new challenge.
func (a *ProgressAdapter) CreateBoard(ctx context.Context, challenge int) error {
	if err := a.nk.LeaderboardCreate(ctx, progressBoardID(challenge), true, "desc", "best", "", nil, true); err != nil {
		return fmt.Errorf("failed to create progress board for challenge %d: %w", challenge, err)
	}
	return nil
}

// UpsertEntry raises the player's stored progress; lower values are ignored by
// the board's operator.
func (a *ProgressAdapter) UpsertEntry(ctx context.Context, challenge int, userID, username, avatar string, progress int) error {
	meta := map[string]interface{}{"avatar": avatar}
	if _, err := a.nk.LeaderboardRecordWrite(ctx, progressBoardID(challenge), userID, username, int64(progress), 0, meta, nil); err != nil {
		return fmt.Errorf("failed to write progress for %s on challenge %d: %w", username, challenge, err)
	}
	return nil
}

// PlayerProgress lists ranked entries, marking forUsername's own row.
func (a *ProgressAdapter) PlayerProgress(ctx context.Context, challenge int, forUsername string, sort ports.SortDirection, limit int) ([]ports.ProgressEntry, error) {
	records, _, _, _, err := a.nk.LeaderboardRecordsList(ctx, progressBoardID(challenge), nil, limit, "", 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress for challenge %d: %w", challenge, err)
	}

	entries := make([]ports.ProgressEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, recordToProgress(rec, forUsername))
	}
	// The board is stored descending; flip for ascending requests.
	if sort == ports.SortAsc {
		entries = lo.Reverse(entries)
	}
	return entries, nil
}

var _ ports.ProgressTracker = (*ProgressAdapter)(nil)
