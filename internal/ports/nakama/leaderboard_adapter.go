package nakama

import (
	"context"
	"fmt"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"

	"hotandcold/internal/ports"
)

// tieBreakBase encodes solve time into the score board's subscore so that on
// equal scores the earlier (smaller) solve time ranks higher under descending
// sort. Comfortably above any realistic solve duration in milliseconds.
const tieBreakBase = int64(1) << 52

// LeaderboardAdapter implements ports.Leaderboard as two Nakama leaderboards
// per challenge: score (descending, time tie-break) and time-to-solve
// (ascending). Records are keyed by owner, so a winner can never appear twice.
type LeaderboardAdapter struct {
	nk runtime.NakamaModule
}

// NewLeaderboardAdapter creates a new leaderboard adapter.
func NewLeaderboardAdapter(nk runtime.NakamaModule) *LeaderboardAdapter {
	return &LeaderboardAdapter{nk: nk}
}

// CreateBoards provisions both orderings for a new challenge.
func (a *LeaderboardAdapter) CreateBoards(ctx context.Context, challenge int) error {
	if err := a.nk.LeaderboardCreate(ctx, scoreBoardID(challenge), true, "desc", "best", "", nil, true); err != nil {
		return fmt.Errorf("failed to create score board for challenge %d: %w", challenge, err)
	}
	if err := a.nk.LeaderboardCreate(ctx, timeBoardID(challenge), true, "asc", "best", "", nil, true); err != nil {
		return fmt.Errorf("failed to create time board for challenge %d: %w", challenge, err)
	}
	return nil
}

// AddEntry records a winner on both orderings. The "best" operator makes
// re-invocation for the same owner a no-op.
func (a *LeaderboardAdapter) AddEntry(ctx context.Context, challenge int, userID, username string, score int, timeToSolveMs int64) error {
	scoreMeta := map[string]interface{}{"timeToSolveMs": timeToSolveMs}
	if _, err := a.nk.LeaderboardRecordWrite(ctx, scoreBoardID(challenge), userID, username, int64(score), tieBreakBase-timeToSolveMs, scoreMeta, nil); err != nil {
		return fmt.Errorf("failed to write score record for %s on challenge %d: %w", username, challenge, err)
	}

	timeMeta := map[string]interface{}{"score": score}
	if _, err := a.nk.LeaderboardRecordWrite(ctx, timeBoardID(challenge), userID, username, timeToSolveMs, 0, timeMeta, nil); err != nil {
		return fmt.Errorf("failed to write time record for %s on challenge %d: %w", username, challenge, err)
	}
	return nil
}

// GetUserRank returns the user's standing on both orderings, or
// ports.ErrNotRanked if they have not solved the challenge.
func (a *LeaderboardAdapter) GetUserRank(ctx context.Context, challenge int, userID string) (ports.UserRank, error) {
	scoreRec, err := a.ownerRecord(ctx, scoreBoardID(challenge), userID)
	if err != nil {
		return ports.UserRank{}, err
	}
	timeRec, err := a.ownerRecord(ctx, timeBoardID(challenge), userID)
	if err != nil {
		return ports.UserRank{}, err
	}

	return ports.UserRank{
		Score:         int(scoreRec.Score),
		ScoreRank:     scoreRec.Rank,
		TimeToSolveMs: timeRec.Score,
		TimeRank:      timeRec.Rank,
	}, nil
}

// GetTop lists the best entries in the requested ordering.
func (a *LeaderboardAdapter) GetTop(ctx context.Context, challenge int, order ports.LeaderboardOrder, limit int) ([]ports.LeaderboardEntry, error) {
	var id string
	switch order {
	case ports.OrderByScore:
		id = scoreBoardID(challenge)
	case ports.OrderByTime:
		id = timeBoardID(challenge)
	default:
		return nil, fmt.Errorf("unknown leaderboard order %q", order)
	}

	records, _, _, _, err := a.nk.LeaderboardRecordsList(ctx, id, nil, limit, "", 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s board for challenge %d: %w", order, challenge, err)
	}

	entries := make([]ports.LeaderboardEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, recordToEntry(rec, order))
	}
	return entries, nil
}

func (a *LeaderboardAdapter) ownerRecord(ctx context.Context, id, userID string) (*api.LeaderboardRecord, error) {
	_, owner, _, _, err := a.nk.LeaderboardRecordsList(ctx, id, []string{userID}, 1, "", 0)
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard %s: %w", id, err)
	}
	if len(owner) == 0 {
		return nil, ports.ErrNotRanked
	}
	return owner[0], nil
}

var _ ports.Leaderboard = (*LeaderboardAdapter)(nil)
