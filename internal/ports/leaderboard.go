package ports

import (
	"context"
	"errors"
)

// ErrNotRanked indicates the user has no entry on the requested board.
var ErrNotRanked = errors.New("user has no leaderboard entry")

// LeaderboardOrder selects one of the two orderings kept per challenge.
type LeaderboardOrder string

const (
	// OrderByScore ranks winners by score, highest first, ties broken by the
	// earlier solve.
	OrderByScore LeaderboardOrder = "score"
	// OrderByTime ranks winners by time to solve, fastest first.
	OrderByTime LeaderboardOrder = "time"
)

// LeaderboardEntry is one winner's row in a challenge leaderboard.
type LeaderboardEntry struct {
	Username      string `json:"username"`
	Score         int    `json:"score"`
	TimeToSolveMs int64  `json:"timeToSolveMs"`
	Rank          int64  `json:"rank"`
}

// UserRank is a single user's standing on both orderings.
type UserRank struct {
	Score         int   `json:"score"`
	ScoreRank     int64 `json:"scoreRank"`
	TimeToSolveMs int64 `json:"timeToSolve"`
	TimeRank      int64 `json:"timeRank"`
}

// Leaderboard maintains the two orderings over a challenge's winners. A user
// can only solve once, so AddEntry is idempotent per (challenge, user).
type Leaderboard interface {
	// CreateBoards provisions both orderings for a new challenge.
	CreateBoards(ctx context.Context, challenge int) error

	// AddEntry records a winner on both orderings.
	AddEntry(ctx context.Context, challenge int, userID, username string, score int, timeToSolveMs int64) error

	// GetUserRank returns the user's standing, or ErrNotRanked.
	GetUserRank(ctx context.Context, challenge int, userID string) (UserRank, error)

	// GetTop lists the best entries in the requested ordering.
	GetTop(ctx context.Context, challenge int, order LeaderboardOrder, limit int) ([]LeaderboardEntry, error)
}
