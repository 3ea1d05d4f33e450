package ports

import "context"

// SortDirection orders progress listings.
type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// ProgressEntry is one player's row in the live progress ranking.
type ProgressEntry struct {
	Username string `json:"username"`
	Progress int    `json:"progress"`
	Avatar   string `json:"avatar,omitempty"`
	// IsPlayer marks the requesting user's own row for client highlighting.
	IsPlayer bool `json:"isPlayer"`
}

// ProgressTracker ranks a challenge's players by the best normalized
// similarity they have reached so far.
type ProgressTracker interface {
	// CreateBoard provisions the ranking for a new challenge.
	CreateBoard(ctx context.Context, challenge int) error

	// UpsertEntry raises the player's stored progress to progress if it is
	// higher; stored progress never decreases.
	UpsertEntry(ctx context.Context, challenge int, userID, username, avatar string, progress int) error

	// PlayerProgress lists ranked entries, marking forUsername's own row.
	PlayerProgress(ctx context.Context, challenge int, forUsername string, sort SortDirection, limit int) ([]ProgressEntry, error)
}
