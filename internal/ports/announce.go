package ports

import (
	"context"
	"time"

	"hotandcold/internal/domain"
)

// SolveAnnouncement is the celebratory broadcast sent when a player wins.
type SolveAnnouncement struct {
	Username     string
	Challenge    int
	FinalScore   int
	Perfect      bool
	TotalGuesses int
	TotalHints   int
	SolveTime    time.Duration
	// HeatTrail is the player's guess history rendered as heat emoji.
	HeatTrail    string
	ColdestGuess domain.Guess
	AverageHeat  int
}

// Announcer delivers best-effort solve broadcasts. Failures are logged by the
// caller and never surfaced to the player.
type Announcer interface {
	AnnounceSolve(ctx context.Context, a SolveAnnouncement) error
}
