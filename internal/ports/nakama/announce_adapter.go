package nakama

import (
	"context"
	"fmt"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"

	"hotandcold/internal/ports"
)

// AnnouncerAdapter broadcasts solve announcements as persistent Nakama
// notifications to all connected players.
type AnnouncerAdapter struct {
	nk runtime.NakamaModule
}

// NewAnnouncerAdapter creates a new announcer adapter.
func NewAnnouncerAdapter(nk runtime.NakamaModule) *AnnouncerAdapter {
	return &AnnouncerAdapter{nk: nk}
}

// AnnounceSolve sends the winners-circle broadcast.
func (a *AnnouncerAdapter) AnnounceSolve(ctx context.Context, ann ports.SolveAnnouncement) error {
	subject := fmt.Sprintf("%s solved challenge #%d!", ann.Username, ann.Challenge)

	scoreLine := fmt.Sprintf("Score: %d", ann.FinalScore)
	if ann.Perfect {
		scoreLine += " (perfect)"
	}

	content := map[string]interface{}{
		"username":     ann.Username,
		"challenge":    ann.Challenge,
		"score":        scoreLine,
		"totalGuesses": fmt.Sprintf("Total guesses: %d (%d hints)", ann.TotalGuesses, ann.TotalHints),
		"timeToSolve":  fmt.Sprintf("Time to solve: %s", prettyDuration(ann.SolveTime)),
		"coldestGuess": fmt.Sprintf("Coldest guess: %s (%d%%)", ann.ColdestGuess.Word, ann.ColdestGuess.NormalizedSimilarity),
		"averageHeat":  fmt.Sprintf("Average heat: %d%%", ann.AverageHeat),
		"heatTrail":    ann.HeatTrail,
	}

	if err := a.nk.NotificationSendAll(ctx, subject, content, notificationCodeSolve, true); err != nil {
		return fmt.Errorf("failed to broadcast solve for %s: %w", ann.Username, err)
	}
	return nil
}

func prettyDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	s := (d - m*time.Minute) / time.Second

	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

var _ ports.Announcer = (*AnnouncerAdapter)(nil)
