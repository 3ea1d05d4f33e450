package nakama

import (
	"context"
	"database/sql"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"

	"hotandcold/internal/app"
	"hotandcold/internal/app/similarity"
	"hotandcold/internal/config"
	"hotandcold/internal/ports"
	"hotandcold/internal/ports/wordapi"
)

const defaultConfigPath = "data/game_config.json"

// InitModule wires the game service and its RPCs for the Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	configPath := defaultConfigPath
	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
		if p := env["game_config_path"]; p != "" {
			configPath = p
		}
	}
	if err := config.LoadGameConfig(configPath); err != nil {
		return err
	}
	cfg := config.GetGameConfig()

	oracle := wordapi.NewClient(
		cfg.OracleBaseURL,
		cfg.OracleToken,
		time.Duration(config.GetOracleTimeoutSeconds())*time.Second,
	)

	var announcer ports.Announcer
	if cfg.AnnounceSolves {
		announcer = NewAnnouncerAdapter(nk)
	}

	svc := app.NewService(app.Deps{
		Oracle:        similarity.NewClient(oracle),
		Challenges:    NewChallengeAdapter(nk),
		Ledger:        NewLedgerAdapter(nk),
		Players:       NewPlayersAdapter(nk),
		Leaderboard:   NewLeaderboardAdapter(nk),
		Progress:      NewProgressAdapter(nk),
		Streaks:       NewStreakAdapter(nk),
		Announcer:     announcer,
		Logger:        logger,
		ProgressLimit: config.GetProgressLimit(),
	})

	if err := RegisterRPCs(initializer, svc); err != nil {
		return err
	}

	logger.Info("HotAndCold Go module loaded.")
	return nil
}
