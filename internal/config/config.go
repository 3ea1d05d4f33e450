package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

type GameConfig struct {
	// OracleBaseURL is the word-similarity service endpoint.
	OracleBaseURL string `json:"oracle_base_url"`
	OracleToken   string `json:"oracle_token"`
	// OracleTimeoutSeconds bounds each oracle HTTP call.
	OracleTimeoutSeconds int `json:"oracle_timeout_seconds"`
	// ProgressLimit caps the progress rows returned per game snapshot.
	ProgressLimit int `json:"progress_limit"`
	// AnnounceSolves toggles the winners-circle broadcast.
	AnnounceSolves bool `json:"announce_solves"`
	// Words is the pool new challenges draw their secret word from when the
	// scheduler does not supply one.
	Words []string `json:"words"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		var c GameConfig
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the global game configuration.
func GetGameConfig() *GameConfig {
	return cfg
}

// GetOracleTimeoutSeconds returns the oracle call timeout.
func GetOracleTimeoutSeconds() int {
	if cfg == nil || cfg.OracleTimeoutSeconds <= 0 {
		return 10 // Safe default
	}
	return cfg.OracleTimeoutSeconds
}

// GetProgressLimit returns the snapshot progress row cap.
func GetProgressLimit() int {
	if cfg == nil || cfg.ProgressLimit <= 0 {
		return 100 // Safe default
	}
	return cfg.ProgressLimit
}

// GetWords returns the configured secret-word pool.
func GetWords() []string {
	if cfg == nil {
		return nil
	}
	return cfg.Words
}
