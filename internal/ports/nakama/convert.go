package nakama

import (
	"encoding/json"

	"github.com/heroiclabs/nakama-common/api"

	"hotandcold/internal/ports"
)

// recordToEntry maps a Nakama leaderboard record onto a leaderboard row,
// undoing the per-ordering score/subscore/metadata encoding.
func recordToEntry(rec *api.LeaderboardRecord, order ports.LeaderboardOrder) ports.LeaderboardEntry {
	entry := ports.LeaderboardEntry{
		Username: rec.GetUsername().GetValue(),
		Rank:     rec.GetRank(),
	}

	meta := decodeMetadata(rec.GetMetadata())
	switch order {
	case ports.OrderByTime:
		entry.TimeToSolveMs = rec.GetScore()
		entry.Score = metadataInt(meta, "score")
	default:
		entry.Score = int(rec.GetScore())
		entry.TimeToSolveMs = tieBreakBase - rec.GetSubscore()
	}
	return entry
}

// recordToProgress maps a progress-board record onto a progress row.
func recordToProgress(rec *api.LeaderboardRecord, forUsername string) ports.ProgressEntry {
	username := rec.GetUsername().GetValue()
	return ports.ProgressEntry{
		Username: username,
		Progress: int(rec.GetScore()),
		Avatar:   metadataString(decodeMetadata(rec.GetMetadata()), "avatar"),
		IsPlayer: username == forUsername,
	}
}

func decodeMetadata(raw string) map[string]interface{} {
	if raw == "" {
		return nil
	}
	var meta map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		return nil
	}
	return meta
}

func metadataInt(meta map[string]interface{}, key string) int {
	if v, ok := meta[key].(float64); ok {
		return int(v)
	}
	return 0
}

func metadataString(meta map[string]interface{}, key string) string {
	if v, ok := meta[key].(string); ok {
		return v
	}
	return ""
}
