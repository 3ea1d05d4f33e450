package nakama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/heroiclabs/nakama-common/runtime"

	"hotandcold/internal/domain"
	"hotandcold/internal/ports"
)

// PlayersAdapter implements ports.PlayerRegistry as one storage object per
// challenge mapping username to profile. Add-if-absent runs under a
// compare-and-swap loop so a player is only ever counted once.
type PlayersAdapter struct {
	nk runtime.NakamaModule
}

// NewPlayersAdapter creates a new player registry adapter.
func NewPlayersAdapter(nk runtime.NakamaModule) *PlayersAdapter {
	return &PlayersAdapter{nk: nk}
}

type playerRecord struct {
	Avatar string `json:"avatar,omitempty"`
}

// AddPlayer registers the player, reporting whether they were newly added.
func (a *PlayersAdapter) AddPlayer(ctx context.Context, challenge int, player domain.PlayerProfile) (bool, error) {
	key := playersKey(challenge)

	for attempt := 0; attempt < casAttempts; attempt++ {
		value, version, err := readObject(ctx, a.nk, playersCollection, key, "")
		if err != nil {
			return false, err
		}

		players := map[string]playerRecord{}
		if value != "" {
			if err := json.Unmarshal([]byte(value), &players); err != nil {
				return false, fmt.Errorf("failed to unmarshal players for challenge %d: %w", challenge, err)
			}
		}
		if _, ok := players[player.Username]; ok {
			return false, nil
		}
		players[player.Username] = playerRecord{Avatar: player.Avatar}

		encoded, err := json.Marshal(players)
		if err != nil {
			return false, fmt.Errorf("failed to marshal players for challenge %d: %w", challenge, err)
		}

		if version == "" {
			version = "*"
		}
		_, err = writeObject(ctx, a.nk, playersCollection, key, "", string(encoded), version)
		if errors.Is(err, ports.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return false, err
		}
		return true, nil
	}
	return false, fmt.Errorf("register player %s on challenge %d: %w", player.Username, challenge, ports.ErrVersionConflict)
}

// Players lists registered players ordered by username.
func (a *PlayersAdapter) Players(ctx context.Context, challenge int) ([]domain.PlayerProfile, error) {
	value, _, err := readObject(ctx, a.nk, playersCollection, playersKey(challenge), "")
	if err != nil {
		return nil, err
	}
	if value == "" {
		return nil, nil
	}

	records := map[string]playerRecord{}
	if err := json.Unmarshal([]byte(value), &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal players for challenge %d: %w", challenge, err)
	}

	players := make([]domain.PlayerProfile, 0, len(records))
	for username, rec := range records {
		players = append(players, domain.PlayerProfile{Username: username, Avatar: rec.Avatar})
	}
	sort.Slice(players, func(i, j int) bool { return players[i].Username < players[j].Username })
	return players, nil
}

var _ ports.PlayerRegistry = (*PlayersAdapter)(nil)
