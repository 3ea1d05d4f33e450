package nakama

import (
	"context"
	"errors"
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"

	"hotandcold/internal/ports"
)

// casAttempts bounds the optimistic-write retry loops inside the adapters.
const casAttempts = 5

func challengeKey(number int) string {
	return fmt.Sprintf("challenge:%d", number)
}

func ledgerKey(challenge int, username string) string {
	return fmt.Sprintf("challenge:%d:user:%s", challenge, username)
}

func playersKey(challenge int) string {
	return fmt.Sprintf("challenge:%d:players", challenge)
}

func scoreBoardID(challenge int) string {
	return fmt.Sprintf("challenge:%d:score", challenge)
}

func timeBoardID(challenge int) string {
	return fmt.Sprintf("challenge:%d:time", challenge)
}

func progressBoardID(challenge int) string {
	return fmt.Sprintf("challenge:%d:progress", challenge)
}

// readObject fetches one storage object. A missing object returns empty value
// and version with no error.
func readObject(ctx context.Context, nk runtime.NakamaModule, collection, key, userID string) (value, version string, err error) {
	objects, err := nk.StorageRead(ctx, []*runtime.StorageRead{
		{Collection: collection, Key: key, UserID: userID},
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to read %s/%s: %w", collection, key, err)
	}
	if len(objects) == 0 {
		return "", "", nil
	}
	return objects[0].Value, objects[0].Version, nil
}

// writeObject writes one storage object guarded by the given version ("*"
// demands a fresh object, "" writes unconditionally). Version races surface as
// ports.ErrVersionConflict; the new version stamp is returned on success.
func writeObject(ctx context.Context, nk runtime.NakamaModule, collection, key, userID, value, version string) (string, error) {
	acks, err := nk.StorageWrite(ctx, []*runtime.StorageWrite{
		{
			Collection:      collection,
			Key:             key,
			UserID:          userID,
			Value:           value,
			Version:         version,
			PermissionRead:  runtime.STORAGE_PERMISSION_NO_READ,
			PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
		},
	})
	if err != nil {
		if errors.Is(err, runtime.ErrStorageRejectedVersion) {
			return "", ports.ErrVersionConflict
		}
		return "", fmt.Errorf("failed to write %s/%s: %w", collection, key, err)
	}
	if len(acks) == 0 {
		return "", fmt.Errorf("write %s/%s returned no ack", collection, key)
	}
	return acks[0].Version, nil
}
