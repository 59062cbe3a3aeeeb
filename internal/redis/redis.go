package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var Rdb *redis.Client

const statusTTL = 24 * time.Hour

func InitRedis(redisAddress string, redisUsername string, redisPassword string) {
	Rdb = redis.NewClient(&redis.Options{
		Addr:     redisAddress,
		Username: redisUsername,
		Password: redisPassword,
		DB:       0,
	})
}

func statusKey(profileID string) string {
	return fmt.Sprintf("export:%s:status", profileID)
}

// SetExportStatus stores the last export outcome for a profile. Failures are
// logged and swallowed: status caching must never fail an export.
func SetExportStatus(ctx context.Context, profileID string, status any) {
	if Rdb == nil {
		return
	}
	payload, err := json.Marshal(status)
	if err != nil {
		log.Error().Err(err).Str("profile_id", profileID).Msg("failed to marshal export status")
		return
	}
	if err := Rdb.Set(ctx, statusKey(profileID), payload, statusTTL).Err(); err != nil {
		log.Warn().Err(err).Str("profile_id", profileID).Msg("failed to cache export status")
	}
}

// GetExportStatus returns the cached status document, or nil when absent.
func GetExportStatus(ctx context.Context, profileID string) (json.RawMessage, error) {
	if Rdb == nil {
		return nil, nil
	}
	raw, err := Rdb.Get(ctx, statusKey(profileID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return raw, nil
}
