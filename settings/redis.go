package settings

import (
	"context"

	"github.com/go-redsync/redsync/v4"
	"github.com/redis/go-redis/v9"
	"golang.org/x/exp/slog"
)

const (
	settingsKey      = "mopify-settings"
	settingsMutexKey = "mopify-settings-mutex"
)

// Redis keeps the settings bag in a redis hash so every instance of the API sees the same values.
type Redis struct {
	rc *redis.Client
	rs *redsync.Redsync
}

func NewRedis(rc *redis.Client, rs *redsync.Redsync) *Redis {
	return &Redis{
		rc: rc,
		rs: rs,
	}
}

func (s *Redis) Get(key, defaultValue string) string {
	value, err := s.rc.HGet(context.Background(), settingsKey, key).Result()
	if err == redis.Nil {
		return defaultValue
	}
	if err != nil {
		slog.Warn("Error getting setting from redis", "key", key, "error", err)
		return defaultValue
	}
	if value == "" {
		return defaultValue
	}
	return value
}

func (s *Redis) Set(key, value string) error {
	settingsMutex := s.rs.NewMutex(settingsMutexKey)
	if err := settingsMutex.Lock(); err != nil {
		return err
	}
	defer settingsMutex.Unlock()

	return s.rc.HSet(context.Background(), settingsKey, key, value).Err()
}

func (s *Redis) Delete(key string) error {
	settingsMutex := s.rs.NewMutex(settingsMutexKey)
	if err := settingsMutex.Lock(); err != nil {
		return err
	}
	defer settingsMutex.Unlock()

	return s.rc.HDel(context.Background(), settingsKey, key).Err()
}

func (s *Redis) All() map[string]string {
	values, err := s.rc.HGetAll(context.Background(), settingsKey).Result()
	if err != nil {
		slog.Warn("Error getting settings from redis", "error", err)
		return map[string]string{}
	}
	return values
}
