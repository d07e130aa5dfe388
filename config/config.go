package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port                int
	MopidyHost          string
	MopidyPort          string
	MopidyDiscover      bool
	RedisURL            string
	PostgresURL         string
	SpotifyClientID     string
	SpotifyClientSecret string
	SpotifyRedirectURL  string
	JWTSecret           string
	PasswordHash        string
	LogLevel            string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("mopidy.host", "localhost")
	v.SetDefault("mopidy.port", "6680")
	v.SetDefault("mopidy.discover", true)
	v.SetDefault("redis.url", "")
	v.SetDefault("postgres.url", "")
	v.SetDefault("spotify.client_id", "")
	v.SetDefault("spotify.client_secret", "")
	v.SetDefault("spotify.redirect_url", "http://localhost:8080/account/services/spotify/callback")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.password_hash", "")
	v.SetDefault("log.level", "INFO")
}

// Load reads configuration from configFile (if given), then ./mopify.toml or
// $HOME/.config/mopify/mopify.toml, and finally MOPIFY_* environment variables, e.g.
// MOPIFY_MOPIDY_HOST for mopidy.host.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("mopify")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("mopify")
		v.SetConfigType("toml")
		v.AddConfigPath("$HOME/.config/mopify")
		v.AddConfigPath(".")
	}

	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config file error: %w", err)
		}
	}

	config := &Config{
		Port:                v.GetInt("server.port"),
		MopidyHost:          v.GetString("mopidy.host"),
		MopidyPort:          v.GetString("mopidy.port"),
		MopidyDiscover:      v.GetBool("mopidy.discover"),
		RedisURL:            v.GetString("redis.url"),
		PostgresURL:         v.GetString("postgres.url"),
		SpotifyClientID:     v.GetString("spotify.client_id"),
		SpotifyClientSecret: v.GetString("spotify.client_secret"),
		SpotifyRedirectURL:  v.GetString("spotify.redirect_url"),
		JWTSecret:           v.GetString("auth.jwt_secret"),
		PasswordHash:        v.GetString("auth.password_hash"),
		LogLevel:            v.GetString("log.level"),
	}

	if config.Port <= 0 {
		return nil, fmt.Errorf("config property server.port must be positive, got %d", config.Port)
	}

	return config, nil
}
