package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/exp/slog"

	"github.com/campbelljlowman/mopify-api/account"
	"github.com/campbelljlowman/mopify-api/api"
	"github.com/campbelljlowman/mopify-api/auth"
	"github.com/campbelljlowman/mopify-api/cache"
	"github.com/campbelljlowman/mopify-api/config"
	"github.com/campbelljlowman/mopify-api/events"
	"github.com/campbelljlowman/mopify-api/musicplayer"
	"github.com/campbelljlowman/mopify-api/notifier"
	"github.com/campbelljlowman/mopify-api/settings"
	"github.com/campbelljlowman/mopify-api/spotify"
)

const shutdownTimeout = 10 * time.Second

func Execute() {
	flags := pflag.NewFlagSet("mopify-api", pflag.ExitOnError)
	configFile := flags.StringP("config", "c", "", "path to a mopify.toml config file")
	flags.Parse(os.Args[1:])

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Unable to load config", "error", err)
		os.Exit(1)
	}

	setupLogging(cfg.LogLevel)

	settingsStore, err := newSettingsStore(cfg)
	if err != nil {
		slog.Error("Unable to set up settings store", "error", err)
		os.Exit(1)
	}

	tokenStore, err := newTokenStore(cfg)
	if err != nil {
		slog.Error("Unable to set up Spotify token store", "error", err)
		os.Exit(1)
	}

	bus := events.NewBus()
	n := notifier.NewBusNotifier(bus)

	mopidyService := musicplayer.NewMopidyService(bus, settingsStore, n, musicplayer.Options{
		DefaultHost: cfg.MopidyHost,
		DefaultPort: cfg.MopidyPort,
		Discover:    cfg.MopidyDiscover,
	})

	spotifyLogin := spotify.NewSpotifyLogin(tokenStore, spotify.LoginOptions{
		ClientID:     cfg.SpotifyClientID,
		ClientSecret: cfg.SpotifyClientSecret,
		RedirectURL:  cfg.SpotifyRedirectURL,
	})
	spotifyMenu := account.NewSpotifyMenuController(bus, spotifyLogin)
	defer spotifyMenu.Close()

	// The API can start Mopidy later, failing here isn't fatal
	err = mopidyService.Start()
	if err != nil {
		slog.Warn("Mopidy service did not start", "error", err)
	}
	defer mopidyService.Stop()

	router := api.InitializeRoutes(api.Dependencies{
		Bus:            bus,
		Settings:       settingsStore,
		Notifier:       n,
		Mopidy:         mopidyService,
		ServiceManager: account.NewServiceManager(settingsStore, bus),
		SpotifyLogin:   spotifyLogin,
		SpotifyMenu:    spotifyMenu,
		Auth:           auth.NewAuthService(cfg.JWTSecret, cfg.PasswordHash),
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Starting server", "port", cfg.Port)
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err = server.Shutdown(shutdownCtx)
	if err != nil {
		slog.Warn("Error shutting down server", "error", err)
	}
}

func setupLogging(logLevel string) {
	var level slog.Level
	err := level.UnmarshalText([]byte(logLevel))
	if err != nil {
		slog.Warn("Unknown log level, using INFO", "level", logLevel)
		level = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

func newSettingsStore(cfg *config.Config) (settings.Store, error) {
	if cfg.RedisURL == "" {
		slog.Info("No redis URL configured, keeping settings in memory")
		return settings.NewInMemory(nil), nil
	}

	rdb, err := cache.GetRedisClient(cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	return settings.NewRedis(rdb, cache.GetRedsync(rdb)), nil
}

func newTokenStore(cfg *config.Config) (spotify.TokenStore, error) {
	if cfg.PostgresURL == "" {
		slog.Info("No postgres URL configured, keeping the Spotify token in memory")
		return spotify.NewInMemoryTokenStore(), nil
	}
	return account.NewAccountGorm(cfg.PostgresURL)
}
