package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/campbelljlowman/mopify-api/account"
	"github.com/campbelljlowman/mopify-api/auth"
	"github.com/campbelljlowman/mopify-api/events"
	"github.com/campbelljlowman/mopify-api/musicplayer"
	"github.com/campbelljlowman/mopify-api/notifier"
	"github.com/campbelljlowman/mopify-api/settings"
)

// SpotifyLogin is the Spotify session the account routes drive.
type SpotifyLogin interface {
	account.SpotifyAccount
	Authorize(ctx context.Context, refreshToken string) error
}

type Dependencies struct {
	Bus            *events.Bus
	Settings       settings.Store
	Notifier       notifier.Notifier
	Mopidy         *musicplayer.MopidyService
	ServiceManager *account.ServiceManager
	SpotifyLogin   SpotifyLogin
	SpotifyMenu    *account.SpotifyMenuController
	Auth           *auth.AuthService
}

type handler struct {
	bus            *events.Bus
	settings       settings.Store
	notifier       notifier.Notifier
	mopidy         *musicplayer.MopidyService
	player         musicplayer.MusicPlayer
	serviceManager *account.ServiceManager
	spotifyLogin   SpotifyLogin
	spotifyMenu    *account.SpotifyMenuController
	auth           *auth.AuthService
}

func InitializeRoutes(deps Dependencies) *gin.Engine {
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		MaxAge:          12 * time.Hour,
	}))

	h := &handler{
		bus:            deps.Bus,
		settings:       deps.Settings,
		notifier:       deps.Notifier,
		mopidy:         deps.Mopidy,
		player:         deps.Mopidy,
		serviceManager: deps.ServiceManager,
		spotifyLogin:   deps.SpotifyLogin,
		spotifyMenu:    deps.SpotifyMenu,
		auth:           deps.Auth,
	}

	router.GET("/hc", healthCheck)
	router.POST("/auth/token", h.login)

	authorized := router.Group("", jwtAuthMiddleware(deps.Auth))

	authorized.POST("/mopidy/start", h.startMopidy)
	authorized.POST("/mopidy/stop", h.stopMopidy)
	authorized.POST("/mopidy/restart", h.restartMopidy)
	authorized.GET("/mopidy/status", h.mopidyStatus)
	authorized.GET("/mopidy/settings", h.mopidySettings)

	authorized.GET("/playback/current", h.currentTrack)
	authorized.GET("/playback/state", h.playbackState)
	authorized.GET("/playback/position", h.timePosition)
	authorized.PUT("/playback/position", h.seek)
	authorized.GET("/playback/volume", h.volume)
	authorized.PUT("/playback/volume", h.setVolume)
	authorized.POST("/playback/:action", h.playbackAction)

	authorized.GET("/tracklist", h.tracklist)
	authorized.POST("/tracklist", h.addToTracklist)
	authorized.DELETE("/tracklist", h.clearTracklist)
	authorized.POST("/tracklist/shuffle", h.shuffleTracklist)
	authorized.POST("/tracklist/play", h.playTrack)
	authorized.POST("/tracklist/play/:index", h.playTrackAtIndex)
	authorized.POST("/tracklist/filter", h.filterTracklist)
	authorized.POST("/tracklist/remove", h.removeFromTracklist)
	authorized.GET("/tracklist/random", h.random)
	authorized.PUT("/tracklist/random", h.setRandom)
	authorized.GET("/tracklist/repeat", h.repeat)
	authorized.PUT("/tracklist/repeat", h.setRepeat)

	authorized.GET("/library/lookup", h.lookup)
	authorized.GET("/library/search", h.search)
	authorized.GET("/library/find", h.searchTrack)
	authorized.POST("/library/find", h.findExact)
	authorized.POST("/library/refresh", h.refreshLibrary)

	authorized.GET("/playlists", h.playlists)
	authorized.GET("/playlists/lookup", h.playlist)

	authorized.GET("/account/services", h.services)
	authorized.POST("/account/services/:service", h.enableService)
	authorized.DELETE("/account/services/:service", h.disconnectService)
	authorized.GET("/account/spotify", h.spotifySettings)
	authorized.POST("/account/spotify/source", h.switchSpotifySettingsSource)
	authorized.POST("/account/spotify/token", h.authorizeSpotify)
	authorized.GET("/account/spotify/menu", h.spotifyMenuState)

	authorized.GET("/events", h.streamEvents)

	return router
}

func healthCheck(c *gin.Context) {
	c.String(http.StatusOK, "API is healthy!")
}
