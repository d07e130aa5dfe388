package account

import (
	"context"
	"sync"

	"golang.org/x/exp/slog"

	"github.com/campbelljlowman/mopify-api/constants"
	"github.com/campbelljlowman/mopify-api/events"
	"github.com/campbelljlowman/mopify-api/spotify"
)

// SpotifyMenuController backs the Spotify entry in the menu.
type SpotifyMenuController struct {
	spotify SpotifyAccount

	mutex       *sync.RWMutex
	authorized  bool
	userProfile *spotify.Profile
	unsubscribe func()
}

func NewSpotifyMenuController(bus *events.Bus, spotifyAccount SpotifyAccount) *SpotifyMenuController {
	m := &SpotifyMenuController{
		spotify: spotifyAccount,
		mutex:   &sync.RWMutex{},
	}
	m.unsubscribe = bus.On(events.TopicServicesDisconnected, m.handleDisconnected)
	return m
}

// Init logs in to Spotify when there's no session yet and collects the user profile.
func (m *SpotifyMenuController) Init(ctx context.Context) error {
	if m.spotify.GetLoginStatus(ctx) != spotify.LoginStatusConnected {
		err := m.spotify.Login(ctx)
		if err != nil {
			return err
		}
	}
	return m.collectData(ctx)
}

func (m *SpotifyMenuController) collectData(ctx context.Context) error {
	profile, err := m.spotify.GetCurrentUser(ctx)
	if err != nil {
		return err
	}

	m.mutex.Lock()
	m.authorized = true
	m.userProfile = profile
	m.mutex.Unlock()
	return nil
}

func (m *SpotifyMenuController) handleDisconnected(event events.Event) {
	service, ok := event.Payload.(ServiceDisconnected)
	if !ok || service.Name != constants.ServiceSpotifyDisplayName {
		return
	}

	err := m.spotify.Disconnect()
	if err != nil {
		slog.Warn("Error disconnecting Spotify", "error", err)
	}

	m.mutex.Lock()
	m.authorized = false
	m.userProfile = nil
	m.mutex.Unlock()
}

func (m *SpotifyMenuController) Authorized() bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.authorized
}

func (m *SpotifyMenuController) UserProfile() *spotify.Profile {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.userProfile
}

// Close stops listening for service disconnects.
func (m *SpotifyMenuController) Close() {
	m.unsubscribe()
}
