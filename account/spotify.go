package account

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"

	"golang.org/x/exp/slog"

	"github.com/campbelljlowman/mopify-api/constants"
	"github.com/campbelljlowman/mopify-api/notifier"
	"github.com/campbelljlowman/mopify-api/settings"
	"github.com/campbelljlowman/mopify-api/spotify"
	"github.com/campbelljlowman/mopify-api/utils"
)

var (
	ErrServiceDisabled = errors.New("service is not enabled")
	ErrSettingNotFound = errors.New("setting not found")
)

// RedirectError is returned when a page can't be shown and the user should go to Path instead.
type RedirectError struct {
	Path string
}

func (e *RedirectError) Error() string {
	return fmt.Sprintf("%v, redirect to %v", ErrServiceDisabled, e.Path)
}

func (e *RedirectError) Unwrap() error {
	return ErrServiceDisabled
}

// SpotifyAccount is the Spotify session as the account pages use it.
type SpotifyAccount interface {
	GetLoginStatus(ctx context.Context) string
	Login(ctx context.Context) error
	Reauth(ctx context.Context) error
	Disconnect() error
	GetCurrentUser(ctx context.Context) (*spotify.Profile, error)
}

// MopidySettings returns the raw settings blob the Mopidy extension exposes.
type MopidySettings interface {
	GetSettings(ctx context.Context) (string, error)
}

// SpotifyServiceController backs the Spotify account settings page.
type SpotifyServiceController struct {
	settings       settings.Store
	spotify        SpotifyAccount
	mopidySettings MopidySettings
	notifier       notifier.Notifier

	mutex   *sync.RWMutex
	profile *spotify.Profile
}

func NewSpotifyServiceController(services *ServiceManager, settingsStore settings.Store, spotifyAccount SpotifyAccount, mopidySettings MopidySettings, n notifier.Notifier) (*SpotifyServiceController, error) {
	if !services.IsEnabled(constants.ServiceSpotify) {
		return nil, &RedirectError{Path: constants.ServicesPath}
	}

	return &SpotifyServiceController{
		settings:       settingsStore,
		spotify:        spotifyAccount,
		mopidySettings: mopidySettings,
		notifier:       n,
		mutex:          &sync.RWMutex{},
	}, nil
}

// Load fetches the Spotify profile and copies the Spotify credentials from Mopidy's config into
// the settings. A missing profile is logged, the page still works without it.
func (c *SpotifyServiceController) Load(ctx context.Context) error {
	profile, err := c.spotify.GetCurrentUser(ctx)
	if err != nil {
		slog.Warn("Error getting Spotify profile", "error", err)
	} else {
		c.mutex.Lock()
		c.profile = profile
		c.mutex.Unlock()
	}

	data, err := c.mopidySettings.GetSettings(ctx)
	if err != nil {
		return utils.LogAndReturnError("Error getting Mopidy settings", err)
	}

	credentials := []struct {
		key        string
		settingKey string
	}{
		{"spotify_username", constants.SettingMopidySpotifyUsername},
		{"spotify_password", constants.SettingMopidySpotifyPassword},
	}
	for _, credential := range credentials {
		value, err := getSetting(credential.key, data)
		if err != nil {
			slog.Warn("Mopidy settings are missing a Spotify credential", "key", credential.key)
			value = constants.MopidyUnsetValue
		}

		err = c.settings.Set(credential.settingKey, value)
		if err != nil {
			return err
		}
	}

	return nil
}

func (c *SpotifyServiceController) Profile() *spotify.Profile {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.profile
}

// SwitchSettingsSource runs after spotify.usegeneral changes. Using the credentials from Mopidy's
// config needs both of them to be set there, otherwise the switch is turned back off.
func (c *SpotifyServiceController) SwitchSettingsSource(ctx context.Context) error {
	if !settings.GetBool(c.settings, constants.SettingSpotifyUseGeneral, false) {
		return nil
	}

	username := c.settings.Get(constants.SettingMopidySpotifyUsername, constants.MopidyUnsetValue)
	password := c.settings.Get(constants.SettingMopidySpotifyPassword, constants.MopidyUnsetValue)
	if username != constants.MopidyUnsetValue && password != constants.MopidyUnsetValue {
		return c.spotify.Reauth(ctx)
	}

	c.notifier.Notify(notifier.Notification{
		Type:     notifier.TypeCustom,
		Template: "Please add spotify_username and spotify_password to your Mopidy.conf file.",
		Delay:    constants.MissingCredentialsNotificationDelay,
	})
	return settings.SetBool(c.settings, constants.SettingSpotifyUseGeneral, false)
}

// getSetting reads key out of the settings blob, which is a Python dict repr like
// {'spotify_username': u'bob', 'spotify_password': None}.
func getSetting(key, data string) (string, error) {
	settingRegex := regexp.MustCompile("('" + regexp.QuoteMeta(key) + "': )(.[^,]+)")
	match := settingRegex.FindStringSubmatch(data)
	if match == nil {
		return "", ErrSettingNotFound
	}
	return utils.UnquotePythonString(match[2]), nil
}
