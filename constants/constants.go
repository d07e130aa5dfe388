package constants

import "time"

// Setting keys, shared with the frontend's settings bag
const (
	SettingMopidyIP              = "mopidyip"
	SettingMopidyPort            = "mopidyport"
	SettingSpotifyUseGeneral     = "spotify.usegeneral"
	SettingMopidySpotifyUsername = "mopidy.spotify_username"
	SettingMopidySpotifyPassword = "mopidy.spotify_password"
)

const DefaultMopidyPort = "6680"

// Value Mopidy's config reports for an unset option
const MopidyUnsetValue = "None"

const (
	ServiceSpotify            = "spotify"
	ServiceSpotifyDisplayName = "Spotify"
	ServicesPath              = "/account/services"
)

const (
	ConnectionFailedNotificationDelay   = 15000 * time.Millisecond
	MissingCredentialsNotificationDelay = 7500 * time.Millisecond
)

// ServiceEnabledSetting is the settings key that marks a streaming service as enabled.
func ServiceEnabledSetting(service string) string {
	return "services." + service + ".enabled"
}
