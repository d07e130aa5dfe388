package api

import "github.com/campbelljlowman/mopify-api/mopidy"

type PlayTrackRequest struct {
	Track             mopidy.Track   `json:"track"`
	SurroundingTracks []mopidy.Track `json:"surrounding_tracks"`
}

type PlayRequest struct {
	TlTrack *mopidy.TlTrack `json:"tl_track"`
}

type VolumeRequest struct {
	Volume *int `json:"volume" binding:"required"`
}

type TimePositionRequest struct {
	TimePosition *int `json:"time_position" binding:"required"`
}

type ToggleRequest struct {
	Value *bool `json:"value" binding:"required"`
}

type FindExactRequest struct {
	Query map[string]any `json:"query" binding:"required"`
}

type CriteriaRequest struct {
	Criteria map[string]any `json:"criteria" binding:"required"`
}

type UriRequest struct {
	URI string `json:"uri"`
}

type SettingsSourceRequest struct {
	UseGeneral *bool `json:"usegeneral" binding:"required"`
}

type SpotifyTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}
