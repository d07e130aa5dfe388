package spotify

import (
	"context"
	"net/http"

	"github.com/zmb3/spotify/v2"
)

// Profile is the part of the Spotify user the account pages show.
type Profile struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"display_name"`
	Email       string   `json:"email,omitempty"`
	Country     string   `json:"country,omitempty"`
	Product     string   `json:"product,omitempty"`
	URI         string   `json:"uri"`
	Images      []string `json:"images,omitempty"`
}

type SpotifyWrapper struct {
	client *spotify.Client
}

// NewSpotifyWrapper wraps an authorized HTTP client. apiBaseURL overrides the Spotify Web API
// location when set and must end in a slash.
func NewSpotifyWrapper(httpClient *http.Client, apiBaseURL string) *SpotifyWrapper {
	var options []spotify.ClientOption
	if apiBaseURL != "" {
		options = append(options, spotify.WithBaseURL(apiBaseURL))
	}
	return &SpotifyWrapper{client: spotify.New(httpClient, options...)}
}

func (s *SpotifyWrapper) GetCurrentUser(ctx context.Context) (*Profile, error) {
	user, err := s.client.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	return privateUserToProfile(user), nil
}

func privateUserToProfile(user *spotify.PrivateUser) *Profile {
	profile := &Profile{
		ID:          user.ID,
		DisplayName: user.DisplayName,
		Email:       user.Email,
		Country:     user.Country,
		Product:     user.Product,
		URI:         string(user.URI),
	}
	for _, image := range user.Images {
		profile.Images = append(profile.Images, image.URL)
	}
	return profile
}
