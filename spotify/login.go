package spotify

import (
	"context"
	"errors"
	"net/http"
	"time"

	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/exp/slog"
	"golang.org/x/oauth2"

	"github.com/campbelljlowman/mopify-api/utils"
)

const (
	LoginStatusConnected    = "connected"
	LoginStatusNotConnected = "not_connected"
)

var ErrNotAuthorized = errors.New("spotify is not authorized")

type LoginOptions struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// Endpoint defaults to Spotify's accounts service
	Endpoint   oauth2.Endpoint
	APIBaseURL string
	HTTPClient *http.Client
}

// SpotifyLogin keeps the Spotify session alive from a stored refresh token.
type SpotifyLogin struct {
	config     *oauth2.Config
	tokens     TokenStore
	httpClient *http.Client
	apiBaseURL string
}

func NewSpotifyLogin(tokens TokenStore, options LoginOptions) *SpotifyLogin {
	if options.Endpoint.TokenURL == "" {
		options.Endpoint = oauth2.Endpoint{
			AuthURL:  spotifyauth.AuthURL,
			TokenURL: spotifyauth.TokenURL,
		}
	}
	if options.HTTPClient == nil {
		options.HTTPClient = &http.Client{
			Timeout: 10 * time.Second,
		}
	}

	return &SpotifyLogin{
		config: &oauth2.Config{
			ClientID:     options.ClientID,
			ClientSecret: options.ClientSecret,
			RedirectURL:  options.RedirectURL,
			Endpoint:     options.Endpoint,
			Scopes: []string{
				spotifyauth.ScopeUserReadPrivate,
				spotifyauth.ScopeUserReadEmail,
				spotifyauth.ScopePlaylistReadPrivate,
				spotifyauth.ScopeUserLibraryRead,
			},
		},
		tokens:     tokens,
		httpClient: options.HTTPClient,
		apiBaseURL: options.APIBaseURL,
	}
}

// GetLoginStatus reports connected when a stored token is valid or could be refreshed.
func (s *SpotifyLogin) GetLoginStatus(ctx context.Context) string {
	token, err := s.tokens.GetSpotifyToken()
	if err != nil {
		slog.Warn("Error getting Spotify token", "error", err)
		return LoginStatusNotConnected
	}
	if token == nil {
		return LoginStatusNotConnected
	}

	_, err = s.refreshToken(ctx, token, false)
	if err != nil {
		return LoginStatusNotConnected
	}
	return LoginStatusConnected
}

// Login makes sure the stored token is usable, refreshing it if it has expired.
func (s *SpotifyLogin) Login(ctx context.Context) error {
	token, err := s.storedToken()
	if err != nil {
		return err
	}

	_, err = s.refreshToken(ctx, token, false)
	if err != nil {
		return utils.LogAndReturnError("Error logging in to Spotify", err)
	}
	return nil
}

// Reauth always asks for a new access token.
func (s *SpotifyLogin) Reauth(ctx context.Context) error {
	token, err := s.storedToken()
	if err != nil {
		return err
	}

	_, err = s.refreshToken(ctx, token, true)
	if err != nil {
		return utils.LogAndReturnError("Error reauthenticating with Spotify", err)
	}
	return nil
}

// Authorize stores refreshToken and exchanges it for a first access token.
func (s *SpotifyLogin) Authorize(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return ErrNotAuthorized
	}

	_, err := s.refreshToken(ctx, &oauth2.Token{RefreshToken: refreshToken}, true)
	if err != nil {
		return utils.LogAndReturnError("Error authorizing Spotify", err)
	}
	return nil
}

func (s *SpotifyLogin) Disconnect() error {
	slog.Info("Disconnecting Spotify")
	return s.tokens.DeleteSpotifyToken()
}

// Client returns a Spotify client using the stored token.
func (s *SpotifyLogin) Client(ctx context.Context) (*SpotifyWrapper, error) {
	token, err := s.storedToken()
	if err != nil {
		return nil, err
	}

	token, err = s.refreshToken(ctx, token, false)
	if err != nil {
		return nil, err
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
	return NewSpotifyWrapper(s.config.Client(ctx, token), s.apiBaseURL), nil
}

func (s *SpotifyLogin) storedToken() (*oauth2.Token, error) {
	token, err := s.tokens.GetSpotifyToken()
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, ErrNotAuthorized
	}
	return token, nil
}

func (s *SpotifyLogin) GetCurrentUser(ctx context.Context) (*Profile, error) {
	client, err := s.Client(ctx)
	if err != nil {
		return nil, err
	}
	return client.GetCurrentUser(ctx)
}
