package spotify

import (
	"context"
	"errors"

	"golang.org/x/exp/slog"
	"golang.org/x/oauth2"
)

// refreshToken returns a usable token, hitting the token endpoint only when token has expired or
// force is set. A new token is written back to the store.
func (s *SpotifyLogin) refreshToken(ctx context.Context, token *oauth2.Token, force bool) (*oauth2.Token, error) {
	if token.RefreshToken == "" && (force || !token.Valid()) {
		return nil, ErrNotAuthorized
	}

	current := *token
	if force {
		current.AccessToken = ""
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
	refreshed, err := s.config.TokenSource(ctx, &current).Token()
	if err != nil {
		var retrieveError *oauth2.RetrieveError
		if errors.As(err, &retrieveError) {
			slog.Warn("Spotify rejected the refresh token", "status", retrieveError.Response.StatusCode)
		}
		return nil, err
	}

	if refreshed.AccessToken != token.AccessToken {
		slog.Info("Refreshed Spotify token")
		err = s.tokens.SetSpotifyToken(refreshed)
		if err != nil {
			return nil, err
		}
	}
	return refreshed, nil
}
