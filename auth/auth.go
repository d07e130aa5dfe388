package auth

import (
	"errors"

	"golang.org/x/exp/slog"
)

// The API has a single user, tokens are issued for this subject
const subject = "mopify"

var (
	ErrAuthDisabled    = errors.New("authentication is not configured")
	ErrInvalidPassword  = errors.New("invalid password")
)

// AuthService issues API tokens for whoever knows the configured password. It is disabled when no
// JWT secret is configured.
type AuthService struct {
	jwtSecret    []byte
	passwordHash string
}

func NewAuthService(jwtSecret, passwordHash string) *AuthService {
	if jwtSecret != "" && passwordHash == "" {
		slog.Warn("JWT secret is set without a password hash, no tokens can be issued")
	}

	return &AuthService{
		jwtSecret:    []byte(jwtSecret),
		passwordHash: passwordHash,
	}
}

func (a *AuthService) Enabled() bool {
	return a != nil && len(a.jwtSecret) > 0
}

// Login trades the password for an access token.
func (a *AuthService) Login(password string) (string, error) {
	if !a.Enabled() || a.passwordHash == "" {
		return "", ErrAuthDisabled
	}

	if !CompareBcryptHashAndString(a.passwordHash, password) {
		slog.Info("Login attempt with wrong password")
		return "", ErrInvalidPassword
	}

	return GenerateJWT(a.jwtSecret, subject)
}

func (a *AuthService) Verify(bearerToken string) error {
	if !a.Enabled() {
		return nil
	}

	_, err := VerifyJWT(a.jwtSecret, bearerToken)
	return err
}
