package account

import (
	"errors"
	"time"

	"golang.org/x/exp/slog"
	"golang.org/x/oauth2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Mopify serves a single user, so the one account row always has this ID
const accountID = 1

type account struct {
	gorm.Model
	SpotifyAccessToken  string
	SpotifyRefreshToken string
	SpotifyTokenType    string
	SpotifyTokenExpiry  time.Time
}

// AccountGorm stores the Spotify token in postgres.
type AccountGorm struct {
	gorm *gorm.DB
}

func NewAccountGorm(postgresURL string) (*AccountGorm, error) {
	gormDB, err := gorm.Open(postgres.Open(postgresURL), &gorm.Config{})
	if err != nil {
		slog.Error("Unable to connect to database", "error", err)
		return nil, err
	}
	return NewAccountGormFromDB(gormDB)
}

func NewAccountGormFromDB(gormDB *gorm.DB) (*AccountGorm, error) {
	err := gormDB.AutoMigrate(&account{})
	if err != nil {
		return nil, err
	}
	return &AccountGorm{gorm: gormDB}, nil
}

func (a *AccountGorm) GetSpotifyToken() (*oauth2.Token, error) {
	var storedAccount account
	err := a.gorm.First(&storedAccount, accountID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if storedAccount.SpotifyAccessToken == "" && storedAccount.SpotifyRefreshToken == "" {
		return nil, nil
	}

	return &oauth2.Token{
		AccessToken:  storedAccount.SpotifyAccessToken,
		RefreshToken: storedAccount.SpotifyRefreshToken,
		TokenType:    storedAccount.SpotifyTokenType,
		Expiry:       storedAccount.SpotifyTokenExpiry,
	}, nil
}

func (a *AccountGorm) SetSpotifyToken(token *oauth2.Token) error {
	accountToSave := &account{
		Model:               gorm.Model{ID: accountID},
		SpotifyAccessToken:  token.AccessToken,
		SpotifyRefreshToken: token.RefreshToken,
		SpotifyTokenType:    token.TokenType,
		SpotifyTokenExpiry:  token.Expiry,
	}
	return a.gorm.Save(accountToSave).Error
}

func (a *AccountGorm) DeleteSpotifyToken() error {
	return a.gorm.Model(&account{}).Where("id = ?", accountID).Updates(map[string]any{
		"spotify_access_token":  "",
		"spotify_refresh_token": "",
		"spotify_token_type":    "",
		"spotify_token_expiry":  time.Time{},
	}).Error
}
