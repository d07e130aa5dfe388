package spotify

import (
	"sync"

	"golang.org/x/oauth2"
)

// TokenStore keeps the Spotify token between restarts. GetSpotifyToken returns nil without an
// error when nothing is stored.
type TokenStore interface {
	GetSpotifyToken() (*oauth2.Token, error)
	SetSpotifyToken(token *oauth2.Token) error
	DeleteSpotifyToken() error
}

type InMemoryTokenStore struct {
	mutex *sync.Mutex
	token *oauth2.Token
}

func NewInMemoryTokenStore() *InMemoryTokenStore {
	return &InMemoryTokenStore{
		mutex: &sync.Mutex{},
	}
}

func (i *InMemoryTokenStore) GetSpotifyToken() (*oauth2.Token, error) {
	i.mutex.Lock()
	defer i.mutex.Unlock()
	if i.token == nil {
		return nil, nil
	}
	token := *i.token
	return &token, nil
}

func (i *InMemoryTokenStore) SetSpotifyToken(token *oauth2.Token) error {
	i.mutex.Lock()
	defer i.mutex.Unlock()
	stored := *token
	i.token = &stored
	return nil
}

func (i *InMemoryTokenStore) DeleteSpotifyToken() error {
	i.mutex.Lock()
	defer i.mutex.Unlock()
	i.token = nil
	return nil
}
