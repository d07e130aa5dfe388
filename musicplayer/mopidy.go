package musicplayer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/exp/slog"

	"github.com/campbelljlowman/mopify-api/constants"
	"github.com/campbelljlowman/mopify-api/events"
	"github.com/campbelljlowman/mopify-api/mopidy"
	"github.com/campbelljlowman/mopify-api/notifier"
	"github.com/campbelljlowman/mopify-api/settings"
	"github.com/campbelljlowman/mopify-api/utils"
)

var (
	ErrNotStarted          = errors.New("mopidy service is not started")
	ErrTrackNotInTracklist = errors.New("track is not in the tracklist")
	ErrEmptyTracklist      = errors.New("tracklist is empty")
)

// MopidyClient is the part of mopidy.Client the service needs.
type MopidyClient interface {
	Call(ctx context.Context, method string, params any) (json.RawMessage, error)
	On(handler mopidy.EventHandler)
	Off()
	Connect()
	Close() error
}

type ClientFactory func(options mopidy.Options) (MopidyClient, error)

func NewMopidyClient(options mopidy.Options) (MopidyClient, error) {
	client, err := mopidy.New(options)
	if err != nil {
		return nil, err
	}
	return client, nil
}

type Options struct {
	// Host and port used when the settings don't name one
	DefaultHost string
	DefaultPort string
	// Discover lets the fallback connection look for a server on the local network
	Discover      bool
	ClientFactory ClientFactory
	HTTPClient    *http.Client
}

// CallPayload is broadcast before and after every wrapped call.
type CallPayload struct {
	Name string `json:"name"`
	Args []any  `json:"args"`
	Err  string `json:"err,omitempty"`
}

// MopidyService holds the connection to Mopidy and wraps its API so every call is announced on
// the bus before it is made and after it resolves or fails.
type MopidyService struct {
	bus         *events.Bus
	settings    settings.Store
	notifier    notifier.Notifier
	newClient   ClientFactory
	defaultHost string
	defaultPort string
	discover    bool
	httpClient  *http.Client

	mutex           *sync.RWMutex
	client          MopidyClient
	isConnected     bool
	currentTlTracks []mopidy.TlTrack
}

func NewMopidyService(bus *events.Bus, settingsStore settings.Store, n notifier.Notifier, options Options) *MopidyService {
	if options.ClientFactory == nil {
		options.ClientFactory = NewMopidyClient
	}
	if options.HTTPClient == nil {
		options.HTTPClient = &http.Client{
			Timeout: 10 * time.Second,
		}
	}
	if options.DefaultHost == "" {
		options.DefaultHost = "localhost"
	}
	if options.DefaultPort == "" {
		options.DefaultPort = constants.DefaultMopidyPort
	}

	return &MopidyService{
		bus:         bus,
		settings:    settingsStore,
		notifier:    n,
		newClient:   options.ClientFactory,
		defaultHost: options.DefaultHost,
		defaultPort: options.DefaultPort,
		discover:    options.Discover,
		httpClient:  options.HTTPClient,
		mutex:       &sync.RWMutex{},
	}
}

// Start opens the connection to Mopidy using the host and port from the settings.
func (m *MopidyService) Start() error {
	m.bus.Broadcast(events.TopicStartingMopidy, nil)

	mopidyIP, mopidyPort := m.hostAndPort()

	client, err := m.newClient(mopidy.Options{
		WebSocketURL:       mopidy.WebSocketURL(mopidyIP, mopidyPort),
		CallingConvention:  mopidy.CallingConventionByPositionOrByName,
		DisableAutoConnect: true,
	})
	if err != nil {
		slog.Warn("Error creating Mopidy client, retrying without a target host", "host", mopidyIP, "port", mopidyPort, "error", err)
		m.notifier.Notify(notifier.Notification{
			Type:     notifier.TypeCustom,
			Template: "Connecting with Mopidy failed with the following error message: <br>" + err.Error(),
			Delay:    constants.ConnectionFailedNotificationDelay,
		})

		client, err = m.newClient(mopidy.Options{
			CallingConvention:  mopidy.CallingConventionByPositionOrByName,
			Discover:           m.discover,
			DisableAutoConnect: true,
		})
		if err != nil {
			return utils.LogAndReturnError("Error creating Mopidy client without a target host", err)
		}
	}

	client.On(func(event string, data json.RawMessage) {
		m.bus.Broadcast(events.MopidyTopic(event), data)

		switch event {
		case mopidy.EventStateOnline:
			m.setConnected(true)
		case mopidy.EventStateOffline:
			m.setConnected(false)
		}
	})

	m.mutex.Lock()
	previousClient := m.client
	m.client = client
	m.mutex.Unlock()

	if previousClient != nil {
		slog.Info("Replacing running Mopidy client")
		previousClient.Off()
		closeClient(previousClient)
	}

	// Connecting only once the handler is registered, so state:online can't be missed
	client.Connect()

	m.bus.Broadcast(events.TopicMopidyStarted, nil)
	return nil
}

// Stop closes the connection to Mopidy.
func (m *MopidyService) Stop() {
	m.bus.Broadcast(events.TopicStoppingMopidy, nil)

	m.mutex.Lock()
	client := m.client
	m.client = nil
	m.mutex.Unlock()

	// The client may still emit its offline events while closing, so it's closed outside the lock
	if client != nil {
		closeClient(client)
	}
	m.setConnected(false)

	m.bus.Broadcast(events.TopicStoppedMopidy, nil)
}

func (m *MopidyService) hostAndPort() (string, string) {
	mopidyIP := m.settings.Get(constants.SettingMopidyIP, m.defaultHost)
	mopidyPort := m.settings.Get(constants.SettingMopidyPort, m.defaultPort)
	return mopidyIP, mopidyPort
}

func (m *MopidyService) Restart() error {
	m.Stop()
	return m.Start()
}

func closeClient(client MopidyClient) {
	if err := client.Close(); err != nil {
		slog.Warn("Error closing Mopidy client", "error", err)
	}
	client.Off()
}

func (m *MopidyService) IsConnected() bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.isConnected
}

func (m *MopidyService) IsStarted() bool {
	return m.getClient() != nil
}

// CurrentTlTracks returns the tracklist as last mirrored by PlayTrack.
func (m *MopidyService) CurrentTlTracks() []mopidy.TlTrack {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	tlTracks := make([]mopidy.TlTrack, len(m.currentTlTracks))
	copy(tlTracks, m.currentTlTracks)
	return tlTracks
}

func (m *MopidyService) setCurrentTlTracks(tlTracks []mopidy.TlTrack) {
	m.mutex.Lock()
	m.currentTlTracks = tlTracks
	m.mutex.Unlock()
}

func (m *MopidyService) setConnected(isConnected bool) {
	m.mutex.Lock()
	m.isConnected = isConnected
	m.mutex.Unlock()
}

func (m *MopidyService) getClient() MopidyClient {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.client
}

// call forwards a call to Mopidy unchanged and announces it on the bus: callingmopidy first, then
// calledmopidy on success or errormopidy on failure. A non-nil result is decoded before the outcome
// is announced, so a result that can't be decoded counts as a failure.
func (m *MopidyService) call(ctx context.Context, name string, params any, result any) error {
	args := []any{}
	if params != nil {
		args = append(args, params)
	}

	m.bus.Broadcast(events.TopicCallingMopidy, CallPayload{Name: name, Args: args})

	var rawResult json.RawMessage
	var err error

	client := m.getClient()
	if client == nil {
		err = ErrNotStarted
	} else {
		rawResult, err = client.Call(ctx, name, params)
	}

	if err == nil && result != nil && len(rawResult) > 0 && string(rawResult) != "null" {
		decodeErr := json.Unmarshal(rawResult, result)
		if decodeErr != nil {
			err = fmt.Errorf("decoding result of %s: %w", name, decodeErr)
		}
	}

	if err != nil {
		m.bus.Broadcast(events.TopicErrorMopidy, CallPayload{Name: name, Args: args, Err: err.Error()})
		return err
	}

	m.bus.Broadcast(events.TopicCalledMopidy, CallPayload{Name: name, Args: args})
	return nil
}

func callAndDecode[T any](ctx context.Context, m *MopidyService, name string, params any) (T, error) {
	var decoded T

	err := m.call(ctx, name, params, &decoded)
	if err != nil {
		var zero T
		return zero, err
	}
	return decoded, nil
}

func (m *MopidyService) callAndDiscard(ctx context.Context, name string, params any) error {
	return m.call(ctx, name, params, nil)
}
