package account

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/campbelljlowman/mopify-api/constants"
	"github.com/campbelljlowman/mopify-api/events"
	"github.com/campbelljlowman/mopify-api/notifier"
	"github.com/campbelljlowman/mopify-api/settings"
	"github.com/campbelljlowman/mopify-api/spotify"
)

type fakeSpotifyAccount struct {
	mutex       sync.Mutex
	status      string
	loginErr    error
	profile     *spotify.Profile
	profileErr  error
	logins      int
	reauths     int
	disconnects int
}

var (
	_ SpotifyAccount     = (*spotify.SpotifyLogin)(nil)
	_ spotify.TokenStore = (*AccountGorm)(nil)
)

func (f *fakeSpotifyAccount) GetLoginStatus(ctx context.Context) string {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.status
}

func (f *fakeSpotifyAccount) Login(ctx context.Context) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.logins++
	return f.loginErr
}

func (f *fakeSpotifyAccount) Reauth(ctx context.Context) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.reauths++
	return nil
}

func (f *fakeSpotifyAccount) Disconnect() error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.disconnects++
	return nil
}

func (f *fakeSpotifyAccount) GetCurrentUser(ctx context.Context) (*spotify.Profile, error) {
	return f.profile, f.profileErr
}

func (f *fakeSpotifyAccount) disconnectCount() int {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.disconnects
}

type fakeMopidySettings struct {
	data string
	err  error
}

func (f fakeMopidySettings) GetSettings(ctx context.Context) (string, error) {
	return f.data, f.err
}

type recordingNotifier struct {
	notifications []notifier.Notification
}

func (r *recordingNotifier) Notify(notification notifier.Notification) {
	r.notifications = append(r.notifications, notification)
}

var getSettingTests = []struct {
	key      string
	data     string
	expected string
	err      error
}{
	{"spotify_username", "{'spotify_username': u'bob', 'spotify_password': u'secret'}", "bob", nil},
	{"spotify_password", "{'spotify_username': u'bob', 'spotify_password': u'secret'}", "secret", nil},
	{"spotify_password", "{'spotify_username': 'bob', 'spotify_password': None}", "None", nil},
	{"spotify_username", "{'spotify_username': None, 'enabled': True}", "None", nil},
	{"spotify_username", "{'enabled': True}", "", ErrSettingNotFound},
}

func TestGetSetting(t *testing.T) {
	for _, testCase := range getSettingTests {
		value, err := getSetting(testCase.key, testCase.data)
		if !errors.Is(err, testCase.err) {
			t.Errorf("getSetting(%v) error failed! Wanted: %v, got: %v", testCase.key, testCase.err, err)
		}
		if value != testCase.expected {
			t.Errorf("getSetting(%v) failed! Wanted: %v, got: %v", testCase.key, testCase.expected, value)
		}
	}
}

func TestServiceManager(t *testing.T) {
	bus := events.NewBus()
	subscription := bus.Subscribe(events.TopicServicesDisconnected)
	services := NewServiceManager(settings.NewInMemory(nil), bus)

	assert.False(t, services.IsEnabled(constants.ServiceSpotify))
	require.NoError(t, services.Enable(constants.ServiceSpotify))
	assert.True(t, services.IsEnabled(constants.ServiceSpotify))
	assert.Equal(t, []Service{{Name: "spotify", DisplayName: "Spotify", Enabled: true}}, services.Services())

	require.NoError(t, services.Disconnect(constants.ServiceSpotify))
	assert.False(t, services.IsEnabled(constants.ServiceSpotify))

	select {
	case event := <-subscription.Events:
		assert.Equal(t, ServiceDisconnected{Name: "Spotify"}, event.Payload)
	case <-time.After(time.Second):
		t.Fatal("Disconnect() did not broadcast")
	}

	assert.ErrorIs(t, services.Enable("tidal"), ErrUnknownService)
	assert.ErrorIs(t, services.Disconnect("tidal"), ErrUnknownService)
}

func newSpotifyServiceController(t *testing.T, store settings.Store, spotifyAccount *fakeSpotifyAccount, mopidySettings fakeMopidySettings, n notifier.Notifier) *SpotifyServiceController {
	services := NewServiceManager(store, events.NewBus())
	require.NoError(t, services.Enable(constants.ServiceSpotify))

	controller, err := NewSpotifyServiceController(services, store, spotifyAccount, mopidySettings, n)
	require.NoError(t, err)
	return controller
}

func TestSpotifyServiceControllerRedirectsWhenDisabled(t *testing.T) {
	store := settings.NewInMemory(nil)
	services := NewServiceManager(store, events.NewBus())

	controller, err := NewSpotifyServiceController(services, store, &fakeSpotifyAccount{}, fakeMopidySettings{}, &recordingNotifier{})
	assert.Nil(t, controller)
	assert.ErrorIs(t, err, ErrServiceDisabled)

	var redirect *RedirectError
	require.ErrorAs(t, err, &redirect)
	assert.Equal(t, "/account/services", redirect.Path)
}

func TestSpotifyServiceControllerLoad(t *testing.T) {
	store := settings.NewInMemory(nil)
	profile := &spotify.Profile{ID: "bob", DisplayName: "Bob"}
	mopidySettings := fakeMopidySettings{data: "{'spotify': {'spotify_username': u'bob', 'spotify_password': u'hunter2', 'enabled': True}}"}
	controller := newSpotifyServiceController(t, store, &fakeSpotifyAccount{profile: profile}, mopidySettings, &recordingNotifier{})

	require.NoError(t, controller.Load(context.Background()))

	assert.Equal(t, profile, controller.Profile())
	assert.Equal(t, "bob", store.Get(constants.SettingMopidySpotifyUsername, ""))
	assert.Equal(t, "hunter2", store.Get(constants.SettingMopidySpotifyPassword, ""))
}

func TestSpotifyServiceControllerLoadWithoutCredentials(t *testing.T) {
	store := settings.NewInMemory(nil)
	spotifyAccount := &fakeSpotifyAccount{profileErr: errors.New("not authorized")}
	controller := newSpotifyServiceController(t, store, spotifyAccount, fakeMopidySettings{data: "{'enabled': True}"}, &recordingNotifier{})

	require.NoError(t, controller.Load(context.Background()))

	assert.Nil(t, controller.Profile())
	assert.Equal(t, "None", store.Get(constants.SettingMopidySpotifyUsername, ""))
	assert.Equal(t, "None", store.Get(constants.SettingMopidySpotifyPassword, ""))
}

func TestSpotifyServiceControllerLoadFails(t *testing.T) {
	store := settings.NewInMemory(nil)
	controller := newSpotifyServiceController(t, store, &fakeSpotifyAccount{}, fakeMopidySettings{err: errors.New("connection refused")}, &recordingNotifier{})

	assert.Error(t, controller.Load(context.Background()))
}

var switchSettingsSourceTests = []struct {
	name               string
	useGeneral         string
	username           string
	password           string
	expectedReauths    int
	expectedNotified   bool
	expectedUseGeneral bool
}{
	{"switched off", "false", "bob", "secret", 0, false, false},
	{"credentials set", "true", "bob", "secret", 1, false, true},
	{"missing password", "true", "bob", "None", 0, true, false},
	{"missing username", "true", "None", "secret", 0, true, false},
}

func TestSwitchSettingsSource(t *testing.T) {
	for _, testCase := range switchSettingsSourceTests {
		t.Run(testCase.name, func(t *testing.T) {
			store := settings.NewInMemory(map[string]string{
				constants.SettingSpotifyUseGeneral:     testCase.useGeneral,
				constants.SettingMopidySpotifyUsername: testCase.username,
				constants.SettingMopidySpotifyPassword: testCase.password,
			})
			spotifyAccount := &fakeSpotifyAccount{}
			n := &recordingNotifier{}
			controller := newSpotifyServiceController(t, store, spotifyAccount, fakeMopidySettings{}, n)

			require.NoError(t, controller.SwitchSettingsSource(context.Background()))

			assert.Equal(t, testCase.expectedReauths, spotifyAccount.reauths)
			assert.Equal(t, testCase.expectedUseGeneral, settings.GetBool(store, constants.SettingSpotifyUseGeneral, false))
			if testCase.expectedNotified {
				require.Len(t, n.notifications, 1)
				assert.Equal(t, "Please add spotify_username and spotify_password to your Mopidy.conf file.", n.notifications[0].Template)
				assert.Equal(t, 7500*time.Millisecond, n.notifications[0].Delay)
			} else {
				assert.Empty(t, n.notifications)
			}
		})
	}
}

func TestSpotifyMenuControllerInit(t *testing.T) {
	profile := &spotify.Profile{ID: "bob"}

	connected := &fakeSpotifyAccount{status: spotify.LoginStatusConnected, profile: profile}
	menu := NewSpotifyMenuController(events.NewBus(), connected)
	defer menu.Close()
	require.NoError(t, menu.Init(context.Background()))
	assert.True(t, menu.Authorized())
	assert.Equal(t, profile, menu.UserProfile())
	assert.Equal(t, 0, connected.logins)

	notConnected := &fakeSpotifyAccount{status: spotify.LoginStatusNotConnected, profile: profile}
	menu = NewSpotifyMenuController(events.NewBus(), notConnected)
	defer menu.Close()
	require.NoError(t, menu.Init(context.Background()))
	assert.True(t, menu.Authorized())
	assert.Equal(t, 1, notConnected.logins)

	loginFails := &fakeSpotifyAccount{status: spotify.LoginStatusNotConnected, loginErr: spotify.ErrNotAuthorized}
	menu = NewSpotifyMenuController(events.NewBus(), loginFails)
	defer menu.Close()
	assert.ErrorIs(t, menu.Init(context.Background()), spotify.ErrNotAuthorized)
	assert.False(t, menu.Authorized())
}

func TestSpotifyMenuControllerDisconnect(t *testing.T) {
	bus := events.NewBus()
	spotifyAccount := &fakeSpotifyAccount{status: spotify.LoginStatusConnected, profile: &spotify.Profile{ID: "bob"}}
	menu := NewSpotifyMenuController(bus, spotifyAccount)
	defer menu.Close()
	require.NoError(t, menu.Init(context.Background()))

	bus.Broadcast(events.TopicServicesDisconnected, ServiceDisconnected{Name: "Tidal"})
	bus.Broadcast(events.TopicServicesDisconnected, ServiceDisconnected{Name: "Spotify"})

	assert.Eventually(t, func() bool { return spotifyAccount.disconnectCount() == 1 }, time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool { return !menu.Authorized() }, time.Second, 10*time.Millisecond)
}

func TestSpotifyMenuControllerClose(t *testing.T) {
	bus := events.NewBus()
	menu := NewSpotifyMenuController(bus, &fakeSpotifyAccount{})
	assert.Equal(t, 1, bus.SubscriberCount())

	menu.Close()
	assert.Equal(t, 0, bus.SubscriberCount())
}

func TestAccountGorm(t *testing.T) {
	postgresURL := os.Getenv("MOPIFY_TEST_POSTGRES_URL")
	if postgresURL == "" {
		t.Skip("MOPIFY_TEST_POSTGRES_URL is not set")
	}

	accounts, err := NewAccountGorm(postgresURL)
	require.NoError(t, err)
	require.NoError(t, accounts.DeleteSpotifyToken())

	token, err := accounts.GetSpotifyToken()
	require.NoError(t, err)
	assert.Nil(t, token)

	expiry := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	require.NoError(t, accounts.SetSpotifyToken(&oauth2.Token{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer", Expiry: expiry}))

	token, err = accounts.GetSpotifyToken()
	require.NoError(t, err)
	assert.Equal(t, "access", token.AccessToken)
	assert.Equal(t, "refresh", token.RefreshToken)
	assert.True(t, expiry.Equal(token.Expiry))

	require.NoError(t, accounts.DeleteSpotifyToken())
	token, err = accounts.GetSpotifyToken()
	require.NoError(t, err)
	assert.Nil(t, token)
}
