package account

import (
	"errors"
	"sort"

	"golang.org/x/exp/slog"

	"github.com/campbelljlowman/mopify-api/constants"
	"github.com/campbelljlowman/mopify-api/events"
	"github.com/campbelljlowman/mopify-api/settings"
)

var ErrUnknownService = errors.New("unknown service")

var serviceDisplayNames = map[string]string{
	constants.ServiceSpotify: constants.ServiceSpotifyDisplayName,
}

type Service struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Enabled     bool   `json:"enabled"`
}

// ServiceDisconnected is the payload of mopify:services:disconnected.
type ServiceDisconnected struct {
	Name string `json:"name"`
}

// ServiceManager tracks which streaming services the user has switched on.
type ServiceManager struct {
	settings settings.Store
	bus      *events.Bus
}

func NewServiceManager(settingsStore settings.Store, bus *events.Bus) *ServiceManager {
	return &ServiceManager{
		settings: settingsStore,
		bus:      bus,
	}
}

func (s *ServiceManager) IsEnabled(name string) bool {
	return settings.GetBool(s.settings, constants.ServiceEnabledSetting(name), false)
}

func (s *ServiceManager) Enable(name string) error {
	if _, exists := serviceDisplayNames[name]; !exists {
		return ErrUnknownService
	}
	return settings.SetBool(s.settings, constants.ServiceEnabledSetting(name), true)
}

// Disconnect switches the service off and tells listeners, using the service's display name.
func (s *ServiceManager) Disconnect(name string) error {
	displayName, exists := serviceDisplayNames[name]
	if !exists {
		return ErrUnknownService
	}

	err := settings.SetBool(s.settings, constants.ServiceEnabledSetting(name), false)
	if err != nil {
		return err
	}

	slog.Info("Service disconnected", "service", name)
	s.bus.Broadcast(events.TopicServicesDisconnected, ServiceDisconnected{Name: displayName})
	return nil
}

func (s *ServiceManager) Services() []Service {
	var services []Service
	for name, displayName := range serviceDisplayNames {
		services = append(services, Service{
			Name:        name,
			DisplayName: displayName,
			Enabled:     s.IsEnabled(name),
		})
	}
	sort.Slice(services, func(i, j int) bool { return services[i].Name < services[j].Name })
	return services
}
