package notifier

import (
	"time"

	"golang.org/x/exp/slog"

	"github.com/campbelljlowman/mopify-api/events"
)

const TypeCustom = "custom"

type Notification struct {
	Type     string        `json:"type"`
	Template string        `json:"template"`
	Delay    time.Duration `json:"-"`
	DelayMS  int64         `json:"delay"`
}

type Notifier interface {
	Notify(notification Notification)
}

// BusNotifier shows notifications by broadcasting them to whatever UI listens on the bus.
type BusNotifier struct {
	bus *events.Bus
}

func NewBusNotifier(bus *events.Bus) *BusNotifier {
	return &BusNotifier{bus: bus}
}

func (n *BusNotifier) Notify(notification Notification) {
	if notification.Type == "" {
		notification.Type = TypeCustom
	}
	notification.DelayMS = notification.Delay.Milliseconds()

	slog.Info("Notifying user", "type", notification.Type, "message", notification.Template, "delay", notification.Delay)
	n.bus.Broadcast(events.TopicNotify, notification)
}
