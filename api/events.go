package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"golang.org/x/exp/slog"
)

const (
	keepAlivePingInterval = 10 * time.Second
	writeWait             = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// streamEvents forwards bus events to a websocket as {topic, payload}. The topics query parameter
// takes a comma separated list of filters, e.g. topics=mopidy:event:*,mopify:notify.
func (h *handler) streamEvents(c *gin.Context) {
	var filters []string
	if topics := c.Query("topics"); topics != "" {
		filters = strings.Split(topics, ",")
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("Error upgrading events connection", "error", err)
		return
	}
	defer conn.Close()

	subscription := h.bus.Subscribe(filters...)
	defer subscription.Unsubscribe()
	slog.Info("Events client connected", "subscription", subscription.ID, "filters", filters)

	// Clients don't send anything, reading only notices when they go away
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(keepAlivePingInterval)
	defer ping.Stop()

	for {
		select {
		case event, ok := <-subscription.Events:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(event); err != nil {
				slog.Info("Events client write failed", "subscription", subscription.ID, "error", err)
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-closed:
			slog.Info("Events client disconnected", "subscription", subscription.ID)
			return
		}
	}
}
