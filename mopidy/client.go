package mopidy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/exp/slog"
)

const (
	CallingConventionByPositionOnly     = "by-position-only"
	CallingConventionByPositionOrByName = "by-position-or-by-name"

	DefaultPort         = 6680
	WebSocketPath       = "/mopidy/ws"
	defaultWebSocketURL = "ws://localhost:6680/mopidy/ws"

	defaultBackoffDelayMin = 1 * time.Second
	defaultBackoffDelayMax = 64 * time.Second
)

// Client side events, in addition to the "event:<name>" events forwarded from the server
const (
	EventWebSocketOpen       = "websocket:open"
	EventWebSocketClose      = "websocket:close"
	EventWebSocketError      = "websocket:error"
	EventStateOnline         = "state:online"
	EventStateOffline        = "state:offline"
	EventReconnectionPending = "reconnectionPending"
	EventReconnecting        = "reconnecting"
)

var (
	ErrConnecting       = errors.New("WebSocket is still connecting")
	ErrClosed           = errors.New("WebSocket is closed")
	ErrByNameNotAllowed = errors.New("calling by name is not allowed by the calling convention")
)

type EventHandler func(event string, data json.RawMessage)

type Options struct {
	// Empty means no target host: the server is discovered on the local network, or localhost is used
	WebSocketURL      string
	CallingConvention string
	// Discover enables zeroconf lookup when WebSocketURL is empty
	Discover           bool
	DisableAutoConnect bool
	BackoffDelayMin    time.Duration
	BackoffDelayMax    time.Duration
	Dialer             *websocket.Dialer
}

// Client keeps a JSON-RPC session with a Mopidy server open over a websocket, reconnecting with
// exponential backoff until closed.
type Client struct {
	options Options
	dialer  *websocket.Dialer

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	start  sync.Once

	connMutex *sync.Mutex
	conn      *websocket.Conn
	closed    bool
	nextID    int
	pending   map[int]chan response

	writeMutex *sync.Mutex

	handlersMutex *sync.RWMutex
	handlers      []EventHandler
}

func New(options Options) (*Client, error) {
	if options.WebSocketURL != "" {
		if err := validateWebSocketURL(options.WebSocketURL); err != nil {
			return nil, err
		}
	}

	if options.CallingConvention == "" {
		options.CallingConvention = CallingConventionByPositionOnly
	}
	if options.CallingConvention != CallingConventionByPositionOnly && options.CallingConvention != CallingConventionByPositionOrByName {
		return nil, fmt.Errorf("unknown calling convention %q", options.CallingConvention)
	}
	if options.BackoffDelayMin <= 0 {
		options.BackoffDelayMin = defaultBackoffDelayMin
	}
	if options.BackoffDelayMax < options.BackoffDelayMin {
		options.BackoffDelayMax = defaultBackoffDelayMax
	}

	dialer := options.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}

	ctx, cancel := context.WithCancel(context.Background())
	client := &Client{
		options:       options,
		dialer:        dialer,
		ctx:           ctx,
		cancel:        cancel,
		done:          make(chan struct{}),
		connMutex:     &sync.Mutex{},
		nextID:        1,
		pending:       make(map[int]chan response),
		writeMutex:    &sync.Mutex{},
		handlersMutex: &sync.RWMutex{},
	}

	if !options.DisableAutoConnect {
		client.Connect()
	}

	return client, nil
}

// WebSocketURL builds the Mopidy websocket endpoint for a host and port.
func WebSocketURL(host, port string) string {
	return fmt.Sprintf("ws://%s:%s%s", host, port, WebSocketPath)
}

func validateWebSocketURL(rawURL string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid websocket url %q: %w", rawURL, err)
	}
	if parsedURL.Scheme != "ws" && parsedURL.Scheme != "wss" {
		return fmt.Errorf("invalid websocket url %q: scheme must be ws or wss", rawURL)
	}
	if parsedURL.Hostname() == "" {
		return fmt.Errorf("invalid websocket url %q: missing host", rawURL)
	}
	return nil
}

// Connect starts the connection loop. Only needed when DisableAutoConnect is set.
func (c *Client) Connect() {
	c.start.Do(func() {
		go c.run()
	})
}

// On registers a handler for every event the client emits.
func (c *Client) On(handler EventHandler) {
	c.handlersMutex.Lock()
	c.handlers = append(c.handlers, handler)
	c.handlersMutex.Unlock()
}

// Off removes all event handlers.
func (c *Client) Off() {
	c.handlersMutex.Lock()
	c.handlers = nil
	c.handlersMutex.Unlock()
}

// Close ends the session and stops reconnecting. Pending calls fail with ErrClosed.
func (c *Client) Close() error {
	c.connMutex.Lock()
	if c.closed {
		c.connMutex.Unlock()
		return nil
	}
	c.closed = true
	conn := c.conn
	c.connMutex.Unlock()

	c.cancel()

	if conn != nil {
		c.writeMutex.Lock()
		conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		c.writeMutex.Unlock()
		conn.Close()
	}

	// If the loop never started, mark it done so Connect becomes a no-op
	c.start.Do(func() {
		close(c.done)
	})
	<-c.done
	return nil
}

// Call invokes a core API method. method may be given as "playback.getState",
// "mopidy.playback.getState" or "core.playback.get_state". params is nil, an object (by name) or
// an array (by position).
func (c *Client) Call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	var rawParams json.RawMessage
	if params != nil {
		encodedParams, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("encoding params for %s: %w", method, err)
		}
		if len(encodedParams) > 0 && encodedParams[0] == '{' && c.options.CallingConvention == CallingConventionByPositionOnly {
			return nil, ErrByNameNotAllowed
		}
		if string(encodedParams) != "null" {
			rawParams = encodedParams
		}
	}

	c.connMutex.Lock()
	if c.closed {
		c.connMutex.Unlock()
		return nil, ErrClosed
	}
	conn := c.conn
	if conn == nil {
		c.connMutex.Unlock()
		return nil, ErrConnecting
	}
	id := c.nextID
	c.nextID++
	responseChannel := make(chan response, 1)
	c.pending[id] = responseChannel
	c.connMutex.Unlock()

	req := request{
		JSONRpc: "2.0",
		ID:      id,
		Method:  MethodName(method),
	}
	if rawParams != nil {
		req.Params = rawParams
	}

	c.writeMutex.Lock()
	err := conn.WriteJSON(req)
	c.writeMutex.Unlock()
	if err != nil {
		c.removePending(id)
		return nil, fmt.Errorf("sending %s: %w", req.Method, err)
	}

	select {
	case resp := <-responseChannel:
		return resp.result, resp.err
	case <-ctx.Done():
		c.removePending(id)
		return nil, ctx.Err()
	}
}

func (c *Client) removePending(id int) {
	c.connMutex.Lock()
	delete(c.pending, id)
	c.connMutex.Unlock()
}

func (c *Client) run() {
	defer close(c.done)

	delay := c.options.BackoffDelayMin
	target := c.options.WebSocketURL

	for {
		if target == "" {
			target = c.resolveWebSocketURL()
		}

		conn, _, err := c.dialer.DialContext(c.ctx, target, nil)
		if err != nil {
			if c.ctx.Err() != nil {
				return
			}
			slog.Warn("Error connecting to Mopidy", "url", target, "error", err)
			c.emitError(err)

			if !c.waitForReconnect(delay) {
				return
			}
			delay = min(delay*2, c.options.BackoffDelayMax)
			continue
		}

		if !c.setConnection(conn) {
			conn.Close()
			return
		}
		delay = c.options.BackoffDelayMin

		slog.Info("Connected to Mopidy", "url", target)
		c.emit(EventWebSocketOpen, nil)
		c.emit(EventStateOnline, nil)

		c.readLoop(conn)

		c.dropConnection()
		c.emit(EventWebSocketClose, nil)
		c.emit(EventStateOffline, nil)

		if c.ctx.Err() != nil {
			return
		}
		slog.Info("Connection to Mopidy lost", "url", target)
		if !c.waitForReconnect(delay) {
			return
		}
		delay = min(delay*2, c.options.BackoffDelayMax)
	}
}

func (c *Client) resolveWebSocketURL() string {
	if !c.options.Discover {
		return defaultWebSocketURL
	}

	ctx, cancel := context.WithTimeout(c.ctx, discoveryTimeout)
	defer cancel()

	host, port, err := DiscoverServer(ctx)
	if err != nil {
		slog.Info("No Mopidy server discovered, using default", "url", defaultWebSocketURL, "error", err)
		return defaultWebSocketURL
	}
	return WebSocketURL(host, fmt.Sprintf("%d", port))
}

func (c *Client) waitForReconnect(delay time.Duration) bool {
	timeToAttempt, _ := json.Marshal(map[string]int64{"timeToAttempt": delay.Milliseconds()})
	c.emit(EventReconnectionPending, timeToAttempt)

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		c.emit(EventReconnecting, nil)
		return true
	case <-c.ctx.Done():
		return false
	}
}

func (c *Client) setConnection(conn *websocket.Conn) bool {
	c.connMutex.Lock()
	defer c.connMutex.Unlock()
	if c.closed {
		return false
	}
	c.conn = conn
	return true
}

func (c *Client) dropConnection() {
	c.connMutex.Lock()
	if c.conn != nil {
		c.conn.Close()
	}
	c.conn = nil
	pending := c.pending
	c.pending = make(map[int]chan response)
	c.connMutex.Unlock()

	for _, responseChannel := range pending {
		responseChannel <- response{err: ErrClosed}
	}
}

func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if c.ctx.Err() == nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.emitError(err)
			}
			return
		}

		var message incomingMessage
		if err := json.Unmarshal(data, &message); err != nil {
			slog.Warn("Unknown message from Mopidy", "message", string(data), "error", err)
			continue
		}

		switch {
		case message.ID != nil:
			c.handleResponse(*message.ID, message)
		case message.Event != "":
			c.handleEvent(message.Event, data)
		default:
			slog.Warn("Unknown message type from Mopidy", "message", string(data))
		}
	}
}

func (c *Client) handleResponse(id int, message incomingMessage) {
	c.connMutex.Lock()
	responseChannel, exists := c.pending[id]
	delete(c.pending, id)
	c.connMutex.Unlock()

	if !exists {
		slog.Warn("Unexpected response from Mopidy", "id", id)
		return
	}

	if message.Error != nil {
		responseChannel <- response{err: message.Error}
		return
	}
	responseChannel <- response{result: message.Result}
}

func (c *Client) handleEvent(serverEvent string, data []byte) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		slog.Warn("Error decoding Mopidy event", "event", serverEvent, "error", err)
		return
	}
	delete(fields, "event")

	payload, err := json.Marshal(fields)
	if err != nil {
		slog.Warn("Error encoding Mopidy event", "event", serverEvent, "error", err)
		return
	}

	c.emit(EventName(serverEvent), payload)
}

func (c *Client) emitError(err error) {
	payload, _ := json.Marshal(map[string]string{"message": err.Error()})
	c.emit(EventWebSocketError, payload)
}

func (c *Client) emit(event string, data json.RawMessage) {
	c.handlersMutex.RLock()
	handlers := make([]EventHandler, len(c.handlers))
	copy(handlers, c.handlers)
	c.handlersMutex.RUnlock()

	for _, handler := range handlers {
		handler(event, data)
	}
}
