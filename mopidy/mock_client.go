package mopidy

import (
	"context"
	"encoding/json"
	"sync"
)

type MockCall struct {
	Method string
	Params any
}

// MockClient answers calls from canned results and records what it was asked. Methods are keyed
// the way callers pass them, e.g. "mopidy.playback.getState".
type MockClient struct {
	Options Options
	Results map[string]any
	Errors  map[string]error

	mutex    sync.Mutex
	calls    []MockCall
	handlers          []EventHandler
	closed            bool
	connected         bool
	handlersAtConnect int
}

func NewMockClient(options Options) *MockClient {
	return &MockClient{
		Options: options,
		Results: make(map[string]any),
		Errors:  make(map[string]error),
	}
}

func (m *MockClient) Call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	m.mutex.Lock()
	m.calls = append(m.calls, MockCall{Method: method, Params: params})
	err := m.Errors[method]
	result, hasResult := m.Results[method]
	m.mutex.Unlock()

	if err != nil {
		return nil, err
	}
	if !hasResult {
		return json.RawMessage("null"), nil
	}
	return json.Marshal(result)
}

func (m *MockClient) On(handler EventHandler) {
	m.mutex.Lock()
	m.handlers = append(m.handlers, handler)
	m.mutex.Unlock()
}

func (m *MockClient) Off() {
	m.mutex.Lock()
	m.handlers = nil
	m.mutex.Unlock()
}

// Connect only records that it was called, events are delivered with Emit.
func (m *MockClient) Connect() {
	m.mutex.Lock()
	m.connected = true
	m.handlersAtConnect = len(m.handlers)
	m.mutex.Unlock()
}

func (m *MockClient) Close() error {
	m.mutex.Lock()
	m.closed = true
	m.mutex.Unlock()
	return nil
}

// Emit delivers an event to the registered handlers, as if it came from the server.
func (m *MockClient) Emit(event string, data json.RawMessage) {
	m.mutex.Lock()
	handlers := make([]EventHandler, len(m.handlers))
	copy(handlers, m.handlers)
	m.mutex.Unlock()

	for _, handler := range handlers {
		handler(event, data)
	}
}

func (m *MockClient) Calls() []MockCall {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	calls := make([]MockCall, len(m.calls))
	copy(calls, m.calls)
	return calls
}

func (m *MockClient) Methods() []string {
	var methods []string
	for _, call := range m.Calls() {
		methods = append(methods, call.Method)
	}
	return methods
}

func (m *MockClient) IsClosed() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.closed
}

func (m *MockClient) ConnectCalled() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.connected
}

// HandlersAtConnect is the number of handlers that were registered when Connect was called.
func (m *MockClient) HandlersAtConnect() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.handlersAtConnect
}

func (m *MockClient) HandlerCount() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.handlers)
}
