package mopidy

import (
	"encoding/json"
	"fmt"
)

type request struct {
	JSONRpc string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

// A message from the server is either a response (has an id) or an event (has an event name).
type incomingMessage struct {
	JSONRpc string          `json:"jsonrpc"`
	ID      *int            `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error"`
	Event   string          `json:"event"`
}

type response struct {
	result json.RawMessage
	err    error
}

// RPCError is a JSON-RPC error returned by Mopidy.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("mopidy error %d: %s", e.Code, e.Message)
}

// Models below mirror the Mopidy core models. Fields the frontend never reads are left out.

type Artist struct {
	URI  string `json:"uri,omitempty"`
	Name string `json:"name,omitempty"`
}

type Album struct {
	URI     string   `json:"uri,omitempty"`
	Name    string   `json:"name,omitempty"`
	Artists []Artist `json:"artists,omitempty"`
	Date    string   `json:"date,omitempty"`
	Images  []string `json:"images,omitempty"`
}

type Track struct {
	Model   string   `json:"__model__,omitempty"`
	URI     string   `json:"uri"`
	Name    string   `json:"name,omitempty"`
	Artists []Artist `json:"artists,omitempty"`
	Album   *Album   `json:"album,omitempty"`
	Length  int      `json:"length,omitempty"`
	TrackNo int      `json:"track_no,omitempty"`
}

type TlTrack struct {
	Model string `json:"__model__,omitempty"`
	TlID  int    `json:"tlid"`
	Track Track  `json:"track"`
}

type Ref struct {
	URI  string `json:"uri"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type Playlist struct {
	URI          string  `json:"uri"`
	Name         string  `json:"name"`
	Tracks       []Track `json:"tracks,omitempty"`
	LastModified int64   `json:"last_modified,omitempty"`
}

type SearchResult struct {
	URI     string   `json:"uri"`
	Tracks  []Track  `json:"tracks,omitempty"`
	Albums  []Album  `json:"albums,omitempty"`
	Artists []Artist `json:"artists,omitempty"`
}

// Playback states reported by playback.getState
const (
	StatePlaying = "playing"
	StatePaused  = "paused"
	StateStopped = "stopped"
)
