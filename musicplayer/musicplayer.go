package musicplayer

import (
	"context"

	"github.com/campbelljlowman/mopify-api/mopidy"
)

// MusicPlayer is an interface that defines the transport controls a music player should have.
type MusicPlayer interface {
	// Play starts playback, of tlTrack if given, otherwise of the current track.
	Play(ctx context.Context, tlTrack *mopidy.TlTrack) error
	// Pause pauses playback of the current track.
	Pause(ctx context.Context) error
	// Next skips to the next track in the tracklist.
	Next(ctx context.Context) error
	// Previous goes back to the previous track in the tracklist.
	Previous(ctx context.Context) error
	StopPlayback(ctx context.Context, clearCurrentTrack bool) error
	// GetCurrentTrack returns the track that is playing, nil if there is none.
	GetCurrentTrack(ctx context.Context) (*mopidy.Track, error)
	GetState(ctx context.Context) (string, error)
}
