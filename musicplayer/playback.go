package musicplayer

import (
	"context"

	"github.com/campbelljlowman/mopify-api/mopidy"
)

func (m *MopidyService) GetCurrentTrack(ctx context.Context) (*mopidy.Track, error) {
	return callAndDecode[*mopidy.Track](ctx, m, "mopidy.playback.getCurrentTrack", nil)
}

// GetTimePosition returns the position in the current track in milliseconds.
func (m *MopidyService) GetTimePosition(ctx context.Context) (int, error) {
	return callAndDecode[int](ctx, m, "mopidy.playback.getTimePosition", nil)
}

func (m *MopidyService) Seek(ctx context.Context, timePosition int) (bool, error) {
	return callAndDecode[bool](ctx, m, "mopidy.playback.seek", map[string]any{"time_position": timePosition})
}

func (m *MopidyService) GetVolume(ctx context.Context) (int, error) {
	return callAndDecode[int](ctx, m, "mopidy.playback.getVolume", nil)
}

func (m *MopidyService) SetVolume(ctx context.Context, volume int) (bool, error) {
	return callAndDecode[bool](ctx, m, "mopidy.playback.setVolume", map[string]any{"volume": volume})
}

func (m *MopidyService) GetState(ctx context.Context) (string, error) {
	return callAndDecode[string](ctx, m, "mopidy.playback.getState", nil)
}

func (m *MopidyService) Play(ctx context.Context, tlTrack *mopidy.TlTrack) error {
	if tlTrack != nil {
		return m.callAndDiscard(ctx, "mopidy.playback.play", map[string]any{"tl_track": tlTrack})
	}
	return m.callAndDiscard(ctx, "mopidy.playback.play", nil)
}

func (m *MopidyService) Pause(ctx context.Context) error {
	return m.callAndDiscard(ctx, "mopidy.playback.pause", nil)
}

func (m *MopidyService) StopPlayback(ctx context.Context, clearCurrentTrack bool) error {
	return m.callAndDiscard(ctx, "mopidy.playback.stop", map[string]any{"clear_current_track": clearCurrentTrack})
}

func (m *MopidyService) Previous(ctx context.Context) error {
	return m.callAndDiscard(ctx, "mopidy.playback.previous", nil)
}

func (m *MopidyService) Next(ctx context.Context) error {
	return m.callAndDiscard(ctx, "mopidy.playback.next", nil)
}
