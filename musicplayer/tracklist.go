package musicplayer

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/exp/slices"
	"golang.org/x/exp/slog"

	"github.com/campbelljlowman/mopify-api/events"
	"github.com/campbelljlowman/mopify-api/mopidy"
)

// PlayTrack plays track with surroundingTracks as the tracklist. When every surrounding track is
// already in the mirrored tracklist only the current track is changed, otherwise the tracklist is
// replaced first. surroundingTracks defaults to just track.
func (m *MopidyService) PlayTrack(ctx context.Context, track mopidy.Track, surroundingTracks []mopidy.Track) error {
	client := m.getClient()
	if client == nil {
		return ErrNotStarted
	}

	if len(surroundingTracks) == 0 {
		surroundingTracks = []mopidy.Track{track}
	}

	currentTlTracks := m.CurrentTlTracks()
	if len(currentTlTracks) > 0 && allInTracklist(surroundingTracks, currentTlTracks) {
		tlTrackToPlay, found := findTlTrack(currentTlTracks, track.URI)
		if !found {
			return ErrTrackNotInTracklist
		}

		_, err := client.Call(ctx, "mopidy.playback.stop", map[string]any{"clear_current_track": false})
		if err != nil {
			return err
		}
		return m.changeTrackAndPlay(ctx, client, tlTrackToPlay)
	}

	// Failures before the tracklist is read back are logged and the sequence carries on, the
	// lookup below reports whether the track made it into the tracklist.
	_, err := client.Call(ctx, "mopidy.playback.stop", map[string]any{"clear_current_track": true})
	if err != nil {
		slog.Warn("Error stopping playback", "error", err)
	} else if _, err := client.Call(ctx, "mopidy.tracklist.clear", nil); err != nil {
		slog.Warn("Error clearing tracklist", "error", err)
	}

	_, err = client.Call(ctx, "mopidy.tracklist.add", map[string]any{"tracks": surroundingTracks})
	if err != nil {
		slog.Warn("Error adding tracks to tracklist", "error", err)
	}

	tlTracks, err := getTlTracks(ctx, client)
	if err != nil {
		slog.Warn("Error getting tracklist", "error", err)
		return err
	}
	m.setCurrentTlTracks(tlTracks)

	tlTrackToPlay, found := findTlTrack(tlTracks, track.URI)
	if !found {
		return ErrTrackNotInTracklist
	}
	return m.changeTrackAndPlay(ctx, client, tlTrackToPlay)
}

// PlayTrackAtIndex plays the tracklist entry at index, or the last one if index is past the end.
func (m *MopidyService) PlayTrackAtIndex(ctx context.Context, index int) error {
	client := m.getClient()
	if client == nil {
		return ErrNotStarted
	}

	tlTracks, err := getTlTracks(ctx, client)
	if err != nil {
		slog.Warn("Error getting tracklist", "error", err)
		return err
	}
	if len(tlTracks) == 0 {
		return ErrEmptyTracklist
	}

	index = max(min(index, len(tlTracks)-1), 0)
	return m.changeTrackAndPlay(ctx, client, tlTracks[index])
}

func (m *MopidyService) changeTrackAndPlay(ctx context.Context, client MopidyClient, tlTrack mopidy.TlTrack) error {
	_, err := client.Call(ctx, "mopidy.playback.changeTrack", map[string]any{"tl_track": tlTrack})
	if err != nil {
		return err
	}

	_, err = client.Call(ctx, "mopidy.playback.play", nil)
	if err != nil {
		return err
	}

	m.bus.Broadcast(events.TopicTrackPlaybackStarted, tlTrack)
	return nil
}

func getTlTracks(ctx context.Context, client MopidyClient) ([]mopidy.TlTrack, error) {
	result, err := client.Call(ctx, "mopidy.tracklist.getTlTracks", nil)
	if err != nil {
		return nil, err
	}

	var tlTracks []mopidy.TlTrack
	err = json.Unmarshal(result, &tlTracks)
	if err != nil {
		return nil, fmt.Errorf("decoding tracklist: %w", err)
	}
	return tlTracks, nil
}

func allInTracklist(tracks []mopidy.Track, tlTracks []mopidy.TlTrack) bool {
	for _, track := range tracks {
		if !slices.ContainsFunc(tlTracks, func(tlTrack mopidy.TlTrack) bool { return tlTrack.Track.URI == track.URI }) {
			return false
		}
	}
	return true
}

func findTlTrack(tlTracks []mopidy.TlTrack, uri string) (mopidy.TlTrack, bool) {
	idx := slices.IndexFunc(tlTracks, func(tlTrack mopidy.TlTrack) bool { return tlTrack.Track.URI == uri })
	if idx == -1 {
		return mopidy.TlTrack{}, false
	}
	return tlTracks[idx], true
}

func (m *MopidyService) ClearTracklist(ctx context.Context) error {
	return m.callAndDiscard(ctx, "mopidy.tracklist.clear", nil)
}

// AddToTracklist forwards obj as is, e.g. {"uri": ...}, {"uris": [...]} or {"tracks": [...]}.
func (m *MopidyService) AddToTracklist(ctx context.Context, obj map[string]any) ([]mopidy.TlTrack, error) {
	return callAndDecode[[]mopidy.TlTrack](ctx, m, "mopidy.tracklist.add", obj)
}

func (m *MopidyService) GetTracklist(ctx context.Context) ([]mopidy.TlTrack, error) {
	return callAndDecode[[]mopidy.TlTrack](ctx, m, "mopidy.tracklist.getTlTracks", nil)
}

func (m *MopidyService) ShuffleTracklist(ctx context.Context) error {
	return m.callAndDiscard(ctx, "mopidy.tracklist.shuffle", nil)
}

func (m *MopidyService) FilterTracklist(ctx context.Context, query map[string]any) ([]mopidy.TlTrack, error) {
	return callAndDecode[[]mopidy.TlTrack](ctx, m, "mopidy.tracklist.filter", map[string]any{"criteria": query})
}

func (m *MopidyService) RemoveFromTracklist(ctx context.Context, criteria map[string]any) ([]mopidy.TlTrack, error) {
	return callAndDecode[[]mopidy.TlTrack](ctx, m, "mopidy.tracklist.remove", map[string]any{"criteria": criteria})
}

func (m *MopidyService) GetRandom(ctx context.Context) (bool, error) {
	return callAndDecode[bool](ctx, m, "mopidy.tracklist.getRandom", nil)
}

func (m *MopidyService) SetRandom(ctx context.Context, isRandom bool) error {
	return m.callAndDiscard(ctx, "mopidy.tracklist.setRandom", []any{isRandom})
}

func (m *MopidyService) GetRepeat(ctx context.Context) (bool, error) {
	return callAndDecode[bool](ctx, m, "mopidy.tracklist.getRepeat", nil)
}

func (m *MopidyService) SetRepeat(ctx context.Context, isRepeat bool) error {
	return m.callAndDiscard(ctx, "mopidy.tracklist.setRepeat", []any{isRepeat})
}
