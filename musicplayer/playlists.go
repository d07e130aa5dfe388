package musicplayer

import (
	"context"

	"github.com/campbelljlowman/mopify-api/mopidy"
)

func (m *MopidyService) GetPlaylists(ctx context.Context) ([]mopidy.Playlist, error) {
	return callAndDecode[[]mopidy.Playlist](ctx, m, "mopidy.playlists.getPlaylists", nil)
}

func (m *MopidyService) GetPlaylist(ctx context.Context, uri string) (*mopidy.Playlist, error) {
	return callAndDecode[*mopidy.Playlist](ctx, m, "mopidy.playlists.lookup", map[string]any{"uri": uri})
}
