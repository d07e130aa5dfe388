package musicplayer

import (
	"context"

	"github.com/campbelljlowman/mopify-api/mopidy"
)

func (m *MopidyService) Refresh(ctx context.Context, uri string) error {
	return m.callAndDiscard(ctx, "mopidy.library.refresh", map[string]any{"uri": uri})
}

func (m *MopidyService) GetTrack(ctx context.Context, uri string) ([]mopidy.Track, error) {
	return m.Lookup(ctx, uri)
}

func (m *MopidyService) GetAlbum(ctx context.Context, uri string) ([]mopidy.Track, error) {
	return m.Lookup(ctx, uri)
}

func (m *MopidyService) GetArtist(ctx context.Context, uri string) ([]mopidy.Track, error) {
	return m.Lookup(ctx, uri)
}

func (m *MopidyService) Lookup(ctx context.Context, uri string) ([]mopidy.Track, error) {
	return callAndDecode[[]mopidy.Track](ctx, m, "mopidy.library.lookup", map[string]any{"uri": uri})
}

func (m *MopidyService) Search(ctx context.Context, query string) ([]mopidy.SearchResult, error) {
	return callAndDecode[[]mopidy.SearchResult](ctx, m, "mopidy.library.search", map[string]any{"any": []string{query}})
}

func (m *MopidyService) SearchTrack(ctx context.Context, artist, title string) ([]mopidy.SearchResult, error) {
	query := map[string]any{
		"title":  []string{title},
		"artist": []string{artist},
	}
	return callAndDecode[[]mopidy.SearchResult](ctx, m, "mopidy.library.findExact", query)
}

func (m *MopidyService) FindExact(ctx context.Context, query map[string]any) ([]mopidy.SearchResult, error) {
	return callAndDecode[[]mopidy.SearchResult](ctx, m, "mopidy.library.findExact", query)
}
