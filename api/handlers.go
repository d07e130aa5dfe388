package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slog"

	"github.com/campbelljlowman/mopify-api/mopidy"
	"github.com/campbelljlowman/mopify-api/musicplayer"
)

// respondWithError maps errors from the player onto a status code.
func respondWithError(c *gin.Context, err error) {
	status := http.StatusBadGateway

	var rpcError *mopidy.RPCError
	switch {
	case errors.Is(err, musicplayer.ErrNotStarted),
		errors.Is(err, mopidy.ErrConnecting),
		errors.Is(err, mopidy.ErrClosed):
		status = http.StatusServiceUnavailable
	case errors.Is(err, musicplayer.ErrTrackNotInTracklist),
		errors.Is(err, musicplayer.ErrEmptyTracklist):
		status = http.StatusNotFound
	case errors.As(err, &rpcError):
		status = http.StatusBadGateway
	}

	slog.Warn("Request failed", "path", c.Request.URL.Path, "status", status, "error", err)
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func (h *handler) startMopidy(c *gin.Context) {
	err := h.mopidy.Start()
	if err != nil {
		respondWithError(c, err)
		return
	}
	h.mopidyStatus(c)
}

func (h *handler) stopMopidy(c *gin.Context) {
	h.mopidy.Stop()
	h.mopidyStatus(c)
}

func (h *handler) restartMopidy(c *gin.Context) {
	err := h.mopidy.Restart()
	if err != nil {
		respondWithError(c, err)
		return
	}
	h.mopidyStatus(c)
}

func (h *handler) mopidyStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"started":   h.mopidy.IsStarted(),
		"connected": h.mopidy.IsConnected(),
	})
}

func (h *handler) mopidySettings(c *gin.Context) {
	settings, err := h.mopidy.GetSettings(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.String(http.StatusOK, settings)
}

func (h *handler) currentTrack(c *gin.Context) {
	track, err := h.player.GetCurrentTrack(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"track": track})
}

func (h *handler) playbackState(c *gin.Context) {
	state, err := h.player.GetState(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": state})
}

func (h *handler) timePosition(c *gin.Context) {
	timePosition, err := h.mopidy.GetTimePosition(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"time_position": timePosition})
}

func (h *handler) seek(c *gin.Context) {
	var request TimePositionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		badRequest(c, err)
		return
	}

	seeked, err := h.mopidy.Seek(c.Request.Context(), *request.TimePosition)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"seeked": seeked})
}

func (h *handler) volume(c *gin.Context) {
	volume, err := h.mopidy.GetVolume(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"volume": volume})
}

func (h *handler) setVolume(c *gin.Context) {
	var request VolumeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		badRequest(c, err)
		return
	}
	if *request.Volume < 0 || *request.Volume > 100 {
		badRequest(c, errors.New("volume must be between 0 and 100"))
		return
	}

	changed, err := h.mopidy.SetVolume(c.Request.Context(), *request.Volume)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"changed": changed})
}

func (h *handler) playbackAction(c *gin.Context) {
	ctx := c.Request.Context()

	var err error
	switch c.Param("action") {
	case "play":
		var request PlayRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&request); err != nil {
				badRequest(c, err)
				return
			}
		}
		err = h.player.Play(ctx, request.TlTrack)
	case "pause":
		err = h.player.Pause(ctx)
	case "next":
		err = h.player.Next(ctx)
	case "previous":
		err = h.player.Previous(ctx)
	case "stop":
		err = h.player.StopPlayback(ctx, c.Query("clear") == "true")
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown playback action " + c.Param("action")})
		return
	}

	if err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) tracklist(c *gin.Context) {
	tlTracks, err := h.mopidy.GetTracklist(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tl_tracks": tlTracks})
}

func (h *handler) addToTracklist(c *gin.Context) {
	var obj map[string]any
	if err := c.ShouldBindJSON(&obj); err != nil {
		badRequest(c, err)
		return
	}

	tlTracks, err := h.mopidy.AddToTracklist(c.Request.Context(), obj)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tl_tracks": tlTracks})
}

func (h *handler) clearTracklist(c *gin.Context) {
	err := h.mopidy.ClearTracklist(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) shuffleTracklist(c *gin.Context) {
	err := h.mopidy.ShuffleTracklist(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) playTrack(c *gin.Context) {
	var request PlayTrackRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		badRequest(c, err)
		return
	}
	if request.Track.URI == "" {
		badRequest(c, errors.New("track.uri is required"))
		return
	}

	err := h.mopidy.PlayTrack(c.Request.Context(), request.Track, request.SurroundingTracks)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) playTrackAtIndex(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		badRequest(c, err)
		return
	}

	err = h.mopidy.PlayTrackAtIndex(c.Request.Context(), index)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) filterTracklist(c *gin.Context) {
	var request CriteriaRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		badRequest(c, err)
		return
	}

	tlTracks, err := h.mopidy.FilterTracklist(c.Request.Context(), request.Criteria)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tl_tracks": tlTracks})
}

func (h *handler) removeFromTracklist(c *gin.Context) {
	var request CriteriaRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		badRequest(c, err)
		return
	}

	tlTracks, err := h.mopidy.RemoveFromTracklist(c.Request.Context(), request.Criteria)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tl_tracks": tlTracks})
}

func (h *handler) random(c *gin.Context) {
	isRandom, err := h.mopidy.GetRandom(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"value": isRandom})
}

func (h *handler) setRandom(c *gin.Context) {
	var request ToggleRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		badRequest(c, err)
		return
	}

	err := h.mopidy.SetRandom(c.Request.Context(), *request.Value)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"value": *request.Value})
}

func (h *handler) repeat(c *gin.Context) {
	isRepeat, err := h.mopidy.GetRepeat(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"value": isRepeat})
}

func (h *handler) setRepeat(c *gin.Context) {
	var request ToggleRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		badRequest(c, err)
		return
	}

	err := h.mopidy.SetRepeat(c.Request.Context(), *request.Value)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"value": *request.Value})
}

func (h *handler) lookup(c *gin.Context) {
	uri := c.Query("uri")
	if uri == "" {
		badRequest(c, errors.New("uri is required"))
		return
	}

	tracks, err := h.mopidy.Lookup(c.Request.Context(), uri)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tracks": tracks})
}

func (h *handler) search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		badRequest(c, errors.New("q is required"))
		return
	}

	results, err := h.mopidy.Search(c.Request.Context(), query)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (h *handler) searchTrack(c *gin.Context) {
	artist, title := c.Query("artist"), c.Query("title")
	if artist == "" || title == "" {
		badRequest(c, errors.New("artist and title are required"))
		return
	}

	results, err := h.mopidy.SearchTrack(c.Request.Context(), artist, title)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (h *handler) findExact(c *gin.Context) {
	var request FindExactRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		badRequest(c, err)
		return
	}

	results, err := h.mopidy.FindExact(c.Request.Context(), request.Query)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (h *handler) refreshLibrary(c *gin.Context) {
	var request UriRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&request); err != nil {
			badRequest(c, err)
			return
		}
	}

	err := h.mopidy.Refresh(c.Request.Context(), request.URI)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) playlists(c *gin.Context) {
	playlists, err := h.mopidy.GetPlaylists(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"playlists": playlists})
}

func (h *handler) playlist(c *gin.Context) {
	uri := c.Query("uri")
	if uri == "" {
		badRequest(c, errors.New("uri is required"))
		return
	}

	playlist, err := h.mopidy.GetPlaylist(c.Request.Context(), uri)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"playlist": playlist})
}
