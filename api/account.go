package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campbelljlowman/mopify-api/account"
	"github.com/campbelljlowman/mopify-api/auth"
	"github.com/campbelljlowman/mopify-api/constants"
	"github.com/campbelljlowman/mopify-api/settings"
	"github.com/campbelljlowman/mopify-api/spotify"
)

func (h *handler) login(c *gin.Context) {
	var request LoginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		badRequest(c, err)
		return
	}

	token, err := h.auth.Login(request.Password)
	switch {
	case errors.Is(err, auth.ErrAuthDisabled):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, auth.ErrInvalidPassword):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{"token": token})
	}
}

func (h *handler) services(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"services": h.serviceManager.Services()})
}

func (h *handler) enableService(c *gin.Context) {
	err := h.serviceManager.Enable(c.Param("service"))
	if errors.Is(err, account.ErrUnknownService) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.services(c)
}

func (h *handler) disconnectService(c *gin.Context) {
	err := h.serviceManager.Disconnect(c.Param("service"))
	if errors.Is(err, account.ErrUnknownService) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.services(c)
}

// spotifyServiceController builds the controller for a request, redirecting to the services list
// when Spotify is switched off.
func (h *handler) spotifyServiceController(c *gin.Context) (*account.SpotifyServiceController, bool) {
	controller, err := account.NewSpotifyServiceController(h.serviceManager, h.settings, h.spotifyLogin, h.mopidy, h.notifier)
	if err != nil {
		var redirect *account.RedirectError
		if errors.As(err, &redirect) {
			c.Redirect(http.StatusSeeOther, redirect.Path)
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	return controller, true
}

func (h *handler) spotifySettingsResponse(c *gin.Context, profile *spotify.Profile) {
	username := h.settings.Get(constants.SettingMopidySpotifyUsername, constants.MopidyUnsetValue)
	password := h.settings.Get(constants.SettingMopidySpotifyPassword, constants.MopidyUnsetValue)

	c.JSON(http.StatusOK, gin.H{
		"profile":          profile,
		"usegeneral":       settings.GetBool(h.settings, constants.SettingSpotifyUseGeneral, false),
		"spotify_username": username,
		"has_password":     password != constants.MopidyUnsetValue,
	})
}

func (h *handler) spotifySettings(c *gin.Context) {
	controller, ok := h.spotifyServiceController(c)
	if !ok {
		return
	}

	err := controller.Load(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	h.spotifySettingsResponse(c, controller.Profile())
}

func (h *handler) switchSpotifySettingsSource(c *gin.Context) {
	var request SettingsSourceRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		badRequest(c, err)
		return
	}

	controller, ok := h.spotifyServiceController(c)
	if !ok {
		return
	}

	err := settings.SetBool(h.settings, constants.SettingSpotifyUseGeneral, *request.UseGeneral)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	err = controller.SwitchSettingsSource(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	h.spotifySettingsResponse(c, nil)
}

func (h *handler) authorizeSpotify(c *gin.Context) {
	var request SpotifyTokenRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		badRequest(c, err)
		return
	}

	err := h.spotifyLogin.Authorize(c.Request.Context(), request.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	h.spotifyMenuState(c)
}

func (h *handler) spotifyMenuState(c *gin.Context) {
	err := h.spotifyMenu.Init(c.Request.Context())
	if err != nil && !errors.Is(err, spotify.ErrNotAuthorized) {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"authorized":   h.spotifyMenu.Authorized(),
		"user_profile": h.spotifyMenu.UserProfile(),
	})
}
