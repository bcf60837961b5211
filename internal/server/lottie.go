package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// lottieAPIHandler serves the home page animation. Any problem fetching it
// yields 204 so the page just renders without the animation.
func (s *Server) lottieAPIHandler(c echo.Context) error {
	if s.lottie == nil || s.cfg.LottieURL == "" {
		return c.NoContent(http.StatusNoContent)
	}

	data, err := s.lottie.Fetch(c.Request().Context(), s.cfg.LottieURL)
	if err != nil {
		requestLogger(c).Warn().Err(err).Msg("Failed to load lottie animation")
		return c.NoContent(http.StatusNoContent)
	}
	if data == nil {
		return c.NoContent(http.StatusNoContent)
	}

	c.Response().Header().Set("Cache-Control", "public, max-age=3600")
	return c.JSONBlob(http.StatusOK, data)
}
