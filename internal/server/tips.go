package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"serenifi/internal/content"
)

// tipFormHandler answers the "Personalized Tips" survey and redirects back
// to the home page, where the tip is shown once.
func (s *Server) tipFormHandler(c echo.Context) error {
	level := content.TipLevel(c.FormValue("mood"))
	if _, ok := content.Tip(level); !ok {
		return c.String(http.StatusBadRequest, "Please choose one of the listed anxiety levels.")
	}

	if err := s.addFlash(c, flashTip, string(level)); err != nil {
		requestLogger(c).Error().Err(err).Msg("Failed to store tip flash")
		return c.String(http.StatusInternalServerError, "Could not save your answer, please try again.")
	}
	return c.Redirect(http.StatusSeeOther, "/#tips")
}

func (s *Server) tipAPIHandler(c echo.Context) error {
	level := content.TipLevel(c.Param("level"))
	tip, ok := content.Tip(level)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Unknown anxiety level"})
	}
	return c.JSON(http.StatusOK, map[string]string{"level": string(level), "tip": tip})
}

func (s *Server) calmnessAPIHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, content.CalmnessData())
}

func (s *Server) soundsAPIHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, content.Sounds())
}
