package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"serenifi/internal/guidance"
)

const (
	msgGuidanceNotConfigured = "Personalized guidance is not available right now: the AI service is not configured."
	msgGuidanceUnavailable   = "AI service temporarily unavailable. Please try again later."
)

// guidanceStatus maps a requester error to an HTTP status and a message
// that is safe to show to the user.
func guidanceStatus(err error) (int, string) {
	switch {
	case errors.Is(err, guidance.ErrConfiguration):
		return http.StatusServiceUnavailable, msgGuidanceNotConfigured
	default:
		return http.StatusBadGateway, msgGuidanceUnavailable
	}
}

func (s *Server) requestGuidance(c echo.Context, req guidance.Request) (*guidance.Response, error) {
	if s.guidance == nil {
		return nil, guidance.ErrConfiguration
	}
	return s.guidance.Request(c.Request().Context(), req)
}

// guidanceFormHandler renders the home page with the model's answer, or with
// an error message in the guidance section. The rest of the page is unaffected.
func (s *Server) guidanceFormHandler(c echo.Context) error {
	logger := requestLogger(c)
	page := s.newHomePage(c)

	var req guidance.Request
	if err := c.Bind(&req); err != nil {
		logger.Warn().Err(err).Msg("Failed to bind guidance form")
		page.GuidanceError = "We could not read the form, please try again."
		return c.Render(http.StatusBadRequest, "home.html", page)
	}
	page.GuidanceForm = req

	resp, err := s.requestGuidance(c, req)
	if err != nil {
		status, msg := guidanceStatus(err)
		logger.Error().Err(err).Int("status", status).Msg("Guidance request failed")
		page.GuidanceError = msg
		return c.Render(status, "home.html", page)
	}

	logger.Info().
		Str("provider", resp.Metadata.Provider).
		Int64("output_tokens", resp.Metadata.OutputTokens).
		Msg("Guidance generated")
	page.GuidanceText = resp.Text
	return c.Render(http.StatusOK, "home.html", page)
}

// guidanceAPIHandler is the JSON flavour of guidanceFormHandler.
func (s *Server) guidanceAPIHandler(c echo.Context) error {
	logger := requestLogger(c)

	var req guidance.Request
	if err := c.Bind(&req); err != nil {
		logger.Warn().Err(err).Msg("Failed to bind guidance request")
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	resp, err := s.requestGuidance(c, req)
	if err != nil {
		status, msg := guidanceStatus(err)
		logger.Error().Err(err).Int("status", status).Msg("Guidance request failed")
		return c.JSON(status, map[string]string{"error": msg})
	}

	return c.JSON(http.StatusOK, resp)
}
