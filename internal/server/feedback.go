package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"serenifi/internal/feedback"
)

// feedbackFormHandler accepts the About page form and redirects back with
// either the thank-you note or the validation problem.
func (s *Server) feedbackFormHandler(c echo.Context) error {
	var sub feedback.Submission
	if err := c.Bind(&sub); err != nil {
		return c.String(http.StatusBadRequest, "Invalid form")
	}

	key, msg := flashFeedbackOK, feedback.ThankYou
	if err := s.feedback.Submit(c.Request().Context(), sub); err != nil {
		key = flashFeedbackError
		switch {
		case errors.Is(err, feedback.ErrEmptyFeedback):
			msg = "Please write some feedback before submitting."
		case errors.Is(err, feedback.ErrInvalidEmail):
			msg = "That email address does not look right. Leave it empty or fix it."
		default:
			requestLogger(c).Error().Err(err).Msg("Feedback submission failed")
			msg = "Something went wrong, please try again."
		}
	}

	if err := s.addFlash(c, key, msg); err != nil {
		requestLogger(c).Error().Err(err).Msg("Failed to store feedback flash")
	}
	return c.Redirect(http.StatusSeeOther, "/about#feedback")
}
