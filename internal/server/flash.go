package server

import (
	"github.com/labstack/echo/v4"
)

const sessionName = "serenifi"

// Flash keys.
const (
	flashTip           = "tip"
	flashFeedbackOK    = "feedback_ok"
	flashFeedbackError = "feedback_error"
)

func (s *Server) addFlash(c echo.Context, key, value string) error {
	sess, err := s.sessions.Get(c.Request(), sessionName)
	if err != nil {
		// A cookie signed with an old key decodes to a fresh session; keep going.
		requestLogger(c).Debug().Err(err).Msg("Discarding unreadable session cookie")
	}
	sess.AddFlash(value, key)
	return sess.Save(c.Request(), c.Response())
}

// popFlashes returns and clears the flash messages stored under key.
func (s *Server) popFlashes(c echo.Context, key string) []string {
	sess, err := s.sessions.Get(c.Request(), sessionName)
	if err != nil {
		return nil
	}

	raw := sess.Flashes(key)
	if len(raw) == 0 {
		return nil
	}
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		requestLogger(c).Warn().Err(err).Msg("Failed to clear flash messages")
	}

	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if str, ok := v.(string); ok {
			out = append(out, str)
		}
	}
	return out
}
