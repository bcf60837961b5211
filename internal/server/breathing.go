package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	defaultBreathingCycles = 3
	maxBreathingCycles     = 10
	wsWriteWait            = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Same-origin pages and local development clients both connect here.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type breathingStep struct {
	Cycle       int    `json:"cycle"`
	Phase       string `json:"phase"`
	Seconds     int    `json:"seconds,omitempty"`
	Instruction string `json:"instruction,omitempty"`
}

// breathingSocketHandler paces a guided breathing exercise: one message
// per phase, then a final "done" message, then a normal close.
func (s *Server) breathingSocketHandler(c echo.Context) error {
	cycles := defaultBreathingCycles
	if v := c.QueryParam("cycles"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxBreathingCycles {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "cycles must be between 1 and " + strconv.Itoa(maxBreathingCycles),
			})
		}
		cycles = n
	}

	logger := requestLogger(c)

	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade has already written the HTTP error response.
		logger.Warn().Err(err).Msg("Breathing session upgrade failed")
		return nil
	}
	defer ws.Close()

	// Request IDs come from the client and may repeat; the hub needs its own key.
	connID := uuid.New().String()
	s.sockets.Register(connID, ws)
	defer s.sockets.Unregister(connID)

	connLogger := logger.With().Str("conn_id", connID).Logger()
	logger = &connLogger

	logger.Info().Int("cycles", cycles).Msg("Breathing session started")

	// We don't expect messages from the client, but reading notices a disconnect.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func(step breathingStep) error {
		if err := ws.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
			return err
		}
		return ws.WriteJSON(step)
	}

	for cycle := 1; cycle <= cycles; cycle++ {
		for _, phase := range s.breathing {
			step := breathingStep{
				Cycle:       cycle,
				Phase:       phase.Name,
				Seconds:     int(phase.Duration.Round(time.Second) / time.Second),
				Instruction: phase.Instruction,
			}
			if err := send(step); err != nil {
				logger.Debug().Err(err).Msg("Breathing session write failed")
				return nil
			}

			timer := time.NewTimer(phase.Duration)
			select {
			case <-timer.C:
			case <-gone:
				timer.Stop()
				logger.Info().Int("cycle", cycle).Msg("Breathing session left early")
				return nil
			}
		}
	}

	if err := send(breathingStep{Cycle: cycles, Phase: "done"}); err != nil {
		logger.Debug().Err(err).Msg("Breathing session write failed")
		return nil
	}
	closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session complete")
	if err := ws.WriteControl(websocket.CloseMessage, closeMsg, time.Now().Add(wsWriteWait)); err != nil {
		logger.Debug().Err(err).Msg("Failed to send close frame")
	}
	logger.Info().Msg("Breathing session complete")
	return nil
}
