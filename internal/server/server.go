/*
Package server implements the application's network transport layer.
It renders the pages, exposes the small JSON API and the breathing
websocket, and owns the HTTP server timeouts.
*/
package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/rs/zerolog/log"

	"serenifi/internal/config"
	"serenifi/internal/content"
	"serenifi/internal/feedback"
	"serenifi/internal/guidance"
	"serenifi/internal/media"
	"serenifi/internal/utility"
)

// Dependencies are the services the handlers call into.
type Dependencies struct {
	Guidance *guidance.Requester
	Feedback *feedback.Service
	Lottie   *media.LottieFetcher
	Images   *media.ImageStore
}

// Server defines the configuration and dependencies for the HTTP service.
type Server struct {
	// port specifies the TCP port the server will listen on.
	port int

	cfg *config.Config

	guidance *guidance.Requester
	feedback *feedback.Service
	lottie   *media.LottieFetcher
	images   *media.ImageStore

	// sessions carries flash messages across the post/redirect/get round trip.
	sessions sessions.Store

	// sockets tracks open breathing sessions so shutdown can close them.
	sockets   *utility.Hub
	breathing []content.BreathingPhase
	startTime time.Time
}

// New builds a Server. A missing SESSION_SECRET is replaced by a random
// key, which means flash cookies do not survive a restart.
func New(cfg *config.Config, deps Dependencies) (*Server, error) {
	secret := []byte(cfg.SessionSecret)
	if len(secret) == 0 {
		key, err := utility.SecureKey(32)
		if err != nil {
			return nil, fmt.Errorf("generate session key: %w", err)
		}
		secret = key
		log.Warn().Msg("SESSION_SECRET is not set, using a random session key")
	}

	store := sessions.NewCookieStore(secret)
	store.MaxAge(600)
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.Secure = cfg.IsProduction()
	store.Options.SameSite = http.SameSiteLaxMode

	return &Server{
		port:      cfg.Port,
		cfg:       cfg,
		guidance:  deps.Guidance,
		feedback:  deps.Feedback,
		lottie:    deps.Lottie,
		images:    deps.Images,
		sessions:  store,
		sockets:   utility.NewHub(),
		breathing: content.BreathingPattern(),
		startTime: time.Now(),
	}, nil
}

// HTTPServer returns a configured *http.Server with the application's router.
func (s *Server) HTTPServer() (*http.Server, error) {
	handler, err := s.RegisterRoutes()
	if err != nil {
		return nil, err
	}

	srv := &http.Server{
		Addr:        fmt.Sprintf(":%d", s.port),
		Handler:     handler,
		IdleTimeout: time.Minute,
		ReadTimeout: 10 * time.Second,
		// Guidance requests block on the model; leave room for a slow reply.
		WriteTimeout: 90 * time.Second,
	}
	// Shutdown does not wait for hijacked connections.
	srv.RegisterOnShutdown(func() {
		s.sockets.CloseAll("server shutting down")
	})
	return srv, nil
}
