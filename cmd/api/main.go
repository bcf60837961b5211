package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"serenifi/internal/config"
	"serenifi/internal/feedback"
	"serenifi/internal/guidance"
	"serenifi/internal/llm"
	"serenifi/internal/media"
	"serenifi/internal/server"
)

func gracefulShutdown(apiServer *http.Server, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	log.Info().Msg("shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// In-flight guidance calls get 5 seconds to finish.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")

	// Notify the main goroutine that the shutdown is complete
	done <- true
}

func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func main() {
	cfg := config.Load()
	setupLogger(cfg)

	// A missing credential is not fatal: the site still serves everything
	// except guidance, which reports a configuration error per request.
	client, err := llm.New(cfg.LLM)
	if err != nil {
		log.Warn().Err(err).Str("provider", cfg.LLM.Provider).Msg("AI guidance disabled")
		client = nil
	}

	requester := guidance.NewRequester(client, guidance.Options{
		Model:       cfg.LLMModel,
		MaxTokens:   cfg.LLMMaxTokens,
		Temperature: cfg.LLMTemperature,
	})

	var mailer feedback.Mailer
	if cfg.SMTP.Enabled() {
		mailer = feedback.NewSMTPMailer(cfg.SMTP)
	}

	lottie, err := media.NewLottieFetcher(cfg.MediaCacheSize)
	if err != nil {
		log.Fatal().Err(err).Msg("could not create lottie cache")
	}
	images, err := media.NewImageStore(cfg.MediaCacheSize)
	if err != nil {
		log.Fatal().Err(err).Msg("could not create image cache")
	}

	srv, err := server.New(cfg, server.Dependencies{
		Guidance: requester,
		Feedback: feedback.NewService(mailer),
		Lottie:   lottie,
		Images:   images,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("could not initialize server")
	}

	httpServer, err := srv.HTTPServer()
	if err != nil {
		log.Fatal().Err(err).Msg("could not build routes")
	}

	// Create a done channel to signal when the shutdown is complete
	done := make(chan bool, 1)

	// Run graceful shutdown in a separate goroutine
	go gracefulShutdown(httpServer, done)

	log.Info().Str("addr", httpServer.Addr).Str("env", cfg.AppEnv).Bool("guidance", requester.Configured()).Msg("SereniFi listening")
	err = httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		panic(fmt.Sprintf("http server error: %s", err))
	}

	// Wait for the graceful shutdown to complete
	<-done
	log.Info().Msg("Graceful shutdown complete.")
}
