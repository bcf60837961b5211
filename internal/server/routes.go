package server

import (
	"fmt"
	"html/template"
	"io"
	"net/http"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"serenifi/internal/utility"
)

// TemplateRenderer is a custom html/template renderer for Echo framework
type TemplateRenderer struct {
	templates *template.Template
}

// Render renders a template document
func (t *TemplateRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return t.templates.ExecuteTemplate(w, name, data)
}

func newTemplateRenderer(dir string) (*TemplateRenderer, error) {
	tmpl, err := template.New("").Funcs(templateFuncs).ParseGlob(filepath.Join(dir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("parse templates in %s: %w", dir, err)
	}
	return &TemplateRenderer{templates: tmpl}, nil
}

func (s *Server) RegisterRoutes() (http.Handler, error) {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"https://*", "http://*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:       300,
	}))

	e.Use(LoggerMiddleware)

	renderer, err := newTemplateRenderer(s.cfg.TemplateDir)
	if err != nil {
		return nil, err
	}
	e.Renderer = renderer

	e.Static("/static", s.cfg.StaticDir)

	// Pages
	e.GET("/", s.homeHandler)
	e.GET("/calm-space", s.calmSpaceHandler)
	e.GET("/about", s.aboutHandler)

	// Form posts
	e.POST("/tips", s.tipFormHandler)
	e.POST("/guidance", s.guidanceFormHandler)
	e.POST("/feedback", s.feedbackFormHandler)

	// JSON API
	api := e.Group("/api")
	api.POST("/guidance", s.guidanceAPIHandler)
	api.GET("/tips/:level", s.tipAPIHandler)
	api.GET("/calmness", s.calmnessAPIHandler)
	api.GET("/sounds", s.soundsAPIHandler)
	api.GET("/lottie", s.lottieAPIHandler)

	// Guided breathing pacer
	e.GET("/ws/breathing", s.breathingSocketHandler)

	e.GET("/health", s.healthHandler)

	return e, nil
}

// LoggerMiddleware tags every request with an ID and stores a request-scoped
// logger both in the echo context and in the request's context.Context.
func LoggerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Response().Header().Set("X-Request-ID", requestID)

		logger := log.With().
			Str("request_id", requestID).
			Str("ip", utility.RealIP(c)).
			Logger()

		c.Set("logger", &logger)
		c.SetRequest(c.Request().WithContext(logger.WithContext(c.Request().Context())))

		return next(c)
	}
}

// requestLogger returns the logger set by LoggerMiddleware, or the global one.
func requestLogger(c echo.Context) *zerolog.Logger {
	if logger, ok := c.Get("logger").(*zerolog.Logger); ok {
		return logger
	}
	return &log.Logger
}
