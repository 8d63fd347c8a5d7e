// Package server serves the dashboard page and its JSON API over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/KaramelBytes/crimeflow/internal/chart"
	"github.com/KaramelBytes/crimeflow/internal/dashboard"
	"github.com/KaramelBytes/crimeflow/internal/metrics"
)

// CustomValidator adapts validator/v10 to echo.
type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

// Defaults are the filter values used when a request omits them, and the
// initial widget state of the page.
type Defaults struct {
	Year     int    `json:"year"`
	Offense  string `json:"offense"`
	Street   string `json:"street"`
	MinCount int    `json:"min_count"`
}

// Options configures a Server.
type Options struct {
	Logger    *log.Logger
	Defaults  Defaults
	PlotlyURL string
}

// Server is the dashboard HTTP server.
type Server struct {
	e        *echo.Echo
	dash     *dashboard.Dashboard
	log      *log.Logger
	defaults Defaults
	plotly   string
}

// New wires routes and middleware for d.
func New(d *dashboard.Dashboard, opt Options) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &CustomValidator{validator: validator.New()}

	s := &Server{
		e:        e,
		dash:     d,
		log:      opt.Logger,
		defaults: opt.Defaults,
		plotly:   opt.PlotlyURL,
	}
	if s.log == nil {
		s.log = log.Default()
	}
	if s.plotly == "" {
		s.plotly = chart.DefaultPlotlyURL
	}
	if years := d.Options().Years; s.defaults.Year == 0 && len(years) > 0 {
		s.defaults.Year = years[0]
	}

	e.Use(requestID())
	e.Use(requestLogger(s.log))
	e.Use(middleware.Recover())
	e.Use(observe)

	s.routes()
	return s
}

func (s *Server) routes() {
	s.e.GET("/", s.handleIndex)
	s.e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	s.e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	api := s.e.Group("/api")
	api.GET("/options", s.handleOptions)
	api.GET("/charts", s.handleCharts)
	api.GET("/flow", s.handleFlow)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.e }

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.log.Info("Starting server", "addr", addr)
	if err := s.e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}
