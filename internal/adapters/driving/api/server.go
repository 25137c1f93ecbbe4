package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/custodia-labs/pdfrag/internal/logger"
)

// DefaultBodyLimit caps upload size.
const DefaultBodyLimit = "256M"

const shutdownTimeout = 5 * time.Second

// Server is the HTTP driving adapter.
type Server struct {
	ports *Ports
	echo  *echo.Echo
}

// NewServer validates ports and registers every route.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(DefaultBodyLimit))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURIPath: true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				logger.Warn("http %s %s %d: %v", v.Method, v.URIPath, v.Status, v.Error)
				return nil
			}
			logger.Debug("http %s %s %d (%s)", v.Method, v.URIPath, v.Status, v.Latency)
			return nil
		},
	}))
	e.HTTPErrorHandler = errorHandler

	s := &Server{ports: ports, echo: e}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	h := &handlers{ingestion: s.ports.Ingestion, search: s.ports.Search}

	s.echo.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	s.echo.POST("/upload/", h.upload)
	s.echo.POST("/upload", h.upload)
	s.echo.GET("/chunks", h.chunks)
	s.echo.GET("/search", h.searchChunks)
	s.echo.GET("/status", h.status)
	if s.ports.Metrics != nil {
		s.echo.GET("/metrics", echo.WrapHandler(s.ports.Metrics))
	}
}

// Handler returns the underlying http.Handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	}
}

// errorHandler renders every error as {"error": msg}.
func errorHandler(err error, c echo.Context) {
	code := statusFor(err)
	msg := err.Error()
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		msg = fmt.Sprint(he.Message)
	}
	if c.Response().Committed {
		return
	}
	if err := c.JSON(code, errorResponse{Error: msg}); err != nil {
		logger.Warn("writing error response: %v", err)
	}
}
