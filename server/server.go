// Package server assembles the HTTP server.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"

	apiv1 "github.com/nikoo-app/assistant/server/router/api/v1"
	"github.com/nikoo-app/assistant/server/profile"
)

// Server owns the echo instance and the listening socket.
type Server struct {
	Profile *profile.Profile

	echoServer *echo.Echo
	httpServer *http.Server
}

// NewServer wires routes onto a fresh echo instance.
func NewServer(p *profile.Profile, api *apiv1.APIV1Service) *Server {
	e := echo.New()
	api.RegisterRoutes(e)

	return &Server{
		Profile:    p,
		echoServer: e,
		httpServer: &http.Server{
			Addr:              p.ListenAddr(),
			Handler:           e,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Start blocks serving HTTP until Shutdown or a listener error.
func (s *Server) Start() error {
	slog.Info("server started", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests. Open websocket turns are abandoned
// best-effort.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
