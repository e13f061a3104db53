package query

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/zjrosen/acro/internal/log"
)

// Server runs a Handler on a TCP listener.
type Server struct {
	server   *http.Server
	listener net.Listener
	port     int
}

// ServerConfig configures a Server.
type ServerConfig struct {
	// Addr is the listen address. Port 0 picks a free port; see Port.
	Addr    string
	Querier Querier
	// ReadTimeout defaults to 10s.
	ReadTimeout time.Duration
}

// NewServer binds the listener immediately so Port is valid before Start.
func NewServer(cfg ServerConfig) (*Server, error) {
	readTimeout := cfg.ReadTimeout
	if readTimeout == 0 {
		readTimeout = 10 * time.Second
	}

	listener, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", cfg.Addr, err)
	}

	port := 0
	if tcpAddr, ok := listener.Addr().(*net.TCPAddr); ok {
		port = tcpAddr.Port
	}

	return &Server{
		listener: listener,
		port:     port,
		server: &http.Server{
			Handler:           NewHandler(cfg.Querier).Routes(),
			ReadTimeout:       readTimeout,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      10 * time.Second,
		},
	}, nil
}

// Start serves until Stop. It returns nil after a graceful stop.
func (s *Server) Start() error {
	log.Info(log.CatServer, "Starting query server", "addr", s.listener.Addr().String())
	if err := s.server.Serve(s.listener); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	log.Info(log.CatServer, "Stopping query server")
	return s.server.Shutdown(ctx)
}

// Port returns the bound port.
func (s *Server) Port() int {
	return s.port
}

// URL returns the base URL clients should use.
func (s *Server) URL() string {
	return "http://" + s.listener.Addr().String()
}
