package probe

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/yndnr/certmesh-go/internal/infra/tlsroots"
)

// Server serves the probe endpoints over TLS.
type Server struct {
	addr    string
	log     *slog.Logger
	watcher *tlsroots.Watcher
	httpSrv *http.Server
}

// NewServer creates a probe server on addr, serving the certificate
// pair held by the watcher.
func NewServer(addr string, watcher *tlsroots.Watcher, log *slog.Logger) *Server {
	s := &Server{
		addr:    addr,
		log:     log,
		watcher: watcher,
	}

	s.httpSrv = &http.Server{
		Addr:    addr,
		Handler: s.routes(),
		TLSConfig: &tls.Config{
			GetCertificate: watcher.GetCertificate,
			MinVersion:     tls.VersionTLS12,
		},
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// ListenAndServe serves until Shutdown is called. It returns nil on
// graceful shutdown.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("probe: listen %s: %w", s.addr, err)
	}
	return s.Serve(ln)
}

// Serve serves on an existing listener, wrapping it in TLS.
func (s *Server) Serve(ln net.Listener) error {
	s.log.Info("probe server listening", "addr", ln.Addr().String())

	// Cert and key come from the watcher's TLSConfig.
	err := s.httpSrv.ServeTLS(ln, "", "")
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("probe server shutting down")
	return s.httpSrv.Shutdown(ctx)
}
