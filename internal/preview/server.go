// Package preview serves a rendered tree to a browser and reloads the page
// over a websocket whenever the tree changes.
package preview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/a-h/templ"
	"github.com/conneroisu/tagtree/internal/config"
	tterrors "github.com/conneroisu/tagtree/internal/errors"
	"github.com/conneroisu/tagtree/internal/logging"
	"github.com/conneroisu/tagtree/internal/tag"
)

// Server serves the latest rendering of a tree.
//
//	GET /     the rendering inside an HTML page that reloads itself
//	GET /raw  the rendering as text/plain
//	GET /ws   the reload websocket
type Server struct {
	config config.PreviewConfig
	hub    *Hub
	logger logging.Logger

	renderMutex sync.RWMutex
	rendered    string
	lastError   string

	serverMutex  sync.Mutex
	httpServer   *http.Server
	listener     net.Listener
	shutdownOnce sync.Once
}

// New creates a preview server. Nothing listens until Start.
func New(cfg config.PreviewConfig, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	return &Server{
		config: cfg,
		hub:    NewHub(cfg.AllowedOrigins, logger),
		logger: logger.WithComponent("preview"),
	}
}

// Handler returns the HTTP routes of the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /raw", s.handleRaw)
	mux.Handle("GET /ws", s.hub)

	return s.addMiddleware(mux)
}

// Update re-renders t and tells connected pages to reload
func (s *Server) Update(ctx context.Context, t *tag.Tag) error {
	if t == nil {
		return tterrors.NewValidationError(tterrors.ErrCodeRenderFailed, "cannot preview a nil tree")
	}

	s.renderMutex.Lock()
	s.rendered = t.String()
	s.lastError = ""
	content := s.rendered
	s.renderMutex.Unlock()

	s.logger.Debug(ctx, "Preview updated", "bytes", len(content), "clients", s.hub.ClientCount())

	return s.hub.Broadcast(UpdateMessage{Type: MessageReload, Content: content})
}

// ReportError keeps the last good rendering but shows err on connected pages
func (s *Server) ReportError(ctx context.Context, err error) error {
	msg := tterrors.FormatError(err, false)

	s.renderMutex.Lock()
	s.lastError = msg
	s.renderMutex.Unlock()

	return s.hub.Broadcast(UpdateMessage{Type: MessageError, Content: msg})
}

// Current returns the latest rendering
func (s *Server) Current() string {
	s.renderMutex.RLock()
	defer s.renderMutex.RUnlock()
	return s.rendered
}

// Start listens on the configured address and serves until ctx is
// cancelled or Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	addr := s.config.Address()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return tterrors.NewNetworkError(tterrors.ErrCodeInternalError, "failed to listen on "+addr, err)
	}

	s.serverMutex.Lock()
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	server := s.httpServer
	s.serverMutex.Unlock()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn(shutdownCtx, err, "Preview shutdown failed")
		}
	}()

	s.logger.Info(ctx, "Preview server listening", "url", "http://"+ln.Addr().String())

	if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return tterrors.NewNetworkError(tterrors.ErrCodeInternalError, "preview server failed", err)
	}
	return nil
}

// Addr returns the address the server is listening on, or "" before Start
func (s *Server) Addr() string {
	s.serverMutex.Lock()
	defer s.serverMutex.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown closes websocket clients and stops the HTTP server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.hub.Close()

		s.serverMutex.Lock()
		server := s.httpServer
		s.serverMutex.Unlock()

		if server != nil {
			err = server.Shutdown(ctx)
		}
	})
	return err
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderMutex.RLock()
	body, lastError := s.rendered, s.lastError
	s.renderMutex.RUnlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page(templ.Raw(body), lastError).Render(r.Context(), w); err != nil {
		s.logger.Warn(r.Context(), err, "Failed to write preview page")
	}
}

func (s *Server) handleRaw(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := io.WriteString(w, s.Current()); err != nil {
		s.logger.Warn(r.Context(), err, "Failed to write raw rendering")
	}
}

func (s *Server) addMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Cache-Control", "no-store")

		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug(r.Context(), "Request served",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start).String(),
		)
	})
}

// URL returns the address pages should be opened at
func (s *Server) URL() string {
	if addr := s.Addr(); addr != "" {
		return fmt.Sprintf("http://%s/", addr)
	}
	return fmt.Sprintf("http://%s/", s.config.Address())
}
