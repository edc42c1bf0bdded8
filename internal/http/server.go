package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"bilancio/internal/amqp"
	"bilancio/internal/log"
	"bilancio/internal/middleware/ratelimit"
	"bilancio/internal/session"
	appweb "bilancio/web"
)

// ExportPublisher hands a ledger snapshot to the export worker.
type ExportPublisher interface {
	PublishExportRequest(ctx context.Context, msg *amqp.ExportRequestMessage) error
}

type Server struct {
	http.Server
	templates *template.Template
	sessions  *session.Registry
	publisher ExportPublisher
	limiter   *ratelimit.Limiter
	logger    *log.Logger
	metrics   Metrics

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run server.
// A nil publisher disables the Google Sheets export; a nil limiter disables
// rate limiting of write requests.
func NewServer(addr string, sessions *session.Registry, publisher ExportPublisher, limiter *ratelimit.Limiter, logger *log.Logger) (*Server, error) {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		templates: t,
		sessions:  sessions,
		publisher: publisher,
		limiter:   limiter,
		logger:    logger.WithComponent(log.ComponentHTTP),
	}

	// Static assets (served from embedded FS)
	sub, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("mount static assets: %w", err)
	}
	static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
	mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		static.ServeHTTP(w, r)
	}))

	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/transactions", s.handleCreateTransaction)
	mux.HandleFunc("/transactions/delete", s.handleDeleteTransaction)
	mux.HandleFunc("/export.xlsx", s.handleExportXLSX)
	mux.HandleFunc("/export/sheets", s.handleExportSheets)
	// UI partials
	mux.HandleFunc("/ui/ledger", s.handleLedger)

	s.Handler = s.withRequestContext(mux)
	return s, nil
}

// Shutdown gracefully shuts down the server. It is safe to call more than once.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.limiter != nil {
			s.limiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
