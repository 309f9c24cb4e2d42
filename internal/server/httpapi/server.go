// Package httpapi exposes the vault lifecycle over a JSON HTTP API.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/dropvault/internal/logging"
	"github.com/dmitrijs2005/dropvault/internal/server/models"
	"github.com/dmitrijs2005/dropvault/internal/server/services"
)

const shutdownTimeout = 5 * time.Second

// VaultAPI is the slice of the vault service the HTTP layer needs.
type VaultAPI interface {
	Create(ctx context.Context, fileNames []string, durationMinutes int, password string) (*services.CreateResult, error)
	ConfirmUpload(ctx context.Context, code string) ([]*models.FileConfirmation, error)
	AccessFiles(ctx context.Context, code, password, token string) (*services.AccessResult, error)
	Verify(ctx context.Context, code, password string) (*services.VerifyResult, error)
}

type Server struct {
	address string
	vaults  VaultAPI
	logger  logging.Logger
}

func NewServer(address string, logger logging.Logger, vaults VaultAPI) *Server {
	return &Server{
		address: address,
		vaults:  vaults,
		logger:  logger.With("module", "http_server"),
	}
}

func (s *Server) Router() http.Handler {
	mux := chi.NewRouter()

	mux.Use(middleware.Recoverer)
	mux.Use(s.requestLogger)

	mux.Post("/gen-sas", s.handleCreate)
	mux.Post("/confirm-upload", s.handleConfirmUpload)
	mux.Post("/files", s.handleAccessFiles)
	mux.Get("/verify/{vaultCode}", s.handleVerify)
	mux.Get("/healthz", s.handleHealth)

	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Router(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown failed", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).String(),
		)
	})
}
