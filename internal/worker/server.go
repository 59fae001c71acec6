package worker

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/xray-worker/internal/config"
)

const (
	// EventPath is where the host posts AFTER_DOWNLOAD_ERROR events.
	EventPath = "/v1/after-download-error"

	maxEventSize = 1 << 20
)

// Invoker runs the worker for one event.
type Invoker interface {
	Handle(ctx context.Context, req *AfterDownloadErrorRequest) AfterDownloadErrorResponse
}

// Server exposes the worker over HTTP for the hosting platform.
type Server struct {
	invoker       Invoker
	logger        hclog.Logger
	server        *http.Server
	handleTimeout time.Duration
}

// NewServer creates a Server listening on cfg.Addr.
func NewServer(cfg *config.Server, invoker Invoker, logger hclog.Logger) *Server {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	s := &Server{
		invoker:       invoker,
		logger:        logger,
		handleTimeout: handleTimeout(cfg.WriteTimeout),
	}
	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// handleTimeout reserves part of the write timeout for encoding the response.
func handleTimeout(writeTimeout time.Duration) time.Duration {
	if writeTimeout <= 0 {
		return 0
	}
	return writeTimeout - min(time.Second, writeTimeout/10)
}

// Routes returns the HTTP handler of the server.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(EventPath, s.handleEvent)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// Start listens until the server is shut down.
func (s *Server) Start() error {
	s.logger.Info("worker endpoint starting", "addr", s.server.Addr, "path", EventPath)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req AfterDownloadErrorRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxEventSize)).Decode(&req); err != nil {
		s.logger.Warn("failed to decode event", "error", err)
		http.Error(w, "invalid event payload", http.StatusBadRequest)
		return
	}

	resp := s.invoke(r.Context(), &req)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Warn("failed to write response", "error", err)
	}
}

// invoke runs the worker and falls back to Proceed when it outlives the response deadline.
func (s *Server) invoke(ctx context.Context, req *AfterDownloadErrorRequest) AfterDownloadErrorResponse {
	if s.handleTimeout <= 0 {
		return s.invoker.Handle(ctx, req)
	}

	ctx, cancel := context.WithTimeout(ctx, s.handleTimeout)
	defer cancel()

	done := make(chan AfterDownloadErrorResponse, 1)
	go func() {
		done <- s.invoker.Handle(ctx, req)
	}()

	select {
	case resp := <-done:
		return resp
	case <-ctx.Done():
		s.logger.Warn("worker did not finish before the response deadline, proceeding", "timeout", s.handleTimeout)
		return Proceed()
	}
}
