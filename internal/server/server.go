// Package server exposes the live loop status and Prometheus metrics over HTTP.
package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/coinify-labs/coinify-bot/internal/logger"
	"github.com/coinify-labs/coinify-bot/internal/metrics"
	"github.com/coinify-labs/coinify-bot/internal/types"
	"github.com/coinify-labs/coinify-bot/pkg/errors"
)

// StatusFunc returns a snapshot of the live loop. It is called once per request.
type StatusFunc func() types.LiveStatus

// StatusServer serves GET /status, GET /healthz and GET /metrics.
type StatusServer struct {
	status     StatusFunc
	gatherer   prometheus.Gatherer
	log        *logger.Logger
	httpServer *http.Server
	listener   net.Listener
}

// NewStatusServer creates a server. gatherer may be nil, in which case /metrics is not routed.
func NewStatusServer(status StatusFunc, gatherer prometheus.Gatherer, log *logger.Logger) *StatusServer {
	return &StatusServer{
		status:   status,
		gatherer: gatherer,
		log:      log.Named("server"),
	}
}

// Router returns the routes without binding a listener.
func (s *StatusServer) Router() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/status", s.handleStatus).Methods("GET")
	router.HandleFunc("/healthz", s.handleHealth).Methods("GET")

	if s.gatherer != nil {
		router.Handle("/metrics", metrics.Handler(s.gatherer)).Methods("GET")
	}

	return router
}

// Start listens on address and serves in the background.
// If address is empty or ":0", a random available port is used.
func (s *StatusServer) Start(address string) error {
	if address == "" {
		address = ":0"
	}

	listener, err := net.Listen("tcp", address)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to listen on %s", address)
	}
	s.listener = listener

	s.httpServer = &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.log.Error("Status server stopped", zap.Error(err))
		}
	}()

	s.log.Info("Status server listening", zap.String("address", listener.Addr().String()))

	return nil
}

// Stop shuts the server down, waiting at most five seconds for open requests.
func (s *StatusServer) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}

// Address returns the address the server is listening on.
func (s *StatusServer) Address() string {
	if s.listener == nil {
		return ""
	}

	return s.listener.Addr().String()
}

func (s *StatusServer) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.status())
}

func (s *StatusServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	status := s.status()

	code := http.StatusOK
	if status.Status != types.EngineStatusRunning {
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, map[string]string{"status": string(status.Status)})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
