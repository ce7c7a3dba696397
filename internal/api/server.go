// Package api exposes the dispatcher over HTTP for reporting tools.
package api

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-signal/internal/logger"
	"github.com/rxtech-lab/argo-signal/internal/strategy"
	"github.com/rxtech-lab/argo-signal/internal/types"
	"github.com/rxtech-lab/argo-signal/pkg/errors"
)

// maxBodyBytes caps request bodies; a few thousand candles fit comfortably.
const maxBodyBytes = 8 << 20

// SwitchRequest is the body of PUT /strategy.
type SwitchRequest struct {
	Name   types.StrategyName `json:"name"`
	Params strategy.Params    `json:"params,omitempty"`
}

// StrategyInfo is one entry of GET /strategies.
type StrategyInfo struct {
	Name        types.StrategyName `json:"name"`
	Description string             `json:"description"`
	Active      bool               `json:"active"`
}

// ErrorResponse is returned with every non-2xx status.
type ErrorResponse struct {
	Error    string           `json:"error"`
	Code     errors.ErrorCode `json:"code"`
	Reason   string           `json:"reason"`
	Category errors.Category  `json:"category"`
}

// Server serves the strategy API.
type Server struct {
	dispatcher *strategy.Dispatcher
	logger     *logger.Logger
	router     *mux.Router
}

// NewServer creates a server over dispatcher.
func NewServer(dispatcher *strategy.Dispatcher, log *logger.Logger) *Server {
	s := &Server{
		dispatcher: dispatcher,
		logger:     log.Named("api"),
		router:     mux.NewRouter(),
	}

	s.router.Use(s.logRequests)
	s.router.HandleFunc("/strategy", s.handleDescribe).Methods(http.MethodGet)
	s.router.HandleFunc("/strategy", s.handleSwitch).Methods(http.MethodPut)
	s.router.HandleFunc("/strategies", s.handleList).Methods(http.MethodGet)
	s.router.HandleFunc("/strategies/{name}/schema", s.handleSchema).Methods(http.MethodGet)
	s.router.HandleFunc("/signals", s.handleSignals).Methods(http.MethodPost)

	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on address until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, address string) error {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to listen on %s", address)
	}

	return s.Serve(ctx, listener)
}

// Serve serves on listener until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	server := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("API listening", zap.String("address", listener.Addr().String()))

		if err := server.Serve(listener); err != http.ErrServerClosed {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	return <-errCh
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)

		s.logger.Debug("Request",
			zap.String("method", r.Method),
			zap.String("uri", r.RequestURI),
			zap.Duration("elapsed", time.Since(start)))
	})
}

func (s *Server) handleDescribe(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.dispatcher.DescribeActive())
}

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	registry := s.dispatcher.Registry()
	active := s.dispatcher.DescribeActive()

	names := registry.List()
	infos := make([]StrategyInfo, 0, len(names))

	for _, name := range names {
		registration, err := registry.Get(name)
		if err != nil {
			s.writeError(w, err)

			return
		}

		infos = append(infos, StrategyInfo{
			Name:        name,
			Description: registration.Description,
			Active:      active.Status == types.StrategyStatusLoaded && active.Name == name,
		})
	}

	s.writeJSON(w, http.StatusOK, infos)
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	name := types.StrategyName(mux.Vars(r)["name"])

	schema, err := s.dispatcher.Registry().Schema(name)
	if err != nil {
		s.writeError(w, err)

		return
	}

	w.Header().Set("Content-Type", "application/schema+json")
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write([]byte(schema)); err != nil {
		s.logger.Warn("Failed to write response", zap.Error(err))
	}
}

func (s *Server) handleSwitch(w http.ResponseWriter, r *http.Request) {
	var request SwitchRequest
	if err := decodeBody(w, r, &request); err != nil {
		s.writeError(w, err)

		return
	}

	if request.Name == "" {
		s.writeError(w, errors.New(errors.ErrCodeMissingParameter, "name is required"))

		return
	}

	if err := s.dispatcher.SwitchStrategy(request.Name, request.Params); err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, s.dispatcher.DescribeActive())
}

func (s *Server) handleSignals(w http.ResponseWriter, r *http.Request) {
	var candles []types.MarketData
	if err := decodeBody(w, r, &candles); err != nil {
		s.writeError(w, err)

		return
	}

	signals, err := s.dispatcher.GenerateSignals(candles)
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, signals)
}

func decodeBody(w http.ResponseWriter, r *http.Request, target any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(target); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidParameter, "invalid request body", err)
	}

	return nil
}

// statusFor maps error codes to HTTP statuses.
func statusFor(code errors.ErrorCode) int {
	switch {
	case code == errors.ErrCodeUnknownStrategy:
		return http.StatusNotFound
	case code == errors.ErrCodeStrategyNotLoaded:
		return http.StatusConflict
	case code == errors.ErrCodeStrategyConfigError, code.Category() == errors.CategoryValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := statusFor(code)

	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed", zap.Error(err))
	}

	s.writeJSON(w, status, ErrorResponse{
		Error:    err.Error(),
		Code:     code,
		Reason:   code.String(),
		Category: code.Category(),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Warn("Failed to write response", zap.Error(err))
	}
}
