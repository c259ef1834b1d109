// Package api exposes the calculator as a JSON HTTP API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/andrei-cloud/paycalc/internal/errorcodes"
	"github.com/andrei-cloud/paycalc/pkg/cryptoutils"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 5 * time.Second

// Defaults fill request fields the client leaves empty.
type Defaults struct {
	KCVDigits    int
	MACTagLength int
	Padding      string
}

// Server is the HTTP API server.
type Server struct {
	addr     string
	version  string
	defaults Defaults
	router   *mux.Router
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error  string `json:"error"`
	Code   string `json:"code,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// New creates a server for addr with its routes registered.
func New(addr, version string, defaults Defaults) *Server {
	s := &Server{
		addr:     addr,
		version:  version,
		defaults: defaults,
		router:   mux.NewRouter(),
	}
	s.routes()

	return s
}

func (s *Server) routes() {
	s.router.Use(requestIDMiddleware)
	s.router.MethodNotAllowedHandler = http.HandlerFunc(handleMethodNotAllowed)

	v1 := s.router.PathPrefix("/api/v1").Subrouter()
	// A method mismatch inside a subrouter falls through to 404 unless the
	// subrouter has its own handler.
	v1.MethodNotAllowedHandler = http.HandlerFunc(handleMethodNotAllowed)
	v1.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	v1.HandleFunc("/encrypt", s.handleEncrypt).Methods(http.MethodPost)
	v1.HandleFunc("/decrypt", s.handleDecrypt).Methods(http.MethodPost)
	v1.HandleFunc("/kcv", s.handleKCV).Methods(http.MethodPost)
	v1.HandleFunc("/mac", s.handleMAC).Methods(http.MethodPost)
	v1.HandleFunc("/pinblock/formats", s.handleFormats).Methods(http.MethodGet)
	v1.HandleFunc("/pinblock/format", s.handleFormatPinBlock).Methods(http.MethodPost)
	v1.HandleFunc("/pinblock/parse", s.handleParsePinBlock).Methods(http.MethodPost)
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("address", s.addr).Msg("http api started")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("http api: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	}
}

func handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{
		Error:  "MethodNotAllowed",
		Detail: r.Method + " " + r.URL.Path,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write response")
	}
}

// writeError maps calculator failures to 422 with their kind and host code.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := cryptoutils.KindOf(err)
	if kind == "" {
		log.Error().
			Str("request_id", requestIDFrom(r.Context())).
			Err(err).
			Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error: "Internal",
			Code:  errorcodes.Err41.CodeOnly(),
		})

		return
	}

	log.Debug().
		Str("request_id", requestIDFrom(r.Context())).
		Str("kind", string(kind)).
		Err(err).
		Msg("request rejected")
	writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
		Error:  string(kind),
		Code:   errorcodes.FromError(err).CodeOnly(),
		Detail: err.Error(),
	})
}

// decode reads a JSON body into v, answering 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:  "BadRequest",
			Detail: fmt.Sprintf("invalid request body: %v", err),
		})

		return false
	}

	return true
}
