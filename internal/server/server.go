// Package server serves host commands over TCP using anet framing.
package server

import (
	"fmt"
	"sync/atomic"
	"time"

	anetserver "github.com/andrei-cloud/anet/server"
	"github.com/andrei-cloud/paycalc/internal/host"
	"github.com/andrei-cloud/paycalc/internal/logging"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// logAdapter implements anet.Logger using zerolog.
type logAdapter struct{}

// Server wraps the anet TCP server and the command dispatcher.
type Server struct {
	address     string
	srv         *anetserver.Server
	dispatcher  *host.Dispatcher
	activeConns int32
}

func (l logAdapter) Print(v ...any) {
	log.Info().Msg(fmt.Sprint(v...))
}

func (l logAdapter) Printf(format string, v ...any) {
	log.Info().Msgf(format, v...)
}

func (l logAdapter) Infof(format string, v ...any) {
	log.Info().Msgf(format, v...)
}

func (l logAdapter) Warnf(format string, v ...any) {
	log.Warn().Msgf(format, v...)
}

func (l logAdapter) Errorf(format string, v ...any) {
	log.Error().Msgf(format, v...)
}

// NewServer configures a server for address. A nil dispatcher gets the
// built-in command set.
func NewServer(address string, d *host.Dispatcher) (*Server, error) {
	cfg := &anetserver.ServerConfig{
		MaxConns:        100,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		IdleTimeout:     0 * time.Second, // disable idle connection closure.
		ShutdownTimeout: 5 * time.Second,
		Logger:          logAdapter{},
	}

	if d == nil {
		d = host.NewDefaultDispatcher()
	}

	s := &Server{
		address:    address,
		dispatcher: d,
	}
	srv, err := anetserver.NewServer(address, anetserver.HandlerFunc(s.handle), cfg)
	if err != nil {
		return nil, fmt.Errorf("server setup failed: %w", err)
	}
	s.srv = srv

	return s, nil
}

// Start begins listening for connections.
func (s *Server) Start() error {
	log.Info().Str("address", s.address).Msg("server started")

	return s.srv.Start()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	return s.srv.Stop()
}

// ActiveConnections returns the number of requests in flight.
func (s *Server) ActiveConnections() int {
	return int(atomic.LoadInt32(&s.activeConns))
}

func (s *Server) handle(conn *anetserver.ServerConn, data []byte) ([]byte, error) {
	client := conn.Conn.RemoteAddr().String()
	atomic.AddInt32(&s.activeConns, 1)
	defer atomic.AddInt32(&s.activeConns, -1)

	start := time.Now()
	requestID := uuid.NewString()

	if len(data) < 2 {
		log.Error().
			Str("request_id", requestID).
			Str("client_ip", client).
			Msg("malformed request")

		return nil, host.ErrMalformedRequest
	}

	cmd := string(data[:2])
	logging.LogRequest(
		requestID,
		client,
		cmd,
		s.dispatcher.GetDescription(cmd),
		data,
		s.ActiveConnections(),
	)

	res, err := s.dispatcher.Handle(data)
	if err != nil {
		return nil, err
	}

	logging.LogResponse(
		requestID,
		client,
		cmd,
		res.ResponseCode,
		res.Response,
		res.ErrorCode,
		s.ActiveConnections(),
		time.Since(start),
	)

	return res.Response, nil
}
