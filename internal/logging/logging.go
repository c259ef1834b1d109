// Package logging configures zerolog and emits the structured request and
// response events shared by the TCP host server and the HTTP API.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger initializes the global logger at level ("debug", "info", ...)
// writing JSON, or console output when human is set.
func InitLogger(level string, human bool) error {
	return InitLoggerTo(os.Stdout, level, human)
}

// InitLoggerTo is InitLogger with an explicit destination.
func InitLoggerTo(w io.Writer, level string, human bool) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	base := zerolog.New(w).With().Timestamp().Logger()
	if human {
		log.Logger = base.Output(zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339Nano,
		})
	} else {
		log.Logger = base
	}
	zerolog.SetGlobalLevel(lvl)

	return nil
}

// ParseLevel maps a level name to a zerolog level. Empty means info.
func ParseLevel(level string) (zerolog.Level, error) {
	if strings.TrimSpace(level) == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	return lvl, nil
}

// LogRequest logs a received command with structured fields. Payloads carry
// clear keys and PINs, so only their length is logged.
func LogRequest(
	requestID string,
	clientIP string,
	command string,
	description string,
	requestData []byte,
	activeConns int,
) {
	log.Info().
		Str("event", "request_received").
		Str("request_id", requestID).
		Str("client_ip", clientIP).
		Str("command", command).
		Str("description", description).
		Int("request_length", len(requestData)).
		Int("active_connections", activeConns).
		Msg("received command")
}

// LogResponse logs a sent response with structured fields.
func LogResponse(
	requestID string,
	clientIP string,
	command string,
	responseCommand string,
	responseData []byte,
	errorCode string,
	activeConns int,
	duration time.Duration,
) {
	log.Info().
		Str("event", "response_sent").
		Str("request_id", requestID).
		Str("client_ip", clientIP).
		Str("command", command).
		Str("response_command", responseCommand).
		Int("response_length", len(responseData)).
		Str("error_code", errorCode).
		Int("active_connections", activeConns).
		Dur("duration", duration).
		Msg("sent response")
}
