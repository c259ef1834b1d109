// Package server provides server-related CLI commands.
package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/andrei-cloud/paycalc/internal/api"
	"github.com/andrei-cloud/paycalc/internal/config"
	"github.com/andrei-cloud/paycalc/internal/host"
	"github.com/andrei-cloud/paycalc/internal/server"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// NewServeCommand creates the serve command. version is reported by the
// HTTP health endpoint.
func NewServeCommand(version string) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the host command server",
		Long: `Start the TCP host command server and, when enabled, the JSON HTTP API.
Both stop gracefully on SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return Run(ctx, version)
		},
	}

	// Add serve command specific flags that can override config.
	cmd.Flags().String("host", "localhost", "Server host")
	cmd.Flags().Int("port", 1500, "Server port")
	cmd.Flags().Bool("api", false, "Enable the HTTP API")
	cmd.Flags().String("api-addr", "localhost:8080", "HTTP API listen address")

	// Bind serve command flags to viper.
	v := config.GetViper()
	for key, flag := range map[string]string{
		"server.host": "host",
		"server.port": "port",
		"api.enabled": "api",
		"api.address": "api-addr",
	} {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return nil, fmt.Errorf("failed to bind %s flag: %w", flag, err)
		}
	}

	return cmd, nil
}

// Run serves until ctx is cancelled.
func Run(ctx context.Context, version string) error {
	cfg := config.Get()

	dispatcher := host.NewDefaultDispatcher()
	for _, c := range dispatcher.Commands() {
		log.Debug().
			Str("command", c.Code).
			Str("description", c.Description).
			Msg("registered command")
	}

	srv, err := server.NewServer(cfg.Address(), dispatcher)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- fmt.Errorf("failed to start server: %w", err)
		}
	}()

	if cfg.API.Enabled {
		apiSrv := api.New(cfg.API.Address, version, api.Defaults{
			KCVDigits:    cfg.Calc.KCVDigits,
			MACTagLength: cfg.Calc.MACTagLength,
			Padding:      cfg.Calc.Padding,
		})
		go func() {
			if err := apiSrv.Start(ctx); err != nil {
				errCh <- err
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down server...")
	case runErr = <-errCh:
		log.Error().Err(runErr).Msg("server failed")
	}
	cancel()

	if err := srv.Stop(); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
		runErr = errors.Join(runErr, err)
	}

	return runErr
}
