// Package cli provides the CLI command structure for paycalc.
package cli

import (
	"fmt"

	"github.com/andrei-cloud/paycalc/internal/config"
	"github.com/andrei-cloud/paycalc/internal/logging"
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X".
var Version = "dev"

// NewRootCommand creates and returns the root command with all subcommands.
// Each call starts from fresh configuration state.
func NewRootCommand() (*cobra.Command, error) {
	config.Reset()

	var cfgFile string
	rootCmd := &cobra.Command{
		Use:   "paycalc",
		Short: "Payment cryptography calculator",
		Long: `A calculator for payment cryptography: DES, TDES and AES encryption,
key check values, ISO 9564 PIN blocks and ISO 9797-1 MACs, available from the
command line, as a TCP host command server and as a JSON HTTP API.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			// Initialize configuration before running any command.
			if err := config.Initialize(cfgFile); err != nil {
				return fmt.Errorf("failed to initialize configuration: %w", err)
			}

			cfg := config.Get()
			if err := logging.InitLogger(cfg.Log.Level, cfg.Log.Format == "human"); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}

			return nil
		},
	}

	// Add persistent flags that affect all commands.
	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml or $HOME/.paycalc/config.yaml)")

	// Add global flags that can override config file settings.
	rootCmd.PersistentFlags().
		String("log-level", "info", "logging level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "human", "logging format (human, json)")

	// Bind flags to viper.
	v := config.GetViper()
	if err := v.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level")); err != nil {
		return nil, fmt.Errorf("failed to bind log-level flag: %w", err)
	}
	if err := v.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format")); err != nil {
		return nil, fmt.Errorf("failed to bind log-format flag: %w", err)
	}

	// Register all commands.
	if err := RegisterCommands(rootCmd); err != nil {
		return nil, fmt.Errorf("failed to register commands: %w", err)
	}

	return rootCmd, nil
}
