// Package cli provides centralized command registration.
package cli

import (
	"fmt"

	"github.com/andrei-cloud/paycalc/internal/commands/cli/crypt"
	"github.com/andrei-cloud/paycalc/internal/commands/cli/keys"
	"github.com/andrei-cloud/paycalc/internal/commands/cli/pb"
	"github.com/andrei-cloud/paycalc/internal/commands/cli/server"
	"github.com/andrei-cloud/paycalc/internal/host"
	"github.com/spf13/cobra"
)

// RegisterCommands registers all root commands.
func RegisterCommands(root *cobra.Command) error {
	builders := []struct {
		name  string
		build func() (*cobra.Command, error)
	}{
		{"encrypt", crypt.NewEncryptCommand},
		{"decrypt", crypt.NewDecryptCommand},
		{"mac", crypt.NewMACCommand},
		{"kcv", keys.NewKCVCommand},
		{"pinblock", pb.NewPinBlockCommand},
		{"serve", func() (*cobra.Command, error) { return server.NewServeCommand(Version) }},
	}

	for _, b := range builders {
		cmd, err := b.build()
		if err != nil {
			return fmt.Errorf("failed to create %s command: %w", b.name, err)
		}
		root.AddCommand(cmd)
	}

	root.AddCommand(newVersionCommand())

	return nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("paycalc %s (firmware %s)\n", Version, host.Firmware)
		},
	}
}
