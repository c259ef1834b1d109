// Package keys provides key check value commands.
package keys

import (
	"fmt"
	"text/tabwriter"

	"github.com/andrei-cloud/paycalc/internal/config"
	"github.com/andrei-cloud/paycalc/pkg/blockcipher"
	"github.com/andrei-cloud/paycalc/pkg/cryptoutils"
	"github.com/andrei-cloud/paycalc/pkg/engine"
	"github.com/andrei-cloud/paycalc/pkg/kcv"
	"github.com/spf13/cobra"
)

// NewKCVCommand creates the kcv command.
func NewKCVCommand() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "kcv",
		Short: "Calculate a key check value",
		Long: `Calculate the Key Check Value (KCV) of a clear DES, TDES or AES key.
The default method enciphers one zero block and keeps the leading hex digits.
DES and TDES keys also report whether every byte has odd parity.`,
		Example: `  # Six-digit KCV of a double-length TDES key
  paycalc kcv --alg tdes --key 0123456789ABCDEFFEDCBA9876543210

  # Full-block AES check value using CMAC
  paycalc kcv --alg aes --key 000102030405060708090A0B0C0D0E0F --method cmac --digits 32`,
		RunE: runKCV,
	}

	// Add flags.
	cmd.Flags().String("alg", "", "Algorithm (des, tdes, aes)")
	cmd.Flags().String("key", "", "Clear key as hex")
	cmd.Flags().Int("digits", kcv.DefaultDigits, "Number of hex digits to return")
	cmd.Flags().String("method", "zero", "KCV method (zero, ascii, cmac)")

	if err := config.GetViper().BindPFlag("calc.kcv_digits", cmd.Flags().Lookup("digits")); err != nil {
		return nil, fmt.Errorf("failed to bind digits flag: %w", err)
	}

	// Mark required flags.
	if err := cmd.MarkFlagRequired("alg"); err != nil {
		return nil, fmt.Errorf("failed to mark alg flag as required: %w", err)
	}
	if err := cmd.MarkFlagRequired("key"); err != nil {
		return nil, fmt.Errorf("failed to mark key flag as required: %w", err)
	}

	return cmd, nil
}

func runKCV(cmd *cobra.Command, _ []string) error {
	algName, _ := cmd.Flags().GetString("alg")
	keyHex, _ := cmd.Flags().GetString("key")
	methodName, _ := cmd.Flags().GetString("method")
	digits := config.Get().Calc.KCVDigits

	alg, err := blockcipher.ParseAlgorithm(algName)
	if err != nil {
		return err
	}
	method, err := kcv.ParseMethod(methodName)
	if err != nil {
		return err
	}
	key, err := cryptoutils.HexToBytes(cryptoutils.StripSpaces(keyHex))
	if err != nil {
		return fmt.Errorf("invalid key: %w", err)
	}

	value, err := engine.ComputeKCVWith(alg, key, digits, method)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Algorithm:\t%s\n", alg)
	fmt.Fprintf(w, "Key length:\t%d bytes\n", len(key))
	fmt.Fprintf(w, "Method:\t%s\n", method)
	fmt.Fprintf(w, "KCV:\t%s\n", value)
	if alg != blockcipher.AES {
		parity := "odd"
		if !cryptoutils.CheckKeyParity(key) {
			parity = "not odd (fixed key: " + cryptoutils.BytesToHex(cryptoutils.FixKeyParity(key)) + ")"
		}
		fmt.Fprintf(w, "Parity:\t%s\n", parity)
	}

	return w.Flush()
}
