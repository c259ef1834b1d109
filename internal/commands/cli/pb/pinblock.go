// Package pb provides PIN block related commands.
package pb

import (
	"fmt"

	"github.com/andrei-cloud/paycalc/pkg/blockcipher"
	"github.com/andrei-cloud/paycalc/pkg/cryptoutils"
	"github.com/andrei-cloud/paycalc/pkg/engine"
	"github.com/andrei-cloud/paycalc/pkg/pinblock"
	"github.com/spf13/cobra"
)

// NewPinBlockCommand creates the pinblock command with subcommands.
func NewPinBlockCommand() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "pinblock",
		Short: "PIN block operations",
		Long: `PIN block operations for building, parsing, encrypting and translating
ISO 9564-1 PIN blocks (formats 0 to 4). Formats are given as ISO numbers
(0, ISO-3) or Thales codes (01, 05, 34, 47, 48).`,
		Example: `  # Build a clear ISO format 0 PIN block
  paycalc pinblock create --pin 1234 --pan 4111111111111111 --format 01

  # Extract the PIN from a clear PIN block
  paycalc pinblock extract --pinblock 041225EEEEEEEEEE --pan 4111111111111111 --format 01

  # List supported formats
  paycalc pinblock formats`,
	}

	// Add subcommands.
	for _, build := range []func() (*cobra.Command, error){
		newCreateCommand,
		newExtractCommand,
		newEncryptCommand,
		newDecryptCommand,
		newTranslateCommand,
	} {
		sub, err := build()
		if err != nil {
			return nil, err
		}
		cmd.AddCommand(sub)
	}
	cmd.AddCommand(newFormatsCommand())

	return cmd, nil
}

// withRequired marks flags as required and returns cmd.
func withRequired(cmd *cobra.Command, names ...string) (*cobra.Command, error) {
	for _, name := range names {
		if err := cmd.MarkFlagRequired(name); err != nil {
			return nil, fmt.Errorf("failed to mark %s flag as required: %w", name, err)
		}
	}

	return cmd, nil
}

func newCreateCommand() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Build a clear PIN block",
		Long: `Build a clear PIN block from a PIN, PAN and format.
The PIN must be 4-12 digits. Formats 0, 3 and 4 bind the PAN; formats 1 and 2 ignore it.
For format 4 the result is the 16-byte plain PIN field.`,
		RunE: runCreate,
	}

	// Add flags.
	cmd.Flags().String("pin", "", "PIN (4-12 digits)")
	cmd.Flags().String("pan", "", "Primary Account Number (card number)")
	cmd.Flags().String("format", "", "Format (ISO number or Thales code)")
	cmd.Flags().String("fill", "", "Fill digits instead of random ones, exactly 14 minus the PIN length (formats 1 and 3)")

	return withRequired(cmd, "pin", "format")
}

func newExtractCommand() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract the PIN from a clear PIN block",
		RunE:  runExtract,
	}

	// Add flags.
	cmd.Flags().String("pinblock", "", "Clear PIN block as hex")
	cmd.Flags().String("pan", "", "Primary Account Number (card number)")
	cmd.Flags().String("format", "", "Format (ISO number or Thales code)")

	return withRequired(cmd, "pinblock", "format")
}

func newEncryptCommand() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "encrypt",
		Short: "Build and encrypt a PIN block",
		Long: `Build a PIN block and encrypt it under a clear key.
Formats 0-3 take a DES or TDES key; format 4 takes an AES key.`,
		Example: `  paycalc pinblock encrypt --pin 1234 --pan 4111111111111111 --format 01 \
    --alg tdes --key 0123456789ABCDEFFEDCBA9876543210`,
		RunE: runEncrypt,
	}

	// Add flags.
	cmd.Flags().String("pin", "", "PIN (4-12 digits)")
	cmd.Flags().String("pan", "", "Primary Account Number (card number)")
	cmd.Flags().String("format", "", "Format (ISO number or Thales code)")
	cmd.Flags().String("alg", "tdes", "Algorithm (des, tdes, aes)")
	cmd.Flags().String("key", "", "Clear PIN encryption key as hex")

	return withRequired(cmd, "pin", "format", "key")
}

func newDecryptCommand() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "decrypt",
		Short: "Decrypt a PIN block and extract the PIN",
		RunE:  runDecrypt,
	}

	// Add flags.
	cmd.Flags().String("pinblock", "", "Encrypted PIN block as hex")
	cmd.Flags().String("pan", "", "Primary Account Number (card number)")
	cmd.Flags().String("format", "", "Format (ISO number or Thales code)")
	cmd.Flags().String("alg", "tdes", "Algorithm (des, tdes, aes)")
	cmd.Flags().String("key", "", "Clear PIN encryption key as hex")

	return withRequired(cmd, "pinblock", "format", "key")
}

func newTranslateCommand() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "translate",
		Short: "Translate a PIN block to another key or format",
		RunE:  runTranslate,
	}

	// Add flags.
	cmd.Flags().String("pinblock", "", "Encrypted PIN block as hex")
	cmd.Flags().String("pan", "", "Primary Account Number (card number)")
	cmd.Flags().String("from-format", "", "Source format")
	cmd.Flags().String("to-format", "", "Destination format")
	cmd.Flags().String("from-alg", "tdes", "Source key algorithm")
	cmd.Flags().String("to-alg", "tdes", "Destination key algorithm")
	cmd.Flags().String("from-key", "", "Source key as hex")
	cmd.Flags().String("to-key", "", "Destination key as hex")

	return withRequired(cmd, "pinblock", "from-format", "to-format", "from-key", "to-key")
}

func newFormatsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "formats",
		Short: "List supported PIN block formats",
		Long: `List all supported PIN block formats with their descriptions.
Shows the Thales code, ISO format, block size and whether the PAN is used.`,
		Example: `  # List all supported formats
  paycalc pinblock formats`,
		RunE: runFormats,
	}

	return cmd
}

func runCreate(cmd *cobra.Command, _ []string) error {
	pin, _ := cmd.Flags().GetString("pin")
	pan, _ := cmd.Flags().GetString("pan")
	formatName, _ := cmd.Flags().GetString("format")
	fill, _ := cmd.Flags().GetString("fill")

	format, err := pinblock.ParseFormat(formatName)
	if err != nil {
		return err
	}
	var opts []pinblock.Option
	if fill != "" {
		opts = append(opts, pinblock.WithFill(fill))
	}

	block, err := engine.FormatPinBlock(format, pin, pan, opts...)
	if err != nil {
		return err
	}

	cmd.Printf("PIN block generated (format %s): %s\n", format, cryptoutils.BytesToHex(block))

	return nil
}

func runExtract(cmd *cobra.Command, _ []string) error {
	blockHex, _ := cmd.Flags().GetString("pinblock")
	pan, _ := cmd.Flags().GetString("pan")
	formatName, _ := cmd.Flags().GetString("format")

	format, err := pinblock.ParseFormat(formatName)
	if err != nil {
		return err
	}
	block, err := cryptoutils.HexToBytes(cryptoutils.StripSpaces(blockHex))
	if err != nil {
		return fmt.Errorf("invalid pin block: %w", err)
	}

	pin, err := engine.ParsePinBlock(format, block, pan)
	if err != nil {
		return err
	}

	cmd.Printf("PIN extracted (format %s): %s\n", format, pin)

	return nil
}

func runEncrypt(cmd *cobra.Command, _ []string) error {
	pin, _ := cmd.Flags().GetString("pin")
	pan, _ := cmd.Flags().GetString("pan")
	formatName, _ := cmd.Flags().GetString("format")

	format, err := pinblock.ParseFormat(formatName)
	if err != nil {
		return err
	}
	alg, key, err := readKey(cmd, "alg", "key")
	if err != nil {
		return err
	}

	block, err := engine.EncryptPinBlock(alg, key, format, pin, pan)
	if err != nil {
		return err
	}

	cmd.Printf("Encrypted PIN block (format %s): %s\n", format, cryptoutils.BytesToHex(block))

	return nil
}

func runDecrypt(cmd *cobra.Command, _ []string) error {
	blockHex, _ := cmd.Flags().GetString("pinblock")
	pan, _ := cmd.Flags().GetString("pan")
	formatName, _ := cmd.Flags().GetString("format")

	format, err := pinblock.ParseFormat(formatName)
	if err != nil {
		return err
	}
	alg, key, err := readKey(cmd, "alg", "key")
	if err != nil {
		return err
	}
	block, err := cryptoutils.HexToBytes(cryptoutils.StripSpaces(blockHex))
	if err != nil {
		return fmt.Errorf("invalid pin block: %w", err)
	}

	pin, err := engine.DecryptPinBlock(alg, key, format, block, pan)
	if err != nil {
		return err
	}

	cmd.Printf("PIN extracted (format %s): %s\n", format, pin)

	return nil
}

func runTranslate(cmd *cobra.Command, _ []string) error {
	blockHex, _ := cmd.Flags().GetString("pinblock")
	pan, _ := cmd.Flags().GetString("pan")
	fromName, _ := cmd.Flags().GetString("from-format")
	toName, _ := cmd.Flags().GetString("to-format")

	req := engine.TranslateRequest{PAN: pan}

	var err error
	if req.SourceFormat, err = pinblock.ParseFormat(fromName); err != nil {
		return err
	}
	if req.DestFormat, err = pinblock.ParseFormat(toName); err != nil {
		return err
	}
	if req.SourceAlgorithm, req.SourceKey, err = readKey(cmd, "from-alg", "from-key"); err != nil {
		return err
	}
	if req.DestAlgorithm, req.DestKey, err = readKey(cmd, "to-alg", "to-key"); err != nil {
		return err
	}
	if req.Block, err = cryptoutils.HexToBytes(cryptoutils.StripSpaces(blockHex)); err != nil {
		return fmt.Errorf("invalid pin block: %w", err)
	}

	out, err := engine.TranslatePinBlock(req)
	if err != nil {
		return err
	}

	cmd.Printf("Translated PIN block (format %s): %s\n", req.DestFormat, cryptoutils.BytesToHex(out))

	return nil
}

func runFormats(cmd *cobra.Command, _ []string) error {
	return pinblock.PrintSupportedFormats(cmd.OutOrStdout())
}

func readKey(cmd *cobra.Command, algFlag, keyFlag string) (blockcipher.Algorithm, []byte, error) {
	algName, _ := cmd.Flags().GetString(algFlag)
	keyHex, _ := cmd.Flags().GetString(keyFlag)

	alg, err := blockcipher.ParseAlgorithm(algName)
	if err != nil {
		return 0, nil, err
	}
	key, err := cryptoutils.HexToBytes(cryptoutils.StripSpaces(keyHex))
	if err != nil {
		return 0, nil, fmt.Errorf("invalid %s: %w", keyFlag, err)
	}

	return alg, key, nil
}
