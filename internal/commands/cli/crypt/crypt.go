// Package crypt provides the data encryption, decryption and MAC commands.
package crypt

import (
	"fmt"

	"github.com/andrei-cloud/paycalc/internal/config"
	"github.com/andrei-cloud/paycalc/pkg/blockcipher"
	"github.com/andrei-cloud/paycalc/pkg/cryptoutils"
	"github.com/andrei-cloud/paycalc/pkg/engine"
	"github.com/andrei-cloud/paycalc/pkg/modes"
	"github.com/spf13/cobra"
)

// NewEncryptCommand creates the encrypt command.
func NewEncryptCommand() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "encrypt",
		Short: "Encrypt data with DES, TDES or AES",
		Long: `Encrypt data under a clear key in ECB, CBC, CFB or OFB mode.
CBC, CFB and OFB require an IV of one block. Padding applies to ECB and CBC only;
without padding the data must be a whole number of blocks.`,
		Example: `  # TDES ECB, single-length key
  paycalc encrypt --alg tdes --mode ecb --key 0123456789ABCDEF --data 3132333435363738

  # AES CBC with PKCS#7 padding over text
  paycalc encrypt --alg aes --mode cbc --key 000102030405060708090A0B0C0D0E0F \
    --iv 00000000000000000000000000000000 --padding pkcs7 --ascii --data "hello"`,
		RunE: runEncrypt,
	}

	if err := addCipherFlags(cmd); err != nil {
		return nil, err
	}

	return cmd, nil
}

// NewDecryptCommand creates the decrypt command.
func NewDecryptCommand() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "decrypt",
		Short: "Decrypt data with DES, TDES or AES",
		Long: `Decrypt hex ciphertext under a clear key. With padding set, the padding of
the final block is validated and removed; inconsistent padding is an error.`,
		Example: `  # TDES CBC with PKCS#7 padding, print the result as text
  paycalc decrypt --alg tdes --mode cbc --key 0123456789ABCDEFFEDCBA9876543210 \
    --iv 0000000000000000 --padding pkcs7 --ascii --data 6507EDAD79479F8B`,
		RunE: runDecrypt,
	}

	if err := addCipherFlags(cmd); err != nil {
		return nil, err
	}

	return cmd, nil
}

func addCipherFlags(cmd *cobra.Command) error {
	// Add flags.
	cmd.Flags().String("alg", "", "Algorithm (des, tdes, aes)")
	cmd.Flags().String("mode", "ecb", "Mode of operation (ecb, cbc, cfb, ofb)")
	cmd.Flags().String("key", "", "Clear key as hex")
	cmd.Flags().String("iv", "", "Initialization vector as hex")
	cmd.Flags().String("data", "", "Input data as hex")
	cmd.Flags().String("padding", "none", "Padding (none, pkcs7, iso9797-m2)")
	cmd.Flags().Bool("ascii", false, "Treat plaintext as text instead of hex")

	// Mark required flags.
	for _, name := range []string{"alg", "key", "data"} {
		if err := cmd.MarkFlagRequired(name); err != nil {
			return fmt.Errorf("failed to mark %s flag as required: %w", name, err)
		}
	}

	return nil
}

// readOperation builds an operation from flags. Padding falls back to the
// configured default when the flag is not set.
func readOperation(cmd *cobra.Command, plaintextIn bool) (engine.Operation, error) {
	var op engine.Operation

	algName, _ := cmd.Flags().GetString("alg")
	modeName, _ := cmd.Flags().GetString("mode")
	keyHex, _ := cmd.Flags().GetString("key")
	ivHex, _ := cmd.Flags().GetString("iv")
	data, _ := cmd.Flags().GetString("data")
	ascii, _ := cmd.Flags().GetBool("ascii")

	padding := config.Get().Calc.Padding
	if cmd.Flags().Changed("padding") {
		padding, _ = cmd.Flags().GetString("padding")
	}

	var err error
	if op.Algorithm, err = blockcipher.ParseAlgorithm(algName); err != nil {
		return op, err
	}
	if op.Mode, err = modes.ParseMode(modeName); err != nil {
		return op, err
	}
	if op.Padding, err = modes.ParsePadding(padding); err != nil {
		return op, err
	}
	if op.Key, err = cryptoutils.HexToBytes(cryptoutils.StripSpaces(keyHex)); err != nil {
		return op, fmt.Errorf("invalid key: %w", err)
	}
	if op.IV, err = cryptoutils.HexToBytes(cryptoutils.StripSpaces(ivHex)); err != nil {
		return op, fmt.Errorf("invalid iv: %w", err)
	}

	if ascii && plaintextIn {
		op.Data = []byte(data)
	} else if op.Data, err = cryptoutils.HexToBytes(cryptoutils.StripSpaces(data)); err != nil {
		return op, fmt.Errorf("invalid data: %w", err)
	}

	return op, nil
}

func runEncrypt(cmd *cobra.Command, _ []string) error {
	op, err := readOperation(cmd, true)
	if err != nil {
		return err
	}

	out, err := engine.Encrypt(op)
	if err != nil {
		return err
	}

	cmd.Printf("Encrypted (%s %s): %s\n", op.Algorithm, op.Mode, cryptoutils.BytesToHex(out))

	return nil
}

func runDecrypt(cmd *cobra.Command, _ []string) error {
	op, err := readOperation(cmd, false)
	if err != nil {
		return err
	}

	out, err := engine.Decrypt(op)
	if err != nil {
		return err
	}

	result := cryptoutils.BytesToHex(out)
	if ascii, _ := cmd.Flags().GetBool("ascii"); ascii {
		result = string(out)
	}
	cmd.Printf("Decrypted (%s %s): %s\n", op.Algorithm, op.Mode, result)

	return nil
}
