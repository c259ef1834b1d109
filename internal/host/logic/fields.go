package logic

import (
	"fmt"
	"strconv"

	"github.com/andrei-cloud/paycalc/internal/errorcodes"
	"github.com/andrei-cloud/paycalc/internal/message"
	"github.com/andrei-cloud/paycalc/pkg/blockcipher"
	"github.com/andrei-cloud/paycalc/pkg/cryptoutils"
	"github.com/andrei-cloud/paycalc/pkg/pinblock"
)

// fieldReader walks the fields of a command payload left to right and
// records each one in msg for tracing.
type fieldReader struct {
	data []byte
	pos  int
	msg  *message.Message
}

func newFieldReader(cmd string, input []byte) *fieldReader {
	return &fieldReader{data: input, msg: message.New(cmd)}
}

// take returns the next n bytes as a string without recording them.
func (r *fieldReader) take(name string, n int) (string, error) {
	if r.pos+n > len(r.data) {
		return "", fmt.Errorf("%s: %w", name, errorcodes.Err15)
	}
	s := string(r.data[r.pos : r.pos+n])
	r.pos += n

	return s, nil
}

// fixed returns the next n bytes as a string.
func (r *fieldReader) fixed(name string, n int) (string, error) {
	s, err := r.take(name, n)
	if err != nil {
		return "", err
	}
	r.msg.Set(name, s)

	return s, nil
}

// hexField reads a 4-character hex length followed by that many hex
// characters and returns the decoded bytes.
func (r *fieldReader) hexField(name string) ([]byte, error) {
	b, err := r.readHex(name)
	if err != nil {
		return nil, err
	}
	r.msg.Set(name, cryptoutils.BytesToHex(b))

	return b, nil
}

// secretHexField is hexField for keys; only the length is traced.
func (r *fieldReader) secretHexField(name string) ([]byte, error) {
	b, err := r.readHex(name)
	if err != nil {
		return nil, err
	}
	r.msg.SetSecret(name, len(b))

	return b, nil
}

func (r *fieldReader) readHex(name string) ([]byte, error) {
	lenField, err := r.take(name+" length", 4)
	if err != nil {
		return nil, err
	}
	n, err := strconv.ParseUint(lenField, 16, 16)
	if err != nil {
		return nil, fmt.Errorf("%s length %q: %w", name, lenField, errorcodes.Err15)
	}
	value, err := r.take(name, int(n))
	if err != nil {
		return nil, err
	}
	b, err := cryptoutils.HexToBytes(value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	return b, nil
}

// secretDecField reads a 2-digit decimal length followed by that many
// characters. PINs and PANs go through here; only the length is traced.
func (r *fieldReader) secretDecField(name string) (string, error) {
	lenField, err := r.take(name+" length", 2)
	if err != nil {
		return "", err
	}
	n, err := strconv.Atoi(lenField)
	if err != nil || n < 0 {
		return "", fmt.Errorf("%s length %q: %w", name, lenField, errorcodes.Err15)
	}
	s, err := r.take(name, n)
	if err != nil {
		return "", err
	}
	r.msg.SetSecret(name, len(s))

	return s, nil
}

// decimal reads an n-digit decimal number.
func (r *fieldReader) decimal(name string, n int) (int, error) {
	s, err := r.fixed(name, n)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%s %q: %w", name, s, errorcodes.Err15)
	}

	return v, nil
}

// trace logs the fields read so far.
func (r *fieldReader) trace() {
	logDebug(r.msg.CommandCode(), r.msg.Trace())
}

func (r *fieldReader) algorithm() (blockcipher.Algorithm, error) {
	s, err := r.fixed("algorithm", 1)
	if err != nil {
		return 0, err
	}

	return blockcipher.ParseAlgorithm(s)
}

// format reads a two-digit PIN block format code. Unknown codes are Err23.
func (r *fieldReader) format(name string) (pinblock.Format, error) {
	code, err := r.fixed(name, 2)
	if err != nil {
		return 0, err
	}
	f, err := pinblock.FormatFromCode(code)
	if err != nil {
		return 0, fmt.Errorf("%s %q: %w", name, code, errorcodes.Err23)
	}

	return f, nil
}

// end fails when unread bytes remain and traces the message otherwise.
func (r *fieldReader) end() error {
	if r.pos != len(r.data) {
		return fmt.Errorf("%d trailing bytes: %w", len(r.data)-r.pos, errorcodes.Err15)
	}
	r.trace()

	return nil
}

// appendHexField appends a 4-character hex length and the hex of b.
func appendHexField(dst, b []byte) []byte {
	h := cryptoutils.BytesToHex(b)
	dst = append(dst, fmt.Sprintf("%04X", len(h))...)

	return append(dst, h...)
}
