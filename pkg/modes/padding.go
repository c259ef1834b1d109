package modes

import (
	"slices"
	"strings"

	"github.com/andrei-cloud/paycalc/pkg/cryptoutils"
)

// Padding selects how ECB/CBC data is brought to a block boundary.
type Padding int

// Supported padding policies.
const (
	// PaddingNone leaves alignment to the caller.
	PaddingNone Padding = iota
	// PaddingPKCS7 appends n bytes of value n, 1 <= n <= block size.
	PaddingPKCS7
	// PaddingISO9797M2 appends 0x80 followed by zero bytes (ISO/IEC 9797-1 method 2).
	PaddingISO9797M2
)

const iso9797Method2Marker = 0x80

func (p Padding) String() string {
	switch p {
	case PaddingNone:
		return "none"
	case PaddingPKCS7:
		return "pkcs7"
	case PaddingISO9797M2:
		return "iso9797-m2"
	default:
		return "unknown"
	}
}

// ParsePadding maps a case-insensitive name to a Padding.
func ParsePadding(name string) (Padding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none", "0":
		return PaddingNone, nil
	case "pkcs7", "pkcs#7", "pkcs5", "1":
		return PaddingPKCS7, nil
	case "iso9797-m2", "iso9797m2", "m2", "iso7816", "2":
		return PaddingISO9797M2, nil
	default:
		return 0, cryptoutils.Newf(cryptoutils.KindInvalidArgument, "unsupported padding %q", name)
	}
}

// Pad returns a new buffer holding data followed by the padding bytes.
func Pad(data []byte, blockSize int, p Padding) ([]byte, error) {
	switch p {
	case PaddingNone:
		return slices.Clone(data), nil
	case PaddingPKCS7:
		if blockSize < 1 || blockSize > 255 {
			return nil, cryptoutils.Newf(
				cryptoutils.KindInvalidArgument,
				"pkcs7: block size %d out of range",
				blockSize,
			)
		}
		n := blockSize - len(data)%blockSize
		out := make([]byte, len(data), len(data)+n)
		copy(out, data)
		for range n {
			out = append(out, byte(n))
		}

		return out, nil
	case PaddingISO9797M2:
		n := blockSize - len(data)%blockSize
		out := make([]byte, len(data)+n)
		copy(out, data)
		out[len(data)] = iso9797Method2Marker

		return out, nil
	default:
		return nil, cryptoutils.Newf(cryptoutils.KindInvalidArgument, "unsupported padding %d", int(p))
	}
}

// Unpad validates and strips padding, returning a new buffer.
// Inconsistent padding fails with InvalidPadding; it is never repaired.
func Unpad(data []byte, blockSize int, p Padding) ([]byte, error) {
	switch p {
	case PaddingNone:
		return slices.Clone(data), nil
	case PaddingPKCS7:
		if len(data) == 0 || len(data)%blockSize != 0 {
			return nil, cryptoutils.Newf(
				cryptoutils.KindInvalidPadding,
				"pkcs7: padded length %d is not a positive multiple of %d",
				len(data),
				blockSize,
			)
		}
		n := int(data[len(data)-1])
		if n == 0 || n > blockSize {
			return nil, cryptoutils.Newf(
				cryptoutils.KindInvalidPadding,
				"pkcs7: pad length %d out of range 1..%d",
				n,
				blockSize,
			)
		}
		for i := len(data) - n; i < len(data); i++ {
			if int(data[i]) != n {
				return nil, cryptoutils.Newf(
					cryptoutils.KindInvalidPadding,
					"pkcs7: pad byte at offset %d is %02X, want %02X",
					i,
					data[i],
					n,
				)
			}
		}

		return slices.Clone(data[:len(data)-n]), nil
	case PaddingISO9797M2:
		if len(data) == 0 || len(data)%blockSize != 0 {
			return nil, cryptoutils.Newf(
				cryptoutils.KindInvalidPadding,
				"iso9797 m2: padded length %d is not a positive multiple of %d",
				len(data),
				blockSize,
			)
		}
		limit := len(data) - blockSize
		for i := len(data) - 1; i >= limit; i-- {
			switch data[i] {
			case 0x00:
				continue
			case iso9797Method2Marker:
				return slices.Clone(data[:i]), nil
			default:
				return nil, cryptoutils.Newf(
					cryptoutils.KindInvalidPadding,
					"iso9797 m2: unexpected byte %02X at offset %d before 0x80 marker",
					data[i],
					i,
				)
			}
		}

		return nil, cryptoutils.Newf(
			cryptoutils.KindInvalidPadding,
			"iso9797 m2: no 0x80 marker in final block",
		)
	default:
		return nil, cryptoutils.Newf(cryptoutils.KindInvalidArgument, "unsupported padding %d", int(p))
	}
}
