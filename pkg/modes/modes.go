// Package modes applies a single-block cipher across arbitrary-length data
// under ECB, CBC, CFB or OFB.
package modes

import (
	"crypto/cipher"
	"strings"

	"github.com/andrei-cloud/paycalc/pkg/cryptoutils"
)

// Mode is a block cipher mode of operation.
type Mode int

// Supported modes.
const (
	ECB Mode = iota + 1
	CBC
	CFB
	OFB
)

func (m Mode) String() string {
	switch m {
	case ECB:
		return "ECB"
	case CBC:
		return "CBC"
	case CFB:
		return "CFB"
	case OFB:
		return "OFB"
	default:
		return "unknown"
	}
}

// ParseMode maps a case-insensitive name or two-digit host code
// (00 ECB, 01 CBC, 02 CFB, 03 OFB) to a Mode.
func ParseMode(name string) (Mode, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "ECB", "00":
		return ECB, nil
	case "CBC", "01":
		return CBC, nil
	case "CFB", "02":
		return CFB, nil
	case "OFB", "03":
		return OFB, nil
	default:
		return 0, cryptoutils.Newf(cryptoutils.KindInvalidArgument, "unsupported mode %q", name)
	}
}

// IsStream reports whether m turns the block cipher into a stream cipher.
// Stream modes accept any data length and never pad.
func (m Mode) IsStream() bool {
	return m == CFB || m == OFB
}

// Encrypt applies block under mode to data and returns a new buffer.
// The IV is ignored for ECB and must be exactly one block otherwise.
// Padding applies to ECB and CBC only.
func Encrypt(block cipher.Block, mode Mode, iv, data []byte, pad Padding) ([]byte, error) {
	bs := block.BlockSize()

	switch mode {
	case ECB, CBC:
		if mode == CBC {
			if err := checkIV(iv, bs); err != nil {
				return nil, err
			}
		}
		buf, err := Pad(data, bs, pad)
		if err != nil {
			return nil, err
		}
		if err := checkAlignment(buf, bs); err != nil {
			return nil, err
		}
		if mode == ECB {
			NewECBEncrypter(block).CryptBlocks(buf, buf)
		} else {
			cipher.NewCBCEncrypter(block, iv).CryptBlocks(buf, buf)
		}

		return buf, nil
	case CFB, OFB:
		if err := checkIV(iv, bs); err != nil {
			return nil, err
		}

		return feedback(block, mode, iv, data, false), nil
	default:
		return nil, cryptoutils.Newf(cryptoutils.KindInvalidArgument, "unsupported mode %d", int(mode))
	}
}

// Decrypt reverses Encrypt. With a padding policy set, the padding of the
// final block is validated and stripped.
func Decrypt(block cipher.Block, mode Mode, iv, data []byte, pad Padding) ([]byte, error) {
	bs := block.BlockSize()

	switch mode {
	case ECB, CBC:
		if mode == CBC {
			if err := checkIV(iv, bs); err != nil {
				return nil, err
			}
		}
		if err := checkAlignment(data, bs); err != nil {
			return nil, err
		}
		buf := make([]byte, len(data))
		if mode == ECB {
			NewECBDecrypter(block).CryptBlocks(buf, data)
		} else {
			cipher.NewCBCDecrypter(block, iv).CryptBlocks(buf, data)
		}

		return Unpad(buf, bs, pad)
	case CFB, OFB:
		if err := checkIV(iv, bs); err != nil {
			return nil, err
		}

		return feedback(block, mode, iv, data, true), nil
	default:
		return nil, cryptoutils.Newf(cryptoutils.KindInvalidArgument, "unsupported mode %d", int(mode))
	}
}

// feedback runs full-block CFB or OFB. The shift register starts at the IV;
// OFB feeds back the keystream block, CFB feeds back the ciphertext block.
func feedback(block cipher.Block, mode Mode, iv, src []byte, decrypt bool) []byte {
	bs := block.BlockSize()
	register := make([]byte, bs)
	copy(register, iv)
	keystream := make([]byte, bs)
	dst := make([]byte, len(src))

	for off := 0; off < len(src); off += bs {
		end := min(off+bs, len(src))
		block.Encrypt(keystream, register)
		for i := off; i < end; i++ {
			dst[i] = src[i] ^ keystream[i-off]
		}

		switch {
		case mode == OFB:
			copy(register, keystream)
		case decrypt:
			copy(register, src[off:end])
		default:
			copy(register, dst[off:end])
		}
	}

	return dst
}

func checkIV(iv []byte, bs int) error {
	if len(iv) != bs {
		return cryptoutils.Newf(
			cryptoutils.KindInvalidIV,
			"iv must be %d bytes, got %d",
			bs,
			len(iv),
		)
	}

	return nil
}

func checkAlignment(data []byte, bs int) error {
	if len(data)%bs != 0 {
		return cryptoutils.Newf(
			cryptoutils.KindInvalidBlockAlignment,
			"data length %d is not a multiple of block size %d",
			len(data),
			bs,
		)
	}

	return nil
}
