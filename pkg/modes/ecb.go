package modes

import (
	"crypto/cipher"
	"fmt"
)

// ecbMode applies the block cipher to each block independently.
// crypto/cipher provides no ECB; KCVs and PIN blocks are defined over it.
type ecbMode struct {
	b       cipher.Block
	decrypt bool
}

// NewECBEncrypter returns a cipher.BlockMode for ECB encryption.
func NewECBEncrypter(b cipher.Block) cipher.BlockMode {
	return &ecbMode{b: b}
}

// NewECBDecrypter returns a cipher.BlockMode for ECB decryption.
func NewECBDecrypter(b cipher.Block) cipher.BlockMode {
	return &ecbMode{b: b, decrypt: true}
}

func (m *ecbMode) BlockSize() int { return m.b.BlockSize() }

// CryptBlocks panics on misaligned input or a short dst, like the
// crypto/cipher modes.
func (m *ecbMode) CryptBlocks(dst, src []byte) {
	bs := m.b.BlockSize()
	if len(src)%bs != 0 {
		panic(fmt.Sprintf("modes: ecb input length %d not a multiple of %d", len(src), bs))
	}
	if len(dst) < len(src) {
		panic("modes: ecb output smaller than input")
	}

	for off := 0; off < len(src); off += bs {
		if m.decrypt {
			m.b.Decrypt(dst[off:off+bs], src[off:off+bs])
		} else {
			m.b.Encrypt(dst[off:off+bs], src[off:off+bs])
		}
	}
}
