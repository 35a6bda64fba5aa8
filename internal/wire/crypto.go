package wire

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

// encryptionState holds one direction's persistent AES-128-CFB8
// stream once encryption has been enabled on a FramingCodec. The
// shared secret is used as both key and IV, matching the protocol's
// observed convention (§9); this proxy never negotiates the secret
// itself (session authentication is out of scope), but exposes
// EnableEncryption so the framing codec's behavior is independently
// testable against the invariant in §8.
type encryptionState struct {
	block  cipher.Block
	stream cipher.Stream
}

func newEncryptionState(key []byte, decrypt bool) (*encryptionState, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("wire: creating AES cipher: %w", err)
	}
	var stream cipher.Stream
	if decrypt {
		stream = newDecryptStream(block, key)
	} else {
		stream = newEncryptStream(block, key)
	}
	return &encryptionState{block: block, stream: stream}, nil
}

// apply XORs data in place against the persistent keystream.
func (e *encryptionState) apply(data []byte) {
	e.stream.XORKeyStream(data, data)
}
