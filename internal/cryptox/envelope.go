// Package cryptox implements the per-transfer encryption envelope:
// AES-256-GCM with a 16-byte IV and the authentication tag appended
// directly after the ciphertext. The tag's fixed size, not a length
// prefix, is how the receiver locates it.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"github.com/avilovp/mediashuttle/internal/common"
)

// Envelope is the key material for one transfer. It is generated fresh per
// transfer and never persisted outside the URL that carries it.
type Envelope struct {
	Key []byte // 32 bytes
	IV  []byte // 16 bytes
}

// GenerateEnvelope returns a fresh envelope from the secure random source.
// Fails with common.ErrKeyGeneration when randomness is unavailable.
func GenerateEnvelope() (*Envelope, error) {
	key, err := common.RandBytes(common.KeySize)
	if err != nil {
		return nil, err
	}
	iv, err := common.RandBytes(common.IVSize)
	if err != nil {
		return nil, err
	}
	return &Envelope{Key: key, IV: iv}, nil
}

// Wipe zeroes the envelope's key material.
func (e *Envelope) Wipe() {
	common.WipeByteArray(e.Key)
	common.WipeByteArray(e.IV)
}

// EncryptedLength is the on-wire length of an encrypted payload of
// plaintextLen bytes: ciphertext plus the trailing tag.
func EncryptedLength(plaintextLen int) int {
	return plaintextLen + common.TagSize
}

func newAEAD(key, iv []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCrypto, err)
	}
	aead, err := cipher.NewGCMWithNonceSize(block, len(iv))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCrypto, err)
	}
	return aead, nil
}

// Encrypt seals plaintext with AES-GCM under key and iv. The result is
// ciphertext immediately followed by the 16-byte tag. On error no partial
// output is returned.
func Encrypt(plaintext, key, iv []byte) ([]byte, error) {
	aead, err := newAEAD(key, iv)
	if err != nil {
		return nil, err
	}
	return aead.Seal(nil, iv, plaintext, nil), nil
}

// Decrypt opens a framed ciphertext (ciphertext || tag) produced by
// Encrypt. Inputs of tag size or shorter carry no ciphertext at all and
// fail with common.ErrCrypto, as does any authentication failure.
func Decrypt(framed, key, iv []byte) ([]byte, error) {
	if len(framed) <= common.TagSize {
		return nil, fmt.Errorf("%w: framed ciphertext too short (%d bytes)", common.ErrCrypto, len(framed))
	}
	aead, err := newAEAD(key, iv)
	if err != nil {
		return nil, err
	}
	plaintext, err := aead.Open(nil, iv, framed, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCrypto, err)
	}
	return plaintext, nil
}
