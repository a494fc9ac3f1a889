package common

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// RandBytes returns size cryptographically secure random bytes. It fails
// with ErrKeyGeneration when the random source is unavailable.
func RandBytes(size int) ([]byte, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyGeneration, err)
	}
	return b, nil
}

// MakeRandHexString generates a random hexadecimal string built from size
// random bytes, so the result is 2*size characters long.
func MakeRandHexString(size int) (string, error) {
	b, err := RandBytes(size)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// WipeByteArray overwrites b with zeros. Useful for dropping key material
// from memory after use. A nil slice is a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
