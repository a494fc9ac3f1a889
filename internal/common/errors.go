// Sentinel errors for the transfer engine. Callers match them with
// errors.Is; pipelines wrap them with fmt.Errorf("...: %w", ...) to keep
// the underlying cause in the chain.
package common

import "errors"

var (
	// ErrNoServers means no eligible upload service is currently known.
	ErrNoServers = errors.New("no upload servers available")

	// ErrServer means a non-success status or a transport-level failure
	// during slot negotiation or byte transfer.
	ErrServer = errors.New("server error")

	// ErrExceedsMaxSize means the bytes to be transmitted are larger than
	// the selected service's ceiling.
	ErrExceedsMaxSize = errors.New("file exceeds maximum upload size")

	// ErrNoSlot means the service declined to issue an upload slot or the
	// negotiation exchange failed. Reported to callers wrapped in ErrServer.
	ErrNoSlot = errors.New("no upload slot granted")

	// ErrURLFormatting means a shareable URL could not be parsed or rebuilt.
	ErrURLFormatting = errors.New("url formatting error")

	// ErrFileNotFound means no byte source could be resolved for a request.
	ErrFileNotFound = errors.New("file not found")

	// ErrKeyGeneration means the secure random source failed.
	ErrKeyGeneration = errors.New("key generation error")

	// ErrCrypto means encryption failed, or decryption/authentication
	// failed, or the framed ciphertext was malformed.
	ErrCrypto = errors.New("crypto error")

	// ErrNotFound is the generic store-level miss.
	ErrNotFound = errors.New("not found")

	// ErrInvalidToken means a malformed or unverifiable auth token.
	ErrInvalidToken = errors.New("invalid token")

	// ErrQuotaExceeded means the caller's upload quota does not cover the
	// requested slot.
	ErrQuotaExceeded = errors.New("upload quota exceeded")

	// ErrUnknown is the catch-all transfer failure kind.
	ErrUnknown = errors.New("unknown error")
)
