// Package common contains shared constants, sentinel errors and small
// helpers used across mediashuttle components.
package common

const (
	// SchemePlain is the transport scheme shareable links are fetched over.
	SchemePlain = "https"

	// SchemeEncrypted marks a link whose fragment carries key material.
	// It is never dereferenced on the wire; it is rewritten to SchemePlain
	// before any network request.
	SchemeEncrypted = "aesgcm"

	// KeySize is the AES-256 key length in bytes.
	KeySize = 32

	// IVSize is the GCM nonce length in bytes.
	IVSize = 16

	// TagSize is the GCM authentication tag length in bytes. On the wire the
	// tag immediately follows the ciphertext; there is no length prefix.
	TagSize = 16

	// FragmentHexLen is the exact length of the hex fragment an encrypted
	// link carries: IVSize+KeySize bytes, two hex characters each.
	FragmentHexLen = (IVSize + KeySize) * 2
)

const (
	// UploadFeature is the capability-discovery feature a remote service
	// advertises when it can issue upload slots.
	UploadFeature = "urn:shuttle:upload:0"

	// MaxFileSizeField is the discovery form field carrying the service's
	// size ceiling in bytes.
	MaxFileSizeField = "max-file-size"
)
