// Package urlcodec translates between plain shareable links and the
// encrypted-marker form in which the URL fragment carries the decryption
// key material as hex(iv || key).
package urlcodec

import (
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"

	"github.com/avilovp/mediashuttle/internal/common"
	"github.com/avilovp/mediashuttle/internal/cryptox"
)

// EmbedKey rewrites the scheme of baseURL from the plain transport scheme
// to the encrypted marker scheme and sets the fragment to the hex encoding
// of iv followed by key (96 hex characters total).
func EmbedKey(baseURL string, env *cryptox.Envelope) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrURLFormatting, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: %q has no host", common.ErrURLFormatting, baseURL)
	}

	u.Scheme = common.SchemeEncrypted
	u.Fragment = hex.EncodeToString(env.IV) + hex.EncodeToString(env.Key)
	return u.String(), nil
}

// ExtractKey recovers the envelope from a shareable link. It reports ok
// only when the scheme is the encrypted marker scheme and the fragment
// decodes from hex to exactly IVSize+KeySize bytes. Every other shape
// means the link is plaintext; that is a signal, not an error.
func ExtractKey(raw string) (*cryptox.Envelope, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, false
	}
	if u.Scheme != common.SchemeEncrypted {
		return nil, false
	}
	if len(u.Fragment) != common.FragmentHexLen {
		return nil, false
	}
	data, err := hex.DecodeString(u.Fragment)
	if err != nil {
		return nil, false
	}
	return &cryptox.Envelope{
		IV:  data[:common.IVSize],
		Key: data[common.IVSize:],
	}, true
}

// NormalizeForFetch returns the form of raw that may be dereferenced over
// the network: the marker scheme is rewritten back to the plain transport
// scheme and the fragment is dropped (fragments never travel on the wire).
func NormalizeForFetch(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrURLFormatting, err)
	}
	if u.Scheme == common.SchemeEncrypted {
		u.Scheme = common.SchemePlain
	}
	u.Fragment = ""
	return u.String(), nil
}

// DedupeKey is the identity under which concurrent downloads are
// deduplicated: the normalized URL without its fragment. Two links that
// differ only in key material still point at the same resource.
func DedupeKey(raw string) (string, error) {
	return NormalizeForFetch(raw)
}

// FindTransferLinks scans a message body for embedded links using exactly
// the plain and encrypted transfer schemes. Other schemes are ignored.
func FindTransferLinks(text string) []string {
	var links []string
	for _, tok := range strings.Fields(text) {
		u, err := url.Parse(tok)
		if err != nil || u.Host == "" {
			continue
		}
		if u.Scheme == common.SchemePlain || u.Scheme == common.SchemeEncrypted {
			links = append(links, tok)
		}
	}
	return links
}
