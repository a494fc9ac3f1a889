// Package blobfs is a directory-backed BlobStore. Locators are opaque
// UUIDs; files are written with owner-only permissions.
package blobfs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/avilovp/mediashuttle/internal/common"
	"github.com/google/uuid"
)

type Store struct {
	dir string
}

// New ensures dir exists and returns a store rooted at it.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Put(ctx context.Context, data []byte) (string, error) {
	locator := uuid.NewString()
	path := filepath.Join(s.dir, locator)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("writing blob: %w", err)
	}
	return locator, nil
}

func (s *Store) Get(ctx context.Context, locator string) ([]byte, error) {
	// Locators are UUIDs we minted; anything with a separator is rejected
	// before it can escape the root.
	if strings.ContainsAny(locator, `/\`) || locator == "" {
		return nil, fmt.Errorf("%w: bad locator %q", common.ErrNotFound, locator)
	}
	data, err := os.ReadFile(filepath.Join(s.dir, locator))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", common.ErrNotFound, locator)
		}
		return nil, fmt.Errorf("reading blob: %w", err)
	}
	return data, nil
}
