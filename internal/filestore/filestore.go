// Package filestore owns receipt file bytes. Callers get back an opaque
// reference string and never interpret the content.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Store saves uploaded bytes and resolves references back to streams.
type Store interface {
	// Save stores the content and returns an opaque reference.
	Save(ctx context.Context, originalName string, content io.Reader) (string, error)
	// Open resolves a reference; ErrNotFound if it no longer resolves.
	Open(ctx context.Context, ref string) (io.ReadCloser, error)
}

var ErrNotFound = errors.New("stored file not found")

// uniqueName prefixes the original extension with a timestamp and random
// suffix, the same naming scheme the upload dir has always used.
func uniqueName(originalName string) string {
	ext := filepath.Ext(originalName)
	return fmt.Sprintf("receipt-%d-%d%s", time.Now().UnixMilli(), rand.Int63n(1_000_000_000), ext)
}

// DiskStore keeps files in a local uploads directory.
type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %w", dir, err)
	}
	return &DiskStore{dir: dir}, nil
}

func (s *DiskStore) Save(_ context.Context, originalName string, content io.Reader) (string, error) {
	name := uniqueName(originalName)

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create receipt file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, content); err != nil {
		return "", fmt.Errorf("failed to write receipt file: %w", err)
	}
	return name, nil
}

func (s *DiskStore) Open(_ context.Context, ref string) (io.ReadCloser, error) {
	// references are bare filenames; refuse anything that walks out of
	// the upload dir
	if strings.Contains(ref, "/") || strings.Contains(ref, "\\") || strings.Contains(ref, "..") {
		return nil, ErrNotFound
	}

	f, err := os.Open(filepath.Join(s.dir, ref))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return f, nil
}
