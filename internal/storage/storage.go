package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store caches raw documents by key.
type Store interface {
	// Get returns the document stored under key; ok is false on a miss.
	Get(key string) (data []byte, ok bool, err error)
	Put(key string, data []byte) error
	// Size returns the number of bytes the cache occupies.
	Size() (int64, error)
	// Flush removes every document.
	Flush() error
	Close() error
}

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Open creates the store for backend rooted at dataDir.
func Open(backend, dataDir string) (Store, error) {
	switch backend {
	case BackendFile, "":
		return NewFileStore(dataDir)
	case BackendSQLite:
		dir, err := expandHome(dataDir)
		if err != nil {
			return nil, err
		}
		return NewSQLiteStore(filepath.Join(dir, "cache.db"))
	default:
		return nil, fmt.Errorf("unknown cache backend: %s", backend)
	}
}

// EnforceLimit flushes the store when it is larger than maxBytes.
// A non-positive maxBytes disables the check.
func EnforceLimit(s Store, maxBytes int64) (flushed bool, size int64, err error) {
	size, err = s.Size()
	if err != nil {
		return false, 0, fmt.Errorf("measuring cache: %w", err)
	}
	if maxBytes <= 0 || size <= maxBytes {
		return false, size, nil
	}
	if err := s.Flush(); err != nil {
		return false, size, fmt.Errorf("flushing cache: %w", err)
	}
	return true, size, nil
}

// expandHome expands a leading ~/ to the user's home directory
func expandHome(dir string) (string, error) {
	if strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, dir[2:])
	}
	return dir, nil
}

func validKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return fmt.Errorf("invalid cache key: %q", key)
	}
	return nil
}
