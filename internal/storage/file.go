package storage

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// FileStore keeps one gzip-compressed file per document.
type FileStore struct {
	dataDir string
}

// NewFileStore creates a FileStore, creating dataDir if needed.
func NewFileStore(dataDir string) (*FileStore, error) {
	dataDir, err := expandHome(dataDir)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	return &FileStore{dataDir: dataDir}, nil
}

// Dir returns the cache directory.
func (s *FileStore) Dir() string {
	return s.dataDir
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dataDir, key+docSuffix)
}

// Get reads and decompresses a cached document.
func (s *FileStore) Get(key string) ([]byte, bool, error) {
	if err := validKey(key); err != nil {
		return nil, false, err
	}

	raw, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading cache file: %w", err)
	}

	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, false, fmt.Errorf("opening cache file %s: %w", key, err)
	}
	defer zr.Close()

	data, err := io.ReadAll(zr)
	if err != nil {
		return nil, false, fmt.Errorf("decompressing cache file %s: %w", key, err)
	}
	return data, true, nil
}

// Put compresses data and writes it atomically.
func (s *FileStore) Put(key string, data []byte) error {
	if err := validKey(key); err != nil {
		return err
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return fmt.Errorf("compressing %s: %w", key, err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("compressing %s: %w", key, err)
	}

	tmp, err := os.CreateTemp(s.dataDir, tmpPrefix+"*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing cache file: %w", err)
	}

	if err := os.Rename(tmpName, s.path(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming cache file: %w", err)
	}
	return nil
}

const (
	docSuffix = ".xml.gz"
	tmpPrefix = ".tmp-"
)

// owned reports whether name is a document or temp file written by the store.
// Other files in the directory are never counted or removed.
func owned(name string) bool {
	return strings.HasSuffix(name, docSuffix) || strings.HasPrefix(name, tmpPrefix)
}

// Size sums the sizes of the cached documents.
func (s *FileStore) Size() (int64, error) {
	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		return 0, fmt.Errorf("reading cache directory: %w", err)
	}

	var total int64
	for _, e := range entries {
		if e.IsDir() || !owned(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return 0, fmt.Errorf("reading cache file: %w", err)
		}
		total += info.Size()
	}
	return total, nil
}

// Flush removes the cached documents and leftover temp files.
func (s *FileStore) Flush() error {
	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		return fmt.Errorf("reading cache directory: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() || !owned(e.Name()) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dataDir, e.Name())); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing cache file: %w", err)
		}
	}
	return nil
}

// Close is a no-op for the file backend.
func (s *FileStore) Close() error {
	return nil
}
