package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store loads and saves the whole catalog at once.
type Store interface {
	// Load returns the persisted catalog. A store that has never been written
	// returns an empty catalog and no error.
	Load(ctx context.Context) (Catalog, error)

	// Save replaces the persisted catalog. Readers never see a partial write.
	Save(ctx context.Context, c Catalog) error
}

// FileStore keeps the catalog as an indented JSON array in a single file.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the file at path. The file does not need to exist yet.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: filepath.Clean(strings.TrimSpace(path))}
}

// Path returns the backing file location.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load(ctx context.Context) (Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Catalog{}, nil
		}
		return nil, fmt.Errorf("read catalog %s: %w", s.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return Catalog{}, nil
	}

	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrInvalidCatalog, s.path, err)
	}
	if c == nil {
		c = Catalog{}
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("load %s: %w", s.path, err)
	}
	return c, nil
}

func (s *FileStore) Save(ctx context.Context, c Catalog) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c == nil {
		c = Catalog{}
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}

	return writeFileAtomic(s.path, buf.Bytes())
}

// writeFileAtomic writes to a temp file in the target directory and renames it over path.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create catalog dir %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp catalog file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("write temp catalog file: %w", err)
	}
	if err := tmpFile.Chmod(0o644); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("chmod temp catalog file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("sync temp catalog file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp catalog file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename catalog file: %w", err)
	}

	success = true
	return nil
}
