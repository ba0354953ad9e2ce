package kv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/alarm-clock/internal/config"
)

// FileStore persists values to a YAML document on disk, grouped by namespace.
// Other namespaces found in the file are preserved on every write.
type FileStore struct {
	// path is the filesystem location of the YAML state file.
	path string
	// namespace selects the section of the document this store owns.
	namespace string
	// mu protects the cached document and the file.
	mu sync.Mutex
	// document caches the whole file content.
	document map[string]map[string]string
	// replace moves the written temporary file over path.
	replace func(oldpath, newpath string) error
}

// OpenFileStore reads the YAML state file at path. A missing file is treated as empty.
func OpenFileStore(path, namespace string) (*FileStore, error) {
	s := &FileStore{
		path:      filepath.Clean(path),
		namespace: namespace,
		document:  make(map[string]map[string]string),
		replace:   os.Rename,
	}

	contents, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}

		return nil, fmt.Errorf("read state file: %w", err)
	}

	if err = yaml.Unmarshal(contents, &s.document); err != nil {
		return nil, fmt.Errorf("decode state file: %w", err)
	}

	if s.document == nil {
		s.document = make(map[string]map[string]string)
	}

	return s, nil
}

// Get returns the value stored under key in the store namespace.
func (s *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.document[s.namespace][key]

	return value, ok, nil
}

// Set stores value under key and rewrites the file.
func (s *FileStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	section, ok := s.document[s.namespace]
	if !ok {
		section = make(map[string]string)
		s.document[s.namespace] = section
	}

	previous, existed := section[key]
	section[key] = value

	if err := s.flush(); err != nil {
		if existed {
			section[key] = previous
		} else {
			delete(section, key)
		}

		return err
	}

	return nil
}

// Close is a no-op, every Set is already flushed.
func (s *FileStore) Close() error {
	return nil
}

// flush writes the cached document to a temporary file next to path and renames it
// over path, so a crash never leaves a truncated state file behind.
func (s *FileStore) flush() error {
	data, err := yaml.Marshal(s.document)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temporary state file: %w", err)
	}

	tmpPath := tmp.Name()

	if err = writeAndSync(tmp, data); err != nil {
		_ = os.Remove(tmpPath)

		return fmt.Errorf("write state file: %w", err)
	}

	if err = s.replace(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)

		return fmt.Errorf("replace state file: %w", err)
	}

	return nil
}

// writeAndSync writes data with restricted permissions and closes the file.
func writeAndSync(f *os.File, data []byte) error {
	err := f.Chmod(config.DefaultFilePermissions)
	if err == nil {
		_, err = f.Write(data)
	}

	if err == nil {
		err = f.Sync()
	}

	return errors.Join(err, f.Close())
}
