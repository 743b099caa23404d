package kv

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"go.uber.org/zap"
)

// fileRecord is the on-disk shape of one entry. The original key is kept
// inside the file because filenames are hashes and cannot be reversed.
type fileRecord struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// FileStore persists each key as a single JSON file named by the SHA-1 of
// the key. It survives process restarts and tolerates individually corrupt
// files: ListKeys skips them and GetString reports them as read errors.
type FileStore struct {
	mu     sync.RWMutex
	fs     billy.Filesystem
	dir    string
	logger *zap.Logger
}

type fileStoreOptions struct {
	fs     billy.Filesystem
	logger *zap.Logger
}

// FileStoreOption customizes a FileStore.
type FileStoreOption func(*fileStoreOptions)

// WithFilesystem replaces the local filesystem, typically with memfs in tests.
func WithFilesystem(fs billy.Filesystem) FileStoreOption {
	return func(o *fileStoreOptions) {
		o.fs = fs
	}
}

// WithLogger attaches a logger for skipped or unreadable files.
func WithLogger(logger *zap.Logger) FileStoreOption {
	return func(o *fileStoreOptions) {
		o.logger = logger
	}
}

// NewFileStore creates the backing directory if needed and returns a store
// rooted there.
func NewFileStore(dir string, opts ...FileStoreOption) (*FileStore, error) {
	options := &fileStoreOptions{
		fs:     osfs.New("/"),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(options)
	}

	if err := options.fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	return &FileStore{
		fs:     options.fs,
		dir:    dir,
		logger: options.logger,
	}, nil
}

func (s *FileStore) path(key string) string {
	sum := sha1.Sum([]byte(key))
	return filepath.Join(s.dir, hex.EncodeToString(sum[:])+".json")
}

// GetString returns the value for key, or found=false when absent.
func (s *FileStore) GetString(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := util.ReadFile(s.fs, s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read record: %w", err)
	}

	var rec fileRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return "", false, fmt.Errorf("failed to parse record: %w", err)
	}
	return rec.Value, true, nil
}

// SetString writes the value for key atomically via a temp file rename.
func (s *FileStore) SetString(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(fileRecord{Key: key, Value: value})
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	path := s.path(key)
	tmpPath := path + ".tmp"

	f, err := s.fs.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		_ = s.fs.Remove(tmpPath)
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = s.fs.Remove(tmpPath)
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err := s.fs.Rename(tmpPath, path); err != nil {
		_ = s.fs.Remove(tmpPath)
		return fmt.Errorf("failed to rename record file: %w", err)
	}
	return nil
}

// RemoveKeys deletes the given keys. Missing keys are ignored.
func (s *FileStore) RemoveKeys(_ context.Context, keys []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		if err := s.fs.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove record for %q: %w", key, err)
		}
	}
	return nil
}

// ListKeys reads every record file to recover the original keys. Files that
// cannot be read or parsed are skipped and logged.
func (s *FileStore) ListKeys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos, err := s.fs.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list store directory: %w", err)
	}

	keys := make([]string, 0, len(infos))
	for _, info := range infos {
		if info.IsDir() || !strings.HasSuffix(info.Name(), ".json") {
			continue
		}
		data, err := util.ReadFile(s.fs, filepath.Join(s.dir, info.Name()))
		if err != nil {
			s.logger.Debug("skipping unreadable record file",
				zap.String("file", info.Name()),
				zap.Error(err))
			continue
		}
		var rec fileRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			s.logger.Debug("skipping corrupt record file",
				zap.String("file", info.Name()),
				zap.Error(err))
			continue
		}
		keys = append(keys, rec.Key)
	}
	return keys, nil
}
