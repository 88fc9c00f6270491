package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/yndnr/linkdrop-go/internal/core/domain"
	"github.com/yndnr/linkdrop-go/internal/telemetry/metric"
)

// FileStore keeps all tokens in a single JSON document.
//
// Every operation re-reads the document, applies its change and rewrites it
// atomically while holding the store mutex and an advisory lock on
// "<path>.lock", so the operator CLI can add tokens while the server runs.
type FileStore struct {
	path    string
	lock    *fileLock
	logger  *slog.Logger
	metrics *metric.Registry

	mu     sync.Mutex
	closed bool

	// count is the token count seen by the last read or write.
	count  atomic.Int64
	primed atomic.Bool
}

// NewFileStore opens (or prepares) the token document at path.
// A missing document is not an error; it reads as an empty store.
func NewFileStore(path string, logger *slog.Logger, metrics *metric.Registry) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("storage: tokens file is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("storage: create tokens dir: %w", err)
	}

	lock, err := openFileLock(path + ".lock")
	if err != nil {
		return nil, fmt.Errorf("storage: open lock file: %w", err)
	}

	return &FileStore{
		path:    path,
		lock:    lock,
		logger:  logger.With("component", "filestore"),
		metrics: metrics,
	}, nil
}

// Path returns the document path.
func (s *FileStore) Path() string {
	return s.path
}

// Load implements TokenStore.
func (s *FileStore) Load(ctx context.Context) (map[string]*domain.Token, error) {
	var tokens map[string]*domain.Token
	err := s.withLock(ctx, func() error {
		tokens = s.read()
		return nil
	})
	s.metrics.RecordStoreOp(opLoad, resultOf(err))
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

// Save implements TokenStore.
func (s *FileStore) Save(ctx context.Context, tokens map[string]*domain.Token) error {
	err := s.withLock(ctx, func() error {
		return s.write(cloneTokens(tokens))
	})
	s.metrics.RecordStoreOp(opSave, resultOf(err))
	return err
}

// Add implements TokenStore.
func (s *FileStore) Add(ctx context.Context, tok *domain.Token) error {
	if tok == nil {
		return domain.ErrInvalidArgument.WithDetails("token is required")
	}
	if err := tok.Validate(); err != nil {
		return err
	}

	err := s.withLock(ctx, func() error {
		tokens := s.read()
		if _, exists := tokens[tok.ID]; exists {
			return domain.ErrTokenConflict
		}
		tokens[tok.ID] = tok.Clone()
		return s.write(tokens)
	})
	s.metrics.RecordStoreOp(opAdd, resultOf(err))
	return err
}

// Consume implements TokenStore.
//
// The lookup, the removal and the rewrite happen under one lock acquisition.
// If the rewrite fails the token is reported as a storage error and not
// returned, so a caller can never serve a token that is still on disk.
func (s *FileStore) Consume(ctx context.Context, id string) (*domain.Token, error) {
	var consumed *domain.Token
	err := s.withLock(ctx, func() error {
		tokens := s.read()
		tok, ok := tokens[id]
		if !ok {
			return domain.ErrTokenNotFound
		}
		delete(tokens, id)
		if err := s.write(tokens); err != nil {
			return err
		}
		consumed = tok
		return nil
	})
	s.metrics.RecordStoreOp(opConsume, resultOf(err))
	if err != nil {
		return nil, err
	}
	return consumed, nil
}

// Delete implements TokenStore.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	err := s.withLock(ctx, func() error {
		tokens := s.read()
		if _, ok := tokens[id]; !ok {
			return nil
		}
		delete(tokens, id)
		return s.write(tokens)
	})
	s.metrics.RecordStoreOp(opDelete, resultOf(err))
	return err
}

// Len returns the token count as of the last operation this process ran on
// the document. Only the first call reads the file. Writes by other
// processes show up after the next operation here.
func (s *FileStore) Len(ctx context.Context) (int, error) {
	if !s.primed.Load() {
		if err := s.withLock(ctx, func() error {
			s.read()
			return nil
		}); err != nil {
			return 0, err
		}
	}
	return int(s.count.Load()), nil
}

// Close implements TokenStore.
func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.lock.Close()
}

func (s *FileStore) withLock(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.ErrStoreClosed
	}
	if err := s.lock.Lock(); err != nil {
		return domain.ErrStorageError.WithCause(err)
	}
	defer func() {
		if err := s.lock.Unlock(); err != nil {
			s.logger.Error("failed to release store lock", "error", err)
		}
	}()

	return fn()
}

// read loads the document. Its decision table:
//
//	missing file          -> empty
//	unreadable file       -> empty, logged as error
//	not a JSON object     -> empty, logged as corrupt
//	invalid single record -> record skipped, logged
func (s *FileStore) read() map[string]*domain.Token {
	tokens := s.decode()
	s.count.Store(int64(len(tokens)))
	s.primed.Store(true)
	return tokens
}

func (s *FileStore) decode() map[string]*domain.Token {
	data, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return make(map[string]*domain.Token)
	case err != nil:
		s.logger.Error("token store unreadable, treating as empty",
			"code", domain.ErrStoreCorrupt.Code,
			"path", s.path,
			"error", err)
		return make(map[string]*domain.Token)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return make(map[string]*domain.Token)
	}

	tokens, invalid, err := decodeDocument(data)
	if err != nil {
		s.logger.Warn("token store corrupt, treating as empty",
			"code", domain.ErrStoreCorrupt.Code,
			"path", s.path,
			"error", err)
		return make(map[string]*domain.Token)
	}
	if len(invalid) > 0 {
		s.logger.Warn("skipped invalid token records",
			"code", domain.ErrStoreCorrupt.Code,
			"path", s.path,
			"count", len(invalid))
	}
	return tokens
}

// write replaces the document atomically: the new content is written to a
// temporary file in the same directory, synced, then renamed over the old one.
func (s *FileStore) write(tokens map[string]*domain.Token) error {
	data, err := encodeDocument(tokens)
	if err != nil {
		return domain.ErrStorageError.WithCause(fmt.Errorf("encode tokens: %w", err))
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return domain.ErrStorageError.WithCause(fmt.Errorf("create temp file: %w", err))
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return domain.ErrStorageError.WithCause(fmt.Errorf("write temp file: %w", err))
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return domain.ErrStorageError.WithCause(fmt.Errorf("sync temp file: %w", err))
	}
	if err := tmp.Close(); err != nil {
		return domain.ErrStorageError.WithCause(fmt.Errorf("close temp file: %w", err))
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return domain.ErrStorageError.WithCause(fmt.Errorf("rename: %w", err))
	}

	s.count.Store(int64(len(tokens)))
	s.primed.Store(true)

	if err := syncDir(dir); err != nil {
		s.logger.Warn("failed to sync tokens directory", "path", dir, "error", err)
	}
	return nil
}

func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	return d.Sync()
}
