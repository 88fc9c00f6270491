package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/linkdrop-go/internal/core/domain"
	"github.com/yndnr/linkdrop-go/internal/telemetry/metric"
)

// tokenKeyPrefix namespaces token keys inside the Badger keyspace.
const tokenKeyPrefix = "token/"

// BadgerStore implements TokenStore on Badger v3. Each token is stored under
// "token/<id>" with the same JSON record the file engine uses.
type BadgerStore struct {
	db      *badger.DB
	cfg     BadgerConfig
	logger  *slog.Logger
	metrics *metric.Registry

	// mu serializes every read-modify-write, independently of Badger's
	// own transaction conflict detection.
	mu     sync.Mutex
	closed bool

	lastGCTime atomic.Int64  // Unix milliseconds
	gcRuns     atomic.Uint64 // value log files rewritten

	stopCh    chan struct{}
	doneCh    chan struct{}
	closeOnce sync.Once
}

// NewBadgerStore opens a Badger-backed token store in dir.
func NewBadgerStore(dir string, cfg BadgerConfig, logger *slog.Logger, metrics *metric.Registry) (*BadgerStore, error) {
	if dir == "" && !cfg.InMemory {
		return nil, fmt.Errorf("badger: dir is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "badgerstore")

	opts := badger.DefaultOptions(dir)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = &badgerLogger{logger: logger}
	if cfg.CacheSize > 0 {
		opts.BlockCacheSize = cfg.CacheSize
	}
	if cfg.ValueLogFileSize > 0 {
		opts.ValueLogFileSize = cfg.ValueLogFileSize
	}
	if cfg.NumMemtables > 0 {
		opts.NumMemtables = cfg.NumMemtables
	}
	opts.SyncWrites = cfg.SyncWrites

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: open db: %w", err)
	}

	s := &BadgerStore{
		db:      db,
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}

	go s.gcLoop()

	logger.Info("badger store opened",
		"dir", dir,
		"in_memory", cfg.InMemory,
		"gc_interval", cfg.GCInterval)

	return s, nil
}

func tokenKey(id string) []byte {
	return []byte(tokenKeyPrefix + id)
}

// Load implements TokenStore. Records that fail to decode are skipped.
func (s *BadgerStore) Load(ctx context.Context) (map[string]*domain.Token, error) {
	tokens := make(map[string]*domain.Token)
	invalid := 0

	err := s.withLock(ctx, func() error {
		return s.db.View(func(txn *badger.Txn) error {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = []byte(tokenKeyPrefix)
			it := txn.NewIterator(opts)
			defer it.Close()

			for it.Rewind(); it.Valid(); it.Next() {
				item := it.Item()
				id := strings.TrimPrefix(string(item.Key()), tokenKeyPrefix)
				value, err := item.ValueCopy(nil)
				if err != nil {
					return err
				}
				tok, err := decodeRecord(id, value)
				if err != nil {
					invalid++
					continue
				}
				tokens[id] = tok
			}
			return nil
		})
	})
	s.metrics.RecordStoreOp(opLoad, resultOf(err))

	if err != nil {
		if errors.Is(err, domain.ErrStoreClosed) || ctx.Err() != nil {
			return nil, err
		}
		s.logger.Error("token store unreadable, treating as empty",
			"code", domain.ErrStoreCorrupt.Code,
			"error", err)
		return make(map[string]*domain.Token), nil
	}
	if invalid > 0 {
		s.logger.Warn("skipped invalid token records",
			"code", domain.ErrStoreCorrupt.Code,
			"count", invalid)
	}
	return tokens, nil
}

// Save implements TokenStore. The whole replacement commits in one
// transaction, so a crash leaves either the old or the new mapping.
func (s *BadgerStore) Save(ctx context.Context, tokens map[string]*domain.Token) error {
	err := s.withLock(ctx, func() error {
		return s.db.Update(func(txn *badger.Txn) error {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = []byte(tokenKeyPrefix)
			opts.PrefetchValues = false
			it := txn.NewIterator(opts)

			var stale [][]byte
			for it.Rewind(); it.Valid(); it.Next() {
				stale = append(stale, it.Item().KeyCopy(nil))
			}
			it.Close()

			for _, key := range stale {
				if err := txn.Delete(key); err != nil {
					return err
				}
			}

			for id, tok := range tokens {
				if tok == nil {
					continue
				}
				value, err := encodeRecord(tok)
				if err != nil {
					return err
				}
				if err := txn.Set(tokenKey(id), value); err != nil {
					return err
				}
			}
			return nil
		})
	})
	err = wrapStorageErr(err)
	s.metrics.RecordStoreOp(opSave, resultOf(err))
	return err
}

// Add implements TokenStore.
func (s *BadgerStore) Add(ctx context.Context, tok *domain.Token) error {
	if tok == nil {
		return domain.ErrInvalidArgument.WithDetails("token is required")
	}
	if err := tok.Validate(); err != nil {
		return err
	}
	value, err := encodeRecord(tok)
	if err != nil {
		return domain.ErrStorageError.WithCause(err)
	}

	err = s.withLock(ctx, func() error {
		return s.db.Update(func(txn *badger.Txn) error {
			key := tokenKey(tok.ID)
			_, err := txn.Get(key)
			switch {
			case err == nil:
				return domain.ErrTokenConflict
			case !errors.Is(err, badger.ErrKeyNotFound):
				return err
			}
			return txn.Set(key, value)
		})
	})
	err = wrapStorageErr(err)
	s.metrics.RecordStoreOp(opAdd, resultOf(err))
	return err
}

// Consume implements TokenStore. Lookup and deletion run in one Badger
// transaction under the store mutex. A record that cannot be decoded is
// deleted and reported as absent.
func (s *BadgerStore) Consume(ctx context.Context, id string) (*domain.Token, error) {
	var consumed *domain.Token
	err := s.withLock(ctx, func() error {
		return s.db.Update(func(txn *badger.Txn) error {
			key := tokenKey(id)
			item, err := txn.Get(key)
			if errors.Is(err, badger.ErrKeyNotFound) {
				return domain.ErrTokenNotFound
			}
			if err != nil {
				return err
			}
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			if err := txn.Delete(key); err != nil {
				return err
			}

			tok, err := decodeRecord(id, value)
			if err != nil {
				s.logger.Warn("dropping invalid token record",
					"code", domain.ErrStoreCorrupt.Code,
					"error", err)
				return nil
			}
			consumed = tok
			return nil
		})
	})
	err = wrapStorageErr(err)
	if err == nil && consumed == nil {
		err = domain.ErrTokenNotFound
	}
	s.metrics.RecordStoreOp(opConsume, resultOf(err))
	if err != nil {
		return nil, err
	}
	return consumed, nil
}

// Len counts the stored keys without fetching or decoding values.
func (s *BadgerStore) Len(ctx context.Context) (int, error) {
	n := 0
	err := s.withLock(ctx, func() error {
		return s.db.View(func(txn *badger.Txn) error {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = []byte(tokenKeyPrefix)
			opts.PrefetchValues = false
			it := txn.NewIterator(opts)
			defer it.Close()

			for it.Rewind(); it.Valid(); it.Next() {
				n++
			}
			return nil
		})
	})
	if err != nil {
		return 0, wrapStorageErr(err)
	}
	return n, nil
}

// Delete implements TokenStore.
func (s *BadgerStore) Delete(ctx context.Context, id string) error {
	err := s.withLock(ctx, func() error {
		return s.db.Update(func(txn *badger.Txn) error {
			return txn.Delete(tokenKey(id))
		})
	})
	err = wrapStorageErr(err)
	s.metrics.RecordStoreOp(opDelete, resultOf(err))
	return err
}

// GC runs value log garbage collection until Badger reports nothing to rewrite.
func (s *BadgerStore) GC() error {
	start := time.Now()
	runs := 0
	for {
		err := s.db.RunValueLogGC(s.cfg.GCThreshold)
		if err != nil {
			if errors.Is(err, badger.ErrNoRewrite) {
				break
			}
			return fmt.Errorf("gc: %w", err)
		}
		runs++
	}

	s.lastGCTime.Store(time.Now().UnixMilli())
	s.gcRuns.Add(uint64(runs))

	s.logger.Debug("gc completed",
		"rewrites", runs,
		"elapsed", time.Since(start))
	return nil
}

// Stats returns storage statistics.
func (s *BadgerStore) Stats() KVStats {
	lsm, vlog := s.db.Size()
	return KVStats{
		TotalSize:    uint64(lsm + vlog),
		LSMSize:      uint64(lsm),
		ValueLogSize: uint64(vlog),
		LastGCTime:   s.lastGCTime.Load(),
		GCRuns:       s.gcRuns.Load(),
	}
}

// RegisterMetrics exposes Badger size gauges on reg. A nil reg is ignored.
func (s *BadgerStore) RegisterMetrics(reg *metric.Registry) {
	if reg == nil {
		return
	}

	gauge := func(name, help string, value func(KVStats) float64) prometheus.GaugeFunc {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: metric.Namespace,
			Subsystem: "badger",
			Name:      name,
			Help:      help,
		}, func() float64 {
			return value(s.Stats())
		})
	}

	reg.MustRegister(
		gauge("lsm_size_bytes", "Badger LSM tree size in bytes.",
			func(st KVStats) float64 { return float64(st.LSMSize) }),
		gauge("value_log_size_bytes", "Badger value log size in bytes.",
			func(st KVStats) float64 { return float64(st.ValueLogSize) }),
		gauge("last_gc_timestamp_seconds", "Unix timestamp of the last Badger GC run.",
			func(st KVStats) float64 { return float64(st.LastGCTime) / 1000.0 }),
	)
}

// Close implements TokenStore.
func (s *BadgerStore) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		close(s.stopCh)
		<-s.doneCh

		if cerr := s.db.Close(); cerr != nil {
			err = fmt.Errorf("close db: %w", cerr)
			return
		}
		s.logger.Info("badger store closed")
	})
	return err
}

func (s *BadgerStore) withLock(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.ErrStoreClosed
	}
	return fn()
}

// gcLoop runs periodic value log garbage collection.
func (s *BadgerStore) gcLoop() {
	defer close(s.doneCh)

	if s.cfg.InMemory {
		<-s.stopCh
		return
	}

	interval, err := time.ParseDuration(s.cfg.GCInterval)
	if err != nil || interval <= 0 {
		s.logger.Error("invalid gc_interval, using default 10m", "value", s.cfg.GCInterval)
		interval = 10 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.GC(); err != nil {
				s.logger.Error("auto gc failed", "error", err)
			}
		case <-s.stopCh:
			return
		}
	}
}

// wrapStorageErr leaves domain and context errors intact and wraps
// everything else as a storage error.
func wrapStorageErr(err error) error {
	if err == nil || domain.IsDomainError(err, "") ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return domain.ErrStorageError.WithCause(err)
}

// badgerLogger adapts slog.Logger to Badger's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}
