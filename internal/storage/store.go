package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/yndnr/linkdrop-go/internal/core/domain"
	"github.com/yndnr/linkdrop-go/internal/telemetry/metric"
)

// Engine names.
const (
	EngineFile   = "file"
	EngineBadger = "badger"
)

// Store operation names used for metrics and logs.
const (
	opLoad    = "load"
	opSave    = "save"
	opAdd     = "add"
	opConsume = "consume"
	opDelete  = "delete"
)

// TokenStore persists the token mapping.
//
// Implementations must be safe for concurrent use. Consume must check and
// remove as one atomic step: for any id, at most one Consume ever succeeds.
type TokenStore interface {
	// Load returns a copy of the current contents. Missing or corrupt state
	// yields an empty mapping and a nil error.
	Load(ctx context.Context) (map[string]*domain.Token, error)

	// Save replaces the persisted mapping with tokens.
	Save(ctx context.Context, tokens map[string]*domain.Token) error

	// Add inserts a new token. It fails with domain.ErrTokenConflict if the id exists.
	Add(ctx context.Context, tok *domain.Token) error

	// Consume removes the token and returns it, or domain.ErrTokenNotFound.
	Consume(ctx context.Context, id string) (*domain.Token, error)

	// Delete removes the token if present. Deleting an absent id is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases the store's resources.
	Close() error
}

// Config selects and configures a TokenStore engine.
type Config struct {
	// Engine is EngineFile or EngineBadger.
	Engine string

	// TokensFile is the JSON document used by the file engine.
	TokensFile string

	// DataDir is the Badger directory used by the badger engine.
	DataDir string

	// Badger holds Badger tuning parameters.
	Badger BadgerConfig

	Logger  *slog.Logger
	Metrics *metric.Registry
}

// DefaultConfig returns the default store configuration.
func DefaultConfig() Config {
	return Config{
		Engine:     EngineFile,
		TokensFile: "tokens.json",
		DataDir:    "data/tokens",
		Badger:     DefaultBadgerConfig(),
	}
}

// Open creates the TokenStore selected by cfg.Engine.
func Open(cfg Config) (TokenStore, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	switch cfg.Engine {
	case "", EngineFile:
		return NewFileStore(cfg.TokensFile, cfg.Logger, cfg.Metrics)
	case EngineBadger:
		s, err := NewBadgerStore(cfg.DataDir, cfg.Badger, cfg.Logger, cfg.Metrics)
		if err != nil {
			return nil, err
		}
		s.RegisterMetrics(cfg.Metrics)
		return s, nil
	default:
		return nil, fmt.Errorf("storage: unknown engine %q", cfg.Engine)
	}
}

// Counter is implemented by stores that can report their size without a
// full Load.
type Counter interface {
	Len(ctx context.Context) (int, error)
}

// Count returns the number of stored tokens. It does not record a store
// operation when s implements Counter.
func Count(ctx context.Context, s TokenStore) (int, error) {
	if c, ok := s.(Counter); ok {
		return c.Len(ctx)
	}
	tokens, err := s.Load(ctx)
	if err != nil {
		return 0, err
	}
	return len(tokens), nil
}

// resultOf maps an operation error to a metrics label.
func resultOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case domain.IsDomainError(err, domain.ErrTokenNotFound.Code):
		return "not_found"
	case domain.IsDomainError(err, domain.ErrTokenConflict.Code):
		return "conflict"
	default:
		return "error"
	}
}

func cloneTokens(in map[string]*domain.Token) map[string]*domain.Token {
	out := make(map[string]*domain.Token, len(in))
	for id, tok := range in {
		if tok == nil {
			continue
		}
		out[id] = tok.Clone()
	}
	return out
}
