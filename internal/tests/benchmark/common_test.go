package benchmark

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/yndnr/linkdrop-go/internal/core/domain"
	"github.com/yndnr/linkdrop-go/internal/storage"
	"github.com/yndnr/linkdrop-go/pkg/token"
)

// TokenCounts are the store sizes benchmarks run against. The file engine
// rewrites the whole document per operation, so sizes stay moderate.
var TokenCounts = []int{100, 1000, 10000}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// engines opens a fresh store of each kind in a temporary directory.
func engines(b *testing.B) map[string]func() storage.TokenStore {
	return map[string]func() storage.TokenStore{
		"file": func() storage.TokenStore {
			s, err := storage.NewFileStore(filepath.Join(b.TempDir(), "tokens.json"), quietLogger(), nil)
			if err != nil {
				b.Fatalf("NewFileStore() error = %v", err)
			}
			return s
		},
		"badger": func() storage.TokenStore {
			cfg := storage.DefaultBadgerConfig()
			cfg.SyncWrites = false
			s, err := storage.NewBadgerStore(b.TempDir(), cfg, quietLogger(), nil)
			if err != nil {
				b.Fatalf("NewBadgerStore() error = %v", err)
			}
			return s
		},
	}
}

// newLink builds an unexpired token for path with a generated id.
func newLink(b *testing.B, path string) *domain.Token {
	id, err := token.Generate()
	if err != nil {
		b.Fatalf("Generate() error = %v", err)
	}
	tok, err := domain.NewToken(id, path, time.Hour, time.Now())
	if err != nil {
		b.Fatalf("NewToken() error = %v", err)
	}
	return tok
}

// prefill saves count tokens in one write and returns their ids.
func prefill(b *testing.B, store storage.TokenStore, count int, path string) []string {
	tokens := make(map[string]*domain.Token, count)
	ids := make([]string, 0, count)
	for i := 0; i < count; i++ {
		tok := newLink(b, path)
		tokens[tok.ID] = tok
		ids = append(ids, tok.ID)
	}
	if err := store.Save(context.Background(), tokens); err != nil {
		b.Fatalf("Save() error = %v", err)
	}
	return ids
}

// reportMemory reports memory usage.
func reportMemory(b *testing.B, prefix string) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	b.ReportMetric(float64(m.Alloc)/(1024*1024), prefix+"_MB")
}

// runWithTokenCounts runs benchFn once per engine and store size.
func runWithTokenCounts(b *testing.B, counts []int, benchFn func(b *testing.B, open func() storage.TokenStore, count int)) {
	for name, open := range engines(b) {
		b.Run(name, func(b *testing.B) {
			for _, count := range counts {
				b.Run(fmt.Sprintf("tokens_%d", count), func(b *testing.B) {
					benchFn(b, open, count)
				})
			}
		})
	}
}
