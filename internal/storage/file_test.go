package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/yndnr/linkdrop-go/internal/core/domain"
	"github.com/yndnr/linkdrop-go/internal/telemetry/metric"
)

func newFileStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tokens.json")
	s, err := NewFileStore(path, discardLogger(), nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestFileStore_LoadDecisionTable(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{name: "empty file", content: "", want: nil},
		{name: "whitespace", content: " \n\t", want: nil},
		{name: "not json", content: "{not json", want: nil},
		{name: "json array", content: `["abc123"]`, want: nil},
		{name: "json null", content: `null`, want: nil},
		{name: "truncated", content: `{"abc123": {"path": "a.txt", "exp`, want: nil},
		{
			name:    "valid document",
			content: `{"abc123": {"path": "report.pdf", "expiry": 1900000000.25}}`,
			want:    []string{"abc123"},
		},
		{
			name: "invalid records skipped",
			content: `{
				"good": {"path": "a.txt", "expiry": 1900000000},
				"nopath": {"expiry": 1900000000},
				"noexpiry": {"path": "b.txt"},
				"wrongtype": {"path": "c.txt", "expiry": "tomorrow"},
				"scalar": 42
			}`,
			want: []string{"good"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, path := newFileStore(t)
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}

			got, err := s.Load(ctx)
			if err != nil {
				t.Fatalf("Load() error = %v, want nil", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Load() = %d tokens, want %d", len(got), len(tt.want))
			}
			for _, id := range tt.want {
				if _, ok := got[id]; !ok {
					t.Errorf("token %q missing", id)
				}
			}
		})
	}
}

func TestFileStore_MissingFileIsEmpty(t *testing.T) {
	s, path := newFileStore(t)
	if s.Path() != path {
		t.Errorf("Path() = %q, want %q", s.Path(), path)
	}

	got, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Load() = %d tokens, want 0", len(got))
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("Load() created the tokens file, stat error = %v", err)
	}
}

func TestFileStore_DocumentFormat(t *testing.T) {
	s, path := newFileStore(t)
	exp := time.Unix(1900000000, 250000000)

	if err := s.Add(context.Background(), &domain.Token{ID: "abc123", FilePath: "downloads/report.pdf", ExpiresAt: exp}); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var doc map[string]struct {
		Path   string  `json:"path"`
		Expiry float64 `json:"expiry"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("document is not a JSON object: %v\n%s", err, data)
	}
	rec, ok := doc["abc123"]
	if !ok {
		t.Fatalf("document missing abc123: %s", data)
	}
	if rec.Path != "downloads/report.pdf" {
		t.Errorf("path = %q, want downloads/report.pdf", rec.Path)
	}
	if rec.Expiry != 1900000000.25 {
		t.Errorf("expiry = %v, want 1900000000.25", rec.Expiry)
	}
}

func TestFileStore_ConsumeSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tokens.json")

	s1, err := NewFileStore(path, discardLogger(), nil)
	if err != nil {
		t.Fatal(err)
	}
	tok := &domain.Token{ID: "persist", FilePath: "a.txt", ExpiresAt: time.Now().Add(time.Hour)}
	if err := s1.Add(ctx, tok); err != nil {
		t.Fatal(err)
	}
	if _, err := s1.Consume(ctx, "persist"); err != nil {
		t.Fatal(err)
	}
	s1.Close()

	s2, err := NewFileStore(path, discardLogger(), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()

	got, _ := s2.Load(ctx)
	if _, ok := got["persist"]; ok {
		t.Error("consumed token reappeared after reopen")
	}
}

func TestFileStore_SeesExternalWrites(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tokens.json")

	server, err := NewFileStore(path, discardLogger(), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer server.Close()

	// A second store on the same file stands in for the operator CLI.
	cli, err := NewFileStore(path, discardLogger(), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer cli.Close()

	if err := cli.Add(ctx, &domain.Token{ID: "late", FilePath: "a.txt", ExpiresAt: time.Now().Add(time.Hour)}); err != nil {
		t.Fatal(err)
	}
	if _, err := server.Consume(ctx, "late"); err != nil {
		t.Errorf("Consume() of externally added token error = %v", err)
	}
}

func TestFileStore_AtomicWriteLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	s, path := newFileStore(t)

	for i := 0; i < 5; i++ {
		tok := &domain.Token{ID: "t" + string(rune('a'+i)), FilePath: "a.txt", ExpiresAt: time.Now().Add(time.Hour)}
		if err := s.Add(ctx, tok); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("leftover temp file %s", e.Name())
		}
	}
}

func TestFileStore_ConsumeFailsClosedOnWriteError(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("directory permissions are not enforced for root")
	}
	ctx := context.Background()
	s, path := newFileStore(t)

	if err := s.Add(ctx, &domain.Token{ID: "stuck", FilePath: "a.txt", ExpiresAt: time.Now().Add(time.Hour)}); err != nil {
		t.Fatal(err)
	}

	dir := filepath.Dir(path)
	if err := os.Chmod(dir, 0500); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(dir, 0700) })

	tok, err := s.Consume(ctx, "stuck")
	if err == nil {
		t.Fatalf("Consume() = %+v, want storage error", tok)
	}
	if !domain.IsDomainError(err, domain.ErrStorageError.Code) {
		t.Errorf("Consume() error = %v, want ErrStorageError", err)
	}
}

func TestFileStore_Metrics(t *testing.T) {
	ctx := context.Background()
	reg := metric.NewRegistry()
	s, err := NewFileStore(filepath.Join(t.TempDir(), "tokens.json"), discardLogger(), reg)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	_ = s.Add(ctx, &domain.Token{ID: "m", FilePath: "a.txt", ExpiresAt: time.Now().Add(time.Hour)})
	_, _ = s.Consume(ctx, "m")
	_, _ = s.Consume(ctx, "m")

	if got := testutil.ToFloat64(reg.StoreOperations.WithLabelValues(opConsume, "ok")); got != 1 {
		t.Errorf("consume ok = %v, want 1", got)
	}
	if got := testutil.ToFloat64(reg.StoreOperations.WithLabelValues(opConsume, "not_found")); got != 1 {
		t.Errorf("consume not_found = %v, want 1", got)
	}
	if got := testutil.ToFloat64(reg.StoreOperations.WithLabelValues(opAdd, "ok")); got != 1 {
		t.Errorf("add ok = %v, want 1", got)
	}
}

func TestFileStore_CountSkipsLoad(t *testing.T) {
	ctx := context.Background()
	reg := metric.NewRegistry()
	path := filepath.Join(t.TempDir(), "tokens.json")
	doc := `{"a": {"path": "a.txt", "expiry": 1900000000}, "b": {"path": "b.txt", "expiry": 1900000000}}`
	if err := os.WriteFile(path, []byte(doc), 0600); err != nil {
		t.Fatal(err)
	}
	s, err := NewFileStore(path, discardLogger(), reg)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if n, err := Count(ctx, s); err != nil || n != 2 {
		t.Fatalf("Count() = %d, %v, want 2", n, err)
	}
	if err := s.Add(ctx, &domain.Token{ID: "c", FilePath: "c.txt", ExpiresAt: time.Now().Add(time.Hour)}); err != nil {
		t.Fatal(err)
	}
	if n, _ := Count(ctx, s); n != 3 {
		t.Errorf("Count() after Add = %d, want 3", n)
	}
	if _, err := s.Consume(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if n, _ := Count(ctx, s); n != 2 {
		t.Errorf("Count() after Consume = %d, want 2", n)
	}

	if got := testutil.ToFloat64(reg.StoreOperations.WithLabelValues(opLoad, "ok")); got != 0 {
		t.Errorf("load ok = %v, want 0", got)
	}
}

func TestNewFileStore_RequiresPath(t *testing.T) {
	if _, err := NewFileStore("", discardLogger(), nil); err == nil {
		t.Error("NewFileStore(\"\") expected error")
	}
}
