package service

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"syscall"
	"time"

	"github.com/yndnr/linkdrop-go/internal/core/domain"
	"github.com/yndnr/linkdrop-go/internal/telemetry/metric"
	"github.com/yndnr/linkdrop-go/pkg/token"
)

// TokenConsumer is the storage capability the download path needs.
type TokenConsumer interface {
	// Consume atomically removes and returns the token, or returns
	// domain.ErrTokenNotFound.
	Consume(ctx context.Context, id string) (*domain.Token, error)
}

// Download is an opened, ready-to-stream file. The caller must Close it.
type Download struct {
	File    *os.File
	Name    string // suggested client file name
	Size    int64
	ModTime time.Time
	Token   *domain.Token
}

// Close closes the underlying file.
func (d *Download) Close() error {
	if d == nil || d.File == nil {
		return nil
	}
	return d.File.Close()
}

// DownloadService redeems download links.
type DownloadService struct {
	store   TokenConsumer
	metrics *metric.Registry
	logger  *slog.Logger

	// Now returns the current time. Tests override it.
	Now func() time.Time
}

// NewDownloadService creates a DownloadService. metrics and logger may be nil.
func NewDownloadService(store TokenConsumer, metrics *metric.Registry, logger *slog.Logger) *DownloadService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DownloadService{
		store:   store,
		metrics: metrics,
		logger:  logger.With("component", "download"),
		Now:     time.Now,
	}
}

// Open consumes the link id and opens its file.
//
// The token is consumed before any other check, so whatever the outcome a
// second Open of the same id returns domain.ErrInvalidToken. Errors are
// always one of ErrInvalidToken, ErrLinkExpired, ErrFileMissing or
// ErrServeFailure, the latter wrapping the cause.
func (s *DownloadService) Open(ctx context.Context, id string) (*Download, error) {
	fp := token.Fingerprint(id)

	// Stored ids are opaque: anything the store holds must be consumable,
	// whatever issued it.
	if id == "" {
		s.metrics.RecordDownload(metric.ResultInvalid)
		return nil, domain.ErrInvalidToken
	}

	tok, err := s.store.Consume(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrTokenNotFound) {
			s.metrics.RecordDownload(metric.ResultInvalid)
			s.logger.InfoContext(ctx, "unknown download link", "link", fp)
			return nil, domain.ErrInvalidToken
		}
		s.metrics.RecordDownload(metric.ResultFailed)
		s.logger.ErrorContext(ctx, "consume failed", "link", fp, "error", err)
		return nil, domain.ErrServeFailure.WithCause(err)
	}

	if tok.IsExpired(s.Now()) {
		s.metrics.RecordDownload(metric.ResultExpired)
		s.logger.InfoContext(ctx, "expired download link",
			"link", fp,
			"expired_at", tok.ExpiresAt)
		return nil, domain.ErrLinkExpired
	}

	f, err := os.Open(tok.FilePath)
	if err != nil {
		if isMissing(err) {
			s.metrics.RecordDownload(metric.ResultFileMissing)
			s.logger.WarnContext(ctx, "link target missing", "link", fp, "path", tok.FilePath)
			return nil, domain.ErrFileMissing
		}
		return nil, s.serveFailure(ctx, fp, tok, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, s.serveFailure(ctx, fp, tok, err)
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, s.serveFailure(ctx, fp, tok, errors.New("not a regular file"))
	}

	s.logger.InfoContext(ctx, "download link redeemed",
		"link", fp,
		"path", tok.FilePath,
		"size", info.Size())

	return &Download{
		File:    f,
		Name:    tok.FileName(),
		Size:    info.Size(),
		ModTime: info.ModTime(),
		Token:   tok,
	}, nil
}

// RecordServed records the outcome of streaming an opened download.
func (s *DownloadService) RecordServed(n int64, err error) {
	s.metrics.AddDownloadBytes(n)
	if err != nil {
		s.metrics.RecordDownload(metric.ResultFailed)
		return
	}
	s.metrics.RecordDownload(metric.ResultServed)
}

func (s *DownloadService) serveFailure(ctx context.Context, fp string, tok *domain.Token, cause error) error {
	s.metrics.RecordDownload(metric.ResultFailed)
	s.logger.ErrorContext(ctx, "cannot open link target",
		"link", fp,
		"path", tok.FilePath,
		"error", cause)
	return domain.ErrServeFailure.WithCause(cause)
}

// isMissing reports whether err means the path does not exist. A path
// through a regular file (ENOTDIR) does not exist either.
func isMissing(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}
