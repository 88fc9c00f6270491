package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/yndnr/linkdrop-go/internal/core/domain"
	"github.com/yndnr/linkdrop-go/pkg/token"
)

// DefaultTTL is the validity window of a newly issued link.
const DefaultTTL = 24 * time.Hour

// TokenRepository is the storage capability link management needs.
type TokenRepository interface {
	Load(ctx context.Context) (map[string]*domain.Token, error)
	Add(ctx context.Context, tok *domain.Token) error
	Delete(ctx context.Context, id string) error
}

// IssueRequest contains parameters for issuing a link.
type IssueRequest struct {
	Path string        // Required
	TTL  time.Duration // Optional, defaults to DefaultTTL
	ID   string        // Optional, generated when empty
}

// LinkService issues and manages download links.
type LinkService struct {
	repo   TokenRepository
	logger *slog.Logger

	// Now returns the current time. Tests override it.
	Now func() time.Time
	// Generate produces new link ids.
	Generate func() (string, error)
}

// NewLinkService creates a LinkService.
func NewLinkService(repo TokenRepository, logger *slog.Logger) *LinkService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LinkService{
		repo:     repo,
		logger:   logger.With("component", "links"),
		Now:      time.Now,
		Generate: token.Generate,
	}
}

// Issue creates and stores a new link.
func (s *LinkService) Issue(ctx context.Context, req IssueRequest) (*domain.Token, error) {
	if req.Path == "" {
		return nil, domain.ErrInvalidArgument.WithDetails("path is required")
	}
	ttl := req.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}
	if ttl < 0 {
		return nil, domain.ErrInvalidArgument.WithDetails("ttl must be positive")
	}

	id := req.ID
	if id == "" {
		var err error
		if id, err = s.Generate(); err != nil {
			return nil, domain.ErrInternalServer.WithCause(err)
		}
	}

	tok, err := domain.NewToken(id, req.Path, ttl, s.Now())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Add(ctx, tok); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "link issued",
		"link", token.Fingerprint(id),
		"path", req.Path,
		"expires_at", tok.ExpiresAt)
	return tok, nil
}

// List returns all stored links ordered by expiry, soonest first.
func (s *LinkService) List(ctx context.Context) ([]*domain.Token, error) {
	tokens, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Token, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, tok)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ExpiresAt.Equal(out[j].ExpiresAt) {
			return out[i].ExpiresAt.Before(out[j].ExpiresAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Revoke invalidates a link. It reports domain.ErrTokenNotFound for an
// unknown id so operators notice typos; the store itself stays idempotent.
func (s *LinkService) Revoke(ctx context.Context, id string) error {
	tokens, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}
	if _, ok := tokens[id]; !ok {
		return domain.ErrTokenNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "link revoked", "link", token.Fingerprint(id))
	return nil
}

// Purge deletes every expired link and returns how many were removed.
func (s *LinkService) Purge(ctx context.Context) (int, error) {
	tokens, err := s.repo.Load(ctx)
	if err != nil {
		return 0, err
	}

	now := s.Now()
	removed := 0
	var errs []error
	for id, tok := range tokens {
		if !tok.IsExpired(now) {
			continue
		}
		if err := s.repo.Delete(ctx, id); err != nil {
			errs = append(errs, err)
			continue
		}
		removed++
	}

	s.logger.InfoContext(ctx, "expired links purged", "count", removed)
	return removed, errors.Join(errs...)
}
