package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Deelite34/link-shortener/internal/database"
	"github.com/Deelite34/link-shortener/internal/models"
)

var (
	// ErrInvalidURL is returned when the destination URL is empty, too long
	// or contains characters outside the allowed set.
	ErrInvalidURL = errors.New("invalid destination url")
	// ErrClientBanned is returned when a banned client attempts to shorten a link.
	ErrClientBanned = errors.New("client is banned from shortening links")
	// ErrQuotaExceeded is returned when a client already owns the maximum
	// number of live links.
	ErrQuotaExceeded = errors.New("link limit reached")
	// ErrNotOwner is returned when a client attempts to revoke a link owned
	// by a different address.
	ErrNotOwner = errors.New("link is owned by another client")
	// ErrSlugSpaceExhausted is returned when the maximum number of attempts
	// at generating a unique slug is exceeded.
	ErrSlugSpaceExhausted = errors.New("maximum retries exceeded for generating unique slug")
)

const (
	defaultSlugLength = 10
	defaultLinkLimit  = 5
	defaultCacheTTL   = time.Hour

	// maxSlugAttempts caps the issuance retry loop; a collision on every
	// attempt is reported as ErrSlugSpaceExhausted instead of looping on.
	maxSlugAttempts = 10
)

// ClientRepository defines how the service resolves requester addresses to
// client records.
type ClientRepository interface {
	// FindOrCreate returns the client for the address, creating the record
	// atomically when the address has not been seen before.
	FindOrCreate(ctx context.Context, address string) (*models.Client, error)
}

// LinkRepository defines the interface for working with links at the
// business logic layer. Create and Delete also adjust the owner's live link
// count atomically with the row change.
type LinkRepository interface {
	Create(ctx context.Context, clientID int64, slug, destination string) (*models.Link, error)
	GetBySlug(ctx context.Context, slug string) (*models.Link, error)
	GetByAddressAndSlug(ctx context.Context, address, slug string) (*models.Link, error)
	ListByAddress(ctx context.Context, address string) ([]*models.Link, error)
	Delete(ctx context.Context, id int64) error
}

// ResolutionCache is an optional lookaside for the redirect path. Any Get
// error is treated as a miss; Set and Delete failures are ignored since the
// store stays authoritative.
type ResolutionCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// LinkService implements link issuance, resolution, revocation and listing
// on top of the client and link repositories.
type LinkService struct {
	clients    ClientRepository
	links      LinkRepository
	cache      ResolutionCache
	cacheTTL   time.Duration
	slugLength int
	linkLimit  int64
}

type Option func(*LinkService)

func WithSlugLength(n int) Option {
	return func(s *LinkService) {
		s.slugLength = n
	}
}

func WithLinkLimit(n int64) Option {
	return func(s *LinkService) {
		s.linkLimit = n
	}
}

func WithCache(c ResolutionCache, ttl time.Duration) Option {
	return func(s *LinkService) {
		s.cache = c
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// NewLinkService creates a LinkService with the provided repositories.
// Defaults: 10-character slugs, 5 live links per client, no cache.
func NewLinkService(clients ClientRepository, links LinkRepository, opts ...Option) *LinkService {
	s := &LinkService{
		clients:    clients,
		links:      links,
		cacheTTL:   defaultCacheTTL,
		slugLength: defaultSlugLength,
		linkLimit:  defaultLinkLimit,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Issue validates the destination, resolves the requester to a client record
// and mints a new uniquely-slugged link for it. The client's live link count
// is incremented by the same transaction that persists the link.
func (s *LinkService) Issue(ctx context.Context, destination, address string) (*models.Link, error) {
	const op = "service.LinkService.Issue"

	if !models.ValidDestination(destination) {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidURL)
	}

	client, err := s.clients.FindOrCreate(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to resolve client: %w", op, err)
	}

	if client.IsBanned {
		return nil, fmt.Errorf("%s: %w", op, ErrClientBanned)
	}
	if client.URLsCount >= s.linkLimit {
		return nil, fmt.Errorf("%s: %w", op, ErrQuotaExceeded)
	}

	for i := 0; i < maxSlugAttempts; i++ {
		slug, err := newSlug(s.slugLength)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to generate slug: %w", op, err)
		}

		link, err := s.links.Create(ctx, client.ID, slug, destination)
		if err != nil {
			if errors.Is(err, database.ErrSlugExists) {
				continue
			}

			return nil, fmt.Errorf("%s: failed to issue link: %w", op, err)
		}

		link.OwnerAddress = client.Address

		return link, nil
	}

	return nil, fmt.Errorf("%s: %w", op, ErrSlugSpaceExhausted)
}

// Resolve returns the redirect target for a slug. Any caller may resolve any
// slug; ownership is not checked on redirects.
func (s *LinkService) Resolve(ctx context.Context, slug string) (string, error) {
	const op = "service.LinkService.Resolve"

	if s.cache != nil {
		if destination, err := s.cache.Get(ctx, slug); err == nil {
			return models.NormalizeDestination(destination), nil
		}
	}

	link, err := s.links.GetBySlug(ctx, slug)
	if err != nil {
		return "", fmt.Errorf("%s: failed to resolve slug: %w", op, err)
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, slug, link.URLInput, s.cacheTTL)
	}

	return link.RedirectURL(), nil
}

// Revoke deletes the link behind slug on behalf of its owner, decrementing
// the owner's live link count atomically with the delete.
func (s *LinkService) Revoke(ctx context.Context, slug, address string) error {
	const op = "service.LinkService.Revoke"

	link, err := s.links.GetBySlug(ctx, slug)
	if err != nil {
		return fmt.Errorf("%s: failed to look up slug: %w", op, err)
	}

	if link.OwnerAddress != address {
		return fmt.Errorf("%s: %w", op, ErrNotOwner)
	}

	if err := s.links.Delete(ctx, link.ID); err != nil {
		return fmt.Errorf("%s: failed to revoke link: %w", op, err)
	}

	if s.cache != nil {
		_ = s.cache.Delete(ctx, slug)
	}

	return nil
}

// ListFor returns all links owned by the client with the given address.
func (s *LinkService) ListFor(ctx context.Context, address string) ([]*models.Link, error) {
	const op = "service.LinkService.ListFor"

	links, err := s.links.ListByAddress(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list links: %w", op, err)
	}

	return links, nil
}

// GetFor returns the link behind slug when it is owned by the client with
// the given address. Foreign and unknown slugs are both reported as not
// found, so listing endpoints don't leak other clients' slugs.
func (s *LinkService) GetFor(ctx context.Context, slug, address string) (*models.Link, error) {
	const op = "service.LinkService.GetFor"

	link, err := s.links.GetByAddressAndSlug(ctx, address, slug)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get link: %w", op, err)
	}

	return link, nil
}
