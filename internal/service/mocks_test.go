package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Deelite34/link-shortener/internal/models"
)

type MockClientRepository struct {
	mock.Mock
}

func (r *MockClientRepository) FindOrCreate(ctx context.Context, address string) (*models.Client, error) {
	args := r.Called(ctx, address)
	client, _ := args.Get(0).(*models.Client)
	return client, args.Error(1)
}

type MockLinkRepository struct {
	mock.Mock
}

func (r *MockLinkRepository) Create(ctx context.Context, clientID int64, slug, destination string) (*models.Link, error) {
	args := r.Called(ctx, clientID, slug, destination)
	link, _ := args.Get(0).(*models.Link)
	return link, args.Error(1)
}

func (r *MockLinkRepository) GetBySlug(ctx context.Context, slug string) (*models.Link, error) {
	args := r.Called(ctx, slug)
	link, _ := args.Get(0).(*models.Link)
	return link, args.Error(1)
}

func (r *MockLinkRepository) GetByAddressAndSlug(ctx context.Context, address, slug string) (*models.Link, error) {
	args := r.Called(ctx, address, slug)
	link, _ := args.Get(0).(*models.Link)
	return link, args.Error(1)
}

func (r *MockLinkRepository) ListByAddress(ctx context.Context, address string) ([]*models.Link, error) {
	args := r.Called(ctx, address)
	links, _ := args.Get(0).([]*models.Link)
	return links, args.Error(1)
}

func (r *MockLinkRepository) Delete(ctx context.Context, id int64) error {
	args := r.Called(ctx, id)
	return args.Error(0)
}

type MockResolutionCache struct {
	mock.Mock
}

func (c *MockResolutionCache) Get(ctx context.Context, key string) (string, error) {
	args := c.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (c *MockResolutionCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	args := c.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (c *MockResolutionCache) Delete(ctx context.Context, key string) error {
	args := c.Called(ctx, key)
	return args.Error(0)
}
