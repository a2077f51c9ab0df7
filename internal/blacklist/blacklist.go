// Package blacklist keeps the set of companies the user never wants to see.
package blacklist

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/pathforge-labs/pathforge/internal/textnorm"
)

const DefaultKey = "pathforge:blacklist:companies"

var ErrEmptyCompany = errors.New("company name is empty after normalization")

// Client owns its Redis connection. Close it when done.
type Client struct {
	rdb *redis.Client
	key string
}

// New parses redisURL and verifies connectivity.
func New(ctx context.Context, redisURL string) (*Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return NewWithClient(rdb, DefaultKey), nil
}

// NewWithClient wraps an existing connection. An empty key selects DefaultKey.
func NewWithClient(rdb *redis.Client, key string) *Client {
	if key == "" {
		key = DefaultKey
	}
	return &Client{rdb: rdb, key: key}
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

// Key normalizes a company name the same way listings are fingerprinted, so
// "ACME GmbH" and "acme gmbh" share one entry.
func Key(company string) (string, error) {
	k := textnorm.Normalize(company)
	if k == "" {
		return "", ErrEmptyCompany
	}
	return k, nil
}

// Add reports whether the company was newly added.
func (c *Client) Add(ctx context.Context, company string) (bool, error) {
	k, err := Key(company)
	if err != nil {
		return false, err
	}
	n, err := c.rdb.SAdd(ctx, c.key, k).Result()
	if err != nil {
		return false, fmt.Errorf("add %q to blacklist: %w", k, err)
	}
	return n == 1, nil
}

// Remove reports whether the company was present.
func (c *Client) Remove(ctx context.Context, company string) (bool, error) {
	k, err := Key(company)
	if err != nil {
		return false, err
	}
	n, err := c.rdb.SRem(ctx, c.key, k).Result()
	if err != nil {
		return false, fmt.Errorf("remove %q from blacklist: %w", k, err)
	}
	return n == 1, nil
}

func (c *Client) Contains(ctx context.Context, company string) (bool, error) {
	k, err := Key(company)
	if err != nil {
		return false, nil
	}
	ok, err := c.rdb.SIsMember(ctx, c.key, k).Result()
	if err != nil {
		return false, fmt.Errorf("check blacklist for %q: %w", k, err)
	}
	return ok, nil
}

// List returns the normalized entries in sorted order.
func (c *Client) List(ctx context.Context) ([]string, error) {
	members, err := c.rdb.SMembers(ctx, c.key).Result()
	if err != nil {
		return nil, fmt.Errorf("list blacklist: %w", err)
	}
	sort.Strings(members)
	return members, nil
}
