package cache

import (
	"context"
	"time"

	"github.com/hihello1226/our-ledger/internal/core/domain"
	"github.com/hihello1226/our-ledger/internal/core/ports"
)

// UploadCache keeps parsed uploads between the preview and confirm steps of an import.
type UploadCache struct {
	lru *LRUCache[domain.UploadedTable]
}

var _ ports.UploadCache = (*UploadCache)(nil)

// NewUploadCache creates an upload cache holding at most size uploads for ttl each.
func NewUploadCache(size int, ttl time.Duration) *UploadCache {
	return &UploadCache{lru: NewLRUCache[domain.UploadedTable](size, ttl)}
}

func (c *UploadCache) Put(_ context.Context, table domain.UploadedTable) error {
	c.lru.Set(table.Key, table)
	return nil
}

func (c *UploadCache) Get(_ context.Context, key string) (domain.UploadedTable, bool, error) {
	t, ok := c.lru.Get(key)
	return t, ok, nil
}

func (c *UploadCache) Delete(_ context.Context, key string) error {
	c.lru.Delete(key)
	return nil
}

// CleanExpired lets a Manager sweep the cache.
func (c *UploadCache) CleanExpired() int {
	return c.lru.CleanExpired()
}
