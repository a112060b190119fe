package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"haneul/internal/domain/catalog"
	"haneul/internal/shared/logger"
)

const (
	catalogKey = "catalog:types"
)

type cachedCatalogType struct {
	ID              uint      `json:"id"`
	Name            string    `json:"name"`
	Family          string    `json:"family"`
	DeductionWeight int       `json:"deduction_weight"`
	CreatedAt       time.Time `json:"created_at"`
}

// CatalogCache serves catalog types through Redis with the repository as the
// source of truth. The catalog is small and changes rarely; one key holds the
// whole set. A nil client means caching is disabled and every call falls
// through to the repository.
type CatalogCache struct {
	client *redis.Client
	repo   catalog.Repository
	ttl    time.Duration
	logger logger.Interface
}

// NewCatalogCache creates a catalog cache over the given repository
func NewCatalogCache(client *redis.Client, repo catalog.Repository, ttl time.Duration, logger logger.Interface) *CatalogCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CatalogCache{
		client: client,
		repo:   repo,
		ttl:    ttl,
		logger: logger,
	}
}

// GetTypes returns the catalog, from Redis when warm. Cache failures degrade
// to a repository read rather than failing the request.
func (c *CatalogCache) GetTypes(ctx context.Context) ([]*catalog.Type, error) {
	if c.client == nil {
		return c.repo.ListAll(ctx)
	}

	raw, err := c.client.Get(ctx, catalogKey).Bytes()
	if err == nil {
		if types, decodeErr := decodeCatalog(raw); decodeErr == nil {
			return types, nil
		}
		// stale or corrupt payload; fall through and rewrite it
	} else if err != redis.Nil {
		c.logger.Warnw("catalog cache read failed", "error", err)
	}

	types, err := c.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	if raw, encodeErr := encodeCatalog(types); encodeErr == nil {
		if setErr := c.client.Set(ctx, catalogKey, raw, c.ttl).Err(); setErr != nil {
			c.logger.Warnw("catalog cache write failed", "error", setErr)
		}
	}

	return types, nil
}

// Invalidate drops the cached catalog so the next read reloads it
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	if err := c.client.Del(ctx, catalogKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate catalog cache: %w", err)
	}
	return nil
}

func encodeCatalog(types []*catalog.Type) ([]byte, error) {
	rows := make([]cachedCatalogType, 0, len(types))
	for _, t := range types {
		rows = append(rows, cachedCatalogType{
			ID:              t.ID(),
			Name:            t.Name(),
			Family:          t.Family().String(),
			DeductionWeight: t.DeductionWeight(),
			CreatedAt:       t.CreatedAt(),
		})
	}
	return json.Marshal(rows)
}

func decodeCatalog(raw []byte) ([]*catalog.Type, error) {
	var rows []cachedCatalogType
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, err
	}

	types := make([]*catalog.Type, 0, len(rows))
	for _, row := range rows {
		t, err := catalog.ReconstructType(row.ID, row.Name, catalog.Family(row.Family), row.DeductionWeight, row.CreatedAt)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, nil
}
