// Package cache provides a small read-through cache used by the catalog.
// The Redis implementation is optional; when no Redis address is configured
// the services run with the in-memory implementation or none at all.
package cache

import (
	"context"
	"time"
)

type Cache interface {
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	// Get returns "" (and no error) on a miss.
	Get(ctx context.Context, key string) (string, error)
	GenerateKey(operation, key string) string
}
