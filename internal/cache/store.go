// Package cache хранит рассчитанные рейтинги популярности.
// Значения сериализуются в JSON, поэтому память и Redis ведут себя одинаково.
package cache

import (
	"context"
	"time"
)

// Store кэш с TTL и удалением по префиксу ключа.
type Store interface {
	// Get читает значение в dest. false, если ключа нет или срок истёк.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
}
