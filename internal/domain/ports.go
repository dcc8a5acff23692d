package domain

import "context"

// FeedSource yields the raw feed as a list of flat JSON objects, in feed order.
type FeedSource interface {
	Name() string
	Load(ctx context.Context) ([]map[string]any, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
