package app_test

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
)

type fakeSource struct {
	name  string
	recs  []map[string]any
	err   error
	calls int32
	gate  chan struct{} // when set, Load blocks until it is closed
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Load(ctx context.Context) ([]map[string]any, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.recs, f.err
}

type fakeCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets   int
	dels   int
	setErr error // returned by every Set when non-nil
}

func newFakeCache() *fakeCache { return &fakeCache{data: map[string][]byte{}} }

func (c *fakeCache) Get(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(_ context.Context, key string, v any, _ int) error {
	if c.setErr != nil {
		return c.setErr
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.data[key] = b
	c.sets++
	c.mu.Unlock()
	return nil
}

func (c *fakeCache) Del(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.data, key)
	c.dels++
	c.mu.Unlock()
	return nil
}
