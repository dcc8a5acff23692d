package feed

import (
	"context"
	"os"
	"time"

	"tourcatalog/internal/adapters/observability"
	"tourcatalog/internal/domain"
)

// File loads the feed from a local tours.json.
type File struct{ Path string }

func NewFile(path string) *File { return &File{Path: path} }

func (f *File) Name() string { return "file" }

func (f *File) Load(ctx context.Context) ([]map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, &domain.FetchError{Source: f.Path, Err: err}
	}
	start := time.Now()
	b, err := os.ReadFile(f.Path)
	if err != nil {
		observability.ObserveFeed(f.Name(), 0, time.Since(start))
		return nil, &domain.FetchError{Source: f.Path, Err: err}
	}
	observability.ObserveFeed(f.Name(), 200, time.Since(start))
	recs, err := Decode(b)
	if err != nil {
		return nil, &domain.FetchError{Source: f.Path, Err: err}
	}
	return recs, nil
}
