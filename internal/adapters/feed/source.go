package feed

import (
	"context"
	"fmt"

	"tourcatalog/internal/domain"
	"tourcatalog/internal/shared"
	mysqlsrc "tourcatalog/internal/storage/mysql"
)

// FromConfig builds the FeedSource named by cfg.FeedSource. The returned
// closer releases whatever the source holds open.
func FromConfig(ctx context.Context, cfg shared.Config) (domain.FeedSource, func() error, error) {
	noop := func() error { return nil }
	switch cfg.FeedSource {
	case "http":
		c, err := New(cfg.FeedURL, Options{RPS: cfg.FeedRPS, Retries: cfg.FeedRetries, Timeout: cfg.FeedTimeout()})
		if err != nil {
			return nil, nil, err
		}
		return c, noop, nil
	case "file":
		return NewFile(cfg.FeedPath), noop, nil
	case "mysql":
		db, err := mysqlsrc.Open(ctx, cfg.MySQLDSN)
		if err != nil {
			return nil, nil, err
		}
		return mysqlsrc.New(db), db.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown feed source %q", cfg.FeedSource)
	}
}
