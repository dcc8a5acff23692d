package feed

import (
	"context"
	crand "crypto/rand"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"tourcatalog/internal/adapters/observability"
	"tourcatalog/internal/domain"
)

// maxBody caps how much of a feed response is read.
const maxBody = 32 << 20

type Options struct {
	RPS     int           // client-side rate limit, default 5
	Retries int           // extra attempts on 429/5xx/network errors, default 0
	Timeout time.Duration // per request, default 20s
}

// Client loads the feed over HTTP.
type Client struct {
	url     string
	hc      *http.Client
	rl      *rate.Limiter
	retries int
}

func New(url string, o Options) (*Client, error) {
	if url == "" {
		return nil, fmt.Errorf("feed URL is required")
	}
	if o.RPS <= 0 {
		o.RPS = 5
	}
	if o.Timeout <= 0 {
		o.Timeout = 20 * time.Second
	}
	if o.Retries < 0 {
		o.Retries = 0
	}
	return &Client{
		url:     url,
		hc:      &http.Client{Timeout: o.Timeout},
		rl:      rate.NewLimiter(rate.Limit(o.RPS), o.RPS),
		retries: o.Retries,
	}, nil
}

func (c *Client) Name() string { return "http" }

// Load fetches and decodes the feed. Any failure is a *domain.FetchError.
func (c *Client) Load(ctx context.Context) ([]map[string]any, error) {
	body, status, err := c.get(ctx)
	if err != nil {
		return nil, &domain.FetchError{Source: c.url, Status: status, Err: err}
	}
	recs, err := Decode(body)
	if err != nil {
		return nil, &domain.FetchError{Source: c.url, Status: status, Err: err}
	}
	return recs, nil
}

// get performs a GET with client-side rate limiting and, when retries are
// enabled, retries on 429 and transient 5xx honoring Retry-After.
func (c *Client) get(ctx context.Context) ([]byte, int, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return nil, 0, err
	}

	var (
		lastErr    error
		lastStatus int
	)
	for i := 0; i <= c.retries; i++ {
		last := i == c.retries

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
		if err != nil {
			return nil, 0, err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "tourcatalog/1.0")

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveFeed(c.Name(), 0, time.Since(start))
			if ctx.Err() != nil {
				return nil, 0, ctx.Err()
			}
			lastErr, lastStatus = err, 0
			if !last && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return nil, 0, ctx.Err()
			}
			return nil, 0, lastErr
		}
		observability.ObserveFeed(c.Name(), resp.StatusCode, time.Since(start))

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			b, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
			resp.Body.Close()
			return b, resp.StatusCode, err

		case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode >= 500:
			wait := retryAfter(resp)
			io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr, lastStatus = fmt.Errorf("remote %d", resp.StatusCode), resp.StatusCode
			if !last && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return nil, lastStatus, ctx.Err()
			}
			return nil, lastStatus, lastErr

		default:
			// read a small error body for diagnostics
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return nil, resp.StatusCode, fmt.Errorf("bad status: %s", strings.TrimSpace(string(b)))
		}
	}
	return nil, lastStatus, lastErr
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff doubles from 200ms per attempt with up to +50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}
