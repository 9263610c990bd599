package amadeus

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/avetluv/flightbook/config"
	"github.com/avetluv/flightbook/internal/metrics"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// RateLimitedError is returned when the upstream answers 429. RetryAfter
// is zero when the Retry-After header was absent or unparsable; callers
// pick their own fallback delay in that case.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return "amadeus: rate limited"
}

// Client talks to the Amadeus self-service API. It owns the process-wide
// access token and airline-name caches, so a single instance is expected
// to be shared by all request handlers.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	currency     string
	httpc        *http.Client
	limiter      *rate.Limiter

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
	refresh     singleflight.Group

	namesMu sync.RWMutex
	names   map[string]string

	// wait is swapped out in tests to avoid real sleeps.
	wait func(ctx context.Context, d time.Duration) error
}

func NewClient(cfg config.AmadeusConfig, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = http.DefaultClient
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 10
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 20
	}
	currency := cfg.Currency
	if currency == "" {
		currency = "INR"
	}
	return &Client{
		baseURL:      cfg.BaseURL,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		currency:     currency,
		httpc:        httpc,
		limiter:      rate.NewLimiter(rate.Limit(rps), burst),
		names:        make(map[string]string),
		wait:         sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// retryAfter reads the Retry-After header in seconds. Zero means absent
// or unparsable, matching the header's falsy treatment upstream of us.
func retryAfter(h http.Header) time.Duration {
	secs, err := strconv.Atoi(h.Get("Retry-After"))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// getJSON performs an authorized GET against the API and decodes the
// response body into out. 429 responses come back as *RateLimitedError.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	token, err := c.Token(ctx)
	if err != nil {
		return err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	metrics.UpstreamRequests.WithLabelValues(path).Inc()
	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("amadeus request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		metrics.UpstreamRateLimited.Inc()
		return &RateLimitedError{RetryAfter: retryAfter(resp.Header)}
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("amadeus %s returned status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("amadeus decode %s: %w", path, err)
	}
	return nil
}
