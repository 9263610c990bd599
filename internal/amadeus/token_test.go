package amadeus

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/avetluv/flightbook/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *Client {
	c := NewClient(config.AmadeusConfig{
		BaseURL:      baseURL,
		ClientID:     "key",
		ClientSecret: "secret",
	}, nil)
	c.wait = func(ctx context.Context, d time.Duration) error { return nil }
	return c
}

func tokenHandler(requests *int32, expiresIn int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(requests, 1)
		fmt.Fprintf(w, `{"access_token":"tok-%d","expires_in":%d}`, atomic.LoadInt32(requests), expiresIn)
	}
}

func TestToken_CachedWhileValid(t *testing.T) {
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/security/oauth2/token", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "key", user)
		assert.Equal(t, "secret", pass)
		tokenHandler(&requests, 1799)(w, r)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	ctx := context.Background()

	first, err := client.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", first)

	// Still inside the buffer window: no new upstream request.
	second, err := client.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&requests))
}

func TestToken_ExpiredWithinBufferTriggersRefresh(t *testing.T) {
	var requests int32
	srv := httptest.NewServer(tokenHandler(&requests, 1799))
	defer srv.Close()

	client := newTestClient(srv.URL)
	ctx := context.Background()

	_, err := client.Token(ctx)
	require.NoError(t, err)

	// Force the cached token inside the 30s buffer window.
	client.mu.Lock()
	client.tokenExpiry = time.Now().Add(10 * time.Second)
	client.mu.Unlock()

	tok, err := client.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-2", tok)
	assert.Equal(t, int32(2), atomic.LoadInt32(&requests))
}

func TestToken_ConcurrentCallersShareOneRefresh(t *testing.T) {
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		tokenHandler(&requests, 1799)(w, r)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	ctx := context.Background()

	const callers = 10
	var wg sync.WaitGroup
	start := make(chan struct{})
	tokens := make([]string, callers)
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			tokens[i], errs[i] = client.Token(ctx)
		}(i)
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&requests))
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "tok-1", tokens[i])
	}
}

func TestToken_RetriesOnRateLimit(t *testing.T) {
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&requests, 1)
		if n < 3 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"access_token":"tok-ok","expires_in":1799}`)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	var waits []time.Duration
	client.wait = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}

	tok, err := client.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-ok", tok)
	assert.Equal(t, int32(3), atomic.LoadInt32(&requests))
	assert.Equal(t, []time.Duration{time.Second, time.Second}, waits)
}

func TestToken_RateLimitDefaultsToOneSecond(t *testing.T) {
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&requests, 1) == 1 {
			// No Retry-After header at all.
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"access_token":"tok-ok","expires_in":1799}`)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	var waited time.Duration
	client.wait = func(ctx context.Context, d time.Duration) error {
		waited = d
		return nil
	}

	_, err := client.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, time.Second, waited)
}

func TestToken_NonRateLimitFailurePropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)

	_, err := client.Token(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}
