package amadeus

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testUpstream serves the token endpoint plus a configurable airline
// endpoint, recording the airlineCodes parameter of every lookup.
func testUpstream(airlines http.HandlerFunc) (*httptest.Server, *[]string) {
	var lookups []string
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/security/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"access_token":"tok","expires_in":1799}`)
	})
	mux.HandleFunc("/v1/reference-data/airlines", func(w http.ResponseWriter, r *http.Request) {
		lookups = append(lookups, r.URL.Query().Get("airlineCodes"))
		airlines(w, r)
	})
	return httptest.NewServer(mux), &lookups
}

func TestAirlineNames_BatchesOnlyUncachedCodes(t *testing.T) {
	srv, lookups := testUpstream(func(w http.ResponseWriter, r *http.Request) {
		var entries []string
		for _, code := range strings.Split(r.URL.Query().Get("airlineCodes"), ",") {
			entries = append(entries, fmt.Sprintf(`{"iataCode":%q,"commonName":"%s Air"}`, code, code))
		}
		fmt.Fprintf(w, `{"data":[%s]}`, strings.Join(entries, ","))
	})
	defer srv.Close()

	client := newTestClient(srv.URL)
	ctx := context.Background()

	names := client.AirlineNames(ctx, []string{"AI", "6E"})
	assert.Equal(t, map[string]string{"AI": "AI Air", "6E": "6E Air"}, names)

	names = client.AirlineNames(ctx, []string{"AI", "6E", "UK"})
	assert.Equal(t, "UK Air", names["UK"])
	assert.Equal(t, "AI Air", names["AI"])

	require.Len(t, *lookups, 2)
	assert.Equal(t, "AI,6E", (*lookups)[0])
	assert.Equal(t, "UK", (*lookups)[1])
}

func TestAirlineNames_AllCachedSkipsUpstream(t *testing.T) {
	srv, lookups := testUpstream(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[{"iataCode":"AI","commonName":"Air India"}]}`)
	})
	defer srv.Close()

	client := newTestClient(srv.URL)
	ctx := context.Background()

	client.AirlineNames(ctx, []string{"AI"})
	client.AirlineNames(ctx, []string{"AI"})

	assert.Len(t, *lookups, 1)
}

func TestAirlineNames_BusinessNameFallback(t *testing.T) {
	srv, _ := testUpstream(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[{"iataCode":"AI","businessName":"AIR INDIA LTD"}]}`)
	})
	defer srv.Close()

	client := newTestClient(srv.URL)
	names := client.AirlineNames(context.Background(), []string{"AI"})
	assert.Equal(t, "AIR INDIA LTD", names["AI"])
}

func TestAirlineNames_RateLimitRetriesThenFallsBack(t *testing.T) {
	var attempts int
	srv, lookups := testUpstream(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusTooManyRequests)
	})
	defer srv.Close()

	client := newTestClient(srv.URL)
	var waits []time.Duration
	client.wait = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}

	names := client.AirlineNames(context.Background(), []string{"AI", "6E"})

	// Three attempts total, then the raw code stands in for the name.
	assert.Equal(t, 3, attempts)
	assert.Len(t, *lookups, 3)
	assert.Equal(t, map[string]string{"AI": "AI", "6E": "6E"}, names)
	// Retry-After absent: fallback delay is the attempt number in seconds.
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, waits)
}

func TestAirlineNames_OtherFailureFallsBackImmediately(t *testing.T) {
	var attempts int
	srv, _ := testUpstream(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadGateway)
	})
	defer srv.Close()

	client := newTestClient(srv.URL)
	names := client.AirlineNames(context.Background(), []string{"QF"})

	assert.Equal(t, 1, attempts)
	assert.Equal(t, "QF", names["QF"])
}

func TestAirlineNames_PartialUpstreamResponse(t *testing.T) {
	srv, _ := testUpstream(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[{"iataCode":"AI","commonName":"Air India"}]}`)
	})
	defer srv.Close()

	client := newTestClient(srv.URL)
	names := client.AirlineNames(context.Background(), []string{"AI", "ZZ"})

	assert.Equal(t, "Air India", names["AI"])
	assert.Equal(t, "ZZ", names["ZZ"])
}
