package amadeus

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const maxNameLookupAttempts = 3

type airlinesResponse struct {
	Data []struct {
		IATACode     string `json:"iataCode"`
		CommonName   string `json:"commonName"`
		BusinessName string `json:"businessName"`
	} `json:"data"`
}

// AirlineNames resolves carrier codes to display names. Resolved names
// are cached for the process lifetime; only uncached codes go upstream,
// in one batched call. The lookup never fails the caller: after three
// rate-limited attempts, or on any other error, unresolved codes map to
// themselves.
func (c *Client) AirlineNames(ctx context.Context, codes []string) map[string]string {
	result := make(map[string]string, len(codes))
	var uncached []string

	c.namesMu.RLock()
	for _, code := range codes {
		if name, ok := c.names[code]; ok {
			result[code] = name
		} else {
			uncached = append(uncached, code)
		}
	}
	c.namesMu.RUnlock()

	if len(uncached) == 0 {
		return result
	}

	query := url.Values{"airlineCodes": {strings.Join(uncached, ",")}}

	for attempt := 1; attempt <= maxNameLookupAttempts; attempt++ {
		var out airlinesResponse
		err := c.getJSON(ctx, "/v1/reference-data/airlines", query, &out)
		if err == nil {
			c.namesMu.Lock()
			for _, a := range out.Data {
				name := a.CommonName
				if name == "" {
					name = a.BusinessName
				}
				if name != "" {
					c.names[a.IATACode] = name
				}
			}
			c.namesMu.Unlock()
			break
		}

		var rl *RateLimitedError
		if errors.As(err, &rl) && attempt < maxNameLookupAttempts {
			wait := rl.RetryAfter
			if wait <= 0 {
				wait = time.Duration(attempt) * time.Second
			}
			logrus.Warnf("amadeus airline lookup rate limited, retrying in %s", wait)
			if werr := c.wait(ctx, wait); werr != nil {
				break
			}
			continue
		}

		logrus.Errorf("amadeus airline lookup failed: %v", err)
		break
	}

	c.namesMu.RLock()
	for _, code := range uncached {
		if name, ok := c.names[code]; ok {
			result[code] = name
		} else {
			result[code] = code
		}
	}
	c.namesMu.RUnlock()

	return result
}
