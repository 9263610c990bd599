package amadeus

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/avetluv/flightbook/internal/metrics"
	"github.com/sirupsen/logrus"
)

// Tokens are considered expired this long before their actual expiry so
// an in-flight request never crosses the boundary mid-call.
const tokenExpiryBuffer = 30 * time.Second

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// Token returns the cached access token while it is still valid.
// Concurrent callers that find it expired share a single refresh: they
// all block on the same upstream request and all receive its result,
// including its error. A 429 during refresh is retried without bound,
// sleeping the provider-supplied Retry-After (default 1s).
func (c *Client) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.token != "" && time.Now().Before(c.tokenExpiry.Add(-tokenExpiryBuffer)) {
		token := c.token
		c.mu.Unlock()
		return token, nil
	}
	c.mu.Unlock()

	v, err, _ := c.refresh.Do("token", func() (interface{}, error) {
		return c.fetchToken(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *Client) fetchToken(ctx context.Context) (string, error) {
	form := "grant_type=client_credentials"

	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/security/oauth2/token", strings.NewReader(form))
		if err != nil {
			return "", err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.SetBasicAuth(c.clientID, c.clientSecret)

		metrics.UpstreamRequests.WithLabelValues("/v1/security/oauth2/token").Inc()
		resp, err := c.httpc.Do(req)
		if err != nil {
			return "", fmt.Errorf("amadeus token request: %w", err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			wait := retryAfter(resp.Header)
			resp.Body.Close()
			if wait <= 0 {
				wait = time.Second
			}
			metrics.UpstreamRateLimited.Inc()
			logrus.Warnf("amadeus token endpoint rate limited, retrying in %s", wait)
			if err := c.wait(ctx, wait); err != nil {
				return "", err
			}
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return "", fmt.Errorf("amadeus token endpoint returned status %d", resp.StatusCode)
		}

		var tr tokenResponse
		err = json.NewDecoder(resp.Body).Decode(&tr)
		resp.Body.Close()
		if err != nil {
			return "", fmt.Errorf("amadeus token decode: %w", err)
		}

		c.mu.Lock()
		c.token = tr.AccessToken
		c.tokenExpiry = time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second)
		c.mu.Unlock()

		logrus.Debugf("amadeus access token refreshed, expires in %ds", tr.ExpiresIn)
		return tr.AccessToken, nil
	}
}
