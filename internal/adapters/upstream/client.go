// Package upstream talks to the two paginated listing APIs. Both share one
// rate-limited, retrying GET path; the per-source files only build URLs and
// decode pages.
package upstream

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"food_rent/internal/adapters/observability"
	"food_rent/internal/domain"
)

var (
	ErrUnauthorized = fmt.Errorf("%w: unauthorized", domain.ErrTransientSource)
	ErrRateLimited  = fmt.Errorf("%w: rate limited", domain.ErrTransientSource)
	ErrMalformed    = fmt.Errorf("%w: malformed payload", domain.ErrTransientSource)
)

const maxAttempts = 4

// authFunc decorates a request with the source's credential.
type authFunc func(*http.Request)

type base struct {
	service string
	url     string
	hc      *http.Client
	rl      *rate.Limiter
	auth    authFunc
}

func newBase(service, baseURL, key string, rps int, auth authFunc) (*base, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: %s API key is required", domain.ErrConfiguration, service)
	}
	if rps <= 0 {
		rps = 5
	}
	return &base{
		service: service,
		url:     strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: 20 * time.Second},
		rl:      rate.NewLimiter(rate.Limit(rps), rps),
		auth:    auth,
	}, nil
}

// get performs a GET with client-side rate limiting and retries, and
// returns the raw body of a 2xx response. Retries on 429 and transient
// 5xx, honoring Retry-After when provided. Every failure wraps
// domain.ErrTransientSource.
func (c *base) get(ctx context.Context, endpoint, rawURL string) ([]byte, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return nil, err
	}

	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		last := i == maxAttempts-1
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}
		c.auth(req)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "food-rent/1.0")

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal(c.service, endpoint, 0, time.Since(start))
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = fmt.Errorf("%w: %v", domain.ErrTransientSource, err)
			if !last && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, lastErr
		}
		observability.ObserveExternal(c.service, endpoint, resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK:
			b, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			if err != nil {
				return nil, fmt.Errorf("%w: read body: %v", domain.ErrTransientSource, err)
			}
			return b, nil

		case http.StatusUnauthorized, http.StatusForbidden:
			resp.Body.Close()
			return nil, fmt.Errorf("%w (%d)", ErrUnauthorized, resp.StatusCode)

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			if resp.StatusCode == http.StatusTooManyRequests {
				lastErr = ErrRateLimited
			} else {
				lastErr = fmt.Errorf("%w: remote %d", domain.ErrTransientSource, resp.StatusCode)
			}
			if !last && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, lastErr

		default:
			// read a small error body for diagnostics
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return nil, fmt.Errorf("%w: bad status %d: %s", domain.ErrTransientSource, resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}
	return nil, lastErr
}

// decode unmarshals a page body, classifying failures as malformed payloads.
func decode(body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
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

// backoff returns an exponential delay (200ms, 400ms, 800ms...) with up to
// +50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}

// IsAuth reports whether err is a credential rejection, which retrying
// later will not fix.
func IsAuth(err error) bool { return errors.Is(err, ErrUnauthorized) }
