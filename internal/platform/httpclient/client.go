package httpclient

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"roadtrip-itinerary-service/internal/platform/obs"
)

// StatusError is returned for non-2xx upstream responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

// Retryable reports whether the upstream status is worth another attempt.
func (e *StatusError) Retryable() bool {
	switch e.Code {
	case 429, 500, 502, 503, 504:
		return true
	}
	return false
}

type Options struct {
	// Service labels metrics and logs ("ors", "mapbox", ...).
	Service string
	// RPS caps outbound requests per second; <= 0 disables limiting.
	RPS int
	// MaxAttempts bounds retries; 1 means a single attempt.
	MaxAttempts int
	Timeout     time.Duration
	HTTPClient  *http.Client
}

// Client is a rate-limited HTTP client with bounded retries.
// It is safe for concurrent use.
type Client struct {
	service     string
	session     *http.Client
	rl          *rate.Limiter
	maxAttempts int
}

func New(opts Options) *Client {
	session := opts.HTTPClient
	if session == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		session = &http.Client{Timeout: timeout}
	}

	rl := rate.NewLimiter(rate.Inf, 0)
	if opts.RPS > 0 {
		rl = rate.NewLimiter(rate.Limit(opts.RPS), opts.RPS)
	}

	attempts := opts.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	return &Client{
		service:     opts.Service,
		session:     session,
		rl:          rl,
		maxAttempts: attempts,
	}
}

func (c *Client) do(req *http.Request, endpoint string) (*http.Response, error) {
	start := time.Now()
	resp, err := c.session.Do(req)
	if err != nil {
		obs.ObserveExternal(c.service, endpoint, 0, time.Since(start))
		return nil, err
	}
	obs.ObserveExternal(c.service, endpoint, resp.StatusCode, time.Since(start))

	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return resp, &StatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}

// Do retries transient failures (network errors, 429 and 5xx responses)
// using exponential backoff while respecting context cancellation.
// makeReq must build a fresh request on every call.
func (c *Client) Do(
	ctx context.Context,
	endpoint string,
	makeReq func() (*http.Request, error),
) (*http.Response, error) {
	var lastErr error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if err := c.rl.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := makeReq()
		if err != nil {
			return nil, fmt.Errorf("make request: %w", err)
		}

		resp, err := c.do(req, endpoint)
		if err == nil {
			return resp, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err

		retry := false
		wait := backoff(attempt - 1)

		var se *StatusError
		if errors.As(err, &se) {
			retry = se.Retryable()
			if d := retryAfter(resp); d > 0 {
				wait = d
			}
		}

		var netErr net.Error
		if !retry && errors.As(err, &netErr) {
			retry = true
		}

		if !retry || attempt == c.maxAttempts {
			return nil, lastErr
		}

		if !sleepCtx(ctx, wait) {
			return nil, ctx.Err()
		}
	}

	return nil, lastErr
}

// DoJSON runs Do and decodes the JSON body into out.
func (c *Client) DoJSON(
	ctx context.Context,
	endpoint string,
	makeReq func() (*http.Request, error),
	out any,
) error {
	resp, err := c.Do(ctx, endpoint, makeReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", c.service, endpoint, err)
	}
	return nil
}

// sleepCtx waits for d or returns false early if ctx is done.
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

// retryAfter parses Retry-After (seconds or HTTP-date). Returns 0 if absent or invalid.
func retryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}
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
