// Package httpx is the JSON-over-HTTP client shared by the outbound adapters.
package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Code, e.Body)
}

// RetryPolicy decides how often a call is attempted. Delays double after
// every failed attempt starting at InitialBackoff.
type RetryPolicy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
}

// NoRetry sends each request exactly once.
var NoRetry = RetryPolicy{MaxAttempts: 1}

// Backoff retries transient failures up to attempts times in total.
func Backoff(attempts int, initial time.Duration) RetryPolicy {
	return RetryPolicy{MaxAttempts: attempts, InitialBackoff: initial}
}

func (p RetryPolicy) attempts() int {
	return max(p.MaxAttempts, 1)
}

// Retryable reports whether err is worth another attempt: network errors,
// 429 and 5xx gateway/availability statuses.
func Retryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		switch se.Code {
		case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
			http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true
		}
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// Client issues JSON requests against one base URL under a RetryPolicy.
// It is safe for concurrent use.
type Client struct {
	session *http.Client
	baseURL string
	Policy  RetryPolicy
}

// New returns a client for baseURL. A nil session uses a client without its
// own timeout, leaving deadlines to the caller's context.
func New(baseURL string, session *http.Client, policy RetryPolicy) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("httpx: base url is empty")
	}
	if session == nil {
		session = &http.Client{}
	}
	return &Client{session: session, baseURL: baseURL, Policy: policy}, nil
}

// Do sends in (when non-nil) as the JSON body of method path and decodes the
// response into out (when non-nil).
func (c *Client) Do(ctx context.Context, method, path string, in, out any) error {
	var payload []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		payload = b
	}

	resp, err := c.send(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, url string, payload []byte) (*http.Response, error) {
	backoff := c.Policy.InitialBackoff
	attempts := c.Policy.attempts()

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, err := c.roundTrip(ctx, method, url, payload)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if attempt == attempts || !Retryable(err) {
			break
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		backoff *= 2
	}

	return nil, lastErr
}

func (c *Client) roundTrip(ctx context.Context, method, url string, payload []byte) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	return resp, nil
}
