// Package transport is the resilient HTTP layer every provider call goes
// through. Each request passes, in order, the duplicate tracker, the rate
// limiter, optionally the circuit breaker, and the retry loop; non-2xx
// responses are promoted into the structured error taxonomy.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/abelbrown/glossia/internal/apperr"
	"github.com/abelbrown/glossia/internal/logging"
)

const maxResponseBytes = 1 << 20

// Client composes the resilience layers around a shared http.Client.
type Client struct {
	http    *http.Client
	limiter *RateLimiter
	breaker *Breaker
	tracker *Tracker
	retry   RetryConfig
}

// Option adjusts a Client at construction time.
type Option func(*Client)

// WithRateLimit replaces the default 10-per-second limiter.
func WithRateLimit(maxRequests int, window time.Duration) Option {
	return func(c *Client) { c.limiter = NewRateLimiter(maxRequests, window) }
}

// WithRetry replaces the default retry policy.
func WithRetry(cfg RetryConfig) Option {
	return func(c *Client) { c.retry = cfg }
}

// WithBreaker replaces the default breaker thresholds.
func WithBreaker(failureThreshold int, recoveryTimeout time.Duration, successThreshold int) Option {
	return func(c *Client) { c.breaker = NewBreaker(failureThreshold, recoveryTimeout, successThreshold) }
}

// NewClient builds a client with the given per-request timeout and default
// resilience settings.
func NewClient(timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := &Client{
		http:    &http.Client{Timeout: timeout},
		limiter: NewRateLimiter(10, time.Second),
		breaker: NewBreaker(5, 60*time.Second, 2),
		tracker: NewTracker(5 * time.Minute),
		retry:   DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tracker exposes the duplicate-request tracker for statistics.
func (c *Client) Tracker() *Tracker { return c.tracker }

// Breaker exposes the circuit breaker for state inspection.
func (c *Client) Breaker() *Breaker { return c.breaker }

// Get issues a GET and decodes the JSON response into out (out may be nil).
func (c *Client) Get(ctx context.Context, url string, headers map[string]string, out any) error {
	return c.do(ctx, http.MethodGet, url, nil, headers, out, false)
}

// Post issues a POST with a JSON body and decodes the response into out.
func (c *Client) Post(ctx context.Context, url string, body, out any, headers map[string]string) error {
	return c.do(ctx, http.MethodPost, url, body, headers, out, false)
}

// PostWithBreaker is Post gated by the circuit breaker. Chat-completion
// paths use this so repeated authentication failures fail fast.
func (c *Client) PostWithBreaker(ctx context.Context, url string, body, out any, headers map[string]string) error {
	return c.do(ctx, http.MethodPost, url, body, headers, out, true)
}

// Put issues a PUT with a JSON body and decodes the response into out.
func (c *Client) Put(ctx context.Context, url string, body, out any, headers map[string]string) error {
	return c.do(ctx, http.MethodPut, url, body, headers, out, false)
}

// Delete issues a DELETE and decodes the JSON response into out.
func (c *Client) Delete(ctx context.Context, url string, headers map[string]string, out any) error {
	return c.do(ctx, http.MethodDelete, url, nil, headers, out, false)
}

func (c *Client) do(ctx context.Context, method, url string, body any, headers map[string]string, out any, useBreaker bool) error {
	var payload []byte
	if body != nil {
		var err error
		if raw, ok := body.([]byte); ok {
			payload = raw
		} else if payload, err = json.Marshal(body); err != nil {
			return apperr.Parse("marshal request body: %v", err)
		}
	}

	requestID := uuid.NewString()
	start := time.Now()
	logging.Debug("request started", "request_id", requestID, "method", method, "url", url)

	c.tracker.Record(method, url, payload)

	if err := c.limiter.WaitForPermit(ctx); err != nil {
		return err
	}

	if useBreaker {
		if err := c.breaker.Allow(); err != nil {
			logging.Warn("request rejected", "request_id", requestID, "method", method, "url", url, "reason", "breaker_open")
			return err
		}
	}

	var status int
	err := withRetry(ctx, c.retry, func(ctx context.Context) error {
		var attemptErr error
		status, attemptErr = c.doOnce(ctx, method, url, payload, headers, out)
		if useBreaker {
			if attemptErr != nil {
				c.breaker.RecordFailure(attemptErr)
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return attemptErr
	})

	elapsed := time.Since(start)
	if err != nil {
		fields := []any{
			"request_id", requestID, "method", method, "url", url,
			"status", status, "elapsed", elapsed,
			"error_kind", apperr.KindOf(err).String(),
		}
		if e, ok := apperr.As(err); ok && e.ProviderType != "" {
			fields = append(fields, "provider_type", e.ProviderType, "provider_code", e.ProviderCode)
		}
		logging.Error("request failed", fields...)
		return err
	}

	logging.Debug("request finished", "request_id", requestID, "method", method, "url", url,
		"status", status, "elapsed", elapsed)
	return nil
}

// doOnce performs a single HTTP exchange and promotes failures.
func (c *Client) doOnce(ctx context.Context, method, url string, payload []byte, headers map[string]string, out any) (int, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, apperr.Network("create request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, apperr.Network("%v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, apperr.Network("read response: %v", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, promoteResponse(resp.StatusCode, resp.Header, respBody)
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return resp.StatusCode, apperr.Parse("decode response: %v", err)
		}
	}
	return resp.StatusCode, nil
}

// providerErrorEnvelope is the {"error":{...}} shape most providers return.
// Message catches bodies that put the text at the top level instead.
type providerErrorEnvelope struct {
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
	Message string `json:"message"`
}

// promoteResponse maps a non-2xx response to its structured error variant.
// Only a parsed provider envelope promotes to the authentication, bad-request,
// or rate-limit kinds; everything else stays a plain HTTP error with headers
// and body kept for upstream inspection.
func promoteResponse(status int, header http.Header, body []byte) *apperr.Error {
	headers := make(map[string]string, len(header))
	for k := range header {
		headers[k] = header.Get(k)
	}

	var envelope providerErrorEnvelope
	if json.Unmarshal(body, &envelope) == nil && envelope.Error != nil {
		message := envelope.Error.Message
		if message == "" {
			message = "Unknown API error"
		}
		providerType, providerCode := envelope.Error.Type, envelope.Error.Code

		switch status {
		case http.StatusUnauthorized, http.StatusForbidden:
			e := apperr.Authentication(message, status, providerType, providerCode)
			e.Headers = headers
			e.Body = string(body)
			return e
		case http.StatusBadRequest:
			e := apperr.BadRequest(message, providerType, providerCode)
			e.Headers = headers
			e.Body = string(body)
			return e
		case http.StatusTooManyRequests:
			e := apperr.RateLimit(message, parseRetryAfter(header.Get("Retry-After")))
			e.Headers = headers
			e.Body = string(body)
			e.ProviderType = providerType
			e.ProviderCode = providerCode
			return e
		default:
			e := apperr.HTTPWithDetails(status, message, headers, string(body))
			e.ProviderType = providerType
			e.ProviderCode = providerCode
			return e
		}
	}

	message := fmt.Sprintf("request failed with status %d", status)
	if envelope.Message != "" {
		message = envelope.Message
	}
	return apperr.HTTPWithDetails(status, message, headers, string(body))
}

// parseRetryAfter handles the delay-seconds form; 0 means absent or unusable.
func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}
