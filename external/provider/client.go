// Package provider is the shared HTTP transport for upstream sports APIs:
// bounded retries, a circuit breaker, request coalescing, and secret
// redaction.
package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/cfb-edge/internal/platform/logging"
	"github.com/riskibarqy/cfb-edge/internal/platform/resilience"
	"github.com/riskibarqy/cfb-edge/internal/usecase"
)

const maxBodyBytes = 6 << 20

var errTransient = crerr.New("provider transient failure")

// ErrBodyTooLarge is returned when a payload exceeds the 6 MiB cap. It is
// not retried.
var ErrBodyTooLarge = errors.New("provider response too large")

var secretParamRegex = regexp.MustCompile(`(?i)(apiKey|api_key|api_token)=[^&\s"']+`)

// Authorizer decorates a request with credentials.
type Authorizer func(req *http.Request)

func BearerAuth(token string) Authorizer {
	return func(req *http.Request) {
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
}

type Config struct {
	Name           string
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.BreakerConfig
	Authorize      Authorizer
	// Secrets are scrubbed from errors and logs.
	Secrets []string
}

type Client struct {
	name         string
	httpClient   *http.Client
	baseURL      string
	maxRetries   int
	retryBackoff time.Duration
	logger       *logging.Logger
	breaker      *resilience.CircuitBreaker
	authorize    Authorizer
	secrets      []string
	flight       resilience.SingleFlight[response]
}

type response struct {
	body   []byte
	header http.Header
}

func New(cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named(cfg.Name)

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = time.Second
	}

	secrets := make([]string, 0, len(cfg.Secrets))
	for _, s := range cfg.Secrets {
		if strings.TrimSpace(s) != "" {
			secrets = append(secrets, s)
		}
	}

	return &Client{
		name:         cfg.Name,
		httpClient:   httpClient,
		baseURL:      strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		maxRetries:   max(cfg.MaxRetries, 0),
		retryBackoff: backoff,
		logger:       logger,
		breaker: resilience.NewCircuitBreaker(cfg.Name, cfg.CircuitBreaker, func(name string, from, to resilience.CircuitState) {
			logger.Warn("circuit breaker state changed", "provider", name, "from", string(from), "to", string(to))
		}),
		authorize: cfg.Authorize,
		secrets:   secrets,
	}
}

func (c *Client) Name() string {
	return c.name
}

func (c *Client) BreakerState() resilience.CircuitState {
	return c.breaker.State()
}

// GetJSON fetches path with query and decodes the body into target. It
// returns the response headers for quota bookkeeping.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, target any) (http.Header, error) {
	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	// The fetch outlives any single caller so joiners are not failed by the
	// leader's cancellation. Each caller still stops waiting on its own ctx.
	flightCtx := context.WithoutCancel(ctx)
	flight := c.flight.DoChan(fullURL, func() (response, error) {
		if err := c.breaker.Allow(); err != nil {
			return response{}, err
		}
		resp, reqErr := c.executeRequest(flightCtx, fullURL)
		if reqErr != nil && IsTransient(reqErr) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
		return resp, reqErr
	})

	var result resilience.Result[response]
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case result = <-flight:
	}
	resp, err, shared := result.Val, result.Err, result.Shared

	switch {
	case errors.Is(err, resilience.ErrCircuitOpen):
		c.logger.WarnContext(ctx, "circuit breaker rejected request", "path", path, "state", string(c.breaker.State()))
		return nil, fmt.Errorf("%w: %s provider is temporarily unavailable", usecase.ErrDependencyUnavailable, c.name)
	case IsTransient(err):
		return nil, fmt.Errorf("%w: %w", usecase.ErrDependencyUnavailable, err)
	case err != nil:
		return nil, err
	}
	if shared {
		c.logger.DebugContext(ctx, "joined in-flight provider request", "path", path)
	}

	if err := sonic.Unmarshal(resp.body, target); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", c.name, err)
	}
	return resp.header, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) (response, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return response{}, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if c.authorize != nil {
			c.authorize(req)
		}

		started := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return response{}, ctx.Err()
			}
			lastErr = crerr.Wrapf(errTransient, "send request: %s", c.sanitize(err.Error()))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
			_ = resp.Body.Close()
			if readErr == nil && len(raw) > maxBodyBytes {
				return response{}, fmt.Errorf("%w: %s response exceeds %d bytes", ErrBodyTooLarge, c.name, maxBodyBytes)
			}
			c.logger.DebugContext(ctx, "provider response",
				"url", c.redactURL(fullURL),
				"status", resp.StatusCode,
				"bytes", len(raw),
				"duration", time.Since(started),
			)
			switch {
			case readErr != nil:
				lastErr = crerr.Wrapf(errTransient, "read response body: %v", readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return response{body: raw, header: resp.Header}, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = crerr.Wrapf(errTransient, "%s status=%d body=%s", c.name, resp.StatusCode, c.sanitize(abbreviateBody(raw)))
			default:
				return response{}, fmt.Errorf("%s status=%d body=%s", c.name, resp.StatusCode, c.sanitize(abbreviateBody(raw)))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(time.Duration(attempt+1) * c.retryBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return response{}, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("%s request failed", c.name)
	}
	c.logger.WarnContext(ctx, "provider request failed", "url", c.redactURL(fullURL), "attempts", c.maxRetries+1, "error", lastErr)
	return response{}, lastErr
}

// IsTransient reports whether err is a retryable upstream failure.
func IsTransient(err error) bool {
	return err != nil && crerr.Is(err, errTransient)
}

func (c *Client) sanitize(value string) string {
	value = strings.TrimSpace(value)
	for _, secret := range c.secrets {
		value = strings.ReplaceAll(value, secret, "REDACTED")
	}
	return secretParamRegex.ReplaceAllString(value, "$1=REDACTED")
}

func (c *Client) redactURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return c.sanitize(rawURL)
	}
	query := parsed.Query()
	for _, key := range []string{"apiKey", "api_key", "api_token"} {
		if query.Has(key) {
			query.Set(key, "REDACTED")
		}
	}
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
