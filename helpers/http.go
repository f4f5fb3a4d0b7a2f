package helpers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"slices"
	"time"

	apperr "sjsage522/jobworker/pkg/errors"

	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"
)

// Request describes a single page fetch: the absolute URL plus any
// per-request headers and cookies the source requires.
type Request struct {
	URL     string
	Headers map[string]string
	Cookies map[string]string
}

// Fetcher retrieves a page and returns its body as UTF-8
type Fetcher interface {
	Fetch(ctx context.Context, req *Request) (io.Reader, error)
}

// SessionConfig configures a fetch session
type SessionConfig struct {
	UserAgent    string
	Delay        time.Duration
	Timeout      time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
}

// Session is an HTTP fetcher with cookie persistence, a politeness
// delay between requests, and fixed-backoff retries.
type Session struct {
	client  *http.Client
	limiter *rate.Limiter
	cfg     SessionConfig
}

var defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Status codes that are worth retrying with backoff
var retryStatusCodes = []int{
	http.StatusInternalServerError,
	http.StatusBadGateway,
	http.StatusServiceUnavailable,
	http.StatusGatewayTimeout,
	http.StatusRequestTimeout,
}

// NewSession creates a new fetch session with its own cookie jar
func NewSession(cfg SessionConfig) *Session {
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = 2 * time.Second
	}

	jar, _ := cookiejar.New(nil)

	var limiter *rate.Limiter
	if cfg.Delay > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.Delay), 1)
	}

	return &Session{
		client: &http.Client{
			Timeout: cfg.Timeout,
			Jar:     jar,
		},
		limiter: limiter,
		cfg:     cfg,
	}
}

// Fetch sends an HTTP GET request honoring the session's politeness
// delay, retries transient failures with a fixed backoff, converts the
// response body to UTF-8 if needed, and returns it as an io.Reader.
func (s *Session) Fetch(ctx context.Context, req *Request) (io.Reader, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, apperr.NewFetch("", "politeness delay interrupted", err)
		}
	}

	var lastErr error
	for attempt := 0; attempt <= s.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, apperr.NewFetch("", "fetch cancelled", ctx.Err())
			case <-time.After(s.cfg.RetryBackoff):
			}
		}

		body, retryable, err := s.doFetch(ctx, req)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
	}

	return nil, lastErr
}

// doFetch performs a single request attempt
func (s *Session) doFetch(ctx context.Context, req *Request) (io.Reader, bool, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return nil, false, apperr.NewFetch("", "failed to create request", err)
	}

	httpReq.Header.Set("User-Agent", s.cfg.UserAgent)
	httpReq.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8")
	httpReq.Header.Set("Upgrade-Insecure-Requests", "1")
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	for name, value := range req.Cookies {
		httpReq.AddCookie(&http.Cookie{Name: name, Value: value})
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, ctx.Err() == nil, apperr.NewFetch("", fmt.Sprintf("failed to fetch %s", req.URL), err)
	}
	defer resp.Body.Close()

	// Check for rate limiting
	if slices.Contains([]int{http.StatusTooManyRequests, 430}, resp.StatusCode) {
		return nil, false, apperr.NewRateLimit(req.URL, s.cfg.RetryBackoff)
	}

	if slices.Contains(retryStatusCodes, resp.StatusCode) {
		return nil, true, apperr.NewFetch("", fmt.Sprintf("fetch %s transient status code: %d", req.URL, resp.StatusCode), nil)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, false, apperr.NewFetch("", fmt.Sprintf("fetch %s unexpected status code: %d", req.URL, resp.StatusCode), nil)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, apperr.NewFetch("", "failed to read response body", err)
	}

	// Determine the encoding from Content-Type header and body content
	encoding, name, _ := charset.DetermineEncoding(bodyBytes, resp.Header.Get("Content-Type"))

	// If already UTF-8, return as is
	if name == "utf-8" || name == "UTF-8" {
		return bytes.NewReader(bodyBytes), false, nil
	}

	// Convert to UTF-8 if necessary
	utf8Reader := encoding.NewDecoder().Reader(bytes.NewReader(bodyBytes))
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, utf8Reader); err != nil {
		return nil, false, apperr.NewFetch("", "failed to read converted UTF-8 body", err)
	}

	return &buf, false, nil
}
