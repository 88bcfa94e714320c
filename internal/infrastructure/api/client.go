package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"futbal/internal/domain"
)

const maxBodyBytes = 4 << 20

// Options configures a Client. Zero values get sensible defaults.
type Options struct {
	BaseURL       string
	Token         string
	Timeout       time.Duration
	TrailingSlash bool
	RateLimit     float64 // requests per second, 0 = unlimited
	RateBurst     int
	Location      *time.Location // zone for timestamps sent without an offset
	HTTPClient    *http.Client
	Logger        *zap.Logger
}

// Client talks to the REST backend. It holds the session token in memory only.
type Client struct {
	base          *url.URL
	http          *http.Client
	limiter       *rate.Limiter
	trailingSlash bool
	loc           *time.Location
	log           *zap.Logger

	mu    sync.RWMutex
	token string
}

func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("api: invalid base url %q: %w", opts.BaseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("api: invalid base url %q: scheme or host missing", opts.BaseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("api: cookie jar: %w", err)
		}
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout, Jar: jar}
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		base:          base,
		http:          httpClient,
		limiter:       limiter,
		trailingSlash: opts.TrailingSlash,
		loc:           loc,
		log:           logger,
		token:         opts.Token,
	}, nil
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) endpoint(path string) string {
	u := *c.base
	u.Path = c.base.Path + path
	if c.trailingSlash && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// do sends one request. out, when non-nil, receives the decoded 2xx body.
// Failures are mapped onto the domain taxonomy:
//   - transport failure, undecodable body or bare non-2xx → *domain.NetworkError
//   - non-2xx with an error message in the body → *domain.ServerRejected
//   - bare 401/403 → domain.ErrUnauthenticated
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &domain.NetworkError{Op: op, Err: err}
		}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("api request failed",
			zap.String("op", op), zap.String("method", method), zap.String("path", path),
			zap.String("request_id", requestID), zap.Error(err))
		return &domain.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	c.log.Debug("api request",
		zap.String("op", op),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
		zap.String("request_id", requestID))
	if err != nil {
		return &domain.NetworkError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(op, resp.StatusCode, raw)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &domain.NetworkError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func statusError(op string, status int, raw []byte) error {
	if msg := errorMessage(raw); msg != "" {
		return &domain.ServerRejected{Status: status, Message: msg}
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return fmt.Errorf("%s: %w", op, domain.ErrUnauthenticated)
	}
	return &domain.NetworkError{Op: op, Err: fmt.Errorf("unexpected status %d", status)}
}

// errorMessage extracts a human-readable message from an error body:
// {"error": "..."}, {"detail": "..."}, {"message": "..."}, or field errors such as
// {"title": ["This field is required."]}.
func errorMessage(raw []byte) string {
	var body map[string]json.RawMessage
	if err := json.Unmarshal(raw, &body); err != nil || len(body) == 0 {
		return ""
	}
	for _, key := range []string{"error", "detail", "message", "non_field_errors"} {
		if msg := flatten(body[key]); msg != "" {
			return msg
		}
	}
	fields := make([]string, 0, len(body))
	for k := range body {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	var parts []string
	for _, f := range fields {
		if msg := flatten(body[f]); msg != "" {
			parts = append(parts, f+": "+msg)
		}
	}
	return strings.Join(parts, "; ")
}

func flatten(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.TrimSpace(strings.Join(list, " "))
	}
	return ""
}

// isUnauthenticated reports whether err means "no valid session".
func isUnauthenticated(err error) bool {
	if errors.Is(err, domain.ErrUnauthenticated) {
		return true
	}
	var rejected *domain.ServerRejected
	return errors.As(err, &rejected) &&
		(rejected.Status == http.StatusUnauthorized || rejected.Status == http.StatusForbidden)
}
