package ozon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/samber/lo"

	"github.com/donaldgifford/ozon-seller-client/internal/metrics"
	"github.com/donaldgifford/ozon-seller-client/pkg/logger"
)

const (
	// DefaultBaseURL is the production Seller API host.
	DefaultBaseURL = "https://api-seller.ozon.ru"

	defaultTimeout = 30 * time.Second

	headerClientID = "Client-Id"
	headerAPIKey   = "Api-Key" //nolint:gosec // header name, not a credential

	maxErrorBodyLen = 256
)

var allowedMethods = []string{
	http.MethodPost,
	http.MethodGet,
	http.MethodPut,
	http.MethodDelete,
}

// HTTPExecutor implements Executor over HTTPS using resty. One resty client,
// and so one connection pool, is shared by all calls.
type HTTPExecutor struct {
	clientID    string
	apiKey      string
	baseURL     string
	timeout     time.Duration
	http        *resty.Client
	rateLimiter *RateLimiter
	logger      *slog.Logger
}

// ExecutorOption configures the HTTPExecutor.
type ExecutorOption func(*HTTPExecutor)

// WithBaseURL overrides DefaultBaseURL.
func WithBaseURL(u string) ExecutorOption {
	return func(e *HTTPExecutor) {
		e.baseURL = u
	}
}

// WithTimeout overrides the per-request timeout. Ignored when a resty client
// is supplied with WithRestyClient.
func WithTimeout(d time.Duration) ExecutorOption {
	return func(e *HTTPExecutor) {
		e.timeout = d
	}
}

// WithRestyClient overrides the underlying resty client.
func WithRestyClient(rc *resty.Client) ExecutorOption {
	return func(e *HTTPExecutor) {
		e.http = rc
	}
}

// WithRateLimiter makes every call wait on r before it is sent.
func WithRateLimiter(r *RateLimiter) ExecutorOption {
	return func(e *HTTPExecutor) {
		e.rateLimiter = r
	}
}

// WithExecutorLogger sets the logger.
func WithExecutorLogger(l *slog.Logger) ExecutorOption {
	return func(e *HTTPExecutor) {
		e.logger = l
	}
}

// NewHTTPExecutor creates an executor authenticating with the given client id
// and API key.
func NewHTTPExecutor(clientID, apiKey string, opts ...ExecutorOption) (*HTTPExecutor, error) {
	if clientID == "" || apiKey == "" {
		return nil, ErrMissingCredentials
	}

	e := &HTTPExecutor{
		clientID: clientID,
		apiKey:   apiKey,
		baseURL:  DefaultBaseURL,
		timeout:  defaultTimeout,
		logger:   logger.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.http == nil {
		e.http = resty.New().SetTimeout(e.timeout)
	}
	return e, nil
}

// BaseURL returns the host requests are sent to.
func (e *HTTPExecutor) BaseURL() string {
	return e.baseURL
}

// Execute implements Executor. The HTTP status is not inspected: any response
// with a JSON body is returned to the caller.
func (e *HTTPExecutor) Execute(ctx context.Context, req Request) (json.RawMessage, error) {
	method := strings.ToUpper(req.Method)
	if !lo.Contains(allowedMethods, method) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMethod, req.Method)
	}

	endpoint := EndpointLabel(req.Version, req.Endpoint)

	if e.rateLimiter != nil {
		if err := e.rateLimiter.Wait(ctx); err != nil {
			if errors.Is(err, ErrDailyLimitReached) {
				metrics.RateLimitDailyHitsTotal.Inc()
			}
			return nil, fmt.Errorf("rate limit: %w", err)
		}
		metrics.RateLimitDailyUsage.Set(float64(e.rateLimiter.DailyCount()))
	}

	u := JoinURL(e.baseURL, req.Version, req.Endpoint)

	r := e.http.R().
		SetContext(ctx).
		SetHeader(headerClientID, e.clientID).
		SetHeader(headerAPIKey, e.apiKey).
		SetHeader("Content-Type", "application/json")
	if req.Body != nil {
		r.SetBody(req.Body)
	}

	start := time.Now()
	resp, err := r.Execute(method, u)
	metrics.APIRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.APITransportErrorsTotal.WithLabelValues(endpoint).Inc()
		return nil, fmt.Errorf("%w: %s %s: %w", ErrTransport, method, u, err)
	}

	status := resp.StatusCode()
	body := resp.Body()
	metrics.APIRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()

	e.logger.DebugContext(ctx, "ozon api call",
		"method", method,
		"endpoint", endpoint,
		"status", status,
		"bytes", len(body),
		"duration", time.Since(start),
	)

	if !json.Valid(body) {
		return nil, fmt.Errorf(
			"%w: %s (status %d): %s",
			ErrInvalidJSON,
			endpoint,
			status,
			truncate(string(body), maxErrorBodyLen),
		)
	}

	return json.RawMessage(body), nil
}

// JoinURL builds {base}/{version}/{endpoint} with exactly one slash between
// segments.
func JoinURL(base, version, endpoint string) string {
	return strings.TrimRight(base, "/") + "/" + EndpointLabel(version, endpoint)
}

// EndpointLabel returns the "{version}/{endpoint}" form used in URLs, logs and
// metric labels.
func EndpointLabel(version, endpoint string) string {
	return strings.Trim(version, "/") + "/" + strings.TrimLeft(endpoint, "/")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
