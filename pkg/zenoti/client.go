// Package zenoti is a client for the Zenoti booking platform REST API.
package zenoti

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	apperrors "github.com/LiftOffLLC/zenoti-sdk/pkg/errors"
	"github.com/LiftOffLLC/zenoti-sdk/pkg/retry"
)

const (
	// DefaultBaseURL is the production API host.
	DefaultBaseURL = "https://api.zenoti.com"

	defaultTimeout = 10 * time.Second
	cacheKeyPrefix = "zenoti:"
)

// Cache stores successful GET response bodies.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, expirationSeconds int) error
}

// Client talks to the platform with an API key. It is safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	tenant     string
	httpClient *http.Client
	timeout    time.Duration
	logger     zerolog.Logger
	tracer     trace.Tracer
	limiter    *rate.Limiter
	cache      Cache
	cacheTTL   time.Duration
	retry      retry.Config

	Centers     *CentersService
	Services    *ServicesService
	Guests      *GuestsService
	Bookings    *BookingsService
	Invoices    *InvoicesService
	Products    *ProductsService
	Memberships *MembershipsService
	GiftCards   *GiftCardsService
	Employees   *EmployeesService
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different host.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient replaces the instrumented default HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the request timeout. It applies to a client given by WithHTTPClient too,
// without modifying it.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithLogger sets the logger used for upstream failures.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithCache caches successful GET responses for ttl.
func WithCache(cache Cache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = cache
		c.cacheTTL = ttl
	}
}

// WithRateLimit makes every request wait for a token. A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithRetry retries GET requests that fail transiently. A nil cfg.Retryable defaults to
// IsTransient.
func WithRetry(cfg retry.Config) Option {
	return func(c *Client) {
		if cfg.Retryable == nil {
			cfg.Retryable = IsTransient
		}
		c.retry = cfg
	}
}

// IsTransient reports whether err is a transport failure or a status worth retrying.
func IsTransient(err error) bool {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Type != apperrors.ErrorTypeExternal {
		return false
	}
	switch appErr.StatusCode {
	case 0, http.StatusTooManyRequests, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// New creates a client authenticating with apiKey.
func New(apiKey string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, apperrors.NewInvalidArgumentError("api_key", "must provide an api key")
	}

	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		tenant:  tenantKey(apiKey),
		httpClient: &http.Client{
			Timeout:   defaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: zerolog.Nop(),
		tracer: otel.Tracer("github.com/LiftOffLLC/zenoti-sdk/pkg/zenoti"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport), Timeout: defaultTimeout}
	}
	if c.timeout > 0 {
		withTimeout := *c.httpClient
		withTimeout.Timeout = c.timeout
		c.httpClient = &withTimeout
	}

	c.Centers = &CentersService{client: c}
	c.Services = &ServicesService{client: c}
	c.Guests = &GuestsService{client: c}
	c.Bookings = &BookingsService{client: c}
	c.Invoices = &InvoicesService{client: c}
	c.Products = &ProductsService{client: c}
	c.Memberships = &MembershipsService{client: c}
	c.GiftCards = &GiftCardsService{client: c}
	c.Employees = &EmployeesService{client: c}

	return c, nil
}

type skipCacheKey struct{}

// SkipCache makes GET requests made with ctx bypass the response cache in both directions.
func SkipCache(ctx context.Context) context.Context {
	return context.WithValue(ctx, skipCacheKey{}, true)
}

func cacheSkipped(ctx context.Context) bool {
	skip, _ := ctx.Value(skipCacheKey{}).(bool)
	return skip
}

// tenantKey scopes cache entries to one API key without storing the key itself.
func tenantKey(apiKey string) string {
	sum := sha256.Sum256([]byte(apiKey))
	return hex.EncodeToString(sum[:8])
}

// Get performs a GET request and decodes the response into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, query url.Values, body, out any) error {
	return c.do(ctx, http.MethodPost, path, query, body, out)
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, query url.Values, body, out any) error {
	return c.do(ctx, http.MethodPut, path, query, body, out)
}

// Delete performs a DELETE request with a JSON body.
func (c *Client) Delete(ctx context.Context, path string, query url.Values, body, out any) error {
	return c.do(ctx, http.MethodDelete, path, query, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint, err := c.buildURL(path, query)
	if err != nil {
		return apperrors.NewInvalidArgumentError("path", err.Error())
	}

	ctx, span := c.tracer.Start(ctx, fmt.Sprintf("zenoti.%s %s", method, endpoint.Path),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("zenoti.path", endpoint.Path),
		),
	)
	defer span.End()

	cacheable := method == http.MethodGet && c.cache != nil && !cacheSkipped(ctx)
	cacheKey := cacheKeyPrefix + c.tenant + ":" + endpoint.String()
	if cacheable {
		if cached, err := c.cache.Get(ctx, cacheKey); err == nil && cached != nil {
			span.SetAttributes(attribute.Bool("zenoti.cache_hit", true))
			return decodeInto(cached, out)
		}
	}

	var payload []byte
	attempt := func(ctx context.Context) error {
		var err error
		payload, err = c.send(ctx, method, endpoint, body)
		return err
	}
	if method == http.MethodGet {
		policy := c.retry
		policy.OnRetry = func(n int, err error, wait time.Duration) {
			c.logger.Warn().Err(err).Int("attempt", n).Dur("wait", wait).Str("path", endpoint.Path).Msg("retrying zenoti request")
		}
		err = retry.Do(ctx, policy, attempt)
	} else {
		err = attempt(ctx)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Error().Err(err).Str("method", method).Str("path", endpoint.Path).Msg("zenoti request failed")
		return err
	}

	if cacheable && c.cacheTTL > 0 {
		if err := c.cache.Set(ctx, cacheKey, payload, int(c.cacheTTL.Seconds())); err != nil {
			c.logger.Warn().Err(err).Str("path", endpoint.Path).Msg("failed to cache zenoti response")
		}
	}

	return decodeInto(payload, out)
}

func (c *Client) send(ctx context.Context, method string, endpoint *url.URL, body any) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, apperrors.NewExternalError("rate limiter wait aborted", err)
		}
	}

	var reader io.Reader
	if body != nil && method != http.MethodGet {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to encode request body", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build request", err)
	}
	req.Header.Set("Accept", "application/json; charset=UTF-8")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "apikey "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewExternalError("zenoti request failed", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewExternalError("failed to read zenoti response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp.StatusCode, payload)
	}
	if err := embeddedError(payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (c *Client) buildURL(path string, query url.Values) (*url.URL, error) {
	endpoint, err := url.Parse(c.baseURL + "/" + strings.TrimLeft(path, "/"))
	if err != nil {
		return nil, err
	}
	if len(query) > 0 {
		merged := endpoint.Query()
		for key, values := range query {
			for _, value := range values {
				merged.Add(key, value)
			}
		}
		endpoint.RawQuery = merged.Encode()
	}
	return endpoint, nil
}

type platformError struct {
	Message    string `json:"Message"`
	StatusCode int    `json:"StatusCode"`
}

type errorEnvelope struct {
	Error *platformError `json:"Error"`
}

// The platform reports some failures inside a 200 response.
func embeddedError(payload []byte) error {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}
	var envelope errorEnvelope
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil
	}
	if envelope.Error == nil {
		return nil
	}
	status := envelope.Error.StatusCode
	if status == 0 {
		status = http.StatusBadGateway
	}
	return apperrors.NewExternalStatusError(status, envelope.Error.Message)
}

func statusError(status int, payload []byte) error {
	var body map[string]any
	_ = json.Unmarshal(payload, &body)

	message, _ := body["Message"].(string)
	if message == "" {
		message, _ = body["message"].(string)
	}
	if message == "" {
		message = http.StatusText(status)
	}
	if code, ok := body["code"].(float64); ok && code > 0 {
		status = int(code)
	}
	return apperrors.NewExternalStatusError(status, message)
}

func decodeInto(payload []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if raw, ok := out.(*json.RawMessage); ok {
		*raw = append((*raw)[:0], payload...)
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return apperrors.NewExternalError("failed to decode zenoti response", err)
	}
	return nil
}
