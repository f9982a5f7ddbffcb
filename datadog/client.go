package datadog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jonwraymond/datadog-mcp/auth"
	"github.com/jonwraymond/datadog-mcp/observe"
	"github.com/jonwraymond/datadog-mcp/resilience"
)

// Defaults applied when a Config leaves a field unset.
const (
	DefaultSite    = "datadoghq.com"
	DefaultTimeout = 30 * time.Second
)

// Config configures a Client.
type Config struct {
	Credentials auth.Credentials

	// Site is the Datadog site; the API lives at https://api.<site>.
	// Default: datadoghq.com
	Site string

	// BaseURL overrides the URL derived from Site.
	BaseURL string

	// TagFilter is the default tag filter for tools that return tags.
	// Nil means no default was configured.
	TagFilter *string

	// Timeout bounds a single HTTP attempt.
	// Default: 30s
	Timeout time.Duration

	// Transport is the base round tripper under the credential transport.
	// Default: http.DefaultTransport
	Transport http.RoundTripper

	// Retry configures retries. Hooks set here run in addition to the
	// client's own logging and metrics.
	Retry resilience.RetryConfig

	Logger  observe.Logger
	Metrics observe.Metrics
}

// Client is a Datadog REST API client. Every request is retried with
// exponential backoff on any failure.
type Client struct {
	http      *http.Client
	baseURL   string
	tagFilter *string
	retry     resilience.RetryConfig
	logger    observe.Logger
	metrics   observe.Metrics
}

// NewClient creates a client from cfg.
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Credentials.Validate(); err != nil {
		return nil, fmt.Errorf("datadog: %w", err)
	}
	if cfg.Site == "" {
		cfg.Site = DefaultSite
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api." + cfg.Site
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = observe.NopLogger()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = observe.NopMetrics()
	}

	return &Client{
		http: &http.Client{
			Transport: &auth.Transport{Base: cfg.Transport, Credentials: cfg.Credentials},
			Timeout:   cfg.Timeout,
		},
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		tagFilter: cfg.TagFilter,
		retry:     cfg.Retry,
		logger:    cfg.Logger,
		metrics:   cfg.Metrics,
	}, nil
}

// BaseURL returns the API root requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// TagFilter returns the configured default tag filter, if any.
func (c *Client) TagFilter() (string, bool) {
	if c.tagFilter == nil {
		return "", false
	}
	return *c.tagFilter, true
}

// Validate checks the configured credentials against Datadog. It makes a
// single attempt without retries.
func (c *Client) Validate(ctx context.Context) error {
	var out struct {
		Valid bool `json:"valid"`
	}
	if err := c.attempt(ctx, http.MethodGet, c.baseURL+"/api/v1/validate", nil, &out); err != nil {
		return err
	}
	if !out.Valid {
		return &Error{Kind: KindAuth, Status: http.StatusOK, Body: "credentials rejected"}
	}
	return nil
}

func (c *Client) retryConfig(ctx context.Context, endpoint string) resilience.RetryConfig {
	cfg := c.retry
	userHook := cfg.OnRetry
	cfg.OnRetry = func(n int, err error, delay time.Duration) {
		c.logger.Warn(ctx, "retrying datadog request",
			observe.F("endpoint", endpoint),
			observe.F("retry", n),
			observe.F("delay_ms", delay.Milliseconds()),
			observe.F("error", err),
		)
		c.metrics.RecordRetry(ctx, endpoint)
		if userHook != nil {
			userHook(n, err, delay)
		}
	}
	return cfg
}

// request performs method on endpoint and decodes a success body into T.
// A fresh T is decoded on every attempt.
func request[T any](ctx context.Context, c *Client, method, endpoint string, query url.Values, body any) (T, error) {
	var result T

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return result, fmt.Errorf("datadog: encode request body: %w", err)
		}
	}

	u := c.baseURL + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	retry := resilience.NewRetry(c.retryConfig(ctx, endpoint))
	err := retry.Execute(ctx, func(ctx context.Context) error {
		var v T
		if err := c.attempt(ctx, method, u, payload, &v); err != nil {
			return err
		}
		result = v
		return nil
	})
	return result, err
}

// attempt performs one HTTP exchange and classifies its outcome.
func (c *Client) attempt(ctx context.Context, method, u string, payload []byte, out any) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return &Error{Kind: KindTransport, Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	data, readErr := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text := string(data)
		if readErr != nil {
			text = "Unknown error"
		}
		return classify(resp.StatusCode, text)
	}

	if readErr != nil {
		return &Error{Kind: KindTransport, Err: readErr}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Kind: KindTransport, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

func setIntIf(q url.Values, key string, value *int) {
	if value != nil {
		q.Set(key, fmt.Sprint(*value))
	}
}
