package provider

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

	"github.com/bitcoinrtx/MultiCurrencyWallet/metrics"
	"go.uber.org/zap"
)

const maxBodyBytes = 8 << 20

// Client is a DataProvider over an HTTP JSON API.
type Client struct {
	name    string
	baseURL string
	query   url.Values
	http    *http.Client
	cache   ResponseCache
	log     *zap.Logger
	metrics *metrics.WalletMetrics
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the request timeout of the default http.Client.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.http.Timeout = d }
}

// WithQuery appends a query parameter to every request (e.g. an API token).
func WithQuery(key, value string) ClientOption {
	return func(c *Client) {
		if value != "" {
			c.query.Set(key, value)
		}
	}
}

// WithCache enables response caching for requests that ask for it.
func WithCache(cache ResponseCache) ClientOption {
	return func(c *Client) { c.cache = cache }
}

func WithLogger(log *zap.Logger) ClientOption {
	return func(c *Client) { c.log = log }
}

func WithMetrics(m *metrics.WalletMetrics) ClientOption {
	return func(c *Client) { c.metrics = m }
}

// NewClient creates a provider client rooted at baseURL.
func NewClient(name, baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		query:   url.Values{},
		http:    &http.Client{Timeout: 15 * time.Second},
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With(zap.String("provider", name))
	return c
}

func (c *Client) Name() string { return c.name }

func (c *Client) Get(ctx context.Context, path string, opts Options, out any) error {
	key := c.name + " GET " + path
	if c.cache != nil && opts.CacheTTL > 0 {
		if body, ok := c.cache.Get(ctx, key); ok {
			c.metrics.ProviderRequest(c.name, http.MethodGet, metrics.OutcomeCached)
			return decode(body, out)
		}
	}

	body, err := c.do(ctx, http.MethodGet, path, nil, opts)
	if err != nil {
		return err
	}

	if c.cache != nil && opts.CacheTTL > 0 {
		if err := c.cache.Set(ctx, key, body, opts.CacheTTL); err != nil {
			c.log.Warn("cache write failed", zap.String("path", path), zap.Error(err))
		}
	}
	return decode(body, out)
}

func (c *Client) Post(ctx context.Context, path string, body any, opts Options, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%w: encoding request: %v", ErrRequestFailed, err)
	}

	resp, err := c.do(ctx, http.MethodPost, path, payload, opts)
	if err != nil {
		return err
	}
	return decode(resp, out)
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte, opts Options) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reader)
	if err != nil {
		c.metrics.ProviderRequest(c.name, method, metrics.OutcomeError)
		return nil, fmt.Errorf("%w: %s %s: %v", ErrRequestFailed, method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.ProviderRequest(c.name, method, metrics.OutcomeError)
		c.log.Debug("request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("%w: %s %s: %v", ErrRequestFailed, method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		c.metrics.ProviderRequest(c.name, method, metrics.OutcomeError)
		return nil, fmt.Errorf("%w: reading %s: %v", ErrRequestFailed, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.ProviderRequest(c.name, method, metrics.OutcomeError)
		c.log.Debug("bad status", zap.String("method", method), zap.String("path", path), zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: %s %s returned %d: %s", ErrBadStatus, method, path, resp.StatusCode, snippet(body))
	}

	if opts.CheckStatus != nil && !opts.CheckStatus(body) {
		c.metrics.ProviderRequest(c.name, method, metrics.OutcomeInvalid)
		return nil, fmt.Errorf("%w: %s %s: %s", ErrUnexpectedResponse, method, path, snippet(body))
	}

	c.metrics.ProviderRequest(c.name, method, metrics.OutcomeOK)
	return body, nil
}

func (c *Client) url(path string) string {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(c.query) == 0 {
		return u
	}
	sep := "?"
	if strings.Contains(u, "?") {
		sep = "&"
	}
	return u + sep + c.query.Encode()
}

func decode(body []byte, out any) error {
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}
	return nil
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
