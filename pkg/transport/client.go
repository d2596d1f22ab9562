package transport

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"hashfeed/pkg/config"
	"hashfeed/pkg/errors"
	"hashfeed/pkg/logger"
)

// Doer is the contract platform clients depend on
type Doer interface {
	Request(ctx context.Context, method, rawURL string, params url.Values) ([]byte, error)
}

// Client performs outbound platform requests. It never retries and returns
// the body for any status code.
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	logger     logger.Logger
}

// Option customises a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client entirely
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a transport client from cfg
func New(cfg config.TransportConfig, log logger.Logger, opts ...Option) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = config.DefaultUserAgent
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	base := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout: cfg.ConnectTimeout,
		}).DialContext,
		TLSHandshakeTimeout:   cfg.ConnectTimeout,
		ExpectContinueTimeout: 0,
		DisableKeepAlives:     true,
		ForceAttemptHTTP2:     true,
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: &headerTransport{base: base, userAgent: cfg.UserAgent},
		},
		headers: map[string]string{
			"Accept": "application/json",
		},
		logger: log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HTTPClient exposes the tuned client for SDKs that build their own requests
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// Request issues method against rawURL. GET params go in the query string,
// POST params in a form body.
func (c *Client) Request(ctx context.Context, method, rawURL string, params url.Values) ([]byte, error) {
	var body io.Reader
	target := rawURL

	switch method {
	case http.MethodGet:
		target = AppendQuery(rawURL, params)
	case http.MethodPost:
		body = strings.NewReader(params.Encode())
	default:
		return nil, &errors.Error{
			Kind:    errors.KindTransport,
			Type:    errors.TypeTransport,
			Message: fmt.Sprintf("unsupported method %q", method),
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, errors.Transport(err)
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.LogUpstreamCall(c.logger, method, target, 0, time.Since(start), err)
		return nil, errors.Transport(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	logger.LogUpstreamCall(c.logger, method, target, resp.StatusCode, time.Since(start), err)
	if err != nil {
		return nil, errors.Transport(err)
	}

	return data, nil
}

// AppendQuery adds params to rawURL, joining with '&' when a query already
// exists. Without params the URL is returned unmodified.
func AppendQuery(rawURL string, params url.Values) string {
	if len(params) == 0 {
		return rawURL
	}
	sep := "?"
	if strings.Contains(rawURL, "?") {
		sep = "&"
	}
	return rawURL + sep + params.Encode()
}

// headerTransport sets the user agent and never sends Expect: 100-continue
type headerTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Del("Expect")
	if t.userAgent != "" {
		req.Header.Set("User-Agent", t.userAgent)
	}
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}
