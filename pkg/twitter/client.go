// Package twitter searches recent tweets through the v1.1 REST API using
// OAuth 1.0a user context signing.
package twitter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dghubble/oauth1"

	"hashfeed/pkg/config"
	"hashfeed/pkg/errors"
	"hashfeed/pkg/logger"
	"hashfeed/pkg/transport"
)

const (
	// BaseURL is the root of the v1.1 REST API
	BaseURL = "https://api.twitter.com/1.1"

	// DefaultErrorType labels failures whose payload names no type
	DefaultErrorType = "TwitterAPIException"

	// DefaultCount is the page size requested from search/tweets
	DefaultCount = 20

	searchEndpoint = "/search/tweets.json"
)

// Credentials are the four OAuth 1.0a values
type Credentials struct {
	ConsumerKey       string
	ConsumerSecret    string
	AccessToken       string
	AccessTokenSecret string
}

// Client calls the Twitter REST API
type Client struct {
	transport  transport.Doer
	baseURL    string
	count      int
	normalizer errors.Normalizer
	logger     logger.Logger
}

// NewClient creates a signing client layered on base, so requests keep the
// shared timeouts and user agent.
func NewClient(creds Credentials, base *http.Client, count int, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	if base == nil {
		base = http.DefaultClient
	}
	if count <= 0 {
		count = DefaultCount
	}

	oauthCfg := oauth1.NewConfig(creds.ConsumerKey, creds.ConsumerSecret)
	token := oauth1.NewToken(creds.AccessToken, creds.AccessTokenSecret)

	ctx := context.WithValue(context.Background(), oauth1.HTTPClient, base)
	signed := oauthCfg.Client(ctx, token)
	signed.Timeout = base.Timeout

	log = log.WithField("platform", "twitter")
	return &Client{
		transport:  transport.New(config.TransportConfig{Timeout: base.Timeout}, log, transport.WithHTTPClient(signed)),
		baseURL:    BaseURL,
		count:      count,
		normalizer: errors.Normalizer{DefaultType: DefaultErrorType},
		logger:     log,
	}
}

// SetBaseURL points the client at another API root
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = strings.TrimRight(baseURL, "/")
}

// SearchRecent returns the most recent tweets matching query. A non-empty
// sinceID is passed through as since_id.
func (c *Client) SearchRecent(ctx context.Context, query, sinceID string) ([]Status, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("result_type", "recent")
	params.Set("count", strconv.Itoa(c.count))
	if sinceID != "" {
		params.Set("since_id", sinceID)
	}

	body, err := c.transport.Request(ctx, http.MethodGet, c.baseURL+searchEndpoint, params)
	if err != nil {
		if e, ok := errors.As(err); ok {
			return nil, e.WithPlatform("twitter")
		}
		return nil, err
	}

	var resp SearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.Decode(err, body).WithPlatform("twitter")
	}

	if len(resp.Errors) > 0 {
		first := resp.Errors[0]
		code, msg := first.Code, first.Message
		apiErr := c.normalizer.Normalize(errors.Payload{
			ErrorCode: &code,
			ErrorMsg:  &msg,
		}).WithPlatform("twitter")
		c.logger.WithError(apiErr).Warn("twitter API error")
		return nil, apiErr
	}

	c.logger.DebugWithFields("search completed", map[string]interface{}{
		"query":    query,
		"since_id": sinceID,
		"count":    len(resp.Statuses),
	})
	return resp.Statuses, nil
}
