package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"hashfeed/pkg/errors"
	"hashfeed/pkg/logger"
	"hashfeed/pkg/transport"
)

// DefaultErrorType labels Instagram failures whose payload names no type
const DefaultErrorType = "InstagramAPIException"

// Credentials identify the application and, optionally, the user
type Credentials struct {
	ClientID     string
	ClientSecret string
	AccessToken  string
}

// Client calls the Instagram v1 API
type Client struct {
	creds      Credentials
	transport  transport.Doer
	baseURL    string
	normalizer errors.Normalizer
	logger     logger.Logger
}

// NewClient creates a new Instagram API client
func NewClient(creds Credentials, tr transport.Doer, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Client{
		creds:      creds,
		transport:  tr,
		baseURL:    BaseURL,
		normalizer: errors.Normalizer{DefaultType: DefaultErrorType},
		logger:     log.WithField("platform", "instagram"),
	}
}

// SetBaseURL points the client at another API root
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = strings.TrimRight(baseURL, "/")
}

// WithAccessToken returns a copy of the client that authenticates as a user
func (c *Client) WithAccessToken(token string) *Client {
	cp := *c
	cp.creds.AccessToken = token
	return &cp
}

// Credentials returns the credentials the client was built with
func (c *Client) Credentials() Credentials {
	return c.creds
}

// Call invokes endpoint and returns the decoded envelope. Failures are
// returned as *errors.Error.
func (c *Client) Call(ctx context.Context, endpoint, method string, params url.Values) (*Response, error) {
	query := c.authParams()
	for key, values := range params {
		query[key] = values
	}

	body, err := c.transport.Request(ctx, strings.ToUpper(method), c.baseURL+endpoint, query)
	if err != nil {
		return nil, withPlatform(err)
	}

	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.WarnWithFields("failed to parse JSON response", map[string]interface{}{
			"endpoint": endpoint,
			"error":    err.Error(),
		})
		return nil, errors.Decode(err, body).WithPlatform("instagram")
	}

	if resp.Meta == nil {
		return nil, c.normalizer.NormalizeBody(body).WithPlatform("instagram")
	}
	if resp.Meta.Code != http.StatusOK {
		code := resp.Meta.Code
		payload := errors.Payload{
			ErrorCode: &code,
			Error:     errors.ObjectField(resp.Meta.ErrorMessage, resp.Meta.ErrorType),
		}
		apiErr := c.normalizer.Normalize(payload).WithPlatform("instagram")
		c.logger.WithError(apiErr).WarnWithFields("instagram API error", map[string]interface{}{
			"endpoint": endpoint,
		})
		return nil, apiErr
	}

	return &resp, nil
}

// RecentTagMedia fetches the most recent media for tag
func (c *Client) RecentTagMedia(ctx context.Context, tag string) ([]Media, error) {
	endpoint := TagMediaRecentPath(tag)

	resp, err := c.Call(ctx, endpoint, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}

	var media []Media
	if len(resp.Data) > 0 && string(resp.Data) != "null" {
		if err := json.Unmarshal(resp.Data, &media); err != nil {
			return nil, errors.Decode(fmt.Errorf("tag media: %w", err), resp.Data).WithPlatform("instagram")
		}
	}

	c.logger.DebugWithFields("fetched tag media", map[string]interface{}{
		"tag":   tag,
		"count": len(media),
	})
	return media, nil
}

// authParams returns access_token when set, else client_id. Never both.
func (c *Client) authParams() url.Values {
	params := url.Values{}
	if c.creds.AccessToken != "" {
		params.Set("access_token", c.creds.AccessToken)
	} else if c.creds.ClientID != "" {
		params.Set("client_id", c.creds.ClientID)
	}
	return params
}

func withPlatform(err error) error {
	if e, ok := errors.As(err); ok {
		return e.WithPlatform("instagram")
	}
	return err
}
