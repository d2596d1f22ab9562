// Package facebook searches public Facebook posts through the Graph API.
package facebook

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"strconv"
	"strings"

	fb "github.com/huandu/facebook/v2"

	"hashfeed/pkg/errors"
	"hashfeed/pkg/logger"
)

const (
	// DefaultErrorType labels Graph failures whose payload names no type
	DefaultErrorType = "FacebookAPIException"

	// DefaultLimit is the page size requested from /search
	DefaultLimit = 100

	searchFields = "id,from.id,from.name,message,type,created_time"

	unreachableMarker = "cannot reach facebook server"
)

// Credentials identify the Facebook application
type Credentials struct {
	AppID       string
	AppSecret   string
	AccessToken string
}

// Client wraps a Graph API session
type Client struct {
	session    *fb.Session
	limit      int
	normalizer errors.Normalizer
	logger     logger.Logger
}

// NewClient creates a Graph client. The app access token is used unless an
// explicit token is configured. hc carries the shared transport settings.
func NewClient(creds Credentials, hc *http.Client, limit int, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	app := fb.New(creds.AppID, creds.AppSecret)
	token := creds.AccessToken
	if token == "" {
		token = app.AppAccessToken()
	}
	session := app.Session(token)
	if hc != nil {
		session.HttpClient = hc
	}

	return &Client{
		session:    session,
		limit:      limit,
		normalizer: errors.Normalizer{DefaultType: DefaultErrorType},
		logger:     log.WithField("platform", "facebook"),
	}
}

// SearchPosts returns recent public status posts matching query
func (c *Client) SearchPosts(ctx context.Context, query string) ([]Post, error) {
	res, err := c.session.WithContext(ctx).Get("/search", fb.Params{
		"q":      query,
		"type":   "post",
		"limit":  strconv.Itoa(c.limit),
		"fields": searchFields,
	})
	if err != nil {
		e := c.classify(err)
		c.logger.WithError(e).Warn("graph search failed")
		return nil, e
	}

	var posts []Post
	if err := res.DecodeField("data", &posts); err != nil {
		// an empty result set has no data member
		if _, ok := res["data"]; ok {
			return nil, errors.Decode(err, nil).WithPlatform("facebook")
		}
	}

	statuses := make([]Post, 0, len(posts))
	for _, p := range posts {
		if p.Type == "status" {
			statuses = append(statuses, p)
		}
	}

	c.logger.DebugWithFields("graph search completed", map[string]interface{}{
		"query":    query,
		"received": len(posts),
		"statuses": len(statuses),
	})
	return statuses, nil
}

// classify turns an SDK error into an *errors.Error
func (c *Client) classify(err error) *errors.Error {
	var fbErr *fb.Error
	if stderrors.As(err, &fbErr) {
		code := fbErr.Code
		payload := errors.Payload{
			ErrorCode: &code,
			Error:     errors.ObjectField(fbErr.Message, fbErr.Type),
		}
		return c.normalizer.Normalize(payload).WithPlatform("facebook")
	}

	// the SDK flattens network failures into its own message
	var netErr net.Error
	if stderrors.As(err, &netErr) || stderrors.Is(err, context.DeadlineExceeded) ||
		stderrors.Is(err, context.Canceled) || strings.Contains(err.Error(), unreachableMarker) {
		return errors.Transport(err).WithPlatform("facebook")
	}
	return errors.Decode(err, nil).WithPlatform("facebook")
}
