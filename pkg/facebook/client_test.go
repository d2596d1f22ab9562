package facebook

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hashfeed/pkg/errors"
	"hashfeed/pkg/logger"
)

// rewriteTransport sends every request to the test server
type rewriteTransport struct {
	target *url.URL
}

func (rt *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.URL.Scheme = rt.target.Scheme
	req.URL.Host = rt.target.Host
	return http.DefaultTransport.RoundTrip(req)
}

func newTestClient(t *testing.T, creds Credentials, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	target, err := url.Parse(server.URL)
	require.NoError(t, err)
	hc := &http.Client{Transport: &rewriteTransport{target: target}, Timeout: 5 * time.Second}
	return NewClient(creds, hc, 0, logger.NewNopLogger())
}

const searchReply = `{
  "data": [
    {"id": "1_1", "type": "status", "from": {"id": "10", "name": "Ann"}, "message": "hello #fml", "created_time": "2014-05-13T10:00:00+0000"},
    {"id": "2_2", "type": "photo", "from": {"id": "11", "name": "Bob"}, "message": "pic", "created_time": "2014-05-13T09:00:00+0000"},
    {"id": "3_3", "type": "status", "from": {"id": "12", "name": "Cy"}, "message": "bye #fml", "created_time": "2014-05-13T08:00:00+0000"}
  ]
}`

func TestSearchPostsKeepsStatuses(t *testing.T) {
	var gotPath string
	var gotQuery url.Values
	client := newTestClient(t, Credentials{AppID: "app", AppSecret: "secret"}, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = r.ParseForm()
		gotQuery = r.Form
		_, _ = w.Write([]byte(searchReply))
	})

	posts, err := client.SearchPosts(context.Background(), "#fml")
	require.NoError(t, err)
	require.Len(t, posts, 2)

	assert.Contains(t, gotPath, "search")
	assert.Equal(t, "#fml", gotQuery.Get("q"))
	assert.Equal(t, "post", gotQuery.Get("type"))
	assert.Equal(t, "100", gotQuery.Get("limit"))
	assert.Equal(t, searchFields, gotQuery.Get("fields"))
	assert.Equal(t, "app|secret", gotQuery.Get("access_token"))

	assert.Equal(t, "1_1", posts[0].ID)
	assert.Equal(t, "10", posts[0].From.ID)
	assert.Equal(t, "Ann", posts[0].From.Name)
	assert.Equal(t, "3_3", posts[1].ID)
}

func TestSearchPostsExplicitToken(t *testing.T) {
	var gotToken string
	client := newTestClient(t, Credentials{AccessToken: "user-token"}, func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		gotToken = r.Form.Get("access_token")
		_, _ = w.Write([]byte(`{"data":[]}`))
	})

	posts, err := client.SearchPosts(context.Background(), "#fml")
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.Equal(t, "user-token", gotToken)
}

func TestSearchPostsGraphError(t *testing.T) {
	client := newTestClient(t, Credentials{AppID: "app", AppSecret: "secret"}, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid OAuth access token.","type":"OAuthException","code":190}}`))
	})

	_, err := client.SearchPosts(context.Background(), "#fml")
	require.Error(t, err)

	e, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.KindAPI, e.Kind)
	assert.Equal(t, "OAuthException", e.Type)
	assert.Equal(t, 190, e.Code)
	assert.Equal(t, "Invalid OAuth access token.", e.Message)
	assert.Equal(t, "facebook", e.Platform)
}

func TestSearchPostsUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	target, _ := url.Parse(server.URL)
	server.Close()

	hc := &http.Client{Transport: &rewriteTransport{target: target}, Timeout: time.Second}
	client := NewClient(Credentials{AppID: "app", AppSecret: "secret"}, hc, 10, logger.NewNopLogger())

	_, err := client.SearchPosts(context.Background(), "#fml")
	e, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.KindTransport, e.Kind)
}

func TestParseTime(t *testing.T) {
	ts, err := ParseTime("2014-05-13T10:00:00+0000")
	require.NoError(t, err)
	assert.Equal(t, int64(1399975200), ts.Unix())

	ts, err = ParseTime("2014-05-13T10:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, int64(1399975200), ts.Unix())

	_, err = ParseTime("last tuesday")
	assert.Error(t, err)
}

func TestPictureURL(t *testing.T) {
	assert.Equal(t, "http://graph.facebook.com/10/picture", PictureURL("10"))
}
