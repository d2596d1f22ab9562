package gateway

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hashfeed/pkg/config"
	"hashfeed/pkg/errors"
	"hashfeed/pkg/facebook"
	"hashfeed/pkg/feed"
	"hashfeed/pkg/instagram"
	"hashfeed/pkg/logger"
	"hashfeed/pkg/transport"
	"hashfeed/pkg/twitter"
)

type fakeInstagram struct {
	gotTag string
	media  []instagram.Media
	err    error
}

func (f *fakeInstagram) RecentTagMedia(ctx context.Context, tag string) ([]instagram.Media, error) {
	f.gotTag = tag
	return f.media, f.err
}

type fakeFacebook struct {
	gotQuery string
	posts    []facebook.Post
}

func (f *fakeFacebook) SearchPosts(ctx context.Context, query string) ([]facebook.Post, error) {
	f.gotQuery = query
	return f.posts, nil
}

type fakeTwitter struct {
	gotQuery, gotSince string
	statuses           []twitter.Status
}

func (f *fakeTwitter) SearchRecent(ctx context.Context, query, sinceID string) ([]twitter.Status, error) {
	f.gotQuery, f.gotSince = query, sinceID
	return f.statuses, nil
}

func formatter(t *testing.T) *feed.Formatter {
	t.Helper()
	f, err := feed.NewFormatter("UTC")
	require.NoError(t, err)
	return f
}

func TestInstagramSourceStripsHashAndFilters(t *testing.T) {
	ig := &fakeInstagram{media: []instagram.Media{{ID: "3"}, {ID: "2"}, {ID: "1"}}}
	src := &InstagramSource{Client: ig, Formatter: formatter(t)}

	posts, err := src.Fetch(context.Background(), "#fml", "2")
	require.NoError(t, err)

	assert.Equal(t, "fml", ig.gotTag)
	require.Len(t, posts, 1)
	assert.Equal(t, "3", posts[0].ID)
	assert.Equal(t, feed.Instagram, posts[0].Type)
}

func TestFacebookSourceKeepsHash(t *testing.T) {
	fb := &fakeFacebook{posts: []facebook.Post{{ID: "b"}, {ID: "a"}}}
	src := &FacebookSource{Client: fb, Formatter: formatter(t)}

	posts, err := src.Fetch(context.Background(), "#fml", "")
	require.NoError(t, err)
	assert.Equal(t, "#fml", fb.gotQuery)
	assert.Len(t, posts, 2)
}

func TestTwitterSourcePassesSinceID(t *testing.T) {
	tw := &fakeTwitter{statuses: []twitter.Status{{IDStr: "9"}, {IDStr: "8"}}}
	src := &TwitterSource{Client: tw, Formatter: formatter(t)}

	posts, err := src.Fetch(context.Background(), "#fml", "8")
	require.NoError(t, err)
	assert.Equal(t, "8", tw.gotSince)
	require.Len(t, posts, 1)
	assert.Equal(t, "@", posts[0].UserName)
}

func TestServiceFetch(t *testing.T) {
	ig := &fakeInstagram{}
	tl := logger.NewTestLogger()
	svc := NewService("#fml", tl,
		&TwitterSource{Client: &fakeTwitter{}, Formatter: formatter(t)},
		&InstagramSource{Client: ig, Formatter: formatter(t)},
	)

	assert.Equal(t, []feed.Platform{feed.Instagram, feed.Twitter}, svc.Platforms())

	posts, err := svc.Fetch(context.Background(), feed.Instagram, "")
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
	assert.True(t, tl.HasMessage("feed served"))

	_, err = svc.Fetch(context.Background(), feed.Facebook, "")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, errors.HTTPStatus(err))
}

func TestServiceFetchError(t *testing.T) {
	boom := &errors.Error{Kind: errors.KindAPI, Type: "OAuthException", Message: "expired"}
	tl := logger.NewTestLogger()
	svc := NewService("#fml", tl, &InstagramSource{Client: &fakeInstagram{err: boom}, Formatter: formatter(t)})

	_, err := svc.Fetch(context.Background(), feed.Instagram, "")
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, boom))
	assert.Len(t, tl.GetMessagesByLevel("WARN"), 1)
}

func TestFromConfig(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"meta":{"code":200},"data":[{"id":"1","user":{"id":"u"},"created_time":"1400000000"}]}`))
	}))
	defer server.Close()

	cfg := config.DefaultConfig()
	cfg.Hashtag = "#fml"
	cfg.Timezone = "UTC"
	cfg.Instagram.ClientID = "cid"
	cfg.Instagram.BaseURL = server.URL
	cfg.Twitter.ConsumerKey = "ck"
	cfg.Twitter.ConsumerSecret = "cs"
	cfg.Twitter.AccessToken = "at"
	cfg.Twitter.AccessTokenSecret = "ats"

	tr := transport.New(cfg.Transport, logger.NewNopLogger())
	svc, err := FromConfig(cfg, tr, logger.NewNopLogger())
	require.NoError(t, err)

	assert.Equal(t, "#fml", svc.Hashtag())
	assert.Equal(t, []feed.Platform{feed.Instagram, feed.Twitter}, svc.Platforms())

	posts, err := svc.Fetch(context.Background(), feed.Instagram, "")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "May 13, 2014, 4:53 pm", posts[0].Time)

	cfg.Timezone = "Nowhere/Special"
	_, err = FromConfig(cfg, tr, logger.NewNopLogger())
	assert.Error(t, err)
}
