package feed

import (
	"encoding/json"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(n int) []Post {
	posts := make([]Post, n)
	for i := range posts {
		posts[i] = Post{ID: strconv.Itoa(100 - i)}
	}
	return posts
}

func TestFilterSinceCursor(t *testing.T) {
	posts := ids(5)

	for k := 0; k < len(posts); k++ {
		got := FilterPosts(posts, posts[k].ID)
		assert.Len(t, got, k, "cursor at position %d", k)
		assert.Equal(t, posts[:k], got)
	}
}

func TestFilterSinceCursorNoMatch(t *testing.T) {
	posts := ids(3)

	assert.Equal(t, posts, FilterPosts(posts, ""))
	assert.Equal(t, posts, FilterPosts(posts, "does-not-exist"))
	assert.Empty(t, FilterPosts(nil, "1"))
}

func TestFilterSinceCursorDoesNotAliasTail(t *testing.T) {
	posts := ids(3)
	got := FilterPosts(posts, posts[1].ID)
	got = append(got, Post{ID: "new"})
	assert.Equal(t, "99", posts[1].ID, "appending to the result must not overwrite the input")
	assert.Len(t, got, 2)
}

func TestFilterSinceCursorGeneric(t *testing.T) {
	words := []string{"c", "b", "a"}
	got := FilterSinceCursor(words, "a", func(s string) string { return s })
	assert.Equal(t, []string{"c", "b"}, got)
}

func TestParsePlatform(t *testing.T) {
	p, err := ParsePlatform(" Twitter ")
	require.NoError(t, err)
	assert.Equal(t, Twitter, p)

	_, err = ParsePlatform("myspace")
	assert.Error(t, err)
}

func TestPostJSONOmitsImageOutsideInstagram(t *testing.T) {
	data, err := json.Marshal(Post{ID: "1", Type: Twitter})
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.NotContains(t, fields, "image")
	for _, key := range []string{"id", "type", "picture_url", "status", "user_id", "user_name", "time", "utc"} {
		assert.Contains(t, fields, key)
	}
}

func TestPostJSONInstagramImage(t *testing.T) {
	data, err := json.Marshal(Post{ID: "1", Type: Instagram})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"image":null`)

	data, err = json.Marshal(Post{ID: "2", Type: Instagram, Image: "https://cdn.example/2.jpg"})
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Equal(t, "https://cdn.example/2.jpg", fields["image"])
	assert.Equal(t, "instagram", fields["type"])
}

func TestPostJSONRoundTripsThroughSlice(t *testing.T) {
	data, err := json.Marshal([]Post{{ID: "1", Type: Instagram}, {ID: "2", Type: Facebook}})
	require.NoError(t, err)

	var out []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	require.Len(t, out, 2)
	assert.Contains(t, out[0], "image")
	assert.Nil(t, out[0]["image"])
	assert.NotContains(t, out[1], "image")
}
