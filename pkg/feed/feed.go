// Package feed normalizes platform posts into one record shape and trims
// lists at a client supplied cursor.
package feed

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Platform names a supported source
type Platform string

const (
	Instagram Platform = "instagram"
	Facebook  Platform = "facebook"
	Twitter   Platform = "twitter"
)

// Platforms lists every platform in serving order
var Platforms = []Platform{Instagram, Facebook, Twitter}

// ParsePlatform resolves a platform name, case insensitively
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Platforms {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown platform %q", s)
}

func (p Platform) String() string { return string(p) }

// Post is the normalized record served to front ends. Image is only emitted
// for Instagram, where it is null when the media has no URL.
type Post struct {
	ID         string   `json:"id"`
	Type       Platform `json:"type"`
	PictureURL string   `json:"picture_url"`
	Status     string   `json:"status"`
	Image      string   `json:"image,omitempty"`
	UserID     string   `json:"user_id"`
	UserName   string   `json:"user_name"`
	Time       string   `json:"time"`
	UTC        int64    `json:"utc"`
}

// MarshalJSON keeps the image key on Instagram records even when empty
func (p Post) MarshalJSON() ([]byte, error) {
	type plain Post
	if p.Type != Instagram {
		return json.Marshal(plain(p))
	}

	var image *string
	if p.Image != "" {
		image = &p.Image
	}
	return json.Marshal(struct {
		ID         string   `json:"id"`
		Type       Platform `json:"type"`
		PictureURL string   `json:"picture_url"`
		Status     string   `json:"status"`
		Image      *string  `json:"image"`
		UserID     string   `json:"user_id"`
		UserName   string   `json:"user_name"`
		Time       string   `json:"time"`
		UTC        int64    `json:"utc"`
	}{p.ID, p.Type, p.PictureURL, p.Status, image, p.UserID, p.UserName, p.Time, p.UTC})
}

// FilterSinceCursor returns the items before the first one whose id equals
// cursor. An empty cursor, or one that matches nothing, returns items
// unchanged. Order is preserved.
func FilterSinceCursor[T any](items []T, cursor string, idOf func(T) string) []T {
	if cursor == "" {
		return items
	}
	for i, item := range items {
		if idOf(item) == cursor {
			return items[:i:i]
		}
	}
	return items
}

// FilterPosts is FilterSinceCursor for normalized posts
func FilterPosts(posts []Post, cursor string) []Post {
	return FilterSinceCursor(posts, cursor, func(p Post) string { return p.ID })
}
