package instagram

import (
	"net/url"
	"strings"
)

const (
	// BaseURL is the root of the Instagram v1 API
	BaseURL = "https://api.instagram.com/v1"

	// TagMediaRecentEndpoint lists the most recent media for a tag
	TagMediaRecentEndpoint = "/tags/%s/media/recent"
)

// TagMediaRecentPath builds the endpoint path for a tag, without the '#'
func TagMediaRecentPath(tag string) string {
	tag = strings.TrimPrefix(tag, "#")
	return "/tags/" + url.PathEscape(tag) + "/media/recent"
}

// UserID returns the user id embedded in an access token, which is the
// segment before the first '.'.
func UserID(accessToken string) string {
	id, _, _ := strings.Cut(accessToken, ".")
	return id
}
