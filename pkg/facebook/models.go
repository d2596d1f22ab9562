package facebook

import "time"

// Post is one entry of a Graph /search?type=post reply
type Post struct {
	ID          string `json:"id" facebook:"id"`
	Type        string `json:"type" facebook:"type"`
	From        From   `json:"from" facebook:"from"`
	Message     string `json:"message" facebook:"message"`
	CreatedTime string `json:"created_time" facebook:"created_time"`
}

// From is the author of a post
type From struct {
	ID   string `json:"id" facebook:"id"`
	Name string `json:"name" facebook:"name"`
}

// Graph timestamps, e.g. 2014-05-13T10:00:00+0000
const timeLayout = "2006-01-02T15:04:05-0700"

// ParseTime parses a Graph timestamp. It accepts the Graph offset form and
// RFC 3339.
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// PictureURL is the public profile picture for a Graph user id
func PictureURL(userID string) string {
	return "http://graph.facebook.com/" + userID + "/picture"
}
