package twitter

import "time"

// SearchResponse is the body of search/tweets.json
type SearchResponse struct {
	Statuses []Status   `json:"statuses"`
	Errors   []APIError `json:"errors,omitempty"`
}

// APIError is one entry of the errors array
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Status is a tweet
type Status struct {
	IDStr     string `json:"id_str"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
	User      User   `json:"user"`
}

// User is the author of a tweet
type User struct {
	IDStr           string `json:"id_str"`
	ScreenName      string `json:"screen_name"`
	Name            string `json:"name"`
	ProfileImageURL string `json:"profile_image_url"`
}

// ParseTime parses created_at, e.g. "Wed Aug 27 13:08:45 +0000 2008"
func ParseTime(s string) (time.Time, error) {
	return time.Parse(time.RubyDate, s)
}
