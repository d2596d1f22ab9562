package instagram

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Response is the envelope of every v1 API reply
type Response struct {
	Meta       *Meta           `json:"meta"`
	Data       json.RawMessage `json:"data"`
	Pagination *Pagination     `json:"pagination,omitempty"`
}

// Meta carries the API level status
type Meta struct {
	Code         int    `json:"code"`
	ErrorType    string `json:"error_type,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// Pagination links to older pages
type Pagination struct {
	NextURL   string `json:"next_url,omitempty"`
	NextMaxID string `json:"next_max_id,omitempty"`
}

// Media is a single post returned by the tag endpoints
type Media struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	User        User      `json:"user"`
	Caption     *Caption  `json:"caption"`
	Images      Images    `json:"images"`
	CreatedTime EpochTime `json:"created_time"`
	Link        string    `json:"link,omitempty"`
}

// CaptionText returns the caption or an empty string
func (m Media) CaptionText() string {
	if m.Caption == nil {
		return ""
	}
	return m.Caption.Text
}

// User is the author of a media item
type User struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	FullName       string `json:"full_name"`
	ProfilePicture string `json:"profile_picture"`
}

// Caption is the text attached to a media item
type Caption struct {
	ID   string `json:"id,omitempty"`
	Text string `json:"text"`
}

// Images holds the available renditions
type Images struct {
	Thumbnail          Image `json:"thumbnail"`
	LowResolution      Image `json:"low_resolution"`
	StandardResolution Image `json:"standard_resolution"`
}

// Image is one rendition of a media item
type Image struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// EpochTime is a unix timestamp that Instagram sends as a string. Zero
// means missing or unparseable.
type EpochTime int64

func (t *EpochTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*t = 0
			return nil
		}
		data = []byte(s)
	}
	// unparseable values decode to zero rather than failing the whole page
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		*t = 0
		return nil
	}
	*t = EpochTime(n)
	return nil
}

// Unix returns the timestamp in seconds
func (t EpochTime) Unix() int64 { return int64(t) }
