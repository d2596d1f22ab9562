package feed

import (
	"fmt"
	"time"
	_ "time/tzdata" // zone database for hosts without one

	"hashfeed/pkg/facebook"
	"hashfeed/pkg/instagram"
	"hashfeed/pkg/twitter"
)

const (
	// DefaultTimezone is where the human readable time is rendered
	DefaultTimezone = "Asia/Karachi"

	// TimeLayout renders e.g. "May 13, 2014, 3:00 pm"
	TimeLayout = "January 2, 2006, 3:04 pm"
)

// Formatter maps platform posts into Post records
type Formatter struct {
	Location *time.Location
}

// NewFormatter returns a formatter rendering times in the named zone
func NewFormatter(timezone string) (*Formatter, error) {
	if timezone == "" {
		timezone = DefaultTimezone
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	return &Formatter{Location: loc}, nil
}

// stamp returns the display time and epoch seconds. Zero means unknown.
func (f *Formatter) stamp(t time.Time, ok bool) (string, int64) {
	if !ok || t.IsZero() {
		return "", 0
	}
	loc := f.Location
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(TimeLayout), t.Unix()
}

// Instagram formats one media item
func (f *Formatter) Instagram(m instagram.Media) Post {
	epoch := m.CreatedTime.Unix()
	display, utc := f.stamp(time.Unix(epoch, 0), epoch != 0)
	return Post{
		ID:         m.ID,
		Type:       Instagram,
		PictureURL: m.User.ProfilePicture,
		Status:     m.CaptionText(),
		Image:      m.Images.StandardResolution.URL,
		UserID:     m.User.ID,
		UserName:   m.User.FullName,
		Time:       display,
		UTC:        utc,
	}
}

// Facebook formats one Graph post
func (f *Formatter) Facebook(p facebook.Post) Post {
	t, err := facebook.ParseTime(p.CreatedTime)
	display, utc := f.stamp(t, err == nil)
	return Post{
		ID:         p.ID,
		Type:       Facebook,
		PictureURL: facebook.PictureURL(p.From.ID),
		Status:     p.Message,
		UserID:     p.From.ID,
		UserName:   p.From.Name,
		Time:       display,
		UTC:        utc,
	}
}

// Twitter formats one tweet
func (f *Formatter) Twitter(s twitter.Status) Post {
	t, err := twitter.ParseTime(s.CreatedAt)
	display, utc := f.stamp(t, err == nil)
	return Post{
		ID:         s.IDStr,
		Type:       Twitter,
		PictureURL: s.User.ProfileImageURL,
		Status:     s.Text,
		UserID:     s.User.IDStr,
		UserName:   "@" + s.User.ScreenName,
		Time:       display,
		UTC:        utc,
	}
}

// InstagramAll formats a page of media, never returning nil
func (f *Formatter) InstagramAll(media []instagram.Media) []Post {
	return formatAll(media, f.Instagram)
}

// FacebookAll formats a page of Graph posts, never returning nil
func (f *Formatter) FacebookAll(posts []facebook.Post) []Post {
	return formatAll(posts, f.Facebook)
}

// TwitterAll formats a page of tweets, never returning nil
func (f *Formatter) TwitterAll(statuses []twitter.Status) []Post {
	return formatAll(statuses, f.Twitter)
}

func formatAll[T any](items []T, format func(T) Post) []Post {
	out := make([]Post, 0, len(items))
	for _, item := range items {
		out = append(out, format(item))
	}
	return out
}
