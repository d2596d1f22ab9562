// Package gateway fetches a hashtag feed from each configured platform and
// returns normalized, cursor filtered posts.
package gateway

import (
	"context"
	"strings"
	"time"

	"hashfeed/pkg/errors"
	"hashfeed/pkg/facebook"
	"hashfeed/pkg/feed"
	"hashfeed/pkg/instagram"
	"hashfeed/pkg/logger"
	"hashfeed/pkg/twitter"
)

// Source fetches one platform's feed
type Source interface {
	Platform() feed.Platform
	Fetch(ctx context.Context, hashtag, cursor string) ([]feed.Post, error)
}

// InstagramSearcher is the part of the Instagram client a source needs
type InstagramSearcher interface {
	RecentTagMedia(ctx context.Context, tag string) ([]instagram.Media, error)
}

// FacebookSearcher is the part of the Facebook client a source needs
type FacebookSearcher interface {
	SearchPosts(ctx context.Context, query string) ([]facebook.Post, error)
}

// TwitterSearcher is the part of the Twitter client a source needs
type TwitterSearcher interface {
	SearchRecent(ctx context.Context, query, sinceID string) ([]twitter.Status, error)
}

// InstagramSource serves the Instagram tag feed
type InstagramSource struct {
	Client    InstagramSearcher
	Formatter *feed.Formatter
}

func (s *InstagramSource) Platform() feed.Platform { return feed.Instagram }

// Fetch strips the leading '#' and trims the raw media at cursor before
// formatting.
func (s *InstagramSource) Fetch(ctx context.Context, hashtag, cursor string) ([]feed.Post, error) {
	media, err := s.Client.RecentTagMedia(ctx, strings.TrimPrefix(hashtag, "#"))
	if err != nil {
		return nil, err
	}
	media = feed.FilterSinceCursor(media, cursor, func(m instagram.Media) string { return m.ID })
	return s.Formatter.InstagramAll(media), nil
}

// FacebookSource serves Facebook status posts
type FacebookSource struct {
	Client    FacebookSearcher
	Formatter *feed.Formatter
}

func (s *FacebookSource) Platform() feed.Platform { return feed.Facebook }

func (s *FacebookSource) Fetch(ctx context.Context, hashtag, cursor string) ([]feed.Post, error) {
	posts, err := s.Client.SearchPosts(ctx, hashtag)
	if err != nil {
		return nil, err
	}
	return feed.FilterPosts(s.Formatter.FacebookAll(posts), cursor), nil
}

// TwitterSource serves recent tweets. The cursor also goes upstream as
// since_id.
type TwitterSource struct {
	Client    TwitterSearcher
	Formatter *feed.Formatter
}

func (s *TwitterSource) Platform() feed.Platform { return feed.Twitter }

func (s *TwitterSource) Fetch(ctx context.Context, hashtag, cursor string) ([]feed.Post, error) {
	statuses, err := s.Client.SearchRecent(ctx, hashtag, cursor)
	if err != nil {
		return nil, err
	}
	return feed.FilterPosts(s.Formatter.TwitterAll(statuses), cursor), nil
}

// Service routes feed requests to the configured sources
type Service struct {
	hashtag string
	sources map[feed.Platform]Source
	logger  logger.Logger
}

// NewService creates a service for hashtag over sources
func NewService(hashtag string, log logger.Logger, sources ...Source) *Service {
	if log == nil {
		log = logger.GetLogger()
	}
	byPlatform := make(map[feed.Platform]Source, len(sources))
	for _, src := range sources {
		byPlatform[src.Platform()] = src
	}
	return &Service{
		hashtag: hashtag,
		sources: byPlatform,
		logger:  log.WithField("component", "gateway"),
	}
}

// Hashtag returns the configured hashtag
func (s *Service) Hashtag() string { return s.hashtag }

// Platforms lists the configured platforms in serving order
func (s *Service) Platforms() []feed.Platform {
	out := make([]feed.Platform, 0, len(s.sources))
	for _, p := range feed.Platforms {
		if _, ok := s.sources[p]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Fetch returns the posts newer than cursor for platform. The result is
// never nil on success.
func (s *Service) Fetch(ctx context.Context, platform feed.Platform, cursor string) ([]feed.Post, error) {
	src, ok := s.sources[platform]
	if !ok {
		return nil, errors.NotFound("platform %q is not configured", platform)
	}

	start := time.Now()
	posts, err := src.Fetch(ctx, s.hashtag, cursor)
	if err != nil {
		s.logger.WithError(err).WarnWithFields("feed fetch failed", map[string]interface{}{
			"platform": platform.String(),
			"lid":      cursor,
			"duration": time.Since(start),
		})
		return nil, err
	}
	if posts == nil {
		posts = []feed.Post{}
	}

	logger.LogFeedServed(s.logger, platform.String(), cursor, len(posts), time.Since(start))
	return posts, nil
}
