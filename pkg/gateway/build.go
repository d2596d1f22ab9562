package gateway

import (
	"hashfeed/pkg/config"
	"hashfeed/pkg/facebook"
	"hashfeed/pkg/feed"
	"hashfeed/pkg/instagram"
	"hashfeed/pkg/logger"
	"hashfeed/pkg/transport"
	"hashfeed/pkg/twitter"
)

// FromConfig wires a Service with a source for every platform whose
// credentials are present in cfg.
func FromConfig(cfg *config.Config, tr *transport.Client, log logger.Logger) (*Service, error) {
	if log == nil {
		log = logger.GetLogger()
	}

	formatter, err := feed.NewFormatter(cfg.Timezone)
	if err != nil {
		return nil, err
	}

	var sources []Source

	if cfg.InstagramEnabled() {
		ig := instagram.NewClient(instagram.Credentials{
			ClientID:     cfg.Instagram.ClientID,
			ClientSecret: cfg.Instagram.ClientSecret,
			AccessToken:  cfg.Instagram.AccessToken,
		}, tr, log)
		if cfg.Instagram.BaseURL != "" {
			ig.SetBaseURL(cfg.Instagram.BaseURL)
		}
		sources = append(sources, &InstagramSource{Client: ig, Formatter: formatter})
	}

	if cfg.FacebookEnabled() {
		fb := facebook.NewClient(facebook.Credentials{
			AppID:       cfg.Facebook.AppID,
			AppSecret:   cfg.Facebook.AppSecret,
			AccessToken: cfg.Facebook.AccessToken,
		}, tr.HTTPClient(), cfg.Facebook.Limit, log)
		sources = append(sources, &FacebookSource{Client: fb, Formatter: formatter})
	}

	if cfg.TwitterEnabled() {
		tw := twitter.NewClient(twitter.Credentials{
			ConsumerKey:       cfg.Twitter.ConsumerKey,
			ConsumerSecret:    cfg.Twitter.ConsumerSecret,
			AccessToken:       cfg.Twitter.AccessToken,
			AccessTokenSecret: cfg.Twitter.AccessTokenSecret,
		}, tr.HTTPClient(), cfg.Twitter.Count, log)
		if cfg.Twitter.BaseURL != "" {
			tw.SetBaseURL(cfg.Twitter.BaseURL)
		}
		sources = append(sources, &TwitterSource{Client: tw, Formatter: formatter})
	}

	svc := NewService(cfg.Hashtag, log, sources...)

	names := make([]string, 0, len(sources))
	for _, p := range svc.Platforms() {
		names = append(names, p.String())
	}
	logger.LogComponentStart("gateway", map[string]interface{}{
		"hashtag":   cfg.Hashtag,
		"platforms": names,
	})
	return svc, nil
}
