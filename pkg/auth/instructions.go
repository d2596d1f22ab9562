package auth

import (
	"fmt"
	"io"
	"strings"

	"hashfeed/pkg/feed"
)

// guides describe where each platform's credentials come from
var guides = map[feed.Platform][]string{
	feed.Instagram: {
		"Register a client at https://www.instagram.com/developer/clients/manage/",
		"Copy the Client ID; it is enough for public tag feeds",
		"Optionally paste a user access token to call the API as that user",
	},
	feed.Facebook: {
		"Create an app at https://developers.facebook.com/apps/",
		"Copy the App ID and App Secret from Settings > Basic",
		"The app access token (id|secret) is derived automatically",
		"Optionally paste a user or page access token instead",
	},
	feed.Twitter: {
		"Create an app at https://developer.twitter.com/en/apps",
		"Copy the Consumer Key and Consumer Secret from Keys and tokens",
		"Generate an Access Token and Access Token Secret for your account",
		"All four values are required to sign search requests",
	},
}

// ShowCredentialGuide writes setup steps for platform to w
func ShowCredentialGuide(w io.Writer, platform feed.Platform) {
	steps, ok := guides[platform]
	if !ok {
		fmt.Fprintf(w, "no guide for platform %q\n", platform)
		return
	}

	title := strings.ToUpper(platform.String()) + " CREDENTIALS"
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("=", 60))
	for i, step := range steps {
		fmt.Fprintf(w, "%d. %s\n", i+1, step)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Stored secrets go to the system keyring when available, else to an")
	fmt.Fprintln(w, "encrypted file protected by HASHFEED_PASSPHRASE.")
	fmt.Fprintln(w)
}

// FieldLabels names the prompts for each credential field of platform, in
// ClientID, ClientSecret, AccessToken, AccessTokenSecret order. Empty labels
// are not asked for.
func FieldLabels(platform feed.Platform) [4]string {
	switch platform {
	case feed.Instagram:
		return [4]string{"Client ID", "Client Secret (optional)", "Access Token (optional)", ""}
	case feed.Facebook:
		return [4]string{"App ID", "App Secret", "Access Token (optional)", ""}
	case feed.Twitter:
		return [4]string{"Consumer Key", "Consumer Secret", "Access Token", "Access Token Secret"}
	}
	return [4]string{}
}
