package auth

import (
	"os"
	"time"

	"hashfeed/pkg/feed"
)

// envKeys maps a platform onto the variables holding its credentials, in
// ClientID, ClientSecret, AccessToken, AccessTokenSecret order
var envKeys = map[feed.Platform][4]string{
	feed.Instagram: {"HASHFEED_INSTAGRAM_CLIENT_ID", "HASHFEED_INSTAGRAM_CLIENT_SECRET", "HASHFEED_INSTAGRAM_ACCESS_TOKEN", ""},
	feed.Facebook:  {"HASHFEED_FACEBOOK_APP_ID", "HASHFEED_FACEBOOK_APP_SECRET", "HASHFEED_FACEBOOK_ACCESS_TOKEN", ""},
	feed.Twitter:   {"HASHFEED_TWITTER_CONSUMER_KEY", "HASHFEED_TWITTER_CONSUMER_SECRET", "HASHFEED_TWITTER_ACCESS_TOKEN", "HASHFEED_TWITTER_ACCESS_TOKEN_SECRET"},
}

// EnvironmentStore is a read-only CredentialStore over environment variables
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based credential store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(creds *Credentials) error {
	return ErrStoreUnavailable
}

// Retrieve builds credentials from the environment when they are complete
func (e *EnvironmentStore) Retrieve(platform feed.Platform) (*Credentials, error) {
	keys, ok := envKeys[platform]
	if !ok {
		return nil, ErrInvalidCredentials
	}

	getenv := func(key string) string {
		if key == "" {
			return ""
		}
		return os.Getenv(key)
	}
	creds := &Credentials{
		Platform:          platform,
		ClientID:          getenv(keys[0]),
		ClientSecret:      getenv(keys[1]),
		AccessToken:       getenv(keys[2]),
		AccessTokenSecret: getenv(keys[3]),
		LastModified:      time.Now(),
	}
	if creds.Validate() != nil {
		return nil, ErrCredentialsNotFound
	}
	return creds, nil
}

// List returns every platform with complete environment credentials
func (e *EnvironmentStore) List() ([]*Credentials, error) {
	var list []*Credentials
	for _, p := range feed.Platforms {
		if creds, err := e.Retrieve(p); err == nil {
			list = append(list, creds)
		}
	}
	return list, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(platform feed.Platform) error {
	return ErrStoreUnavailable
}

// Exists checks if environment credentials exist
func (e *EnvironmentStore) Exists(platform feed.Platform) bool {
	_, err := e.Retrieve(platform)
	return err == nil
}
