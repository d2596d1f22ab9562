package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"hashfeed/pkg/config"
	"hashfeed/pkg/feed"
)

// Credentials are the stored secrets for one platform. Field meaning depends
// on the platform: for Facebook ClientID/ClientSecret are the app id/secret,
// for Twitter they are the consumer key/secret.
type Credentials struct {
	Platform          feed.Platform `json:"platform"`
	ClientID          string        `json:"client_id,omitempty"`
	ClientSecret      string        `json:"client_secret,omitempty"`
	AccessToken       string        `json:"access_token,omitempty"`
	AccessTokenSecret string        `json:"access_token_secret,omitempty"`
	LastModified      time.Time     `json:"last_modified"`
}

// Validate checks that the platform's required values are present
func (c *Credentials) Validate() error {
	switch c.Platform {
	case feed.Instagram:
		if c.ClientID == "" && c.AccessToken == "" {
			return errors.New("instagram needs a client id or an access token")
		}
	case feed.Facebook:
		if c.AccessToken == "" && (c.ClientID == "" || c.ClientSecret == "") {
			return errors.New("facebook needs an app id and secret, or an access token")
		}
	case feed.Twitter:
		if c.ClientID == "" || c.ClientSecret == "" || c.AccessToken == "" || c.AccessTokenSecret == "" {
			return errors.New("twitter needs consumer key, consumer secret, access token and access token secret")
		}
	default:
		return fmt.Errorf("%w: unknown platform %q", ErrInvalidCredentials, c.Platform)
	}
	return nil
}

// CredentialStore is the interface for storing and retrieving credentials
type CredentialStore interface {
	// Store saves credentials for their platform
	Store(creds *Credentials) error

	// Retrieve gets credentials for a platform
	Retrieve(platform feed.Platform) (*Credentials, error)

	// List returns all stored credentials
	List() ([]*Credentials, error)

	// Delete removes credentials for a platform
	Delete(platform feed.Platform) error

	// Exists checks if credentials exist for a platform
	Exists(platform feed.Platform) bool
}

// Manager handles credential storage with fallback mechanisms
type Manager struct {
	stores []CredentialStore
}

// NewManager creates a manager over the keyring (when available), the
// encrypted file store and the environment.
func NewManager() (*Manager, error) {
	var stores []CredentialStore

	if keyringStore, err := NewKeyringStore(); err == nil {
		stores = append(stores, keyringStore)
	}

	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}

	encryptedStore, err := NewEncryptedFileStore(filepath.Join(configDir, "credentials.enc"))
	if err != nil {
		return nil, fmt.Errorf("failed to create encrypted store: %w", err)
	}
	stores = append(stores, encryptedStore)

	stores = append(stores, NewEnvironmentStore())

	return &Manager{stores: stores}, nil
}

// NewManagerWithStores creates a manager over explicit stores, in priority
// order
func NewManagerWithStores(stores ...CredentialStore) *Manager {
	return &Manager{stores: stores}
}

// Store saves credentials using the first store that accepts them
func (m *Manager) Store(creds *Credentials) error {
	if creds == nil {
		return ErrInvalidCredentials
	}
	if err := creds.Validate(); err != nil {
		return err
	}

	creds.LastModified = time.Now()

	var lastErr error
	for _, store := range m.stores {
		err := store.Store(creds)
		if err == nil {
			return nil
		}
		lastErr = err
	}

	if lastErr != nil {
		return fmt.Errorf("failed to store credentials: %w", lastErr)
	}
	return ErrStoreUnavailable
}

// Retrieve gets credentials from the first store that has them
func (m *Manager) Retrieve(platform feed.Platform) (*Credentials, error) {
	for _, store := range m.stores {
		if creds, err := store.Retrieve(platform); err == nil && creds != nil {
			return creds, nil
		}
	}
	return nil, fmt.Errorf("%w for platform: %s", ErrCredentialsNotFound, platform)
}

// List returns the newest credentials per platform across all stores
func (m *Manager) List() ([]*Credentials, error) {
	byPlatform := make(map[feed.Platform]*Credentials)

	for _, store := range m.stores {
		list, err := store.List()
		if err != nil {
			continue
		}
		for _, creds := range list {
			if existing, ok := byPlatform[creds.Platform]; !ok || creds.LastModified.After(existing.LastModified) {
				byPlatform[creds.Platform] = creds
			}
		}
	}

	result := make([]*Credentials, 0, len(byPlatform))
	for _, creds := range byPlatform {
		result = append(result, creds)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Platform < result[j].Platform })

	return result, nil
}

// Delete removes credentials from all stores
func (m *Manager) Delete(platform feed.Platform) error {
	var deleted bool
	var lastErr error

	for _, store := range m.stores {
		if err := store.Delete(platform); err == nil {
			deleted = true
		} else {
			lastErr = err
		}
	}

	if !deleted && lastErr != nil {
		return fmt.Errorf("failed to delete credentials: %w", lastErr)
	}
	if !deleted {
		return fmt.Errorf("%w for platform: %s", ErrCredentialsNotFound, platform)
	}

	return nil
}

// Fill copies stored credentials into any empty credential fields of cfg.
// Values already present in cfg win. It returns the platforms it touched.
func (m *Manager) Fill(cfg *config.Config) []feed.Platform {
	var filled []feed.Platform
	set := func(dst *string, v string) bool {
		if *dst == "" && v != "" {
			*dst = v
			return true
		}
		return false
	}

	for _, p := range feed.Platforms {
		creds, err := m.Retrieve(p)
		if err != nil {
			continue
		}

		changed := false
		switch p {
		case feed.Instagram:
			changed = set(&cfg.Instagram.ClientID, creds.ClientID) || changed
			changed = set(&cfg.Instagram.ClientSecret, creds.ClientSecret) || changed
			changed = set(&cfg.Instagram.AccessToken, creds.AccessToken) || changed
		case feed.Facebook:
			changed = set(&cfg.Facebook.AppID, creds.ClientID) || changed
			changed = set(&cfg.Facebook.AppSecret, creds.ClientSecret) || changed
			changed = set(&cfg.Facebook.AccessToken, creds.AccessToken) || changed
		case feed.Twitter:
			changed = set(&cfg.Twitter.ConsumerKey, creds.ClientID) || changed
			changed = set(&cfg.Twitter.ConsumerSecret, creds.ClientSecret) || changed
			changed = set(&cfg.Twitter.AccessToken, creds.AccessToken) || changed
			changed = set(&cfg.Twitter.AccessTokenSecret, creds.AccessTokenSecret) || changed
		}
		if changed {
			filled = append(filled, p)
		}
	}
	return filled
}

// getConfigDir returns the configuration directory path
func getConfigDir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, "Library", "Application Support", "hashfeed")
	case "windows":
		configDir = filepath.Join(os.Getenv("APPDATA"), "hashfeed")
	default:
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			configDir = filepath.Join(xdgConfig, "hashfeed")
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			configDir = filepath.Join(home, ".config", "hashfeed")
		}
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// Sanitize creates a copy of creds with secrets masked
func Sanitize(creds *Credentials) *Credentials {
	if creds == nil {
		return nil
	}

	return &Credentials{
		Platform:          creds.Platform,
		ClientID:          creds.ClientID,
		ClientSecret:      config.Mask(creds.ClientSecret),
		AccessToken:       config.Mask(creds.AccessToken),
		AccessTokenSecret: config.Mask(creds.AccessTokenSecret),
		LastModified:      creds.LastModified,
	}
}

// Errors
var (
	ErrCredentialsNotFound = errors.New("credentials not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrStoreUnavailable    = errors.New("credential store unavailable")
)
