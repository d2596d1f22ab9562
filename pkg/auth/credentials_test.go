package auth

import (
	"bytes"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hashfeed/pkg/config"
	"hashfeed/pkg/feed"
)

func twitterCreds() *Credentials {
	return &Credentials{
		Platform:          feed.Twitter,
		ClientID:          "consumer_key_12345",
		ClientSecret:      "consumer_secret_67890",
		AccessToken:       "access_token_abcdef",
		AccessTokenSecret: "access_secret_ghijkl",
	}
}

func TestCredentialManager(t *testing.T) {
	manager, mockStore := NewMockManager()

	creds := twitterCreds()
	require.NoError(t, manager.Store(creds))
	assert.False(t, creds.LastModified.IsZero())

	retrieved, err := manager.Retrieve(feed.Twitter)
	require.NoError(t, err)
	assert.Equal(t, creds.ClientID, retrieved.ClientID)
	assert.Equal(t, creds.AccessTokenSecret, retrieved.AccessTokenSecret)

	list, err := manager.List()
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, manager.Delete(feed.Twitter))
	_, err = manager.Retrieve(feed.Twitter)
	assert.True(t, stderrors.Is(err, ErrCredentialsNotFound))
	assert.Equal(t, 0, mockStore.Count())

	assert.Error(t, manager.Delete(feed.Twitter))
}

func TestCredentialsValidate(t *testing.T) {
	tests := []struct {
		name    string
		creds   Credentials
		wantErr bool
	}{
		{"instagram client id", Credentials{Platform: feed.Instagram, ClientID: "id"}, false},
		{"instagram token", Credentials{Platform: feed.Instagram, AccessToken: "1.a"}, false},
		{"instagram empty", Credentials{Platform: feed.Instagram}, true},
		{"facebook app", Credentials{Platform: feed.Facebook, ClientID: "id", ClientSecret: "s"}, false},
		{"facebook id only", Credentials{Platform: feed.Facebook, ClientID: "id"}, true},
		{"facebook token", Credentials{Platform: feed.Facebook, AccessToken: "t"}, false},
		{"twitter partial", Credentials{Platform: feed.Twitter, ClientID: "k", ClientSecret: "s"}, true},
		{"twitter full", *twitterCreds(), false},
		{"unknown platform", Credentials{Platform: "myspace", ClientID: "x"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.creds.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestManagerRejectsIncompleteCredentials(t *testing.T) {
	manager, store := NewMockManager()
	err := manager.Store(&Credentials{Platform: feed.Twitter, ClientID: "only"})
	assert.Error(t, err)
	assert.Equal(t, 0, store.Count())
}

func TestManagerFallsBackOnStoreError(t *testing.T) {
	broken := NewMockStore()
	broken.StoreError = stderrors.New("keyring locked")
	working := NewMockStore()

	manager := NewManagerWithStores(broken, working)
	require.NoError(t, manager.Store(twitterCreds()))
	assert.Equal(t, 0, broken.Count())
	assert.Equal(t, 1, working.Count())

	broken.StoreError = stderrors.New("still locked")
	working.StoreError = stderrors.New("disk full")
	err := manager.Store(twitterCreds())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestManagerListPrefersNewest(t *testing.T) {
	older := NewMockStore()
	newer := NewMockStore()

	old := twitterCreds()
	old.AccessToken = "old"
	old.LastModified = time.Now().Add(-time.Hour)
	require.NoError(t, older.Store(old))

	fresh := twitterCreds()
	fresh.AccessToken = "fresh"
	fresh.LastModified = time.Now()
	require.NoError(t, newer.Store(fresh))
	require.NoError(t, newer.Store(&Credentials{Platform: feed.Facebook, AccessToken: "fb"}))

	list, err := NewManagerWithStores(older, newer).List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, feed.Facebook, list[0].Platform)
	assert.Equal(t, "fresh", list[1].AccessToken)
}

func TestManagerFill(t *testing.T) {
	manager, _ := NewMockManager()
	require.NoError(t, manager.Store(twitterCreds()))
	require.NoError(t, manager.Store(&Credentials{Platform: feed.Facebook, ClientID: "app", ClientSecret: "secret"}))

	cfg := config.DefaultConfig()
	cfg.Twitter.ConsumerKey = "from-config"

	filled := manager.Fill(cfg)
	assert.Equal(t, []feed.Platform{feed.Facebook, feed.Twitter}, filled)

	assert.Equal(t, "from-config", cfg.Twitter.ConsumerKey)
	assert.Equal(t, "consumer_secret_67890", cfg.Twitter.ConsumerSecret)
	assert.Equal(t, "access_secret_ghijkl", cfg.Twitter.AccessTokenSecret)
	assert.Equal(t, "app", cfg.Facebook.AppID)
	assert.Equal(t, "secret", cfg.Facebook.AppSecret)
	assert.Empty(t, cfg.Instagram.ClientID)
	assert.True(t, cfg.TwitterEnabled())

	assert.Empty(t, manager.Fill(cfg), "second fill has nothing left to copy")
}

func TestSanitize(t *testing.T) {
	creds := twitterCreds()
	sanitized := Sanitize(creds)

	assert.Equal(t, creds.ClientID, sanitized.ClientID)
	assert.NotEqual(t, creds.ClientSecret, sanitized.ClientSecret)
	assert.NotEqual(t, creds.AccessToken, sanitized.AccessToken)
	assert.Equal(t, "acce...ijkl", sanitized.AccessTokenSecret)
	assert.Nil(t, Sanitize(nil))
}

func TestEncryptedFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "credentials.enc")
	store, err := NewEncryptedFileStoreWithPassphrase(path, "test_passphrase_123")
	require.NoError(t, err)

	creds := twitterCreds()
	require.NoError(t, store.Store(creds))
	require.NoError(t, store.Store(&Credentials{Platform: feed.Instagram, ClientID: "ig"}))

	retrieved, err := store.Retrieve(feed.Twitter)
	require.NoError(t, err)
	assert.Equal(t, creds.AccessTokenSecret, retrieved.AccessTokenSecret)
	assert.True(t, store.Exists(feed.Instagram))
	assert.False(t, store.Exists(feed.Facebook))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.False(t, bytes.Contains(content, []byte("access_secret_ghijkl")), "file contains plaintext secret")
	assert.False(t, bytes.Contains(content, []byte("consumer_key_12345")), "file contains plaintext key")

	list, err := store.List()
	require.NoError(t, err)
	assert.Len(t, list, 2)

	// a second store with the same passphrase reads the same file
	reopened, err := NewEncryptedFileStoreWithPassphrase(path, "test_passphrase_123")
	require.NoError(t, err)
	_, err = reopened.Retrieve(feed.Instagram)
	require.NoError(t, err)

	wrong, err := NewEncryptedFileStoreWithPassphrase(path, "wrong")
	require.NoError(t, err)
	_, err = wrong.Retrieve(feed.Instagram)
	assert.Error(t, err)

	require.NoError(t, store.Delete(feed.Instagram))
	require.NoError(t, store.Delete(feed.Twitter))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "file should be removed with its last entry")
	assert.True(t, stderrors.Is(store.Delete(feed.Twitter), ErrCredentialsNotFound))
}

func TestEncryptedFileStorePassphraseFromEnv(t *testing.T) {
	t.Setenv(PassphraseEnv, "env_passphrase")
	path := filepath.Join(t.TempDir(), "credentials.enc")

	store, err := NewEncryptedFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Store(twitterCreds()))

	same, err := NewEncryptedFileStoreWithPassphrase(path, "env_passphrase")
	require.NoError(t, err)
	assert.True(t, same.Exists(feed.Twitter))

	_, err = NewEncryptedFileStoreWithPassphrase(path, "")
	assert.Error(t, err)
}

func TestEnvironmentStore(t *testing.T) {
	t.Setenv("HASHFEED_TWITTER_CONSUMER_KEY", "ck")
	t.Setenv("HASHFEED_TWITTER_CONSUMER_SECRET", "cs")
	t.Setenv("HASHFEED_TWITTER_ACCESS_TOKEN", "at")
	t.Setenv("HASHFEED_TWITTER_ACCESS_TOKEN_SECRET", "ats")
	t.Setenv("HASHFEED_FACEBOOK_APP_ID", "only-id")
	t.Setenv("HASHFEED_FACEBOOK_APP_SECRET", "")
	t.Setenv("HASHFEED_FACEBOOK_ACCESS_TOKEN", "")

	store := NewEnvironmentStore()

	creds, err := store.Retrieve(feed.Twitter)
	require.NoError(t, err)
	assert.Equal(t, "ck", creds.ClientID)
	assert.Equal(t, "ats", creds.AccessTokenSecret)

	_, err = store.Retrieve(feed.Facebook)
	assert.True(t, stderrors.Is(err, ErrCredentialsNotFound))
	assert.False(t, store.Exists(feed.Facebook))

	assert.Equal(t, ErrStoreUnavailable, store.Store(creds))
	assert.Equal(t, ErrStoreUnavailable, store.Delete(feed.Twitter))
}

func TestShowCredentialGuide(t *testing.T) {
	var buf bytes.Buffer
	ShowCredentialGuide(&buf, feed.Twitter)
	assert.Contains(t, buf.String(), "TWITTER CREDENTIALS")
	assert.Contains(t, buf.String(), "Consumer Key")

	buf.Reset()
	ShowCredentialGuide(&buf, "myspace")
	assert.Contains(t, buf.String(), "no guide")

	labels := FieldLabels(feed.Instagram)
	assert.Equal(t, "", labels[3])
}
