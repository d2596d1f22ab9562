package auth

import (
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"hashfeed/pkg/feed"
)

const keyringService = "hashfeed"

// KeyringStore implements CredentialStore using the system keychain
type KeyringStore struct {
	service string
}

// NewKeyringStore creates a keyring store after checking the keyring works
func NewKeyringStore() (*KeyringStore, error) {
	testKey := "availability_check"
	if err := keyring.Set(keyringService, testKey, "ok"); err != nil {
		return nil, fmt.Errorf("keyring not available: %w", err)
	}
	_ = keyring.Delete(keyringService, testKey)

	return &KeyringStore{service: keyringService}, nil
}

func keyFor(platform feed.Platform) string {
	return "platform_" + platform.String()
}

// Store saves credentials to the system keychain
func (k *KeyringStore) Store(creds *Credentials) error {
	if creds == nil || creds.Platform == "" {
		return ErrInvalidCredentials
	}

	data, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	if err := keyring.Set(k.service, keyFor(creds.Platform), string(data)); err != nil {
		return fmt.Errorf("failed to store in keyring: %w", err)
	}
	return nil
}

// Retrieve gets credentials from the system keychain
func (k *KeyringStore) Retrieve(platform feed.Platform) (*Credentials, error) {
	if platform == "" {
		return nil, ErrInvalidCredentials
	}

	data, err := keyring.Get(k.service, keyFor(platform))
	if err != nil {
		if stderrors.Is(err, keyring.ErrNotFound) {
			return nil, ErrCredentialsNotFound
		}
		return nil, fmt.Errorf("failed to retrieve from keyring: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal([]byte(data), &creds); err != nil {
		return nil, fmt.Errorf("failed to unmarshal credentials: %w", err)
	}
	return &creds, nil
}

// List checks every known platform, since go-keyring cannot enumerate keys
func (k *KeyringStore) List() ([]*Credentials, error) {
	var list []*Credentials
	for _, p := range feed.Platforms {
		if creds, err := k.Retrieve(p); err == nil {
			list = append(list, creds)
		}
	}
	return list, nil
}

// Delete removes credentials from the system keychain
func (k *KeyringStore) Delete(platform feed.Platform) error {
	if platform == "" {
		return ErrInvalidCredentials
	}

	if err := keyring.Delete(k.service, keyFor(platform)); err != nil {
		if stderrors.Is(err, keyring.ErrNotFound) {
			return ErrCredentialsNotFound
		}
		return fmt.Errorf("failed to delete from keyring: %w", err)
	}
	return nil
}

// Exists checks if credentials exist in the keychain
func (k *KeyringStore) Exists(platform feed.Platform) bool {
	_, err := keyring.Get(k.service, keyFor(platform))
	return err == nil
}
