// Package keyring persists the two pieces of client state that survive a
// restart: the bearer token and the JSON-serialized user profile. Both live
// in the OS keyring under the application's service name.
package keyring

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/habitctl/internal/constants"
	"github.com/julianstephens/habitctl/internal/models"
)

var (
	// ErrNotFound is returned when no entry is stored in the keyring
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Store reads and writes the persisted session entries. The zero value is
// ready to use.
type Store struct{}

func (Store) Token() (string, error) {
	return get(constants.KeyringTokenEntry)
}

func (Store) SaveToken(token string) error {
	if token == "" {
		return errors.New("token cannot be empty")
	}
	return set(constants.KeyringTokenEntry, token)
}

func (Store) User() (models.User, error) {
	raw, err := get(constants.KeyringUserEntry)
	if err != nil {
		return models.User{}, err
	}
	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return models.User{}, fmt.Errorf("stored user profile is corrupt: %w", err)
	}
	return user, nil
}

func (Store) SaveUser(user models.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return set(constants.KeyringUserEntry, string(raw))
}

// Clear removes both entries. Missing entries are not an error so logout
// never fails.
func (Store) Clear() error {
	for _, entry := range []string{constants.KeyringTokenEntry, constants.KeyringUserEntry} {
		if err := keyring.Delete(constants.AppName, entry); err != nil && err != keyring.ErrNotFound {
			return fmt.Errorf("failed to delete %s from keyring: %w", entry, err)
		}
	}
	return nil
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	// ErrNotFound means the keyring responded but is empty, which is fine.
	return err == nil || err == keyring.ErrNotFound
}

func get(entry string) (string, error) {
	val, err := keyring.Get(constants.AppName, entry)
	if err != nil {
		if err == keyring.ErrNotFound {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return val, nil
}

func set(entry, value string) error {
	if err := keyring.Set(constants.AppName, entry, value); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", entry, err)
	}
	return nil
}
