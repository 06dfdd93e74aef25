package securestore

import (
	"errors"

	"github.com/zalando/go-keyring"
)

// Keyring stores secrets in the operating system credential manager
// (Keychain on macOS, Secret Service on Linux, Credential Manager on
// Windows). It is the default backend on developer machines.
type Keyring struct {
	service string
}

// NewKeyring creates a keyring-backed store. All values are namespaced under
// the given service name.
func NewKeyring(service string) *Keyring {
	return &Keyring{service: service}
}

func (k *Keyring) Get(key string) (string, error) {
	value, err := keyring.Get(k.service, key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

func (k *Keyring) Set(key, value string) error {
	return keyring.Set(k.service, key, value)
}

func (k *Keyring) Remove(key string) error {
	err := keyring.Delete(k.service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
