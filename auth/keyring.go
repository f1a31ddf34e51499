// Package auth persists the publisher's storage credentials in the system keyring.
package auth

import (
	"errors"

	"github.com/episodl/episodl/constant"
	"github.com/zalando/go-keyring"
)

const (
	userAccessKey = "publish-access-key-id"
	userSecretKey = "publish-secret-access-key"
)

// ErrNoCredentials is returned when the keyring holds no publisher credentials.
var ErrNoCredentials = errors.New("no publisher credentials stored")

// SetCredentials persists the storage access key pair.
func SetCredentials(accessKeyID, secretAccessKey string) error {
	if err := keyring.Set(constant.App, userAccessKey, accessKeyID); err != nil {
		return err
	}
	return keyring.Set(constant.App, userSecretKey, secretAccessKey)
}

// Credentials returns the stored access key pair.
func Credentials() (accessKeyID, secretAccessKey string, err error) {
	accessKeyID, err = keyring.Get(constant.App, userAccessKey)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", "", ErrNoCredentials
	}
	if err != nil {
		return "", "", err
	}

	secretAccessKey, err = keyring.Get(constant.App, userSecretKey)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", "", ErrNoCredentials
	}
	return accessKeyID, secretAccessKey, err
}

// DeleteCredentials removes the stored access key pair.
func DeleteCredentials() error {
	err := keyring.Delete(constant.App, userAccessKey)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}

	err = keyring.Delete(constant.App, userSecretKey)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
