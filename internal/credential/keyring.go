// Package credential stores the IMAP account password in the system
// keyring, falling back to an encrypted file backend where no native
// keyring is available.
package credential

import (
	"fmt"

	"github.com/99designs/keyring"
)

const serviceName = "mailgroom"

// openKeyring returns a configured keyring instance.
func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/mailgroom/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("mailgroom-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// passwordKey namespaces the stored password by account username, so
// switching accounts does not clobber the previous credential.
func passwordKey(username string) string {
	return "imap-password:" + username
}

// GetPassword retrieves the IMAP password for the given account.
func GetPassword(username string) (string, error) {
	ring, err := openKeyring()
	if err != nil {
		return "", err
	}

	item, err := ring.Get(passwordKey(username))
	if err != nil {
		return "", fmt.Errorf("getting password for %q: %w", username, err)
	}

	return string(item.Data), nil
}

// SetPassword stores the IMAP password for the given account.
func SetPassword(username, password string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Set(keyring.Item{
		Key:  passwordKey(username),
		Data: []byte(password),
	})
	if err != nil {
		return fmt.Errorf("setting password for %q: %w", username, err)
	}

	return nil
}

// DeletePassword removes the stored IMAP password for the given account.
func DeletePassword(username string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Remove(passwordKey(username))
	if err != nil {
		return fmt.Errorf("deleting password for %q: %w", username, err)
	}

	return nil
}
