package security

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// MinKeyBytes is the smallest acceptable decoded key size. HMAC-SHA256
// wants at least 256 bits; shorter secrets are rejected outright instead of
// being padded.
const MinKeyBytes = 32

var (
	ErrSecretMissing = errors.New("signing secret is not configured")
	ErrSecretInvalid = errors.New("signing secret is not valid base64")
	ErrSecretTooWeak = fmt.Errorf("signing secret decodes to fewer than %d bytes", MinKeyBytes)
)

// DeriveKey turns the configured base64 secret into the HMAC signing key.
// It is deterministic and side-effect free; callers derive the key once at
// startup and hold it for the life of the process.
func DeriveKey(secret string) ([]byte, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrSecretMissing
	}

	key, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSecretInvalid, err)
	}
	if len(key) < MinKeyBytes {
		return nil, ErrSecretTooWeak
	}
	return key, nil
}
