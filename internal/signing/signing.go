// Package signing computes and checks HMAC-SHA256 signatures over canonical
// JSON payloads. Sender and receiver must hash byte-identical input, so every
// signed body goes through Canonicalize first.
package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
)

// ErrEmptySecret is returned when a signing key is missing.
var ErrEmptySecret = errors.New("signing: empty secret")

// Error reports a misconfigured signing key. It is not transient: a delivery
// that fails with it must not be retried.
type Error struct {
	KeyID string
	Err   error
}

func (e *Error) Error() string {
	if e.KeyID == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v (key %s)", e.Err, e.KeyID)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Sign returns the lowercase hex HMAC-SHA256 of payload keyed with secret.
func Sign(secret, payload []byte) (string, error) {
	if len(secret) == 0 {
		return "", &Error{Err: ErrEmptySecret}
	}
	return hex.EncodeToString(mac(secret, payload)), nil
}

// Verify reports whether signature is the hex HMAC of payload under secret.
// Malformed signatures (empty, non-hex, wrong length) never match.
func Verify(secret, payload []byte, signature string) bool {
	if len(secret) == 0 || len(signature) != hex.EncodedLen(sha256.Size) {
		return false
	}
	provided, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	return hmac.Equal(provided, mac(secret, payload))
}

func mac(secret, payload []byte) []byte {
	h := hmac.New(sha256.New, secret)
	h.Write(payload)
	return h.Sum(nil)
}
