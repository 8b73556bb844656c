package exam

import "crypto/rand"

const (
	accessKeyAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	accessKeyLength   = 8
)

// maxKeyAttempts bounds the regenerate-on-collision loop in the stores.
// With 36^8 keys a single retry is already rare.
const maxKeyAttempts = 5

// NewAccessKey draws a short uppercase alphanumeric token. Uniqueness is
// enforced by the exam store's unique index, not here: callers retry with a
// fresh key when the insert hits the constraint.
func NewAccessKey() (string, error) {
	buf := make([]byte, accessKeyLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = accessKeyAlphabet[int(b)%len(accessKeyAlphabet)]
	}
	return string(buf), nil
}
