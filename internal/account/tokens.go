package account

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

const tokenBytes = 32 // 256 bits of entropy

// NewToken returns an opaque verification/reset token from crypto/rand.
func NewToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Token-store keys. Verification and reset live in independent namespaces so a
// pending verification and a pending reset for the same email never collide.
func verificationKey(email string) string { return email }
func resetKey(email string) string        { return "reset_" + email }

func tokensEqual(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
