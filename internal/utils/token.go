package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// GenerateTokenSecret returns n random bytes encoded as hex.
func GenerateTokenSecret(n int) (string, error) {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// HashTokenSecret returns the hex SHA-256 digest stored for a token secret.
func HashTokenSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// TokenHashEqual compares two token hashes in constant time.
func TokenHashEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// FormatPlainToken builds the "<id>|<secret>" value handed to clients.
func FormatPlainToken(id uint64, secret string) string {
	return strconv.FormatUint(id, 10) + "|" + secret
}

// ParsePlainToken splits a "<id>|<secret>" bearer token.
func ParsePlainToken(token string) (uint64, string, bool) {
	idPart, secret, found := strings.Cut(token, "|")
	if !found || secret == "" {
		return 0, "", false
	}
	id, err := strconv.ParseUint(idPart, 10, 64)
	if err != nil || id == 0 {
		return 0, "", false
	}
	return id, secret, true
}
