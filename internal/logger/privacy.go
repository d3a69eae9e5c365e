package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
)

var hashSalt string

func init() {
	InitHashSalt()
}

// InitHashSalt loads the log hash salt from the environment. In
// production, set LOG_HASH_SALT.
func InitHashSalt() {
	hashSalt = os.Getenv("LOG_HASH_SALT")
	if hashSalt == "" {
		hashSalt = "default-salt-change-in-production"
	}
}

// HashMerchant creates a privacy-preserving hash of a merchant name so
// records can be traced through the pipeline without exposing where
// someone shopped. Hashing is case-insensitive to match duplicate
// detection.
func HashMerchant(merchant string) string {
	normalized := strings.ToLower(strings.TrimSpace(merchant))
	data := fmt.Sprintf("%s:%s", normalized, hashSalt)
	hash := sha256.Sum256([]byte(data))
	// First 8 characters are enough to correlate log lines.
	return hex.EncodeToString(hash[:])[:8]
}

// SanitizeDescription redacts a free-text description but preserves
// length information for debugging.
func SanitizeDescription(desc string) string {
	if desc == "" {
		return "<empty>"
	}

	words := strings.Fields(desc)
	return fmt.Sprintf("<redacted: %d words, %d chars>", len(words), len(desc))
}
