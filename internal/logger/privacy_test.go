package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashMerchant(t *testing.T) {
	t.Run("produces consistent hash for same merchant", func(t *testing.T) {
		hash1 := HashMerchant("Corner Grocery")
		hash2 := HashMerchant("Corner Grocery")
		require.Equal(t, hash1, hash2)
	})

	t.Run("is case and whitespace insensitive", func(t *testing.T) {
		require.Equal(t, HashMerchant("Corner Grocery"), HashMerchant("  CORNER GROCERY "))
	})

	t.Run("produces different hashes for different merchants", func(t *testing.T) {
		require.NotEqual(t, HashMerchant("Corner Grocery"), HashMerchant("Gas Station"))
	})

	t.Run("produces 8 character hash", func(t *testing.T) {
		require.Len(t, HashMerchant("Corner Grocery"), 8)
	})

	t.Run("changes hash when salt changes", func(t *testing.T) {
		originalSalt := hashSalt
		defer func() { hashSalt = originalSalt }()

		hash1 := HashMerchant("Corner Grocery")

		hashSalt = "different-salt"
		hash2 := HashMerchant("Corner Grocery")

		require.NotEqual(t, hash1, hash2)
	})
}

func TestSanitizeDescription(t *testing.T) {
	t.Run("redacts empty description", func(t *testing.T) {
		require.Equal(t, "<empty>", SanitizeDescription(""))
	})

	t.Run("shows word and character count", func(t *testing.T) {
		result := SanitizeDescription("weekly shop at the market")
		require.Contains(t, result, "5 words")
		require.Contains(t, result, "25 chars")
		require.NotContains(t, result, "market")
	})
}
