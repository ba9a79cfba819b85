package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("securepass123")
	require.NoError(t, err)
	assert.NotEqual(t, "securepass123", hash)

	assert.True(t, VerifyPassword("securepass123", hash))
	assert.False(t, VerifyPassword("wrongpassword", hash))
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	assert.False(t, VerifyPassword("securepass123", ""))
	assert.False(t, VerifyPassword("securepass123", "not-a-bcrypt-hash"))
}

func TestPasswordTruncation(t *testing.T) {
	long := strings.Repeat("a", 80)
	hash, err := HashPassword(long)
	require.NoError(t, err)

	// bcrypt only sees the first 72 bytes, so inputs that agree on that
	// prefix verify against the same hash
	assert.True(t, VerifyPassword(long, hash))
	assert.True(t, VerifyPassword(strings.Repeat("a", 72)+"different", hash))
	assert.False(t, VerifyPassword(strings.Repeat("a", 71), hash))
}
