package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndDecode(t *testing.T) {
	issuer := NewTokenIssuer("test-secret-key-that-is-32-chars!", time.Hour, "brieflyai")

	token, err := issuer.Issue("jane@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, ok := issuer.Decode(token)
	assert.True(t, ok)
	assert.Equal(t, "jane@example.com", subject)
}

func TestDecodeInvalidToken(t *testing.T) {
	issuer := NewTokenIssuer("test-secret-key-that-is-32-chars!", time.Hour, "brieflyai")

	subject, ok := issuer.Decode("not-a-token")
	assert.False(t, ok)
	assert.Empty(t, subject)
}

func TestDecodeWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("test-secret-key-that-is-32-chars!", time.Hour, "brieflyai")
	other := NewTokenIssuer("another-secret-key-also-32-chars!", time.Hour, "brieflyai")

	token, err := issuer.Issue("jane@example.com")
	require.NoError(t, err)

	_, ok := other.Decode(token)
	assert.False(t, ok)
}

func TestTokenExpiry(t *testing.T) {
	issuedAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	issuer := NewTokenIssuer("test-secret-key-that-is-32-chars!", 60*time.Minute, "brieflyai").
		WithClock(func() time.Time { return issuedAt })

	token, err := issuer.Issue("jane@example.com")
	require.NoError(t, err)

	// Still valid one minute before expiry
	issuer.WithClock(func() time.Time { return issuedAt.Add(59 * time.Minute) })
	subject, ok := issuer.Decode(token)
	assert.True(t, ok)
	assert.Equal(t, "jane@example.com", subject)

	// Expired one minute after
	issuer.WithClock(func() time.Time { return issuedAt.Add(61 * time.Minute) })
	_, ok = issuer.Decode(token)
	assert.False(t, ok)
}
