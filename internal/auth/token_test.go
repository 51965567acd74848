package auth_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authgrid/authgrid/internal/auth"
)

func TestTokenRoundTrip(t *testing.T) {
	codec := auth.NewTokenCodec(auth.TokenConfig{Secret: "test-secret", TTL: time.Hour})

	expiresAt := time.Now().Add(time.Hour)
	raw, err := codec.Sign(42, "jti-1", expiresAt)
	require.NoError(t, err)

	claims, err := codec.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "jti-1", claims.ID)
	assert.WithinDuration(t, expiresAt, claims.ExpiresAt.Time, time.Second)
}

func TestTokenParseMalformed(t *testing.T) {
	codec := auth.NewTokenCodec(auth.TokenConfig{Secret: "test-secret", TTL: time.Hour})

	_, err := codec.Parse("not-a-token")
	assert.ErrorIs(t, err, auth.ErrTokenMalformed)
}

func TestTokenParseExpired(t *testing.T) {
	codec := auth.NewTokenCodec(auth.TokenConfig{Secret: "test-secret", TTL: time.Hour})

	raw, err := codec.Sign(1, "jti-1", time.Now().Add(-time.Minute))
	require.NoError(t, err)

	_, err = codec.Parse(raw)
	assert.ErrorIs(t, err, auth.ErrTokenExpired)
}

func TestTokenParseWrongKey(t *testing.T) {
	signer := auth.NewTokenCodec(auth.TokenConfig{Secret: "key-one", TTL: time.Hour})
	verifier := auth.NewTokenCodec(auth.TokenConfig{Secret: "key-two", TTL: time.Hour})

	raw, err := signer.Sign(1, "jti-1", time.Now().Add(time.Hour))
	require.NoError(t, err)

	_, err = verifier.Parse(raw)
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)
}

func TestTokenParseTampered(t *testing.T) {
	codec := auth.NewTokenCodec(auth.TokenConfig{Secret: "test-secret", TTL: time.Hour})

	raw, err := codec.Sign(1, "jti-1", time.Now().Add(time.Hour))
	require.NoError(t, err)

	parts := strings.Split(raw, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + ".AAAA" + parts[2][4:]

	_, err = codec.Parse(tampered)
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)
}
