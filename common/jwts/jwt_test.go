package jwts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GetToken(NewClaims("u-1", 60), "secret")
	require.NoError(t, err)

	uid, err := ParseToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "u-1", uid)
}

func TestTokenRejected(t *testing.T) {
	token, err := GetToken(NewClaims("u-1", 60), "secret")
	require.NoError(t, err)

	_, err = ParseToken(token, "other")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	expired, err := GetToken(NewClaims("u-1", -60), "secret")
	require.NoError(t, err)
	_, err = ParseToken(expired, "secret")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = ParseToken("garbage", "secret")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
