package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndParse(t *testing.T) {
	token, err := Sign("user-1", "ADMIN", "sess-1", time.Minute)
	require.NoError(t, err)

	claims, err := Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "ADMIN", claims.Role)
	assert.Equal(t, "sess-1", claims.SessionID)
}

func TestParseRejectsExpired(t *testing.T) {
	token, err := Sign("user-1", "USER", "", -time.Minute)
	require.NoError(t, err)

	_, err = Parse(token)
	assert.Error(t, err)
}

func TestParseRejectsTampering(t *testing.T) {
	token, err := Sign("user-1", "USER", "", time.Minute)
	require.NoError(t, err)

	_, err = Parse(token + "x")
	assert.Error(t, err)
	_, err = Parse("not-a-token")
	assert.Error(t, err)
}
