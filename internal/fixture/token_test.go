package fixture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)

	token, err := m.Generate("tomsmith")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "tomsmith", claims.Username)
	assert.Equal(t, "authsmoke-fixture", claims.Issuer)
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a", time.Hour).Generate("tomsmith")
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", time.Hour).Validate(token)
	assert.Error(t, err)
}

func TestTokenExpired(t *testing.T) {
	token, err := NewTokenManager("test-secret", -time.Minute).Generate("tomsmith")
	require.NoError(t, err)

	_, err = NewTokenManager("test-secret", -time.Minute).Validate(token)
	assert.Error(t, err)
}

func TestTokenGarbage(t *testing.T) {
	_, err := NewTokenManager("test-secret", time.Hour).Validate("not.a.token")
	assert.Error(t, err)
}
