package authutils

import (
	"party-find-backend/config"
	"testing"

	"github.com/stretchr/testify/require"
)

func initTestConfig() {
	conf := &config.Configuration{}
	conf.Auth.JWTSecret = "test-secret"
	conf.Auth.JWTExpireInSec = 60
	conf.Auth.JWTRefreshExpireInSec = 120
	config.Conf = conf
}

func TestTokens(t *testing.T) {
	initTestConfig()

	t.Run(`refresh token round trip check`, func(t *testing.T) {
		token, err := GetRefreshToken("user-1", "Alpha")
		require.Nil(t, err)
		userID, err := ParseRefreshToken(token)
		require.Nil(t, err)
		require.Equal(t, "user-1", userID)
	})

	t.Run(`access token is not a refresh token check`, func(t *testing.T) {
		token, err := GetToken("user-1", "Alpha")
		require.Nil(t, err)
		_, err = ParseRefreshToken(token)
		require.NotNil(t, err)
	})

	t.Run(`garbage token check`, func(t *testing.T) {
		_, err := ParseRefreshToken("not-a-token")
		require.NotNil(t, err)
	})
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.Nil(t, err)
	require.True(t, CheckPassword(hash, "correct horse"))
	require.False(t, CheckPassword(hash, "wrong horse"))
}
