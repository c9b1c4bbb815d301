package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"game-portal-cms/internal/pkg/config"
	"game-portal-cms/pkg/constants"
	pkgErrors "game-portal-cms/pkg/errors"
)

var admin = Identity{Username: "admin", Email: "admin@example.com", DisplayName: "Admin", AuthType: constants.AuthTypeLocal}

func newTestManager(secret string) *Manager {
	return NewManager(config.JWTConfig{Secret: secret, AccessTokenExpire: 60, RefreshTokenExpire: 3600})
}

func TestAccessToken(t *testing.T) {
	m := newTestManager("secret")

	token, err := m.GenerateAccessToken(admin)
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, "admin", claims.Subject)
	assert.Equal(t, constants.JWTTypeAccess, claims.Type)
	assert.Equal(t, constants.AuthTypeLocal, claims.AuthType)
	assert.Equal(t, 60, m.AccessTokenTTL())
}

func TestRefreshTokenIsNotAnAccessToken(t *testing.T) {
	m := newTestManager("secret")

	token, err := m.GenerateRefreshToken(admin)
	require.NoError(t, err)

	claims, err := m.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, constants.JWTTypeRefresh, claims.Type)

	_, err = m.ValidateAccessToken(token)
	assert.Equal(t, pkgErrors.CodeUnauthorized, pkgErrors.CodeOf(err))
}

func TestExpiredToken(t *testing.T) {
	m := newTestManager("secret")
	issued := time.Now()
	m.now = func() time.Time { return issued }

	token, err := m.GenerateAccessToken(admin)
	require.NoError(t, err)

	m.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = m.ValidateAccessToken(token)
	require.Error(t, err)
	assert.Equal(t, pkgErrors.MessageOf(pkgErrors.ErrTokenExpired), pkgErrors.MessageOf(err))
}

func TestTokenFromOtherSecret(t *testing.T) {
	token, err := newTestManager("secret-a").GenerateAccessToken(admin)
	require.NoError(t, err)

	_, err = newTestManager("secret-b").ValidateAccessToken(token)
	assert.Equal(t, pkgErrors.CodeUnauthorized, pkgErrors.CodeOf(err))

	_, err = newTestManager("secret-a").ValidateAccessToken("not-a-jwt")
	assert.Equal(t, pkgErrors.CodeUnauthorized, pkgErrors.CodeOf(err))
}
