package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"game-portal-cms/internal/dto"
	"game-portal-cms/internal/pkg/config"
	"game-portal-cms/internal/pkg/crypto"
	"game-portal-cms/internal/pkg/jwt"
	"game-portal-cms/pkg/constants"
	pkgErrors "game-portal-cms/pkg/errors"
)

type stubLDAP struct {
	user *dto.UserInfo
	err  error
}

func (s *stubLDAP) Authenticate(username, password string) (*dto.UserInfo, error) {
	return s.user, s.err
}

func newTestAuth(t *testing.T, ldapEnabled bool, ldap LDAPService) (AuthService, *jwt.Manager) {
	t.Helper()
	hash, err := crypto.HashPassword("s3cret")
	require.NoError(t, err)

	cfg := &config.AuthConfig{
		JWT:   config.JWTConfig{Secret: "test-secret", AccessTokenExpire: 60, RefreshTokenExpire: 3600},
		LDAP:  config.LDAPConfig{Enabled: ldapEnabled},
		Local: config.LocalConfig{Enabled: true, Users: []config.LocalUser{{Username: "admin", PasswordHash: hash, Email: "admin@example.com"}}},
	}
	tokens := jwt.NewManager(cfg.JWT)
	return NewAuthService(cfg, tokens, ldap), tokens
}

func TestAuthLoginLocal(t *testing.T) {
	auth, tokens := newTestAuth(t, false, nil)

	resp, err := auth.Login(&dto.LoginRequest{Username: "admin", Password: "s3cret", AuthType: constants.AuthTypeLocal})
	require.NoError(t, err)
	assert.Equal(t, 60, resp.ExpiresIn)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.NotEmpty(t, resp.ExpiresAt)
	assert.Equal(t, "admin", resp.User.DisplayName, "未配置显示名时使用用户名")

	claims, err := tokens.ValidateAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", claims.Email)

	user, err := auth.VerifyToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, constants.AuthTypeLocal, user.AuthType)

	_, err = auth.VerifyToken(resp.RefreshToken)
	assert.Equal(t, pkgErrors.CodeUnauthorized, pkgErrors.CodeOf(err))

	// auth_type 为空按本地账号登录
	resp, err = auth.Login(&dto.LoginRequest{Username: "admin", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, constants.AuthTypeLocal, resp.User.AuthType)
}

func TestAuthLoginRejects(t *testing.T) {
	auth, _ := newTestAuth(t, false, nil)

	cases := []struct {
		name string
		req  dto.LoginRequest
		code int
	}{
		{"wrong password", dto.LoginRequest{Username: "admin", Password: "nope", AuthType: constants.AuthTypeLocal}, pkgErrors.CodeAuthError},
		{"unknown user", dto.LoginRequest{Username: "root", Password: "s3cret", AuthType: constants.AuthTypeLocal}, pkgErrors.CodeAuthError},
		{"ldap disabled", dto.LoginRequest{Username: "admin", Password: "s3cret", AuthType: constants.AuthTypeLDAP}, pkgErrors.CodeAuthError},
		{"unknown auth type", dto.LoginRequest{Username: "admin", Password: "s3cret", AuthType: "oauth"}, pkgErrors.CodeBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := auth.Login(&tc.req)
			assert.Equal(t, tc.code, pkgErrors.CodeOf(err))
		})
	}
}

func TestAuthLoginLDAP(t *testing.T) {
	ldap := &stubLDAP{user: &dto.UserInfo{Username: "alice", DisplayName: "Alice", AuthType: constants.AuthTypeLDAP}}
	auth, _ := newTestAuth(t, true, ldap)

	resp, err := auth.Login(&dto.LoginRequest{Username: "alice", Password: "pw", AuthType: constants.AuthTypeLDAP})
	require.NoError(t, err)
	assert.Equal(t, "Alice", resp.User.DisplayName)

	ldap.user, ldap.err = nil, pkgErrors.ErrInvalidCredentials
	_, err = auth.Login(&dto.LoginRequest{Username: "alice", Password: "bad", AuthType: constants.AuthTypeLDAP})
	assert.ErrorIs(t, err, pkgErrors.ErrInvalidCredentials)
}

func TestAuthRefreshToken(t *testing.T) {
	auth, _ := newTestAuth(t, false, nil)

	login, err := auth.Login(&dto.LoginRequest{Username: "admin", Password: "s3cret", AuthType: constants.AuthTypeLocal})
	require.NoError(t, err)

	refreshed, err := auth.RefreshToken(login.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", refreshed.User.Username)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = auth.RefreshToken(login.AccessToken)
	assert.Equal(t, pkgErrors.CodeUnauthorized, pkgErrors.CodeOf(err))
}
