package jwt

import (
	stderrors "errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"game-portal-cms/internal/pkg/config"
	"game-portal-cms/pkg/constants"
	pkgErrors "game-portal-cms/pkg/errors"
)

// UserClaims 管理员Claims
type UserClaims struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	AuthType    string `json:"auth_type"` // ldap or local
	Type        string `json:"type"`      // access or refresh
	jwt.RegisteredClaims
}

// Identity 签发Token所需的身份信息
type Identity struct {
	Username    string
	Email       string
	DisplayName string
	AuthType    string
}

// Manager 负责签发与校验Token
type Manager struct {
	cfg config.JWTConfig
	now func() time.Time
}

func NewManager(cfg config.JWTConfig) *Manager {
	return &Manager{cfg: cfg, now: time.Now}
}

// GenerateAccessToken 生成访问Token
func (m *Manager) GenerateAccessToken(id Identity) (string, error) {
	return m.sign(id, constants.JWTTypeAccess, time.Duration(m.cfg.AccessTokenExpire)*time.Second)
}

// GenerateRefreshToken 生成刷新Token
func (m *Manager) GenerateRefreshToken(id Identity) (string, error) {
	return m.sign(id, constants.JWTTypeRefresh, time.Duration(m.cfg.RefreshTokenExpire)*time.Second)
}

func (m *Manager) sign(id Identity, tokenType string, ttl time.Duration) (string, error) {
	now := m.now()
	claims := UserClaims{
		Username:    id.Username,
		Email:       id.Email,
		DisplayName: id.DisplayName,
		AuthType:    id.AuthType,
		Type:        tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Username,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.cfg.Secret))
}

// ParseToken 解析Token，过期Token返回 ErrTokenExpired
func (m *Manager) ParseToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.cfg.Secret), nil
	}, jwt.WithTimeFunc(m.now))

	if err != nil {
		if stderrors.Is(err, jwt.ErrTokenExpired) {
			return nil, pkgErrors.ErrTokenExpired
		}
		return nil, pkgErrors.Wrap(pkgErrors.CodeUnauthorized, "解析Token失败", err)
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, pkgErrors.ErrInvalidToken
}

// ValidateAccessToken 校验访问Token
func (m *Manager) ValidateAccessToken(tokenString string) (*UserClaims, error) {
	claims, err := m.ParseToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Type != constants.JWTTypeAccess {
		return nil, pkgErrors.New(pkgErrors.CodeUnauthorized, "无效的Token类型")
	}
	return claims, nil
}

// AccessTokenTTL 访问Token有效期(秒)
func (m *Manager) AccessTokenTTL() int {
	return m.cfg.AccessTokenExpire
}
