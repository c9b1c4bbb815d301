package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"game-portal-cms/internal/dto"
	"game-portal-cms/internal/pkg/jwt"
	"game-portal-cms/pkg/constants"
	pkgErrors "game-portal-cms/pkg/errors"
	"game-portal-cms/pkg/utils"
)

// AuthMiddleware JWT认证中间件，Token 取自 Authorization Header，其次取自 Cookie
func AuthMiddleware(tokens *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := extractToken(c)
		if !ok {
			utils.ErrorWithCode(c, pkgErrors.CodeUnauthorized, "缺少访问Token")
			c.Abort()
			return
		}

		// 验证Token(必须是AccessToken)
		claims, err := tokens.ValidateAccessToken(token)
		if err != nil {
			utils.Error(c, err)
			c.Abort()
			return
		}

		// 将用户信息存入context
		userInfo := &dto.UserInfo{
			Username:    claims.Username,
			Email:       claims.Email,
			DisplayName: claims.DisplayName,
			AuthType:    claims.AuthType,
		}
		c.Set(constants.ContextKeyUser, userInfo)
		c.Set(constants.ContextKeyUserID, claims.Username)

		c.Next()
	}
}

func extractToken(c *gin.Context) (string, bool) {
	if authHeader := c.GetHeader(constants.HeaderAuthorization); authHeader != "" {
		if !strings.HasPrefix(authHeader, constants.HeaderBearerPrefix) {
			return "", false
		}
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, constants.HeaderBearerPrefix))
		return token, token != ""
	}
	if cookie, err := c.Cookie(constants.TokenCookieName); err == nil && cookie != "" {
		return cookie, true
	}
	return "", false
}
