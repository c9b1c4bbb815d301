package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"game-portal-cms/pkg/constants"
)

// CORSMiddleware 未配置来源时允许所有来源(不携带凭证)
func CORSMiddleware(origins []string) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", constants.HeaderAuthorization}
	corsConfig.MaxAge = 12 * time.Hour

	if len(origins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
		corsConfig.AllowCredentials = true
	}
	return cors.New(corsConfig)
}
