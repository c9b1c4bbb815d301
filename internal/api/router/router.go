package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"game-portal-cms/internal/api/handler"
	"game-portal-cms/internal/api/middleware"
	"game-portal-cms/internal/pkg/config"
	"game-portal-cms/internal/service"
)

// Setup 设置路由
func Setup(cfg *config.Config, services *service.Services) *gin.Engine {
	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// 全局中间件
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.CORSMiddleware(cfg.Server.CORSOrigins))

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger API 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 初始化Handler
	authHandler := handler.NewAuthHandler(services.Auth)
	categoryHandler := handler.NewCategoryHandler(services.Category)
	gameHandler := handler.NewGameHandler(services.Game, services.Import)
	projectHandler := handler.NewProjectHandler(services.Project, services.ProjectCategory, services.Game)
	projectGameHandler := handler.NewProjectGameHandler(services.ProjectGame)
	commentHandler := handler.NewCommentHandler(services.Comment)
	aiHandler := handler.NewAIHandler(services.AI)
	publicHandler := handler.NewPublicHandler(services.Catalog, services.Comment)

	commentLimiter := middleware.NewRateLimiter(cfg.Comment.RateLimitRPS, cfg.Comment.RateLimitBurst)

	// API v1
	v1 := r.Group("/api/v1")
	{
		// 认证相关(无需token)
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.POST("/logout", authHandler.Logout)
		}

		// 前台只读接口(无需token)
		public := v1.Group("/public/projects/:id/:locale/games")
		{
			public.GET("", publicHandler.ListGames)
			public.GET("/:slug", publicHandler.GetGame)
			public.GET("/:slug/comments", publicHandler.ListComments)
			public.POST("/:slug/comments", commentLimiter.Middleware(), publicHandler.SubmitComment)
			public.GET("/:slug/rating", publicHandler.Rating)
		}

		// 需要认证的路由
		authed := v1.Group("")
		authed.Use(middleware.AuthMiddleware(services.Tokens))
		{
			authed.GET("/auth/me", authHandler.GetMe)

			// 分类
			categories := authed.Group("/categories")
			{
				categories.GET("", categoryHandler.List)
				categories.POST("", categoryHandler.Create)
				categories.GET("/:id", categoryHandler.GetByID)
				categories.PUT("/:id", categoryHandler.Update)
				categories.DELETE("/:id", categoryHandler.Delete) // 级联删除
			}

			// 游戏库
			games := authed.Group("/games")
			{
				games.GET("", gameHandler.List)
				games.GET("/search", gameHandler.Search)
				games.POST("", gameHandler.Create)
				games.POST("/import", gameHandler.Import)
				games.GET("/:id", gameHandler.GetByID)
				games.PUT("/:id", gameHandler.Update)
				games.DELETE("/:id", gameHandler.Delete) // 级联删除
			}

			// 项目
			projects := authed.Group("/projects")
			{
				projects.GET("", projectHandler.List)
				projects.POST("", projectHandler.Create)
				projects.GET("/:id", projectHandler.GetByID)
				projects.PUT("/:id", projectHandler.Update)
				projects.DELETE("/:id", projectHandler.Delete) // 级联删除

				projects.GET("/:id/categories", projectHandler.ListCategories)
				projects.PUT("/:id/categories", projectHandler.SyncCategories)
				projects.PATCH("/:id/categories/:bindingId", projectHandler.UpdateCategory)
				projects.GET("/:id/available-games", projectHandler.AvailableGames)

				projects.GET("/:id/games", projectGameHandler.List)
				projects.POST("/:id/games", projectGameHandler.Attach)
				projects.PUT("/:id/games/:gameId/publish", projectGameHandler.SetPublished)
				projects.PUT("/:id/games/:gameId/categories", projectGameHandler.SyncCategories)
			}

			// 项目游戏
			projectGames := authed.Group("/project-games")
			{
				projectGames.GET("/:id", projectGameHandler.GetByID)
				projectGames.PUT("/:id", projectGameHandler.Update)
				projectGames.DELETE("/:id", projectGameHandler.Detach)
			}

			// 评论审核
			comments := authed.Group("/comments")
			{
				comments.GET("", commentHandler.List)
				comments.PUT("/:id/status", commentHandler.Moderate)
				comments.DELETE("/:id", commentHandler.Delete)
			}

			authed.POST("/ai/generate", aiHandler.Generate)
		}
	}

	return r
}
