package service

import (
	"fmt"

	"gorm.io/gorm"

	"game-portal-cms/internal/adapter/notification"
	"game-portal-cms/internal/pkg/config"
	"game-portal-cms/internal/pkg/crypto"
	"game-portal-cms/internal/pkg/jwt"
	"game-portal-cms/internal/repository"
)

// Services 启动时一次性装配，供路由与定时任务共用
type Services struct {
	Tokens *jwt.Manager

	Auth            AuthService
	Cascade         CascadeService
	Category        CategoryService
	Game            GameService
	Project         ProjectService
	ProjectCategory ProjectCategoryService
	ProjectGame     ProjectGameService
	Comment         CommentService
	Catalog         CatalogService
	AI              AIService
	Import          ImportService
}

func NewServices(cfg *config.Config, db *gorm.DB, notifier notification.Notifier) (*Services, error) {
	// 未配置 aes_key 时无法保存项目级 AI 密钥
	var cipher *crypto.Cipher
	if cfg.Crypto.AESKey != "" {
		c, err := crypto.NewCipher(cfg.Crypto.AESKey)
		if err != nil {
			return nil, fmt.Errorf("初始化加密组件失败: %w", err)
		}
		cipher = c
	}

	repos := repository.NewRepositories(db)
	tokens := jwt.NewManager(cfg.Auth.JWT)
	cascade := NewCascadeService(db, repos)

	return &Services{
		Tokens:          tokens,
		Auth:            NewAuthService(&cfg.Auth, tokens, NewLDAPService(&cfg.Auth.LDAP)),
		Cascade:         cascade,
		Category:        NewCategoryService(repos.Category, cascade),
		Game:            NewGameService(db, repos, cascade),
		Project:         NewProjectService(repos, cascade, cipher),
		ProjectCategory: NewProjectCategoryService(db, repos),
		ProjectGame:     NewProjectGameService(db, repos, cascade),
		Comment:         NewCommentService(repos, notifier),
		Catalog:         NewCatalogService(repos),
		AI:              NewAIService(&cfg.AI, repos, cipher),
		Import:          NewImportService(db, repos, &cfg.Import),
	}, nil
}
