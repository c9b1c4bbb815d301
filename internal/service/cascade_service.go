package service

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"game-portal-cms/internal/pkg/logger"
	"game-portal-cms/internal/pkg/metrics"
	"game-portal-cms/internal/repository"
	pkgErrors "game-portal-cms/pkg/errors"
)

// CascadeService 多表删除的唯一入口，每个入口在一个事务内先删子表再删父表
type CascadeService interface {
	DeleteProject(ctx context.Context, projectID string) error
	DeleteGame(ctx context.Context, gameID string) error
	DeleteCategory(ctx context.Context, categoryID string) error
	DeleteProjectGame(ctx context.Context, projectGameID string) error
}

type cascadeService struct {
	db    *gorm.DB
	repos *repository.Repositories
}

func NewCascadeService(db *gorm.DB, repos *repository.Repositories) CascadeService {
	return &cascadeService{db: db, repos: repos}
}

func (s *cascadeService) DeleteProject(ctx context.Context, projectID string) error {
	if _, err := s.repos.Project.FindByID(ctx, projectID); err != nil {
		return notFound(err, "项目 %s 不存在", projectID)
	}

	err := s.inTx(ctx, "project", func(repos *repository.Repositories) error {
		projectGameIDs, err := repos.ProjectGame.ListIDsByProject(ctx, projectID)
		if err != nil {
			return err
		}
		if err := repos.ProjectGame.DeleteCategoriesByProjectGames(ctx, projectGameIDs); err != nil {
			return err
		}
		if err := repos.ProjectGame.DeleteByProject(ctx, projectID); err != nil {
			return err
		}
		if err := repos.Comment.DeleteByProject(ctx, projectID); err != nil {
			return err
		}
		if err := repos.ProjectCategory.DeleteByProject(ctx, projectID); err != nil {
			return err
		}
		return repos.Project.Delete(ctx, projectID)
	})
	if err != nil {
		return pkgErrors.AsStorage("删除项目失败", err)
	}

	logger.Info("项目已删除", zap.String("project_id", projectID))
	return nil
}

func (s *cascadeService) DeleteGame(ctx context.Context, gameID string) error {
	if _, err := s.repos.Game.FindByID(ctx, gameID); err != nil {
		return notFound(err, "游戏 %s 不存在", gameID)
	}

	err := s.inTx(ctx, "game", func(repos *repository.Repositories) error {
		projectGameIDs, err := repos.ProjectGame.ListIDsByGame(ctx, gameID)
		if err != nil {
			return err
		}
		if err := repos.ProjectGame.DeleteCategoriesByProjectGames(ctx, projectGameIDs); err != nil {
			return err
		}
		if err := repos.ProjectGame.DeleteByGame(ctx, gameID); err != nil {
			return err
		}
		if err := repos.Comment.DeleteByGame(ctx, gameID); err != nil {
			return err
		}
		if err := repos.Game.DeleteCategoriesByGame(ctx, gameID); err != nil {
			return err
		}
		return repos.Game.Delete(ctx, gameID)
	})
	if err != nil {
		return pkgErrors.AsStorage("删除游戏失败", err)
	}

	logger.Info("游戏已删除", zap.String("game_id", gameID))
	return nil
}

func (s *cascadeService) DeleteCategory(ctx context.Context, categoryID string) error {
	if _, err := s.repos.Category.FindByID(ctx, categoryID); err != nil {
		return notFound(err, "分类 %s 不存在", categoryID)
	}

	err := s.inTx(ctx, "category", func(repos *repository.Repositories) error {
		bindingIDs, err := repos.ProjectCategory.ListIDsByCategory(ctx, categoryID)
		if err != nil {
			return err
		}
		if err := repos.ProjectGame.DeleteCategoriesByProjectCategories(ctx, bindingIDs); err != nil {
			return err
		}
		if err := repos.ProjectCategory.DeleteByCategory(ctx, categoryID); err != nil {
			return err
		}
		if err := repos.Game.DeleteCategoriesByCategory(ctx, categoryID); err != nil {
			return err
		}
		return repos.Category.Delete(ctx, categoryID)
	})
	if err != nil {
		return pkgErrors.AsStorage("删除分类失败", err)
	}

	logger.Info("分类已删除", zap.String("category_id", categoryID))
	return nil
}

func (s *cascadeService) DeleteProjectGame(ctx context.Context, projectGameID string) error {
	projectGame, err := s.repos.ProjectGame.FindByID(ctx, projectGameID)
	if err != nil {
		return notFound(err, "项目游戏 %s 不存在", projectGameID)
	}

	err = s.inTx(ctx, "project_game", func(repos *repository.Repositories) error {
		if err := repos.ProjectGame.DeleteCategoriesByProjectGames(ctx, []string{projectGameID}); err != nil {
			return err
		}
		target := repository.CommentTarget{
			ProjectID: projectGame.ProjectID,
			GameID:    projectGame.GameID,
			Locale:    projectGame.Locale,
		}
		if err := repos.Comment.DeleteByTarget(ctx, target); err != nil {
			return err
		}
		return repos.ProjectGame.DeleteByIDs(ctx, []string{projectGameID})
	})
	if err != nil {
		return pkgErrors.AsStorage("移除项目游戏失败", err)
	}

	logger.Info("项目游戏已移除",
		zap.String("project_id", projectGame.ProjectID),
		zap.String("game_id", projectGame.GameID),
		zap.String("locale", projectGame.Locale))
	return nil
}

func (s *cascadeService) inTx(ctx context.Context, entity string, fn func(repos *repository.Repositories) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(s.repos.WithTx(tx))
	})
	metrics.CascadeDeletes.WithLabelValues(entity, metrics.Result(err)).Inc()
	if err != nil {
		logger.Error("级联删除失败", zap.String("entity", entity), zap.Error(err))
	}
	return err
}
