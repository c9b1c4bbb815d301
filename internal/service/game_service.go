package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"game-portal-cms/internal/dto"
	"game-portal-cms/internal/model"
	"game-portal-cms/internal/pkg/logger"
	"game-portal-cms/internal/repository"
	"game-portal-cms/pkg/constants"
	pkgErrors "game-portal-cms/pkg/errors"
)

const maxRating = 5.0

type GameService interface {
	List(ctx context.Context, query *dto.GameListQuery) ([]*dto.GameResponse, int64, error)
	GetByID(ctx context.Context, id string) (*dto.GameResponse, error)
	ListAvailableForProject(ctx context.Context, projectID string, query *dto.GameListQuery) ([]*dto.GameResponse, int64, error)
	Search(ctx context.Context, query string) ([]*dto.GameResponse, error)
	Create(ctx context.Context, req *dto.CreateGameRequest) (*dto.GameResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateGameRequest) (*dto.GameResponse, error)
	Delete(ctx context.Context, id string) error
}

type gameService struct {
	db      *gorm.DB
	repos   *repository.Repositories
	cascade CascadeService
}

func NewGameService(db *gorm.DB, repos *repository.Repositories, cascade CascadeService) GameService {
	return &gameService{
		db:      db,
		repos:   repos,
		cascade: cascade,
	}
}

func (s *gameService) List(ctx context.Context, query *dto.GameListQuery) ([]*dto.GameResponse, int64, error) {
	games, total, err := s.repos.Game.List(ctx, query.GetPage(), query.GetPageSize(), query.Keyword)
	if err != nil {
		return nil, 0, err
	}
	responses, err := s.toResponses(ctx, games)
	if err != nil {
		return nil, 0, err
	}
	return responses, total, nil
}

func (s *gameService) GetByID(ctx context.Context, id string) (*dto.GameResponse, error) {
	game, err := s.repos.Game.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "游戏 %s 不存在", id)
	}
	categoryIDs, err := s.repos.Game.ListCategoryIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	return toGameResponse(game, categoryIDs), nil
}

func (s *gameService) ListAvailableForProject(ctx context.Context, projectID string, query *dto.GameListQuery) ([]*dto.GameResponse, int64, error) {
	if _, err := s.repos.Project.FindByID(ctx, projectID); err != nil {
		return nil, 0, notFound(err, "项目 %s 不存在", projectID)
	}

	games, total, err := s.repos.Game.ListAvailableForProject(ctx, projectID, query.GetPage(), query.GetPageSize(), query.Keyword)
	if err != nil {
		return nil, 0, err
	}
	responses, err := s.toResponses(ctx, games)
	if err != nil {
		return nil, 0, err
	}
	return responses, total, nil
}

func (s *gameService) Search(ctx context.Context, query string) ([]*dto.GameResponse, error) {
	if strings.TrimSpace(query) == "" {
		return []*dto.GameResponse{}, nil
	}
	games, err := s.repos.Game.Search(ctx, query, constants.SearchResultLimit)
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, games)
}

func (s *gameService) Create(ctx context.Context, req *dto.CreateGameRequest) (*dto.GameResponse, error) {
	game := &model.GameBase{
		Title:     strings.TrimSpace(req.Title),
		ImageURL:  strings.TrimSpace(req.ImageURL),
		IframeURL: strings.TrimSpace(req.IframeURL),
		Rating:    req.Rating,
		Metadata:  req.Metadata,
	}
	if err := validateGame(game); err != nil {
		return nil, err
	}

	categoryIDs, err := s.checkCategories(ctx, s.repos, req.CategoryIDs)
	if err != nil {
		return nil, err
	}

	game.Slug, err = uniqueSlug(ctx, s.repos.Game, game.Title)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := s.repos.WithTx(tx)
		if err := repos.Game.Create(ctx, game); err != nil {
			return err
		}
		return repos.Game.AddCategories(ctx, game.ID, categoryIDs)
	})
	if err != nil {
		return nil, pkgErrors.AsStorage("创建游戏失败", err)
	}

	logger.Info("游戏已创建", zap.String("game_id", game.ID), zap.String("slug", game.Slug))
	return toGameResponse(game, categoryIDs), nil
}

func (s *gameService) Update(ctx context.Context, id string, req *dto.UpdateGameRequest) (*dto.GameResponse, error) {
	game, err := s.repos.Game.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "游戏 %s 不存在", id)
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		game.Title = strings.TrimSpace(*req.Title)
		updates["title"] = game.Title
	}
	if req.ImageURL != nil {
		game.ImageURL = strings.TrimSpace(*req.ImageURL)
		updates["image_url"] = game.ImageURL
	}
	if req.IframeURL != nil {
		game.IframeURL = strings.TrimSpace(*req.IframeURL)
		updates["iframe_url"] = game.IframeURL
	}
	if req.Rating != nil {
		game.Rating = *req.Rating
		updates["rating"] = game.Rating
	}
	if req.Metadata != nil {
		game.Metadata = req.Metadata
		updates["metadata"] = game.Metadata
	}
	if err := validateGame(game); err != nil {
		return nil, err
	}

	var toAdd, toRemove []string
	if req.CategoryIDs != nil {
		desired, err := s.checkCategories(ctx, s.repos, *req.CategoryIDs)
		if err != nil {
			return nil, err
		}
		current, err := s.repos.Game.ListCategoryIDs(ctx, id)
		if err != nil {
			return nil, err
		}
		toRemove, toAdd = lo.Difference(current, desired)
	}

	if len(updates) == 0 && len(toAdd) == 0 && len(toRemove) == 0 {
		return s.GetByID(ctx, id)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := s.repos.WithTx(tx)
		if len(updates) > 0 {
			updates["updated_at"] = time.Now()
			if err := repos.Game.Update(ctx, id, updates); err != nil {
				return err
			}
		}
		if err := repos.Game.RemoveCategories(ctx, id, toRemove); err != nil {
			return err
		}
		return repos.Game.AddCategories(ctx, id, toAdd)
	})
	if err != nil {
		return nil, pkgErrors.AsStorage("更新游戏失败", err)
	}

	return s.GetByID(ctx, id)
}

func (s *gameService) Delete(ctx context.Context, id string) error {
	return s.cascade.DeleteGame(ctx, id)
}

// checkCategories 校验游戏库分类ID均存在
func (s *gameService) checkCategories(ctx context.Context, repos *repository.Repositories, ids []string) ([]string, error) {
	ids, err := normalizeIDs("category_ids", ids)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return ids, nil
	}
	count, err := repos.Category.CountByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if count != int64(len(ids)) {
		return nil, pkgErrors.Validation("category_ids 包含不存在的分类")
	}
	return ids, nil
}

func (s *gameService) toResponses(ctx context.Context, games []*model.GameBase) ([]*dto.GameResponse, error) {
	ids := lo.Map(games, func(g *model.GameBase, _ int) string { return g.ID })
	categoryMap, err := s.repos.Game.ListCategoryIDsByGames(ctx, ids)
	if err != nil {
		return nil, err
	}
	responses := make([]*dto.GameResponse, len(games))
	for i, game := range games {
		responses[i] = toGameResponse(game, categoryMap[game.ID])
	}
	return responses, nil
}

func validateGame(game *model.GameBase) error {
	if game.Title == "" {
		return pkgErrors.Validation("游戏标题不能为空")
	}
	if !isHTTPURL(game.IframeURL) {
		return pkgErrors.Validation("iframe_url 不是合法的 http(s) 地址")
	}
	if game.ImageURL != "" && !isHTTPURL(game.ImageURL) {
		return pkgErrors.Validation("image_url 不是合法的 http(s) 地址")
	}
	if game.Rating < 0 || game.Rating > maxRating {
		return pkgErrors.Validation("rating 必须在 0 到 %v 之间", maxRating)
	}
	return nil
}

// uniqueSlug 基于标题生成 slug，冲突时追加数字后缀
func uniqueSlug(ctx context.Context, repo repository.GameRepository, title string) (string, error) {
	base := slug.Make(title)
	if base == "" {
		base = "game"
	}

	taken, err := repo.ListSlugsWithPrefix(ctx, base)
	if err != nil {
		return "", err
	}
	used := lo.SliceToMap(taken, func(s string) (string, struct{}) { return s, struct{}{} })
	if _, ok := used[base]; !ok {
		return base, nil
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d", base, n)
		if _, ok := used[candidate]; !ok {
			return candidate, nil
		}
	}
}

func toGameResponse(game *model.GameBase, categoryIDs []string) *dto.GameResponse {
	if categoryIDs == nil {
		categoryIDs = []string{}
	}
	return &dto.GameResponse{
		ID:          game.ID,
		Title:       game.Title,
		Slug:        game.Slug,
		ImageURL:    game.ImageURL,
		IframeURL:   game.IframeURL,
		Rating:      game.Rating,
		Metadata:    game.Metadata,
		CategoryIDs: categoryIDs,
		CreatedAt:   formatTime(game.CreatedAt),
		UpdatedAt:   formatTime(game.UpdatedAt),
	}
}
