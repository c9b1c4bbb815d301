package service

import (
	"context"
	"strings"
	"time"

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

// ProjectGameService 将游戏库中的游戏按语言加入项目，并维护发布状态与项目分类
type ProjectGameService interface {
	AttachBatch(ctx context.Context, projectID string, items []dto.AttachGameItem) ([]*dto.ProjectGameResponse, error)
	SetPublished(ctx context.Context, projectID, gameID string, published bool, locale string) ([]*dto.ProjectGameResponse, error)
	SyncGameCategories(ctx context.Context, projectID, gameID string, projectCategoryIDs []string, locale string) ([]*dto.ProjectGameResponse, error)
	List(ctx context.Context, projectID string, query *dto.ProjectGameListQuery) ([]*dto.ProjectGameResponse, int64, error)
	GetByID(ctx context.Context, id string) (*dto.ProjectGameResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateProjectGameRequest) (*dto.ProjectGameResponse, error)
	Detach(ctx context.Context, id string) error
}

type projectGameService struct {
	db      *gorm.DB
	repos   *repository.Repositories
	cascade CascadeService
}

func NewProjectGameService(db *gorm.DB, repos *repository.Repositories, cascade CascadeService) ProjectGameService {
	return &projectGameService{
		db:      db,
		repos:   repos,
		cascade: cascade,
	}
}

type attachKey struct {
	gameID string
	locale string
}

func (s *projectGameService) AttachBatch(ctx context.Context, projectID string, items []dto.AttachGameItem) ([]*dto.ProjectGameResponse, error) {
	project, err := s.repos.Project.FindByID(ctx, projectID)
	if err != nil {
		return nil, notFound(err, "项目 %s 不存在", projectID)
	}
	if len(items) == 0 {
		return nil, pkgErrors.Validation("待加入的游戏列表不能为空")
	}

	// 1. 逐项校验并规范化
	keys := make([]attachKey, len(items))
	seen := make(map[attachKey]struct{}, len(items))
	for i, item := range items {
		gameID := strings.TrimSpace(item.GameID)
		if gameID == "" {
			return nil, pkgErrors.Validation("第 %d 项缺少 game_id", i+1)
		}
		if strings.TrimSpace(item.Locale) == "" {
			return nil, pkgErrors.Validation("第 %d 项缺少 locale", i+1)
		}
		locale, err := canonicalLocale(item.Locale)
		if err != nil {
			return nil, err
		}
		if !project.HasLocale(locale) {
			return nil, pkgErrors.Validation("语言 %s 不在项目支持的语言中", locale)
		}
		key := attachKey{gameID: gameID, locale: locale}
		if _, dup := seen[key]; dup {
			return nil, pkgErrors.Validation("游戏 %s(%s) 在本次提交中重复", gameID, locale)
		}
		seen[key] = struct{}{}
		keys[i] = key
	}

	// 2. 游戏必须存在于游戏库
	gameIDs := lo.Uniq(lo.Map(keys, func(k attachKey, _ int) string { return k.gameID }))
	games, err := s.repos.Game.FindByIDs(ctx, gameIDs)
	if err != nil {
		return nil, err
	}
	gameMap := lo.KeyBy(games, func(g *model.GameBase) string { return g.ID })
	for _, id := range gameIDs {
		if _, ok := gameMap[id]; !ok {
			return nil, pkgErrors.Validation("游戏 %s 不存在", id)
		}
	}

	// 3. 不能重复加入
	existing, err := s.repos.ProjectGame.FindByProjectAndGames(ctx, projectID, gameIDs)
	if err != nil {
		return nil, err
	}
	for _, pg := range existing {
		if _, clash := seen[attachKey{gameID: pg.GameID, locale: pg.Locale}]; clash {
			return nil, pkgErrors.Validation("游戏 %s(%s) 已在项目中", pg.GameID, pg.Locale)
		}
	}

	rows := make([]*model.ProjectGame, len(items))
	for i, item := range items {
		game := gameMap[keys[i].gameID]
		title := strings.TrimSpace(item.Title)
		if title == "" {
			title = game.Title
		}
		metadata := item.Metadata
		if len(metadata) == 0 {
			metadata = game.Metadata
		}
		rows[i] = &model.ProjectGame{
			ProjectID:   projectID,
			GameID:      game.ID,
			Locale:      keys[i].locale,
			Title:       title,
			Content:     item.Content,
			Metadata:    metadata,
			BaseVersion: constants.DefaultBaseVersion,
			IsPublished: false,
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repos.ProjectGame.WithTx(tx).BatchCreate(ctx, rows)
	})
	if err != nil {
		return nil, pkgErrors.AsStorage("加入项目游戏失败", err)
	}

	logger.Info("游戏已加入项目", zap.String("project_id", projectID), zap.Int("count", len(rows)))
	return lo.Map(rows, func(pg *model.ProjectGame, _ int) *dto.ProjectGameResponse {
		return toProjectGameResponse(pg, nil)
	}), nil
}

func (s *projectGameService) SetPublished(ctx context.Context, projectID, gameID string, published bool, locale string) ([]*dto.ProjectGameResponse, error) {
	rows, err := s.findTargets(ctx, projectID, gameID, locale)
	if err != nil {
		return nil, err
	}

	ids := lo.Map(rows, func(pg *model.ProjectGame, _ int) string { return pg.ID })
	if err := s.repos.ProjectGame.SetPublished(ctx, ids, published); err != nil {
		return nil, err
	}

	logger.Info("发布状态已更新",
		zap.String("project_id", projectID),
		zap.String("game_id", gameID),
		zap.Bool("published", published),
		zap.Int("count", len(ids)))
	for _, row := range rows {
		row.IsPublished = published
	}
	return s.responses(ctx, rows)
}

// SyncGameCategories 每个目标行独立做差量同步；期望集合中的绑定必须是本项目启用中的分类
func (s *projectGameService) SyncGameCategories(ctx context.Context, projectID, gameID string, projectCategoryIDs []string, locale string) ([]*dto.ProjectGameResponse, error) {
	rows, err := s.findTargets(ctx, projectID, gameID, locale)
	if err != nil {
		return nil, err
	}

	desired, err := normalizeIDs("project_category_ids", projectCategoryIDs)
	if err != nil {
		return nil, err
	}
	bindings, err := s.repos.ProjectCategory.FindByIDs(ctx, desired)
	if err != nil {
		return nil, err
	}
	valid := lo.Filter(bindings, func(b *model.ProjectCategory, _ int) bool {
		return b.ProjectID == projectID && b.IsActive
	})
	if len(valid) != len(desired) {
		validIDs := lo.Map(valid, func(b *model.ProjectCategory, _ int) string { return b.ID })
		invalid := lo.Without(desired, validIDs...)
		return nil, pkgErrors.Validation("项目分类 %s 不存在、未启用或不属于该项目", strings.Join(invalid, ","))
	}

	rowIDs := lo.Map(rows, func(pg *model.ProjectGame, _ int) string { return pg.ID })
	current, err := s.repos.ProjectGame.ListCategoryIDsByProjectGames(ctx, rowIDs)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repos.ProjectGame.WithTx(tx)
		for _, id := range rowIDs {
			toRemove, toAdd := lo.Difference(current[id], desired)
			if err := repo.RemoveCategories(ctx, id, toRemove); err != nil {
				return err
			}
			if err := repo.AddCategories(ctx, id, toAdd); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, pkgErrors.AsStorage("同步项目游戏分类失败", err)
	}

	return s.responses(ctx, rows)
}

func (s *projectGameService) List(ctx context.Context, projectID string, query *dto.ProjectGameListQuery) ([]*dto.ProjectGameResponse, int64, error) {
	if _, err := s.repos.Project.FindByID(ctx, projectID); err != nil {
		return nil, 0, notFound(err, "项目 %s 不存在", projectID)
	}

	filter := repository.ProjectGameFilter{
		ProjectID: projectID,
		Published: query.Published,
		Search:    query.Keyword,
	}
	if query.Locale != "" {
		locale, err := canonicalLocale(query.Locale)
		if err != nil {
			return nil, 0, err
		}
		filter.Locale = locale
	}

	rows, total, err := s.repos.ProjectGame.List(ctx, filter, query.GetPage(), query.GetPageSize())
	if err != nil {
		return nil, 0, err
	}
	responses, err := s.responses(ctx, rows)
	if err != nil {
		return nil, 0, err
	}
	return responses, total, nil
}

func (s *projectGameService) GetByID(ctx context.Context, id string) (*dto.ProjectGameResponse, error) {
	row, err := s.repos.ProjectGame.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "项目游戏 %s 不存在", id)
	}
	categoryIDs, err := s.repos.ProjectGame.ListCategoryIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProjectGameResponse(row, categoryIDs), nil
}

func (s *projectGameService) Update(ctx context.Context, id string, req *dto.UpdateProjectGameRequest) (*dto.ProjectGameResponse, error) {
	if _, err := s.repos.ProjectGame.FindByID(ctx, id); err != nil {
		return nil, notFound(err, "项目游戏 %s 不存在", id)
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, pkgErrors.Validation("标题不能为空")
		}
		updates["title"] = title
	}
	if req.Content != nil {
		updates["content"] = *req.Content
	}
	if req.Metadata != nil {
		updates["metadata"] = req.Metadata
	}
	if len(updates) > 0 {
		updates["updated_at"] = time.Now()
		if err := s.repos.ProjectGame.Update(ctx, id, updates); err != nil {
			return nil, err
		}
	}

	return s.GetByID(ctx, id)
}

func (s *projectGameService) Detach(ctx context.Context, id string) error {
	return s.cascade.DeleteProjectGame(ctx, id)
}

// findTargets (project, game) 的全部语言行，locale 非空时只取该语言
func (s *projectGameService) findTargets(ctx context.Context, projectID, gameID, locale string) ([]*model.ProjectGame, error) {
	if locale != "" {
		canonical, err := canonicalLocale(locale)
		if err != nil {
			return nil, err
		}
		locale = canonical
	}
	rows, err := s.repos.ProjectGame.FindByProjectAndGame(ctx, projectID, gameID, locale)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		if locale != "" {
			return nil, pkgErrors.NotFound("项目 %s 中不存在游戏 %s(%s)", projectID, gameID, locale)
		}
		return nil, pkgErrors.NotFound("项目 %s 中不存在游戏 %s", projectID, gameID)
	}
	return rows, nil
}

func (s *projectGameService) responses(ctx context.Context, rows []*model.ProjectGame) ([]*dto.ProjectGameResponse, error) {
	ids := lo.Map(rows, func(pg *model.ProjectGame, _ int) string { return pg.ID })
	categoryMap, err := s.repos.ProjectGame.ListCategoryIDsByProjectGames(ctx, ids)
	if err != nil {
		return nil, err
	}
	responses := make([]*dto.ProjectGameResponse, len(rows))
	for i, row := range rows {
		responses[i] = toProjectGameResponse(row, categoryMap[row.ID])
	}
	return responses, nil
}

func toProjectGameResponse(pg *model.ProjectGame, categoryIDs []string) *dto.ProjectGameResponse {
	return &dto.ProjectGameResponse{
		ID:                 pg.ID,
		ProjectID:          pg.ProjectID,
		GameID:             pg.GameID,
		Locale:             pg.Locale,
		Title:              pg.Title,
		Content:            pg.Content,
		Metadata:           pg.Metadata,
		BaseVersion:        pg.BaseVersion,
		IsPublished:        pg.IsPublished,
		ProjectCategoryIDs: nonNil(categoryIDs),
		CreatedAt:          formatTime(pg.CreatedAt),
		UpdatedAt:          formatTime(pg.UpdatedAt),
	}
}
