package service

import (
	"context"

	"github.com/samber/lo"

	"game-portal-cms/internal/dto"
	"game-portal-cms/internal/model"
	"game-portal-cms/internal/repository"
	pkgErrors "game-portal-cms/pkg/errors"
)

// CatalogService 前台只读目录：仅返回已发布的项目游戏
type CatalogService interface {
	ListPublished(ctx context.Context, projectID, locale string, query *dto.PageQuery) ([]*dto.PublicGameResponse, int64, error)
	GetPublishedBySlug(ctx context.Context, projectID, locale, slug string) (*dto.PublicGameResponse, error)
}

type catalogService struct {
	repos *repository.Repositories
}

func NewCatalogService(repos *repository.Repositories) CatalogService {
	return &catalogService{repos: repos}
}

func (s *catalogService) ListPublished(ctx context.Context, projectID, locale string, query *dto.PageQuery) ([]*dto.PublicGameResponse, int64, error) {
	locale, err := s.projectLocale(ctx, projectID, locale)
	if err != nil {
		return nil, 0, err
	}

	published := true
	rows, total, err := s.repos.ProjectGame.List(ctx, repository.ProjectGameFilter{
		ProjectID: projectID,
		Locale:    locale,
		Published: &published,
		Search:    query.Keyword,
	}, query.GetPage(), query.GetPageSize())
	if err != nil {
		return nil, 0, err
	}

	responses, err := s.toPublic(ctx, rows)
	if err != nil {
		return nil, 0, err
	}
	return responses, total, nil
}

func (s *catalogService) GetPublishedBySlug(ctx context.Context, projectID, locale, slug string) (*dto.PublicGameResponse, error) {
	locale, err := s.projectLocale(ctx, projectID, locale)
	if err != nil {
		return nil, err
	}

	game, err := s.repos.Game.FindBySlug(ctx, slug)
	if err != nil {
		return nil, notFound(err, "游戏 %s 不存在", slug)
	}
	rows, err := s.repos.ProjectGame.FindByProjectAndGame(ctx, projectID, game.ID, locale)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 || !rows[0].IsPublished {
		return nil, pkgErrors.NotFound("游戏 %s 不存在", slug)
	}

	responses, err := s.toPublic(ctx, rows)
	if err != nil {
		return nil, err
	}
	return responses[0], nil
}

func (s *catalogService) projectLocale(ctx context.Context, projectID, locale string) (string, error) {
	project, err := s.repos.Project.FindByID(ctx, projectID)
	if err != nil {
		return "", notFound(err, "项目 %s 不存在", projectID)
	}
	canonical, err := canonicalLocale(locale)
	if err != nil {
		return "", err
	}
	if !project.HasLocale(canonical) {
		return "", pkgErrors.NotFound("项目 %s 不支持语言 %s", projectID, canonical)
	}
	return canonical, nil
}

// toPublic 补充游戏库字段与启用中的项目分类名称
func (s *catalogService) toPublic(ctx context.Context, rows []*model.ProjectGame) ([]*dto.PublicGameResponse, error) {
	games, err := s.repos.Game.FindByIDs(ctx, lo.Uniq(lo.Map(rows, func(pg *model.ProjectGame, _ int) string { return pg.GameID })))
	if err != nil {
		return nil, err
	}
	gameMap := lo.KeyBy(games, func(g *model.GameBase) string { return g.ID })

	links, err := s.repos.ProjectGame.ListCategoryIDsByProjectGames(ctx, lo.Map(rows, func(pg *model.ProjectGame, _ int) string { return pg.ID }))
	if err != nil {
		return nil, err
	}
	bindings, err := s.repos.ProjectCategory.FindByIDs(ctx, lo.Uniq(lo.Flatten(lo.Values(links))))
	if err != nil {
		return nil, err
	}
	active := lo.KeyBy(lo.Filter(bindings, func(b *model.ProjectCategory, _ int) bool { return b.IsActive }),
		func(b *model.ProjectCategory) string { return b.ID })
	categories, err := s.repos.Category.FindByIDs(ctx, lo.Uniq(lo.MapToSlice(active, func(_ string, b *model.ProjectCategory) string {
		return b.CategoryID
	})))
	if err != nil {
		return nil, err
	}
	names := lo.SliceToMap(categories, func(c *model.Category) (string, string) { return c.ID, c.Name })

	responses := make([]*dto.PublicGameResponse, 0, len(rows))
	for _, row := range rows {
		game, ok := gameMap[row.GameID]
		if !ok {
			continue
		}
		categoryNames := []string{}
		for _, bindingID := range links[row.ID] {
			if binding, ok := active[bindingID]; ok {
				categoryNames = append(categoryNames, names[binding.CategoryID])
			}
		}
		responses = append(responses, &dto.PublicGameResponse{
			ID:         row.ID,
			GameID:     game.ID,
			Slug:       game.Slug,
			Locale:     row.Locale,
			Title:      row.Title,
			Content:    row.Content,
			Metadata:   row.Metadata,
			ImageURL:   game.ImageURL,
			IframeURL:  game.IframeURL,
			Categories: categoryNames,
		})
	}
	return responses, nil
}
