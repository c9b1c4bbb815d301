package service

import (
	"context"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"game-portal-cms/internal/dto"
	"game-portal-cms/internal/model"
	"game-portal-cms/internal/pkg/logger"
	"game-portal-cms/internal/repository"
	pkgErrors "game-portal-cms/pkg/errors"
)

// ProjectCategoryService 维护项目与分类的绑定
type ProjectCategoryService interface {
	ListBindings(ctx context.Context, projectID string) ([]*dto.ProjectCategoryResponse, error)
	SyncCategories(ctx context.Context, projectID string, categoryIDs []string) (*dto.SyncProjectCategoriesResponse, error)
	UpdateBinding(ctx context.Context, projectID, bindingID string, req *dto.UpdateProjectCategoryRequest) (*dto.ProjectCategoryResponse, error)
}

type projectCategoryService struct {
	db    *gorm.DB
	repos *repository.Repositories
}

func NewProjectCategoryService(db *gorm.DB, repos *repository.Repositories) ProjectCategoryService {
	return &projectCategoryService{
		db:    db,
		repos: repos,
	}
}

func (s *projectCategoryService) ListBindings(ctx context.Context, projectID string) ([]*dto.ProjectCategoryResponse, error) {
	if _, err := s.repos.Project.FindByID(ctx, projectID); err != nil {
		return nil, notFound(err, "项目 %s 不存在", projectID)
	}
	return s.listBindings(ctx, projectID)
}

// SyncCategories 差量同步：删除多余绑定(连同其下的项目游戏分类)，新增缺失绑定，其余保持不变
func (s *projectCategoryService) SyncCategories(ctx context.Context, projectID string, categoryIDs []string) (*dto.SyncProjectCategoriesResponse, error) {
	if _, err := s.repos.Project.FindByID(ctx, projectID); err != nil {
		return nil, notFound(err, "项目 %s 不存在", projectID)
	}

	desired, err := normalizeIDs("category_ids", categoryIDs)
	if err != nil {
		return nil, err
	}
	if len(desired) > 0 {
		count, err := s.repos.Category.CountByIDs(ctx, desired)
		if err != nil {
			return nil, err
		}
		if count != int64(len(desired)) {
			return nil, pkgErrors.Validation("category_ids 包含不存在的分类")
		}
	}

	bindings, err := s.repos.ProjectCategory.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	byCategory := lo.KeyBy(bindings, func(b *model.ProjectCategory) string { return b.CategoryID })
	current := lo.Map(bindings, func(b *model.ProjectCategory, _ int) string { return b.CategoryID })

	toRemove, toAdd := lo.Difference(current, desired)
	unchanged := lo.Filter(current, func(id string, _ int) bool { return lo.Contains(desired, id) })

	removedBindingIDs := lo.Map(toRemove, func(categoryID string, _ int) string { return byCategory[categoryID].ID })
	position := make(map[string]int, len(desired))
	for i, id := range desired {
		position[id] = i
	}
	newBindings := lo.Map(toAdd, func(categoryID string, _ int) *model.ProjectCategory {
		return &model.ProjectCategory{
			ProjectID:  projectID,
			CategoryID: categoryID,
			IsActive:   true,
			SortOrder:  position[categoryID],
		}
	})

	if len(toRemove) > 0 || len(toAdd) > 0 {
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			repos := s.repos.WithTx(tx)
			if err := repos.ProjectGame.DeleteCategoriesByProjectCategories(ctx, removedBindingIDs); err != nil {
				return err
			}
			if err := repos.ProjectCategory.DeleteByIDs(ctx, removedBindingIDs); err != nil {
				return err
			}
			return repos.ProjectCategory.BatchCreate(ctx, newBindings)
		})
		if err != nil {
			return nil, pkgErrors.AsStorage("同步项目分类失败", err)
		}

		logger.Info("项目分类已同步",
			zap.String("project_id", projectID),
			zap.Strings("added", toAdd),
			zap.Strings("removed", toRemove))
	}

	result, err := s.listBindings(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return &dto.SyncProjectCategoriesResponse{
		Added:     nonNil(toAdd),
		Removed:   nonNil(toRemove),
		Unchanged: nonNil(unchanged),
		Bindings:  result,
	}, nil
}

func (s *projectCategoryService) UpdateBinding(ctx context.Context, projectID, bindingID string, req *dto.UpdateProjectCategoryRequest) (*dto.ProjectCategoryResponse, error) {
	binding, err := s.repos.ProjectCategory.FindByID(ctx, bindingID)
	if err != nil {
		return nil, notFound(err, "项目分类 %s 不存在", bindingID)
	}
	if binding.ProjectID != projectID {
		return nil, pkgErrors.NotFound("项目分类 %s 不属于项目 %s", bindingID, projectID)
	}

	updates := map[string]interface{}{}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.SortOrder != nil {
		updates["sort_order"] = *req.SortOrder
	}
	if len(updates) > 0 {
		updates["updated_at"] = time.Now()
		if err := s.repos.ProjectCategory.Update(ctx, bindingID, updates); err != nil {
			return nil, err
		}
	}

	binding, err = s.repos.ProjectCategory.FindByID(ctx, bindingID)
	if err != nil {
		return nil, err
	}
	category, err := s.repos.Category.FindByID(ctx, binding.CategoryID)
	if err != nil {
		return nil, err
	}
	return toProjectCategoryResponse(binding, category.Name), nil
}

func (s *projectCategoryService) listBindings(ctx context.Context, projectID string) ([]*dto.ProjectCategoryResponse, error) {
	bindings, err := s.repos.ProjectCategory.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	categories, err := s.repos.Category.FindByIDs(ctx, lo.Map(bindings, func(b *model.ProjectCategory, _ int) string {
		return b.CategoryID
	}))
	if err != nil {
		return nil, err
	}
	names := lo.SliceToMap(categories, func(c *model.Category) (string, string) { return c.ID, c.Name })

	responses := make([]*dto.ProjectCategoryResponse, len(bindings))
	for i, binding := range bindings {
		responses[i] = toProjectCategoryResponse(binding, names[binding.CategoryID])
	}
	return responses, nil
}

func toProjectCategoryResponse(binding *model.ProjectCategory, categoryName string) *dto.ProjectCategoryResponse {
	return &dto.ProjectCategoryResponse{
		ID:           binding.ID,
		ProjectID:    binding.ProjectID,
		CategoryID:   binding.CategoryID,
		CategoryName: categoryName,
		IsActive:     binding.IsActive,
		SortOrder:    binding.SortOrder,
		CreatedAt:    formatTime(binding.CreatedAt),
		UpdatedAt:    formatTime(binding.UpdatedAt),
	}
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
