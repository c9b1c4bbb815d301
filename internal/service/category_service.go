package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"game-portal-cms/internal/dto"
	"game-portal-cms/internal/model"
	"game-portal-cms/internal/repository"
	pkgErrors "game-portal-cms/pkg/errors"
)

type CategoryService interface {
	List(ctx context.Context) ([]*dto.CategoryResponse, error)
	GetByID(ctx context.Context, id string) (*dto.CategoryResponse, error)
	Create(ctx context.Context, req *dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateCategoryRequest) (*dto.CategoryResponse, error)
	Delete(ctx context.Context, id string) error
}

type categoryService struct {
	repo    repository.CategoryRepository
	cascade CascadeService
}

func NewCategoryService(repo repository.CategoryRepository, cascade CascadeService) CategoryService {
	return &categoryService{
		repo:    repo,
		cascade: cascade,
	}
}

func (s *categoryService) List(ctx context.Context) ([]*dto.CategoryResponse, error) {
	categories, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.CategoryResponse, len(categories))
	for i, category := range categories {
		responses[i] = toCategoryResponse(category)
	}
	return responses, nil
}

func (s *categoryService) GetByID(ctx context.Context, id string) (*dto.CategoryResponse, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "分类 %s 不存在", id)
	}
	return toCategoryResponse(category), nil
}

func (s *categoryService) Create(ctx context.Context, req *dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	name, err := s.checkName(ctx, req.Name, "")
	if err != nil {
		return nil, err
	}

	category := &model.Category{
		Name:        name,
		Description: req.Description,
	}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, err
	}

	return toCategoryResponse(category), nil
}

func (s *categoryService) Update(ctx context.Context, id string, req *dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "分类 %s 不存在", id)
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		name, err := s.checkName(ctx, *req.Name, category.ID)
		if err != nil {
			return nil, err
		}
		updates["name"] = name
	}
	if req.Description != nil {
		updates["description"] = req.Description
	}

	if len(updates) > 0 {
		updates["updated_at"] = time.Now()
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, err
		}
	}

	return s.GetByID(ctx, id)
}

func (s *categoryService) Delete(ctx context.Context, id string) error {
	return s.cascade.DeleteCategory(ctx, id)
}

// checkName 校验名称非空且未被其它分类占用
func (s *categoryService) checkName(ctx context.Context, raw, selfID string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", pkgErrors.Validation("分类名称不能为空")
	}

	existing, err := s.repo.FindByName(ctx, name)
	if err != nil && !errors.Is(err, pkgErrors.ErrRecordNotFound) {
		return "", err
	}
	if existing != nil && existing.ID != selfID {
		return "", pkgErrors.Validation("分类 %s 已存在", name)
	}
	return name, nil
}

func toCategoryResponse(category *model.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		CreatedAt:   formatTime(category.CreatedAt),
		UpdatedAt:   formatTime(category.UpdatedAt),
	}
}
