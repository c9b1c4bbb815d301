package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"game-portal-cms/internal/model"
	pkgErrors "game-portal-cms/pkg/errors"
)

type ProjectCategoryRepository interface {
	WithTx(tx *gorm.DB) ProjectCategoryRepository
	BatchCreate(ctx context.Context, bindings []*model.ProjectCategory) error
	FindByID(ctx context.Context, id string) (*model.ProjectCategory, error)
	FindByIDs(ctx context.Context, ids []string) ([]*model.ProjectCategory, error)
	ListByProject(ctx context.Context, projectID string) ([]*model.ProjectCategory, error)
	ListIDsByCategory(ctx context.Context, categoryID string) ([]string, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) error
	DeleteByIDs(ctx context.Context, ids []string) error
	DeleteByProject(ctx context.Context, projectID string) error
	DeleteByCategory(ctx context.Context, categoryID string) error
}

type projectCategoryRepository struct {
	db *gorm.DB
}

func NewProjectCategoryRepository(db *gorm.DB) ProjectCategoryRepository {
	return &projectCategoryRepository{db: db}
}

func (r *projectCategoryRepository) WithTx(tx *gorm.DB) ProjectCategoryRepository {
	return &projectCategoryRepository{db: tx}
}

func (r *projectCategoryRepository) BatchCreate(ctx context.Context, bindings []*model.ProjectCategory) error {
	if len(bindings) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&bindings).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "创建项目分类失败", err)
	}
	return nil
}

func (r *projectCategoryRepository) FindByID(ctx context.Context, id string) (*model.ProjectCategory, error) {
	var binding model.ProjectCategory
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&binding).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgErrors.ErrRecordNotFound
		}
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询项目分类失败", err)
	}
	return &binding, nil
}

func (r *projectCategoryRepository) FindByIDs(ctx context.Context, ids []string) ([]*model.ProjectCategory, error) {
	var bindings []*model.ProjectCategory
	if len(ids) == 0 {
		return bindings, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&bindings).Error; err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询项目分类失败", err)
	}
	return bindings, nil
}

func (r *projectCategoryRepository) ListByProject(ctx context.Context, projectID string) ([]*model.ProjectCategory, error) {
	var bindings []*model.ProjectCategory
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("sort_order ASC").Order("created_at ASC").Order("id ASC").
		Find(&bindings).Error
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询项目分类失败", err)
	}
	return bindings, nil
}

func (r *projectCategoryRepository) ListIDsByCategory(ctx context.Context, categoryID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&model.ProjectCategory{}).Where("category_id = ?", categoryID).Pluck("id", &ids).Error
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询项目分类失败", err)
	}
	return ids, nil
}

func (r *projectCategoryRepository) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	err := r.db.WithContext(ctx).Model(&model.ProjectCategory{}).Where("id = ?", id).Updates(updates).Error
	if err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "更新项目分类失败", err)
	}
	return nil
}

func (r *projectCategoryRepository) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&model.ProjectCategory{}).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "删除项目分类失败", err)
	}
	return nil
}

func (r *projectCategoryRepository) DeleteByProject(ctx context.Context, projectID string) error {
	if err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Delete(&model.ProjectCategory{}).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "删除项目分类失败", err)
	}
	return nil
}

func (r *projectCategoryRepository) DeleteByCategory(ctx context.Context, categoryID string) error {
	if err := r.db.WithContext(ctx).Where("category_id = ?", categoryID).Delete(&model.ProjectCategory{}).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "删除项目分类失败", err)
	}
	return nil
}
