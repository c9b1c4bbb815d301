package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"game-portal-cms/internal/model"
	pkgErrors "game-portal-cms/pkg/errors"
)

type CategoryRepository interface {
	WithTx(tx *gorm.DB) CategoryRepository
	Create(ctx context.Context, category *model.Category) error
	FindByID(ctx context.Context, id string) (*model.Category, error)
	FindByName(ctx context.Context, name string) (*model.Category, error)
	FindByNames(ctx context.Context, names []string) ([]*model.Category, error)
	FindByIDs(ctx context.Context, ids []string) ([]*model.Category, error)
	ListAll(ctx context.Context) ([]*model.Category, error)
	CountByIDs(ctx context.Context, ids []string) (int64, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) WithTx(tx *gorm.DB) CategoryRepository {
	return &categoryRepository{db: tx}
}

func (r *categoryRepository) Create(ctx context.Context, category *model.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "创建分类失败", err)
	}
	return nil
}

func (r *categoryRepository) FindByID(ctx context.Context, id string) (*model.Category, error) {
	var category model.Category
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgErrors.ErrRecordNotFound
		}
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询分类失败", err)
	}
	return &category, nil
}

func (r *categoryRepository) FindByName(ctx context.Context, name string) (*model.Category, error) {
	var category model.Category
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgErrors.ErrRecordNotFound
		}
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询分类失败", err)
	}
	return &category, nil
}

func (r *categoryRepository) FindByNames(ctx context.Context, names []string) ([]*model.Category, error) {
	var categories []*model.Category
	if len(names) == 0 {
		return categories, nil
	}
	if err := r.db.WithContext(ctx).Where("name IN ?", names).Find(&categories).Error; err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询分类失败", err)
	}
	return categories, nil
}

func (r *categoryRepository) FindByIDs(ctx context.Context, ids []string) ([]*model.Category, error) {
	var categories []*model.Category
	if len(ids) == 0 {
		return categories, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&categories).Error; err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询分类失败", err)
	}
	return categories, nil
}

func (r *categoryRepository) ListAll(ctx context.Context) ([]*model.Category, error) {
	var categories []*model.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Order("id ASC").Find(&categories).Error; err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询分类列表失败", err)
	}
	return categories, nil
}

func (r *categoryRepository) CountByIDs(ctx context.Context, ids []string) (int64, error) {
	var count int64
	if len(ids) == 0 {
		return 0, nil
	}
	if err := r.db.WithContext(ctx).Model(&model.Category{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return 0, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "统计分类失败", err)
	}
	return count, nil
}

func (r *categoryRepository) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	if err := r.db.WithContext(ctx).Model(&model.Category{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "更新分类失败", err)
	}
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Category{}).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "删除分类失败", err)
	}
	return nil
}
