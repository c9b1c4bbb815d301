package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"game-portal-cms/internal/model"
	pkgErrors "game-portal-cms/pkg/errors"
)

type ProjectRepository interface {
	WithTx(tx *gorm.DB) ProjectRepository
	Create(ctx context.Context, project *model.Project) error
	FindByID(ctx context.Context, id string) (*model.Project, error)
	ListAll(ctx context.Context) ([]*model.Project, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

type projectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) WithTx(tx *gorm.DB) ProjectRepository {
	return &projectRepository{db: tx}
}

func (r *projectRepository) Create(ctx context.Context, project *model.Project) error {
	if err := r.db.WithContext(ctx).Create(project).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "创建项目失败", err)
	}
	return nil
}

func (r *projectRepository) FindByID(ctx context.Context, id string) (*model.Project, error) {
	var project model.Project
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgErrors.ErrRecordNotFound
		}
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询项目失败", err)
	}
	return &project, nil
}

func (r *projectRepository) ListAll(ctx context.Context) ([]*model.Project, error) {
	var projects []*model.Project
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("id ASC").Find(&projects).Error
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询项目列表失败", err)
	}
	return projects, nil
}

func (r *projectRepository) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	if err := r.db.WithContext(ctx).Model(&model.Project{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "更新项目失败", err)
	}
	return nil
}

func (r *projectRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Project{}).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "删除项目失败", err)
	}
	return nil
}
