package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"game-portal-cms/internal/model"
	pkgErrors "game-portal-cms/pkg/errors"
)

// ProjectGameFilter 项目游戏列表过滤条件
type ProjectGameFilter struct {
	ProjectID string
	GameID    string
	Locale    string
	Published *bool
	Search    string
}

type ProjectGameRepository interface {
	WithTx(tx *gorm.DB) ProjectGameRepository
	BatchCreate(ctx context.Context, games []*model.ProjectGame) error
	FindByID(ctx context.Context, id string) (*model.ProjectGame, error)
	FindByProjectAndGame(ctx context.Context, projectID, gameID, locale string) ([]*model.ProjectGame, error)
	FindByProjectAndGames(ctx context.Context, projectID string, gameIDs []string) ([]*model.ProjectGame, error)
	List(ctx context.Context, filter ProjectGameFilter, page, pageSize int) ([]*model.ProjectGame, int64, error)
	ListIDsByProject(ctx context.Context, projectID string) ([]string, error)
	ListIDsByGame(ctx context.Context, gameID string) ([]string, error)
	CountByProjectLocales(ctx context.Context, projectID string, locales []string) (int64, error)
	SetPublished(ctx context.Context, ids []string, published bool) error
	Update(ctx context.Context, id string, updates map[string]interface{}) error
	DeleteByIDs(ctx context.Context, ids []string) error
	DeleteByProject(ctx context.Context, projectID string) error
	DeleteByGame(ctx context.Context, gameID string) error

	// 项目游戏分类
	ListCategoryIDs(ctx context.Context, projectGameID string) ([]string, error)
	ListCategoryIDsByProjectGames(ctx context.Context, projectGameIDs []string) (map[string][]string, error)
	AddCategories(ctx context.Context, projectGameID string, projectCategoryIDs []string) error
	RemoveCategories(ctx context.Context, projectGameID string, projectCategoryIDs []string) error
	DeleteCategoriesByProjectGames(ctx context.Context, projectGameIDs []string) error
	DeleteCategoriesByProjectCategories(ctx context.Context, projectCategoryIDs []string) error
}

type projectGameRepository struct {
	db *gorm.DB
}

func NewProjectGameRepository(db *gorm.DB) ProjectGameRepository {
	return &projectGameRepository{db: db}
}

func (r *projectGameRepository) WithTx(tx *gorm.DB) ProjectGameRepository {
	return &projectGameRepository{db: tx}
}

func (r *projectGameRepository) BatchCreate(ctx context.Context, games []*model.ProjectGame) error {
	if len(games) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).CreateInBatches(&games, 100).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "批量添加项目游戏失败", err)
	}
	return nil
}

func (r *projectGameRepository) FindByID(ctx context.Context, id string) (*model.ProjectGame, error) {
	var game model.ProjectGame
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&game).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgErrors.ErrRecordNotFound
		}
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询项目游戏失败", err)
	}
	return &game, nil
}

// FindByProjectAndGame locale 为空时返回全部语言
func (r *projectGameRepository) FindByProjectAndGame(ctx context.Context, projectID, gameID, locale string) ([]*model.ProjectGame, error) {
	var games []*model.ProjectGame
	query := r.db.WithContext(ctx).Where("project_id = ? AND game_id = ?", projectID, gameID)
	if locale != "" {
		query = query.Where("locale = ?", locale)
	}
	if err := query.Order("locale ASC").Find(&games).Error; err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询项目游戏失败", err)
	}
	return games, nil
}

func (r *projectGameRepository) FindByProjectAndGames(ctx context.Context, projectID string, gameIDs []string) ([]*model.ProjectGame, error) {
	var games []*model.ProjectGame
	if len(gameIDs) == 0 {
		return games, nil
	}
	err := r.db.WithContext(ctx).Where("project_id = ? AND game_id IN ?", projectID, gameIDs).Find(&games).Error
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询项目游戏失败", err)
	}
	return games, nil
}

func (r *projectGameRepository) List(ctx context.Context, filter ProjectGameFilter, page, pageSize int) ([]*model.ProjectGame, int64, error) {
	var games []*model.ProjectGame
	var total int64

	applyFilters := func() *gorm.DB {
		query := r.db.WithContext(ctx).Model(&model.ProjectGame{})
		if filter.ProjectID != "" {
			query = query.Where("project_id = ?", filter.ProjectID)
		}
		if filter.GameID != "" {
			query = query.Where("game_id = ?", filter.GameID)
		}
		if filter.Locale != "" {
			query = query.Where("locale = ?", filter.Locale)
		}
		if filter.Published != nil {
			query = query.Where("is_published = ?", *filter.Published)
		}
		return query.Scopes(ContainsFold("title", filter.Search))
	}

	if err := applyFilters().Count(&total).Error; err != nil {
		return nil, 0, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "统计项目游戏数量失败", err)
	}

	err := applyFilters().
		Scopes(Paginate(page, pageSize)).
		Order("created_at DESC").Order("id ASC").
		Find(&games).Error
	if err != nil {
		return nil, 0, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询项目游戏列表失败", err)
	}

	return games, total, nil
}

func (r *projectGameRepository) ListIDsByProject(ctx context.Context, projectID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&model.ProjectGame{}).Where("project_id = ?", projectID).Pluck("id", &ids).Error
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询项目游戏失败", err)
	}
	return ids, nil
}

func (r *projectGameRepository) ListIDsByGame(ctx context.Context, gameID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&model.ProjectGame{}).Where("game_id = ?", gameID).Pluck("id", &ids).Error
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询项目游戏失败", err)
	}
	return ids, nil
}

func (r *projectGameRepository) CountByProjectLocales(ctx context.Context, projectID string, locales []string) (int64, error) {
	var count int64
	if len(locales) == 0 {
		return 0, nil
	}
	err := r.db.WithContext(ctx).Model(&model.ProjectGame{}).
		Where("project_id = ? AND locale IN ?", projectID, locales).
		Count(&count).Error
	if err != nil {
		return 0, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "统计项目游戏失败", err)
	}
	return count, nil
}

func (r *projectGameRepository) SetPublished(ctx context.Context, ids []string, published bool) error {
	if len(ids) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Model(&model.ProjectGame{}).
		Where("id IN ?", ids).
		Update("is_published", published).Error
	if err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "更新发布状态失败", err)
	}
	return nil
}

func (r *projectGameRepository) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	if err := r.db.WithContext(ctx).Model(&model.ProjectGame{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "更新项目游戏失败", err)
	}
	return nil
}

func (r *projectGameRepository) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&model.ProjectGame{}).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "删除项目游戏失败", err)
	}
	return nil
}

func (r *projectGameRepository) DeleteByProject(ctx context.Context, projectID string) error {
	if err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Delete(&model.ProjectGame{}).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "删除项目游戏失败", err)
	}
	return nil
}

func (r *projectGameRepository) DeleteByGame(ctx context.Context, gameID string) error {
	if err := r.db.WithContext(ctx).Where("game_id = ?", gameID).Delete(&model.ProjectGame{}).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "删除项目游戏失败", err)
	}
	return nil
}

func (r *projectGameRepository) ListCategoryIDs(ctx context.Context, projectGameID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&model.ProjectGameCategory{}).
		Where("project_game_id = ?", projectGameID).
		Order("created_at ASC").
		Pluck("project_category_id", &ids).Error
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询项目游戏分类失败", err)
	}
	return ids, nil
}

func (r *projectGameRepository) ListCategoryIDsByProjectGames(ctx context.Context, projectGameIDs []string) (map[string][]string, error) {
	result := make(map[string][]string, len(projectGameIDs))
	if len(projectGameIDs) == 0 {
		return result, nil
	}

	var links []*model.ProjectGameCategory
	err := r.db.WithContext(ctx).Where("project_game_id IN ?", projectGameIDs).Order("created_at ASC").Find(&links).Error
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询项目游戏分类失败", err)
	}
	for _, link := range links {
		result[link.ProjectGameID] = append(result[link.ProjectGameID], link.ProjectCategoryID)
	}
	return result, nil
}

func (r *projectGameRepository) AddCategories(ctx context.Context, projectGameID string, projectCategoryIDs []string) error {
	if len(projectCategoryIDs) == 0 {
		return nil
	}
	links := make([]*model.ProjectGameCategory, len(projectCategoryIDs))
	for i, id := range projectCategoryIDs {
		links[i] = &model.ProjectGameCategory{ProjectGameID: projectGameID, ProjectCategoryID: id}
	}
	if err := r.db.WithContext(ctx).Create(&links).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "添加项目游戏分类失败", err)
	}
	return nil
}

func (r *projectGameRepository) RemoveCategories(ctx context.Context, projectGameID string, projectCategoryIDs []string) error {
	if len(projectCategoryIDs) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Where("project_game_id = ? AND project_category_id IN ?", projectGameID, projectCategoryIDs).
		Delete(&model.ProjectGameCategory{}).Error
	if err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "移除项目游戏分类失败", err)
	}
	return nil
}

func (r *projectGameRepository) DeleteCategoriesByProjectGames(ctx context.Context, projectGameIDs []string) error {
	if len(projectGameIDs) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Where("project_game_id IN ?", projectGameIDs).Delete(&model.ProjectGameCategory{}).Error
	if err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "删除项目游戏分类关联失败", err)
	}
	return nil
}

func (r *projectGameRepository) DeleteCategoriesByProjectCategories(ctx context.Context, projectCategoryIDs []string) error {
	if len(projectCategoryIDs) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Where("project_category_id IN ?", projectCategoryIDs).Delete(&model.ProjectGameCategory{}).Error
	if err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "删除项目游戏分类关联失败", err)
	}
	return nil
}
