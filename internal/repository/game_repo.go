package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"game-portal-cms/internal/model"
	pkgErrors "game-portal-cms/pkg/errors"
)

type GameRepository interface {
	WithTx(tx *gorm.DB) GameRepository
	Create(ctx context.Context, game *model.GameBase) error
	FindByID(ctx context.Context, id string) (*model.GameBase, error)
	FindBySlug(ctx context.Context, slug string) (*model.GameBase, error)
	FindByIDs(ctx context.Context, ids []string) ([]*model.GameBase, error)
	ListSlugsWithPrefix(ctx context.Context, prefix string) ([]string, error)
	List(ctx context.Context, page, pageSize int, search string) ([]*model.GameBase, int64, error)
	ListAvailableForProject(ctx context.Context, projectID string, page, pageSize int, search string) ([]*model.GameBase, int64, error)
	Search(ctx context.Context, query string, limit int) ([]*model.GameBase, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) error
	Delete(ctx context.Context, id string) error

	// 游戏库级别分类
	ListCategoryIDs(ctx context.Context, gameID string) ([]string, error)
	ListCategoryIDsByGames(ctx context.Context, gameIDs []string) (map[string][]string, error)
	AddCategories(ctx context.Context, gameID string, categoryIDs []string) error
	RemoveCategories(ctx context.Context, gameID string, categoryIDs []string) error
	DeleteCategoriesByGame(ctx context.Context, gameID string) error
	DeleteCategoriesByCategory(ctx context.Context, categoryID string) error
}

type gameRepository struct {
	db *gorm.DB
}

func NewGameRepository(db *gorm.DB) GameRepository {
	return &gameRepository{db: db}
}

func (r *gameRepository) WithTx(tx *gorm.DB) GameRepository {
	return &gameRepository{db: tx}
}

func (r *gameRepository) Create(ctx context.Context, game *model.GameBase) error {
	if err := r.db.WithContext(ctx).Create(game).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "创建游戏失败", err)
	}
	return nil
}

func (r *gameRepository) FindByID(ctx context.Context, id string) (*model.GameBase, error) {
	var game model.GameBase
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&game).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgErrors.ErrRecordNotFound
		}
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询游戏失败", err)
	}
	return &game, nil
}

func (r *gameRepository) FindBySlug(ctx context.Context, slug string) (*model.GameBase, error) {
	var game model.GameBase
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&game).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgErrors.ErrRecordNotFound
		}
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询游戏失败", err)
	}
	return &game, nil
}

func (r *gameRepository) FindByIDs(ctx context.Context, ids []string) ([]*model.GameBase, error) {
	var games []*model.GameBase
	if len(ids) == 0 {
		return games, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&games).Error; err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询游戏失败", err)
	}
	return games, nil
}

func (r *gameRepository) ListSlugsWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	var slugs []string
	err := r.db.WithContext(ctx).Model(&model.GameBase{}).
		Where("slug = ? OR slug LIKE ? ESCAPE '!'", prefix, likeEscaper.Replace(prefix)+"-%").
		Pluck("slug", &slugs).Error
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询游戏slug失败", err)
	}
	return slugs, nil
}

func (r *gameRepository) List(ctx context.Context, page, pageSize int, search string) ([]*model.GameBase, int64, error) {
	return r.list(ctx, page, pageSize, ContainsFold("title", search))
}

// ListAvailableForProject 游戏库中尚未加入该项目(任意语言)的游戏
func (r *gameRepository) ListAvailableForProject(ctx context.Context, projectID string, page, pageSize int, search string) ([]*model.GameBase, int64, error) {
	attached := r.db.Model(&model.ProjectGame{}).Select("game_id").Where("project_id = ?", projectID)
	notAttached := func(db *gorm.DB) *gorm.DB {
		return db.Where("id NOT IN (?)", attached)
	}
	return r.list(ctx, page, pageSize, notAttached, ContainsFold("title", search))
}

// list count 与分页共用同一组过滤条件
func (r *gameRepository) list(ctx context.Context, page, pageSize int, filters ...QueryOption) ([]*model.GameBase, int64, error) {
	var games []*model.GameBase
	var total int64

	applyFilters := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&model.GameBase{}).Scopes(scopes(filters)...)
	}

	if err := applyFilters().Count(&total).Error; err != nil {
		return nil, 0, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "统计游戏数量失败", err)
	}

	err := applyFilters().
		Scopes(Paginate(page, pageSize)).
		Order("created_at DESC").Order("id ASC").
		Find(&games).Error
	if err != nil {
		return nil, 0, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询游戏列表失败", err)
	}

	return games, total, nil
}

func (r *gameRepository) Search(ctx context.Context, query string, limit int) ([]*model.GameBase, error) {
	var games []*model.GameBase
	err := r.db.WithContext(ctx).
		Scopes(ContainsFold("title", query)).
		Order("title ASC").
		Limit(limit).
		Find(&games).Error
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "搜索游戏失败", err)
	}
	return games, nil
}

func (r *gameRepository) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	if err := r.db.WithContext(ctx).Model(&model.GameBase{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "更新游戏失败", err)
	}
	return nil
}

func (r *gameRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.GameBase{}).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "删除游戏失败", err)
	}
	return nil
}

func (r *gameRepository) ListCategoryIDs(ctx context.Context, gameID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&model.GameCategory{}).
		Where("game_id = ?", gameID).
		Order("created_at ASC").
		Pluck("category_id", &ids).Error
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询游戏分类失败", err)
	}
	return ids, nil
}

func (r *gameRepository) ListCategoryIDsByGames(ctx context.Context, gameIDs []string) (map[string][]string, error) {
	result := make(map[string][]string, len(gameIDs))
	if len(gameIDs) == 0 {
		return result, nil
	}

	var links []*model.GameCategory
	if err := r.db.WithContext(ctx).Where("game_id IN ?", gameIDs).Order("created_at ASC").Find(&links).Error; err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询游戏分类失败", err)
	}
	for _, link := range links {
		result[link.GameID] = append(result[link.GameID], link.CategoryID)
	}
	return result, nil
}

func (r *gameRepository) AddCategories(ctx context.Context, gameID string, categoryIDs []string) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	links := make([]*model.GameCategory, len(categoryIDs))
	for i, categoryID := range categoryIDs {
		links[i] = &model.GameCategory{GameID: gameID, CategoryID: categoryID}
	}
	if err := r.db.WithContext(ctx).Create(&links).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "添加游戏分类失败", err)
	}
	return nil
}

func (r *gameRepository) RemoveCategories(ctx context.Context, gameID string, categoryIDs []string) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Where("game_id = ? AND category_id IN ?", gameID, categoryIDs).
		Delete(&model.GameCategory{}).Error
	if err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "移除游戏分类失败", err)
	}
	return nil
}

func (r *gameRepository) DeleteCategoriesByGame(ctx context.Context, gameID string) error {
	if err := r.db.WithContext(ctx).Where("game_id = ?", gameID).Delete(&model.GameCategory{}).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "删除游戏分类关联失败", err)
	}
	return nil
}

func (r *gameRepository) DeleteCategoriesByCategory(ctx context.Context, categoryID string) error {
	if err := r.db.WithContext(ctx).Where("category_id = ?", categoryID).Delete(&model.GameCategory{}).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "删除游戏分类关联失败", err)
	}
	return nil
}
