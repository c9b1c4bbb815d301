package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"game-portal-cms/internal/model"
	"game-portal-cms/pkg/constants"
	pkgErrors "game-portal-cms/pkg/errors"
)

// CommentTarget 评论所属的项目游戏
type CommentTarget struct {
	ProjectID string
	GameID    string
	Locale    string
}

// CommentFilter 评论列表过滤条件，零值字段不参与过滤
type CommentFilter struct {
	CommentTarget
	Status string
}

// RatingSummary 评分汇总
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

type CommentRepository interface {
	WithTx(tx *gorm.DB) CommentRepository
	Create(ctx context.Context, comment *model.Comment) error
	FindByID(ctx context.Context, id string) (*model.Comment, error)
	List(ctx context.Context, filter CommentFilter, page, pageSize int) ([]*model.Comment, int64, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
	DeleteByProject(ctx context.Context, projectID string) error
	DeleteByGame(ctx context.Context, gameID string) error
	DeleteByTarget(ctx context.Context, target CommentTarget) error
	RatingSummary(ctx context.Context, target CommentTarget) (*RatingSummary, error)
	PurgeBefore(ctx context.Context, statuses []string, before time.Time) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) WithTx(tx *gorm.DB) CommentRepository {
	return &commentRepository{db: tx}
}

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "创建评论失败", err)
	}
	return nil
}

func (r *commentRepository) FindByID(ctx context.Context, id string) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&comment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgErrors.ErrRecordNotFound
		}
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询评论失败", err)
	}
	return &comment, nil
}

func (r *commentRepository) List(ctx context.Context, filter CommentFilter, page, pageSize int) ([]*model.Comment, int64, error) {
	var comments []*model.Comment
	var total int64

	applyFilters := func() *gorm.DB {
		query := r.db.WithContext(ctx).Model(&model.Comment{})
		if filter.ProjectID != "" {
			query = query.Where("project_id = ?", filter.ProjectID)
		}
		if filter.GameID != "" {
			query = query.Where("game_id = ?", filter.GameID)
		}
		if filter.Locale != "" {
			query = query.Where("locale = ?", filter.Locale)
		}
		if filter.Status != "" {
			query = query.Where("status = ?", filter.Status)
		}
		return query
	}

	if err := applyFilters().Count(&total).Error; err != nil {
		return nil, 0, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "统计评论数量失败", err)
	}

	err := applyFilters().
		Scopes(Paginate(page, pageSize)).
		Order("created_at DESC").Order("id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, 0, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询评论列表失败", err)
	}

	return comments, total, nil
}

func (r *commentRepository) UpdateStatus(ctx context.Context, id, status string) error {
	err := r.db.WithContext(ctx).Model(&model.Comment{}).Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()}).Error
	if err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "更新评论状态失败", err)
	}
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Comment{}).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "删除评论失败", err)
	}
	return nil
}

func (r *commentRepository) DeleteByProject(ctx context.Context, projectID string) error {
	if err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Delete(&model.Comment{}).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "删除项目评论失败", err)
	}
	return nil
}

func (r *commentRepository) DeleteByGame(ctx context.Context, gameID string) error {
	if err := r.db.WithContext(ctx).Where("game_id = ?", gameID).Delete(&model.Comment{}).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "删除游戏评论失败", err)
	}
	return nil
}

func (r *commentRepository) DeleteByTarget(ctx context.Context, target CommentTarget) error {
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND game_id = ? AND locale = ?", target.ProjectID, target.GameID, target.Locale).
		Delete(&model.Comment{}).Error
	if err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "删除评论失败", err)
	}
	return nil
}

// RatingSummary 仅统计已审核通过且带评分的评论
func (r *commentRepository) RatingSummary(ctx context.Context, target CommentTarget) (*RatingSummary, error) {
	var row struct {
		Average *float64
		Count   int64
	}
	err := r.db.WithContext(ctx).Model(&model.Comment{}).
		Select("AVG(rating_score) AS average, COUNT(rating_score) AS count").
		Where("project_id = ? AND game_id = ? AND locale = ?", target.ProjectID, target.GameID, target.Locale).
		Where("status = ? AND rating_score IS NOT NULL", constants.CommentStatusApproved).
		Scan(&row).Error
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "统计评分失败", err)
	}

	summary := &RatingSummary{Count: row.Count}
	if row.Average != nil {
		summary.Average = *row.Average
	}
	return summary, nil
}

func (r *commentRepository) PurgeBefore(ctx context.Context, statuses []string, before time.Time) (int64, error) {
	if len(statuses) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Where("status IN ? AND updated_at < ?", statuses, before).
		Delete(&model.Comment{})
	if result.Error != nil {
		return 0, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "清理评论失败", result.Error)
	}
	return result.RowsAffected, nil
}
