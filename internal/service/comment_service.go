package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"game-portal-cms/internal/adapter/notification"
	"game-portal-cms/internal/dto"
	"game-portal-cms/internal/model"
	"game-portal-cms/internal/pkg/logger"
	"game-portal-cms/internal/repository"
	"game-portal-cms/pkg/constants"
	pkgErrors "game-portal-cms/pkg/errors"
)

const (
	maxAuthorLength  = 64
	maxCommentLength = 2000
	notifyTimeout    = 30 * time.Second
)

type CommentService interface {
	Submit(ctx context.Context, target repository.CommentTarget, req *dto.SubmitCommentRequest, clientIP string) (*dto.CommentResponse, error)
	ListPublic(ctx context.Context, target repository.CommentTarget, query *dto.PageQuery) ([]*dto.CommentResponse, int64, error)
	List(ctx context.Context, query *dto.CommentListQuery) ([]*dto.CommentResponse, int64, error)
	Moderate(ctx context.Context, id, status string) (*dto.CommentResponse, error)
	Delete(ctx context.Context, id string) error
	RatingSummary(ctx context.Context, target repository.CommentTarget) (*dto.RatingSummaryResponse, error)
	Purge(ctx context.Context, retention time.Duration) (int64, error)
}

type commentService struct {
	repos    *repository.Repositories
	notifier notification.Notifier
	now      func() time.Time
}

func NewCommentService(repos *repository.Repositories, notifier notification.Notifier) CommentService {
	return &commentService{
		repos:    repos,
		notifier: notifier,
		now:      time.Now,
	}
}

// Submit 只能评论已发布的项目游戏，新评论进入待审核
func (s *commentService) Submit(ctx context.Context, target repository.CommentTarget, req *dto.SubmitCommentRequest, clientIP string) (*dto.CommentResponse, error) {
	projectGame, target, err := s.publishedTarget(ctx, target)
	if err != nil {
		return nil, err
	}

	author := strings.TrimSpace(req.AuthorName)
	content := strings.TrimSpace(req.Content)
	if n := utf8.RuneCountInString(author); n == 0 || n > maxAuthorLength {
		return nil, pkgErrors.Validation("昵称长度必须在 1 到 %d 之间", maxAuthorLength)
	}
	if n := utf8.RuneCountInString(content); n == 0 || n > maxCommentLength {
		return nil, pkgErrors.Validation("评论长度必须在 1 到 %d 之间", maxCommentLength)
	}
	if req.RatingScore != nil && (*req.RatingScore < constants.RatingMin || *req.RatingScore > constants.RatingMax) {
		return nil, pkgErrors.Validation("评分必须在 %d 到 %d 之间", constants.RatingMin, constants.RatingMax)
	}

	comment := &model.Comment{
		GameID:      target.GameID,
		ProjectID:   target.ProjectID,
		Locale:      target.Locale,
		AuthorName:  author,
		Content:     content,
		RatingScore: req.RatingScore,
		Status:      constants.CommentStatusPending,
		ClientIP:    clientIP,
	}
	if err := s.repos.Comment.Create(ctx, comment); err != nil {
		return nil, err
	}

	go s.notifyPending(comment, projectGame.Title)

	return toCommentResponse(comment), nil
}

func (s *commentService) notifyPending(comment *model.Comment, gameTitle string) {
	if s.notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()
	if err := s.notifier.SendCommentPending(ctx, comment, gameTitle); err != nil {
		logger.Warn("评论通知发送失败", zap.String("comment_id", comment.ID), zap.Error(err))
	}
}

func (s *commentService) ListPublic(ctx context.Context, target repository.CommentTarget, query *dto.PageQuery) ([]*dto.CommentResponse, int64, error) {
	_, target, err := s.publishedTarget(ctx, target)
	if err != nil {
		return nil, 0, err
	}

	filter := repository.CommentFilter{CommentTarget: target, Status: constants.CommentStatusApproved}
	comments, total, err := s.repos.Comment.List(ctx, filter, query.GetPage(), query.GetPageSize())
	if err != nil {
		return nil, 0, err
	}
	return lo.Map(comments, func(c *model.Comment, _ int) *dto.CommentResponse { return toCommentResponse(c) }), total, nil
}

func (s *commentService) List(ctx context.Context, query *dto.CommentListQuery) ([]*dto.CommentResponse, int64, error) {
	filter := repository.CommentFilter{
		CommentTarget: repository.CommentTarget{
			ProjectID: query.ProjectID,
			GameID:    query.GameID,
			Locale:    query.Locale,
		},
		Status: query.Status,
	}
	if filter.Status != "" && !lo.Contains(constants.CommentStatuses, filter.Status) {
		return nil, 0, pkgErrors.Validation("未知的评论状态: %s", filter.Status)
	}
	if filter.Locale != "" {
		locale, err := canonicalLocale(filter.Locale)
		if err != nil {
			return nil, 0, err
		}
		filter.Locale = locale
	}

	comments, total, err := s.repos.Comment.List(ctx, filter, query.GetPage(), query.GetPageSize())
	if err != nil {
		return nil, 0, err
	}
	return lo.Map(comments, func(c *model.Comment, _ int) *dto.CommentResponse { return toCommentResponse(c) }), total, nil
}

func (s *commentService) Moderate(ctx context.Context, id, status string) (*dto.CommentResponse, error) {
	if !lo.Contains(constants.CommentStatuses, status) {
		return nil, pkgErrors.Validation("未知的评论状态: %s", status)
	}
	if _, err := s.repos.Comment.FindByID(ctx, id); err != nil {
		return nil, notFound(err, "评论 %s 不存在", id)
	}
	if err := s.repos.Comment.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	comment, err := s.repos.Comment.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	logger.Info("评论已审核", zap.String("comment_id", id), zap.String("status", status))
	return toCommentResponse(comment), nil
}

func (s *commentService) Delete(ctx context.Context, id string) error {
	if _, err := s.repos.Comment.FindByID(ctx, id); err != nil {
		return notFound(err, "评论 %s 不存在", id)
	}
	return s.repos.Comment.Delete(ctx, id)
}

func (s *commentService) RatingSummary(ctx context.Context, target repository.CommentTarget) (*dto.RatingSummaryResponse, error) {
	_, target, err := s.publishedTarget(ctx, target)
	if err != nil {
		return nil, err
	}
	summary, err := s.repos.Comment.RatingSummary(ctx, target)
	if err != nil {
		return nil, err
	}
	return &dto.RatingSummaryResponse{Average: summary.Average, Count: summary.Count}, nil
}

// Purge 清理超过保留期的已拒绝与垃圾评论
func (s *commentService) Purge(ctx context.Context, retention time.Duration) (int64, error) {
	before := s.now().Add(-retention)
	purged, err := s.repos.Comment.PurgeBefore(ctx, []string{
		constants.CommentStatusRejected,
		constants.CommentStatusSpam,
	}, before)
	if err != nil {
		return 0, err
	}
	if purged > 0 {
		logger.Info("过期评论已清理", zap.Int64("count", purged), zap.Time("before", before))
	}
	return purged, nil
}

// publishedTarget 规范化 locale 并确认目标项目游戏已发布
func (s *commentService) publishedTarget(ctx context.Context, target repository.CommentTarget) (*model.ProjectGame, repository.CommentTarget, error) {
	locale, err := canonicalLocale(target.Locale)
	if err != nil {
		return nil, target, err
	}
	target.Locale = locale

	rows, err := s.repos.ProjectGame.FindByProjectAndGame(ctx, target.ProjectID, target.GameID, locale)
	if err != nil {
		return nil, target, err
	}
	if len(rows) == 0 || !rows[0].IsPublished {
		return nil, target, pkgErrors.NotFound("游戏 %s(%s) 未发布", target.GameID, locale)
	}
	return rows[0], target, nil
}

func toCommentResponse(comment *model.Comment) *dto.CommentResponse {
	return &dto.CommentResponse{
		ID:          comment.ID,
		ProjectID:   comment.ProjectID,
		GameID:      comment.GameID,
		Locale:      comment.Locale,
		AuthorName:  comment.AuthorName,
		Content:     comment.Content,
		RatingScore: comment.RatingScore,
		Status:      comment.Status,
		CreatedAt:   formatTime(comment.CreatedAt),
	}
}
