package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"game-portal-cms/internal/adapter/notification"
	"game-portal-cms/internal/pkg/config"
	"game-portal-cms/internal/service"
)

const (
	defaultPurgeCron = "0 30 3 * * *" // 每天 03:30
	jobTimeout       = 10 * time.Minute
)

// Scheduler 调度器
type Scheduler struct {
	cron          *cron.Cron
	logger        *zap.Logger
	commentSvc    service.CommentService
	notifier      notification.Notifier
	cronSchedules map[string]cron.EntryID // 存储任务ID，便于管理
}

// NewScheduler 创建调度器
func NewScheduler(commentSvc service.CommentService, notifier notification.Notifier, logger *zap.Logger) *Scheduler {
	// 创建 cron 实例（带秒级支持）
	c := cron.New(cron.WithSeconds())

	return &Scheduler{
		cron:          c,
		logger:        logger,
		commentSvc:    commentSvc,
		notifier:      notifier,
		cronSchedules: make(map[string]cron.EntryID),
	}
}

// Start 注册任务并启动调度器
func (s *Scheduler) Start(cfg *config.CommentConfig) error {
	log := s.logger.Sugar()

	log.Info("启动定时任务调度器...")

	// cron 表达式格式: 秒 分 时 日 月 周
	cronExpr := cfg.PurgeCron
	if cronExpr == "" {
		cronExpr = defaultPurgeCron
		log.Warnw("未配置comment.purge_cron，使用默认值", "cron", cronExpr)
	}
	retention := time.Duration(cfg.RetentionDays) * 24 * time.Hour

	entryID, err := s.cron.AddFunc(cronExpr, func() {
		log.Info("执行定时任务: 评论清理")
		if _, err := s.PurgeComments(context.Background(), retention); err != nil {
			log.Errorf("评论清理任务执行失败: %v", err)
		}
	})
	if err != nil {
		log.Errorf("注册评论清理任务: %v 失败: %v", cronExpr, err)
		return err
	}

	s.cronSchedules["comment_purge"] = entryID
	log.Infof("评论清理任务已注册: %s entry_id=%d", cronExpr, entryID)

	s.cron.Start()
	log.Info("定时任务调度器启动成功")

	return nil
}

// Stop 停止调度器
func (s *Scheduler) Stop() {
	s.logger.Info("正在停止定时任务调度器...")

	// 停止 cron（等待正在执行的任务完成）
	ctx := s.cron.Stop()
	<-ctx.Done()

	s.logger.Info("定时任务调度器已停止")
}

// PurgeComments 清理过期的已拒绝/垃圾评论，cron 任务与手动触发共用
func (s *Scheduler) PurgeComments(ctx context.Context, retention time.Duration) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	purged, err := s.commentSvc.Purge(ctx, retention)
	if err != nil {
		return 0, err
	}
	if purged > 0 && s.notifier != nil {
		msg := &notification.NotificationMessage{
			Type:      notification.NotifyCommentPurged,
			Title:     "🧹 过期评论已清理",
			Content:   fmt.Sprintf("**数量**: %d\n**保留期**: %s", purged, retention),
			Timestamp: time.Now(),
			Extra:     map[string]interface{}{"color": "grey"},
		}
		if err := s.notifier.Send(ctx, msg); err != nil {
			s.logger.Warn("发送清理通知失败", zap.Error(err))
		}
	}
	return purged, nil
}
