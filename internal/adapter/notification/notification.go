package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"game-portal-cms/internal/model"
	"game-portal-cms/internal/pkg/config"
	"game-portal-cms/internal/pkg/metrics"
	"game-portal-cms/internal/pkg/retry"
	pkgErrors "game-portal-cms/pkg/errors"
)

// NotificationType 通知类型
type NotificationType string

const (
	NotifyCommentPending NotificationType = "comment_pending" // 新评论待审核
	NotifyCommentPurged  NotificationType = "comment_purged"  // 过期评论已清理
)

// NotificationMessage 通知消息
type NotificationMessage struct {
	Type      NotificationType       `json:"type"`
	Title     string                 `json:"title"`
	Content   string                 `json:"content"`
	Timestamp time.Time              `json:"timestamp"`
	Extra     map[string]interface{} `json:"extra,omitempty"` // 额外信息
}

// Notifier 通知器接口
type Notifier interface {
	// Send 发送通知
	Send(ctx context.Context, msg *NotificationMessage) error

	// SendCommentPending 新评论待审核
	SendCommentPending(ctx context.Context, comment *model.Comment, gameTitle string) error
}

// New 按配置创建通知器；未启用或未配置 webhook 时只写日志
func New(cfg *config.NotificationConfig, logger *zap.Logger) Notifier {
	logNotifier := NewLogNotifier(logger)
	if !cfg.Enabled || cfg.Provider != "lark" || cfg.LarkWebhook == "" {
		return logNotifier
	}
	return NewMultiNotifier(logger, logNotifier, NewLarkNotifier(cfg.LarkWebhook, true, logger))
}

func commentPendingMessage(comment *model.Comment, gameTitle string) *NotificationMessage {
	rating := "-"
	if comment.RatingScore != nil {
		rating = fmt.Sprintf("%d", *comment.RatingScore)
	}
	return &NotificationMessage{
		Type:  NotifyCommentPending,
		Title: "💬 新评论待审核",
		Content: fmt.Sprintf("**游戏**: %s (%s)\n**作者**: %s\n**评分**: %s\n**内容**: %s",
			gameTitle, comment.Locale, comment.AuthorName, rating, comment.Content),
		Timestamp: time.Now(),
		Extra: map[string]interface{}{
			"comment_id": comment.ID,
			"project_id": comment.ProjectID,
			"game_id":    comment.GameID,
			"color":      "orange",
		},
	}
}

// ============= Lark 通知适配器 =============

// LarkNotifier Lark通知器
type LarkNotifier struct {
	webhookURL string
	enabled    bool
	logger     *zap.Logger
	client     *http.Client
	policy     retry.Policy
}

// NewLarkNotifier 创建Lark通知器
func NewLarkNotifier(webhookURL string, enabled bool, logger *zap.Logger) *LarkNotifier {
	return &LarkNotifier{
		webhookURL: webhookURL,
		enabled:    enabled,
		logger:     logger,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		policy: retry.DefaultPolicy(),
	}
}

// Send 发送通知，webhook 的 5xx/429 与网络错误按重试策略重发
func (n *LarkNotifier) Send(ctx context.Context, msg *NotificationMessage) error {
	if !n.enabled {
		n.logger.Debug("通知已禁用,跳过发送")
		return nil
	}

	if n.webhookURL == "" {
		n.logger.Warn("Lark Webhook URL未配置")
		return nil
	}

	jsonData, err := json.Marshal(n.buildLarkMessage(msg))
	if err != nil {
		return fmt.Errorf("序列化消息失败: %w", err)
	}

	err = retry.Do(ctx, n.policy, "lark_webhook", func(ctx context.Context) error {
		err := n.post(ctx, jsonData)
		metrics.OutboundCalls.WithLabelValues("lark", metrics.Result(err)).Inc()
		return err
	})
	if err != nil {
		return err
	}

	n.logger.Info("Lark通知发送成功",
		zap.String("type", string(msg.Type)),
		zap.String("title", msg.Title))

	return nil
}

func (n *LarkNotifier) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return retry.ClassifyNetError("发送Lark请求失败", err)
	}
	defer resp.Body.Close()

	if retry.TransientStatus(resp.StatusCode) {
		return pkgErrors.Transient(fmt.Sprintf("Lark API返回状态码: %d", resp.StatusCode), nil)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Lark API返回错误状态码: %d", resp.StatusCode)
	}
	return nil
}

// SendCommentPending 发送待审核评论卡片
func (n *LarkNotifier) SendCommentPending(ctx context.Context, comment *model.Comment, gameTitle string) error {
	return n.Send(ctx, commentPendingMessage(comment, gameTitle))
}

// buildLarkMessage 构建Lark消息格式
func (n *LarkNotifier) buildLarkMessage(msg *NotificationMessage) map[string]interface{} {
	color := "grey"
	if c, ok := msg.Extra["color"].(string); ok {
		color = c
	}

	// Lark富文本消息格式
	return map[string]interface{}{
		"msg_type": "interactive",
		"card": map[string]interface{}{
			"header": map[string]interface{}{
				"title": map[string]interface{}{
					"tag":     "plain_text",
					"content": msg.Title,
				},
				"template": color,
			},
			"elements": []interface{}{
				map[string]interface{}{
					"tag": "div",
					"text": map[string]interface{}{
						"tag":     "lark_md",
						"content": msg.Content,
					},
				},
				map[string]interface{}{
					"tag": "div",
					"text": map[string]interface{}{
						"tag":     "plain_text",
						"content": fmt.Sprintf("时间: %s", msg.Timestamp.Format("2006-01-02 15:04:05")),
					},
				},
			},
		},
	}
}

// ============= 多通知器 =============

// MultiNotifier 多通知器(支持同时发送到多个渠道)
type MultiNotifier struct {
	notifiers []Notifier
	logger    *zap.Logger
}

// NewMultiNotifier 创建多通知器
func NewMultiNotifier(logger *zap.Logger, notifiers ...Notifier) *MultiNotifier {
	return &MultiNotifier{
		notifiers: notifiers,
		logger:    logger,
	}
}

// Send 发送到所有通知器，单个失败不影响其它渠道
func (m *MultiNotifier) Send(ctx context.Context, msg *NotificationMessage) error {
	var lastErr error
	for _, notifier := range m.notifiers {
		if err := notifier.Send(ctx, msg); err != nil {
			m.logger.Error("发送通知失败", zap.Error(err))
			lastErr = err
		}
	}
	return lastErr
}

// SendCommentPending 发送待审核评论到所有通知器
func (m *MultiNotifier) SendCommentPending(ctx context.Context, comment *model.Comment, gameTitle string) error {
	var lastErr error
	for _, notifier := range m.notifiers {
		if err := notifier.SendCommentPending(ctx, comment, gameTitle); err != nil {
			m.logger.Error("发送评论通知失败", zap.Error(err))
			lastErr = err
		}
	}
	return lastErr
}

// ============= 日志通知器(仅记录日志,不发送实际通知) =============

// LogNotifier 日志通知器
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier 创建日志通知器
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{
		logger: logger,
	}
}

// Send 记录通知到日志
func (n *LogNotifier) Send(ctx context.Context, msg *NotificationMessage) error {
	n.logger.Info("📢 通知",
		zap.String("type", string(msg.Type)),
		zap.String("title", msg.Title),
		zap.String("content", msg.Content),
		zap.Any("extra", msg.Extra))
	return nil
}

// SendCommentPending 记录待审核评论到日志
func (n *LogNotifier) SendCommentPending(ctx context.Context, comment *model.Comment, gameTitle string) error {
	n.logger.Info("📢 新评论待审核",
		zap.String("comment_id", comment.ID),
		zap.String("project_id", comment.ProjectID),
		zap.String("game", gameTitle),
		zap.String("locale", comment.Locale),
		zap.String("author", comment.AuthorName))
	return nil
}
