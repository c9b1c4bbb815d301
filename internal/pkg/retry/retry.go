// Package retry 外部网络调用（AI 生成、远程目录抓取）的有界指数退避重试。
// 只重试 TransientNetworkError，存储操作不得使用。
package retry

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"game-portal-cms/internal/pkg/config"
	"game-portal-cms/internal/pkg/logger"
	pkgErrors "game-portal-cms/pkg/errors"
)

// Policy 重试策略
type Policy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration // 单次等待上限
	Multiplier      float64
}

// DefaultPolicy 3次尝试, 500ms 起步, 上限 5s
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:     3,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		Multiplier:      2.0,
	}
}

// FromConfig 由配置构造策略，缺省项回落到 DefaultPolicy
func FromConfig(cfg config.RetryConfig) Policy {
	p := DefaultPolicy()
	if cfg.MaxAttempts > 0 {
		p.MaxAttempts = cfg.MaxAttempts
	}
	if cfg.InitialInterval > 0 {
		p.InitialInterval = cfg.InitialInterval
	}
	if cfg.MaxInterval > 0 {
		p.MaxInterval = cfg.MaxInterval
	}
	if cfg.Multiplier >= 1 {
		p.Multiplier = cfg.Multiplier
	}
	return p
}

func (p Policy) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.MaxInterval = p.MaxInterval
	b.Multiplier = p.Multiplier
	b.RandomizationFactor = 0.2
	b.MaxElapsedTime = 0
	b.Reset()

	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(attempts-1)), ctx)
}

// Do 执行 op，遇到瞬时错误按策略重试；非瞬时错误立即返回
func Do(ctx context.Context, p Policy, name string, op func(ctx context.Context) error) error {
	attempt := 0
	return backoff.RetryNotify(func() error {
		attempt++
		err := op(ctx)
		if err == nil {
			return nil
		}
		if !IsTransient(err) {
			return backoff.Permanent(err)
		}
		return err
	}, p.backOff(ctx), func(err error, wait time.Duration) {
		logger.Warn("外部调用失败，准备重试",
			zap.String("op", name),
			zap.Int("attempt", attempt),
			zap.Duration("retry_in", wait),
			zap.Error(err),
		)
	})
}

// IsTransient 是否为可重试的瞬时错误
func IsTransient(err error) bool {
	return pkgErrors.IsCode(err, pkgErrors.CodeTransientNetwork)
}

// TransientStatus 429 与 5xx 视为瞬时失败
func TransientStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// ClassifyNetError 传输层错误(超时、连接失败、连接重置)归类为瞬时错误；调用方主动取消不重试
func ClassifyNetError(message string, err error) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, context.Canceled) {
		return err
	}
	return pkgErrors.Transient(message, err)
}
