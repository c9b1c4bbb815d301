package retry

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"game-portal-cms/internal/pkg/config"
	pkgErrors "game-portal-cms/pkg/errors"
)

var fast = Policy{MaxAttempts: 3, InitialInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond, Multiplier: 2}

func TestDoRetriesTransientErrors(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), fast, "test", func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return pkgErrors.Transient("flaky", nil)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestDoStopsAtMaxAttempts(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), fast, "test", func(ctx context.Context) error {
		attempts++
		return pkgErrors.Transient("down", nil)
	})
	assert.True(t, IsTransient(err))
	assert.Equal(t, 3, attempts)
}

func TestDoDoesNotRetryPermanentErrors(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), fast, "test", func(ctx context.Context) error {
		attempts++
		return pkgErrors.Validation("bad input")
	})
	assert.Equal(t, pkgErrors.CodeValidationError, pkgErrors.CodeOf(err))
	assert.Equal(t, 1, attempts)
}

func TestDoHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	slow := Policy{MaxAttempts: 5, InitialInterval: time.Hour, MaxInterval: time.Hour, Multiplier: 2}
	err := Do(ctx, slow, "test", func(ctx context.Context) error {
		attempts++
		cancel()
		return pkgErrors.Transient("down", nil)
	})
	assert.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestFromConfig(t *testing.T) {
	p := FromConfig(config.RetryConfig{MaxAttempts: 5, Multiplier: 0.5})
	assert.Equal(t, 5, p.MaxAttempts)
	assert.Equal(t, DefaultPolicy().InitialInterval, p.InitialInterval)
	assert.Equal(t, DefaultPolicy().Multiplier, p.Multiplier)
}

func TestClassify(t *testing.T) {
	assert.True(t, TransientStatus(http.StatusTooManyRequests))
	assert.True(t, TransientStatus(http.StatusBadGateway))
	assert.False(t, TransientStatus(http.StatusNotFound))

	assert.True(t, IsTransient(ClassifyNetError("dial", errors.New("connection refused"))))
	assert.ErrorIs(t, ClassifyNetError("dial", context.Canceled), context.Canceled)
	assert.NoError(t, ClassifyNetError("dial", nil))
}
