package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"game-portal-cms/internal/model"
	"game-portal-cms/internal/pkg/config"
	"game-portal-cms/internal/pkg/retry"
)

type larkServer struct {
	mu       sync.Mutex
	statuses []int
	bodies   []map[string]interface{}
}

func (s *larkServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body map[string]interface{}
	_ = json.NewDecoder(r.Body).Decode(&body)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.bodies = append(s.bodies, body)
	if len(s.statuses) > 0 {
		status := s.statuses[0]
		s.statuses = s.statuses[1:]
		w.WriteHeader(status)
		return
	}
	_, _ = w.Write([]byte(`{"code":0}`))
}

func newTestLark(t *testing.T, statuses ...int) (*LarkNotifier, *larkServer) {
	t.Helper()
	fake := &larkServer{statuses: statuses}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	n := NewLarkNotifier(srv.URL, true, zap.NewNop())
	n.policy = retry.Policy{MaxAttempts: 3, InitialInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond, Multiplier: 2}
	return n, fake
}

func pendingComment() *model.Comment {
	score := 4
	return &model.Comment{
		ProjectID:   "p1",
		GameID:      "g1",
		Locale:      "en",
		AuthorName:  "bob",
		Content:     "great game",
		RatingScore: &score,
	}
}

func TestLarkSendCommentPending(t *testing.T) {
	n, fake := newTestLark(t)

	require.NoError(t, n.SendCommentPending(context.Background(), pendingComment(), "Space Runner"))
	require.Len(t, fake.bodies, 1)

	body := fake.bodies[0]
	assert.Equal(t, "interactive", body["msg_type"])
	card := body["card"].(map[string]interface{})
	header := card["header"].(map[string]interface{})
	assert.Equal(t, "orange", header["template"])

	elements := card["elements"].([]interface{})
	text := elements[0].(map[string]interface{})["text"].(map[string]interface{})
	assert.Contains(t, text["content"], "Space Runner (en)")
	assert.Contains(t, text["content"], "**评分**: 4")
}

func TestLarkRetriesTransientStatus(t *testing.T) {
	n, fake := newTestLark(t, http.StatusBadGateway, http.StatusTooManyRequests)

	require.NoError(t, n.Send(context.Background(), &NotificationMessage{Title: "t", Content: "c", Timestamp: time.Now()}))
	assert.Len(t, fake.bodies, 3)
}

func TestLarkClientErrorIsNotRetried(t *testing.T) {
	n, fake := newTestLark(t, http.StatusBadRequest)

	err := n.Send(context.Background(), &NotificationMessage{Title: "t", Timestamp: time.Now()})
	assert.Error(t, err)
	assert.Len(t, fake.bodies, 1)
}

func TestLarkDisabled(t *testing.T) {
	n, fake := newTestLark(t)
	n.enabled = false

	require.NoError(t, n.Send(context.Background(), &NotificationMessage{Title: "t"}))
	assert.Empty(t, fake.bodies)
}

func TestNewFallsBackToLog(t *testing.T) {
	assert.IsType(t, &LogNotifier{}, New(&config.NotificationConfig{}, zap.NewNop()))
	assert.IsType(t, &LogNotifier{}, New(&config.NotificationConfig{Enabled: true, Provider: "lark"}, zap.NewNop()))
	assert.IsType(t, &MultiNotifier{}, New(&config.NotificationConfig{
		Enabled: true, Provider: "lark", LarkWebhook: "https://open.larksuite.com/hook",
	}, zap.NewNop()))
}

func TestMultiNotifierContinuesAfterFailure(t *testing.T) {
	failing, _ := newTestLark(t, http.StatusBadRequest)
	ok, fake := newTestLark(t)

	m := NewMultiNotifier(zap.NewNop(), failing, ok)
	err := m.SendCommentPending(context.Background(), pendingComment(), "Space Runner")
	assert.Error(t, err)
	assert.Len(t, fake.bodies, 1)
}
