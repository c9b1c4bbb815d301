package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"game-portal-cms/internal/adapter/notification"
	"game-portal-cms/internal/dto"
	"game-portal-cms/internal/model"
	"game-portal-cms/internal/pkg/config"
	"game-portal-cms/internal/pkg/crypto"
	"game-portal-cms/internal/pkg/database"
	"game-portal-cms/internal/repository"
	"game-portal-cms/pkg/constants"
)

const testAESKey = "0123456789abcdef0123456789abcdef"

type recordingNotifier struct {
	mu      sync.Mutex
	pending []*model.Comment
	sent    chan struct{}
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{sent: make(chan struct{}, 16)}
}

func (n *recordingNotifier) Send(ctx context.Context, msg *notification.NotificationMessage) error {
	return nil
}

func (n *recordingNotifier) SendCommentPending(ctx context.Context, comment *model.Comment, gameTitle string) error {
	n.mu.Lock()
	n.pending = append(n.pending, comment)
	n.mu.Unlock()
	n.sent <- struct{}{}
	return nil
}

type testEnv struct {
	ctx          context.Context
	db           *gorm.DB
	repos        *repository.Repositories
	notifier     *recordingNotifier
	cascade      CascadeService
	categories   CategoryService
	games        GameService
	projects     ProjectService
	bindings     ProjectCategoryService
	projectGames ProjectGameService
	comments     CommentService
	catalog      CatalogService
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(&config.DatabaseConfig{Driver: constants.DriverSQLite, Database: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	cipher, err := crypto.NewCipher(testAESKey)
	require.NoError(t, err)

	repos := repository.NewRepositories(db)
	cascade := NewCascadeService(db, repos)
	notifier := newRecordingNotifier()
	return &testEnv{
		ctx:          context.Background(),
		db:           db,
		repos:        repos,
		notifier:     notifier,
		cascade:      cascade,
		categories:   NewCategoryService(repos.Category, cascade),
		games:        NewGameService(db, repos, cascade),
		projects:     NewProjectService(repos, cascade, cipher),
		bindings:     NewProjectCategoryService(db, repos),
		projectGames: NewProjectGameService(db, repos, cascade),
		comments:     NewCommentService(repos, notifier),
		catalog:      NewCatalogService(repos),
	}
}

func (e *testEnv) category(t *testing.T, name string) string {
	t.Helper()
	c, err := e.categories.Create(e.ctx, &dto.CreateCategoryRequest{Name: name})
	require.NoError(t, err)
	return c.ID
}

func (e *testEnv) game(t *testing.T, title string, categoryIDs ...string) *dto.GameResponse {
	t.Helper()
	g, err := e.games.Create(e.ctx, &dto.CreateGameRequest{
		Title:       title,
		IframeURL:   "https://games.example.com/embed",
		CategoryIDs: categoryIDs,
	})
	require.NoError(t, err)
	return g
}

func (e *testEnv) project(t *testing.T, name string, locales ...string) string {
	t.Helper()
	p, err := e.projects.Create(e.ctx, &dto.CreateProjectRequest{
		Name:          name,
		DefaultLocale: locales[0],
		Locales:       locales,
	})
	require.NoError(t, err)
	return p.ID
}

func (e *testEnv) attach(t *testing.T, projectID, gameID string, locales ...string) []*dto.ProjectGameResponse {
	t.Helper()
	items := make([]dto.AttachGameItem, len(locales))
	for i, l := range locales {
		items[i] = dto.AttachGameItem{GameID: gameID, Locale: l}
	}
	rows, err := e.projectGames.AttachBatch(e.ctx, projectID, items)
	require.NoError(t, err)
	return rows
}

// bind 绑定项目分类并返回 categoryID -> bindingID
func (e *testEnv) bind(t *testing.T, projectID string, categoryIDs ...string) map[string]string {
	t.Helper()
	result, err := e.bindings.SyncCategories(e.ctx, projectID, categoryIDs)
	require.NoError(t, err)
	out := make(map[string]string, len(result.Bindings))
	for _, b := range result.Bindings {
		out[b.CategoryID] = b.ID
	}
	return out
}

func (e *testEnv) count(t *testing.T, m interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	db := e.db.Model(m)
	if query != "" {
		db = db.Where(query, args...)
	}
	require.NoError(t, db.Count(&n).Error)
	return n
}
