package service

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"game-portal-cms/internal/model"
	"game-portal-cms/internal/pkg/config"
	pkgErrors "game-portal-cms/pkg/errors"
)

const yamlCatalog = `
games:
  - title: Space Runner
    iframe_url: https://games.example.com/space-runner
    image_url: https://cdn.example.com/space-runner.png
    rating: 4.5
    categories: [Action, Arcade]
    metadata:
      width: 800
      controls: keyboard
  - title: Puzzle Box
    iframe_url: https://games.example.com/puzzle-box
    categories: [" Puzzle ", Arcade]
`

const jsonCatalog = `{"games":[{"title":"Tower Stack","iframe_url":"https://games.example.com/tower","categories":["Casual"]}]}`

func newTestImporter(t *testing.T, env *testEnv, maxBytes int64) ImportService {
	t.Helper()
	return NewImportService(env.db, env.repos, &config.ImportConfig{
		Timeout:  2 * time.Second,
		MaxBytes: maxBytes,
		Retry: config.RetryConfig{
			MaxAttempts:     3,
			InitialInterval: time.Millisecond,
			MaxInterval:     5 * time.Millisecond,
			Multiplier:      2,
		},
	})
}

func TestImport_YAMLCreatesGamesAndCategories(t *testing.T) {
	env := newTestEnv(t)
	existing := env.category(t, "Action")
	importer := newTestImporter(t, env, 0)

	result, err := importer.Import(env.ctx, []byte(yamlCatalog))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 0, result.Skipped)
	assert.Equal(t, 2, result.CategoriesCreated) // Arcade, Puzzle

	var game model.GameBase
	require.NoError(t, env.db.Where("slug = ?", "space-runner").First(&game).Error)
	assert.Equal(t, "Space Runner", game.Title)
	assert.InDelta(t, 4.5, game.Rating, 0.0001)
	assert.JSONEq(t, `{"width":800,"controls":"keyboard"}`, string(game.Metadata))

	catIDs, err := env.repos.Game.ListCategoryIDs(env.ctx, game.ID)
	require.NoError(t, err)
	assert.Len(t, catIDs, 2)
	assert.Contains(t, catIDs, existing)

	assert.Equal(t, int64(1), env.count(t, &model.Category{}, "name = ?", "Puzzle"))
	assert.Equal(t, int64(1), env.count(t, &model.Category{}, "name = ?", "Arcade"))
}

func TestImport_SkipsExistingAndDuplicateSlugs(t *testing.T) {
	env := newTestEnv(t)
	importer := newTestImporter(t, env, 0)

	_, err := importer.Import(env.ctx, []byte(yamlCatalog))
	require.NoError(t, err)

	result, err := importer.Import(env.ctx, []byte(yamlCatalog))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 2, result.Skipped)
	assert.Equal(t, 0, result.CategoriesCreated)
	assert.ElementsMatch(t, []string{"space-runner", "puzzle-box"}, result.SkippedSlugs)

	dup := `
games:
  - title: Moon Lander
    iframe_url: https://games.example.com/a
  - title: moon lander
    iframe_url: https://games.example.com/b
`
	result, err = importer.Import(env.ctx, []byte(dup))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, []string{"moon-lander"}, result.SkippedSlugs)
	assert.Equal(t, int64(3), env.count(t, &model.GameBase{}, "1 = 1"))
}

func TestImport_JSON(t *testing.T) {
	env := newTestEnv(t)
	importer := newTestImporter(t, env, 0)

	result, err := importer.Import(env.ctx, []byte(jsonCatalog))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.CategoriesCreated)
	assert.Equal(t, int64(1), env.count(t, &model.GameBase{}, "slug = ?", "tower-stack"))
}

func TestImport_RejectsInvalidCatalog(t *testing.T) {
	cases := map[string]string{
		"malformed":  "games: [",
		"empty":      "games: []",
		"no title":   "games:\n  - iframe_url: https://games.example.com/x\n",
		"bad iframe": "games:\n  - title: Ok\n    iframe_url: ftp://games.example.com/x\n",
		"bad rating": "games:\n  - title: Ok\n    iframe_url: https://games.example.com/x\n    rating: 9\n",
		"second bad": "games:\n  - title: Good\n    iframe_url: https://games.example.com/g\n  - title: Bad\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			env := newTestEnv(t)
			importer := newTestImporter(t, env, 0)

			_, err := importer.Import(env.ctx, []byte(data))
			require.Error(t, err)
			assert.True(t, pkgErrors.IsCode(err, pkgErrors.CodeValidationError), "got %v", err)
			assert.Equal(t, int64(0), env.count(t, &model.GameBase{}, "1 = 1"))
			assert.Equal(t, int64(0), env.count(t, &model.Category{}, "1 = 1"))
		})
	}
}

func TestImportFile(t *testing.T) {
	env := newTestEnv(t)
	importer := newTestImporter(t, env, 0)

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlCatalog), 0o600))

	result, err := importer.ImportFile(env.ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)

	_, err = importer.ImportFile(env.ctx, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, pkgErrors.IsCode(err, pkgErrors.CodeValidationError))
}

func TestImportURL_RetriesTransientStatus(t *testing.T) {
	env := newTestEnv(t)
	importer := newTestImporter(t, env, 0)

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(jsonCatalog))
	}))
	defer srv.Close()

	result, err := importer.ImportURL(env.ctx, srv.URL+"/catalog.json")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, int32(2), calls.Load())
}

func TestImportURL_GivesUpAfterMaxAttempts(t *testing.T) {
	env := newTestEnv(t)
	importer := newTestImporter(t, env, 0)

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := importer.ImportURL(env.ctx, srv.URL)
	require.Error(t, err)
	assert.True(t, pkgErrors.IsCode(err, pkgErrors.CodeTransientNetwork))
	assert.Equal(t, int32(3), calls.Load())
}

func TestImportURL_NonRetryableFailures(t *testing.T) {
	env := newTestEnv(t)
	importer := newTestImporter(t, env, 64)

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		switch r.URL.Path {
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
		default:
			_, _ = w.Write([]byte(strings.Repeat("#", 128)))
		}
	}))
	defer srv.Close()

	_, err := importer.ImportURL(env.ctx, srv.URL+"/missing")
	assert.True(t, pkgErrors.IsCode(err, pkgErrors.CodeValidationError))
	assert.Equal(t, int32(1), calls.Load())

	_, err = importer.ImportURL(env.ctx, srv.URL+"/huge")
	assert.True(t, pkgErrors.IsCode(err, pkgErrors.CodeValidationError))
	assert.Equal(t, int32(2), calls.Load())

	_, err = importer.ImportURL(env.ctx, "file:///etc/passwd")
	assert.True(t, pkgErrors.IsCode(err, pkgErrors.CodeValidationError))
}
