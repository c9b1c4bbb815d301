package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"game-portal-cms/internal/dto"
	"game-portal-cms/internal/model"
	"game-portal-cms/pkg/constants"
	pkgErrors "game-portal-cms/pkg/errors"
)

func TestAttachBatch(t *testing.T) {
	env := newTestEnv(t)
	game, err := env.games.Create(env.ctx, &dto.CreateGameRequest{
		Title:     "Space Runner",
		IframeURL: "https://games.example.com/space-runner",
		Metadata:  datatypes.JSON(`{"width":800}`),
	})
	require.NoError(t, err)
	projectID := env.project(t, "P1", "en-US", "fr")

	rows, err := env.projectGames.AttachBatch(env.ctx, projectID, []dto.AttachGameItem{
		{GameID: game.ID, Locale: "en-us"},
		{GameID: game.ID, Locale: "fr", Title: "Coureur de l'espace"},
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "en-US", rows[0].Locale)
	assert.Equal(t, "Space Runner", rows[0].Title, "未传标题时继承基础游戏")
	assert.JSONEq(t, `{"width":800}`, string(rows[0].Metadata))
	assert.Equal(t, "Coureur de l'espace", rows[1].Title)
	for _, row := range rows {
		assert.False(t, row.IsPublished)
		assert.Equal(t, constants.DefaultBaseVersion, row.BaseVersion)
		assert.Empty(t, row.ProjectCategoryIDs)
	}
}

func TestAttachBatch_RejectsWholeBatch(t *testing.T) {
	env := newTestEnv(t)
	g1 := env.game(t, "G1")
	g2 := env.game(t, "G2")
	projectID := env.project(t, "P1", "en", "fr")
	env.attach(t, projectID, g1.ID, "en")

	tests := []struct {
		name  string
		items []dto.AttachGameItem
		code  int
	}{
		{name: "empty", items: nil, code: pkgErrors.CodeValidationError},
		{name: "missing game", items: []dto.AttachGameItem{{Locale: "en"}}, code: pkgErrors.CodeValidationError},
		{name: "missing locale", items: []dto.AttachGameItem{{GameID: g2.ID}}, code: pkgErrors.CodeValidationError},
		{name: "locale not in project", items: []dto.AttachGameItem{{GameID: g2.ID, Locale: "de"}}, code: pkgErrors.CodeValidationError},
		{name: "invalid locale", items: []dto.AttachGameItem{{GameID: g2.ID, Locale: "not a locale"}}, code: pkgErrors.CodeValidationError},
		{
			name:  "duplicate in batch",
			items: []dto.AttachGameItem{{GameID: g2.ID, Locale: "en"}, {GameID: g2.ID, Locale: "EN"}},
			code:  pkgErrors.CodeValidationError,
		},
		{
			name:  "unknown game",
			items: []dto.AttachGameItem{{GameID: g2.ID, Locale: "en"}, {GameID: "00000000-0000-0000-0000-000000000000", Locale: "en"}},
			code:  pkgErrors.CodeValidationError,
		},
		{
			name:  "already attached",
			items: []dto.AttachGameItem{{GameID: g2.ID, Locale: "fr"}, {GameID: g1.ID, Locale: "en"}},
			code:  pkgErrors.CodeValidationError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.projectGames.AttachBatch(env.ctx, projectID, tt.items)
			require.Error(t, err)
			assert.Equal(t, tt.code, pkgErrors.CodeOf(err))
			assert.Equal(t, int64(1), env.count(t, &model.ProjectGame{}, ""), "失败时不写入任何行")
		})
	}

	_, err := env.projectGames.AttachBatch(env.ctx, "00000000-0000-0000-0000-000000000000",
		[]dto.AttachGameItem{{GameID: g2.ID, Locale: "en"}})
	assert.Equal(t, pkgErrors.CodeNotFound, pkgErrors.CodeOf(err))
}

func TestAttachBatch_OtherLocaleOfAttachedGame(t *testing.T) {
	env := newTestEnv(t)
	g1 := env.game(t, "G1")
	projectID := env.project(t, "P1", "en", "fr")
	env.attach(t, projectID, g1.ID, "en")

	rows := env.attach(t, projectID, g1.ID, "fr")
	require.Len(t, rows, 1)
	assert.Equal(t, int64(2), env.count(t, &model.ProjectGame{}, "game_id = ?", g1.ID))
}

func TestListAvailableForProject(t *testing.T) {
	env := newTestEnv(t)
	g1 := env.game(t, "Alpha")
	g2 := env.game(t, "Beta")
	g3 := env.game(t, "Gamma")
	p1 := env.project(t, "P1", "en", "fr")
	p2 := env.project(t, "P2", "en")

	// 只加入 fr 也算已加入
	env.attach(t, p1, g1.ID, "fr")
	env.attach(t, p2, g2.ID, "en")

	games, total, err := env.games.ListAvailableForProject(env.ctx, p1, &dto.GameListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	ids := []string{games[0].ID, games[1].ID}
	assert.ElementsMatch(t, []string{g2.ID, g3.ID}, ids)

	games, total, err = env.games.ListAvailableForProject(env.ctx, p1, &dto.GameListQuery{PageQuery: dto.PageQuery{Keyword: "gam"}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, g3.ID, games[0].ID)

	_, _, err = env.games.ListAvailableForProject(env.ctx, "00000000-0000-0000-0000-000000000000", &dto.GameListQuery{})
	assert.Equal(t, pkgErrors.CodeNotFound, pkgErrors.CodeOf(err))
}

func TestSetPublished(t *testing.T) {
	env := newTestEnv(t)
	g1 := env.game(t, "G1")
	projectID := env.project(t, "P1", "en", "fr")
	env.attach(t, projectID, g1.ID, "en", "fr")

	rows, err := env.projectGames.SetPublished(env.ctx, projectID, g1.ID, true, "fr")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].IsPublished)
	assert.Equal(t, int64(1), env.count(t, &model.ProjectGame{}, "is_published = ?", true))

	rows, err = env.projectGames.SetPublished(env.ctx, projectID, g1.ID, true, "")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, int64(2), env.count(t, &model.ProjectGame{}, "is_published = ?", true))

	_, err = env.projectGames.SetPublished(env.ctx, projectID, g1.ID, false, "de")
	assert.Equal(t, pkgErrors.CodeNotFound, pkgErrors.CodeOf(err))
}

// P1(en, fr) 下 G1 的两种语言各自维护项目分类
func TestSyncGameCategories_PerLocale(t *testing.T) {
	env := newTestEnv(t)
	c1 := env.category(t, "Action")
	c2 := env.category(t, "Puzzle")
	g1 := env.game(t, "G1")
	projectID := env.project(t, "P1", "en", "fr")
	bindings := env.bind(t, projectID, c1, c2)
	env.attach(t, projectID, g1.ID, "en", "fr")

	rows, err := env.projectGames.SyncGameCategories(env.ctx, projectID, g1.ID, []string{bindings[c1], bindings[c2]}, "")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.ElementsMatch(t, []string{bindings[c1], bindings[c2]}, row.ProjectCategoryIDs)
	}

	rows, err = env.projectGames.SyncGameCategories(env.ctx, projectID, g1.ID, []string{bindings[c2]}, "en")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{bindings[c2]}, rows[0].ProjectCategoryIDs)

	list, _, err := env.projectGames.List(env.ctx, projectID, &dto.ProjectGameListQuery{Locale: "fr"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.ElementsMatch(t, []string{bindings[c1], bindings[c2]}, list[0].ProjectCategoryIDs, "fr 不受影响")

	rows, err = env.projectGames.SyncGameCategories(env.ctx, projectID, g1.ID, []string{}, "")
	require.NoError(t, err)
	for _, row := range rows {
		assert.Empty(t, row.ProjectCategoryIDs)
	}
	assert.Zero(t, env.count(t, &model.ProjectGameCategory{}, ""))
	assert.Equal(t, int64(2), env.count(t, &model.ProjectCategory{}, ""), "项目分类本身保留")
}

func TestSyncGameCategories_Rejects(t *testing.T) {
	env := newTestEnv(t)
	c1 := env.category(t, "Action")
	c2 := env.category(t, "Puzzle")
	g1 := env.game(t, "G1")
	p1 := env.project(t, "P1", "en")
	p2 := env.project(t, "P2", "en")
	own := env.bind(t, p1, c1, c2)
	foreign := env.bind(t, p2, c1)
	env.attach(t, p1, g1.ID, "en")

	inactive := false
	_, err := env.bindings.UpdateBinding(env.ctx, p1, own[c2], &dto.UpdateProjectCategoryRequest{IsActive: &inactive})
	require.NoError(t, err)

	for name, ids := range map[string][]string{
		"other project": {foreign[c1]},
		"inactive":      {own[c1], own[c2]},
		"unknown":       {"00000000-0000-0000-0000-000000000000"},
		"duplicate":     {own[c1], own[c1]},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := env.projectGames.SyncGameCategories(env.ctx, p1, g1.ID, ids, "")
			require.Error(t, err)
			assert.Equal(t, pkgErrors.CodeValidationError, pkgErrors.CodeOf(err))
			assert.Zero(t, env.count(t, &model.ProjectGameCategory{}, ""))
		})
	}

	_, err = env.projectGames.SyncGameCategories(env.ctx, p1, "00000000-0000-0000-0000-000000000000", []string{own[c1]}, "")
	assert.Equal(t, pkgErrors.CodeNotFound, pkgErrors.CodeOf(err))
}

func TestUpdateProjectGame(t *testing.T) {
	env := newTestEnv(t)
	g1 := env.game(t, "G1")
	projectID := env.project(t, "P1", "en")
	row := env.attach(t, projectID, g1.ID, "en")[0]

	title := "Localized"
	content := "<p>hello</p>"
	resp, err := env.projectGames.Update(env.ctx, row.ID, &dto.UpdateProjectGameRequest{Title: &title, Content: &content})
	require.NoError(t, err)
	assert.Equal(t, "Localized", resp.Title)
	assert.Equal(t, "<p>hello</p>", resp.Content)

	blank := "  "
	_, err = env.projectGames.Update(env.ctx, row.ID, &dto.UpdateProjectGameRequest{Title: &blank})
	assert.Equal(t, pkgErrors.CodeValidationError, pkgErrors.CodeOf(err))

	// 基础游戏不受影响
	base, err := env.games.GetByID(env.ctx, g1.ID)
	require.NoError(t, err)
	assert.Equal(t, "G1", base.Title)
}

func TestProjectGameList_Filters(t *testing.T) {
	env := newTestEnv(t)
	g1 := env.game(t, "Alpha")
	g2 := env.game(t, "Beta")
	projectID := env.project(t, "P1", "en", "fr")
	env.attach(t, projectID, g1.ID, "en", "fr")
	env.attach(t, projectID, g2.ID, "en")
	_, err := env.projectGames.SetPublished(env.ctx, projectID, g2.ID, true, "")
	require.NoError(t, err)

	_, total, err := env.projectGames.List(env.ctx, projectID, &dto.ProjectGameListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	_, total, err = env.projectGames.List(env.ctx, projectID, &dto.ProjectGameListQuery{Locale: "en"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	published := true
	rows, total, err := env.projectGames.List(env.ctx, projectID, &dto.ProjectGameListQuery{Published: &published})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, g2.ID, rows[0].GameID)
}
