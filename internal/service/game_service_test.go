package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"game-portal-cms/internal/dto"
	"game-portal-cms/internal/model"
	pkgErrors "game-portal-cms/pkg/errors"
)

func TestGameCreate_SlugAndCategories(t *testing.T) {
	env := newTestEnv(t)
	c1 := env.category(t, "Action")

	first := env.game(t, "Space Runner!", c1)
	assert.Equal(t, "space-runner", first.Slug)
	assert.Equal(t, []string{c1}, first.CategoryIDs)

	second := env.game(t, "Space Runner")
	assert.Equal(t, "space-runner-2", second.Slug)
	third := env.game(t, "space runner")
	assert.Equal(t, "space-runner-3", third.Slug)
}

func TestGameCreate_Validation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		req  dto.CreateGameRequest
	}{
		{name: "blank title", req: dto.CreateGameRequest{Title: " ", IframeURL: "https://a.example.com"}},
		{name: "bad iframe", req: dto.CreateGameRequest{Title: "G", IframeURL: "javascript:alert(1)"}},
		{name: "bad image", req: dto.CreateGameRequest{Title: "G", IframeURL: "https://a.example.com", ImageURL: "not-a-url"}},
		{name: "rating out of range", req: dto.CreateGameRequest{Title: "G", IframeURL: "https://a.example.com", Rating: 9}},
		{name: "unknown category", req: dto.CreateGameRequest{Title: "G", IframeURL: "https://a.example.com", CategoryIDs: []string{"nope"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.games.Create(env.ctx, &tt.req)
			require.Error(t, err)
			assert.Equal(t, pkgErrors.CodeValidationError, pkgErrors.CodeOf(err))
		})
	}
	assert.Zero(t, env.count(t, &model.GameBase{}, ""))
}

func TestGameUpdate_ReplacesCategories(t *testing.T) {
	env := newTestEnv(t)
	c1 := env.category(t, "Action")
	c2 := env.category(t, "Puzzle")
	c3 := env.category(t, "Racing")
	game := env.game(t, "G1", c1, c2)

	desired := []string{c2, c3}
	title := "G1 Deluxe"
	resp, err := env.games.Update(env.ctx, game.ID, &dto.UpdateGameRequest{Title: &title, CategoryIDs: &desired})
	require.NoError(t, err)
	assert.Equal(t, "G1 Deluxe", resp.Title)
	assert.Equal(t, game.Slug, resp.Slug, "slug 创建后保持不变")
	assert.ElementsMatch(t, []string{c2, c3}, resp.CategoryIDs)

	// 不传 category_ids 不改变分类
	rating := 4.5
	resp, err = env.games.Update(env.ctx, game.ID, &dto.UpdateGameRequest{Rating: &rating})
	require.NoError(t, err)
	assert.Equal(t, 4.5, resp.Rating)
	assert.ElementsMatch(t, []string{c2, c3}, resp.CategoryIDs)

	_, err = env.games.Update(env.ctx, "00000000-0000-0000-0000-000000000000", &dto.UpdateGameRequest{Rating: &rating})
	assert.Equal(t, pkgErrors.CodeNotFound, pkgErrors.CodeOf(err))
}

func TestGameSearchAndList(t *testing.T) {
	env := newTestEnv(t)
	env.game(t, "Zombie Smash")
	env.game(t, "Bubble Pop")
	env.game(t, "Smash Karts")

	games, err := env.games.Search(env.ctx, "SMASH")
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, "Smash Karts", games[0].Title, "按标题排序")

	page, total, err := env.games.List(env.ctx, &dto.GameListQuery{PageQuery: dto.PageQuery{Page: 2, PageSize: 2}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, page, 1)
}

func TestGameSearchFoldsUnicodeCase(t *testing.T) {
	env := newTestEnv(t)
	game := env.game(t, "ÉCLAIR Quest")
	env.game(t, "Eclipse")
	projectID := env.project(t, "P1", "en")

	for _, term := range []string{"ÉCLAIR", "éclair", "Éclair quest", "QUEST"} {
		t.Run(term, func(t *testing.T) {
			games, err := env.games.Search(env.ctx, term)
			require.NoError(t, err)
			require.Len(t, games, 1)
			assert.Equal(t, game.ID, games[0].ID)

			_, total, err := env.games.List(env.ctx, &dto.GameListQuery{PageQuery: dto.PageQuery{Keyword: term}})
			require.NoError(t, err)
			assert.Equal(t, int64(1), total)

			_, total, err = env.games.ListAvailableForProject(env.ctx, projectID, &dto.GameListQuery{PageQuery: dto.PageQuery{Keyword: term}})
			require.NoError(t, err)
			assert.Equal(t, int64(1), total)
		})
	}

	// LIKE 通配符按字面匹配
	games, err := env.games.Search(env.ctx, "%")
	require.NoError(t, err)
	assert.Empty(t, games)
}

func TestCategoryNameUnique(t *testing.T) {
	env := newTestEnv(t)
	env.category(t, "Action")

	_, err := env.categories.Create(env.ctx, &dto.CreateCategoryRequest{Name: " Action "})
	require.Error(t, err)
	assert.Equal(t, pkgErrors.CodeValidationError, pkgErrors.CodeOf(err))

	other := env.category(t, "Puzzle")
	name := "Action"
	_, err = env.categories.Update(env.ctx, other, &dto.UpdateCategoryRequest{Name: &name})
	assert.Equal(t, pkgErrors.CodeValidationError, pkgErrors.CodeOf(err))

	same := "Puzzle"
	resp, err := env.categories.Update(env.ctx, other, &dto.UpdateCategoryRequest{Name: &same})
	require.NoError(t, err)
	assert.Equal(t, "Puzzle", resp.Name)
}
