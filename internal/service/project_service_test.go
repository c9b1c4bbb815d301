package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"game-portal-cms/internal/dto"
	"game-portal-cms/internal/pkg/crypto"
	pkgErrors "game-portal-cms/pkg/errors"
)

func TestProjectCreate_NormalizesLocales(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.projects.Create(env.ctx, &dto.CreateProjectRequest{
		Name:          " Portal ",
		DefaultLocale: "EN-us",
		Locales:       []string{"en-US", "fr", "en-us"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Portal", resp.Name)
	assert.Equal(t, "en-US", resp.DefaultLocale)
	assert.Equal(t, []string{"en-US", "fr"}, resp.Locales)
	assert.False(t, resp.AIConfig.HasAPIKey)

	for name, req := range map[string]*dto.CreateProjectRequest{
		"default not in locales": {Name: "P", DefaultLocale: "de", Locales: []string{"en"}},
		"invalid locale":         {Name: "P", DefaultLocale: "en", Locales: []string{"en", "??"}},
		"blank name":             {Name: " ", DefaultLocale: "en", Locales: []string{"en"}},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := env.projects.Create(env.ctx, req)
			assert.Equal(t, pkgErrors.CodeValidationError, pkgErrors.CodeOf(err))
		})
	}
}

func TestProjectUpdate_LocaleRemovalGuard(t *testing.T) {
	env := newTestEnv(t)
	g1 := env.game(t, "G1")
	projectID := env.project(t, "P1", "en", "fr", "de")
	env.attach(t, projectID, g1.ID, "fr")

	_, err := env.projects.Update(env.ctx, projectID, &dto.UpdateProjectRequest{Locales: []string{"en", "de"}})
	require.Error(t, err)
	assert.Equal(t, pkgErrors.CodeValidationError, pkgErrors.CodeOf(err))

	// 没有项目游戏的语言可以移除
	resp, err := env.projects.Update(env.ctx, projectID, &dto.UpdateProjectRequest{Locales: []string{"en", "fr"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"en", "fr"}, resp.Locales)

	defaultLocale := "fr"
	resp, err = env.projects.Update(env.ctx, projectID, &dto.UpdateProjectRequest{DefaultLocale: &defaultLocale})
	require.NoError(t, err)
	assert.Equal(t, "fr", resp.DefaultLocale)
}

func TestProjectAIConfig_EncryptsKey(t *testing.T) {
	env := newTestEnv(t)
	key := "sk-test-123"
	resp, err := env.projects.Create(env.ctx, &dto.CreateProjectRequest{
		Name:          "P1",
		DefaultLocale: "en",
		Locales:       []string{"en"},
		AIConfig: &dto.AIConfigRequest{
			Tone:        "playful",
			SEOKeywords: []string{"games", " games ", ""},
			APIKey:      &key,
		},
	})
	require.NoError(t, err)
	assert.True(t, resp.AIConfig.HasAPIKey)
	assert.Equal(t, []string{"games"}, resp.AIConfig.SEOKeywords)

	project, err := env.repos.Project.FindByID(env.ctx, resp.ID)
	require.NoError(t, err)
	stored := project.AIConfig.Data().EncryptedAPIKey
	assert.NotContains(t, stored, key)

	cipher, err := crypto.NewCipher(testAESKey)
	require.NoError(t, err)
	plain, err := cipher.Decrypt(stored)
	require.NoError(t, err)
	assert.Equal(t, key, plain)

	// 不传 api_key 时保留原密钥
	resp, err = env.projects.Update(env.ctx, resp.ID, &dto.UpdateProjectRequest{AIConfig: &dto.AIConfigRequest{Tone: "calm"}})
	require.NoError(t, err)
	assert.True(t, resp.AIConfig.HasAPIKey)
	assert.Equal(t, "calm", resp.AIConfig.Tone)

	empty := ""
	resp, err = env.projects.Update(env.ctx, resp.ID, &dto.UpdateProjectRequest{AIConfig: &dto.AIConfigRequest{APIKey: &empty}})
	require.NoError(t, err)
	assert.False(t, resp.AIConfig.HasAPIKey)
}

func TestProjectAIConfig_WithoutCipher(t *testing.T) {
	env := newTestEnv(t)
	svc := NewProjectService(env.repos, env.cascade, nil)

	key := "sk-test"
	_, err := svc.Create(env.ctx, &dto.CreateProjectRequest{
		Name:          "P1",
		DefaultLocale: "en",
		Locales:       []string{"en"},
		AIConfig:      &dto.AIConfigRequest{APIKey: &key},
	})
	assert.Equal(t, pkgErrors.CodeValidationError, pkgErrors.CodeOf(err))
}
