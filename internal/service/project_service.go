package service

import (
	"context"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"gorm.io/datatypes"

	"game-portal-cms/internal/dto"
	"game-portal-cms/internal/model"
	"game-portal-cms/internal/pkg/crypto"
	"game-portal-cms/internal/pkg/logger"
	"game-portal-cms/internal/repository"
	pkgErrors "game-portal-cms/pkg/errors"
)

type ProjectService interface {
	List(ctx context.Context) ([]*dto.ProjectResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ProjectResponse, error)
	Create(ctx context.Context, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error)
	Delete(ctx context.Context, id string) error
}

type projectService struct {
	repos   *repository.Repositories
	cascade CascadeService
	cipher  *crypto.Cipher
}

// NewProjectService cipher 为 nil 时不允许设置项目级 API Key
func NewProjectService(repos *repository.Repositories, cascade CascadeService, cipher *crypto.Cipher) ProjectService {
	return &projectService{
		repos:   repos,
		cascade: cascade,
		cipher:  cipher,
	}
}

func (s *projectService) List(ctx context.Context) ([]*dto.ProjectResponse, error) {
	projects, err := s.repos.Project.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Map(projects, func(p *model.Project, _ int) *dto.ProjectResponse {
		return toProjectResponse(p)
	}), nil
}

func (s *projectService) GetByID(ctx context.Context, id string) (*dto.ProjectResponse, error) {
	project, err := s.repos.Project.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "项目 %s 不存在", id)
	}
	return toProjectResponse(project), nil
}

func (s *projectService) Create(ctx context.Context, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgErrors.Validation("项目名称不能为空")
	}

	locales, defaultLocale, err := normalizeLocales(req.Locales, req.DefaultLocale)
	if err != nil {
		return nil, err
	}

	aiConfig, err := s.mergeAIConfig(model.AIConfig{}, req.AIConfig)
	if err != nil {
		return nil, err
	}

	project := &model.Project{
		Name:          name,
		Description:   req.Description,
		DefaultLocale: defaultLocale,
		Locales:       locales,
		AIConfig:      datatypes.NewJSONType(aiConfig),
	}
	if err := s.repos.Project.Create(ctx, project); err != nil {
		return nil, err
	}

	logger.Info("项目已创建", zap.String("project_id", project.ID), zap.Strings("locales", locales))
	return toProjectResponse(project), nil
}

func (s *projectService) Update(ctx context.Context, id string, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	project, err := s.repos.Project.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "项目 %s 不存在", id)
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, pkgErrors.Validation("项目名称不能为空")
		}
		updates["name"] = name
	}
	if req.Description != nil {
		updates["description"] = req.Description
	}

	if req.Locales != nil || req.DefaultLocale != nil {
		rawLocales := []string(project.Locales)
		if req.Locales != nil {
			rawLocales = req.Locales
		}
		rawDefault := project.DefaultLocale
		if req.DefaultLocale != nil {
			rawDefault = *req.DefaultLocale
		}
		locales, defaultLocale, err := normalizeLocales(rawLocales, rawDefault)
		if err != nil {
			return nil, err
		}

		// 仍有项目游戏的语言不能移除
		removed := lo.Without([]string(project.Locales), locales...)
		if len(removed) > 0 {
			count, err := s.repos.ProjectGame.CountByProjectLocales(ctx, id, removed)
			if err != nil {
				return nil, err
			}
			if count > 0 {
				return nil, pkgErrors.Validation("语言 %s 下仍有项目游戏，不能移除", strings.Join(removed, ","))
			}
		}

		updates["locales"] = datatypes.JSONSlice[string](locales)
		updates["default_locale"] = defaultLocale
	}

	if req.AIConfig != nil {
		aiConfig, err := s.mergeAIConfig(project.AIConfig.Data(), req.AIConfig)
		if err != nil {
			return nil, err
		}
		updates["ai_config"] = datatypes.NewJSONType(aiConfig)
	}

	if len(updates) > 0 {
		updates["updated_at"] = time.Now()
		if err := s.repos.Project.Update(ctx, id, updates); err != nil {
			return nil, err
		}
	}

	return s.GetByID(ctx, id)
}

func (s *projectService) Delete(ctx context.Context, id string) error {
	return s.cascade.DeleteProject(ctx, id)
}

// mergeAIConfig 将请求合并到已有配置；api_key 非 nil 时重新加密，空串表示清除
func (s *projectService) mergeAIConfig(current model.AIConfig, req *dto.AIConfigRequest) (model.AIConfig, error) {
	if req == nil {
		return current, nil
	}

	merged := model.AIConfig{
		TargetAudience:  strings.TrimSpace(req.TargetAudience),
		Tone:            strings.TrimSpace(req.Tone),
		SEOKeywords:     lo.Compact(lo.Uniq(lo.Map(req.SEOKeywords, func(k string, _ int) string { return strings.TrimSpace(k) }))),
		DefaultPrompts:  req.DefaultPrompts,
		Model:           strings.TrimSpace(req.Model),
		EncryptedAPIKey: current.EncryptedAPIKey,
	}

	if req.APIKey != nil {
		key := strings.TrimSpace(*req.APIKey)
		switch {
		case key == "":
			merged.EncryptedAPIKey = ""
		case s.cipher == nil:
			return merged, pkgErrors.Validation("未配置 crypto.aes_key，无法保存项目级 API Key")
		default:
			encrypted, err := s.cipher.Encrypt(key)
			if err != nil {
				return merged, pkgErrors.Wrap(pkgErrors.CodeInternalError, "加密 API Key 失败", err)
			}
			merged.EncryptedAPIKey = encrypted
		}
	}
	return merged, nil
}

// normalizeLocales 规范化 BCP 47 语言标签并去重，默认语言必须在集合内
func normalizeLocales(raw []string, rawDefault string) ([]string, string, error) {
	locales := make([]string, 0, len(raw))
	for _, l := range raw {
		canonical, err := canonicalLocale(l)
		if err != nil {
			return nil, "", err
		}
		locales = append(locales, canonical)
	}
	locales = lo.Uniq(locales)
	if len(locales) == 0 {
		return nil, "", pkgErrors.Validation("locales 不能为空")
	}

	defaultLocale, err := canonicalLocale(rawDefault)
	if err != nil {
		return nil, "", err
	}
	if !lo.Contains(locales, defaultLocale) {
		return nil, "", pkgErrors.Validation("默认语言 %s 必须包含在 locales 中", defaultLocale)
	}
	return locales, defaultLocale, nil
}

func canonicalLocale(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", pkgErrors.Validation("语言代码不能为空")
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return "", pkgErrors.Validation("非法的语言代码: %s", raw)
	}
	return tag.String(), nil
}

func toProjectResponse(project *model.Project) *dto.ProjectResponse {
	cfg := project.AIConfig.Data()
	locales := []string(project.Locales)
	if locales == nil {
		locales = []string{}
	}
	return &dto.ProjectResponse{
		ID:            project.ID,
		Name:          project.Name,
		Description:   project.Description,
		DefaultLocale: project.DefaultLocale,
		Locales:       locales,
		AIConfig: &dto.AIConfigResponse{
			TargetAudience: cfg.TargetAudience,
			Tone:           cfg.Tone,
			SEOKeywords:    cfg.SEOKeywords,
			DefaultPrompts: cfg.DefaultPrompts,
			Model:          cfg.Model,
			HasAPIKey:      cfg.EncryptedAPIKey != "",
		},
		CreatedAt: formatTime(project.CreatedAt),
		UpdatedAt: formatTime(project.UpdatedAt),
	}
}
