package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"game-portal-cms/internal/dto"
	"game-portal-cms/internal/model"
	"game-portal-cms/internal/pkg/config"
	"game-portal-cms/internal/pkg/crypto"
	"game-portal-cms/internal/pkg/logger"
	"game-portal-cms/internal/pkg/metrics"
	"game-portal-cms/internal/pkg/retry"
	"game-portal-cms/internal/repository"
	"game-portal-cms/pkg/constants"
	pkgErrors "game-portal-cms/pkg/errors"
)

const defaultAITimeout = 30 * time.Second

var builtinPrompts = map[string]string{
	constants.AITaskTitle:       "Write one catchy, concise title (max 60 characters) for the browser game described below. Reply with the title only.",
	constants.AITaskDescription: "Write an engaging description (2-3 short paragraphs) for the browser game described below, covering gameplay and what makes it fun.",
	constants.AITaskSEO:         "Write an SEO meta description (max 160 characters) for the browser game described below. Reply with the meta description only.",
}

// AIService 文案生成代理，调用 OpenAI 兼容接口
type AIService interface {
	Generate(ctx context.Context, req *dto.GenerateRequest) (*dto.GenerateResponse, error)
}

type aiService struct {
	cfg    *config.AIConfig
	repos  *repository.Repositories
	cipher *crypto.Cipher
	policy retry.Policy
}

func NewAIService(cfg *config.AIConfig, repos *repository.Repositories, cipher *crypto.Cipher) AIService {
	return &aiService{
		cfg:    cfg,
		repos:  repos,
		cipher: cipher,
		policy: retry.FromConfig(cfg.Retry),
	}
}

func (s *aiService) Generate(ctx context.Context, req *dto.GenerateRequest) (*dto.GenerateResponse, error) {
	if strings.TrimSpace(req.RawData) == "" {
		return nil, pkgErrors.Validation("raw_data 不能为空")
	}
	if _, ok := builtinPrompts[req.TaskType]; !ok && req.TaskType != constants.AITaskCustom {
		return nil, pkgErrors.Validation("未知的任务类型: %s", req.TaskType)
	}

	var projectCfg model.AIConfig
	if req.ProjectID != "" {
		project, err := s.repos.Project.FindByID(ctx, req.ProjectID)
		if err != nil {
			return nil, notFound(err, "项目 %s 不存在", req.ProjectID)
		}
		projectCfg = project.AIConfig.Data()
	}

	prompt, err := buildPrompt(req, projectCfg)
	if err != nil {
		return nil, err
	}

	apiKey, err := s.apiKey(projectCfg)
	if err != nil {
		return nil, err
	}
	modelName := s.cfg.Model
	if projectCfg.Model != "" {
		modelName = projectCfg.Model
	}

	client := s.newClient(apiKey)
	var text string
	err = retry.Do(ctx, s.policy, "ai_generate", func(ctx context.Context) error {
		attemptCtx, cancel := context.WithTimeout(ctx, s.timeout())
		defer cancel()

		resp, err := client.CreateChatCompletion(attemptCtx, openai.ChatCompletionRequest{
			Model: modelName,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
			Temperature: s.cfg.Temperature,
			MaxTokens:   s.cfg.MaxTokens,
		})
		metrics.OutboundCalls.WithLabelValues("ai", metrics.Result(err)).Inc()
		if err != nil {
			return classifyAIError(err)
		}
		if len(resp.Choices) == 0 {
			return pkgErrors.Transient("AI 未返回结果", nil)
		}
		text = strings.TrimSpace(resp.Choices[0].Message.Content)
		return nil
	})
	if err != nil {
		logger.Error("AI 生成失败", zap.String("task_type", req.TaskType), zap.Error(err))
		return nil, err
	}

	return &dto.GenerateResponse{
		TaskType: req.TaskType,
		Text:     text,
		Model:    modelName,
	}, nil
}

func (s *aiService) timeout() time.Duration {
	if s.cfg.Timeout > 0 {
		return s.cfg.Timeout
	}
	return defaultAITimeout
}

func (s *aiService) newClient(apiKey string) *openai.Client {
	clientConfig := openai.DefaultConfig(apiKey)
	if s.cfg.BaseURL != "" {
		clientConfig.BaseURL = s.cfg.BaseURL
	}
	return openai.NewClientWithConfig(clientConfig)
}

// apiKey 优先使用项目级密钥，其次使用全局密钥
func (s *aiService) apiKey(projectCfg model.AIConfig) (string, error) {
	if !s.cfg.Enabled {
		return "", pkgErrors.ErrAINotConfigured
	}
	if projectCfg.EncryptedAPIKey != "" && s.cipher != nil {
		key, err := s.cipher.Decrypt(projectCfg.EncryptedAPIKey)
		if err != nil {
			return "", pkgErrors.Wrap(pkgErrors.CodeInternalError, "解密项目 API Key 失败", err)
		}
		return key, nil
	}
	if s.cfg.APIKey == "" {
		return "", pkgErrors.ErrAINotConfigured
	}
	return s.cfg.APIKey, nil
}

// buildPrompt 自定义提示词 > 项目默认提示词 > 内置模板，再附加受众、语气、关键词与原始资料
func buildPrompt(req *dto.GenerateRequest, cfg model.AIConfig) (string, error) {
	instruction := strings.TrimSpace(req.CustomPrompt)
	if instruction == "" {
		instruction = strings.TrimSpace(cfg.DefaultPrompts[req.TaskType])
	}
	if instruction == "" {
		instruction = builtinPrompts[req.TaskType]
	}
	if instruction == "" {
		return "", pkgErrors.Validation("custom 任务必须提供 custom_prompt")
	}

	var b strings.Builder
	b.WriteString(instruction)
	b.WriteString("\n")
	if cfg.TargetAudience != "" {
		fmt.Fprintf(&b, "\nTarget audience: %s", cfg.TargetAudience)
	}
	if cfg.Tone != "" {
		fmt.Fprintf(&b, "\nTone: %s", cfg.Tone)
	}
	if len(cfg.SEOKeywords) > 0 {
		fmt.Fprintf(&b, "\nKeywords: %s", strings.Join(cfg.SEOKeywords, ", "))
	}
	fmt.Fprintf(&b, "\n\nGame data:\n%s", strings.TrimSpace(req.RawData))
	return b.String(), nil
}

// classifyAIError 429/5xx 与网络错误可重试，其余 4xx 直接失败
func classifyAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if retry.TransientStatus(apiErr.HTTPStatusCode) {
			return pkgErrors.Transient("AI 服务暂时不可用", err)
		}
		return pkgErrors.Wrap(pkgErrors.CodeValidationError, "AI 请求被拒绝", err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if retry.TransientStatus(reqErr.HTTPStatusCode) {
			return pkgErrors.Transient("AI 服务暂时不可用", err)
		}
		return pkgErrors.Wrap(pkgErrors.CodeValidationError, "AI 请求被拒绝", err)
	}
	return retry.ClassifyNetError("AI 服务请求失败", err)
}
