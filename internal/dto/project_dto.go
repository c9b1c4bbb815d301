package dto

// AIConfigRequest 项目 AI 配置；api_key 传空字符串表示清除
type AIConfigRequest struct {
	TargetAudience string            `json:"target_audience" binding:"omitempty,max=255"`
	Tone           string            `json:"tone" binding:"omitempty,max=100"`
	SEOKeywords    []string          `json:"seo_keywords"`
	DefaultPrompts map[string]string `json:"default_prompts"`
	Model          string            `json:"model" binding:"omitempty,max=100"`
	APIKey         *string           `json:"api_key"`
}

// AIConfigResponse 项目 AI 配置响应，不返回密钥本身
type AIConfigResponse struct {
	TargetAudience string            `json:"target_audience"`
	Tone           string            `json:"tone"`
	SEOKeywords    []string          `json:"seo_keywords"`
	DefaultPrompts map[string]string `json:"default_prompts"`
	Model          string            `json:"model,omitempty"`
	HasAPIKey      bool              `json:"has_api_key"`
}

// CreateProjectRequest 创建项目请求
type CreateProjectRequest struct {
	Name          string           `json:"name" binding:"required,max=100"`
	Description   *string          `json:"description"`
	DefaultLocale string           `json:"default_locale" binding:"required"`
	Locales       []string         `json:"locales" binding:"required,min=1"`
	AIConfig      *AIConfigRequest `json:"ai_config"`
}

// UpdateProjectRequest 更新项目请求，未传字段保持不变
type UpdateProjectRequest struct {
	Name          *string          `json:"name" binding:"omitempty,max=100"`
	Description   *string          `json:"description"`
	DefaultLocale *string          `json:"default_locale"`
	Locales       []string         `json:"locales"`
	AIConfig      *AIConfigRequest `json:"ai_config"`
}

// ProjectResponse 项目响应
type ProjectResponse struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Description   *string           `json:"description"`
	DefaultLocale string            `json:"default_locale"`
	Locales       []string          `json:"locales"`
	AIConfig      *AIConfigResponse `json:"ai_config"`
	CreatedAt     string            `json:"created_at"`
	UpdatedAt     string            `json:"updated_at"`
}
