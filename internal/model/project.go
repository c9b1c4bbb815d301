package model

import (
	"gorm.io/datatypes"
)

const ProjectTableName = "projects"

// Project 项目：一组本地化的游戏集合
type Project struct {
	BaseModel
	Name          string                       `gorm:"size:100;not null" json:"name"`
	Description   *string                      `gorm:"type:text" json:"description"`
	DefaultLocale string                       `gorm:"size:35;not null" json:"default_locale"`
	Locales       datatypes.JSONSlice[string]  `gorm:"not null" json:"locales"`
	AIConfig      datatypes.JSONType[AIConfig] `gorm:"column:ai_config" json:"ai_config"`
}

func (Project) TableName() string {
	return ProjectTableName
}

// AIConfig 项目级 AI 文案生成配置
type AIConfig struct {
	TargetAudience  string            `json:"target_audience"`
	Tone            string            `json:"tone"`
	SEOKeywords     []string          `json:"seo_keywords"`
	DefaultPrompts  map[string]string `json:"default_prompts"`
	Model           string            `json:"model,omitempty"`
	EncryptedAPIKey string            `json:"encrypted_api_key,omitempty"` // AES-GCM 密文
}

// HasLocale 是否包含指定语言
func (p *Project) HasLocale(locale string) bool {
	for _, l := range p.Locales {
		if l == locale {
			return true
		}
	}
	return false
}
