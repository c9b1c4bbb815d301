package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	ProjectGameTableName         = "project_games"
	ProjectGameCategoryTableName = "project_game_categories"
)

// ProjectGame 基础游戏在项目中某个语言下的本地化副本
type ProjectGame struct {
	BaseModel
	ProjectID   string         `gorm:"size:36;not null;uniqueIndex:uniq_project_game_locale" json:"project_id"`
	GameID      string         `gorm:"size:36;not null;uniqueIndex:uniq_project_game_locale;index" json:"game_id"`
	Locale      string         `gorm:"size:35;not null;uniqueIndex:uniq_project_game_locale" json:"locale"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Content     string         `gorm:"type:text" json:"content"`
	Metadata    datatypes.JSON `json:"metadata"`
	BaseVersion int            `gorm:"not null;default:1" json:"base_version"`
	IsPublished bool           `gorm:"not null;index" json:"is_published"`
}

func (ProjectGame) TableName() string {
	return ProjectGameTableName
}

// ProjectGameCategory 项目游戏与项目分类的关联
type ProjectGameCategory struct {
	ProjectGameID     string    `gorm:"primaryKey;size:36" json:"project_game_id"`
	ProjectCategoryID string    `gorm:"primaryKey;size:36;index" json:"project_category_id"`
	CreatedAt         time.Time `json:"created_at"`
}

func (ProjectGameCategory) TableName() string {
	return ProjectGameCategoryTableName
}
