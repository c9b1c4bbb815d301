package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	GameBaseTableName     = "games_base"
	GameCategoryTableName = "game_categories"
)

// GameBase 游戏库中与语言无关的基础游戏
type GameBase struct {
	BaseModel
	Title     string         `gorm:"size:255;not null;index" json:"title"`
	Slug      string         `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	ImageURL  string         `gorm:"column:image_url;size:1024" json:"image_url"`
	IframeURL string         `gorm:"column:iframe_url;size:1024" json:"iframe_url"`
	Rating    float64        `gorm:"not null;default:0" json:"rating"`
	Metadata  datatypes.JSON `json:"metadata"`
}

func (GameBase) TableName() string {
	return GameBaseTableName
}

// GameCategory 游戏库级别的分类关联
type GameCategory struct {
	GameID     string    `gorm:"primaryKey;size:36" json:"game_id"`
	CategoryID string    `gorm:"primaryKey;size:36;index" json:"category_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (GameCategory) TableName() string {
	return GameCategoryTableName
}
