package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel 基础模型，主键为应用生成的 UUID
type BaseModel struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// BeforeCreate 未指定ID时生成新ID
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// All 需要迁移的全部模型
func All() []interface{} {
	return []interface{}{
		&Category{},
		&GameBase{},
		&GameCategory{},
		&Project{},
		&ProjectCategory{},
		&ProjectGame{},
		&ProjectGameCategory{},
		&Comment{},
	}
}
