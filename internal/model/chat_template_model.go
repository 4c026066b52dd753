package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ChatTemplate struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Name        string         `gorm:"type:varchar(200);uniqueIndex;not null"`
	Description string         `gorm:"type:text"`
	Config      datatypes.JSON `gorm:"not null"`
	IsDefault   bool           `gorm:"not null;default:false;index"`
	Version     int            `gorm:"not null;default:1"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
}

func (ChatTemplate) TableName() string {
	return "templates"
}
