package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ChatSession struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Title      string         `gorm:"type:text;not null"`
	CreatedAt  time.Time      `gorm:"not null"`
	LastActive time.Time      `gorm:"not null;index"`
	IsPrivate  bool           `gorm:"not null;default:false;index"`
	Config     datatypes.JSON `gorm:"not null"`
	TemplateId *uuid.UUID     `gorm:"type:uuid"`
}

func (ChatSession) TableName() string {
	return "sessions"
}
