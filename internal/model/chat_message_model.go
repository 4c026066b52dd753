package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ChatMessage struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey"`
	SessionId  uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_messages_session_index,priority:1"`
	Role       string         `gorm:"type:varchar(16);not null"`
	Content    datatypes.JSON `gorm:"not null"`
	SearchText string         `gorm:"type:text;not null;default:''"`
	Index      int            `gorm:"column:message_index;not null;uniqueIndex:idx_messages_session_index,priority:2"`
	Version    int            `gorm:"not null;default:1"`
	CreatedAt  time.Time      `gorm:"not null;index"`

	Session *ChatSession `gorm:"foreignKey:SessionId;constraint:OnDelete:CASCADE"`
}

func (ChatMessage) TableName() string {
	return "messages"
}
