package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatTemplate struct {
	Id          uuid.UUID
	Name        string
	Description string
	Config      LLMConfig
	IsDefault   bool
	Version     int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
