package contract

import (
	"context"

	"rocktalk-be/internal/entity"
	"rocktalk-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ChatMessageRepository interface {
	Create(ctx context.Context, message *entity.ChatMessage) error
	CreateBulk(ctx context.Context, messages []*entity.ChatMessage) error
	DeleteByIndex(ctx context.Context, sessionId uuid.UUID, index int) (bool, error)
	DeleteFromIndex(ctx context.Context, sessionId uuid.UUID, index int) (int64, error)
	DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error
	ShiftIndexesDown(ctx context.Context, sessionId uuid.UUID, after int) error
	NextIndex(ctx context.Context, sessionId uuid.UUID) (int, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatMessage, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
