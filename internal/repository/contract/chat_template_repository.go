package contract

import (
	"context"

	"rocktalk-be/internal/entity"
	"rocktalk-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ChatTemplateRepository interface {
	Create(ctx context.Context, template *entity.ChatTemplate) error
	Update(ctx context.Context, template *entity.ChatTemplate) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	ClearDefault(ctx context.Context) error
	SetDefault(ctx context.Context, id uuid.UUID) (bool, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatTemplate, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatTemplate, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
