package implementation

import (
	"context"
	"errors"

	"rocktalk-be/internal/entity"
	"rocktalk-be/internal/mapper"
	"rocktalk-be/internal/model"
	"rocktalk-be/internal/repository/contract"
	"rocktalk-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatMessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewChatMessageRepository(db *gorm.DB) contract.ChatMessageRepository {
	return &ChatMessageRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *ChatMessageRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ChatMessageRepositoryImpl) Create(ctx context.Context, message *entity.ChatMessage) error {
	m := r.mapper.ChatMessageToModel(message)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*message = *r.mapper.ChatMessageToEntity(m)
	return nil
}

func (r *ChatMessageRepositoryImpl) CreateBulk(ctx context.Context, messages []*entity.ChatMessage) error {
	if len(messages) == 0 {
		return nil
	}
	models := make([]*model.ChatMessage, len(messages))
	for i, msg := range messages {
		models[i] = r.mapper.ChatMessageToModel(msg)
	}
	return r.db.WithContext(ctx).CreateInBatches(models, 100).Error
}

func (r *ChatMessageRepositoryImpl) DeleteByIndex(ctx context.Context, sessionId uuid.UUID, index int) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("session_id = ? AND message_index = ?", sessionId, index).
		Delete(&model.ChatMessage{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *ChatMessageRepositoryImpl) DeleteFromIndex(ctx context.Context, sessionId uuid.UUID, index int) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("session_id = ? AND message_index >= ?", sessionId, index).
		Delete(&model.ChatMessage{})
	return res.RowsAffected, res.Error
}

func (r *ChatMessageRepositoryImpl) DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("session_id = ?", sessionId).Delete(&model.ChatMessage{}).Error
}

// ShiftIndexesDown closes the gap left at index after by decrementing every
// later index. It goes through negative values first so the unique
// (session_id, message_index) index never sees a transient duplicate.
func (r *ChatMessageRepositoryImpl) ShiftIndexesDown(ctx context.Context, sessionId uuid.UUID, after int) error {
	db := r.db.WithContext(ctx).Model(&model.ChatMessage{})
	if err := db.Where("session_id = ? AND message_index > ?", sessionId, after).
		Update("message_index", gorm.Expr("-message_index")).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(&model.ChatMessage{}).
		Where("session_id = ? AND message_index < 0", sessionId).
		Update("message_index", gorm.Expr("-message_index - 1")).Error
}

func (r *ChatMessageRepositoryImpl) NextIndex(ctx context.Context, sessionId uuid.UUID) (int, error) {
	var maxIndex *int
	err := r.db.WithContext(ctx).
		Model(&model.ChatMessage{}).
		Where("session_id = ?", sessionId).
		Select("MAX(message_index)").
		Scan(&maxIndex).Error
	if err != nil {
		return 0, err
	}
	if maxIndex == nil {
		return 0, nil
	}
	return *maxIndex + 1, nil
}

func (r *ChatMessageRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatMessage, error) {
	var m model.ChatMessage
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ChatMessageToEntity(&m), nil
}

func (r *ChatMessageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	var models []*model.ChatMessage
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ChatMessagesToEntities(models), nil
}

func (r *ChatMessageRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ChatMessage{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
