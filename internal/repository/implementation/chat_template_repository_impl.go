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

type ChatTemplateRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TemplateMapper
}

func NewChatTemplateRepository(db *gorm.DB) contract.ChatTemplateRepository {
	return &ChatTemplateRepositoryImpl{
		db:     db,
		mapper: mapper.NewTemplateMapper(),
	}
}

func (r *ChatTemplateRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ChatTemplateRepositoryImpl) Create(ctx context.Context, template *entity.ChatTemplate) error {
	m := r.mapper.ToModel(template)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*template = *r.mapper.ToEntity(m)
	return nil
}

func (r *ChatTemplateRepositoryImpl) Update(ctx context.Context, template *entity.ChatTemplate) error {
	m := r.mapper.ToModel(template)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*template = *r.mapper.ToEntity(m)
	return nil
}

func (r *ChatTemplateRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&model.ChatTemplate{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *ChatTemplateRepositoryImpl) ClearDefault(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Model(&model.ChatTemplate{}).
		Where("is_default = ?", true).
		Update("is_default", false).Error
}

func (r *ChatTemplateRepositoryImpl) SetDefault(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.ChatTemplate{}).
		Where("id = ?", id).
		Update("is_default", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *ChatTemplateRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatTemplate, error) {
	var m model.ChatTemplate
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ChatTemplateRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatTemplate, error) {
	var models []*model.ChatTemplate
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ChatTemplateRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ChatTemplate{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
