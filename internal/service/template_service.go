package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"rocktalk-be/internal/dto"
	"rocktalk-be/internal/entity"
	"rocktalk-be/internal/pkg/logger"
	"rocktalk-be/internal/repository/specification"
	"rocktalk-be/internal/repository/unitofwork"
	"rocktalk-be/pkg/events"

	"github.com/google/uuid"
)

// CustomTemplateName labels a config that matches no stored template.
const CustomTemplateName = "Custom"

const importedSuffix = " (imported)"

type ITemplateService interface {
	Create(ctx context.Context, request *dto.CreateTemplateRequest) (*dto.TemplateResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.TemplateResponse, error)
	GetByName(ctx context.Context, name string) (*dto.TemplateResponse, error)
	List(ctx context.Context) ([]*dto.TemplateResponse, error)
	Update(ctx context.Context, request *dto.UpdateTemplateRequest) (*dto.TemplateResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetDefault(ctx context.Context, id uuid.UUID) (*dto.TemplateResponse, error)
	GetDefault(ctx context.Context) (*dto.TemplateResponse, error)
	Match(ctx context.Context, config entity.LLMConfig) (*dto.MatchTemplateResponse, error)
	Seed(ctx context.Context) error
	Export(ctx context.Context, id uuid.UUID) (*dto.TemplateExport, error)
	Import(ctx context.Context, export *dto.TemplateExport) (*dto.TemplateResponse, error)
}

type templateService struct {
	uowFactory   unitofwork.RepositoryFactory
	publisher    events.Publisher
	logger       logger.ILogger
	defaultModel string
}

func NewTemplateService(
	uowFactory unitofwork.RepositoryFactory,
	publisher events.Publisher,
	log logger.ILogger,
	defaultModel string,
) ITemplateService {
	return &templateService{
		uowFactory:   uowFactory,
		publisher:    publisher,
		logger:       log,
		defaultModel: defaultModel,
	}
}

func (s *templateService) changed(ctx context.Context, id uuid.UUID, action string) {
	publishEvent(ctx, s.publisher, s.logger, events.TemplateChanged, map[string]interface{}{
		"template_id": id.String(),
		"action":      action,
	})
}

func (s *templateService) find(ctx context.Context, uow unitofwork.UnitOfWork, specs ...specification.Specification) (*entity.ChatTemplate, error) {
	template, err := uow.ChatTemplateRepository().FindOne(ctx, specs...)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, ErrTemplateNotFound
	}
	return template, nil
}

func (s *templateService) nameTaken(ctx context.Context, uow unitofwork.UnitOfWork, name string) (bool, error) {
	count, err := uow.ChatTemplateRepository().Count(ctx, specification.ByName{Name: name})
	return count > 0, err
}

// create inserts a template inside an open unit of work. The first template
// ever stored becomes the default.
func (s *templateService) create(ctx context.Context, uow unitofwork.UnitOfWork, name, description string, config entity.LLMConfig, isDefault bool) (*entity.ChatTemplate, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: template name is required", ErrInvalidConfig)
	}
	if err := validateConfig(config); err != nil {
		return nil, err
	}

	taken, err := s.nameTaken(ctx, uow, name)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrTemplateNameTaken
	}

	existing, err := uow.ChatTemplateRepository().Count(ctx)
	if err != nil {
		return nil, err
	}
	if existing == 0 {
		isDefault = true
	}
	if isDefault {
		if err := uow.ChatTemplateRepository().ClearDefault(ctx); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	template := &entity.ChatTemplate{
		Id:          uuid.New(),
		Name:        name,
		Description: description,
		Config:      config.Clone(),
		IsDefault:   isDefault,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uow.ChatTemplateRepository().Create(ctx, template); err != nil {
		return nil, err
	}
	return template, nil
}

func (s *templateService) Create(ctx context.Context, request *dto.CreateTemplateRequest) (*dto.TemplateResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	template, err := s.create(ctx, uow, request.Name, request.Description, request.Config, request.IsDefault)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.changed(ctx, template.Id, "created")
	return dto.NewTemplateResponse(template), nil
}

func (s *templateService) Show(ctx context.Context, id uuid.UUID) (*dto.TemplateResponse, error) {
	template, err := s.find(ctx, s.uowFactory.NewUnitOfWork(ctx), specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	return dto.NewTemplateResponse(template), nil
}

func (s *templateService) GetByName(ctx context.Context, name string) (*dto.TemplateResponse, error) {
	template, err := s.find(ctx, s.uowFactory.NewUnitOfWork(ctx), specification.ByName{Name: name})
	if err != nil {
		return nil, err
	}
	return dto.NewTemplateResponse(template), nil
}

func (s *templateService) List(ctx context.Context) ([]*dto.TemplateResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	templates, err := uow.ChatTemplateRepository().FindAll(ctx, specification.OrderBy{Field: "name"})
	if err != nil {
		return nil, err
	}
	return dto.NewTemplateResponses(templates), nil
}

func (s *templateService) Update(ctx context.Context, request *dto.UpdateTemplateRequest) (*dto.TemplateResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	template, err := s.find(ctx, uow, specification.ByID{ID: request.Id})
	if err != nil {
		return nil, err
	}

	if request.Name != nil {
		name := strings.TrimSpace(*request.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: template name is required", ErrInvalidConfig)
		}
		if name != template.Name {
			taken, err := s.nameTaken(ctx, uow, name)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, ErrTemplateNameTaken
			}
			template.Name = name
		}
	}
	if request.Description != nil {
		template.Description = *request.Description
	}
	if request.Config != nil {
		if err := validateConfig(*request.Config); err != nil {
			return nil, err
		}
		template.Config = request.Config.Clone()
	}

	template.Version++
	template.UpdatedAt = time.Now().UTC()
	if err := uow.ChatTemplateRepository().Update(ctx, template); err != nil {
		return nil, err
	}

	s.changed(ctx, template.Id, "updated")
	return dto.NewTemplateResponse(template), nil
}

func (s *templateService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	template, err := s.find(ctx, uow, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if template.IsDefault {
		return ErrDefaultTemplateDelete
	}

	deleted, err := uow.ChatTemplateRepository().Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrTemplateNotFound
	}

	s.changed(ctx, id, "deleted")
	return nil
}

func (s *templateService) SetDefault(ctx context.Context, id uuid.UUID) (*dto.TemplateResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	template, err := s.find(ctx, uow, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}

	if err := uow.ChatTemplateRepository().ClearDefault(ctx); err != nil {
		return nil, err
	}
	if _, err := uow.ChatTemplateRepository().SetDefault(ctx, id); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	template.IsDefault = true
	s.changed(ctx, id, "default")
	return dto.NewTemplateResponse(template), nil
}

func (s *templateService) GetDefault(ctx context.Context) (*dto.TemplateResponse, error) {
	template, err := s.find(ctx, s.uowFactory.NewUnitOfWork(ctx), specification.IsDefault{})
	if err != nil {
		return nil, err
	}
	return dto.NewTemplateResponse(template), nil
}

// Match names the stored template whose config equals config, or "Custom".
func (s *templateService) Match(ctx context.Context, config entity.LLMConfig) (*dto.MatchTemplateResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	templates, err := uow.ChatTemplateRepository().FindAll(ctx, specification.OrderBy{Field: "name"})
	if err != nil {
		return nil, err
	}

	for _, t := range templates {
		if t.Config.Equal(config) {
			id := t.Id
			return &dto.MatchTemplateResponse{Name: t.Name, TemplateId: &id}, nil
		}
	}
	return &dto.MatchTemplateResponse{Name: CustomTemplateName}, nil
}

// Seed stores the preset templates on an empty table and makes sure exactly
// one template is the default.
func (s *templateService) Seed(ctx context.Context) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	repo := uow.ChatTemplateRepository()
	count, err := repo.Count(ctx)
	if err != nil {
		return err
	}

	if count == 0 {
		for i, preset := range PresetTemplates(s.defaultModel) {
			if _, err := s.create(ctx, uow, preset.Name, preset.Description, preset.Config, i == 0); err != nil {
				return fmt.Errorf("seed template %q: %w", preset.Name, err)
			}
		}
		s.logger.Info("TEMPLATE", "Preset templates created", map[string]interface{}{"model": s.defaultModel})
	} else {
		defaults, err := repo.Count(ctx, specification.IsDefault{})
		if err != nil {
			return err
		}
		if defaults != 1 {
			first, err := repo.FindOne(ctx, specification.OrderBy{Field: "name"})
			if err != nil {
				return err
			}
			if err := repo.ClearDefault(ctx); err != nil {
				return err
			}
			if _, err := repo.SetDefault(ctx, first.Id); err != nil {
				return err
			}
			s.logger.Info("TEMPLATE", "Default template repaired", map[string]interface{}{"template": first.Name})
		}
	}

	return uow.Commit()
}

func (s *templateService) Export(ctx context.Context, id uuid.UUID) (*dto.TemplateExport, error) {
	template, err := s.find(ctx, s.uowFactory.NewUnitOfWork(ctx), specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}

	return &dto.TemplateExport{
		Name:        template.Name,
		Description: template.Description,
		Config:      template.Config,
		Version:     template.Version,
		ExportedAt:  time.Now().UTC(),
	}, nil
}

// Import never overwrites: a clashing name gets " (imported)" appended until
// it is unique.
func (s *templateService) Import(ctx context.Context, export *dto.TemplateExport) (*dto.TemplateResponse, error) {
	if export == nil || strings.TrimSpace(export.Name) == "" {
		return nil, ErrInvalidImport
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	name := strings.TrimSpace(export.Name)
	for {
		taken, err := s.nameTaken(ctx, uow, name)
		if err != nil {
			return nil, err
		}
		if !taken {
			break
		}
		name += importedSuffix
	}

	template, err := s.create(ctx, uow, name, export.Description, export.Config, false)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.changed(ctx, template.Id, "imported")
	return dto.NewTemplateResponse(template), nil
}
