package service_test

import (
	"context"
	"testing"
	"time"

	"rocktalk-be/internal/dto"
	"rocktalk-be/internal/entity"
	"rocktalk-be/internal/service"
	"rocktalk-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionService_CreateResolvesConfig(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// no templates: built-in config
	created, err := f.sessions().Create(ctx, &dto.CreateSessionRequest{})
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultSessionTitle, created.Title)
	assert.Equal(t, testModel, created.Config.ModelId)
	assert.Nil(t, created.TemplateId)

	require.NoError(t, f.templates().Seed(ctx))
	def, err := f.templates().GetDefault(ctx)
	require.NoError(t, err)

	created, err = f.sessions().Create(ctx, &dto.CreateSessionRequest{Title: "  Planning  "})
	require.NoError(t, err)
	assert.Equal(t, "Planning", created.Title)
	assert.True(t, def.Config.Equal(created.Config))
	require.NotNil(t, created.TemplateId)
	assert.Equal(t, def.Id, *created.TemplateId)

	explicit := service.BuiltinConfig(testModel, 256)
	explicit.Temperature = 1.5
	created, err = f.sessions().Create(ctx, &dto.CreateSessionRequest{Config: &explicit})
	require.NoError(t, err)
	assert.Equal(t, 1.5, created.Config.Temperature)

	missing := uuid.New()
	_, err = f.sessions().Create(ctx, &dto.CreateSessionRequest{TemplateId: &missing})
	assert.ErrorIs(t, err, service.ErrTemplateNotFound)

	bad := service.BuiltinConfig(testModel, 256)
	bad.Temperature = 3
	_, err = f.sessions().Create(ctx, &dto.CreateSessionRequest{Config: &bad})
	assert.ErrorIs(t, err, service.ErrInvalidConfig)

	assert.Contains(t, f.publisher.types(), events.SessionCreated)
}

func TestSessionService_UpdateAndRename(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.templates().Seed(ctx))

	created, err := f.sessions().Create(ctx, &dto.CreateSessionRequest{})
	require.NoError(t, err)
	require.NotNil(t, created.TemplateId)

	cfg := created.Config
	cfg.SystemPrompt = "answer in French"
	private := true
	updated, err := f.sessions().Update(ctx, &dto.UpdateSessionRequest{Id: created.Id, Config: &cfg, IsPrivate: &private})
	require.NoError(t, err)
	assert.Equal(t, "answer in French", updated.Config.SystemPrompt)
	assert.True(t, updated.IsPrivate)
	assert.Nil(t, updated.TemplateId)

	renamed, err := f.sessions().Rename(ctx, created.Id, "Bonjour")
	require.NoError(t, err)
	assert.Equal(t, "Bonjour", renamed.Title)

	_, err = f.sessions().Rename(ctx, created.Id, "   ")
	assert.ErrorIs(t, err, service.ErrEmptyTitle)

	_, err = f.sessions().Rename(ctx, uuid.New(), "x")
	assert.ErrorIs(t, err, service.ErrSessionNotFound)
}

func TestSessionService_ApplyTemplateKeepsSystemPrompt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.templates().Seed(ctx))

	cfg := service.BuiltinConfig(testModel, 512)
	cfg.SystemPrompt = "keep me"
	created, err := f.sessions().Create(ctx, &dto.CreateSessionRequest{Config: &cfg})
	require.NoError(t, err)

	creative, err := f.templates().GetByName(ctx, "Creative")
	require.NoError(t, err)

	applied, err := f.sessions().ApplyTemplate(ctx, created.Id, creative.Id)
	require.NoError(t, err)
	assert.Equal(t, creative.Config.Temperature, applied.Config.Temperature)
	assert.Equal(t, "keep me", applied.Config.SystemPrompt)
	require.NotNil(t, applied.TemplateId)
	assert.Equal(t, creative.Id, *applied.TemplateId)
}

func TestSessionService_Duplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	source, err := f.sessions().Create(ctx, &dto.CreateSessionRequest{Title: "Original"})
	require.NoError(t, err)
	_, err = f.messages().Append(ctx, source.Id, entity.RoleUser, entity.TextContent("hello"))
	require.NoError(t, err)
	_, err = f.messages().Append(ctx, source.Id, entity.RoleAssistant, entity.TextContent("hi"))
	require.NoError(t, err)

	copied, err := f.sessions().Duplicate(ctx, &dto.DuplicateSessionRequest{Id: source.Id, CopyMessages: true, CopySettings: true})
	require.NoError(t, err)
	assert.Equal(t, "Original (copy)", copied.Title)
	assert.NotEqual(t, source.Id, copied.Id)

	detail, err := f.sessions().Show(ctx, copied.Id)
	require.NoError(t, err)
	require.Len(t, detail.Messages, 2)
	assert.Equal(t, "hello", detail.Messages[0].Text)
	assert.Equal(t, 1, detail.Messages[1].Index)

	title := "Empty copy"
	empty, err := f.sessions().Duplicate(ctx, &dto.DuplicateSessionRequest{Id: source.Id, Title: &title})
	require.NoError(t, err)
	detail, err = f.sessions().Show(ctx, empty.Id)
	require.NoError(t, err)
	assert.Equal(t, "Empty copy", detail.Title)
	assert.Empty(t, detail.Messages)
}

func TestSessionService_Delete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.sessions().Create(ctx, &dto.CreateSessionRequest{})
	require.NoError(t, err)
	_, err = f.messages().Append(ctx, created.Id, entity.RoleUser, entity.TextContent("bye"))
	require.NoError(t, err)

	require.NoError(t, f.sessions().Delete(ctx, created.Id))
	_, err = f.sessions().Show(ctx, created.Id)
	assert.ErrorIs(t, err, service.ErrSessionNotFound)
	assert.ErrorIs(t, f.sessions().Delete(ctx, created.Id), service.ErrSessionNotFound)

	for i := 0; i < 3; i++ {
		_, err := f.sessions().Create(ctx, &dto.CreateSessionRequest{})
		require.NoError(t, err)
	}
	require.NoError(t, f.sessions().DeleteAll(ctx))
	all, err := f.sessions().ListRecent(ctx, 0, true)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSessionService_ToggleVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		s, err := f.sessions().Create(ctx, &dto.CreateSessionRequest{IsPrivate: i == 0})
		require.NoError(t, err)
		ids = append(ids, s.Id)
	}

	// one of three private: all become private
	res, err := f.sessions().ToggleVisibility(ctx, &dto.ToggleVisibilityRequest{Ids: ids})
	require.NoError(t, err)
	assert.True(t, res.IsPrivate)

	visible, err := f.sessions().ListRecent(ctx, 0, false)
	require.NoError(t, err)
	assert.Empty(t, visible)

	// all private: all become public
	res, err = f.sessions().ToggleVisibility(ctx, &dto.ToggleVisibilityRequest{Ids: ids})
	require.NoError(t, err)
	assert.False(t, res.IsPrivate)

	visible, err = f.sessions().ListRecent(ctx, 0, false)
	require.NoError(t, err)
	assert.Len(t, visible, 3)

	_, err = f.sessions().ToggleVisibility(ctx, &dto.ToggleVisibilityRequest{Ids: []uuid.UUID{uuid.New()}})
	assert.ErrorIs(t, err, service.ErrSessionNotFound)
}

func TestSessionService_ListGroupedAndRange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := f.sessions().Create(ctx, &dto.CreateSessionRequest{})
		require.NoError(t, err)
	}

	groups, err := f.sessions().ListGrouped(ctx, false)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Contains(t, groups[0].Label, "Today")
	assert.Len(t, groups[0].Sessions, 2)

	// sessions without messages never fall inside a window
	now := time.Now().UTC()
	empty, err := f.sessions().ListByDateRange(ctx, &dto.SessionRangeRequest{From: now.Add(-time.Hour), To: now.Add(time.Hour)})
	require.NoError(t, err)
	assert.Empty(t, empty)

	day := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	imported := func(title string, at ...time.Time) uuid.UUID {
		doc := &dto.ChatExport{Session: dto.SessionExport{Title: title}}
		for i, ts := range at {
			role := entity.RoleUser
			if i%2 == 1 {
				role = entity.RoleAssistant
			}
			doc.Messages = append(doc.Messages, dto.MessageExport{Role: role, Content: entity.TextContent(title), Index: i, CreatedAt: ts})
		}
		res, err := f.transfer().ImportSession(ctx, doc)
		require.NoError(t, err)
		return res.Id
	}
	spanning := imported("Spanning", day.Add(time.Hour), day.Add(48*time.Hour))
	inside := imported("Inside", day.Add(3*time.Hour))
	imported("Before", day.Add(-48*time.Hour))

	window := &dto.SessionRangeRequest{From: day, To: day.Add(24 * time.Hour)}
	inRange, err := f.sessions().ListByDateRange(ctx, window)
	require.NoError(t, err)
	require.Len(t, inRange, 2)
	assert.Equal(t, inside, inRange[0].Id)
	assert.Equal(t, spanning, inRange[1].Id)

	outOfRange, err := f.sessions().ListByDateRange(ctx, &dto.SessionRangeRequest{To: day.Add(-72 * time.Hour)})
	require.NoError(t, err)
	assert.Empty(t, outOfRange)
}
