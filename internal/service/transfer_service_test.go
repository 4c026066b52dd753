package service_test

import (
	"context"
	"testing"
	"time"

	"rocktalk-be/internal/dto"
	"rocktalk-be/internal/entity"
	"rocktalk-be/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) transfer() service.ITransferService {
	return service.NewTransferService(f.uow, f.publisher, f.log, service.BuiltinConfig(testModel, 1024))
}

func TestTransferService_ExportImportRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sessionId := seedConversation(t, f, "question", "answer")

	exported, err := f.transfer().ExportSession(ctx, sessionId)
	require.NoError(t, err)
	assert.Equal(t, sessionId, exported.Session.Id)
	require.Len(t, exported.Messages, 2)

	imported, err := f.transfer().ImportSession(ctx, exported)
	require.NoError(t, err)
	assert.NotEqual(t, sessionId, imported.Id)
	assert.Equal(t, exported.Session.Title, imported.Title)

	detail, err := f.sessions().Show(ctx, imported.Id)
	require.NoError(t, err)
	require.Len(t, detail.Messages, 2)
	assert.Equal(t, "question", detail.Messages[0].Text)
	assert.Equal(t, "answer", detail.Messages[1].Text)

	_, err = f.transfer().ExportSession(ctx, uuid.New())
	assert.ErrorIs(t, err, service.ErrSessionNotFound)
}

func TestTransferService_ImportNormalisesIndexes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc := &dto.ChatExport{
		Session: dto.SessionExport{Title: "Imported"},
		Messages: []dto.MessageExport{
			{Role: entity.RoleAssistant, Content: entity.TextContent("second"), Index: 7},
			{Role: entity.RoleUser, Content: entity.TextContent("first"), Index: 3},
		},
		ExportedAt: time.Now(),
	}

	imported, err := f.transfer().ImportSession(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, testModel, imported.Config.ModelId)

	messages, err := f.messages().List(ctx, imported.Id)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "first", messages[0].Text())
	assert.Equal(t, 0, messages[0].Index)
	assert.Equal(t, 1, messages[1].Index)
	assert.Equal(t, 1, messages[1].Version)
}

func TestTransferService_ImportRejectsInvalid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.transfer().ImportSession(ctx, &dto.ChatExport{
		Messages: []dto.MessageExport{{Role: "robot", Content: entity.TextContent("beep")}},
	})
	assert.ErrorIs(t, err, service.ErrInvalidImport)

	_, err = f.transfer().ImportSession(ctx, &dto.ChatExport{
		Messages: []dto.MessageExport{{Role: entity.RoleUser}},
	})
	assert.ErrorIs(t, err, service.ErrInvalidImport)

	_, err = f.transfer().ImportSessions(ctx, nil)
	assert.ErrorIs(t, err, service.ErrInvalidImport)

	all, err := f.sessions().ListRecent(ctx, 0, true)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestTransferService_ImportSessionsIsAtomic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	good := &dto.ChatExport{
		Session:  dto.SessionExport{Title: "Good"},
		Messages: []dto.MessageExport{{Role: entity.RoleUser, Content: entity.TextContent("hello")}},
	}
	bad := &dto.ChatExport{
		Messages: []dto.MessageExport{{Role: "robot", Content: entity.TextContent("beep")}},
	}

	_, err := f.transfer().ImportSessions(ctx, []*dto.ChatExport{good, bad})
	assert.ErrorIs(t, err, service.ErrInvalidImport)

	all, err := f.sessions().ListRecent(ctx, 0, true)
	require.NoError(t, err)
	assert.Empty(t, all)

	res, err := f.transfer().ImportSessions(ctx, []*dto.ChatExport{good, good})
	require.NoError(t, err)
	assert.Len(t, res.Imported, 2)
	assert.NotEqual(t, res.Imported[0].Id, res.Imported[1].Id)
}

func TestTransferService_ImportStoresUTC(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tokyo := time.FixedZone("JST", 9*60*60)
	older := time.Date(2024, 5, 1, 8, 0, 0, 0, tokyo) // 2024-04-30 23:00 UTC
	newer := time.Date(2024, 4, 30, 23, 30, 0, 0, time.UTC)

	_, err := f.transfer().ImportSession(ctx, &dto.ChatExport{
		Session:  dto.SessionExport{Title: "Tokyo", CreatedAt: older, LastActive: older},
		Messages: []dto.MessageExport{{Role: entity.RoleUser, Content: entity.TextContent("konnichiwa"), CreatedAt: older}},
	})
	require.NoError(t, err)
	_, err = f.transfer().ImportSession(ctx, &dto.ChatExport{
		Session:  dto.SessionExport{Title: "London", CreatedAt: newer, LastActive: newer},
		Messages: []dto.MessageExport{{Role: entity.RoleUser, Content: entity.TextContent("hello"), CreatedAt: newer}},
	})
	require.NoError(t, err)

	recent, err := f.sessions().ListRecent(ctx, 0, true)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "London", recent[0].Title)
	assert.True(t, recent[1].LastActive.Equal(older))

	window, err := f.sessions().ListByDateRange(ctx, &dto.SessionRangeRequest{
		From: time.Date(2024, 4, 30, 22, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 4, 30, 23, 15, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, window, 1)
	assert.Equal(t, "Tokyo", window[0].Title)
}

func TestTransferService_ExportSessions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := seedConversation(t, f, "a")
	seedConversation(t, f, "b")

	all, err := f.transfer().ExportSessions(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	one, err := f.transfer().ExportSessions(ctx, []uuid.UUID{a})
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, a, one[0].Session.Id)

	_, err = f.transfer().ExportSessions(ctx, []uuid.UUID{uuid.New()})
	assert.ErrorIs(t, err, service.ErrSessionNotFound)
}

func TestTransferService_ExportMarkdown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sessionId := seedConversation(t, f, "what is 2+2?", "4")
	_, err := f.sessions().Rename(ctx, sessionId, "Math Help")
	require.NoError(t, err)

	md, name, err := f.transfer().ExportSessionMarkdown(ctx, sessionId)
	require.NoError(t, err)
	assert.Equal(t, "math_help.md", name)
	assert.Contains(t, md, "# Math Help")
	assert.Contains(t, md, "what is 2+2?")
}
