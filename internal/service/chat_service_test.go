package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"rocktalk-be/internal/dto"
	"rocktalk-be/internal/entity"
	"rocktalk-be/internal/repository/memory"
	"rocktalk-be/internal/service"
	"rocktalk-be/pkg/llm"
	"rocktalk-be/pkg/llm/echo"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// blockingProvider streams one chunk and then waits to be cancelled.
type blockingProvider struct {
	started chan struct{}
}

func (p *blockingProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return "", errors.New("not used")
}

func (p *blockingProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return "", errors.New("not used")
}

func (p *blockingProvider) Stream(ctx context.Context, history []llm.Message, onChunk llm.ChunkHandler, options ...llm.Option) (string, error) {
	if err := onChunk("partial "); err != nil {
		return "partial ", err
	}
	close(p.started)
	<-ctx.Done()
	return "partial ", ctx.Err()
}

func (f *fixture) chat(provider llm.LLMProvider, jobs service.IPublisherService) service.IChatService {
	return service.NewChatService(f.uow, f.messages(), jobs, provider, memory.NewStreamRepository(), f.log)
}

func TestChatService_Send(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	jobs := &recordingJobs{}
	chat := f.chat(echo.NewProvider(0), jobs)

	session, err := f.sessions().Create(ctx, &dto.CreateSessionRequest{})
	require.NoError(t, err)

	res, err := chat.Send(ctx, session.Id, &dto.SendMessageRequest{Text: "hello there"})
	require.NoError(t, err)
	assert.Equal(t, "hello there", res.Sent.Text)
	assert.Equal(t, "Echo: hello there", res.Reply.Text)
	assert.Equal(t, entity.RoleAssistant, res.Reply.Role)
	assert.Equal(t, 1, res.Reply.Index)
	assert.False(t, res.Partial)
	assert.Equal(t, 1, jobs.count())

	_, err = chat.Send(ctx, session.Id, &dto.SendMessageRequest{})
	assert.ErrorIs(t, err, service.ErrEmptyMessage)

	_, err = chat.Send(ctx, uuid.New(), &dto.SendMessageRequest{Text: "hi"})
	assert.ErrorIs(t, err, service.ErrSessionNotFound)
}

func TestChatService_SendStreamChunks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	chat := f.chat(echo.NewProvider(0), &recordingJobs{})

	session, err := f.sessions().Create(ctx, &dto.CreateSessionRequest{Title: "Named"})
	require.NoError(t, err)

	var chunks []string
	res, err := chat.SendStream(ctx, session.Id, &dto.SendMessageRequest{Text: "one two three"}, func(chunk string) error {
		chunks = append(chunks, chunk)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Echo: ", "one ", "two ", "three"}, chunks)
	assert.Equal(t, "Echo: one two three", res.Reply.Text)
}

func TestChatService_ProviderErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	provider := &mockLLM{}
	provider.On("Chat", mock.Anything, mock.Anything).Return("", llm.NewAPIError("test", 429, "slow down")).Once()
	provider.On("Chat", mock.Anything, mock.Anything).Return("   ", nil).Once()
	chat := f.chat(provider, &recordingJobs{})

	session, err := f.sessions().Create(ctx, &dto.CreateSessionRequest{})
	require.NoError(t, err)

	_, err = chat.Send(ctx, session.Id, &dto.SendMessageRequest{Text: "hi"})
	assert.ErrorIs(t, err, llm.ErrRateLimited)

	_, err = chat.Send(ctx, session.Id, &dto.SendMessageRequest{Text: "hi again"})
	assert.ErrorIs(t, err, service.ErrEmptyReply)

	// user messages are kept even though no reply was stored
	messages, err := f.messages().List(ctx, session.Id)
	require.NoError(t, err)
	assert.Len(t, messages, 2)
	provider.AssertExpectations(t)
}

func TestChatService_CancelKeepsPartialReply(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	provider := &blockingProvider{started: make(chan struct{})}
	chat := f.chat(provider, &recordingJobs{})

	session, err := f.sessions().Create(ctx, &dto.CreateSessionRequest{})
	require.NoError(t, err)

	type result struct {
		res *dto.ChatReplyResponse
		err error
	}
	done := make(chan result, 1)
	go func() {
		res, err := chat.SendStream(ctx, session.Id, &dto.SendMessageRequest{Text: "tell me a story"}, func(string) error { return nil })
		done <- result{res, err}
	}()

	select {
	case <-provider.started:
	case <-time.After(5 * time.Second):
		t.Fatal("stream did not start")
	}

	_, err = chat.Send(ctx, session.Id, &dto.SendMessageRequest{Text: "again"})
	assert.ErrorIs(t, err, memory.ErrStreamActive)

	assert.True(t, chat.Cancel(ctx, session.Id))
	assert.False(t, chat.Cancel(ctx, session.Id))

	var r result
	select {
	case r = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("stream did not stop")
	}
	require.NoError(t, r.err)
	assert.True(t, r.res.Partial)
	assert.Equal(t, "partial ", r.res.Reply.Text)
}

func TestChatService_BrokenStreamKeepsPartialReply(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	provider := &mockLLM{}
	provider.On("Stream", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			_ = args.Get(2).(llm.ChunkHandler)("Once upon ")
		}).
		Return("Once upon ", errors.New("stream read: connection reset")).Once()
	provider.On("Stream", mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("stream read: connection reset")).Once()
	chat := f.chat(provider, &recordingJobs{})

	session, err := f.sessions().Create(ctx, &dto.CreateSessionRequest{})
	require.NoError(t, err)

	res, err := chat.SendStream(ctx, session.Id, &dto.SendMessageRequest{Text: "tell me a story"}, func(string) error { return nil })
	require.NoError(t, err)
	assert.True(t, res.Partial)
	assert.Equal(t, "Once upon ", res.Reply.Text)

	_, err = chat.SendStream(ctx, session.Id, &dto.SendMessageRequest{Text: "again"}, func(string) error { return nil })
	assert.Error(t, err)
	assert.NotErrorIs(t, err, service.ErrGenerationCancelled)

	messages, err := f.messages().List(ctx, session.Id)
	require.NoError(t, err)
	assert.Len(t, messages, 3)
	provider.AssertExpectations(t)
}

func TestChatService_Regenerate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	chat := f.chat(echo.NewProvider(0), &recordingJobs{})

	sessionId := seedConversation(t, f, "first question", "old answer")

	res, err := chat.Regenerate(ctx, sessionId, nil)
	require.NoError(t, err)
	assert.Nil(t, res.Sent)
	assert.Equal(t, "Echo: first question", res.Reply.Text)
	assert.Equal(t, 1, res.Reply.Index)

	messages, err := f.messages().List(ctx, sessionId)
	require.NoError(t, err)
	assert.Equal(t, []string{"first question", "Echo: first question"}, texts(messages))

	empty, err := f.sessions().Create(ctx, &dto.CreateSessionRequest{})
	require.NoError(t, err)
	_, err = chat.Regenerate(ctx, empty.Id, nil)
	assert.ErrorIs(t, err, service.ErrNothingToRegenerate)
}

func TestChatService_EditAndRegenerate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	chat := f.chat(echo.NewProvider(0), &recordingJobs{})

	sessionId := seedConversation(t, f, "q1", "a1", "q2", "a2")

	res, err := chat.EditAndRegenerate(ctx, sessionId, &dto.EditMessageRequest{
		Index:              2,
		SendMessageRequest: dto.SendMessageRequest{Text: "q2 edited"},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Sent.Version)
	assert.Equal(t, "Echo: q2 edited", res.Reply.Text)

	messages, err := f.messages().List(ctx, sessionId)
	require.NoError(t, err)
	assert.Equal(t, []string{"q1", "a1", "q2 edited", "Echo: q2 edited"}, texts(messages))
}
