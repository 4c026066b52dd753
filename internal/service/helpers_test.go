package service_test

import (
	"context"
	"sync"
	"testing"

	"rocktalk-be/internal/pkg/logger"
	"rocktalk-be/internal/pkg/testdb"
	"rocktalk-be/internal/repository/unitofwork"
	"rocktalk-be/internal/service"
	"rocktalk-be/pkg/events"
	"rocktalk-be/pkg/llm"

	"github.com/stretchr/testify/mock"
)

const testModel = "gpt-4o-mini"

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

type recordingJobs struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (j *recordingJobs) Publish(ctx context.Context, payload []byte) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.payloads = append(j.payloads, payload)
	return nil
}

func (j *recordingJobs) count() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.payloads)
}

type mockLLM struct {
	mock.Mock
}

func (m *mockLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	args := m.Called(ctx, history)
	return args.String(0), args.Error(1)
}

func (m *mockLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *mockLLM) Stream(ctx context.Context, history []llm.Message, onChunk llm.ChunkHandler, options ...llm.Option) (string, error) {
	args := m.Called(ctx, history, onChunk)
	return args.String(0), args.Error(1)
}

type fixture struct {
	uow       unitofwork.RepositoryFactory
	publisher *recordingPublisher
	log       logger.ILogger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return &fixture{
		uow:       unitofwork.NewRepositoryFactory(testdb.New(t)),
		publisher: &recordingPublisher{},
		log:       logger.NewNopLogger(),
	}
}

func (f *fixture) sessions() service.ISessionService {
	return service.NewSessionService(f.uow, f.publisher, f.log, service.BuiltinConfig(testModel, 1024))
}

func (f *fixture) messages() service.IMessageService {
	return service.NewMessageService(f.uow, f.publisher, f.log)
}

func (f *fixture) templates() service.ITemplateService {
	return service.NewTemplateService(f.uow, f.publisher, f.log, testModel)
}
