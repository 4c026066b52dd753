package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

var ErrStreamActive = errors.New("a reply is already being generated for this session")

type activeStream struct {
	id        uuid.UUID
	cancel    context.CancelFunc
	startedAt time.Time
}

// StreamRepository tracks in-flight LLM generations per session so they can be
// cancelled. Entries expire after an hour in case a release is ever missed.
type StreamRepository struct {
	mu    sync.Mutex
	cache *cache.Cache
}

func NewStreamRepository() *StreamRepository {
	return &StreamRepository{
		cache: cache.New(1*time.Hour, 10*time.Minute),
	}
}

// Begin derives a cancellable context for a generation on sessionID. The
// returned release func must be called when the generation ends.
func (r *StreamRepository) Begin(parent context.Context, sessionID uuid.UUID) (context.Context, func(), error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := sessionID.String()
	if _, found := r.cache.Get(key); found {
		return nil, nil, ErrStreamActive
	}

	ctx, cancel := context.WithCancel(parent)
	entry := &activeStream{id: uuid.New(), cancel: cancel, startedAt: time.Now()}
	r.cache.Set(key, entry, cache.DefaultExpiration)

	release := func() {
		cancel()
		r.mu.Lock()
		defer r.mu.Unlock()
		// only remove our own entry
		if x, found := r.cache.Get(key); found && x.(*activeStream).id == entry.id {
			r.cache.Delete(key)
		}
	}
	return ctx, release, nil
}

// Cancel stops the generation for sessionID. It reports whether one was running.
func (r *StreamRepository) Cancel(sessionID uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := sessionID.String()
	x, found := r.cache.Get(key)
	if !found {
		return false
	}
	x.(*activeStream).cancel()
	r.cache.Delete(key)
	return true
}

func (r *StreamRepository) IsActive(sessionID uuid.UUID) bool {
	_, found := r.cache.Get(sessionID.String())
	return found
}

func (r *StreamRepository) Count() int {
	return r.cache.ItemCount()
}
