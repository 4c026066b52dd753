package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamRepository_BeginAndCancel(t *testing.T) {
	repo := NewStreamRepository()
	sessionID := uuid.New()

	ctx, release, err := repo.Begin(context.Background(), sessionID)
	require.NoError(t, err)
	defer release()
	assert.True(t, repo.IsActive(sessionID))

	_, _, err = repo.Begin(context.Background(), sessionID)
	assert.ErrorIs(t, err, ErrStreamActive)

	assert.True(t, repo.Cancel(sessionID))
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
	assert.False(t, repo.IsActive(sessionID))
	assert.False(t, repo.Cancel(sessionID))
}

func TestStreamRepository_ReleaseKeepsNewerEntry(t *testing.T) {
	repo := NewStreamRepository()
	sessionID := uuid.New()

	_, releaseOld, err := repo.Begin(context.Background(), sessionID)
	require.NoError(t, err)
	require.True(t, repo.Cancel(sessionID))

	_, releaseNew, err := repo.Begin(context.Background(), sessionID)
	require.NoError(t, err)

	releaseOld()
	assert.True(t, repo.IsActive(sessionID))

	releaseNew()
	assert.False(t, repo.IsActive(sessionID))
	assert.Zero(t, repo.Count())
}
