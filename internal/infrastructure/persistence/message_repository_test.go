package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/crm/backend/internal/domain/messaging"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormMessageRepository_Lifecycle(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormMessageRepository(db)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	save := func(kind messaging.Kind, title string, at time.Time) *messaging.Message {
		m, err := messaging.NewMessage(kind, title, title+" body")
		require.NoError(t, err)
		m.CreatedAt, m.UpdatedAt = at, at
		require.NoError(t, repo.Save(ctx, m))
		return m
	}

	older := save(messaging.KindCanned, "Greeting", base)
	newer := save(messaging.KindCanned, "Follow up", base.Add(time.Hour))
	template := save(messaging.KindTemplate, "Welcome", base.Add(2*time.Hour))

	canned, err := repo.List(ctx, messaging.KindCanned)
	require.NoError(t, err)
	require.Len(t, canned, 2)
	assert.Equal(t, newer.ID, canned[0].ID)
	assert.Equal(t, older.ID, canned[1].ID)

	// kinds do not see each other's rows
	_, err = repo.FindByID(ctx, messaging.KindCanned, template.ID)
	assert.True(t, shared.IsNotFound(err))

	title := "Hello there"
	require.NoError(t, older.Apply(messaging.Patch{Title: &title}))
	require.NoError(t, repo.Save(ctx, older))

	found, err := repo.FindByID(ctx, messaging.KindCanned, older.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello there", found.Title)
	assert.Equal(t, "Greeting body", found.Body)

	removed, err := repo.Delete(ctx, messaging.KindCanned, older.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Delete(ctx, messaging.KindCanned, older.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}
