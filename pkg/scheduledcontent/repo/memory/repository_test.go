package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/scheduled-content/pkg/scheduledcontent"
	"github.com/tendant/scheduled-content/pkg/scheduledcontent/repo/memory"
)

func newItem(ownerID uuid.UUID, scheduledAt time.Time, status scheduledcontent.ItemStatus) *scheduledcontent.ScheduledItem {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &scheduledcontent.ScheduledItem{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Content: "body",
		Attachments: []scheduledcontent.Attachment{
			{URL: "https://cdn.example/a.jpg", Kind: scheduledcontent.AttachmentKindImage, Position: 0},
		},
		GenreIDs:    []uuid.UUID{uuid.New()},
		ScheduledAt: scheduledAt,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestCreateAndGetItem(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	item := newItem(uuid.New(), time.Now().Add(time.Hour), scheduledcontent.ItemStatusPending)
	require.NoError(t, repo.CreateItem(ctx, item))

	stored, err := repo.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, stored.ID)
	assert.Equal(t, item.Content, stored.Content)
	require.Len(t, stored.Attachments, 1)

	// The stored copy is isolated from caller mutations.
	stored.Attachments[0].URL = "mutated"
	again, err := repo.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/a.jpg", again.Attachments[0].URL)
}

func TestGetItemNotFound(t *testing.T) {
	repo := memory.New()

	_, err := repo.GetItem(context.Background(), uuid.New())
	assert.ErrorIs(t, err, scheduledcontent.ErrItemNotFound)
}

func TestUpdateItemConditional(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	item := newItem(uuid.New(), time.Now().Add(time.Hour), scheduledcontent.ItemStatusPending)
	require.NoError(t, repo.CreateItem(ctx, item))

	t.Run("matching status applies the write", func(t *testing.T) {
		updated := *item
		updated.Content = "rewritten"
		require.NoError(t, repo.UpdateItem(ctx, &updated, scheduledcontent.ItemStatusPending))

		stored, err := repo.GetItem(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, "rewritten", stored.Content)
	})

	t.Run("stale expected status fails closed", func(t *testing.T) {
		updated := *item
		updated.Content = "should not land"
		err := repo.UpdateItem(ctx, &updated, scheduledcontent.ItemStatusCancelled)
		assert.ErrorIs(t, err, scheduledcontent.ErrInvalidItemState)

		stored, err := repo.GetItem(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, "rewritten", stored.Content)
	})

	t.Run("unknown item", func(t *testing.T) {
		ghost := newItem(uuid.New(), time.Now().Add(time.Hour), scheduledcontent.ItemStatusPending)
		err := repo.UpdateItem(ctx, ghost, scheduledcontent.ItemStatusPending)
		assert.ErrorIs(t, err, scheduledcontent.ErrItemNotFound)
	})
}

func TestUpdateItemStatusIsAtomicClaim(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	item := newItem(uuid.New(), time.Now().Add(-time.Hour), scheduledcontent.ItemStatusPending)
	require.NoError(t, repo.CreateItem(ctx, item))

	// First claim wins.
	require.NoError(t, repo.UpdateItemStatus(ctx, item.ID,
		scheduledcontent.ItemStatusPending, scheduledcontent.ItemStatusPublishing))

	// Second claim with the stale expectation loses.
	err := repo.UpdateItemStatus(ctx, item.ID,
		scheduledcontent.ItemStatusPending, scheduledcontent.ItemStatusPublishing)
	assert.ErrorIs(t, err, scheduledcontent.ErrInvalidItemState)

	stored, err := repo.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, scheduledcontent.ItemStatusPublishing, stored.Status)
}

func TestDeleteItemConditional(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	item := newItem(uuid.New(), time.Now().Add(time.Hour), scheduledcontent.ItemStatusPending)
	require.NoError(t, repo.CreateItem(ctx, item))

	err := repo.DeleteItem(ctx, item.ID, scheduledcontent.ItemStatusCancelled)
	assert.ErrorIs(t, err, scheduledcontent.ErrInvalidItemState)

	require.NoError(t, repo.DeleteItem(ctx, item.ID, scheduledcontent.ItemStatusPending))

	_, err = repo.GetItem(ctx, item.ID)
	assert.ErrorIs(t, err, scheduledcontent.ErrItemNotFound)
}

func TestCountPendingByOwner(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()
	ownerID := uuid.New()

	require.NoError(t, repo.CreateItem(ctx, newItem(ownerID, time.Now().Add(time.Hour), scheduledcontent.ItemStatusPending)))
	require.NoError(t, repo.CreateItem(ctx, newItem(ownerID, time.Now().Add(time.Hour), scheduledcontent.ItemStatusPending)))
	require.NoError(t, repo.CreateItem(ctx, newItem(ownerID, time.Now().Add(time.Hour), scheduledcontent.ItemStatusCancelled)))
	require.NoError(t, repo.CreateItem(ctx, newItem(uuid.New(), time.Now().Add(time.Hour), scheduledcontent.ItemStatusPending)))

	count, err := repo.CountPendingByOwner(ctx, ownerID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestListDuePending(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	older := newItem(uuid.New(), now.Add(-2*time.Hour), scheduledcontent.ItemStatusPending)
	newer := newItem(uuid.New(), now.Add(-time.Minute), scheduledcontent.ItemStatusPending)
	exact := newItem(uuid.New(), now, scheduledcontent.ItemStatusPending)
	future := newItem(uuid.New(), now.Add(time.Hour), scheduledcontent.ItemStatusPending)
	resolved := newItem(uuid.New(), now.Add(-time.Hour), scheduledcontent.ItemStatusPublished)

	for _, item := range []*scheduledcontent.ScheduledItem{older, newer, exact, future, resolved} {
		require.NoError(t, repo.CreateItem(ctx, item))
	}

	due, err := repo.ListDuePending(ctx, now)
	require.NoError(t, err)
	require.Len(t, due, 3)

	// Earliest first; items scheduled exactly at now are due.
	assert.Equal(t, older.ID, due[0].ID)
	assert.Equal(t, newer.ID, due[1].ID)
	assert.Equal(t, exact.ID, due[2].ID)
}
