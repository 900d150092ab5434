package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/scheduled-content/pkg/scheduledcontent"
	"github.com/tendant/scheduled-content/pkg/scheduledcontent/contentstore/memory"
)

func newPublished() *scheduledcontent.PublishedItem {
	return &scheduledcontent.PublishedItem{
		ID:           uuid.New(),
		SourceItemID: uuid.New(),
		OwnerID:      uuid.New(),
		Content:      "published content",
		Attachments: []scheduledcontent.Attachment{
			{URL: "https://cdn.example/a.jpg", Kind: scheduledcontent.AttachmentKindImage, Position: 0},
		},
		GenreIDs:    []uuid.UUID{uuid.New()},
		PublishedAt: time.Now().UTC(),
	}
}

func TestCreatePublished(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	item := newPublished()
	require.NoError(t, store.CreatePublished(ctx, item))
	assert.Equal(t, 1, store.Count())

	got, ok := store.GetBySourceItem(item.SourceItemID)
	require.True(t, ok)
	assert.Equal(t, item.ID, got.ID)
	assert.Equal(t, item.Content, got.Content)

	// The stored record does not alias the caller's slices.
	item.Attachments[0].URL = "mutated"
	got, _ = store.GetBySourceItem(item.SourceItemID)
	assert.Equal(t, "https://cdn.example/a.jpg", got.Attachments[0].URL)
}

func TestCreatePublishedDuplicateSource(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	first := newPublished()
	require.NoError(t, store.CreatePublished(ctx, first))

	second := newPublished()
	second.SourceItemID = first.SourceItemID
	err := store.CreatePublished(ctx, second)
	require.Error(t, err)
	assert.Equal(t, 1, store.Count())
}

func TestFailNext(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	store.FailNext = true
	require.Error(t, store.CreatePublished(ctx, newPublished()))
	assert.Equal(t, 0, store.Count())

	// Only the next call fails.
	require.NoError(t, store.CreatePublished(ctx, newPublished()))
	assert.Equal(t, 1, store.Count())
}

func TestGetBySourceItemUnknown(t *testing.T) {
	store := memory.New()

	_, ok := store.GetBySourceItem(uuid.New())
	assert.False(t, ok)
}
