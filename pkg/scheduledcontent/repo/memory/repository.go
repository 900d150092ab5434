package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/scheduled-content/pkg/scheduledcontent"
)

// Repository implements scheduledcontent.Repository using in-memory storage.
// Conditional updates compare the stored status under the write lock, so
// they behave like the database-level compare-and-swap the service relies
// on.
type Repository struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*scheduledcontent.ScheduledItem
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		items: make(map[uuid.UUID]*scheduledcontent.ScheduledItem),
	}
}

func (r *Repository) CreateItem(ctx context.Context, item *scheduledcontent.ScheduledItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Create a copy to avoid external modifications
	itemCopy := cloneItem(item)
	r.items[item.ID] = itemCopy

	return nil
}

func (r *Repository) GetItem(ctx context.Context, id uuid.UUID) (*scheduledcontent.ScheduledItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, exists := r.items[id]
	if !exists {
		return nil, scheduledcontent.ErrItemNotFound
	}

	return cloneItem(item), nil
}

func (r *Repository) ListItemsByOwner(ctx context.Context, ownerID uuid.UUID) ([]*scheduledcontent.ScheduledItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*scheduledcontent.ScheduledItem
	for _, item := range r.items {
		if item.OwnerID == ownerID {
			result = append(result, cloneItem(item))
		}
	}

	// Sort by created_at descending
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

func (r *Repository) CountPendingByOwner(ctx context.Context, ownerID uuid.UUID) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, item := range r.items {
		if item.OwnerID == ownerID && item.Status == scheduledcontent.ItemStatusPending {
			count++
		}
	}

	return count, nil
}

func (r *Repository) UpdateItem(ctx context.Context, item *scheduledcontent.ScheduledItem, expected scheduledcontent.ItemStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.items[item.ID]
	if !exists {
		return scheduledcontent.ErrItemNotFound
	}
	if stored.Status != expected {
		return scheduledcontent.ErrInvalidItemState
	}

	r.items[item.ID] = cloneItem(item)

	return nil
}

func (r *Repository) UpdateItemStatus(ctx context.Context, id uuid.UUID, expected, next scheduledcontent.ItemStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.items[id]
	if !exists {
		return scheduledcontent.ErrItemNotFound
	}
	if stored.Status != expected {
		return scheduledcontent.ErrInvalidItemState
	}

	stored.Status = next
	stored.UpdatedAt = time.Now().UTC()

	return nil
}

func (r *Repository) DeleteItem(ctx context.Context, id uuid.UUID, expected scheduledcontent.ItemStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.items[id]
	if !exists {
		return scheduledcontent.ErrItemNotFound
	}
	if stored.Status != expected {
		return scheduledcontent.ErrInvalidItemState
	}

	delete(r.items, id)

	return nil
}

func (r *Repository) ListDuePending(ctx context.Context, now time.Time) ([]*scheduledcontent.ScheduledItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*scheduledcontent.ScheduledItem
	for _, item := range r.items {
		if item.Status == scheduledcontent.ItemStatusPending && !item.ScheduledAt.After(now) {
			result = append(result, cloneItem(item))
		}
	}

	// Sort by scheduled_at ascending so the longest-overdue items go first
	sort.Slice(result, func(i, j int) bool {
		return result[i].ScheduledAt.Before(result[j].ScheduledAt)
	})

	return result, nil
}

// cloneItem deep-copies an item so callers cannot mutate stored state
// through shared slices.
func cloneItem(item *scheduledcontent.ScheduledItem) *scheduledcontent.ScheduledItem {
	itemCopy := *item
	if len(item.Attachments) > 0 {
		itemCopy.Attachments = make([]scheduledcontent.Attachment, len(item.Attachments))
		copy(itemCopy.Attachments, item.Attachments)
	}
	if len(item.GenreIDs) > 0 {
		itemCopy.GenreIDs = make([]uuid.UUID, len(item.GenreIDs))
		copy(itemCopy.GenreIDs, item.GenreIDs)
	}
	return &itemCopy
}
