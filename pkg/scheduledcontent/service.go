package scheduledcontent

import (
	"context"

	"github.com/google/uuid"
)

// Service is the main interface for the scheduled-content lifecycle and
// publishing engine.
//
// Lifecycle operations act on behalf of the identity resolved from the
// context and return ErrUnauthenticated when none is present. Operations
// targeting an item that does not exist, or that belongs to another owner,
// return ErrItemNotFound in both cases.
type Service interface {
	// ScheduleItem validates a candidate against the owner's limits and
	// quota and persists it as a pending item.
	ScheduleItem(ctx context.Context, req ScheduleItemRequest) (*ScheduledItem, error)

	// UpdateItem rewrites a pending item's fields after re-validation.
	// Attachments and genre references are replaced wholesale.
	UpdateItem(ctx context.Context, id uuid.UUID, req UpdateItemRequest) (*ScheduledItem, error)

	// CancelItem moves a pending item to its terminal cancelled status.
	CancelItem(ctx context.Context, id uuid.UUID) error

	// DeleteItem removes a non-published item.
	DeleteItem(ctx context.Context, id uuid.UUID) error

	// GetItem returns one of the caller's items.
	GetItem(ctx context.Context, id uuid.UUID) (*ScheduledItem, error)

	// ListItems returns all of the caller's items, newest first.
	ListItems(ctx context.Context) ([]*ScheduledItem, error)

	// PublishDue promotes every due pending item into a permanent published
	// record, isolating failures per item. It is invoked by an external
	// scheduler and is safe to run concurrently with itself.
	PublishDue(ctx context.Context) (PublishResult, error)
}
