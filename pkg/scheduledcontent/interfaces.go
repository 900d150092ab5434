package scheduledcontent

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for scheduled-item persistence.
//
// Conditional operations carry the status the caller observed at read time;
// implementations must apply the write only if the stored status still
// matches, returning ErrInvalidItemState otherwise. Writes that touch
// attachments or genre references must be atomic with the item row so a
// concurrent reader never sees a partially updated item.
type Repository interface {
	// CreateItem persists a new scheduled item with its attachments and
	// genre references.
	CreateItem(ctx context.Context, item *ScheduledItem) error

	// GetItem returns the item with the given id, or ErrItemNotFound.
	GetItem(ctx context.Context, id uuid.UUID) (*ScheduledItem, error)

	// ListItemsByOwner returns all items for an owner, newest first.
	ListItemsByOwner(ctx context.Context, ownerID uuid.UUID) ([]*ScheduledItem, error)

	// CountPendingByOwner returns the owner's current number of pending items.
	CountPendingByOwner(ctx context.Context, ownerID uuid.UUID) (int, error)

	// UpdateItem rewrites the item's fields, replacing attachments and genre
	// references wholesale, conditional on the stored status matching
	// expected.
	UpdateItem(ctx context.Context, item *ScheduledItem, expected ItemStatus) error

	// UpdateItemStatus transitions the item from expected to next. This is
	// the claim primitive: exactly one concurrent caller can win a given
	// transition.
	UpdateItemStatus(ctx context.Context, id uuid.UUID, expected, next ItemStatus) error

	// DeleteItem removes the item and its attachments and genre references,
	// conditional on the stored status matching expected.
	DeleteItem(ctx context.Context, id uuid.UUID, expected ItemStatus) error

	// ListDuePending returns all pending items whose scheduled time is at or
	// before now, earliest first.
	ListDuePending(ctx context.Context, now time.Time) ([]*ScheduledItem, error)
}

// ContentStore is the downstream permanent content system. CreatePublished
// must be atomic: either the published record with all its attachments and
// genre associations exists afterwards, or nothing does.
type ContentStore interface {
	CreatePublished(ctx context.Context, item *PublishedItem) error
}

// IdentityResolver resolves the acting owner for a request. Implementations
// typically read a verified token from the context. Resolve returns
// ErrUnauthenticated when no identity is present.
type IdentityResolver interface {
	Resolve(ctx context.Context) (uuid.UUID, error)
}

// LimitProvider returns the tiered membership limits for an owner.
type LimitProvider interface {
	LimitsFor(ctx context.Context, ownerID uuid.UUID) (Limits, error)
}

// Clock abstracts wall-clock time so temporal-boundary behavior is
// deterministic under test.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

// EventSink defines the interface for lifecycle event handling. Sink errors
// are logged and never fail the triggering operation.
type EventSink interface {
	// ItemScheduled is fired when a new item is created
	ItemScheduled(ctx context.Context, item *ScheduledItem) error

	// ItemUpdated is fired when a pending item's fields are rewritten
	ItemUpdated(ctx context.Context, item *ScheduledItem) error

	// ItemCancelled is fired when an item is cancelled
	ItemCancelled(ctx context.Context, itemID uuid.UUID) error

	// ItemDeleted is fired when an item is deleted
	ItemDeleted(ctx context.Context, itemID uuid.UUID) error

	// ItemPublished is fired after an item is promoted
	ItemPublished(ctx context.Context, item *ScheduledItem, published *PublishedItem) error

	// ItemPublishFailed is fired after a promotion failure is recorded
	ItemPublishFailed(ctx context.Context, itemID uuid.UUID, reason error) error
}
