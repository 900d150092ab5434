package scheduledcontent

import (
	"context"

	"github.com/google/uuid"
)

// NoopEventSink is an EventSink that does nothing. It is the default sink
// when none is configured.
type NoopEventSink struct{}

// NewNoopEventSink creates a new no-op event sink
func NewNoopEventSink() *NoopEventSink {
	return &NoopEventSink{}
}

func (s *NoopEventSink) ItemScheduled(ctx context.Context, item *ScheduledItem) error { return nil }

func (s *NoopEventSink) ItemUpdated(ctx context.Context, item *ScheduledItem) error { return nil }

func (s *NoopEventSink) ItemCancelled(ctx context.Context, itemID uuid.UUID) error { return nil }

func (s *NoopEventSink) ItemDeleted(ctx context.Context, itemID uuid.UUID) error { return nil }

func (s *NoopEventSink) ItemPublished(ctx context.Context, item *ScheduledItem, published *PublishedItem) error {
	return nil
}

func (s *NoopEventSink) ItemPublishFailed(ctx context.Context, itemID uuid.UUID, reason error) error {
	return nil
}

// StaticLimitProvider returns the same limits for every owner. Useful for
// tests and single-tier deployments.
type StaticLimitProvider struct {
	Limits Limits
}

func (p StaticLimitProvider) LimitsFor(ctx context.Context, ownerID uuid.UUID) (Limits, error) {
	return p.Limits, nil
}

// StaticIdentityResolver resolves every request to a fixed owner. Useful for
// tests.
type StaticIdentityResolver struct {
	OwnerID uuid.UUID
}

func (r StaticIdentityResolver) Resolve(ctx context.Context) (uuid.UUID, error) {
	if r.OwnerID == uuid.Nil {
		return uuid.Nil, ErrUnauthenticated
	}
	return r.OwnerID, nil
}
