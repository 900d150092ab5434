package scheduledcontent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// service implements the Service interface
type service struct {
	repository Repository
	contents   ContentStore
	identity   IdentityResolver
	limits     LimitProvider
	eventSink  EventSink
	clock      Clock
	logger     *slog.Logger
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithContentStore sets the downstream content store promoted items are
// written to
func WithContentStore(store ContentStore) Option {
	return func(s *service) {
		s.contents = store
	}
}

// WithIdentityResolver sets the identity resolver for the service
func WithIdentityResolver(resolver IdentityResolver) Option {
	return func(s *service) {
		s.identity = resolver
	}
}

// WithLimitProvider sets the membership limit provider for the service
func WithLimitProvider(provider LimitProvider) Option {
	return func(s *service) {
		s.limits = provider
	}
}

// WithEventSink sets the event sink for the service
func WithEventSink(sink EventSink) Option {
	return func(s *service) {
		s.eventSink = sink
	}
}

// WithClock sets the clock used for all timing decisions
func WithClock(clock Clock) Option {
	return func(s *service) {
		s.clock = clock
	}
}

// WithLogger sets the structured logger for the service
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		eventSink: NewNoopEventSink(),
		clock:     realClock{},
		logger:    slog.Default(),
	}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.contents == nil {
		return nil, fmt.Errorf("content store is required")
	}
	if s.identity == nil {
		return nil, fmt.Errorf("identity resolver is required")
	}
	if s.limits == nil {
		return nil, fmt.Errorf("limit provider is required")
	}

	return s, nil
}

// Lifecycle operations

func (s *service) ScheduleItem(ctx context.Context, req ScheduleItemRequest) (*ScheduledItem, error) {
	ownerID, err := s.identity.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	limits, err := s.limits.LimitsFor(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load membership limits: %w", err)
	}

	pendingCount, err := s.repository.CountPendingByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending items: %w", err)
	}

	now := s.clock.Now()
	item := &ScheduledItem{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Content:     req.Content,
		Attachments: normalizeAttachments(req.Attachments),
		GenreIDs:    normalizeGenres(req.GenreIDs),
		ScheduledAt: req.ScheduledAt,
		Status:      ItemStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := ValidateItem(item, limits, now, pendingCount, true); err != nil {
		return nil, err
	}

	if err := s.repository.CreateItem(ctx, item); err != nil {
		return nil, &ItemError{ItemID: item.ID, Op: "schedule", Err: err}
	}

	s.fireEvent(ctx, "item_scheduled", func() error {
		return s.eventSink.ItemScheduled(ctx, item)
	})

	return item, nil
}

func (s *service) UpdateItem(ctx context.Context, id uuid.UUID, req UpdateItemRequest) (*ScheduledItem, error) {
	ownerID, err := s.identity.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	existing, err := s.getOwnedItem(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if _, err := canUpdateItem(existing.Status); err != nil {
		return nil, err
	}

	limits, err := s.limits.LimitsFor(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load membership limits: %w", err)
	}

	now := s.clock.Now()
	updated := &ScheduledItem{
		ID:          existing.ID,
		OwnerID:     existing.OwnerID,
		Content:     req.Content,
		Attachments: normalizeAttachments(req.Attachments),
		GenreIDs:    normalizeGenres(req.GenreIDs),
		ScheduledAt: req.ScheduledAt,
		Status:      existing.Status,
		CreatedAt:   existing.CreatedAt,
		UpdatedAt:   now,
	}

	// Quota gates creation only; an update never grows the pending set.
	if err := ValidateItem(updated, limits, now, 0, false); err != nil {
		return nil, err
	}

	if err := s.repository.UpdateItem(ctx, updated, existing.Status); err != nil {
		if isExpected(err) {
			return nil, err
		}
		return nil, &ItemError{ItemID: id, Op: "update", Err: err}
	}

	s.fireEvent(ctx, "item_updated", func() error {
		return s.eventSink.ItemUpdated(ctx, updated)
	})

	return updated, nil
}

func (s *service) CancelItem(ctx context.Context, id uuid.UUID) error {
	ownerID, err := s.identity.Resolve(ctx)
	if err != nil {
		return err
	}

	existing, err := s.getOwnedItem(ctx, id, ownerID)
	if err != nil {
		return err
	}

	if _, err := canCancelItem(existing.Status); err != nil {
		return err
	}

	if err := s.repository.UpdateItemStatus(ctx, id, existing.Status, ItemStatusCancelled); err != nil {
		if isExpected(err) {
			return err
		}
		return &ItemError{ItemID: id, Op: "cancel", Err: err}
	}

	s.fireEvent(ctx, "item_cancelled", func() error {
		return s.eventSink.ItemCancelled(ctx, id)
	})

	return nil
}

func (s *service) DeleteItem(ctx context.Context, id uuid.UUID) error {
	ownerID, err := s.identity.Resolve(ctx)
	if err != nil {
		return err
	}

	existing, err := s.getOwnedItem(ctx, id, ownerID)
	if err != nil {
		return err
	}

	if _, err := canDeleteItem(existing.Status); err != nil {
		return err
	}

	if err := s.repository.DeleteItem(ctx, id, existing.Status); err != nil {
		if isExpected(err) {
			return err
		}
		return &ItemError{ItemID: id, Op: "delete", Err: err}
	}

	s.fireEvent(ctx, "item_deleted", func() error {
		return s.eventSink.ItemDeleted(ctx, id)
	})

	return nil
}

func (s *service) GetItem(ctx context.Context, id uuid.UUID) (*ScheduledItem, error) {
	ownerID, err := s.identity.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	return s.getOwnedItem(ctx, id, ownerID)
}

func (s *service) ListItems(ctx context.Context) ([]*ScheduledItem, error) {
	ownerID, err := s.identity.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	return s.repository.ListItemsByOwner(ctx, ownerID)
}

// Helper methods

// getOwnedItem folds the ownership check into the lookup: an item owned by
// another caller is reported exactly like a missing one.
func (s *service) getOwnedItem(ctx context.Context, id, ownerID uuid.UUID) (*ScheduledItem, error) {
	item, err := s.repository.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != ownerID {
		return nil, ErrItemNotFound
	}
	return item, nil
}

// isExpected reports whether err is a recoverable-by-the-user condition that
// should pass through unwrapped rather than be reported as a store failure.
func isExpected(err error) bool {
	return errors.Is(err, ErrItemNotFound) ||
		errors.Is(err, ErrInvalidItemState) ||
		errors.Is(err, ErrValidationFailed)
}

func (s *service) fireEvent(ctx context.Context, name string, fire func() error) {
	if err := fire(); err != nil {
		s.logger.Warn("event sink error", "event", name, "error", err)
	}
}
