package scheduledcontent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PublishDue promotes every due pending item into a permanent published
// record. Each item is an independent unit of work: a failed promotion is
// recorded as that item's terminal failed status and the run moves on.
//
// At-most-once publishing rests on the claim transition: the item is flipped
// from pending to publishing with a store-level conditional update before
// the downstream write. A concurrent run losing that race skips the item.
//
// Context cancellation stops the run from picking up further due items; the
// item being promoted when the context expires is finished, and untouched
// items remain pending for the next tick.
func (s *service) PublishDue(ctx context.Context) (PublishResult, error) {
	var result PublishResult

	now := s.clock.Now()
	due, err := s.repository.ListDuePending(ctx, now)
	if err != nil {
		return result, fmt.Errorf("failed to query due items: %w", err)
	}

	for _, item := range due {
		if ctx.Err() != nil {
			s.logger.Info("publish run stopped early",
				"published", result.Published, "failed", result.Failed, "reason", ctx.Err())
			break
		}

		// Claim. Losing the race means another run owns this item.
		if err := s.repository.UpdateItemStatus(ctx, item.ID, ItemStatusPending, ItemStatusPublishing); err != nil {
			if errors.Is(err, ErrInvalidItemState) || errors.Is(err, ErrItemNotFound) {
				result.Skipped++
				continue
			}
			s.logger.Error("claim failed", "item_id", item.ID, "error", err)
			result.Skipped++
			continue
		}

		published, err := s.promote(ctx, item, now)
		if err != nil {
			result.Failed++
			s.recordFailure(ctx, item.ID, err)
			continue
		}

		result.Published++
		s.fireEvent(ctx, "item_published", func() error {
			return s.eventSink.ItemPublished(ctx, item, published)
		})
	}

	return result, nil
}

// promote performs the downstream write and the terminal status flip for a
// single claimed item.
func (s *service) promote(ctx context.Context, item *ScheduledItem, now time.Time) (*PublishedItem, error) {
	published := &PublishedItem{
		ID:           uuid.New(),
		SourceItemID: item.ID,
		OwnerID:      item.OwnerID,
		Content:      item.Content,
		Attachments:  item.Attachments,
		GenreIDs:     item.GenreIDs,
		PublishedAt:  now,
	}

	if err := s.contents.CreatePublished(ctx, published); err != nil {
		return nil, &PublishError{ItemID: item.ID, Stage: "create_published", Err: err}
	}

	if err := s.repository.UpdateItemStatus(ctx, item.ID, ItemStatusPublishing, ItemStatusPublished); err != nil {
		return nil, &PublishError{ItemID: item.ID, Stage: "mark_published", Err: err}
	}

	return published, nil
}

// recordFailure writes the terminal failed status. The write is best-effort:
// if it cannot be recorded the item stays claimed and the failure is only
// visible in the log and the aggregate counters.
func (s *service) recordFailure(ctx context.Context, itemID uuid.UUID, cause error) {
	s.logger.Error("promotion failed", "item_id", itemID, "error", cause)

	if err := s.repository.UpdateItemStatus(ctx, itemID, ItemStatusPublishing, ItemStatusFailed); err != nil {
		s.logger.Error("failed to record promotion failure", "item_id", itemID, "error", err)
	}

	s.fireEvent(ctx, "item_publish_failed", func() error {
		return s.eventSink.ItemPublishFailed(ctx, itemID, cause)
	})
}
