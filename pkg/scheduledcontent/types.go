package scheduledcontent

import (
	"time"

	"github.com/google/uuid"
)

// ItemStatus is the domain type for scheduled-item lifecycle states.
type ItemStatus string

// Item status constants (typed).
//
// ItemStatusPublishing is an in-flight claim marker held only while a
// publish run is promoting the item; it is never a resting state a caller
// schedules into.
const (
	ItemStatusPending    ItemStatus = "pending"
	ItemStatusPublishing ItemStatus = "publishing"
	ItemStatusPublished  ItemStatus = "published"
	ItemStatusCancelled  ItemStatus = "cancelled"
	ItemStatusFailed     ItemStatus = "failed"
)

// AttachmentKind is the domain type for attachment media kinds.
type AttachmentKind string

// Attachment kind constants (typed).
const (
	AttachmentKindImage AttachmentKind = "image"
	AttachmentKindVideo AttachmentKind = "video"
)

// Scheduling limits that do not vary with membership tier.
const (
	// MaxGenres is the maximum number of genre references per item.
	MaxGenres = 3

	// MaxPendingPerOwner is the maximum number of simultaneously pending
	// items a single owner may hold. Enforced at creation only.
	MaxPendingPerOwner = 10

	// MaxScheduleAhead is how far into the future an item may be scheduled.
	MaxScheduleAhead = 30 * 24 * time.Hour
)

// ScheduledItem represents content authored now for publication later.
//
// Attachments are ordered; the order is preserved when the item is promoted
// into a PublishedItem. GenreIDs is a set (no duplicates) of at most
// MaxGenres category references; genre existence is a downstream concern.
type ScheduledItem struct {
	ID          uuid.UUID    `json:"id"`
	OwnerID     uuid.UUID    `json:"owner_id"`
	Content     string       `json:"content,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
	GenreIDs    []uuid.UUID  `json:"genre_ids,omitempty"`
	ScheduledAt time.Time    `json:"scheduled_at"`
	Status      ItemStatus   `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Attachment is a media reference carried by a scheduled item. The binary
// itself lives in an external media service; only the issued URL is stored.
type Attachment struct {
	URL      string         `json:"url"`
	Kind     AttachmentKind `json:"kind"`
	Position int            `json:"position"`
}

// ImageCount returns the number of image attachments.
func (i *ScheduledItem) ImageCount() int {
	return i.countKind(AttachmentKindImage)
}

// VideoCount returns the number of video attachments.
func (i *ScheduledItem) VideoCount() int {
	return i.countKind(AttachmentKindVideo)
}

func (i *ScheduledItem) countKind(kind AttachmentKind) int {
	n := 0
	for _, a := range i.Attachments {
		if a.Kind == kind {
			n++
		}
	}
	return n
}

// Limits holds the per-owner tiered membership limits supplied by the
// external limit provider.
type Limits struct {
	MaxContentLength int `json:"max_content_length"`
	MaxImages        int `json:"max_images"`
	MaxVideos        int `json:"max_videos"`
}

// PublishedItem is the permanent content record produced by promotion. It is
// created by the publishing engine and owned thereafter by downstream
// content systems; this library never mutates it.
type PublishedItem struct {
	ID           uuid.UUID    `json:"id"`
	SourceItemID uuid.UUID    `json:"source_item_id"`
	OwnerID      uuid.UUID    `json:"owner_id"`
	Content      string       `json:"content,omitempty"`
	Attachments  []Attachment `json:"attachments,omitempty"`
	GenreIDs     []uuid.UUID  `json:"genre_ids,omitempty"`
	PublishedAt  time.Time    `json:"published_at"`
}

// PublishResult contains the aggregate counters of one PublishDue run.
type PublishResult struct {
	// Published is the number of due items promoted by this run.
	Published int `json:"published"`

	// Failed is the number of due items whose promotion failed and was
	// recorded as terminal failure.
	Failed int `json:"failed"`

	// Skipped is the number of due items claimed by a concurrent run.
	Skipped int `json:"skipped"`
}
