package scheduledcontent

import (
	"time"

	"github.com/google/uuid"
)

// Request/Response DTOs

// ScheduleItemRequest contains parameters for scheduling a new item. The
// acting owner is resolved from the context, never supplied by the caller.
type ScheduleItemRequest struct {
	Content     string
	Attachments []Attachment
	GenreIDs    []uuid.UUID
	ScheduledAt time.Time
}

// UpdateItemRequest contains parameters for rewriting a pending item.
// Attachments and GenreIDs replace the stored values wholesale; they are not
// merged.
type UpdateItemRequest struct {
	Content     string
	Attachments []Attachment
	GenreIDs    []uuid.UUID
	ScheduledAt time.Time
}
