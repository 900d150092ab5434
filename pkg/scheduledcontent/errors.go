package scheduledcontent

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error types
var (
	// ErrUnauthenticated indicates no identity could be resolved for the request
	ErrUnauthenticated = errors.New("no authenticated identity")

	// ErrItemNotFound indicates a scheduled item was not found. It is also
	// returned when the item exists but belongs to another owner, so callers
	// cannot probe for the existence of other owners' items.
	ErrItemNotFound = errors.New("scheduled item not found")

	// ErrInvalidItemState indicates the requested transition is illegal for
	// the item's current status, or a conditional update observed a status
	// different from the one expected
	ErrInvalidItemState = errors.New("invalid state for scheduled item operation")

	// ErrInvalidItemStatus indicates an unknown item status value
	ErrInvalidItemStatus = errors.New("invalid item status")

	// ErrValidationFailed indicates a candidate item failed a validation rule
	ErrValidationFailed = errors.New("validation failed")
)

// Validation failure reasons. Each reason identifies the first rule the
// candidate item violated.
const (
	ReasonFutureDate     = "future-date"
	ReasonTooFarOut      = "too-far-out"
	ReasonEmptyContent   = "empty-content"
	ReasonTooManyImages  = "too-many-images"
	ReasonTooManyVideos  = "too-many-videos"
	ReasonTooManyGenres  = "too-many-genres"
	ReasonContentTooLong = "content-too-long"
	ReasonQuotaExceeded  = "quota-exceeded"
)

// ValidationError reports which validation rule a candidate item violated.
// It unwraps to ErrValidationFailed.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %s", ErrValidationFailed, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// ValidationReason extracts the failure reason from err, if err is (or
// wraps) a ValidationError.
func ValidationReason(err error) (string, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Reason, true
	}
	return "", false
}

// ItemError represents an error related to scheduled-item operations
type ItemError struct {
	ItemID uuid.UUID
	Op     string
	Err    error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("scheduled item operation %s failed for item %s: %v", e.Op, e.ItemID, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

// PublishError represents a promotion failure for a single due item. It is
// recorded in the item's terminal failed status and the aggregate counters;
// it is never raised to the scheduler.
type PublishError struct {
	ItemID uuid.UUID
	Stage  string
	Err    error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish stage %s failed for item %s: %v", e.Stage, e.ItemID, e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}
