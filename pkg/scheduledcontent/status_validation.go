package scheduledcontent

import "fmt"

// itemTransitions is the one-directional transition table for scheduled
// items. Resting states other than pending are terminal; publishing exists
// only while a publish run holds the claim on an item.
var itemTransitions = map[ItemStatus][]ItemStatus{
	ItemStatusPending:    {ItemStatusPublishing, ItemStatusCancelled},
	ItemStatusPublishing: {ItemStatusPublished, ItemStatusFailed},
	ItemStatusPublished:  {},
	ItemStatusCancelled:  {},
	ItemStatusFailed:     {},
}

// CanTransition reports whether a scheduled item may move from one status to
// another. Unknown statuses never transition.
func CanTransition(from, to ItemStatus) bool {
	for _, next := range itemTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidItemStatus reports whether status is a known item status.
func ValidItemStatus(status ItemStatus) bool {
	_, ok := itemTransitions[status]
	return ok
}

// canUpdateItem checks if an item's fields can be rewritten based on its
// current status. Returns true if update is allowed, false with an error
// otherwise.
func canUpdateItem(status ItemStatus) (bool, error) {
	switch status {
	case ItemStatusPending:
		return true, nil
	case ItemStatusPublishing:
		return false, fmt.Errorf("%w: item is being published (status: %s)", ErrInvalidItemState, status)
	case ItemStatusPublished, ItemStatusCancelled, ItemStatusFailed:
		return false, fmt.Errorf("%w: item has already been resolved (status: %s)", ErrInvalidItemState, status)
	default:
		return false, fmt.Errorf("%w: unknown status %s", ErrInvalidItemStatus, status)
	}
}

// canCancelItem checks if an item can be cancelled based on its current
// status. Only pending items are cancellable.
func canCancelItem(status ItemStatus) (bool, error) {
	switch status {
	case ItemStatusPending:
		return true, nil
	case ItemStatusPublishing:
		return false, fmt.Errorf("%w: item is being published (status: %s)", ErrInvalidItemState, status)
	case ItemStatusPublished, ItemStatusCancelled, ItemStatusFailed:
		return false, fmt.Errorf("%w: item has already been resolved (status: %s)", ErrInvalidItemState, status)
	default:
		return false, fmt.Errorf("%w: unknown status %s", ErrInvalidItemStatus, status)
	}
}

// canDeleteItem checks if an item can be removed based on its current
// status. Published items are retained for history; items mid-promotion
// cannot be pulled out from under the publish run.
func canDeleteItem(status ItemStatus) (bool, error) {
	switch status {
	case ItemStatusPending, ItemStatusCancelled, ItemStatusFailed:
		return true, nil
	case ItemStatusPublishing:
		return false, fmt.Errorf("%w: item is being published (status: %s)", ErrInvalidItemState, status)
	case ItemStatusPublished:
		return false, fmt.Errorf("%w: published items are retained (status: %s)", ErrInvalidItemState, status)
	default:
		return false, fmt.Errorf("%w: unknown status %s", ErrInvalidItemStatus, status)
	}
}
