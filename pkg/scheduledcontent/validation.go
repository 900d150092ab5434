package scheduledcontent

import "time"

// ValidateItem applies the scheduling rules to a candidate item. Checks run
// in a fixed order and short-circuit on the first failure, so the returned
// ValidationError always names the first violated rule.
//
// pendingCount is the owner's current number of pending items; the
// per-owner quota is enforced only when forCreate is true, since updates
// never grow the pending set.
//
// The function is pure: no side effects, deterministic given its inputs.
func ValidateItem(item *ScheduledItem, limits Limits, now time.Time, pendingCount int, forCreate bool) error {
	if item.ScheduledAt.IsZero() || !item.ScheduledAt.After(now) {
		return &ValidationError{Reason: ReasonFutureDate}
	}
	if item.ScheduledAt.After(now.Add(MaxScheduleAhead)) {
		return &ValidationError{Reason: ReasonTooFarOut}
	}
	if item.Content == "" && len(item.Attachments) == 0 {
		return &ValidationError{Reason: ReasonEmptyContent}
	}
	if len(item.GenreIDs) > MaxGenres {
		return &ValidationError{Reason: ReasonTooManyGenres}
	}
	if item.ImageCount() > limits.MaxImages {
		return &ValidationError{Reason: ReasonTooManyImages}
	}
	if item.VideoCount() > limits.MaxVideos {
		return &ValidationError{Reason: ReasonTooManyVideos}
	}
	if len(item.Content) > limits.MaxContentLength {
		return &ValidationError{Reason: ReasonContentTooLong}
	}
	if forCreate && pendingCount >= MaxPendingPerOwner {
		return &ValidationError{Reason: ReasonQuotaExceeded}
	}
	return nil
}
