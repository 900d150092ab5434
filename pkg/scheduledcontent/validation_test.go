package scheduledcontent_test

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/scheduled-content/pkg/scheduledcontent"
)

var testLimits = scheduledcontent.Limits{
	MaxContentLength: 100,
	MaxImages:        2,
	MaxVideos:        1,
}

func validCandidate(now time.Time) *scheduledcontent.ScheduledItem {
	return &scheduledcontent.ScheduledItem{
		ID:          uuid.New(),
		OwnerID:     uuid.New(),
		Content:     "hello",
		ScheduledAt: now.Add(time.Hour),
	}
}

func attachments(kind scheduledcontent.AttachmentKind, n int) []scheduledcontent.Attachment {
	out := make([]scheduledcontent.Attachment, n)
	for i := range out {
		out[i] = scheduledcontent.Attachment{URL: "https://cdn.example/a", Kind: kind, Position: i}
	}
	return out
}

func TestValidateItem(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		mutate       func(*scheduledcontent.ScheduledItem)
		pendingCount int
		forCreate    bool
		wantReason   string
	}{
		{
			name:      "valid item passes",
			mutate:    func(i *scheduledcontent.ScheduledItem) {},
			forCreate: true,
		},
		{
			name: "zero scheduled time",
			mutate: func(i *scheduledcontent.ScheduledItem) {
				i.ScheduledAt = time.Time{}
			},
			wantReason: scheduledcontent.ReasonFutureDate,
		},
		{
			name: "scheduled exactly now",
			mutate: func(i *scheduledcontent.ScheduledItem) {
				i.ScheduledAt = now
			},
			wantReason: scheduledcontent.ReasonFutureDate,
		},
		{
			name: "scheduled in the past",
			mutate: func(i *scheduledcontent.ScheduledItem) {
				i.ScheduledAt = now.Add(-time.Minute)
			},
			wantReason: scheduledcontent.ReasonFutureDate,
		},
		{
			name: "scheduled exactly 30 days out is allowed",
			mutate: func(i *scheduledcontent.ScheduledItem) {
				i.ScheduledAt = now.Add(scheduledcontent.MaxScheduleAhead)
			},
		},
		{
			name: "scheduled 31 days out",
			mutate: func(i *scheduledcontent.ScheduledItem) {
				i.ScheduledAt = now.Add(31 * 24 * time.Hour)
			},
			wantReason: scheduledcontent.ReasonTooFarOut,
		},
		{
			name: "no content and no attachments",
			mutate: func(i *scheduledcontent.ScheduledItem) {
				i.Content = ""
				i.Attachments = nil
			},
			wantReason: scheduledcontent.ReasonEmptyContent,
		},
		{
			name: "attachments alone are enough",
			mutate: func(i *scheduledcontent.ScheduledItem) {
				i.Content = ""
				i.Attachments = attachments(scheduledcontent.AttachmentKindImage, 1)
			},
		},
		{
			name: "too many genres",
			mutate: func(i *scheduledcontent.ScheduledItem) {
				i.GenreIDs = []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New()}
			},
			wantReason: scheduledcontent.ReasonTooManyGenres,
		},
		{
			name: "too many images",
			mutate: func(i *scheduledcontent.ScheduledItem) {
				i.Attachments = attachments(scheduledcontent.AttachmentKindImage, 3)
			},
			wantReason: scheduledcontent.ReasonTooManyImages,
		},
		{
			name: "too many videos",
			mutate: func(i *scheduledcontent.ScheduledItem) {
				i.Attachments = attachments(scheduledcontent.AttachmentKindVideo, 2)
			},
			wantReason: scheduledcontent.ReasonTooManyVideos,
		},
		{
			name: "content too long",
			mutate: func(i *scheduledcontent.ScheduledItem) {
				i.Content = strings.Repeat("x", 101)
			},
			wantReason: scheduledcontent.ReasonContentTooLong,
		},
		{
			name:         "quota reached on create",
			mutate:       func(i *scheduledcontent.ScheduledItem) {},
			pendingCount: scheduledcontent.MaxPendingPerOwner,
			forCreate:    true,
			wantReason:   scheduledcontent.ReasonQuotaExceeded,
		},
		{
			name:         "quota ignored on update",
			mutate:       func(i *scheduledcontent.ScheduledItem) {},
			pendingCount: scheduledcontent.MaxPendingPerOwner,
			forCreate:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := validCandidate(now)
			tt.mutate(item)

			err := scheduledcontent.ValidateItem(item, testLimits, now, tt.pendingCount, tt.forCreate)

			if tt.wantReason == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, scheduledcontent.ErrValidationFailed)
			reason, ok := scheduledcontent.ValidationReason(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantReason, reason)
		})
	}
}

// The timing check must win over every later check, so a caller always
// learns about the earliest violated rule.
func TestValidateItemCheckOrder(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	item := validCandidate(now)
	item.ScheduledAt = now.Add(-time.Hour)
	item.Content = strings.Repeat("x", 500)
	item.Attachments = attachments(scheduledcontent.AttachmentKindImage, 10)

	err := scheduledcontent.ValidateItem(item, testLimits, now, 0, true)
	require.Error(t, err)

	reason, ok := scheduledcontent.ValidationReason(err)
	require.True(t, ok)
	assert.Equal(t, scheduledcontent.ReasonFutureDate, reason)
}
