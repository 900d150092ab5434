package scheduledcontent_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tendant/scheduled-content/pkg/scheduledcontent"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to scheduledcontent.ItemStatus }{
		{scheduledcontent.ItemStatusPending, scheduledcontent.ItemStatusPublishing},
		{scheduledcontent.ItemStatusPending, scheduledcontent.ItemStatusCancelled},
		{scheduledcontent.ItemStatusPublishing, scheduledcontent.ItemStatusPublished},
		{scheduledcontent.ItemStatusPublishing, scheduledcontent.ItemStatusFailed},
	}

	for _, tr := range allowed {
		assert.True(t, scheduledcontent.CanTransition(tr.from, tr.to),
			"%s -> %s should be allowed", tr.from, tr.to)
	}

	statuses := []scheduledcontent.ItemStatus{
		scheduledcontent.ItemStatusPending,
		scheduledcontent.ItemStatusPublishing,
		scheduledcontent.ItemStatusPublished,
		scheduledcontent.ItemStatusCancelled,
		scheduledcontent.ItemStatusFailed,
	}

	// Terminal states never transition anywhere.
	for _, terminal := range []scheduledcontent.ItemStatus{
		scheduledcontent.ItemStatusPublished,
		scheduledcontent.ItemStatusCancelled,
		scheduledcontent.ItemStatusFailed,
	} {
		for _, to := range statuses {
			assert.False(t, scheduledcontent.CanTransition(terminal, to),
				"%s -> %s should be rejected", terminal, to)
		}
	}

	// Unknown statuses never transition.
	assert.False(t, scheduledcontent.CanTransition("draft", scheduledcontent.ItemStatusPublished))
	assert.False(t, scheduledcontent.CanTransition(scheduledcontent.ItemStatusPending, "draft"))
}

func TestValidItemStatus(t *testing.T) {
	assert.True(t, scheduledcontent.ValidItemStatus(scheduledcontent.ItemStatusPending))
	assert.True(t, scheduledcontent.ValidItemStatus(scheduledcontent.ItemStatusPublishing))
	assert.True(t, scheduledcontent.ValidItemStatus(scheduledcontent.ItemStatusPublished))
	assert.True(t, scheduledcontent.ValidItemStatus(scheduledcontent.ItemStatusCancelled))
	assert.True(t, scheduledcontent.ValidItemStatus(scheduledcontent.ItemStatusFailed))
	assert.False(t, scheduledcontent.ValidItemStatus("draft"))
	assert.False(t, scheduledcontent.ValidItemStatus(""))
}
