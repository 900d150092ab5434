// Package memory provides an in-memory downstream content store, used by
// tests and the default configuration.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/tendant/scheduled-content/pkg/scheduledcontent"
)

// Store implements scheduledcontent.ContentStore in memory.
type Store struct {
	mu        sync.RWMutex
	published map[uuid.UUID]*scheduledcontent.PublishedItem
	bySource  map[uuid.UUID]uuid.UUID // source item id -> published id

	// FailNext forces the next CreatePublished call to fail. Tests use it to
	// exercise per-item failure isolation.
	FailNext bool
}

// New creates a new in-memory content store
func New() *Store {
	return &Store{
		published: make(map[uuid.UUID]*scheduledcontent.PublishedItem),
		bySource:  make(map[uuid.UUID]uuid.UUID),
	}
}

func (s *Store) CreatePublished(ctx context.Context, item *scheduledcontent.PublishedItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailNext {
		s.FailNext = false
		return fmt.Errorf("content store rejected item %s", item.SourceItemID)
	}

	if existing, ok := s.bySource[item.SourceItemID]; ok {
		return fmt.Errorf("source item %s already published as %s", item.SourceItemID, existing)
	}

	itemCopy := *item
	if len(item.Attachments) > 0 {
		itemCopy.Attachments = make([]scheduledcontent.Attachment, len(item.Attachments))
		copy(itemCopy.Attachments, item.Attachments)
	}
	if len(item.GenreIDs) > 0 {
		itemCopy.GenreIDs = make([]uuid.UUID, len(item.GenreIDs))
		copy(itemCopy.GenreIDs, item.GenreIDs)
	}

	s.published[item.ID] = &itemCopy
	s.bySource[item.SourceItemID] = item.ID

	return nil
}

// GetBySourceItem returns the published record produced from a scheduled
// item, if any.
func (s *Store) GetBySourceItem(sourceItemID uuid.UUID) (*scheduledcontent.PublishedItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.bySource[sourceItemID]
	if !ok {
		return nil, false
	}
	itemCopy := *s.published[id]
	return &itemCopy, true
}

// Count returns the number of published records held by the store.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.published)
}
