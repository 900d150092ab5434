package scheduledcontent

import "github.com/google/uuid"

// normalizeGenres removes duplicate genre references while preserving the
// order of first appearance.
func normalizeGenres(genres []uuid.UUID) []uuid.UUID {
	if len(genres) == 0 {
		return nil
	}
	seen := make(map[uuid.UUID]struct{}, len(genres))
	out := make([]uuid.UUID, 0, len(genres))
	for _, g := range genres {
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	return out
}

// normalizeAttachments renumbers attachment positions to match slice order.
// Slice order is authoritative; positions exist for persistence.
func normalizeAttachments(attachments []Attachment) []Attachment {
	if len(attachments) == 0 {
		return nil
	}
	out := make([]Attachment, len(attachments))
	copy(out, attachments)
	for i := range out {
		out[i].Position = i
	}
	return out
}
