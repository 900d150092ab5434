package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/tendant/scheduled-content/pkg/scheduledcontent"
)

// AttachmentPayload is the wire form of an attachment
type AttachmentPayload struct {
	URL  string `json:"url"`
	Kind string `json:"kind"`
}

// ScheduleItemRequest is the request body for scheduling an item
type ScheduleItemRequest struct {
	Content     string              `json:"content"`
	Attachments []AttachmentPayload `json:"attachments"`
	GenreIDs    []string            `json:"genre_ids"`
	ScheduledAt time.Time           `json:"scheduled_at"`
}

// ItemResponse is the response body for a scheduled item
type ItemResponse struct {
	ID          string              `json:"id"`
	OwnerID     string              `json:"owner_id"`
	Content     string              `json:"content,omitempty"`
	Attachments []AttachmentPayload `json:"attachments,omitempty"`
	GenreIDs    []string            `json:"genre_ids,omitempty"`
	ScheduledAt time.Time           `json:"scheduled_at"`
	Status      string              `json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// ItemHandler handles HTTP requests for scheduled items
type ItemHandler struct {
	service scheduledcontent.Service
}

// NewItemHandler creates a new scheduled-item handler
func NewItemHandler(service scheduledcontent.Service) *ItemHandler {
	return &ItemHandler{service: service}
}

// Routes returns the routes for scheduled items
func (h *ItemHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.ScheduleItem)
	r.Get("/", h.ListItems)
	r.Get("/{id}", h.GetItem)
	r.Put("/{id}", h.UpdateItem)
	r.Post("/{id}/cancel", h.CancelItem)
	r.Delete("/{id}", h.DeleteItem)

	return r
}

// ScheduleItem schedules a new item
func (h *ItemHandler) ScheduleItem(w http.ResponseWriter, r *http.Request) {
	var req ScheduleItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	svcReq, err := toServiceRequest(req)
	if err != nil {
		slog.Error("Invalid schedule request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	item, err := h.service.ScheduleItem(r.Context(), scheduledcontent.ScheduleItemRequest(svcReq))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toItemResponse(item))
}

// GetItem returns one of the caller's items
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid item ID", http.StatusBadRequest)
		return
	}

	item, err := h.service.GetItem(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	render.JSON(w, r, toItemResponse(item))
}

// ListItems returns all of the caller's items
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListItems(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, toItemResponse(item))
	}

	render.JSON(w, r, resp)
}

// UpdateItem rewrites a pending item
func (h *ItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid item ID", http.StatusBadRequest)
		return
	}

	var req ScheduleItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	svcReq, err := toServiceRequest(req)
	if err != nil {
		slog.Error("Invalid update request", "item_id", id, "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	item, err := h.service.UpdateItem(r.Context(), id, scheduledcontent.UpdateItemRequest(svcReq))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	render.JSON(w, r, toItemResponse(item))
}

// CancelItem cancels a pending item
func (h *ItemHandler) CancelItem(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid item ID", http.StatusBadRequest)
		return
	}

	if err := h.service.CancelItem(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	render.NoContent(w, r)
}

// DeleteItem removes a non-published item
func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid item ID", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteItem(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	render.NoContent(w, r)
}

// Conversion helpers

type serviceRequest struct {
	Content     string
	Attachments []scheduledcontent.Attachment
	GenreIDs    []uuid.UUID
	ScheduledAt time.Time
}

func toServiceRequest(req ScheduleItemRequest) (serviceRequest, error) {
	out := serviceRequest{
		Content:     req.Content,
		ScheduledAt: req.ScheduledAt,
	}

	for i, a := range req.Attachments {
		kind := scheduledcontent.AttachmentKind(a.Kind)
		if kind != scheduledcontent.AttachmentKindImage && kind != scheduledcontent.AttachmentKindVideo {
			return out, errors.New("attachment kind must be image or video")
		}
		out.Attachments = append(out.Attachments, scheduledcontent.Attachment{
			URL:      a.URL,
			Kind:     kind,
			Position: i,
		})
	}

	for _, g := range req.GenreIDs {
		id, err := uuid.Parse(g)
		if err != nil {
			return out, errors.New("invalid genre ID")
		}
		out.GenreIDs = append(out.GenreIDs, id)
	}

	return out, nil
}

func toItemResponse(item *scheduledcontent.ScheduledItem) ItemResponse {
	resp := ItemResponse{
		ID:          item.ID.String(),
		OwnerID:     item.OwnerID.String(),
		Content:     item.Content,
		ScheduledAt: item.ScheduledAt,
		Status:      string(item.Status),
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
	for _, a := range item.Attachments {
		resp.Attachments = append(resp.Attachments, AttachmentPayload{URL: a.URL, Kind: string(a.Kind)})
	}
	for _, g := range item.GenreIDs {
		resp.GenreIDs = append(resp.GenreIDs, g.String())
	}
	return resp
}

// writeServiceError maps service errors onto HTTP status codes. Store
// failures stay generic: the detail is logged, not sent to the client.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, scheduledcontent.ErrUnauthenticated):
		http.Error(w, "Authentication required", http.StatusUnauthorized)
	case errors.Is(err, scheduledcontent.ErrItemNotFound):
		http.Error(w, "Scheduled item not found", http.StatusNotFound)
	case errors.Is(err, scheduledcontent.ErrInvalidItemState):
		http.Error(w, "Item is not in a state that allows this operation", http.StatusConflict)
	case errors.Is(err, scheduledcontent.ErrValidationFailed):
		reason, _ := scheduledcontent.ValidationReason(err)
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, map[string]string{"error": "validation_failed", "reason": reason})
	default:
		slog.Error("Scheduled item operation failed", "path", r.URL.Path, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
