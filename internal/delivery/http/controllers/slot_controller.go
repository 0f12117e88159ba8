package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"slotbooking/internal/delivery/http/helpers"
	"slotbooking/internal/domain"
)

const msgSlotNotFound = "slot not found"

// CreateSlotRequest is the request body for POST /slots.
type CreateSlotRequest struct {
	EventID int64  `json:"event_id"`
	Time    string `json:"time"`
}

// Validate implements Validator.
func (c CreateSlotRequest) Validate() []string {
	var errs []string
	if c.EventID <= 0 {
		errs = append(errs, "event_id is required")
	}
	if strings.TrimSpace(c.Time) == "" {
		errs = append(errs, "time is required")
	}
	return errs
}

// UpdateSlotRequest is the request body for PUT /slots/{slotID}. event_id may only repeat the slot's event.
type UpdateSlotRequest struct {
	Time    string `json:"time"`
	EventID *int64 `json:"event_id"`
}

// Validate implements Validator.
func (u UpdateSlotRequest) Validate() []string {
	if strings.TrimSpace(u.Time) == "" {
		return []string{"time is required"}
	}
	return nil
}

// SlotSuccessResponse is the success response envelope for single slot endpoints.
type SlotSuccessResponse struct {
	Data  *domain.SlotView  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListSlotsResponse is the paginated payload of GET /slots.
type ListSlotsResponse struct {
	Items      []*domain.SlotView     `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListSlotsSuccessResponse is the success response envelope for GET /slots (200).
type ListSlotsSuccessResponse struct {
	Data  ListSlotsResponse `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type SlotController struct {
	Logger  *slog.Logger
	Service domain.SlotService
}

func NewSlotController(logger *slog.Logger, svc domain.SlotService) *SlotController {
	return &SlotController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateSlot godoc
// @Summary Add a slot to an event
// @Description The time must be in the future and not repeat another slot of the event.
// @Tags slots
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slot body CreateSlotRequest true "Slot data"
// @Success 201 {object} controllers.SlotSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or conflict"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /slots [post]
func (c *SlotController) CreateSlot(w http.ResponseWriter, r *http.Request) {
	var req CreateSlotRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	view, err := c.Service.CreateSlot(r.Context(), req.EventID, req.Time)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, msgEventNotFound)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, view)
}

// ListSlots godoc
// @Summary List slots
// @Description Paginated list of every slot with live availability, ordered by time.
// @Tags slots
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 100, max 500)"
// @Success 200 {object} controllers.ListSlotsSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /slots [get]
func (c *SlotController) ListSlots(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)
	views, total, err := c.Service.ListSlots(r.Context(), params)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, msgSlotNotFound)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ListSlotsResponse{
		Items:      views,
		Pagination: helpers.NewPaginationMeta(params, total),
	})
}

// GetSlot godoc
// @Summary Get a slot
// @Tags slots
// @Produce json
// @Param slotID path int true "Slot ID"
// @Success 200 {object} controllers.SlotSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /slots/{slotID} [get]
func (c *SlotController) GetSlot(w http.ResponseWriter, r *http.Request) {
	slotID, ok := helpers.PathID(w, r, "slotID")
	if !ok {
		return
	}
	view, err := c.Service.GetSlot(r.Context(), slotID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, msgSlotNotFound)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, view)
}

// UpdateSlot godoc
// @Summary Move a slot to a new time
// @Tags slots
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slotID path int true "Slot ID"
// @Param body body UpdateSlotRequest true "New time"
// @Success 200 {object} controllers.SlotSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or conflict"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /slots/{slotID} [put]
func (c *SlotController) UpdateSlot(w http.ResponseWriter, r *http.Request) {
	slotID, ok := helpers.PathID(w, r, "slotID")
	if !ok {
		return
	}
	var req UpdateSlotRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	view, err := c.Service.UpdateSlot(r.Context(), slotID, domain.UpdateSlotInput{Time: req.Time, EventID: req.EventID})
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, msgSlotNotFound)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, view)
}

// DeleteSlot godoc
// @Summary Delete a slot
// @Description Deletes the slot and its bookings.
// @Tags slots
// @Security BearerAuth
// @Param slotID path int true "Slot ID"
// @Success 204 "No Content"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /slots/{slotID} [delete]
func (c *SlotController) DeleteSlot(w http.ResponseWriter, r *http.Request) {
	slotID, ok := helpers.PathID(w, r, "slotID")
	if !ok {
		return
	}
	if err := c.Service.DeleteSlot(r.Context(), slotID); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, msgSlotNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
