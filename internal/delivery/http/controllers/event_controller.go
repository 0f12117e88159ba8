package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"slotbooking/internal/delivery/http/helpers"
	"slotbooking/internal/domain"
)

const msgEventNotFound = "event not found"

// CreateEventRequest is the request body for POST /events. Slot times are ISO-8601 strings.
type CreateEventRequest struct {
	Name               string   `json:"name"`
	Description        string   `json:"description"`
	Slots              []string `json:"slots"`
	MaxBookingsPerSlot int      `json:"max_bookings_per_slot"`
	CreatedBy          string   `json:"created_by"`
}

// Validate implements Validator.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, "event name is required")
	}
	if strings.TrimSpace(c.CreatedBy) == "" {
		errs = append(errs, "created_by is required")
	}
	return errs
}

// EventSuccessResponse is the success response envelope for single event endpoints.
type EventSuccessResponse struct {
	Data  *domain.EventView `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListEventsSuccessResponse is the success response envelope for GET /events (200).
type ListEventsSuccessResponse struct {
	Data  []*domain.EventView `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateEvent godoc
// @Summary Create an event with its time slots
// @Description Creates the event and all of its slots atomically. Every invalid slot is reported in error.details.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body CreateEventRequest true "Event data"
// @Success 201 {object} controllers.EventSuccessResponse "data contains the event with slot availability"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or conflict"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	view, err := c.Service.CreateEvent(r.Context(), domain.CreateEventInput{
		Name:               req.Name,
		Description:        req.Description,
		Slots:              req.Slots,
		MaxBookingsPerSlot: req.MaxBookingsPerSlot,
		CreatedBy:          req.CreatedBy,
	})
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, msgEventNotFound)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, view)
}

// ListEvents godoc
// @Summary List events
// @Description Returns every event with its slots and live availability, oldest first.
// @Tags events
// @Produce json
// @Success 200 {object} controllers.ListEventsSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	views, err := c.Service.ListEvents(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, msgEventNotFound)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, views)
}

// GetEvent godoc
// @Summary Get an event
// @Tags events
// @Produce json
// @Param eventID path int true "Event ID"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathID(w, r, "eventID")
	if !ok {
		return
	}
	view, err := c.Service.GetEvent(r.Context(), eventID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, msgEventNotFound)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, view)
}

// UpdateEventRequest is the request body for PUT /events/{eventID}. Omitted fields are unchanged.
type UpdateEventRequest struct {
	Name               *string `json:"name"`
	Description        *string `json:"description"`
	MaxBookingsPerSlot *int    `json:"max_bookings_per_slot"`
}

// Validate implements Validator.
func (u UpdateEventRequest) Validate() []string {
	var errs []string
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		errs = append(errs, "event name cannot be empty")
	}
	if u.MaxBookingsPerSlot != nil && *u.MaxBookingsPerSlot <= 0 {
		errs = append(errs, "max_bookings_per_slot must be greater than 0")
	}
	return errs
}

// UpdateEvent godoc
// @Summary Update event details
// @Description Partial update of name, description and per-slot capacity.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Param body body UpdateEventRequest true "Fields to update (all optional)"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [put]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathID(w, r, "eventID")
	if !ok {
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	view, err := c.Service.UpdateEvent(r.Context(), eventID, domain.UpdateEventInput{
		Name:               req.Name,
		Description:        req.Description,
		MaxBookingsPerSlot: req.MaxBookingsPerSlot,
	})
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, msgEventNotFound)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, view)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Deletes the event together with its slots and bookings.
// @Tags events
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Success 204 "No Content"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathID(w, r, "eventID")
	if !ok {
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), eventID); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, msgEventNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
