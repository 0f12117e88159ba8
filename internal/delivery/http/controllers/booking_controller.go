package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"slotbooking/internal/delivery/http/helpers"
	"slotbooking/internal/domain"
)

const (
	msgBookingNotFound = "booking not found"
	msgSlotNotInEvent  = "slot not found for this event"
)

// CreateBookingRequest is the request body for POST /events/{eventID}/bookings and POST /bookings.
type CreateBookingRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	SlotID int64  `json:"slot_id"`
}

// Validate implements Validator.
func (c CreateBookingRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(c.Email) == "" {
		errs = append(errs, "email is required")
	}
	if c.SlotID <= 0 {
		errs = append(errs, "slot_id is required")
	}
	return errs
}

func (c CreateBookingRequest) input() domain.CreateBookingInput {
	return domain.CreateBookingInput{Name: c.Name, Email: c.Email, SlotID: c.SlotID}
}

// BookingSuccessResponse is the success response envelope for single booking endpoints.
type BookingSuccessResponse struct {
	Data  *domain.BookingView `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// ListBookingsSuccessResponse is the success response envelope for booking lists.
type ListBookingsSuccessResponse struct {
	Data  []*domain.BookingView `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

type BookingController struct {
	Logger  *slog.Logger
	Service domain.BookingService
}

func NewBookingController(logger *slog.Logger, svc domain.BookingService) *BookingController {
	return &BookingController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateEventBooking godoc
// @Summary Book a slot of an event
// @Description Books the slot for the given name and email. Capacity and one booking per email per slot are enforced.
// @Tags bookings
// @Accept json
// @Produce json
// @Param eventID path int true "Event ID"
// @Param booking body CreateBookingRequest true "Booking data"
// @Success 201 {object} controllers.BookingSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or conflict"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 429 {object} helpers.APIResponse "error.code: too_many_requests"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/bookings [post]
func (c *BookingController) CreateEventBooking(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathID(w, r, "eventID")
	if !ok {
		return
	}
	var req CreateBookingRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	view, err := c.Service.CreateBooking(r.Context(), eventID, req.input())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, msgSlotNotInEvent)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, view)
}

// CreateBooking godoc
// @Summary Book a slot
// @Description Books a slot by id alone; the slot's event is resolved on the server.
// @Tags bookings
// @Accept json
// @Produce json
// @Param booking body CreateBookingRequest true "Booking data"
// @Success 201 {object} controllers.BookingSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or conflict"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 429 {object} helpers.APIResponse "error.code: too_many_requests"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /bookings [post]
func (c *BookingController) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	view, err := c.Service.BookSlot(r.Context(), req.input())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, msgSlotNotFound)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, view)
}

// ListEventBookings godoc
// @Summary List the bookings of an event
// @Tags bookings
// @Produce json
// @Param eventID path int true "Event ID"
// @Success 200 {object} controllers.ListBookingsSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/bookings [get]
// @Router /bookings/event/{eventID} [get]
func (c *BookingController) ListEventBookings(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathID(w, r, "eventID")
	if !ok {
		return
	}
	views, err := c.Service.ListBookingsForEvent(r.Context(), eventID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, msgEventNotFound)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, views)
}

// GetBooking godoc
// @Summary Get a booking
// @Tags bookings
// @Produce json
// @Param bookingID path int true "Booking ID"
// @Success 200 {object} controllers.BookingSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /bookings/{bookingID} [get]
func (c *BookingController) GetBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := helpers.PathID(w, r, "bookingID")
	if !ok {
		return
	}
	view, err := c.Service.GetBooking(r.Context(), bookingID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, msgBookingNotFound)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, view)
}

// CancelBooking godoc
// @Summary Cancel a booking
// @Description Hard-deletes the booking, freeing its place in the slot.
// @Tags bookings
// @Param bookingID path int true "Booking ID"
// @Success 204 "No Content"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /bookings/{bookingID} [delete]
func (c *BookingController) CancelBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := helpers.PathID(w, r, "bookingID")
	if !ok {
		return
	}
	if err := c.Service.CancelBooking(r.Context(), bookingID); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, msgBookingNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
