package controllers

import (
	"log/slog"
	"net/http"

	"slotbooking/internal/delivery/http/helpers"
	"slotbooking/internal/domain"
)

// UserController serves the bookings made under one email address.
type UserController struct {
	Logger  *slog.Logger
	Service domain.UserService
}

func NewUserController(logger *slog.Logger, svc domain.UserService) *UserController {
	return &UserController{
		Logger:  logger,
		Service: svc,
	}
}

// ListBookings godoc
// @Summary List bookings of an email
// @Description Returns every booking made with the email, ordered by slot time.
// @Tags users
// @Produce json
// @Param email path string true "Email address"
// @Success 200 {object} controllers.ListBookingsSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{email}/bookings [get]
// @Router /events/user/{email}/bookings [get]
func (c *UserController) ListBookings(w http.ResponseWriter, r *http.Request) {
	views, err := c.Service.ListBookings(r.Context(), r.PathValue("email"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, msgBookingNotFound)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, views)
}

// GetBooking godoc
// @Summary Get one booking of an email
// @Tags users
// @Produce json
// @Param email path string true "Email address"
// @Param bookingID path int true "Booking ID"
// @Success 200 {object} controllers.BookingSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{email}/bookings/{bookingID} [get]
func (c *UserController) GetBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := helpers.PathID(w, r, "bookingID")
	if !ok {
		return
	}
	view, err := c.Service.GetBooking(r.Context(), r.PathValue("email"), bookingID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, msgBookingNotFound)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, view)
}

// CancelBooking godoc
// @Summary Cancel one booking of an email
// @Tags users
// @Param email path string true "Email address"
// @Param bookingID path int true "Booking ID"
// @Success 204 "No Content"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{email}/bookings/{bookingID} [delete]
func (c *UserController) CancelBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := helpers.PathID(w, r, "bookingID")
	if !ok {
		return
	}
	if err := c.Service.CancelBooking(r.Context(), r.PathValue("email"), bookingID); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, msgBookingNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
