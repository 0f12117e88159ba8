package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"slotbooking/internal/delivery/http/controllers"
	"slotbooking/internal/delivery/http/middleware"
	"slotbooking/internal/domain"
)

// Dependencies holds everything the router wires into controllers and middleware.
type Dependencies struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	Events         domain.EventService
	Slots          domain.SlotService
	Bookings       domain.BookingService
	Users          domain.UserService
	Admins         domain.AdminService
	// RateLimiter guards booking creation. Nil disables it.
	RateLimiter *middleware.RateLimiter
	// AdminVerifier, when set, protects event and slot writes with RequireAdmin.
	AdminVerifier domain.TokenVerifier
}

// NewRouter initializes the HTTP router with all application routes and the middleware chain.
func NewRouter(deps Dependencies) http.Handler {
	events := controllers.NewEventController(deps.Logger, deps.Events)
	slots := controllers.NewSlotController(deps.Logger, deps.Slots)
	bookings := controllers.NewBookingController(deps.Logger, deps.Bookings)
	users := controllers.NewUserController(deps.Logger, deps.Users)
	admins := controllers.NewAdminController(deps.Logger, deps.Admins)

	admin := func(h http.HandlerFunc) http.HandlerFunc { return h }
	if deps.AdminVerifier != nil {
		admin = middleware.RequireAdmin(deps.AdminVerifier, deps.Logger)
	}
	limited := func(h http.HandlerFunc) http.HandlerFunc { return h }
	if deps.RateLimiter != nil {
		limited = deps.RateLimiter.Wrap
	}

	mux := http.NewServeMux()

	// Events
	mux.HandleFunc("POST /events", admin(events.CreateEvent))
	mux.HandleFunc("GET /events", events.ListEvents)
	mux.HandleFunc("GET /events/{eventID}", events.GetEvent)
	mux.HandleFunc("PUT /events/{eventID}", admin(events.UpdateEvent))
	mux.HandleFunc("DELETE /events/{eventID}", admin(events.DeleteEvent))

	// Bookings
	mux.HandleFunc("POST /events/{eventID}/bookings", limited(bookings.CreateEventBooking))
	mux.HandleFunc("GET /events/{eventID}/bookings", bookings.ListEventBookings)
	mux.HandleFunc("POST /bookings", limited(bookings.CreateBooking))
	mux.HandleFunc("GET /bookings/event/{eventID}", bookings.ListEventBookings)
	mux.HandleFunc("GET /bookings/{bookingID}", bookings.GetBooking)
	mux.HandleFunc("DELETE /bookings/{bookingID}", bookings.CancelBooking)

	// Slots
	mux.HandleFunc("GET /slots", slots.ListSlots)
	mux.HandleFunc("POST /slots", admin(slots.CreateSlot))
	mux.HandleFunc("GET /slots/{slotID}", slots.GetSlot)
	mux.HandleFunc("PUT /slots/{slotID}", admin(slots.UpdateSlot))
	mux.HandleFunc("DELETE /slots/{slotID}", admin(slots.DeleteSlot))

	// Users
	mux.HandleFunc("GET /users/{email}/bookings", users.ListBookings)
	mux.HandleFunc("GET /events/user/{email}/bookings", users.ListBookings)
	mux.HandleFunc("GET /users/{email}/bookings/{bookingID}", users.GetBooking)
	mux.HandleFunc("DELETE /users/{email}/bookings/{bookingID}", users.CancelBooking)

	// Admin
	mux.HandleFunc("POST /admin/login", admins.Login)

	mux.HandleFunc("GET /health", controllers.Health)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	var handler http.Handler = mux
	handler = middleware.CORS(deps.AllowedOrigins, handler)
	handler = middleware.LoggingMiddleware(deps.Logger, handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Recovery(deps.Logger, handler)
	return handler
}
