package domain

import (
	"context"
	"strings"
	"time"
)

// Booking binds one email to one slot. (email, slot_id) is unique.
// swagger:model Booking
type Booking struct {
	ID        int64     `json:"id"`
	EventID   int64     `json:"event_id"`
	SlotID    int64     `json:"slot_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// NewBooking returns a new Booking. The email is normalized with NormalizeEmail.
func NewBooking(eventID, slotID int64, name, email string, createdAt time.Time) *Booking {
	return &Booking{
		EventID:   eventID,
		SlotID:    slotID,
		Name:      strings.TrimSpace(name),
		Email:     NormalizeEmail(email),
		CreatedAt: createdAt,
	}
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// BookingView is a booking with its event name and slot time denormalized.
// swagger:model BookingView
type BookingView struct {
	Booking
	EventName string `json:"event_name"`
	SlotTime  string `json:"slot_time"`
}

// FormatSlotTime renders a slot time the way booking views carry it.
func FormatSlotTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// CreateBookingInput is the booking request for a slot.
type CreateBookingInput struct {
	Name   string
	Email  string
	SlotID int64
}

// BookingRepository defines the interface for booking storage
type BookingRepository interface {
	// Create locks the slot, rejects duplicates and full slots, and inserts the
	// booking, all in one transaction. It returns ErrNotFound when the slot does
	// not belong to the booking's event.
	Create(ctx context.Context, booking *Booking) (*BookingView, error)
	GetByID(ctx context.Context, id int64) (*BookingView, error)
	ListByEventID(ctx context.Context, eventID int64) ([]*BookingView, error)
	ListByEmail(ctx context.Context, email string) ([]*BookingView, error)
	CountBySlotIDs(ctx context.Context, slotIDs []int64) (map[int64]int, error)
	Delete(ctx context.Context, id int64) error
	DeleteForEmail(ctx context.Context, id int64, email string) error
}

// BookingService defines the booking workflow.
type BookingService interface {
	CreateBooking(ctx context.Context, eventID int64, input CreateBookingInput) (*BookingView, error)
	BookSlot(ctx context.Context, input CreateBookingInput) (*BookingView, error)
	GetBooking(ctx context.Context, id int64) (*BookingView, error)
	ListBookingsForEvent(ctx context.Context, eventID int64) ([]*BookingView, error)
	CancelBooking(ctx context.Context, id int64) error
}

// UserService exposes bookings scoped to the email that made them.
type UserService interface {
	ListBookings(ctx context.Context, email string) ([]*BookingView, error)
	GetBooking(ctx context.Context, email string, id int64) (*BookingView, error)
	CancelBooking(ctx context.Context, email string, id int64) error
}
