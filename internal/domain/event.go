package domain

import (
	"context"
	"time"
)

// Event is a named activity with a uniform per-slot capacity.
// swagger:model Event
type Event struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	Description        string    `json:"description"`
	MaxBookingsPerSlot int       `json:"max_bookings_per_slot"`
	CreatedBy          string    `json:"created_by"`
	CreatedAt          time.Time `json:"created_at"`
}

// NewEvent returns a new Event with the given fields. ID is set by the repository on create.
func NewEvent(name, description string, maxBookingsPerSlot int, createdBy string, createdAt time.Time) *Event {
	return &Event{
		Name:               name,
		Description:        description,
		MaxBookingsPerSlot: maxBookingsPerSlot,
		CreatedBy:          createdBy,
		CreatedAt:          createdAt,
	}
}

// EventView is an event together with its slots annotated with availability.
// swagger:model EventView
type EventView struct {
	Event
	Slots []*SlotView `json:"slots"`
}

// CreateEventInput is the raw event creation request. Slots are unparsed timestamps.
type CreateEventInput struct {
	Name               string
	Description        string
	Slots              []string
	MaxBookingsPerSlot int
	CreatedBy          string
}

// UpdateEventInput holds the optional fields of a partial event update. Nil means unchanged.
type UpdateEventInput struct {
	Name               *string
	Description        *string
	MaxBookingsPerSlot *int
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	// CreateWithSlots inserts the event and one slot per time atomically.
	CreateWithSlots(ctx context.Context, event *Event, slotTimes []time.Time) ([]*Slot, error)
	GetByID(ctx context.Context, id int64) (*Event, error)
	List(ctx context.Context) ([]*Event, error)
	ListByIDs(ctx context.Context, ids []int64) ([]*Event, error)
	Update(ctx context.Context, id int64, input UpdateEventInput) (*Event, error)
	Delete(ctx context.Context, id int64) error
}

// EventService defines the event workflow.
type EventService interface {
	CreateEvent(ctx context.Context, input CreateEventInput) (*EventView, error)
	GetEvent(ctx context.Context, id int64) (*EventView, error)
	ListEvents(ctx context.Context) ([]*EventView, error)
	UpdateEvent(ctx context.Context, id int64, input UpdateEventInput) (*EventView, error)
	DeleteEvent(ctx context.Context, id int64) error
}
