package domain

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Slot is a single bookable instant under an event. Capacity comes from the event.
// swagger:model Slot
type Slot struct {
	ID      int64     `json:"id"`
	EventID int64     `json:"event_id"`
	Time    time.Time `json:"time"`
}

// NewSlot returns a new Slot for the given event. ID is set by the repository on create.
func NewSlot(eventID int64, t time.Time) *Slot {
	return &Slot{EventID: eventID, Time: t.UTC()}
}

// SlotView is a slot annotated with its computed availability.
// swagger:model SlotView
type SlotView struct {
	ID             int64     `json:"id"`
	Time           time.Time `json:"time"`
	EventID        int64     `json:"event_id"`
	AvailableSlots int       `json:"available_slots"`
	MaxSlots       int       `json:"max_slots"`
}

// Availability returns the remaining capacity of a slot, never negative.
func Availability(maxBookings, booked int) (available int, isAvailable bool) {
	available = maxBookings - booked
	if available < 0 {
		available = 0
	}
	return available, available > 0
}

// NewSlotView builds the availability view of a slot from its booking count.
func NewSlotView(slot *Slot, maxBookings, booked int) *SlotView {
	available, _ := Availability(maxBookings, booked)
	return &SlotView{
		ID:             slot.ID,
		Time:           slot.Time,
		EventID:        slot.EventID,
		AvailableSlots: available,
		MaxSlots:       maxBookings,
	}
}

var errInvalidSlotTime = errors.New("invalid datetime format")

// Layouts without an offset are read as UTC.
var localSlotLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseSlotTime parses an ISO-8601 timestamp. A value without an explicit
// offset is interpreted as UTC. The result is always in UTC.
func ParseSlotTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range localSlotLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errInvalidSlotTime
}

// UpdateSlotInput holds a slot update. EventID, when set, must match the slot's event.
type UpdateSlotInput struct {
	Time    string
	EventID *int64
}

// SlotRepository defines the interface for slot storage
type SlotRepository interface {
	Create(ctx context.Context, slot *Slot) error
	GetByID(ctx context.Context, id int64) (*Slot, error)
	List(ctx context.Context, params PaginationParams) ([]*Slot, int, error)
	ListByEventIDs(ctx context.Context, eventIDs []int64) ([]*Slot, error)
	UpdateTime(ctx context.Context, id int64, t time.Time) (*Slot, error)
	Delete(ctx context.Context, id int64) error
}

// AvailabilityService computes remaining slot capacity from live booking counts.
type AvailabilityService interface {
	Availability(ctx context.Context, slotID int64, maxBookings int) (available int, isAvailable bool, err error)
	// Annotate returns one view per slot, in input order, using the capacity of each slot's event.
	Annotate(ctx context.Context, slots []*Slot, capacityByEvent map[int64]int) ([]*SlotView, error)
}

// SlotService defines direct slot management.
type SlotService interface {
	CreateSlot(ctx context.Context, eventID int64, rawTime string) (*SlotView, error)
	GetSlot(ctx context.Context, id int64) (*SlotView, error)
	ListSlots(ctx context.Context, params PaginationParams) ([]*SlotView, int, error)
	UpdateSlot(ctx context.Context, id int64, input UpdateSlotInput) (*SlotView, error)
	DeleteSlot(ctx context.Context, id int64) error
}
