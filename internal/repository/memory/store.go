// Package memory keeps every repository in process memory behind one lock.
// It backs STORAGE=memory and the service tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"slotbooking/internal/domain"
)

type store struct {
	mu       sync.RWMutex
	nextID   int64
	events   map[int64]domain.Event
	slots    map[int64]domain.Slot
	bookings map[int64]domain.Booking
	admins   map[int64]domain.Admin
}

// NewStores returns repositories that share a single in-memory store.
func NewStores() *domain.Stores {
	s := &store{
		events:   make(map[int64]domain.Event),
		slots:    make(map[int64]domain.Slot),
		bookings: make(map[int64]domain.Booking),
		admins:   make(map[int64]domain.Admin),
	}
	return &domain.Stores{
		Events:   &eventRepository{s: s},
		Slots:    &slotRepository{s: s},
		Bookings: &bookingRepository{s: s},
		Admins:   &adminRepository{s: s},
	}
}

// id must be called with mu held.
func (s *store) id() int64 {
	s.nextID++
	return s.nextID
}

// slotTaken must be called with mu held.
func (s *store) slotTaken(eventID int64, t time.Time, exceptID int64) bool {
	for _, sl := range s.slots {
		if sl.ID != exceptID && sl.EventID == eventID && sl.Time.Equal(t) {
			return true
		}
	}
	return false
}

type eventRepository struct{ s *store }

func (r *eventRepository) CreateWithSlots(_ context.Context, e *domain.Event, slotTimes []time.Time) ([]*domain.Slot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	seen := make(map[int64]struct{}, len(slotTimes))
	for _, t := range slotTimes {
		key := t.UnixNano()
		if _, dup := seen[key]; dup {
			return nil, domain.ErrDuplicateSlot
		}
		seen[key] = struct{}{}
	}

	e.ID = r.s.id()
	r.s.events[e.ID] = *e
	slots := make([]*domain.Slot, 0, len(slotTimes))
	for _, t := range slotTimes {
		sl := domain.NewSlot(e.ID, t)
		sl.ID = r.s.id()
		r.s.slots[sl.ID] = *sl
		slots = append(slots, sl)
	}
	return slots, nil
}

func (r *eventRepository) GetByID(_ context.Context, id int64) (*domain.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &e, nil
}

func (r *eventRepository) List(_ context.Context) ([]*domain.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Event, 0, len(r.s.events))
	for _, e := range r.s.events {
		e := e
		out = append(out, &e)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *eventRepository) ListByIDs(_ context.Context, ids []int64) ([]*domain.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Event, 0, len(ids))
	for _, id := range ids {
		if e, ok := r.s.events[id]; ok {
			out = append(out, &e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *eventRepository) Update(_ context.Context, id int64, input domain.UpdateEventInput) (*domain.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if input.Name != nil {
		e.Name = *input.Name
	}
	if input.Description != nil {
		e.Description = *input.Description
	}
	if input.MaxBookingsPerSlot != nil {
		e.MaxBookingsPerSlot = *input.MaxBookingsPerSlot
	}
	r.s.events[id] = e
	return &e, nil
}

func (r *eventRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.events[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.events, id)
	for sid, sl := range r.s.slots {
		if sl.EventID == id {
			delete(r.s.slots, sid)
		}
	}
	for bid, b := range r.s.bookings {
		if b.EventID == id {
			delete(r.s.bookings, bid)
		}
	}
	return nil
}

type slotRepository struct{ s *store }

func (r *slotRepository) Create(_ context.Context, sl *domain.Slot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.events[sl.EventID]; !ok {
		return domain.ErrNotFound
	}
	if r.s.slotTaken(sl.EventID, sl.Time, 0) {
		return domain.ErrDuplicateSlot
	}
	sl.ID = r.s.id()
	r.s.slots[sl.ID] = *sl
	return nil
}

func (r *slotRepository) GetByID(_ context.Context, id int64) (*domain.Slot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	sl, ok := r.s.slots[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &sl, nil
}

// sorted returns copies of the slots kept by keep, ordered by less. Must be called with mu held.
func (r *slotRepository) sorted(keep func(domain.Slot) bool, less func(a, b *domain.Slot) bool) []*domain.Slot {
	out := make([]*domain.Slot, 0)
	for _, sl := range r.s.slots {
		if keep(sl) {
			sl := sl
			out = append(out, &sl)
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func byTime(a, b *domain.Slot) bool {
	if !a.Time.Equal(b.Time) {
		return a.Time.Before(b.Time)
	}
	return a.ID < b.ID
}

func byEventThenTime(a, b *domain.Slot) bool {
	if a.EventID != b.EventID {
		return a.EventID < b.EventID
	}
	return byTime(a, b)
}

func (r *slotRepository) List(_ context.Context, params domain.PaginationParams) ([]*domain.Slot, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := r.sorted(func(domain.Slot) bool { return true }, byTime)
	total := len(all)
	start := params.Offset()
	if start > total {
		start = total
	}
	end := start + params.PageSize
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func (r *slotRepository) ListByEventIDs(_ context.Context, eventIDs []int64) ([]*domain.Slot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	want := make(map[int64]struct{}, len(eventIDs))
	for _, id := range eventIDs {
		want[id] = struct{}{}
	}
	return r.sorted(func(sl domain.Slot) bool {
		_, ok := want[sl.EventID]
		return ok
	}, byEventThenTime), nil
}

func (r *slotRepository) UpdateTime(_ context.Context, id int64, t time.Time) (*domain.Slot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sl, ok := r.s.slots[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if r.s.slotTaken(sl.EventID, t, id) {
		return nil, domain.ErrDuplicateSlot
	}
	sl.Time = t.UTC()
	r.s.slots[id] = sl
	return &sl, nil
}

func (r *slotRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.slots[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.slots, id)
	for bid, b := range r.s.bookings {
		if b.SlotID == id {
			delete(r.s.bookings, bid)
		}
	}
	return nil
}

type bookingRepository struct{ s *store }

// Create holds the write lock across the checks and the insert, which gives
// the same serialization per slot as the row lock in Postgres.
func (r *bookingRepository) Create(_ context.Context, b *domain.Booking) (*domain.BookingView, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sl, ok := r.s.slots[b.SlotID]
	if !ok || sl.EventID != b.EventID {
		return nil, domain.ErrNotFound
	}
	e := r.s.events[sl.EventID]

	booked := 0
	for _, existing := range r.s.bookings {
		if existing.SlotID != b.SlotID {
			continue
		}
		if existing.Email == b.Email {
			return nil, domain.ErrAlreadyBooked
		}
		booked++
	}
	if booked >= e.MaxBookingsPerSlot {
		return nil, domain.ErrSlotFull
	}

	b.ID = r.s.id()
	r.s.bookings[b.ID] = *b
	return &domain.BookingView{Booking: *b, EventName: e.Name, SlotTime: domain.FormatSlotTime(sl.Time)}, nil
}

// view must be called with mu held.
func (r *bookingRepository) view(b domain.Booking) *domain.BookingView {
	v := &domain.BookingView{Booking: b, EventName: r.s.events[b.EventID].Name}
	if sl, ok := r.s.slots[b.SlotID]; ok {
		v.SlotTime = domain.FormatSlotTime(sl.Time)
	}
	return v
}

func (r *bookingRepository) GetByID(_ context.Context, id int64) (*domain.BookingView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.bookings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r.view(b), nil
}

func (r *bookingRepository) ListByEventID(_ context.Context, eventID int64) ([]*domain.BookingView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.BookingView, 0)
	for _, b := range r.s.bookings {
		if b.EventID == eventID {
			out = append(out, r.view(b))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *bookingRepository) ListByEmail(_ context.Context, email string) ([]*domain.BookingView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.BookingView, 0)
	for _, b := range r.s.bookings {
		if b.Email == email {
			out = append(out, r.view(b))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SlotTime != out[j].SlotTime {
			return out[i].SlotTime < out[j].SlotTime
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *bookingRepository) CountBySlotIDs(_ context.Context, slotIDs []int64) (map[int64]int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	want := make(map[int64]struct{}, len(slotIDs))
	for _, id := range slotIDs {
		want[id] = struct{}{}
	}
	counts := make(map[int64]int, len(slotIDs))
	for _, b := range r.s.bookings {
		if _, ok := want[b.SlotID]; ok {
			counts[b.SlotID]++
		}
	}
	return counts, nil
}

func (r *bookingRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.bookings[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.bookings, id)
	return nil
}

func (r *bookingRepository) DeleteForEmail(_ context.Context, id int64, email string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.bookings[id]
	if !ok || b.Email != email {
		return domain.ErrNotFound
	}
	delete(r.s.bookings, id)
	return nil
}

type adminRepository struct{ s *store }

func (r *adminRepository) Create(_ context.Context, a *domain.Admin) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.admins {
		if existing.Email == a.Email {
			return domain.ErrDuplicateEmail
		}
	}
	a.ID = r.s.id()
	r.s.admins[a.ID] = *a
	return nil
}

func (r *adminRepository) GetByEmail(_ context.Context, email string) (*domain.Admin, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, a := range r.s.admins {
		if a.Email == email {
			return &a, nil
		}
	}
	return nil, domain.ErrNotFound
}
