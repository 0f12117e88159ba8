package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slotbooking/internal/domain"
)

var base = time.Date(2099, 6, 1, 9, 0, 0, 0, time.UTC)

func seedEvent(t *testing.T, stores *domain.Stores, capacity int, times ...time.Time) (*domain.Event, []*domain.Slot) {
	t.Helper()
	e := domain.NewEvent("Yoga", "", capacity, "org@example.com", base)
	slots, err := stores.Events.CreateWithSlots(context.Background(), e, times)
	require.NoError(t, err)
	return e, slots
}

func TestEventRepository_CreateWithSlots(t *testing.T) {
	stores := NewStores()
	ctx := context.Background()

	_, err := stores.Events.CreateWithSlots(ctx, domain.NewEvent("Dup", "", 1, "org", base), []time.Time{base, base})
	require.ErrorIs(t, err, domain.ErrDuplicateSlot)
	events, err := stores.Events.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)

	e, slots := seedEvent(t, stores, 2, base, base.Add(time.Hour))
	require.Len(t, slots, 2)
	assert.Equal(t, e.ID, slots[0].EventID)

	got, err := stores.Events.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Yoga", got.Name)

	_, err = stores.Events.GetByID(ctx, e.ID+100)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBookingRepository_Create(t *testing.T) {
	stores := NewStores()
	ctx := context.Background()
	e, slots := seedEvent(t, stores, 1, base)
	other, _ := seedEvent(t, stores, 1, base)

	view, err := stores.Bookings.Create(ctx, domain.NewBooking(e.ID, slots[0].ID, "Ann", "ann@example.com", base))
	require.NoError(t, err)
	assert.Equal(t, "Yoga", view.EventName)
	assert.Equal(t, "2099-06-01T09:00:00Z", view.SlotTime)

	_, err = stores.Bookings.Create(ctx, domain.NewBooking(e.ID, slots[0].ID, "Ann", "ANN@example.com", base))
	require.ErrorIs(t, err, domain.ErrAlreadyBooked)

	_, err = stores.Bookings.Create(ctx, domain.NewBooking(e.ID, slots[0].ID, "Ben", "ben@example.com", base))
	require.ErrorIs(t, err, domain.ErrSlotFull)

	_, err = stores.Bookings.Create(ctx, domain.NewBooking(other.ID, slots[0].ID, "Ben", "ben@example.com", base))
	require.ErrorIs(t, err, domain.ErrNotFound)

	counts, err := stores.Bookings.CountBySlotIDs(ctx, []int64{slots[0].ID})
	require.NoError(t, err)
	assert.Equal(t, map[int64]int{slots[0].ID: 1}, counts)
}

func TestBookingRepository_DeleteForEmail(t *testing.T) {
	stores := NewStores()
	ctx := context.Background()
	e, slots := seedEvent(t, stores, 2, base)

	view, err := stores.Bookings.Create(ctx, domain.NewBooking(e.ID, slots[0].ID, "Ann", "ann@example.com", base))
	require.NoError(t, err)

	require.ErrorIs(t, stores.Bookings.DeleteForEmail(ctx, view.ID, "ben@example.com"), domain.ErrNotFound)
	require.NoError(t, stores.Bookings.DeleteForEmail(ctx, view.ID, "ann@example.com"))
	require.ErrorIs(t, stores.Bookings.Delete(ctx, view.ID), domain.ErrNotFound)
}

func TestEventRepository_DeleteCascades(t *testing.T) {
	stores := NewStores()
	ctx := context.Background()
	e, slots := seedEvent(t, stores, 2, base)
	view, err := stores.Bookings.Create(ctx, domain.NewBooking(e.ID, slots[0].ID, "Ann", "ann@example.com", base))
	require.NoError(t, err)

	require.NoError(t, stores.Events.Delete(ctx, e.ID))
	require.ErrorIs(t, stores.Events.Delete(ctx, e.ID), domain.ErrNotFound)

	_, err = stores.Slots.GetByID(ctx, slots[0].ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = stores.Bookings.GetByID(ctx, view.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSlotRepository_CreateAndUpdate(t *testing.T) {
	stores := NewStores()
	ctx := context.Background()
	e, slots := seedEvent(t, stores, 1, base)

	require.ErrorIs(t, stores.Slots.Create(ctx, domain.NewSlot(e.ID, base)), domain.ErrDuplicateSlot)
	require.ErrorIs(t, stores.Slots.Create(ctx, domain.NewSlot(e.ID+100, base)), domain.ErrNotFound)

	later := domain.NewSlot(e.ID, base.Add(2*time.Hour))
	require.NoError(t, stores.Slots.Create(ctx, later))

	_, err := stores.Slots.UpdateTime(ctx, later.ID, base)
	require.ErrorIs(t, err, domain.ErrDuplicateSlot)

	moved, err := stores.Slots.UpdateTime(ctx, slots[0].ID, base.Add(-time.Hour))
	require.NoError(t, err)
	assert.True(t, moved.Time.Equal(base.Add(-time.Hour)))

	page, total, err := stores.Slots.List(ctx, domain.PaginationParams{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, page, 2)
	assert.Equal(t, slots[0].ID, page[0].ID)
}

func TestAdminRepository(t *testing.T) {
	stores := NewStores()
	ctx := context.Background()

	require.NoError(t, stores.Admins.Create(ctx, domain.NewAdmin("Root", "root@example.com", "hash")))
	require.ErrorIs(t, stores.Admins.Create(ctx, domain.NewAdmin("Again", "root@example.com", "hash")), domain.ErrDuplicateEmail)

	got, err := stores.Admins.GetByEmail(ctx, "root@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Root", got.Name)

	_, err = stores.Admins.GetByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSlotRepository_Ordering(t *testing.T) {
	stores := NewStores()
	ctx := context.Background()
	first, a := seedEvent(t, stores, 1, base.Add(3*time.Hour), base)
	second, b := seedEvent(t, stores, 1, base.Add(time.Hour))

	all, total, err := stores.Slots.List(ctx, domain.PaginationParams{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	ids := make([]int64, 0, len(all))
	for _, sl := range all {
		ids = append(ids, sl.ID)
	}
	assert.Equal(t, []int64{a[1].ID, b[0].ID, a[0].ID}, ids, "listed by time across events")

	grouped, err := stores.Slots.ListByEventIDs(ctx, []int64{second.ID, first.ID})
	require.NoError(t, err)
	ids = ids[:0]
	for _, sl := range grouped {
		ids = append(ids, sl.ID)
	}
	assert.Equal(t, []int64{a[1].ID, a[0].ID, b[0].ID}, ids, "grouped by event, then time")
}
