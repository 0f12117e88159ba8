package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slotbooking/internal/domain"
)

func TestBookingService_CreateBooking_CapacityAndDuplicates(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	event := ts.mustCreateEvent(t, 2, futureSlot(0))
	slotID := event.Slots[0].ID

	book := func(name, email string) error {
		_, err := ts.bookings.CreateBooking(ctx, event.ID, domain.CreateBookingInput{Name: name, Email: email, SlotID: slotID})
		return err
	}

	require.NoError(t, book("Alice", "alice@example.com"))
	require.ErrorIs(t, book("Alice", "ALICE@example.com "), domain.ErrAlreadyBooked)
	require.NoError(t, book("Bob", "bob@example.com"))
	require.ErrorIs(t, book("Carol", "carol@example.com"), domain.ErrSlotFull)

	view, err := ts.events.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, view.Slots[0].AvailableSlots)

	bookings, err := ts.bookings.ListBookingsForEvent(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	assert.Equal(t, "alice@example.com", bookings[0].Email)
	assert.Equal(t, "Workshop", bookings[0].EventName)
	assert.Equal(t, futureSlot(0), bookings[0].SlotTime)
}

func TestBookingService_CreateBooking_Validation(t *testing.T) {
	ts := newTestServices(t)
	event := ts.mustCreateEvent(t, 1, futureSlot(0))

	tests := []struct {
		name  string
		input domain.CreateBookingInput
	}{
		{"missing name", domain.CreateBookingInput{Email: "a@example.com", SlotID: event.Slots[0].ID}},
		{"bad email", domain.CreateBookingInput{Name: "A", Email: "not-an-email", SlotID: event.Slots[0].ID}},
		{"missing slot", domain.CreateBookingInput{Name: "A", Email: "a@example.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ts.bookings.CreateBooking(context.Background(), event.ID, tt.input)
			require.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestBookingService_CreateBooking_SlotOfAnotherEvent(t *testing.T) {
	ts := newTestServices(t)
	a := ts.mustCreateEvent(t, 1, futureSlot(0))
	b := ts.mustCreateEvent(t, 1, futureSlot(0))

	_, err := ts.bookings.CreateBooking(context.Background(), a.ID, domain.CreateBookingInput{Name: "A", Email: "a@example.com", SlotID: b.Slots[0].ID})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBookingService_BookSlot_ResolvesEvent(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	ts.mustCreateEvent(t, 1, futureSlot(0))
	second := ts.mustCreateEvent(t, 1, futureSlot(3))

	view, err := ts.bookings.BookSlot(ctx, domain.CreateBookingInput{Name: "A", Email: "a@example.com", SlotID: second.Slots[0].ID})
	require.NoError(t, err)
	assert.Equal(t, second.ID, view.EventID)

	_, err = ts.bookings.BookSlot(ctx, domain.CreateBookingInput{Name: "A", Email: "a@example.com", SlotID: 999})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBookingService_SendsConfirmation(t *testing.T) {
	ts := newTestServices(t)
	event := ts.mustCreateEvent(t, 1, futureSlot(0))

	view, err := ts.bookings.CreateBooking(context.Background(), event.ID, domain.CreateBookingInput{Name: " Dana ", Email: "Dana@Example.com", SlotID: event.Slots[0].ID})
	require.NoError(t, err)

	select {
	case data := <-ts.emails.sent:
		assert.Equal(t, "dana@example.com", data.Email)
		assert.Equal(t, "Dana", data.Name)
		assert.Equal(t, "Workshop", data.EventName)
		assert.Equal(t, "Monday, 01 June 2099 at 09:00 UTC", data.SlotTime)
		assert.Equal(t, view.ID, data.BookingID)
	case <-time.After(2 * time.Second):
		t.Fatal("confirmation was not sent")
	}
}

func TestBookingService_ConfirmationIsBounded(t *testing.T) {
	ts := newTestServices(t)
	event := ts.mustCreateEvent(t, 1, futureSlot(0))

	ctx, cancel := context.WithCancel(context.Background())
	_, err := ts.bookings.CreateBooking(ctx, event.ID, domain.CreateBookingInput{Name: "F", Email: "f@example.com", SlotID: event.Slots[0].ID})
	require.NoError(t, err)
	cancel()

	select {
	case <-ts.emails.sent:
	case <-time.After(2 * time.Second):
		t.Fatal("confirmation was not sent")
	}
	ts.emails.mu.Lock()
	defer ts.emails.mu.Unlock()
	require.Len(t, ts.emails.deadlines, 1)
	assert.False(t, ts.emails.deadlines[0].IsZero(), "send runs under a deadline")
	assert.WithinDuration(t, time.Now().Add(testTimeout), ts.emails.deadlines[0], testTimeout)
}

func TestBookingService_FailedConfirmationKeepsBooking(t *testing.T) {
	ts := newTestServices(t)
	ts.emails.err = errors.New("smtp down")
	event := ts.mustCreateEvent(t, 1, futureSlot(0))

	view, err := ts.bookings.CreateBooking(context.Background(), event.ID, domain.CreateBookingInput{Name: "E", Email: "e@example.com", SlotID: event.Slots[0].ID})
	require.NoError(t, err)
	<-ts.emails.sent

	got, err := ts.bookings.GetBooking(context.Background(), view.ID)
	require.NoError(t, err)
	assert.Equal(t, view.ID, got.ID)
}

func TestBookingService_ConcurrentBookingsNeverOverbook(t *testing.T) {
	const capacity, extra = 5, 15
	ts := newTestServices(t)
	event := ts.mustCreateEvent(t, capacity, futureSlot(0))
	slotID := event.Slots[0].ID

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		full      int
	)
	start := make(chan struct{})
	for i := 0; i < capacity+extra; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, err := ts.bookings.CreateBooking(context.Background(), event.ID, domain.CreateBookingInput{
				Name:   fmt.Sprintf("user %d", i),
				Email:  fmt.Sprintf("user%d@example.com", i),
				SlotID: slotID,
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, domain.ErrSlotFull):
				full++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	close(start)
	wg.Wait()

	assert.Equal(t, capacity, successes)
	assert.Equal(t, extra, full)

	view, err := ts.events.GetEvent(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, view.Slots[0].AvailableSlots)
}

func TestBookingService_ListBookingsForEvent(t *testing.T) {
	ts := newTestServices(t)
	event := ts.mustCreateEvent(t, 1, futureSlot(0))

	got, err := ts.bookings.ListBookingsForEvent(context.Background(), event.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	_, err = ts.bookings.ListBookingsForEvent(context.Background(), event.ID+100)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBookingService_CancelBooking_FreesCapacity(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	event := ts.mustCreateEvent(t, 1, futureSlot(0))
	slotID := event.Slots[0].ID

	view, err := ts.bookings.CreateBooking(ctx, event.ID, domain.CreateBookingInput{Name: "A", Email: "a@example.com", SlotID: slotID})
	require.NoError(t, err)
	require.NoError(t, ts.bookings.CancelBooking(ctx, view.ID))
	require.ErrorIs(t, ts.bookings.CancelBooking(ctx, view.ID), domain.ErrNotFound)

	_, err = ts.bookings.CreateBooking(ctx, event.ID, domain.CreateBookingInput{Name: "B", Email: "b@example.com", SlotID: slotID})
	require.NoError(t, err)
}
