package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"slotbooking/internal/domain"
	"slotbooking/internal/repository/memory"
)

const testTimeout = 5 * time.Second

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeEmailService records confirmations and signals each one on sent.
type fakeEmailService struct {
	mu    sync.Mutex
	sent  chan *domain.BookingConfirmationEmailData
	calls []*domain.BookingConfirmationEmailData
	// deadlines holds the context deadline seen by each call, zero when unset.
	deadlines []time.Time
	err       error
}

func newFakeEmailService() *fakeEmailService {
	return &fakeEmailService{sent: make(chan *domain.BookingConfirmationEmailData, 64)}
}

func (f *fakeEmailService) SendBookingConfirmation(ctx context.Context, data *domain.BookingConfirmationEmailData) error {
	f.mu.Lock()
	f.calls = append(f.calls, data)
	deadline, _ := ctx.Deadline()
	f.deadlines = append(f.deadlines, deadline)
	f.mu.Unlock()
	f.sent <- data
	return f.err
}

// fakeHasher treats "hashed:"+password as the hash of password.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakeHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

type fakeIssuer struct {
	subject string
	roles   []string
}

func (f *fakeIssuer) Issue(subject, email string, roles []string, expiry time.Duration) (string, error) {
	f.subject = subject
	f.roles = roles
	return "token-" + subject, nil
}

type testServices struct {
	stores   *domain.Stores
	events   domain.EventService
	slots    domain.SlotService
	bookings domain.BookingService
	users    domain.UserService
	emails   *fakeEmailService
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()
	stores := memory.NewStores()
	availability := NewAvailabilityService(stores.Bookings, testTimeout)
	emails := newFakeEmailService()
	return &testServices{
		stores:   stores,
		events:   NewEventService(stores.Events, stores.Slots, availability, testTimeout),
		slots:    NewSlotService(stores.Slots, stores.Events, availability, testTimeout),
		bookings: NewBookingService(stores.Bookings, stores.Events, stores.Slots, emails, discardLogger(), testTimeout),
		users:    NewUserService(stores.Bookings, testTimeout),
		emails:   emails,
	}
}

func futureSlot(hours int) string {
	return time.Date(2099, 6, 1, 9, 0, 0, 0, time.UTC).Add(time.Duration(hours) * time.Hour).Format(time.RFC3339)
}

func (ts *testServices) mustCreateEvent(t *testing.T, capacity int, slots ...string) *domain.EventView {
	t.Helper()
	view, err := ts.events.CreateEvent(context.Background(), domain.CreateEventInput{
		Name:               "Workshop",
		Description:        "hands-on",
		Slots:              slots,
		MaxBookingsPerSlot: capacity,
		CreatedBy:          "organizer@example.com",
	})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	return view
}
