package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"slotbooking/internal/delivery/http/helpers"
	"slotbooking/internal/domain"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) helpers.APIResponse {
	t.Helper()
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope), "response must be valid JSON envelope")
	return envelope
}

// decodeData re-decodes envelope.Data into dest.
func decodeData(t *testing.T, envelope helpers.APIResponse, dest any) {
	t.Helper()
	raw, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, dest))
}

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	view        *domain.EventView
	views       []*domain.EventView
	err         error
	lastCreate  domain.CreateEventInput
	lastUpdate  domain.UpdateEventInput
	lastEventID int64
}

func (f *fakeEventService) CreateEvent(ctx context.Context, input domain.CreateEventInput) (*domain.EventView, error) {
	f.lastCreate = input
	return f.view, f.err
}

func (f *fakeEventService) GetEvent(ctx context.Context, id int64) (*domain.EventView, error) {
	f.lastEventID = id
	return f.view, f.err
}

func (f *fakeEventService) ListEvents(ctx context.Context) ([]*domain.EventView, error) {
	return f.views, f.err
}

func (f *fakeEventService) UpdateEvent(ctx context.Context, id int64, input domain.UpdateEventInput) (*domain.EventView, error) {
	f.lastEventID = id
	f.lastUpdate = input
	return f.view, f.err
}

func (f *fakeEventService) DeleteEvent(ctx context.Context, id int64) error {
	f.lastEventID = id
	return f.err
}

// fakeBookingService implements domain.BookingService for handler tests.
type fakeBookingService struct {
	view        *domain.BookingView
	views       []*domain.BookingView
	err         error
	lastInput   domain.CreateBookingInput
	lastEventID int64
	lastID      int64
	bookSlot    bool
}

func (f *fakeBookingService) CreateBooking(ctx context.Context, eventID int64, input domain.CreateBookingInput) (*domain.BookingView, error) {
	f.lastEventID = eventID
	f.lastInput = input
	return f.view, f.err
}

func (f *fakeBookingService) BookSlot(ctx context.Context, input domain.CreateBookingInput) (*domain.BookingView, error) {
	f.bookSlot = true
	f.lastInput = input
	return f.view, f.err
}

func (f *fakeBookingService) GetBooking(ctx context.Context, id int64) (*domain.BookingView, error) {
	f.lastID = id
	return f.view, f.err
}

func (f *fakeBookingService) ListBookingsForEvent(ctx context.Context, eventID int64) ([]*domain.BookingView, error) {
	f.lastEventID = eventID
	return f.views, f.err
}

func (f *fakeBookingService) CancelBooking(ctx context.Context, id int64) error {
	f.lastID = id
	return f.err
}

// fakeSlotService implements domain.SlotService for handler tests.
type fakeSlotService struct {
	view       *domain.SlotView
	views      []*domain.SlotView
	total      int
	err        error
	lastID     int64
	lastTime   string
	lastParams domain.PaginationParams
	lastUpdate domain.UpdateSlotInput
}

func (f *fakeSlotService) CreateSlot(ctx context.Context, eventID int64, rawTime string) (*domain.SlotView, error) {
	f.lastID = eventID
	f.lastTime = rawTime
	return f.view, f.err
}

func (f *fakeSlotService) GetSlot(ctx context.Context, id int64) (*domain.SlotView, error) {
	f.lastID = id
	return f.view, f.err
}

func (f *fakeSlotService) ListSlots(ctx context.Context, params domain.PaginationParams) ([]*domain.SlotView, int, error) {
	f.lastParams = params
	return f.views, f.total, f.err
}

func (f *fakeSlotService) UpdateSlot(ctx context.Context, id int64, input domain.UpdateSlotInput) (*domain.SlotView, error) {
	f.lastID = id
	f.lastUpdate = input
	return f.view, f.err
}

func (f *fakeSlotService) DeleteSlot(ctx context.Context, id int64) error {
	f.lastID = id
	return f.err
}

// fakeUserService implements domain.UserService for handler tests.
type fakeUserService struct {
	view      *domain.BookingView
	views     []*domain.BookingView
	err       error
	lastEmail string
	lastID    int64
}

func (f *fakeUserService) ListBookings(ctx context.Context, email string) ([]*domain.BookingView, error) {
	f.lastEmail = email
	return f.views, f.err
}

func (f *fakeUserService) GetBooking(ctx context.Context, email string, id int64) (*domain.BookingView, error) {
	f.lastEmail, f.lastID = email, id
	return f.view, f.err
}

func (f *fakeUserService) CancelBooking(ctx context.Context, email string, id int64) error {
	f.lastEmail, f.lastID = email, id
	return f.err
}

// fakeAdminService implements domain.AdminService for handler tests.
type fakeAdminService struct {
	result *domain.LoginResult
	err    error
}

func (f *fakeAdminService) Login(ctx context.Context, email, password string) (*domain.LoginResult, error) {
	return f.result, f.err
}

func (f *fakeAdminService) CreateAdmin(ctx context.Context, name, email, password string) (*domain.Admin, error) {
	return nil, f.err
}
