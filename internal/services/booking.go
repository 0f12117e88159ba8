package services

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"slotbooking/internal/domain"
)

// emailSlotLayout is how slot times read in confirmation emails.
const emailSlotLayout = "Monday, 02 January 2006 at 15:04 UTC"

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type bookingService struct {
	bookingRepo    domain.BookingRepository
	eventRepo      domain.EventRepository
	slotRepo       domain.SlotRepository
	emailService   domain.EmailService
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

// NewBookingService returns a BookingService. emailService may be nil, in which
// case no confirmation is sent.
func NewBookingService(bookingRepo domain.BookingRepository,
	eventRepo domain.EventRepository,
	slotRepo domain.SlotRepository,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.BookingService {
	return &bookingService{
		bookingRepo:    bookingRepo,
		eventRepo:      eventRepo,
		slotRepo:       slotRepo,
		emailService:   emailService,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func validateBooker(input domain.CreateBookingInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return domain.NewValidationError("name is required")
	}
	if !emailRegexp.MatchString(domain.NormalizeEmail(input.Email)) {
		return domain.NewValidationError("invalid email format")
	}
	if input.SlotID <= 0 {
		return domain.NewValidationError("slot_id is required")
	}
	return nil
}

func (s *bookingService) CreateBooking(ctx context.Context, eventID int64, input domain.CreateBookingInput) (*domain.BookingView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := validateBooker(input); err != nil {
		return nil, err
	}
	return s.book(ctx, eventID, input)
}

// BookSlot books a slot without a caller-supplied event; the slot's own event is used.
func (s *bookingService) BookSlot(ctx context.Context, input domain.CreateBookingInput) (*domain.BookingView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := validateBooker(input); err != nil {
		return nil, err
	}
	slot, err := s.slotRepo.GetByID(ctx, input.SlotID)
	if err != nil {
		return nil, fmt.Errorf("get slot: %w", err)
	}
	return s.book(ctx, slot.EventID, input)
}

func (s *bookingService) book(ctx context.Context, eventID int64, input domain.CreateBookingInput) (*domain.BookingView, error) {
	booking := domain.NewBooking(eventID, input.SlotID, input.Name, input.Email, s.now().UTC())
	view, err := s.bookingRepo.Create(ctx, booking)
	if err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	if s.emailService != nil {
		go s.sendConfirmation(context.WithoutCancel(ctx), view)
	}
	return view, nil
}

// sendConfirmation runs after the booking is committed; a failure is logged and never undoes the booking.
func (s *bookingService) sendConfirmation(ctx context.Context, view *domain.BookingView) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	slotTime := view.SlotTime
	if t, err := time.Parse(time.RFC3339, view.SlotTime); err == nil {
		slotTime = t.UTC().Format(emailSlotLayout)
	}
	data := &domain.BookingConfirmationEmailData{
		Email:     view.Email,
		Name:      view.Name,
		EventName: view.EventName,
		SlotTime:  slotTime,
		BookingID: view.ID,
	}
	if err := s.emailService.SendBookingConfirmation(ctx, data); err != nil {
		s.logger.ErrorContext(ctx, "booking confirmation failed", "booking_id", view.ID, "err", err)
	}
}

func (s *bookingService) GetBooking(ctx context.Context, id int64) (*domain.BookingView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	view, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return view, nil
}

func (s *bookingService) ListBookingsForEvent(ctx context.Context, eventID int64) ([]*domain.BookingView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	views, err := s.bookingRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	if views == nil {
		views = []*domain.BookingView{}
	}
	return views, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.bookingRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("cancel booking: %w", err)
	}
	return nil
}
