package services

import (
	"context"
	"fmt"
	"time"

	"slotbooking/internal/domain"
)

type userService struct {
	bookingRepo    domain.BookingRepository
	contextTimeout time.Duration
}

// NewUserService returns a UserService. A booking owned by another email is reported as not found.
func NewUserService(bookingRepo domain.BookingRepository, timeout time.Duration) domain.UserService {
	return &userService{
		bookingRepo:    bookingRepo,
		contextTimeout: timeout,
	}
}

func (s *userService) ListBookings(ctx context.Context, email string) ([]*domain.BookingView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	email = domain.NormalizeEmail(email)
	if email == "" {
		return nil, domain.NewValidationError("email is required")
	}
	views, err := s.bookingRepo.ListByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	if views == nil {
		views = []*domain.BookingView{}
	}
	return views, nil
}

func (s *userService) GetBooking(ctx context.Context, email string, id int64) (*domain.BookingView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	view, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if view.Email != domain.NormalizeEmail(email) {
		return nil, fmt.Errorf("get booking: %w", domain.ErrNotFound)
	}
	return view, nil
}

func (s *userService) CancelBooking(ctx context.Context, email string, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.bookingRepo.DeleteForEmail(ctx, id, domain.NormalizeEmail(email)); err != nil {
		return fmt.Errorf("cancel booking: %w", err)
	}
	return nil
}
