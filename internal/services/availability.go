package services

import (
	"context"
	"fmt"
	"time"

	"slotbooking/internal/domain"
)

type availabilityService struct {
	bookingRepo    domain.BookingRepository
	contextTimeout time.Duration
}

// NewAvailabilityService returns an AvailabilityService that counts live bookings on every call.
func NewAvailabilityService(bookingRepo domain.BookingRepository, timeout time.Duration) domain.AvailabilityService {
	return &availabilityService{
		bookingRepo:    bookingRepo,
		contextTimeout: timeout,
	}
}

func (s *availabilityService) Availability(ctx context.Context, slotID int64, maxBookings int) (int, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	counts, err := s.bookingRepo.CountBySlotIDs(ctx, []int64{slotID})
	if err != nil {
		return 0, false, fmt.Errorf("count bookings: %w", err)
	}
	available, ok := domain.Availability(maxBookings, counts[slotID])
	return available, ok, nil
}

func (s *availabilityService) Annotate(ctx context.Context, slots []*domain.Slot, capacityByEvent map[int64]int) ([]*domain.SlotView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	views := make([]*domain.SlotView, 0, len(slots))
	if len(slots) == 0 {
		return views, nil
	}
	ids := make([]int64, len(slots))
	for i, sl := range slots {
		ids[i] = sl.ID
	}
	counts, err := s.bookingRepo.CountBySlotIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}
	for _, sl := range slots {
		views = append(views, domain.NewSlotView(sl, capacityByEvent[sl.EventID], counts[sl.ID]))
	}
	return views, nil
}
