package services

import (
	"context"
	"fmt"
	"time"

	"slotbooking/internal/domain"
)

type slotService struct {
	slotRepo       domain.SlotRepository
	eventRepo      domain.EventRepository
	availability   domain.AvailabilityService
	contextTimeout time.Duration
	now            func() time.Time
}

// NewSlotService returns a SlotService. Slot writes follow the same time rules as event creation.
func NewSlotService(slotRepo domain.SlotRepository,
	eventRepo domain.EventRepository,
	availability domain.AvailabilityService,
	timeout time.Duration,
) domain.SlotService {
	return &slotService{
		slotRepo:       slotRepo,
		eventRepo:      eventRepo,
		availability:   availability,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

// parseFutureSlot applies the event creation rules to a single slot time.
func (s *slotService) parseFutureSlot(raw string) (time.Time, error) {
	t, err := domain.ParseSlotTime(raw)
	if err != nil {
		return time.Time{}, &domain.ValidationError{
			Message: msgInvalidSlots,
			Slots:   []domain.SlotError{{Time: raw, Error: slotErrInvalidFormat}},
		}
	}
	if !t.After(s.now()) {
		return time.Time{}, &domain.ValidationError{
			Message: msgInvalidSlots,
			Slots:   []domain.SlotError{{Time: domain.FormatSlotTime(t), Error: slotErrPast}},
		}
	}
	return t, nil
}

func (s *slotService) view(ctx context.Context, slot *domain.Slot) (*domain.SlotView, error) {
	event, err := s.eventRepo.GetByID(ctx, slot.EventID)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	views, err := s.availability.Annotate(ctx, []*domain.Slot{slot}, map[int64]int{event.ID: event.MaxBookingsPerSlot})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (s *slotService) CreateSlot(ctx context.Context, eventID int64, rawTime string) (*domain.SlotView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	t, err := s.parseFutureSlot(rawTime)
	if err != nil {
		return nil, err
	}
	slot := domain.NewSlot(eventID, t)
	if err := s.slotRepo.Create(ctx, slot); err != nil {
		return nil, fmt.Errorf("create slot: %w", err)
	}
	return s.view(ctx, slot)
}

func (s *slotService) GetSlot(ctx context.Context, id int64) (*domain.SlotView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	slot, err := s.slotRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get slot: %w", err)
	}
	return s.view(ctx, slot)
}

func (s *slotService) ListSlots(ctx context.Context, params domain.PaginationParams) ([]*domain.SlotView, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	slots, total, err := s.slotRepo.List(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list slots: %w", err)
	}
	seen := make(map[int64]struct{})
	var eventIDs []int64
	for _, sl := range slots {
		if _, ok := seen[sl.EventID]; !ok {
			seen[sl.EventID] = struct{}{}
			eventIDs = append(eventIDs, sl.EventID)
		}
	}
	events, err := s.eventRepo.ListByIDs(ctx, eventIDs)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	capacity := make(map[int64]int, len(events))
	for _, e := range events {
		capacity[e.ID] = e.MaxBookingsPerSlot
	}
	views, err := s.availability.Annotate(ctx, slots, capacity)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func (s *slotService) UpdateSlot(ctx context.Context, id int64, input domain.UpdateSlotInput) (*domain.SlotView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	slot, err := s.slotRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get slot: %w", err)
	}
	if input.EventID != nil && *input.EventID != slot.EventID {
		return nil, domain.NewValidationError("slot cannot be moved to another event")
	}
	t, err := s.parseFutureSlot(input.Time)
	if err != nil {
		return nil, err
	}
	updated, err := s.slotRepo.UpdateTime(ctx, id, t)
	if err != nil {
		return nil, fmt.Errorf("update slot: %w", err)
	}
	return s.view(ctx, updated)
}

func (s *slotService) DeleteSlot(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.slotRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	return nil
}
