package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"slotbooking/internal/domain"
)

const (
	msgInvalidSlots        = "one or more time slots are invalid"
	msgCapacityNotPositive = "max_bookings_per_slot must be greater than 0"
	slotErrInvalidFormat   = "invalid datetime format"
	slotErrDuplicate       = "duplicate time slot"
	slotErrPast            = "time slot is in the past"
)

type eventService struct {
	eventRepo      domain.EventRepository
	slotRepo       domain.SlotRepository
	availability   domain.AvailabilityService
	contextTimeout time.Duration
	now            func() time.Time
}

func NewEventService(eventRepo domain.EventRepository,
	slotRepo domain.SlotRepository,
	availability domain.AvailabilityService,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		slotRepo:       slotRepo,
		availability:   availability,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

// validateSlotTimes parses, sorts and checks every proposed slot, collecting
// all problems instead of stopping at the first one.
func validateSlotTimes(raw []string, now time.Time) ([]time.Time, []domain.SlotError) {
	var errs []domain.SlotError
	parsed := make([]time.Time, 0, len(raw))
	for _, r := range raw {
		t, err := domain.ParseSlotTime(r)
		if err != nil {
			errs = append(errs, domain.SlotError{Time: r, Error: slotErrInvalidFormat})
			continue
		}
		parsed = append(parsed, t)
	}
	sort.Slice(parsed, func(i, j int) bool { return parsed[i].Before(parsed[j]) })

	seen := make(map[int64]struct{}, len(parsed))
	for _, t := range parsed {
		key := t.UnixNano()
		if _, dup := seen[key]; dup {
			errs = append(errs, domain.SlotError{Time: domain.FormatSlotTime(t), Error: slotErrDuplicate})
		} else if !t.After(now) {
			errs = append(errs, domain.SlotError{Time: domain.FormatSlotTime(t), Error: slotErrPast})
		}
		seen[key] = struct{}{}
	}
	return parsed, errs
}

func (s *eventService) CreateEvent(ctx context.Context, input domain.CreateEventInput) (*domain.EventView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.NewValidationError("event name is required")
	}
	if len(input.Slots) == 0 {
		return nil, domain.NewValidationError("at least one time slot is required")
	}
	if input.MaxBookingsPerSlot <= 0 {
		return nil, domain.NewValidationError(msgCapacityNotPositive)
	}
	createdBy := strings.TrimSpace(input.CreatedBy)
	if createdBy == "" {
		return nil, domain.NewValidationError("created_by is required")
	}

	now := s.now().UTC()
	times, slotErrs := validateSlotTimes(input.Slots, now)
	if len(slotErrs) > 0 {
		return nil, &domain.ValidationError{Message: msgInvalidSlots, Slots: slotErrs}
	}

	event := domain.NewEvent(name, strings.TrimSpace(input.Description), input.MaxBookingsPerSlot, createdBy, now)
	if _, err := s.eventRepo.CreateWithSlots(ctx, event, times); err != nil {
		if errors.Is(err, domain.ErrDuplicateSlot) {
			return nil, err
		}
		return nil, fmt.Errorf("create event: %w", err)
	}
	return s.GetEvent(ctx, event.ID)
}

func (s *eventService) GetEvent(ctx context.Context, id int64) (*domain.EventView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	views, err := s.buildViews(ctx, []*domain.Event{event})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (s *eventService) ListEvents(ctx context.Context) ([]*domain.EventView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return s.buildViews(ctx, events)
}

// buildViews loads the slots of all events at once and annotates them with availability.
func (s *eventService) buildViews(ctx context.Context, events []*domain.Event) ([]*domain.EventView, error) {
	views := make([]*domain.EventView, 0, len(events))
	if len(events) == 0 {
		return views, nil
	}
	ids := make([]int64, len(events))
	capacity := make(map[int64]int, len(events))
	for i, e := range events {
		ids[i] = e.ID
		capacity[e.ID] = e.MaxBookingsPerSlot
	}
	slots, err := s.slotRepo.ListByEventIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	slotViews, err := s.availability.Annotate(ctx, slots, capacity)
	if err != nil {
		return nil, err
	}
	byEvent := make(map[int64][]*domain.SlotView, len(events))
	for _, sv := range slotViews {
		byEvent[sv.EventID] = append(byEvent[sv.EventID], sv)
	}
	for _, e := range events {
		sv := byEvent[e.ID]
		if sv == nil {
			sv = []*domain.SlotView{}
		}
		sort.SliceStable(sv, func(i, j int) bool { return sv[i].Time.Before(sv[j].Time) })
		views = append(views, &domain.EventView{Event: *e, Slots: sv})
	}
	return views, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, id int64, input domain.UpdateEventInput) (*domain.EventView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, domain.NewValidationError("event name cannot be empty")
		}
		input.Name = &name
	}
	if input.Description != nil {
		desc := strings.TrimSpace(*input.Description)
		input.Description = &desc
	}
	if input.MaxBookingsPerSlot != nil && *input.MaxBookingsPerSlot <= 0 {
		return nil, domain.NewValidationError(msgCapacityNotPositive)
	}

	if _, err := s.eventRepo.Update(ctx, id, input); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return s.GetEvent(ctx, id)
}

func (s *eventService) DeleteEvent(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}
