package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"slotbooking/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

const eventColumns = `id, name, description, max_bookings_per_slot, created_by, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	if err := row.Scan(&e.ID, &e.Name, &e.Description, &e.MaxBookingsPerSlot, &e.CreatedBy, &e.CreatedAt); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) CreateWithSlots(ctx context.Context, e *domain.Event, slotTimes []time.Time) ([]*domain.Slot, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT INTO events (name, description, max_bookings_per_slot, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	if err := tx.QueryRowContext(ctx, query, e.Name, e.Description, e.MaxBookingsPerSlot, e.CreatedBy, e.CreatedAt).Scan(&e.ID); err != nil {
		return nil, err
	}

	slots := make([]*domain.Slot, 0, len(slotTimes))
	for _, t := range slotTimes {
		s := domain.NewSlot(e.ID, t)
		err := tx.QueryRowContext(ctx, `INSERT INTO slots (event_id, time) VALUES ($1, $2) RETURNING id`, s.EventID, s.Time).Scan(&s.ID)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, domain.ErrDuplicateSlot
			}
			return nil, err
		}
		slots = append(slots, s)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return slots, nil
}

func (r *eventRepository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY created_at, id`
	return r.queryEvents(ctx, query)
}

func (r *eventRepository) ListByIDs(ctx context.Context, ids []int64) ([]*domain.Event, error) {
	if len(ids) == 0 {
		return []*domain.Event{}, nil
	}
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = ANY($1) ORDER BY id`
	return r.queryEvents(ctx, query, pq.Array(ids))
}

func (r *eventRepository) queryEvents(ctx context.Context, query string, args ...any) ([]*domain.Event, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) Update(ctx context.Context, id int64, input domain.UpdateEventInput) (*domain.Event, error) {
	var setClauses []string
	args := []interface{}{}
	n := 1
	if input.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", n))
		args = append(args, *input.Name)
		n++
	}
	if input.Description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", n))
		args = append(args, *input.Description)
		n++
	}
	if input.MaxBookingsPerSlot != nil {
		setClauses = append(setClauses, fmt.Sprintf("max_bookings_per_slot = $%d", n))
		args = append(args, *input.MaxBookingsPerSlot)
		n++
	}
	if n == 1 {
		// Nothing to change; return the current row
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE events SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), n, eventColumns)
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// Delete removes the event. Slots and bookings go with it through ON DELETE CASCADE.
func (r *eventRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
