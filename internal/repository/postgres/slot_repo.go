package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"slotbooking/internal/domain"
)

type slotRepository struct {
	DB *sql.DB
}

func NewSlotRepository(db *sql.DB) domain.SlotRepository {
	return &slotRepository{DB: db}
}

func scanSlot(row rowScanner) (*domain.Slot, error) {
	s := &domain.Slot{}
	if err := row.Scan(&s.ID, &s.EventID, &s.Time); err != nil {
		return nil, err
	}
	s.Time = s.Time.UTC()
	return s, nil
}

func (r *slotRepository) Create(ctx context.Context, s *domain.Slot) error {
	err := r.DB.QueryRowContext(ctx, `INSERT INTO slots (event_id, time) VALUES ($1, $2) RETURNING id`, s.EventID, s.Time).Scan(&s.ID)
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return domain.ErrDuplicateSlot
	case isForeignKeyViolation(err):
		return domain.ErrNotFound
	default:
		return err
	}
}

func (r *slotRepository) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	s, err := scanSlot(r.DB.QueryRowContext(ctx, `SELECT id, event_id, time FROM slots WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *slotRepository) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Slot, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM slots`).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := `
		SELECT id, event_id, time
		FROM slots
		ORDER BY time, id
		LIMIT $1 OFFSET $2
	`
	slots, err := r.querySlots(ctx, query, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	return slots, total, nil
}

func (r *slotRepository) ListByEventIDs(ctx context.Context, eventIDs []int64) ([]*domain.Slot, error) {
	if len(eventIDs) == 0 {
		return []*domain.Slot{}, nil
	}
	query := `
		SELECT id, event_id, time
		FROM slots
		WHERE event_id = ANY($1)
		ORDER BY event_id, time, id
	`
	return r.querySlots(ctx, query, pq.Array(eventIDs))
}

func (r *slotRepository) querySlots(ctx context.Context, query string, args ...any) ([]*domain.Slot, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	slots := make([]*domain.Slot, 0)
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

func (r *slotRepository) UpdateTime(ctx context.Context, id int64, t time.Time) (*domain.Slot, error) {
	query := `UPDATE slots SET time = $1 WHERE id = $2 RETURNING id, event_id, time`
	s, err := scanSlot(r.DB.QueryRowContext(ctx, query, t.UTC(), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateSlot
		}
		return nil, err
	}
	return s, nil
}

func (r *slotRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM slots WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
