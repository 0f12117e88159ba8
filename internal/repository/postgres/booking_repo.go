package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"slotbooking/internal/domain"
)

type bookingRepository struct {
	DB *sql.DB
}

func NewBookingRepository(db *sql.DB) domain.BookingRepository {
	return &bookingRepository{DB: db}
}

const bookingViewQuery = `
	SELECT b.id, b.event_id, b.slot_id, b.name, b.email, b.created_at, e.name, s.time
	FROM bookings b
	JOIN events e ON e.id = b.event_id
	JOIN slots s ON s.id = b.slot_id
`

func scanBookingView(row rowScanner) (*domain.BookingView, error) {
	v := &domain.BookingView{}
	var slotTime time.Time
	if err := row.Scan(&v.ID, &v.EventID, &v.SlotID, &v.Name, &v.Email, &v.CreatedAt, &v.EventName, &slotTime); err != nil {
		return nil, err
	}
	v.SlotTime = domain.FormatSlotTime(slotTime)
	return v, nil
}

// Create books a slot under a row lock on the slot. Concurrent bookings of the
// same slot queue on the lock, so the count they see always includes every
// booking committed before them.
func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) (*domain.BookingView, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var (
		capacity  int
		eventName string
		slotTime  time.Time
	)
	lockQuery := `
		SELECT e.max_bookings_per_slot, e.name, s.time
		FROM slots s
		JOIN events e ON e.id = s.event_id
		WHERE s.id = $1 AND s.event_id = $2
		FOR UPDATE OF s
	`
	if err := tx.QueryRowContext(ctx, lockQuery, b.SlotID, b.EventID).Scan(&capacity, &eventName, &slotTime); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("lock slot: %w", err)
	}

	var exists bool
	dupQuery := `SELECT EXISTS(SELECT 1 FROM bookings WHERE slot_id = $1 AND email = $2)`
	if err := tx.QueryRowContext(ctx, dupQuery, b.SlotID, b.Email).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check duplicate: %w", err)
	}
	if exists {
		return nil, domain.ErrAlreadyBooked
	}

	var booked int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings WHERE slot_id = $1`, b.SlotID).Scan(&booked); err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}
	if booked >= capacity {
		return nil, domain.ErrSlotFull
	}

	insert := `
		INSERT INTO bookings (event_id, slot_id, name, email, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	if err := tx.QueryRowContext(ctx, insert, b.EventID, b.SlotID, b.Name, b.Email, b.CreatedAt).Scan(&b.ID); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyBooked
		}
		return nil, fmt.Errorf("insert booking: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &domain.BookingView{
		Booking:   *b,
		EventName: eventName,
		SlotTime:  domain.FormatSlotTime(slotTime),
	}, nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id int64) (*domain.BookingView, error) {
	v, err := scanBookingView(r.DB.QueryRowContext(ctx, bookingViewQuery+` WHERE b.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

func (r *bookingRepository) ListByEventID(ctx context.Context, eventID int64) ([]*domain.BookingView, error) {
	return r.queryViews(ctx, bookingViewQuery+` WHERE b.event_id = $1 ORDER BY b.created_at, b.id`, eventID)
}

func (r *bookingRepository) ListByEmail(ctx context.Context, email string) ([]*domain.BookingView, error) {
	return r.queryViews(ctx, bookingViewQuery+` WHERE b.email = $1 ORDER BY s.time, b.id`, email)
}

func (r *bookingRepository) queryViews(ctx context.Context, query string, args ...any) ([]*domain.BookingView, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	views := make([]*domain.BookingView, 0)
	for rows.Next() {
		v, err := scanBookingView(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, rows.Err()
}

// CountBySlotIDs returns the booking count per slot. Slots without bookings are absent from the map.
func (r *bookingRepository) CountBySlotIDs(ctx context.Context, slotIDs []int64) (map[int64]int, error) {
	counts := make(map[int64]int, len(slotIDs))
	if len(slotIDs) == 0 {
		return counts, nil
	}
	query := `
		SELECT slot_id, COUNT(*)
		FROM bookings
		WHERE slot_id = ANY($1)
		GROUP BY slot_id
	`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(slotIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var slotID int64
		var n int
		if err := rows.Scan(&slotID, &n); err != nil {
			return nil, err
		}
		counts[slotID] = n
	}
	return counts, rows.Err()
}

func (r *bookingRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteForEmail deletes the booking only if it was made with the given email.
func (r *bookingRepository) DeleteForEmail(ctx context.Context, id int64, email string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1 AND email = $2`, id, email)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
