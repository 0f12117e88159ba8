package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"slotbooking/internal/domain"
)

// Pool settings for the shared connection pool.
const (
	maxOpenConns    = 25
	maxIdleConns    = 5
	connMaxLifetime = 30 * time.Minute
	connectAttempts = 5
)

// Open opens a Postgres connection pool and waits until the database answers.
// It retries a few times so the server can start alongside the database container.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	for attempt := 1; ; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err = db.PingContext(pingCtx)
		cancel()
		if err == nil {
			return db, nil
		}
		if attempt == connectAttempts {
			_ = db.Close()
			return nil, fmt.Errorf("ping db after %d attempts: %w", attempt, err)
		}
		select {
		case <-ctx.Done():
			_ = db.Close()
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * time.Second):
		}
	}
}

// NewStores returns the Postgres-backed repositories sharing one pool.
func NewStores(db *sql.DB) *domain.Stores {
	return &domain.Stores{
		Events:   NewEventRepository(db),
		Slots:    NewSlotRepository(db),
		Bookings: NewBookingRepository(db),
		Admins:   NewAdminRepository(db),
	}
}
