package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ark9164-create/torscrape/internal/domain"
)

// ErrNotFound is returned when a date has no recorded run.
var ErrNotFound = errors.New("not found")

// PostgresStore handles interactions with the PostgreSQL database.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *PostgresStore) Close() {
	s.db.Close()
}

// SaveRun upserts the run record for a date. A date that was scraped before
// keeps its original row id, so run.ID is overwritten with the persisted id;
// callers must use it for any rows referencing the run.
func (s *PostgresStore) SaveRun(ctx context.Context, run *domain.ScrapeRun) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO scrape_runs (id, scrape_date, status, fail_reason, network_slots, dom_slots, scraped_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (scrape_date) DO UPDATE SET
		   status = EXCLUDED.status,
		   fail_reason = EXCLUDED.fail_reason,
		   network_slots = EXCLUDED.network_slots,
		   dom_slots = EXCLUDED.dom_slots,
		   scraped_at = EXCLUDED.scraped_at
		 RETURNING id`,
		run.ID, run.Date, run.Status, run.FailReason, run.NetworkSlots, run.DOMSlots, run.ScrapedAt,
	).Scan(&run.ID)
}

// SaveSlots replaces the stored slots for a date within a single transaction.
func (s *PostgresStore) SaveSlots(ctx context.Context, runID uuid.UUID, date string, slots []domain.PriceSlot) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM price_slots WHERE slot_date = $1`, date); err != nil {
		return err
	}

	if len(slots) > 0 {
		batch := &pgx.Batch{}
		for _, slot := range slots {
			batch.Queue(
				`INSERT INTO price_slots (run_id, slot_date, slot_time, price, source)
				 VALUES ($1, $2, $3, $4, $5)`,
				runID, slot.Date, slot.Time, slot.Price, slot.Source)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// GetRunStatus retrieves the current run status for a date.
func (s *PostgresStore) GetRunStatus(ctx context.Context, date string) (*domain.ScrapeStatusResponse, error) {
	var status domain.ScrapeStatusResponse
	err := s.db.QueryRow(ctx,
		`SELECT scrape_date, status, fail_reason, network_slots + dom_slots, scraped_at
		 FROM scrape_runs WHERE scrape_date = $1`,
		date,
	).Scan(&status.Date, &status.Status, &status.FailReason, &status.SlotCount, &status.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// GetSlots returns the persisted slots for a date, ordered by time then price.
func (s *PostgresStore) GetSlots(ctx context.Context, date string) ([]domain.PriceSlot, error) {
	rows, err := s.db.Query(ctx,
		`SELECT slot_date, slot_time, price, source
		 FROM price_slots WHERE slot_date = $1
		 ORDER BY slot_time, price`,
		date,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []domain.PriceSlot
	for rows.Next() {
		var slot domain.PriceSlot
		if err := rows.Scan(&slot.Date, &slot.Time, &slot.Price, &slot.Source); err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}
