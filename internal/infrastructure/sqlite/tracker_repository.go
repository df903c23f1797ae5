package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pricelens/backend/internal/domain"
)

const settingEmailAlerts = "email_alerts"

// TrackerRepository persists tracked product URLs and global settings.
// It implements domain.TrackerRepository.
type TrackerRepository struct {
	db *sql.DB
}

// NewTrackerRepository opens the tracker database and ensures its schema.
func NewTrackerRepository(db *sql.DB) (*TrackerRepository, error) {
	r := &TrackerRepository{db: db}
	if err := r.initSchema(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *TrackerRepository) initSchema() error {
	const schema = `
		CREATE TABLE IF NOT EXISTS products (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			url TEXT NOT NULL UNIQUE,
			source TEXT NOT NULL,
			created_at TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT
		);
	`
	if _, err := r.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create tracker schema: %w", err)
	}
	// Email alerts default to enabled on first run.
	if _, err := r.db.Exec(
		`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`,
		settingEmailAlerts, "1",
	); err != nil {
		return fmt.Errorf("failed to seed settings: %w", err)
	}
	return nil
}

// Add inserts a new tracked URL and returns its ID. Adding a URL that is
// already tracked returns domain.ErrDuplicateURL.
func (r *TrackerRepository) Add(ctx context.Context, url, source string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO products (url, source, created_at) VALUES (?, ?, ?)`,
		url, source, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert tracked product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if affected == 0 {
		return 0, domain.ErrDuplicateURL
	}

	var id int64
	if err := r.db.QueryRowContext(ctx, `SELECT id FROM products WHERE url = ?`, url).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to read back tracked product: %w", err)
	}
	return id, nil
}

// List returns all tracked products, newest first.
func (r *TrackerRepository) List(ctx context.Context) ([]domain.TrackedProduct, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, url, source, created_at FROM products ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked products: %w", err)
	}
	defer rows.Close()

	var products []domain.TrackedProduct
	for rows.Next() {
		p, err := scanTrackedProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// Get returns a tracked product by ID, or domain.ErrProductNotFound.
func (r *TrackerRepository) Get(ctx context.Context, id int64) (*domain.TrackedProduct, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, url, source, created_at FROM products WHERE id = ?`, id,
	)
	p, err := scanTrackedProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Delete removes a tracked product by ID. Cascade deletion of its price
// history is the tracking service's responsibility.
func (r *TrackerRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete tracked product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// EmailAlertsEnabled reads the global alert toggle. Missing rows count as
// enabled, matching the seeded default.
func (r *TrackerRepository) EmailAlertsEnabled(ctx context.Context) (bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, settingEmailAlerts,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read settings: %w", err)
	}
	return value == "1", nil
}

// SetEmailAlerts stores the global alert toggle.
func (r *TrackerRepository) SetEmailAlerts(ctx context.Context, enabled bool) error {
	value := "0"
	if enabled {
		value = "1"
	}
	if _, err := r.db.ExecContext(ctx,
		`REPLACE INTO settings (key, value) VALUES (?, ?)`, settingEmailAlerts, value,
	); err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrackedProduct(row rowScanner) (domain.TrackedProduct, error) {
	var (
		p         domain.TrackedProduct
		createdAt string
	)
	if err := row.Scan(&p.ID, &p.URL, &p.Source, &createdAt); err != nil {
		return p, err
	}
	ts, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		// Tolerate rows written by older versions with a different layout.
		ts = time.Time{}
	}
	p.CreatedAt = ts
	return p, nil
}
