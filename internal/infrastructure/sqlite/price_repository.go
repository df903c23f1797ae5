package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pricelens/backend/internal/domain"
)

// dateLayout is how observation dates are stored: one calendar day per row.
const dateLayout = "2006-01-02"

// PriceRepository persists scraped products and their price history.
// It implements domain.PriceRepository.
type PriceRepository struct {
	db *sql.DB
}

// NewPriceRepository opens the price database and ensures its schema.
func NewPriceRepository(db *sql.DB) (*PriceRepository, error) {
	r := &PriceRepository{db: db}
	if err := r.initSchema(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *PriceRepository) initSchema() error {
	const schema = `
		CREATE TABLE IF NOT EXISTS product (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			url TEXT NOT NULL UNIQUE
		);
		CREATE TABLE IF NOT EXISTS pricehistory (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			product_id INTEGER NOT NULL REFERENCES product(id),
			date TEXT NOT NULL,
			price REAL,
			availability TEXT,
			UNIQUE (product_id, date)
		);
		CREATE INDEX IF NOT EXISTS idx_pricehistory_product_date
			ON pricehistory (product_id, date);
	`
	if _, err := r.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create price schema: %w", err)
	}
	return nil
}

// UpsertProduct inserts a product or refreshes its name when the URL is
// already known, and returns the product ID.
func (r *PriceRepository) UpsertProduct(ctx context.Context, name, url string) (int64, error) {
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO product (name, url) VALUES (?, ?)
		 ON CONFLICT (url) DO UPDATE SET name = excluded.name`,
		name, url,
	); err != nil {
		return 0, fmt.Errorf("failed to upsert product: %w", err)
	}

	var id int64
	if err := r.db.QueryRowContext(ctx, `SELECT id FROM product WHERE url = ?`, url).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to read back product: %w", err)
	}
	return id, nil
}

// InsertPricePoint records one observation per product per calendar date.
// Returns false when the date already has an observation for the product.
func (r *PriceRepository) InsertPricePoint(ctx context.Context, productID int64, date time.Time, price *float64, availability string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO pricehistory (product_id, date, price, availability)
		 VALUES (?, ?, ?, ?)`,
		productID, date.Format(dateLayout), price, availability,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert price point: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// LatestBefore returns the newest observation strictly before date, or nil
// when the product has no prior history.
func (r *PriceRepository) LatestBefore(ctx context.Context, productID int64, date time.Time) (*domain.PricePoint, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, product_id, date, price, availability
		 FROM pricehistory
		 WHERE product_id = ? AND date < ?
		 ORDER BY date DESC LIMIT 1`,
		productID, date.Format(dateLayout),
	)

	var (
		p            domain.PricePoint
		rawDate      string
		price        sql.NullFloat64
		availability sql.NullString
	)
	err := row.Scan(&p.ID, &p.ProductID, &rawDate, &price, &availability)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read prior price point: %w", err)
	}

	p.Date, _ = time.Parse(dateLayout, rawDate)
	if price.Valid {
		v := price.Float64
		p.Price = &v
	}
	p.Availability = availability.String
	return &p, nil
}

// DeleteByURL removes a product and all of its history, returning the number
// of history rows removed. Deleting an unknown URL is not an error.
func (r *PriceRepository) DeleteByURL(ctx context.Context, url string) (int64, error) {
	var productID int64
	err := r.db.QueryRowContext(ctx, `SELECT id FROM product WHERE url = ?`, url).Scan(&productID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to look up product: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM pricehistory WHERE product_id = ?`, productID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete price history: %w", err)
	}
	removed, _ := res.RowsAffected()

	if _, err := r.db.ExecContext(ctx, `DELETE FROM product WHERE id = ?`, productID); err != nil {
		return removed, fmt.Errorf("failed to delete product: %w", err)
	}
	return removed, nil
}

// CleanupOrphans removes products whose URL is no longer tracked, together
// with their history, and returns how many products were removed.
func (r *PriceRepository) CleanupOrphans(ctx context.Context, trackedURLs []string) (int, error) {
	tracked := make(map[string]struct{}, len(trackedURLs))
	for _, u := range trackedURLs {
		tracked[u] = struct{}{}
	}

	rows, err := r.db.QueryContext(ctx, `SELECT id, url FROM product`)
	if err != nil {
		return 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var orphans []int64
	for rows.Next() {
		var (
			id  int64
			url string
		)
		if err := rows.Scan(&id, &url); err != nil {
			return 0, err
		}
		if _, ok := tracked[url]; !ok {
			orphans = append(orphans, id)
		}
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	if len(orphans) == 0 {
		return 0, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(orphans)), ",")
	args := make([]any, len(orphans))
	for i, id := range orphans {
		args[i] = id
	}

	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM pricehistory WHERE product_id IN (`+placeholders+`)`, args...,
	); err != nil {
		return 0, fmt.Errorf("failed to delete orphaned history: %w", err)
	}
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM product WHERE id IN (`+placeholders+`)`, args...,
	); err != nil {
		return 0, fmt.Errorf("failed to delete orphaned products: %w", err)
	}
	return len(orphans), nil
}

// History returns every observation joined with its product, restricted to
// URLs that are still tracked, oldest first.
func (r *PriceRepository) History(ctx context.Context, trackedURLs []string) ([]domain.PriceRecord, error) {
	tracked := make(map[string]struct{}, len(trackedURLs))
	for _, u := range trackedURLs {
		tracked[u] = struct{}{}
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT ph.date, p.name, ph.price, ph.availability, p.url
		 FROM pricehistory ph
		 JOIN product p ON p.id = ph.product_id
		 ORDER BY ph.date ASC, p.name ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var records []domain.PriceRecord
	for rows.Next() {
		var (
			rec          domain.PriceRecord
			rawDate      string
			price        sql.NullFloat64
			availability sql.NullString
		)
		if err := rows.Scan(&rawDate, &rec.ProductName, &price, &availability, &rec.URL); err != nil {
			return nil, err
		}
		if _, ok := tracked[rec.URL]; !ok {
			continue
		}
		rec.Date, _ = time.Parse(dateLayout, rawDate)
		if price.Valid {
			v := price.Float64
			rec.Price = &v
		}
		rec.Availability = availability.String
		records = append(records, rec)
	}
	return records, rows.Err()
}
