// Package sqlite provides a SQLite-backed implementation of the
// storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/ncolosso/splitter/internal/models"
	"github.com/ncolosso/splitter/internal/money"
	"github.com/ncolosso/splitter/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a SQLiteStore at the given database path. It creates the
// parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateBill persists a new bill.
func (s *SQLiteStore) CreateBill(ctx context.Context, bill *models.Bill) error {
	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}
	if bill.CreatedAt == 0 {
		bill.CreatedAt = time.Now().Unix()
	}
	if bill.Date == 0 {
		bill.Date = bill.CreatedAt
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO bills (id, title, date, created_at) VALUES (?, ?, ?, ?)",
		bill.ID, bill.Title, bill.Date, bill.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bill: %w", err)
	}
	return nil
}

// GetBill retrieves a bill by id. The total comes from summing the entry
// tables, not a stored column.
func (s *SQLiteStore) GetBill(ctx context.Context, billID string) (*models.Bill, error) {
	bill := &models.Bill{}
	var totalCents int64
	err := s.db.QueryRowContext(ctx, `
		SELECT b.id, b.title, b.date, b.created_at,
		       COALESCE((SELECT SUM(price_cents * quantity) FROM items WHERE bill_id = b.id), 0)
		     + COALESCE((SELECT SUM(price_cents) FROM fees WHERE bill_id = b.id), 0)
		FROM bills b WHERE b.id = ?`,
		billID,
	).Scan(&bill.ID, &bill.Title, &bill.Date, &bill.CreatedAt, &totalCents)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("bill %s: %w", billID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}

	bill.Total, err = money.FromCents(totalCents)
	if err != nil {
		return nil, fmt.Errorf("invalid stored total for bill %s: %w", billID, err)
	}
	return bill, nil
}

// ListBills retrieves every bill, newest first, with derived totals.
func (s *SQLiteStore) ListBills(ctx context.Context) ([]models.Bill, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT b.id, b.title, b.date, b.created_at,
		       COALESCE((SELECT SUM(price_cents * quantity) FROM items WHERE bill_id = b.id), 0)
		     + COALESCE((SELECT SUM(price_cents) FROM fees WHERE bill_id = b.id), 0)
		FROM bills b ORDER BY b.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	var bills []models.Bill
	for rows.Next() {
		var bill models.Bill
		var totalCents int64
		if err := rows.Scan(&bill.ID, &bill.Title, &bill.Date, &bill.CreatedAt, &totalCents); err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		if bill.Total, err = money.FromCents(totalCents); err != nil {
			return nil, fmt.Errorf("invalid stored total for bill %s: %w", bill.ID, err)
		}
		bills = append(bills, bill)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bills: %w", err)
	}
	return bills, nil
}

// billExists reports whether the bill id is known, mapping absence to
// storage.ErrNotFound.
func (s *SQLiteStore) billExists(ctx context.Context, billID string) error {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM bills WHERE id = ?", billID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("bill %s: %w", billID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check bill: %w", err)
	}
	return nil
}

// ListItems returns the bill's items in creation order.
func (s *SQLiteStore) ListItems(ctx context.Context, billID string) ([]models.Item, error) {
	if err := s.billExists(ctx, billID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, description, price_cents, quantity FROM items WHERE bill_id = ? ORDER BY created_at, id",
		billID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var item models.Item
		var cents int64
		if err := rows.Scan(&item.ID, &item.Description, &cents, &item.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		if item.UnitPrice, err = money.FromCents(cents); err != nil {
			return nil, fmt.Errorf("invalid stored price for item %s: %w", item.ID, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}
	return items, nil
}

// CreateItem persists a new item on the bill, assigning its id.
func (s *SQLiteStore) CreateItem(ctx context.Context, billID string, item *models.Item) error {
	if err := s.billExists(ctx, billID); err != nil {
		return err
	}
	if item.ID == "" {
		item.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO items (id, bill_id, description, price_cents, quantity, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		item.ID, billID, item.Description, item.UnitPrice.Cents(), item.Quantity, time.Now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}
	return nil
}

// UpdateItem replaces the mutable fields of an existing item.
func (s *SQLiteStore) UpdateItem(ctx context.Context, billID string, item *models.Item) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE items SET description = ?, price_cents = ?, quantity = ? WHERE id = ? AND bill_id = ?",
		item.Description, item.UnitPrice.Cents(), item.Quantity, item.ID, billID,
	)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	return checkAffected(res, "item", item.ID)
}

// DeleteItem removes an item from the bill.
func (s *SQLiteStore) DeleteItem(ctx context.Context, billID, itemID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM items WHERE id = ? AND bill_id = ?", itemID, billID)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return checkAffected(res, "item", itemID)
}

// ListFees returns the bill's fees in creation order.
func (s *SQLiteStore) ListFees(ctx context.Context, billID string) ([]models.Fee, error) {
	if err := s.billExists(ctx, billID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, description, price_cents FROM fees WHERE bill_id = ? ORDER BY created_at, id",
		billID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list fees: %w", err)
	}
	defer rows.Close()

	var fees []models.Fee
	for rows.Next() {
		var fee models.Fee
		var cents int64
		if err := rows.Scan(&fee.ID, &fee.Description, &cents); err != nil {
			return nil, fmt.Errorf("failed to scan fee: %w", err)
		}
		if fee.Price, err = money.FromCents(cents); err != nil {
			return nil, fmt.Errorf("invalid stored price for fee %s: %w", fee.ID, err)
		}
		fees = append(fees, fee)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate fees: %w", err)
	}
	return fees, nil
}

// CreateFee persists a new fee on the bill, assigning its id.
func (s *SQLiteStore) CreateFee(ctx context.Context, billID string, fee *models.Fee) error {
	if err := s.billExists(ctx, billID); err != nil {
		return err
	}
	if fee.ID == "" {
		fee.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO fees (id, bill_id, description, price_cents, created_at) VALUES (?, ?, ?, ?, ?)",
		fee.ID, billID, fee.Description, fee.Price.Cents(), time.Now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert fee: %w", err)
	}
	return nil
}

// UpdateFee replaces the mutable fields of an existing fee.
func (s *SQLiteStore) UpdateFee(ctx context.Context, billID string, fee *models.Fee) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE fees SET description = ?, price_cents = ? WHERE id = ? AND bill_id = ?",
		fee.Description, fee.Price.Cents(), fee.ID, billID,
	)
	if err != nil {
		return fmt.Errorf("failed to update fee: %w", err)
	}
	return checkAffected(res, "fee", fee.ID)
}

// DeleteFee removes a fee from the bill.
func (s *SQLiteStore) DeleteFee(ctx context.Context, billID, feeID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM fees WHERE id = ? AND bill_id = ?", feeID, billID)
	if err != nil {
		return fmt.Errorf("failed to delete fee: %w", err)
	}
	return checkAffected(res, "fee", feeID)
}

func checkAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, storage.ErrNotFound)
	}
	return nil
}
