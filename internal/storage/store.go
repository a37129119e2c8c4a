// Package storage provides abstractions for persistent data storage on the
// service side.
package storage

import (
	"context"
	"errors"

	"github.com/ncolosso/splitter/internal/models"
)

// ErrNotFound reports an unknown bill or entry id.
var ErrNotFound = errors.New("storage: not found")

// Store defines the interface for bill storage operations. This abstraction
// allows swapping storage backends (SQLite, PostgreSQL, etc.) without
// changing the handlers.
//
// Stores never persist bill totals; totals are derived from the entry
// tables on read, which keeps the database the single ground truth clients
// reconcile against.
type Store interface {
	// CreateBill persists a new bill. The bill.ID field is populated by
	// the store when empty.
	CreateBill(ctx context.Context, bill *models.Bill) error

	// GetBill retrieves a bill by id with its derived total.
	GetBill(ctx context.Context, billID string) (*models.Bill, error)

	// ListBills retrieves every bill, newest first, with derived totals.
	ListBills(ctx context.Context) ([]models.Bill, error)

	// ListItems returns the bill's items in creation order.
	ListItems(ctx context.Context, billID string) ([]models.Item, error)

	// CreateItem persists a new item on the bill, populating item.ID.
	CreateItem(ctx context.Context, billID string, item *models.Item) error

	// UpdateItem replaces the mutable fields of an existing item.
	UpdateItem(ctx context.Context, billID string, item *models.Item) error

	// DeleteItem removes an item from the bill.
	DeleteItem(ctx context.Context, billID, itemID string) error

	// ListFees returns the bill's fees in creation order.
	ListFees(ctx context.Context, billID string) ([]models.Fee, error)

	// CreateFee persists a new fee on the bill, populating fee.ID.
	CreateFee(ctx context.Context, billID string, fee *models.Fee) error

	// UpdateFee replaces the mutable fields of an existing fee.
	UpdateFee(ctx context.Context, billID string, fee *models.Fee) error

	// DeleteFee removes a fee from the bill.
	DeleteFee(ctx context.Context, billID, feeID string) error

	// Close releases any resources held by the store.
	Close() error
}
