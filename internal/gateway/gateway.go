// Package gateway defines the remote CRUD contract for bill entries and an
// HTTP client implementing it.
//
// The remote service is the source of truth for committed data: entry ids
// are assigned there, and every response carries the canonical post-mutation
// entity. The bill engine only touches local state after one of these calls
// has confirmed.
package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/ncolosso/splitter/internal/models"
	"github.com/ncolosso/splitter/internal/money"
)

// ErrNotFound reports that the remote service does not know the bill or
// entry id. Callers usually treat it like any other failed round trip, but
// it is distinguishable for reconciliation.
var ErrNotFound = errors.New("gateway: not found")

// ItemFields are the mutable fields of an item, sent on create and update.
type ItemFields struct {
	Description string      `json:"description"`
	UnitPrice   money.Money `json:"price"`
	Quantity    int64       `json:"quantity"`
}

// FeeFields are the mutable fields of a fee, sent on create and update.
type FeeFields struct {
	Description string      `json:"description"`
	Price       money.Money `json:"price"`
}

// ItemGateway performs remote CRUD for the items of one bill.
type ItemGateway interface {
	// List fetches every item on the bill.
	List(ctx context.Context, billID string) ([]models.Item, error)

	// Create sends a new item and returns the canonical entity with its
	// assigned id.
	Create(ctx context.Context, billID string, fields ItemFields) (models.Item, error)

	// Update sends full replacement fields and returns the canonical
	// post-update entity.
	Update(ctx context.Context, billID, id string, fields ItemFields) (models.Item, error)

	// Delete removes the item from the bill.
	Delete(ctx context.Context, billID, id string) error
}

// FeeGateway performs remote CRUD for the fees of one bill.
type FeeGateway interface {
	List(ctx context.Context, billID string) ([]models.Fee, error)
	Create(ctx context.Context, billID string, fields FeeFields) (models.Fee, error)
	Update(ctx context.Context, billID, id string, fields FeeFields) (models.Fee, error)
	Delete(ctx context.Context, billID, id string) error
}

// TransportError reports a round trip that did not succeed: the request
// could not be sent, timed out, or came back with a non-success status.
// The engine treats it as an opaque failure signal and leaves local state
// untouched.
type TransportError struct {
	// Op names the failed operation, e.g. "create item".
	Op string

	// Status is the HTTP status code when a response was received, zero
	// when the request never completed.
	Status int

	// Err is the underlying cause.
	Err error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("gateway: %s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("gateway: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
