package models

import "github.com/ncolosso/splitter/internal/money"

// Bill is the persistent record of a shared expense.
//
// The total is derived state: it must always equal the sum of the item and
// fee contributions. The server recomputes it from the entry tables when
// listing bills; the client engine maintains it incrementally.
type Bill struct {
	// ID is the unique identifier for the bill (UUID format).
	ID string `json:"id"`

	// Title is the human-readable name for the bill.
	Title string `json:"title"`

	// Date is the Unix timestamp of the expense itself, as opposed to
	// CreatedAt which records when the bill was entered.
	Date int64 `json:"date"`

	// Total is the derived sum of all item and fee contributions.
	Total money.Money `json:"total"`

	// CreatedAt is the Unix timestamp when the bill was created.
	CreatedAt int64 `json:"created_at"`
}

// Item is a single purchased line entry on a bill.
type Item struct {
	// ID is the unique identifier for the item (UUID format).
	// Empty until the remote service has confirmed the create.
	ID string `json:"id"`

	// Description is the name of the item (e.g. "Pizza", "Beer").
	Description string `json:"description"`

	// UnitPrice is the price of a single unit.
	UnitPrice money.Money `json:"price"`

	// Quantity is how many units were purchased. Always at least 1.
	Quantity int64 `json:"quantity"`
}

// EntityID returns the item's identity for ledger lookups.
func (i Item) EntityID() string { return i.ID }

// Contribution is the item's effect on the bill total: unit price times
// quantity.
func (i Item) Contribution() money.Money {
	return i.UnitPrice.MulInt(i.Quantity)
}

// Fee is a flat surcharge entry on a bill, such as a tip or delivery fee.
type Fee struct {
	// ID is the unique identifier for the fee (UUID format).
	// Empty until the remote service has confirmed the create.
	ID string `json:"id"`

	// Description is the name of the fee (e.g. "Tip", "Delivery").
	Description string `json:"description"`

	// Price is the flat amount of the fee.
	Price money.Money `json:"price"`
}

// EntityID returns the fee's identity for ledger lookups.
func (f Fee) EntityID() string { return f.ID }

// Contribution is the fee's effect on the bill total: its flat price.
func (f Fee) Contribution() money.Money { return f.Price }
