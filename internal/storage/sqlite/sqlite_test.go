package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ncolosso/splitter/internal/models"
	"github.com/ncolosso/splitter/internal/money"
	"github.com/ncolosso/splitter/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
		os.Remove(dbPath)
	})
	return store
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	bill := &models.Bill{Title: "Team Dinner"}
	if err := store.CreateBill(ctx, bill); err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}
	if bill.ID == "" {
		t.Fatal("Expected bill ID to be generated")
	}
	if bill.CreatedAt == 0 || bill.Date == 0 {
		t.Error("Expected timestamps to be set")
	}

	t.Run("item lifecycle", func(t *testing.T) {
		item := &models.Item{
			Description: "Pizza",
			UnitPrice:   money.MustFromCents(2000),
			Quantity:    1,
		}
		if err := store.CreateItem(ctx, bill.ID, item); err != nil {
			t.Fatalf("CreateItem failed: %v", err)
		}
		if item.ID == "" {
			t.Fatal("Expected item ID to be generated")
		}

		second := &models.Item{
			Description: "Beer",
			UnitPrice:   money.MustFromCents(450),
			Quantity:    2,
		}
		if err := store.CreateItem(ctx, bill.ID, second); err != nil {
			t.Fatalf("CreateItem failed: %v", err)
		}

		items, err := store.ListItems(ctx, bill.ID)
		if err != nil {
			t.Fatalf("ListItems failed: %v", err)
		}
		if len(items) != 2 {
			t.Fatalf("ListItems returned %d items, want 2", len(items))
		}
		if items[0].ID != item.ID || items[1].ID != second.ID {
			t.Error("items not in creation order")
		}
		if items[1].UnitPrice.Cents() != 450 {
			t.Errorf("price round trip = %d cents, want 450", items[1].UnitPrice.Cents())
		}

		second.UnitPrice = money.MustFromCents(500)
		if err := store.UpdateItem(ctx, bill.ID, second); err != nil {
			t.Fatalf("UpdateItem failed: %v", err)
		}

		if err := store.DeleteItem(ctx, bill.ID, item.ID); err != nil {
			t.Fatalf("DeleteItem failed: %v", err)
		}
		items, err = store.ListItems(ctx, bill.ID)
		if err != nil {
			t.Fatalf("ListItems failed: %v", err)
		}
		if len(items) != 1 || items[0].UnitPrice.Cents() != 500 {
			t.Errorf("after update+delete: %+v", items)
		}
	})

	t.Run("fee lifecycle", func(t *testing.T) {
		fee := &models.Fee{Description: "Tip", Price: money.MustFromCents(300)}
		if err := store.CreateFee(ctx, bill.ID, fee); err != nil {
			t.Fatalf("CreateFee failed: %v", err)
		}
		if fee.ID == "" {
			t.Fatal("Expected fee ID to be generated")
		}

		fee.Price = money.MustFromCents(350)
		if err := store.UpdateFee(ctx, bill.ID, fee); err != nil {
			t.Fatalf("UpdateFee failed: %v", err)
		}

		fees, err := store.ListFees(ctx, bill.ID)
		if err != nil {
			t.Fatalf("ListFees failed: %v", err)
		}
		if len(fees) != 1 || fees[0].Price.Cents() != 350 {
			t.Errorf("fees = %+v", fees)
		}
	})

	t.Run("GetBill derives total from entries", func(t *testing.T) {
		got, err := store.GetBill(ctx, bill.ID)
		if err != nil {
			t.Fatalf("GetBill failed: %v", err)
		}
		// One item 5.00x2 plus one fee 3.50.
		if got.Total.Cents() != 1350 {
			t.Errorf("derived total = %s, want 13.50", got.Total)
		}
	})

	t.Run("ListBills includes derived totals", func(t *testing.T) {
		other := &models.Bill{Title: "Empty"}
		if err := store.CreateBill(ctx, other); err != nil {
			t.Fatalf("CreateBill failed: %v", err)
		}

		bills, err := store.ListBills(ctx)
		if err != nil {
			t.Fatalf("ListBills failed: %v", err)
		}
		if len(bills) != 2 {
			t.Fatalf("ListBills returned %d bills, want 2", len(bills))
		}
		for _, bl := range bills {
			if bl.ID == other.ID && !bl.Total.IsZero() {
				t.Errorf("empty bill total = %s, want 0.00", bl.Total)
			}
			if bl.ID == bill.ID && bl.Total.Cents() != 1350 {
				t.Errorf("bill total = %s, want 13.50", bl.Total)
			}
		}
	})
}

func TestSQLiteStoreNotFound(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.GetBill(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetBill of unknown id: %v, want ErrNotFound", err)
	}
	if _, err := store.ListItems(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("ListItems of unknown bill: %v, want ErrNotFound", err)
	}

	bill := &models.Bill{Title: "Real"}
	if err := store.CreateBill(ctx, bill); err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}

	if err := store.DeleteItem(ctx, bill.ID, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("DeleteItem of unknown id: %v, want ErrNotFound", err)
	}
	if err := store.UpdateFee(ctx, bill.ID, &models.Fee{ID: "missing", Description: "x", Price: money.MustFromCents(1)}); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("UpdateFee of unknown id: %v, want ErrNotFound", err)
	}
}
