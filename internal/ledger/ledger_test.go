package ledger

import (
	"testing"

	"github.com/ncolosso/splitter/internal/models"
	"github.com/ncolosso/splitter/internal/money"
)

func item(id, desc string, cents, qty int64) models.Item {
	return models.Item{ID: id, Description: desc, UnitPrice: money.MustFromCents(cents), Quantity: qty}
}

func TestLedgerOrderAndSum(t *testing.T) {
	var l Ledger[models.Item]

	l.Append(item("a", "Pizza", 2000, 1))
	l.Append(item("b", "Beer", 450, 2))
	l.Append(item("c", "Salad", 1000, 1))

	if l.Len() != 3 {
		t.Fatalf("Len = %d, want 3", l.Len())
	}

	entries := l.Entries()
	for i, want := range []string{"a", "b", "c"} {
		if entries[i].ID != want {
			t.Errorf("entries[%d].ID = %s, want %s (insertion order must hold)", i, entries[i].ID, want)
		}
	}

	// 20.00 + 2x4.50 + 10.00
	if got := l.Sum(); got.Cents() != 3900 {
		t.Errorf("Sum = %s, want 39.00", got)
	}
}

func TestLedgerReplace(t *testing.T) {
	var l Ledger[models.Item]
	l.Append(item("a", "Pizza", 2000, 1))
	l.Append(item("b", "Beer", 450, 2))

	if !l.Replace("a", item("a", "Calzone", 2200, 1)) {
		t.Fatal("Replace of known id reported not found")
	}

	got, ok := l.Get("a")
	if !ok || got.Description != "Calzone" || got.UnitPrice.Cents() != 2200 {
		t.Errorf("after Replace: got %+v", got)
	}
	if l.Entries()[0].ID != "a" {
		t.Error("Replace must keep the entry's position")
	}
}

func TestLedgerRemove(t *testing.T) {
	var l Ledger[models.Item]
	l.Append(item("a", "Pizza", 2000, 1))
	l.Append(item("b", "Beer", 450, 2))
	l.Append(item("c", "Salad", 1000, 1))

	if !l.Remove("b") {
		t.Fatal("Remove of known id reported not found")
	}
	if l.Len() != 2 {
		t.Fatalf("Len after Remove = %d, want 2", l.Len())
	}
	if _, ok := l.Get("b"); ok {
		t.Error("removed entry still present")
	}

	entries := l.Entries()
	if entries[0].ID != "a" || entries[1].ID != "c" {
		t.Errorf("order after Remove: %s, %s", entries[0].ID, entries[1].ID)
	}
}

func TestLedgerUnknownIDIsNoOp(t *testing.T) {
	var l Ledger[models.Item]
	l.Append(item("a", "Pizza", 2000, 1))

	before := l.Entries()

	if l.Replace("ghost", item("ghost", "Nothing", 100, 1)) {
		t.Error("Replace of unknown id reported found")
	}
	if l.Remove("ghost") {
		t.Error("Remove of unknown id reported found")
	}

	after := l.Entries()
	if len(after) != len(before) || after[0] != before[0] {
		t.Errorf("ledger changed by unknown-id mutation: %+v", after)
	}
	if got := l.Sum(); got.Cents() != 2000 {
		t.Errorf("Sum changed by unknown-id mutation: %s", got)
	}
}

func TestLedgerLoadReplacesContents(t *testing.T) {
	var l Ledger[models.Fee]
	l.Append(models.Fee{ID: "x", Description: "Tip", Price: money.MustFromCents(500)})

	l.Load([]models.Fee{
		{ID: "f1", Description: "Delivery", Price: money.MustFromCents(300)},
		{ID: "f2", Description: "Service", Price: money.MustFromCents(200)},
	})

	if l.Len() != 2 {
		t.Fatalf("Len after Load = %d, want 2", l.Len())
	}
	if _, ok := l.Get("x"); ok {
		t.Error("Load must replace previous contents")
	}
	if got := l.Sum(); got.Cents() != 500 {
		t.Errorf("Sum after Load = %s, want 5.00", got)
	}
}
