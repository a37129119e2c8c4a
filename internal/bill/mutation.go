package bill

import (
	"context"
	"log/slog"

	"github.com/ncolosso/splitter/internal/gateway"
	"github.com/ncolosso/splitter/internal/metrics"
	"github.com/ncolosso/splitter/internal/models"
	"github.com/ncolosso/splitter/internal/money"
)

// Each mutation below is one synced round trip: send the request, await
// confirmation, then apply the ledger change and total delta together.
// On failure nothing is applied; the caller keeps whatever input produced
// the attempt and may resubmit.

// AddItem creates a new item on the remote service and, once confirmed,
// appends the canonical entity and adds its contribution to the total.
func (b *Bill) AddItem(ctx context.Context, fields gateway.ItemFields) (models.Item, error) {
	item, err := b.items.Create(ctx, b.id, fields)
	if err != nil {
		metrics.Mutations.WithLabelValues("item", "create", "failed").Inc()
		slog.Warn("bill: create item failed, state unchanged", "bill_id", b.id, "error", err)
		return models.Item{}, err
	}

	b.commit(func() (int64, bool) {
		b.itemLedger.Append(item)
		return item.Contribution().Cents(), true
	})

	metrics.Mutations.WithLabelValues("item", "create", "confirmed").Inc()
	slog.Info("bill: item created", "bill_id", b.id, "item_id", item.ID, "contribution", item.Contribution())
	return item, nil
}

// UpdateItem sends full replacement fields for an existing item. Once
// confirmed, the ledger entry is swapped and the total shifts by the new
// contribution minus the one captured before the request was sent.
func (b *Bill) UpdateItem(ctx context.Context, id string, fields gateway.ItemFields) (models.Item, error) {
	unlock := b.keys.lock("item/" + id)
	defer unlock()

	old := b.itemContribution(id)

	item, err := b.items.Update(ctx, b.id, id, fields)
	if err != nil {
		metrics.Mutations.WithLabelValues("item", "update", "failed").Inc()
		slog.Warn("bill: update item failed, state unchanged", "bill_id", b.id, "item_id", id, "error", err)
		return models.Item{}, err
	}

	b.commit(func() (int64, bool) {
		if !b.itemLedger.Replace(id, item) {
			return 0, false
		}
		return item.Contribution().Cents() - old, true
	})

	metrics.Mutations.WithLabelValues("item", "update", "confirmed").Inc()
	return item, nil
}

// RemoveItem deletes an item. The contribution subtracted from the total is
// the one captured before the request was sent, the full unit price times
// quantity.
func (b *Bill) RemoveItem(ctx context.Context, id string) error {
	unlock := b.keys.lock("item/" + id)
	defer unlock()

	old := b.itemContribution(id)

	if err := b.items.Delete(ctx, b.id, id); err != nil {
		metrics.Mutations.WithLabelValues("item", "delete", "failed").Inc()
		slog.Warn("bill: delete item failed, state unchanged", "bill_id", b.id, "item_id", id, "error", err)
		return err
	}

	b.commit(func() (int64, bool) {
		if !b.itemLedger.Remove(id) {
			return 0, false
		}
		return -old, true
	})

	metrics.Mutations.WithLabelValues("item", "delete", "confirmed").Inc()
	return nil
}

// AddFee creates a new fee and, once confirmed, appends the canonical
// entity and adds its price to the total.
func (b *Bill) AddFee(ctx context.Context, fields gateway.FeeFields) (models.Fee, error) {
	fee, err := b.fees.Create(ctx, b.id, fields)
	if err != nil {
		metrics.Mutations.WithLabelValues("fee", "create", "failed").Inc()
		slog.Warn("bill: create fee failed, state unchanged", "bill_id", b.id, "error", err)
		return models.Fee{}, err
	}

	b.commit(func() (int64, bool) {
		b.feeLedger.Append(fee)
		return fee.Contribution().Cents(), true
	})

	metrics.Mutations.WithLabelValues("fee", "create", "confirmed").Inc()
	slog.Info("bill: fee created", "bill_id", b.id, "fee_id", fee.ID, "contribution", fee.Contribution())
	return fee, nil
}

// UpdateFee sends full replacement fields for an existing fee.
func (b *Bill) UpdateFee(ctx context.Context, id string, fields gateway.FeeFields) (models.Fee, error) {
	unlock := b.keys.lock("fee/" + id)
	defer unlock()

	old := b.feeContribution(id)

	fee, err := b.fees.Update(ctx, b.id, id, fields)
	if err != nil {
		metrics.Mutations.WithLabelValues("fee", "update", "failed").Inc()
		slog.Warn("bill: update fee failed, state unchanged", "bill_id", b.id, "fee_id", id, "error", err)
		return models.Fee{}, err
	}

	b.commit(func() (int64, bool) {
		if !b.feeLedger.Replace(id, fee) {
			return 0, false
		}
		return fee.Contribution().Cents() - old, true
	})

	metrics.Mutations.WithLabelValues("fee", "update", "confirmed").Inc()
	return fee, nil
}

// RemoveFee deletes a fee and subtracts its captured price from the total.
func (b *Bill) RemoveFee(ctx context.Context, id string) error {
	unlock := b.keys.lock("fee/" + id)
	defer unlock()

	old := b.feeContribution(id)

	if err := b.fees.Delete(ctx, b.id, id); err != nil {
		metrics.Mutations.WithLabelValues("fee", "delete", "failed").Inc()
		slog.Warn("bill: delete fee failed, state unchanged", "bill_id", b.id, "fee_id", id, "error", err)
		return err
	}

	b.commit(func() (int64, bool) {
		if !b.feeLedger.Remove(id) {
			return 0, false
		}
		return -old, true
	})

	metrics.Mutations.WithLabelValues("fee", "delete", "confirmed").Inc()
	return nil
}

// itemContribution reads an item's current contribution in cents, zero when
// the entry is unknown locally. Callers hold the entry's key lock, so the
// value cannot change between here and the commit step.
func (b *Bill) itemContribution(id string) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	item, ok := b.itemLedger.Get(id)
	if !ok {
		return 0
	}
	return item.Contribution().Cents()
}

func (b *Bill) feeContribution(id string) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	fee, ok := b.feeLedger.Get(id)
	if !ok {
		return 0
	}
	return fee.Contribution().Cents()
}

// resum recomputes the total from scratch. Verification only; the engine
// itself relies on deltas.
func (b *Bill) resum() money.Money {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.itemLedger.Sum().Add(b.feeLedger.Sum())
}
