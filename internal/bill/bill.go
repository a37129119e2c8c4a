// Package bill implements the synced mutation engine that keeps a bill's
// ledgers and running total consistent with the remote service.
//
// Every create, update and delete round-trips through the gateway first.
// Only a confirmed response mutates local state, and the ledger change and
// the matching total delta are applied in one atomic step, so a reader never
// sees one without the other. A failed round trip leaves state exactly as it
// was and is never retried automatically.
//
// The total is maintained by deltas, not re-summed per mutation. Deltas for
// updates and deletes are computed from the entry's value captured before
// the request was sent, so responses arriving out of order still net out
// correctly across different entries. Mutations targeting the same entry id
// are serialized by a per-id lock; without it, a racing update and delete on
// one entry could double-count its contribution.
package bill

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ncolosso/splitter/internal/gateway"
	"github.com/ncolosso/splitter/internal/ledger"
	"github.com/ncolosso/splitter/internal/metrics"
	"github.com/ncolosso/splitter/internal/models"
	"github.com/ncolosso/splitter/internal/money"
)

// TotalObserver is notified with the bill id and the new total after every
// confirmed mutation. Observers run synchronously; a panicking observer is
// recovered and logged so it cannot corrupt the engine, and an observer
// whose view is gone can simply do nothing.
type TotalObserver func(billID string, total money.Money)

// Bill is the stateful aggregate for one bill: two ledgers, a running
// total and the gateways that confirm every mutation. Safe for concurrent
// use.
type Bill struct {
	id    string
	items gateway.ItemGateway
	fees  gateway.FeeGateway

	keys keyedMutex

	mu         sync.Mutex
	itemLedger ledger.Ledger[models.Item]
	feeLedger  ledger.Ledger[models.Fee]
	total      money.Money
	observers  map[int]TotalObserver
	nextObs    int
}

// Option configures a Bill.
type Option func(*Bill)

// WithObserver subscribes fn at construction time. Further observers can be
// added later with Subscribe.
func WithObserver(fn TotalObserver) Option {
	return func(b *Bill) {
		b.observers[b.nextObs] = fn
		b.nextObs++
	}
}

// New creates the engine for one bill. The ledgers start empty; call Load
// to populate them from the remote service.
func New(billID string, items gateway.ItemGateway, fees gateway.FeeGateway, opts ...Option) *Bill {
	b := &Bill{
		id:        billID,
		items:     items,
		fees:      fees,
		observers: make(map[int]TotalObserver),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// ID returns the bill's identity.
func (b *Bill) ID() string { return b.id }

// Total returns the current running total.
func (b *Bill) Total() money.Money {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.total
}

// Items returns a copy of the item ledger in insertion order.
func (b *Bill) Items() []models.Item {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.itemLedger.Entries()
}

// Fees returns a copy of the fee ledger in insertion order.
func (b *Bill) Fees() []models.Fee {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.feeLedger.Entries()
}

// Load fetches both ledgers from the remote service, replacing local
// contents wholesale, and re-sums the total from the fetched entries. It is
// the only operation besides Reconcile that replaces a ledger rather than
// editing it.
func (b *Bill) Load(ctx context.Context) error {
	items, err := b.items.List(ctx, b.id)
	if err != nil {
		slog.Error("bill: load items failed", "bill_id", b.id, "error", err)
		return err
	}
	fees, err := b.fees.List(ctx, b.id)
	if err != nil {
		slog.Error("bill: load fees failed", "bill_id", b.id, "error", err)
		return err
	}

	b.mu.Lock()
	b.itemLedger.Load(items)
	b.feeLedger.Load(fees)
	b.total = b.itemLedger.Sum().Add(b.feeLedger.Sum())
	total := b.total
	b.mu.Unlock()

	slog.Info("bill: loaded", "bill_id", b.id, "items", len(items), "fees", len(fees), "total", total)
	b.notify(total)
	return nil
}

// Subscribe registers an observer and returns its cancel func. After cancel
// returns, the observer is never invoked again; any in-flight mutation
// that confirms later simply no longer sees it.
func (b *Bill) Subscribe(fn TotalObserver) (cancel func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextObs
	b.nextObs++
	b.observers[id] = fn
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.observers, id)
	}
}

// notify invokes every observer with the total captured at commit time.
// Observers run outside the state mutex so they may read the bill freely.
func (b *Bill) notify(total money.Money) {
	b.mu.Lock()
	obs := make([]TotalObserver, 0, len(b.observers))
	for _, fn := range b.observers {
		obs = append(obs, fn)
	}
	b.mu.Unlock()

	for _, fn := range obs {
		b.safeNotify(fn, total)
	}
}

func (b *Bill) safeNotify(fn TotalObserver, total money.Money) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("bill: total observer panicked", "bill_id", b.id, "panic", r)
		}
	}()
	fn(b.id, total)
}

// Reconcile fetches both ledgers from the authoritative service and
// replaces local state. It returns the signed cent drift between the cached
// running total and the authoritative re-sum; a non-zero drift is logged
// and counted, since deltas should never have let the two diverge.
func (b *Bill) Reconcile(ctx context.Context) (driftCents int64, err error) {
	items, err := b.items.List(ctx, b.id)
	if err != nil {
		return 0, err
	}
	fees, err := b.fees.List(ctx, b.id)
	if err != nil {
		return 0, err
	}

	b.mu.Lock()
	b.itemLedger.Load(items)
	b.feeLedger.Load(fees)
	authoritative := b.itemLedger.Sum().Add(b.feeLedger.Sum())
	driftCents = authoritative.Delta(b.total)
	b.total = authoritative
	b.mu.Unlock()

	if driftCents != 0 {
		metrics.ReconcileDrift.Inc()
		slog.Warn("bill: cached total drifted from authoritative re-sum",
			"bill_id", b.id, "drift_cents", driftCents, "total", authoritative)
		b.notify(authoritative)
	}
	return driftCents, nil
}

// commit applies a ledger edit and the matching total delta as one step
// under the state mutex, then notifies observers with the committed total.
// apply returns the signed cent delta to shift the total by, or false when
// the targeted entry is absent locally, in which case the total is left
// alone to keep it equal to the ledger sum.
func (b *Bill) commit(apply func() (int64, bool)) {
	b.mu.Lock()
	delta, ok := apply()
	if !ok {
		b.mu.Unlock()
		metrics.ConsistencyWarnings.Inc()
		return
	}
	shifted, err := b.total.Shift(delta)
	if err != nil {
		// Should be unreachable: the delta always derives from entries the
		// ledger holds. Restore the invariant from scratch and scream.
		slog.Error("bill: total underflow, re-summing", "bill_id", b.id, "error", err)
		shifted = b.itemLedger.Sum().Add(b.feeLedger.Sum())
	}
	b.total = shifted
	b.mu.Unlock()

	b.notify(shifted)
}
