// Package money implements a fixed-point monetary amount.
//
// Amounts are stored as integer cents so that arithmetic never accumulates
// binary floating-point drift, no matter how many mutations a bill goes
// through. Decimal strings and JSON numbers are converted at the boundary
// only.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidAmount reports a value that cannot be read as a decimal amount.
	ErrInvalidAmount = errors.New("money: invalid amount")

	// ErrNegativeAmount reports an operation that would produce an amount
	// below zero. Bill entries and totals are never negative.
	ErrNegativeAmount = errors.New("money: negative amount")
)

// Money is a non-negative amount with cent precision.
// The zero value is 0.00 and ready to use. Money values are comparable
// with ==.
type Money struct {
	cents int64
}

// FromCents builds a Money from an integer number of cents.
func FromCents(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, fmt.Errorf("%w: %d cents", ErrNegativeAmount, cents)
	}
	return Money{cents: cents}, nil
}

// MustFromCents is FromCents for values known to be valid, such as test
// fixtures. It panics on a negative input.
func MustFromCents(cents int64) Money {
	m, err := FromCents(cents)
	if err != nil {
		panic(err)
	}
	return m
}

// Parse converts a decimal string such as "12.34" to Money.
// A third decimal digit and beyond is rounded half-up, matching how
// amounts are normalized on entry. Negative amounts are rejected.
func Parse(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return fromDecimal(d)
}

func fromDecimal(d decimal.Decimal) (Money, error) {
	if d.IsNegative() {
		return Money{}, fmt.Errorf("%w: %s", ErrNegativeAmount, d)
	}
	// Round half-up on anything past the second decimal.
	return Money{cents: d.Shift(2).Round(0).IntPart()}, nil
}

// Cents returns the amount in integer cents.
func (m Money) Cents() int64 { return m.cents }

// IsZero reports whether the amount is exactly 0.00.
func (m Money) IsZero() bool { return m.cents == 0 }

// Add returns m + o.
func (m Money) Add(o Money) Money {
	return Money{cents: m.cents + o.cents}
}

// MulInt returns m multiplied by a non-negative integer count.
// Item contributions are unit price times quantity.
func (m Money) MulInt(n int64) Money {
	if n < 0 {
		n = 0
	}
	return Money{cents: m.cents * n}
}

// Delta returns the signed difference m - o in cents. Deltas may be
// negative even though Money itself never is; they are applied with Shift.
func (m Money) Delta(o Money) int64 {
	return m.cents - o.cents
}

// Shift applies a signed cent delta and returns the adjusted amount.
// A delta that would take the amount below zero is an error and leaves
// the receiver meaningless to the caller; totals only shift by deltas of
// entries they already contain, so this indicates a bookkeeping bug.
func (m Money) Shift(delta int64) (Money, error) {
	c := m.cents + delta
	if c < 0 {
		return Money{}, fmt.Errorf("%w: %d cents after delta %+d", ErrNegativeAmount, c, delta)
	}
	return Money{cents: c}, nil
}

// String renders the amount with exactly two decimals, e.g. "12.34".
// Currency symbols are presentation concerns and stay out of this package.
func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", m.cents/100, m.cents%100)
}

// MarshalJSON encodes the amount as a plain JSON number with two decimals.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts either a JSON number or a quoted decimal string.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
