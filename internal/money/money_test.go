package money

import (
	"encoding/json"
	"testing"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
		ok    bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"0.01", 1, true},
		{"0", 0, true},
		{" 2.50 ", 250, true},
		{"4.505", 451, true}, // half-up rounding on the third decimal
		{"4.504", 450, true},
		{"-1", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := Parse(tc.in)
		if tc.ok {
			if err != nil {
				t.Errorf("Parse(%q) unexpected error: %v", tc.in, err)
				continue
			}
			if got.Cents() != tc.cents {
				t.Errorf("Parse(%q) = %d cents, want %d", tc.in, got.Cents(), tc.cents)
			}
		} else if err == nil {
			t.Errorf("Parse(%q) expected error, got %v", tc.in, got)
		}
	}
}

func TestString(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{50, "0.50"},
		{1234, "12.34"},
		{100000, "1000.00"},
	}
	for _, tc := range cases {
		if got := MustFromCents(tc.cents).String(); got != tc.want {
			t.Errorf("String() of %d cents = %q, want %q", tc.cents, got, tc.want)
		}
	}
}

func TestShift(t *testing.T) {
	m := MustFromCents(1000)

	up, err := m.Shift(450)
	if err != nil {
		t.Fatalf("Shift(+450) failed: %v", err)
	}
	if up.Cents() != 1450 {
		t.Errorf("Shift(+450) = %d cents, want 1450", up.Cents())
	}

	down, err := m.Shift(-1000)
	if err != nil {
		t.Fatalf("Shift(-1000) failed: %v", err)
	}
	if !down.IsZero() {
		t.Errorf("Shift(-1000) = %d cents, want 0", down.Cents())
	}

	if _, err := m.Shift(-1001); err == nil {
		t.Error("Shift below zero should fail")
	}
}

func TestMulInt(t *testing.T) {
	if got := MustFromCents(450).MulInt(2); got.Cents() != 900 {
		t.Errorf("4.50 x 2 = %d cents, want 900", got.Cents())
	}
	if got := MustFromCents(450).MulInt(0); !got.IsZero() {
		t.Errorf("4.50 x 0 = %d cents, want 0", got.Cents())
	}
}

// Ten thousand cent-level additions and subtractions must land exactly on
// the integer-cents expectation, with no accumulated drift. This is the
// reason Money is not a float64.
func TestNoDriftOverManyOperations(t *testing.T) {
	dime := MustFromCents(10)
	total := Money{}

	for i := 0; i < 10000; i++ {
		total = total.Add(dime)
	}
	if total.Cents() != 100000 {
		t.Fatalf("after 10000 additions of 0.10: %d cents, want 100000", total.Cents())
	}

	var err error
	for i := 0; i < 10000; i++ {
		total, err = total.Shift(-dime.Cents())
		if err != nil {
			t.Fatalf("subtraction %d failed: %v", i, err)
		}
	}
	if !total.IsZero() {
		t.Fatalf("after matching subtractions: %d cents, want 0", total.Cents())
	}
}

func TestJSON(t *testing.T) {
	b, err := json.Marshal(MustFromCents(1905))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(b) != "19.05" {
		t.Errorf("Marshal = %s, want 19.05", b)
	}

	var m Money
	if err := json.Unmarshal([]byte("4.5"), &m); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if m.Cents() != 450 {
		t.Errorf("Unmarshal(4.5) = %d cents, want 450", m.Cents())
	}

	if err := json.Unmarshal([]byte(`"-3.00"`), &m); err == nil {
		t.Error("Unmarshal of negative amount should fail")
	}
}
