package longshort

import (
	"testing"
)

func TestValuate(t *testing.T) {
	testCases := []struct {
		name                           string
		side                           Side
		qty                            Quantity
		entry, ref                     string
		gross, cost, net, returnString string
	}{
		{"long gain", Long, 100, "10", "11", "100", "10.5", "89.5", "8.95%"},
		{"short gain", Short, 200, "50", "48", "400", "98", "302", "3.02%"},
		{"long loss", Long, 100, "10", "9", "-100", "9.5", "-109.5", "-10.95%"},
		{"short loss", Short, 10, "20", "25", "-50", "2.25", "-52.25", "-26.13%"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			op := mustOp(t, "PETR4", tc.side, tc.qty, tc.entry)
			v := Valuate(op, MustParseMoney(tc.ref))
			if want := MustParseMoney(tc.gross); !v.Gross.Equal(want) {
				t.Errorf("Gross = %v, want %v", v.Gross.Decimal(), want.Decimal())
			}
			if want := MustParseMoney(tc.cost); !v.Cost.Equal(want) {
				t.Errorf("Cost = %v, want %v", v.Cost.Decimal(), want.Decimal())
			}
			if want := MustParseMoney(tc.net); !v.Net.Equal(want) {
				t.Errorf("Net = %v, want %v", v.Net.Decimal(), want.Decimal())
			}
			if got := v.Return.String(); got != tc.returnString {
				t.Errorf("Return = %v, want %v", got, tc.returnString)
			}
		})
	}
}

func TestValuate_ScenarioExactReturn(t *testing.T) {
	v := Valuate(mustOp(t, "VALE3", Long, 100, "10"), M(11))
	if !v.Return.Equal(P(8.95)) {
		t.Errorf("Return = %v, want exactly 8.95", v.Return.Decimal())
	}
	v = Valuate(mustOp(t, "VALE3", Short, 200, "50"), M(48))
	if !v.Return.Equal(P(3.02)) {
		t.Errorf("Return = %v, want exactly 3.02", v.Return.Decimal())
	}
}

// TestValuate_RoundTrip checks that unwinding at the entry price costs exactly the transaction cost.
func TestValuate_RoundTrip(t *testing.T) {
	for _, side := range []Side{Long, Short} {
		op := mustOp(t, "ITUB4", side, 300, "27.43")
		v := Valuate(op, op.EntryPrice)
		if !v.Gross.IsZero() {
			t.Errorf("%v: Gross = %v, want 0", side, v.Gross.Decimal())
		}
		if want := v.Cost.Neg(); !v.Net.Equal(want) {
			t.Errorf("%v: Net = %v, want %v", side, v.Net.Decimal(), want.Decimal())
		}
		// 0.5% on both legs of 8229
		if want := MustParseMoney("82.29"); !v.Cost.Equal(want) {
			t.Errorf("%v: Cost = %v, want %v", side, v.Cost.Decimal(), want.Decimal())
		}
	}
}

func TestValuate_ZeroNotional(t *testing.T) {
	// an invalid operation is still valued without panicking.
	op := Operation{Symbol: "X", Side: Long, Quantity: 0, EntryPrice: M(10)}
	v := Valuate(op, M(12))
	if !v.Return.IsZero() {
		t.Errorf("Return = %v, want 0", v.Return)
	}
}

func TestValuate_Monotonic(t *testing.T) {
	long := mustOp(t, "BBAS3", Long, 100, "30")
	short := mustOp(t, "BBAS3", Short, 100, "30")
	prev, prevShort := Valuate(long, M(20)).Net, Valuate(short, M(20)).Net
	for price := 21; price <= 40; price++ {
		net := Valuate(long, M(price)).Net
		if !net.GreaterThan(prev) {
			t.Errorf("long Net(%d) = %v, want more than %v", price, net.Decimal(), prev.Decimal())
		}
		netShort := Valuate(short, M(price)).Net
		if !netShort.LessThan(prevShort) {
			t.Errorf("short Net(%d) = %v, want less than %v", price, netShort.Decimal(), prevShort.Decimal())
		}
		prev, prevShort = net, netShort
	}
}
