package longshort

import "testing"

func TestEvaluateTarget(t *testing.T) {
	withStops := func(side Side, gain, loss string) Operation {
		op := Operation{Symbol: "PETR4", Side: side, Quantity: 100, EntryPrice: M(10)}
		if gain != "" {
			op.StopGain = MustParseMoney(gain)
		}
		if loss != "" {
			op.StopLoss = MustParseMoney(loss)
		}
		return op
	}
	testCases := []struct {
		name  string
		op    Operation
		price string
		want  Target
	}{
		{"long gain hit", withStops(Long, "12", ""), "12.50", GainHit},
		{"long gain boundary", withStops(Long, "12", ""), "12", GainHit},
		{"long below gain", withStops(Long, "12", "9"), "11.99", NoTarget},
		{"long loss hit", withStops(Long, "12", "9"), "9", LossHit},
		{"long unset stops", withStops(Long, "", ""), "1000", NoTarget},
		{"long zero price with unset loss", withStops(Long, "12", ""), "0.01", NoTarget},
		{"short gain hit", withStops(Short, "8", "11"), "7.9", GainHit},
		{"short loss hit", withStops(Short, "8", "11"), "11", LossHit},
		{"short between stops", withStops(Short, "8", "11"), "10", NoTarget},
		{"both hit defaults to gain", withStops(Long, "9", "11"), "10", GainHit},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := EvaluateTarget(tc.op, MustParseMoney(tc.price), GainFirst); got != tc.want {
				t.Errorf("EvaluateTarget(%s) = %v, want %v", tc.price, got, tc.want)
			}
		})
	}
}

func TestEvaluateTarget_Precedence(t *testing.T) {
	// inconsistent stops: both levels are crossed at 10.
	long := Operation{Symbol: "X", Side: Long, Quantity: 1, EntryPrice: M(10), StopGain: M(9), StopLoss: M(11)}
	short := Operation{Symbol: "X", Side: Short, Quantity: 1, EntryPrice: M(10), StopGain: M(11), StopLoss: M(9)}
	for _, op := range []Operation{long, short} {
		if got := EvaluateTarget(op, M(10), GainFirst); got != GainHit {
			t.Errorf("%v GainFirst = %v, want %v", op.Side, got, GainHit)
		}
		if got := EvaluateTarget(op, M(10), LossFirst); got != LossHit {
			t.Errorf("%v LossFirst = %v, want %v", op.Side, got, LossHit)
		}
	}
}

func TestParsePrecedence(t *testing.T) {
	for in, want := range map[string]Precedence{"": GainFirst, "gain": GainFirst, "loss": LossFirst} {
		got, err := ParsePrecedence(in)
		if err != nil || got != want {
			t.Errorf("ParsePrecedence(%q) = %v, %v, want %v", in, got, err, want)
		}
	}
	if _, err := ParsePrecedence("both"); err == nil {
		t.Errorf("ParsePrecedence(%q) error = nil, want an error", "both")
	}
}
