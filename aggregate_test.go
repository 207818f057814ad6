package longshort

import (
	"context"
	"testing"
	"time"

	"github.com/etnz/longshort/date"
)

func sampleSnapshot(t *testing.T) *Snapshot {
	t.Helper()
	s := NewSnapshot()
	s.Create("Ana", "Bruno", mustOp(t, "PETR4", Long, 100, "10"))  // 1000
	s.Create("Ana", "Bruno", mustOp(t, "VALE3", Short, 200, "50")) // 10000
	s.Create("Ana", "Carla", mustOp(t, "ITUB4", Long, 100, "30"))  // 3000
	s.Create("Davi", "Bruno", mustOp(t, "PETR4", Long, 50, "12"))  // 600
	s.Create("Davi", "Erika", mustOp(t, "XXXX3", Long, 10, "5"))   // no quote
	s.Close(Ref{"Ana", "Carla", 0}, M(33), date.New(2025, 3, 20))
	s.SetCapacity("Bruno", M(10000))
	s.SetCapacity("Carla", M(5000))
	return s
}

func samplePass(t *testing.T, s *Snapshot) *Pass {
	t.Helper()
	r := newFakeResolver(map[string]string{"PETR4": "11", "VALE3": "48"})
	return Evaluate(context.Background(), s, r, EvaluateOptions{})
}

// TestAggregate_SumOfParts checks that totals are the sum of the valued positions.
func TestAggregate_SumOfParts(t *testing.T) {
	s := sampleSnapshot(t)
	pass := samplePass(t, s)

	var net, notional Money
	for _, p := range pass.Valued() {
		net = net.Add(p.Valuation.Net)
		notional = notional.Add(p.Valuation.EntryNotional)
	}
	got := Aggregate(pass.Positions, Filter{})
	if !got.Net.Equal(net) {
		t.Errorf("Aggregate().Net = %v, want %v", got.Net.Decimal(), net.Decimal())
	}
	if !got.EntryNotional.Equal(notional) {
		t.Errorf("Aggregate().EntryNotional = %v, want %v", got.EntryNotional.Decimal(), notional.Decimal())
	}
	if got.Count != 4 || got.Skipped != 1 {
		t.Errorf("Aggregate() Count, Skipped = %d, %d, want 4, 1", got.Count, got.Skipped)
	}
	if want := net.Ratio(notional); !got.Return.Equal(want) {
		t.Errorf("Aggregate().Return = %v, want %v", got.Return, want)
	}
}

func TestAggregate_Filters(t *testing.T) {
	s := sampleSnapshot(t)
	pass := samplePass(t, s)

	testCases := []struct {
		name  string
		f     Filter
		count int
		net   string
	}{
		// PETR4 100@10 -> 11 is 89.5, VALE3 short is 302, PETR4 50@12 -> 11 is -50 - 3 - 2.75
		{"active", Filter{Status: ActiveOnly}, 3, "335.75"},
		// ITUB4 100@30 closed at 33: 300 - 15 - 16.5
		{"closed", Filter{Status: ClosedOnly}, 1, "268.5"},
		{"closing window", Filter{Closing: date.Month(2025, time.March)}, 1, "268.5"},
		{"closing window elsewhere", Filter{Closing: date.Month(2025, time.April)}, 0, "0"},
		{"advisor", Filter{Advisors: []string{"Davi"}}, 1, "-55.75"},
		{"client across advisors", Filter{Clients: []string{"Bruno"}}, 3, "335.75"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Aggregate(pass.Positions, tc.f)
			if got.Count != tc.count {
				t.Errorf("Count = %d, want %d", got.Count, tc.count)
			}
			if want := MustParseMoney(tc.net); !got.Net.Equal(want) {
				t.Errorf("Net = %v, want %v", got.Net.Decimal(), want.Decimal())
			}
		})
	}
}

func TestEmptyAggregate(t *testing.T) {
	got := Aggregate(nil, Filter{})
	if got.Count != 0 || !got.Net.IsZero() || !got.Return.IsZero() {
		t.Errorf("Aggregate(nil) = %+v, want zero totals", got)
	}
}

func TestSummarizeClients(t *testing.T) {
	s := sampleSnapshot(t)
	pass := samplePass(t, s)
	summaries := SummarizeClients(s, pass.Positions)
	if len(summaries) != 4 {
		t.Fatalf("len(SummarizeClients()) = %d, want 4", len(summaries))
	}
	byKey := make(map[string]ClientSummary)
	for _, c := range summaries {
		byKey[c.Advisor+"/"+c.Client] = c
	}

	carla := byKey["Ana/Carla"]
	if !carla.HasCapacity || !carla.Remaining.Equal(M(2000)) {
		t.Errorf("Ana/Carla Remaining = %v, want 2000", carla.Remaining.Decimal())
	}
	// Bruno is over-deployed: 10000 - (1000 + 10000 + 600).
	bruno := byKey["Ana/Bruno"]
	if !bruno.Remaining.Equal(M(-1600)) {
		t.Errorf("Ana/Bruno Remaining = %v, want -1600", bruno.Remaining.Decimal())
	}
	if bruno.Active.Count != 2 || bruno.Closed.Count != 0 {
		t.Errorf("Ana/Bruno Active, Closed = %d, %d, want 2, 0", bruno.Active.Count, bruno.Closed.Count)
	}
	if erika := byKey["Davi/Erika"]; erika.HasCapacity || erika.All.Skipped != 1 {
		t.Errorf("Davi/Erika = %+v, want no capacity and one skipped position", erika)
	}
}

func TestSummarizeAdvisors(t *testing.T) {
	s := sampleSnapshot(t)
	pass := samplePass(t, s)
	got := SummarizeAdvisors(s, pass.Positions)
	if len(got) != 2 || got[0].Advisor != "Ana" || got[1].Advisor != "Davi" {
		t.Fatalf("SummarizeAdvisors() = %+v, want Ana and Davi", got)
	}
	if got[0].Clients != 2 || got[0].All.Count != 3 {
		t.Errorf("Ana Clients, Count = %d, %d, want 2, 3", got[0].Clients, got[0].All.Count)
	}
}

func TestMonthlyClosed(t *testing.T) {
	s := sampleSnapshot(t)
	pass := samplePass(t, s)
	months := MonthlyClosed(pass.Positions, 2025, Filter{})
	if len(months) != 12 {
		t.Fatalf("len(MonthlyClosed()) = %d, want 12", len(months))
	}
	if got := months[time.March-1].Totals; got.Count != 1 || !got.Net.Equal(M(268.5)) {
		t.Errorf("March = %+v, want one operation at 268.5", got)
	}
	if got := months[0].Totals; got.Count != 0 {
		t.Errorf("January Count = %d, want 0", got.Count)
	}
	if years := ClosingYears(s); len(years) != 1 || years[0] != 2025 {
		t.Errorf("ClosingYears() = %v, want [2025]", years)
	}
}

func TestCapacityRemaining_Negative(t *testing.T) {
	ops := []Operation{mustOp(t, "PETR4", Long, 100, "10")}
	if got := CapacityRemaining(M(500), ops); !got.Equal(M(-500)) {
		t.Errorf("CapacityRemaining() = %v, want -500", got.Decimal())
	}
}
