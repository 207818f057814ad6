package longshort

import (
	"context"
	"errors"
	"testing"

	"github.com/etnz/longshort/date"
)

func TestEvaluate_ResolvesEachSymbolOnce(t *testing.T) {
	s := NewSnapshot()
	s.Create("Ana", "Bruno", mustOp(t, "PETR4", Long, 100, "10"))
	s.Create("Ana", "Carla", mustOp(t, "PETR4", Short, 100, "12"))
	s.Create("Davi", "Bruno", mustOp(t, "PETR4", Long, 10, "11"))
	s.Create("Davi", "Bruno", mustOp(t, "VALE3", Long, 10, "60"))

	r := newFakeResolver(map[string]string{"PETR4": "11", "VALE3": "62"})
	pass := Evaluate(context.Background(), s, r, EvaluateOptions{})
	for sym, n := range r.calls {
		if n != 1 {
			t.Errorf("Resolve(%s) called %d times, want 1", sym, n)
		}
	}
	if len(pass.Positions) != 4 {
		t.Fatalf("len(Positions) = %d, want 4", len(pass.Positions))
	}
	if got := pass.Positions[0].Ref; got != (Ref{"Ana", "Bruno", 0}) {
		t.Errorf("Positions[0].Ref = %v, want Ana/Bruno#0", got)
	}
	if got := pass.Positions[0].Valuation.Net; !got.Equal(M(89.5)) {
		t.Errorf("Positions[0].Net = %v, want 89.5", got.Decimal())
	}
}

// panicResolver panics on one symbol and prices the others.
type panicResolver struct {
	*fakeResolver
	symbol string
}

func (r panicResolver) Resolve(ctx context.Context, symbol string) (Quote, error) {
	if symbol == r.symbol {
		panic("feed is gone")
	}
	return r.fakeResolver.Resolve(ctx, symbol)
}

func TestEvaluate_ResolverPanic(t *testing.T) {
	s := NewSnapshot()
	s.Create("Ana", "Bruno", mustOp(t, "PETR4", Long, 100, "10"))
	s.Create("Ana", "Bruno", mustOp(t, "VALE3", Long, 10, "60"))

	r := panicResolver{newFakeResolver(map[string]string{"PETR4": "11", "VALE3": "62"}), "VALE3"}
	pass := Evaluate(context.Background(), s, r, EvaluateOptions{})

	if !errors.Is(pass.Failures["VALE3"], ErrQuoteUnavailable) {
		t.Errorf("Failures[VALE3] = %v, want ErrQuoteUnavailable", pass.Failures["VALE3"])
	}
	if !pass.Positions[0].Valued() {
		t.Errorf("Positions[0].Err = %v, want a valuation", pass.Positions[0].Err)
	}
	if pass.Positions[1].Valued() {
		t.Errorf("Positions[1] is valued, want the resolver failure")
	}
}

func TestEvaluate_IsolatesFailures(t *testing.T) {
	s := NewSnapshot()
	s.Create("Ana", "Bruno", mustOp(t, "PETR4", Long, 100, "10"))
	s.Create("Ana", "Bruno", mustOp(t, "XXXX3", Long, 100, "10"))

	r := newFakeResolver(map[string]string{"PETR4": "11"})
	pass := Evaluate(context.Background(), s, r, EvaluateOptions{})

	if got := pass.FailedSymbols(); len(got) != 1 || got[0] != "XXXX3" {
		t.Errorf("FailedSymbols() = %v, want [XXXX3]", got)
	}
	failed := pass.Positions[1]
	if failed.Valued() || !errors.Is(failed.Err, ErrQuoteUnavailable) {
		t.Errorf("Positions[1].Err = %v, want ErrQuoteUnavailable", failed.Err)
	}
	if !failed.Valuation.Net.IsZero() {
		t.Errorf("Positions[1].Net = %v, want no valuation", failed.Valuation.Net.Decimal())
	}
	if !pass.Positions[0].Valued() {
		t.Errorf("Positions[0].Err = %v, want a valuation", pass.Positions[0].Err)
	}
	if n := len(pass.Valued()); n != 1 {
		t.Errorf("len(Valued()) = %d, want 1", n)
	}
}

// zeroResolver returns a zero price without error.
type zeroResolver struct{}

func (zeroResolver) Resolve(_ context.Context, symbol string) (Quote, error) {
	return Quote{Symbol: symbol}, nil
}

func TestEvaluate_RejectsZeroPrice(t *testing.T) {
	s := NewSnapshot()
	s.Create("Ana", "Bruno", mustOp(t, "PETR4", Long, 100, "10"))
	pass := Evaluate(context.Background(), s, zeroResolver{}, EvaluateOptions{})
	if pass.Positions[0].Valued() {
		t.Errorf("Positions[0] valued with a zero price")
	}
}

func TestEvaluate_Targets(t *testing.T) {
	s := NewSnapshot()
	op, err := NewOperation("PETR4", Long, 100, M(10), date.New(2025, 3, 10), M(12), M(9))
	if err != nil {
		t.Fatalf("NewOperation() error = %v", err)
	}
	s.Create("Ana", "Bruno", op)
	pass := Evaluate(context.Background(), s, newFakeResolver(map[string]string{"PETR4": "12.50"}), EvaluateOptions{})
	if got := pass.Positions[0].Target; got != GainHit {
		t.Errorf("Target = %v, want %v", got, GainHit)
	}
}

func TestEvaluateWithoutResolver(t *testing.T) {
	s := NewSnapshot()
	s.Create("Ana", "Bruno", mustOp(t, "PETR4", Long, 100, "10"))
	c, _ := s.Create("Ana", "Bruno", mustOp(t, "VALE3", Short, 200, "50"))
	if _, err := s.Close(c.Ref, M(48), date.New(2025, 3, 20)); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	pass := Evaluate(context.Background(), s, nil, EvaluateOptions{})
	if got := len(pass.Valued()); got != 1 {
		t.Fatalf("len(Valued()) = %d, want 1", got)
	}
	if got := pass.Valued()[0].Valuation.Net; !got.Equal(M(302)) {
		t.Errorf("closed net = %v, want 302", got)
	}
	if !errors.Is(pass.Failures["PETR4"], ErrQuoteUnavailable) {
		t.Errorf("Failures[PETR4] = %v, want a quote error", pass.Failures["PETR4"])
	}
}
