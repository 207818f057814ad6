package longshort

import (
	"strings"

	"github.com/etnz/longshort/date"
)

// Operation is a long or short position on a single symbol, owned by a client.
//
// The closing fields are only meaningful for a Closed operation. RealizedNet is set when the
// operation is closed and is never recomputed from market data afterwards.
type Operation struct {
	Symbol     string
	Side       Side
	Quantity   Quantity
	EntryPrice Money
	EntryDate  date.Date
	StopGain   Money // zero means unset
	StopLoss   Money // zero means unset
	Status     Status

	ClosingPrice Money
	ClosingDate  date.Date
	RealizedNet  Money
}

// NormalizeSymbol returns the canonical form of a symbol as stored in the snapshot.
func NormalizeSymbol(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }

// NewOperation returns a validated Active operation.
func NewOperation(symbol string, side Side, quantity Quantity, entryPrice Money, entryDate date.Date, stopGain, stopLoss Money) (Operation, error) {
	op := Operation{
		Symbol:     NormalizeSymbol(symbol),
		Side:       side,
		Quantity:   quantity,
		EntryPrice: entryPrice,
		EntryDate:  entryDate,
		StopGain:   stopGain,
		StopLoss:   stopLoss,
		Status:     Active,
	}
	if err := op.Validate(); err != nil {
		return Operation{}, err
	}
	return op, nil
}

// Validate checks the operation invariants.
func (op Operation) Validate() error {
	if op.Symbol == "" {
		return invalid("symbol", "must not be empty")
	}
	if op.Side != Long && op.Side != Short {
		return invalid("side", "unknown side %d", op.Side)
	}
	if !op.Quantity.IsPositive() {
		return invalid("quantity", "must be positive, got %v", op.Quantity)
	}
	if !op.EntryPrice.IsPositive() {
		return invalid("entry price", "must be positive, got %v", op.EntryPrice.Decimal())
	}
	if op.StopGain.IsNegative() {
		return invalid("stop gain", "must not be negative, got %v", op.StopGain.Decimal())
	}
	if op.StopLoss.IsNegative() {
		return invalid("stop loss", "must not be negative, got %v", op.StopLoss.Decimal())
	}
	if op.Status == Closed {
		if !op.ClosingPrice.IsPositive() {
			return invalid("closing price", "must be positive, got %v", op.ClosingPrice.Decimal())
		}
		if op.ClosingDate.IsZero() {
			return invalid("closing date", "must be set")
		}
	}
	return nil
}

// EntryNotional is the capital committed by the operation.
func (op Operation) EntryNotional() Money { return op.EntryPrice.Mul(op.Quantity) }

// IsActive reports whether the operation is still open.
func (op Operation) IsActive() bool { return op.Status == Active }
