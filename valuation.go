package longshort

import "github.com/shopspring/decimal"

// CostRate is the transaction cost charged on the notional of each leg of an operation.
var CostRate = decimal.RequireFromString("0.005")

// Valuation is the result of an operation at a reference price.
type Valuation struct {
	Reference     Money
	EntryNotional Money
	ExitNotional  Money
	Gross         Money
	Cost          Money
	Net           Money
	Return        Percent // Net / EntryNotional, 0 if the notional is 0
}

// Valuate computes the result of op if it was unwound at price ref.
//
// The computation is exact, values are only rounded when displayed.
func Valuate(op Operation, ref Money) Valuation {
	entry := op.EntryPrice.Mul(op.Quantity)
	exit := ref.Mul(op.Quantity)

	var gross Money
	switch op.Side {
	case Short:
		gross = op.EntryPrice.Sub(ref).Mul(op.Quantity)
	default:
		gross = ref.Sub(op.EntryPrice).Mul(op.Quantity)
	}
	cost := entry.Scale(CostRate).Add(exit.Scale(CostRate))
	net := gross.Sub(cost)

	return Valuation{
		Reference:     ref,
		EntryNotional: entry,
		ExitNotional:  exit,
		Gross:         gross,
		Cost:          cost,
		Net:           net,
		Return:        net.Ratio(entry),
	}
}

// realize computes the frozen net result of op closed at price.
func realize(op Operation, price Money) Money { return Valuate(op, price).Net }
