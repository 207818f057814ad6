package longshort

import "github.com/shopspring/decimal"

// Percent is an exact percentage: 8.95 means 8.95%.
type Percent struct {
	value decimal.Decimal
}

// P returns a Percent from a value already expressed in percent.
func P[T float64 | int | int64 | decimal.Decimal](value T) Percent {
	return Percent{value: newDecimal(value)}
}

func (p Percent) Equal(q Percent) bool       { return p.value.Equal(q.value) }
func (p Percent) IsZero() bool               { return p.value.IsZero() }
func (p Percent) IsNegative() bool           { return p.value.IsNegative() }
func (p Percent) Decimal() decimal.Decimal   { return p.value }
func (p Percent) Round(places int32) Percent { return Percent{value: p.value.Round(places)} }

func (p Percent) String() string {
	return p.value.StringFixed(2) + "%"
}

func (p Percent) SignedString() string {
	res := p.value.StringFixed(2)
	switch {
	case res == "0.00" || res == "-0.00":
		return "-"
	case p.value.IsPositive():
		return "+" + res + "%"
	default:
		return res + "%"
	}
}

// MarshalJSON writes the percentage rounded to 4 decimals.
func (p Percent) MarshalJSON() ([]byte, error) {
	return []byte(p.value.Round(4).String()), nil
}
