package longshort

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency is the only currency handled by the desk.
const Currency = money.BRL

// Money represents an exact monetary value in major units (reais).
type Money struct {
	value decimal.Decimal
}

func M[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Money {
	return Money{value: newDecimal(value)}
}

// ParseMoney parses an amount, accepting both "1234.56" and the local "1.234,56" notation.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Money{value: d}, nil
}

// MustParseMoney is like ParseMoney but panics on error.
func MustParseMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err.Error())
	}
	return m
}

// String returns the local representation of the money value, rounded to cents.
func (m Money) String() string {
	cents := m.value.Round(2).Shift(2).IntPart()
	return money.New(cents, Currency).Display()
}

// SignedString returns the string representation of the money value with a sign.
// 0 is represented as a "-"
func (m Money) SignedString() string {
	if m.value.Round(2).IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}

// Decimal returns the exact value.
func (m Money) Decimal() decimal.Decimal { return m.value }

// Fixed returns the value rounded to cents, without currency symbol ("1234.50").
func (m Money) Fixed() string { return m.value.StringFixed(2) }

// Simple wrapper around decimal.Decimal

func (m Money) Equal(n Money) bool              { return m.value.Equal(n.value) }
func (m Money) IsZero() bool                    { return m.value.IsZero() }
func (m Money) IsPositive() bool                { return m.value.IsPositive() }
func (m Money) IsNegative() bool                { return m.value.IsNegative() }
func (m Money) LessThan(amount Money) bool      { return m.value.LessThan(amount.value) }
func (m Money) LessThanOrEqual(n Money) bool    { return m.value.LessThanOrEqual(n.value) }
func (m Money) GreaterThan(n Money) bool        { return m.value.GreaterThan(n.value) }
func (m Money) GreaterThanOrEqual(n Money) bool { return m.value.GreaterThanOrEqual(n.value) }
func (m Money) Neg() Money                      { return Money{value: m.value.Neg()} }
func (m Money) Add(n Money) Money               { return Money{value: m.value.Add(n.value)} }
func (m Money) Sub(n Money) Money               { return Money{value: m.value.Sub(n.value)} }
func (m Money) Mul(q Quantity) Money            { return Money{value: m.value.Mul(q.decimal())} }
func (m Money) Scale(rate decimal.Decimal) Money {
	return Money{value: m.value.Mul(rate)}
}

// Ratio returns m / n as a percentage, or 0 when n is zero.
func (m Money) Ratio(n Money) Percent {
	if n.value.IsZero() {
		return Percent{}
	}
	return Percent{value: m.value.Div(n.value).Shift(2)}
}

// Deprecated: AsFloat should only be used for charts, the purpose is to keep the calculation exact.
func (m Money) AsFloat() float64 { return m.value.InexactFloat64() }

// MarshalJSON writes the exact value as a json number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.value.String()), nil
}

// UnmarshalJSON reads a json number or a string with a number, null being zero.
func (m *Money) UnmarshalJSON(b []byte) error {
	var f flexDecimal
	if err := f.UnmarshalJSON(b); err != nil {
		return err
	}
	m.value = f.value
	return nil
}
