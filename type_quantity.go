package longshort

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float32:
		return decimal.NewFromFloat32(v)
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	case uint:
		return decimal.NewFromUint64(uint64(v))
	case uint32:
		return decimal.NewFromUint64(uint64(v))
	case uint64:
		return decimal.NewFromUint64(v)
	default:
		panic("unsupported type")
	}
}

// Quantity is a number of shares. Operations only trade whole shares.
type Quantity int64

// ParseQuantity parses a whole number of shares.
func ParseQuantity(s string) (Quantity, error) {
	q, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid quantity %q: %w", s, err)
	}
	return Quantity(q), nil
}

func (q Quantity) decimal() decimal.Decimal { return decimal.NewFromInt(int64(q)) }
func (q Quantity) IsPositive() bool         { return q > 0 }
func (q Quantity) String() string           { return strconv.FormatInt(int64(q), 10) }
