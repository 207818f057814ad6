package longshort

import "fmt"

// Target tells whether a stop level has been reached.
type Target int

const (
	NoTarget Target = iota
	GainHit
	LossHit
)

func (t Target) String() string {
	switch t {
	case GainHit:
		return "gain"
	case LossHit:
		return "loss"
	default:
		return ""
	}
}

// MarshalText renders the target as its String, empty when no level is reached.
func (t Target) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// Precedence decides which Target wins when both stop levels are reached at the same price,
// which only happens with inconsistent stops.
type Precedence int

const (
	GainFirst Precedence = iota
	LossFirst
)

func (p Precedence) String() string {
	if p == LossFirst {
		return "loss"
	}
	return "gain"
}

// ParsePrecedence parses "gain" or "loss".
func ParsePrecedence(s string) (Precedence, error) {
	switch s {
	case "", "gain":
		return GainFirst, nil
	case "loss":
		return LossFirst, nil
	default:
		return 0, fmt.Errorf("unknown target precedence: %q", s)
	}
}

// EvaluateTarget checks the stop levels of op against price. Unset (zero) levels never trigger.
func EvaluateTarget(op Operation, price Money, precedence Precedence) Target {
	var gain, loss bool
	switch op.Side {
	case Short:
		gain = op.StopGain.IsPositive() && price.LessThanOrEqual(op.StopGain)
		loss = op.StopLoss.IsPositive() && price.GreaterThanOrEqual(op.StopLoss)
	default:
		gain = op.StopGain.IsPositive() && price.GreaterThanOrEqual(op.StopGain)
		loss = op.StopLoss.IsPositive() && price.LessThanOrEqual(op.StopLoss)
	}
	switch {
	case gain && loss && precedence == LossFirst:
		return LossHit
	case gain:
		return GainHit
	case loss:
		return LossHit
	default:
		return NoTarget
	}
}
