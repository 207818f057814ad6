package longshort

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Side defines the direction of an operation.
type Side int

const (
	// Long profits when the price goes up (a buy, "c" for compra).
	Long Side = iota
	// Short profits when the price goes down (a sell, "v" for venda).
	Short
)

func (s Side) String() string {
	switch s {
	case Long:
		return "long"
	case Short:
		return "short"
	default:
		return "unknown"
	}
}

// Code returns the persisted code of the side.
func (s Side) Code() string {
	if s == Short {
		return "v"
	}
	return "c"
}

// ParseSide parses a string into a Side. It accepts persisted codes and common names.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "c", "compra", "long", "buy":
		return Long, nil
	case "v", "venda", "short", "sell":
		return Short, nil
	default:
		return 0, fmt.Errorf("unknown side: %q", s)
	}
}

func (s Side) MarshalJSON() ([]byte, error) { return json.Marshal(s.Code()) }

func (s *Side) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}
	v, err := ParseSide(str)
	if err != nil {
		return err
	}
	*s = v
	return nil
}
