package longshort

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Status is the lifecycle state of an operation. Closed is terminal.
type Status int

const (
	Active Status = iota
	Closed
)

func (s Status) String() string {
	switch s {
	case Active:
		return "ativa"
	case Closed:
		return "encerrada"
	default:
		return "unknown"
	}
}

// ParseStatus parses a string into a Status. The empty string is Active.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ativa", "active", "open":
		return Active, nil
	case "encerrada", "closed":
		return Closed, nil
	default:
		return 0, fmt.Errorf("unknown status: %q", s)
	}
}

func (s Status) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

func (s *Status) UnmarshalJSON(b []byte) error {
	var str *string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}
	if str == nil {
		*s = Active
		return nil
	}
	v, err := ParseStatus(*str)
	if err != nil {
		return err
	}
	*s = v
	return nil
}
