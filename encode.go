package longshort

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/etnz/longshort/date"
	"github.com/shopspring/decimal"
)

// This file contains the wire format of the snapshot document:
//
//	{"assessores": {advisor: {client: [operation, ...]}}, "potenciais": {client: amount}}
//
// Maps are written with sorted keys and operations with a fixed field order, so a snapshot always
// encodes to the same bytes.

// MarshalJSON writes the operation with its persisted field names, closing fields are only
// written for a Closed operation.
func (op Operation) MarshalJSON() ([]byte, error) {
	var w fieldWriter
	closed := op.Status == Closed
	w.Field("ativo", op.Symbol).
		Field("tipo", op.Side).
		Field("quantidade", int64(op.Quantity)).
		Field("preco_exec", op.EntryPrice).
		Field("data", op.EntryDate).
		Field("stop_gain", op.StopGain).
		Field("stop_loss", op.StopLoss).
		Field("status", op.Status).
		When(closed, "preco_encerramento", op.ClosingPrice).
		When(closed, "data_encerramento", op.ClosingDate).
		When(closed, "lucro_final", op.RealizedNet)
	return w.MarshalJSON()
}

// UnmarshalJSON reads an operation written by any version of the desk: missing stops are unset,
// a missing status is Active, and numbers can be json strings. The operation must pass Validate.
func (op *Operation) UnmarshalJSON(b []byte) error {
	// jop is the object read from the file using json parser.
	var jop struct {
		Ativo             string       `json:"ativo"`
		Tipo              string       `json:"tipo"`
		Quantidade        flexDecimal  `json:"quantidade"`
		PrecoExec         flexDecimal  `json:"preco_exec"`
		Data              date.Date    `json:"data"`
		StopGain          flexDecimal  `json:"stop_gain"`
		StopLoss          flexDecimal  `json:"stop_loss"`
		Status            string       `json:"status"`
		PrecoEncerramento flexDecimal  `json:"preco_encerramento"`
		DataEncerramento  date.Date    `json:"data_encerramento"`
		LucroFinal        *flexDecimal `json:"lucro_final"`
	}
	if err := json.Unmarshal(b, &jop); err != nil {
		return err
	}
	side, err := ParseSide(jop.Tipo)
	if err != nil {
		return fmt.Errorf("operation %q: %w", jop.Ativo, err)
	}
	status, err := ParseStatus(jop.Status)
	if err != nil {
		return fmt.Errorf("operation %q: %w", jop.Ativo, err)
	}
	if !jop.Quantidade.value.IsInteger() {
		return fmt.Errorf("operation %q: quantity %v is not a whole number", jop.Ativo, jop.Quantidade.value)
	}

	*op = Operation{
		Symbol:     NormalizeSymbol(jop.Ativo),
		Side:       side,
		Quantity:   Quantity(jop.Quantidade.value.IntPart()),
		EntryPrice: Money{value: jop.PrecoExec.value},
		EntryDate:  jop.Data,
		StopGain:   Money{value: jop.StopGain.value},
		StopLoss:   Money{value: jop.StopLoss.value},
		Status:     status,
	}
	if status == Closed {
		op.ClosingPrice = Money{value: jop.PrecoEncerramento.value}
		op.ClosingDate = jop.DataEncerramento
	}
	if err := op.Validate(); err != nil {
		return fmt.Errorf("operation %q: %w", jop.Ativo, err)
	}
	// the closing price is positive here, a missing final result is computed from it.
	if status == Closed {
		if jop.LucroFinal != nil {
			op.RealizedNet = Money{value: jop.LucroFinal.value}
		} else {
			op.RealizedNet = realize(*op, op.ClosingPrice)
		}
	}
	return nil
}

// flexDecimal reads a json number, a json string holding a number (possibly in the "1.234,56"
// notation), or null.
type flexDecimal struct {
	value decimal.Decimal
}

func (f *flexDecimal) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	switch {
	case s == "null":
		f.value = decimal.Decimal{}
		return nil
	case strings.HasPrefix(s, `"`):
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		if strings.TrimSpace(str) == "" {
			f.value = decimal.Decimal{}
			return nil
		}
		m, err := ParseMoney(str)
		if err != nil {
			return err
		}
		f.value = m.value
		return nil
	default:
		d, err := decimal.NewFromString(s)
		if err != nil {
			return fmt.Errorf("invalid number %s: %w", s, err)
		}
		f.value = d
		return nil
	}
}

// EncodeSnapshot writes the snapshot document.
func EncodeSnapshot(s *Snapshot) ([]byte, error) {
	advisors := make(map[string]map[string][]Operation, len(s.Advisors))
	for an, a := range s.Advisors {
		clients := make(map[string][]Operation, len(a.Clients))
		for cn, c := range a.Clients {
			ops := c.Operations
			if ops == nil {
				ops = []Operation{}
			}
			clients[cn] = ops
		}
		advisors[an] = clients
	}
	capacity := s.Capacity
	if capacity == nil {
		capacity = map[string]Money{}
	}

	var w fieldWriter
	w.Field("assessores", advisors).Field("potenciais", capacity)
	raw, err := w.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
