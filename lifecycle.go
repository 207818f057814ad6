package longshort

import (
	"fmt"
	"strings"

	"github.com/etnz/longshort/date"
)

// ChangeKind is the kind of mutation applied to a Snapshot.
type ChangeKind int

const (
	Created ChangeKind = iota
	ClosedOp
	Edited
	Deleted
	Renamed
	CapacitySet
)

func (k ChangeKind) String() string {
	switch k {
	case Created:
		return "created"
	case ClosedOp:
		return "closed"
	case Edited:
		return "edited"
	case Deleted:
		return "deleted"
	case Renamed:
		return "renamed"
	case CapacitySet:
		return "capacity"
	default:
		return "unknown"
	}
}

// Change describes a mutation applied to a Snapshot.
type Change struct {
	Kind   ChangeKind
	Ref    Ref       // operation concerned, or the client for Renamed and CapacitySet
	Before Operation // for Closed, Edited and Deleted
	After  Operation // for Created, Closed and Edited
	To     string    // new client name for Renamed
	Amount Money     // new capacity for CapacitySet
}

func (c Change) String() string {
	switch c.Kind {
	case Created:
		return fmt.Sprintf("created %s %s %v x %v on %s", c.Ref, c.After.Side, c.After.Quantity, c.After.Symbol, c.After.EntryPrice)
	case ClosedOp:
		return fmt.Sprintf("closed %s %s at %v: %v", c.Ref, c.After.Symbol, c.After.ClosingPrice, c.After.RealizedNet.SignedString())
	case Edited:
		return fmt.Sprintf("edited %s %s", c.Ref, c.After.Symbol)
	case Deleted:
		return fmt.Sprintf("deleted %s %s", c.Ref, c.Before.Symbol)
	case Renamed:
		return fmt.Sprintf("renamed %s/%s to %q", c.Ref.Advisor, c.Ref.Client, c.To)
	case CapacitySet:
		return fmt.Sprintf("capacity of %q set to %v", c.Ref.Client, c.Amount)
	default:
		return "unknown change"
	}
}

func checkName(field, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalid(field, "must not be empty")
	}
	return name, nil
}

// Create appends an Active operation to a client, creating the advisor and the client if needed.
func (s *Snapshot) Create(advisor, client string, op Operation) (Change, error) {
	advisor, err := checkName("advisor", advisor)
	if err != nil {
		return Change{}, err
	}
	client, err = checkName("client", client)
	if err != nil {
		return Change{}, err
	}
	op.Symbol = NormalizeSymbol(op.Symbol)
	if op.Status != Active {
		return Change{}, invalid("status", "a new operation must be active")
	}
	if err := op.Validate(); err != nil {
		return Change{}, err
	}
	c := s.ensureClient(advisor, client)
	c.Operations = append(c.Operations, op)
	ref := Ref{Advisor: advisor, Client: client, Index: len(c.Operations) - 1}
	return Change{Kind: Created, Ref: ref, After: op}, nil
}

// Close closes an Active operation at price and freezes its net result.
func (s *Snapshot) Close(ref Ref, price Money, on date.Date) (Change, error) {
	before, err := s.Operation(ref)
	if err != nil {
		return Change{}, err
	}
	if before.Status == Closed {
		return Change{}, invalid("status", "operation %s is already closed", ref)
	}
	after := before
	after.Status = Closed
	after.ClosingPrice = price
	after.ClosingDate = on
	if err := after.Validate(); err != nil {
		return Change{}, err
	}
	after.RealizedNet = realize(after, price)
	s.Client(ref.Advisor, ref.Client).Operations[ref.Index] = after
	return Change{Kind: ClosedOp, Ref: ref, Before: before, After: after}, nil
}

// Edit lists the fields to change on an operation, nil fields are left untouched.
//
// Stops can only be edited on an Active operation, closing fields only on a Closed one.
type Edit struct {
	Quantity     *Quantity
	EntryPrice   *Money
	StopGain     *Money
	StopLoss     *Money
	ClosingPrice *Money
	ClosingDate  *date.Date
}

// IsEmpty reports whether the edit changes nothing.
func (e Edit) IsEmpty() bool {
	return e.Quantity == nil && e.EntryPrice == nil && e.StopGain == nil && e.StopLoss == nil &&
		e.ClosingPrice == nil && e.ClosingDate == nil
}

// Edit applies e to an operation. Editing a Closed operation recomputes its net result from its
// closing price.
func (s *Snapshot) Edit(ref Ref, e Edit) (Change, error) {
	before, err := s.Operation(ref)
	if err != nil {
		return Change{}, err
	}
	if e.IsEmpty() {
		return Change{}, invalid("edit", "nothing to change")
	}
	after := before
	if e.Quantity != nil {
		after.Quantity = *e.Quantity
	}
	if e.EntryPrice != nil {
		after.EntryPrice = *e.EntryPrice
	}
	switch before.Status {
	case Active:
		if e.ClosingPrice != nil || e.ClosingDate != nil {
			return Change{}, invalid("closing price", "operation %s is active, close it instead", ref)
		}
		if e.StopGain != nil {
			after.StopGain = *e.StopGain
		}
		if e.StopLoss != nil {
			after.StopLoss = *e.StopLoss
		}
	case Closed:
		if e.StopGain != nil || e.StopLoss != nil {
			return Change{}, invalid("stops", "operation %s is closed", ref)
		}
		if e.ClosingPrice != nil {
			after.ClosingPrice = *e.ClosingPrice
		}
		if e.ClosingDate != nil {
			after.ClosingDate = *e.ClosingDate
		}
	}
	if err := after.Validate(); err != nil {
		return Change{}, err
	}
	if after.Status == Closed {
		after.RealizedNet = realize(after, after.ClosingPrice)
	}
	s.Client(ref.Advisor, ref.Client).Operations[ref.Index] = after
	return Change{Kind: Edited, Ref: ref, Before: before, After: after}, nil
}

// Delete removes an operation whatever its status. The following operations of the client are
// shifted down by one.
func (s *Snapshot) Delete(ref Ref) (Change, error) {
	before, err := s.Operation(ref)
	if err != nil {
		return Change{}, err
	}
	c := s.Client(ref.Advisor, ref.Client)
	c.Operations = append(c.Operations[:ref.Index:ref.Index], c.Operations[ref.Index+1:]...)
	return Change{Kind: Deleted, Ref: ref, Before: before}, nil
}

// RenameClient moves the whole operation list of a client to a new name under the same advisor.
// The capacity stays attached to the old name.
func (s *Snapshot) RenameClient(advisor, from, to string) (Change, error) {
	to, err := checkName("client", to)
	if err != nil {
		return Change{}, err
	}
	c := s.Client(advisor, from)
	if c == nil {
		return Change{}, invalid("client", "no client %q for advisor %q", from, advisor)
	}
	if from == to {
		return Change{}, invalid("client", "%q is already named %q", from, to)
	}
	a := s.Advisors[advisor]
	if _, exists := a.Clients[to]; exists {
		return Change{}, &ConflictError{Reason: fmt.Sprintf("client %q already exists for advisor %q", to, advisor)}
	}
	delete(a.Clients, from)
	c.Name = to
	a.Clients[to] = c
	return Change{Kind: Renamed, Ref: Ref{Advisor: advisor, Client: from}, To: to}, nil
}

// SetCapacity sets the capacity of a client, zero clears it.
func (s *Snapshot) SetCapacity(client string, amount Money) (Change, error) {
	client, err := checkName("client", client)
	if err != nil {
		return Change{}, err
	}
	if amount.IsNegative() {
		return Change{}, invalid("capacity", "must not be negative, got %v", amount.Decimal())
	}
	if amount.IsZero() {
		delete(s.Capacity, client)
	} else {
		s.Capacity[client] = amount
	}
	return Change{Kind: CapacitySet, Ref: Ref{Client: client}, Amount: amount}, nil
}
