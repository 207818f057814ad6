package longshort

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Snapshot is the whole state of the desk: the advisors with their clients' operations, and the
// capacity of each client.
//
// Capacity is keyed by client name only, the same name under two advisors shares one capacity.
type Snapshot struct {
	Advisors map[string]*Advisor
	Capacity map[string]Money
}

// Advisor is a named manager and its clients. Client names are unique within an advisor.
type Advisor struct {
	Name    string
	Clients map[string]*Client
}

// Client is a named investor owning an ordered list of operations.
type Client struct {
	Name       string
	Operations []Operation
}

// Ref identifies an operation by its position in the client's list.
type Ref struct {
	Advisor string
	Client  string
	Index   int
}

func (r Ref) String() string { return fmt.Sprintf("%s/%s#%d", r.Advisor, r.Client, r.Index) }

// ParseRef parses the "advisor/client#index" notation of Ref.String.
func ParseRef(s string) (Ref, error) {
	hash := strings.LastIndex(s, "#")
	if hash < 0 {
		return Ref{}, invalid("ref", "%q is not in the advisor/client#index form", s)
	}
	slash := strings.Index(s[:hash], "/")
	if slash < 0 {
		return Ref{}, invalid("ref", "%q is not in the advisor/client#index form", s)
	}
	index, err := strconv.Atoi(s[hash+1:])
	if err != nil || index < 0 {
		return Ref{}, invalid("ref", "%q has an invalid index", s)
	}
	ref := Ref{Advisor: strings.TrimSpace(s[:slash]), Client: strings.TrimSpace(s[slash+1 : hash]), Index: index}
	if ref.Advisor == "" || ref.Client == "" {
		return Ref{}, invalid("ref", "%q is not in the advisor/client#index form", s)
	}
	return ref, nil
}

// NewSnapshot returns an empty Snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Advisors: make(map[string]*Advisor),
		Capacity: make(map[string]Money),
	}
}

// Advisor returns the named advisor or nil.
func (s *Snapshot) Advisor(name string) *Advisor { return s.Advisors[name] }

// Client returns the named client of an advisor or nil.
func (s *Snapshot) Client(advisor, client string) *Client {
	a := s.Advisors[advisor]
	if a == nil {
		return nil
	}
	return a.Clients[client]
}

// AdvisorNames returns the advisor names in alphabetical order.
func (s *Snapshot) AdvisorNames() []string { return slices.Sorted(maps.Keys(s.Advisors)) }

// ClientNames returns the client names in alphabetical order.
func (a *Advisor) ClientNames() []string { return slices.Sorted(maps.Keys(a.Clients)) }

// Operation returns the operation identified by ref.
func (s *Snapshot) Operation(ref Ref) (Operation, error) {
	c := s.Client(ref.Advisor, ref.Client)
	if c == nil {
		return Operation{}, invalid("client", "no client %q for advisor %q", ref.Client, ref.Advisor)
	}
	if ref.Index < 0 || ref.Index >= len(c.Operations) {
		return Operation{}, invalid("operation", "no operation #%d for %s/%s", ref.Index, ref.Advisor, ref.Client)
	}
	return c.Operations[ref.Index], nil
}

// All iterates over every operation in a stable order: advisor, then client, then index.
func (s *Snapshot) All() iter.Seq2[Ref, Operation] {
	return func(yield func(Ref, Operation) bool) {
		for _, an := range s.AdvisorNames() {
			a := s.Advisors[an]
			for _, cn := range a.ClientNames() {
				for i, op := range a.Clients[cn].Operations {
					if !yield(Ref{Advisor: an, Client: cn, Index: i}, op) {
						return
					}
				}
			}
		}
	}
}

// Len returns the total number of operations.
func (s *Snapshot) Len() int {
	n := 0
	for _, a := range s.Advisors {
		for _, c := range a.Clients {
			n += len(c.Operations)
		}
	}
	return n
}

// Clone returns a deep copy of s.
func (s *Snapshot) Clone() *Snapshot {
	c := NewSnapshot()
	for an, a := range s.Advisors {
		ca := &Advisor{Name: an, Clients: make(map[string]*Client, len(a.Clients))}
		for cn, cl := range a.Clients {
			ca.Clients[cn] = &Client{Name: cn, Operations: slices.Clone(cl.Operations)}
		}
		c.Advisors[an] = ca
	}
	maps.Copy(c.Capacity, s.Capacity)
	return c
}

// ensureClient returns the client, creating the advisor and the client when absent.
func (s *Snapshot) ensureClient(advisor, client string) *Client {
	a := s.Advisors[advisor]
	if a == nil {
		a = &Advisor{Name: advisor, Clients: make(map[string]*Client)}
		s.Advisors[advisor] = a
	}
	c := a.Clients[client]
	if c == nil {
		c = &Client{Name: client}
		a.Clients[client] = c
	}
	return c
}
