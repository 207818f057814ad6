package longshort

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Version is the shape of a persisted snapshot document.
type Version int

const (
	// VersionEmpty is a missing or empty document.
	VersionEmpty Version = iota
	// VersionList is a bare list of operations, or an object holding it under "operacoes".
	VersionList
	// VersionClients maps client names to their operations.
	VersionClients
	// VersionAdvisors maps advisor names to their clients, without the "assessores" envelope.
	VersionAdvisors
	// VersionCurrent is the shape written by EncodeSnapshot.
	VersionCurrent
)

func (v Version) String() string {
	switch v {
	case VersionEmpty:
		return "empty"
	case VersionList:
		return "operation list"
	case VersionClients:
		return "client map"
	case VersionAdvisors:
		return "advisor map"
	case VersionCurrent:
		return "current"
	default:
		return "unknown"
	}
}

// NeedsMigration reports whether a document of that version must be rewritten.
func (v Version) NeedsMigration() bool { return v != VersionEmpty && v != VersionCurrent }

// MigrateOptions names the advisor and client receiving operations from shapes that did not
// have them.
type MigrateOptions struct {
	DefaultAdvisor string
	DefaultClient  string
}

// DefaultMigrateOptions returns the names used when none are configured.
func DefaultMigrateOptions() MigrateOptions {
	return MigrateOptions{DefaultAdvisor: "Geral", DefaultClient: "Carteira"}
}

func (o MigrateOptions) withDefaults() MigrateOptions {
	d := DefaultMigrateOptions()
	if o.DefaultAdvisor == "" {
		o.DefaultAdvisor = d.DefaultAdvisor
	}
	if o.DefaultClient == "" {
		o.DefaultClient = d.DefaultClient
	}
	return o
}

// DecodeSnapshot reads a snapshot document of any version and relocates its content into the
// current shape. The returned version is the one of the input document, the caller is
// expected to persist the snapshot when it NeedsMigration.
func DecodeSnapshot(data []byte, opts MigrateOptions) (*Snapshot, Version, error) {
	opts = opts.withDefaults()
	data = bytes.TrimSpace(data)
	s := NewSnapshot()
	if len(data) == 0 {
		return s, VersionEmpty, nil
	}

	switch data[0] {
	case '[':
		if err := s.decodeClient(opts.DefaultAdvisor, opts.DefaultClient, data); err != nil {
			return nil, VersionList, err
		}
		return s, VersionList, nil
	case '{':
	default:
		return nil, VersionEmpty, fmt.Errorf("cannot decode snapshot: not a json object nor a list")
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, VersionEmpty, fmt.Errorf("cannot decode snapshot: %w", err)
	}

	raw, hasCapacity := doc["potenciais"]
	if hasCapacity {
		if err := s.decodeCapacity(raw); err != nil {
			return nil, VersionEmpty, err
		}
		delete(doc, "potenciais")
	}

	if raw, ok := doc["assessores"]; ok {
		// nothing else can sit next to the envelope, it would be lost on the next save.
		for name := range doc {
			if name != "assessores" {
				return nil, VersionCurrent, fmt.Errorf("cannot decode snapshot: unexpected %q next to %q", name, "assessores")
			}
		}
		var advisors map[string]json.RawMessage
		if err := json.Unmarshal(raw, &advisors); err != nil {
			return nil, VersionCurrent, fmt.Errorf("cannot decode advisors: %w", err)
		}
		for name, raw := range advisors {
			if err := s.decodeAdvisor(name, raw); err != nil {
				return nil, VersionCurrent, err
			}
		}
		return s, VersionCurrent, nil
	}

	// with other entries, "operacoes" is the name of a client.
	if raw, ok := doc["operacoes"]; ok && len(doc) == 1 && isList(raw) {
		if err := s.decodeClient(opts.DefaultAdvisor, opts.DefaultClient, raw); err != nil {
			return nil, VersionList, err
		}
		return s, VersionList, nil
	}

	version, err := legacyVersion(doc)
	if err != nil {
		return nil, VersionEmpty, err
	}
	switch version {
	case VersionClients:
		for name, raw := range doc {
			if err := s.decodeClient(opts.DefaultAdvisor, name, raw); err != nil {
				return nil, version, err
			}
		}
	case VersionAdvisors:
		for name, raw := range doc {
			if err := s.decodeAdvisor(name, raw); err != nil {
				return nil, version, err
			}
		}
	case VersionEmpty:
		if hasCapacity {
			// capacity alone was already written by the advisor map version.
			version = VersionAdvisors
		}
	}
	return s, version, nil
}

// legacyVersion recognizes an envelope-less map by the kind of its values: lists of operations
// for a client map, objects for an advisor map.
func legacyVersion(doc map[string]json.RawMessage) (Version, error) {
	version := VersionEmpty
	for name, raw := range doc {
		var v Version
		switch {
		case isList(raw):
			v = VersionClients
		case isObject(raw):
			v = VersionAdvisors
		default:
			return VersionEmpty, fmt.Errorf("cannot decode snapshot: unexpected value for %q", name)
		}
		if version != VersionEmpty && version != v {
			return VersionEmpty, fmt.Errorf("cannot decode snapshot: mixed client and advisor entries")
		}
		version = v
	}
	return version, nil
}

func isList(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}

func (s *Snapshot) decodeCapacity(raw json.RawMessage) error {
	var capacity map[string]flexDecimal
	if err := json.Unmarshal(raw, &capacity); err != nil {
		return fmt.Errorf("cannot decode capacity: %w", err)
	}
	for name, f := range capacity {
		if !f.value.IsZero() {
			s.Capacity[name] = Money{value: f.value}
		}
	}
	return nil
}

func (s *Snapshot) decodeAdvisor(advisor string, raw json.RawMessage) error {
	var clients map[string]json.RawMessage
	if err := json.Unmarshal(raw, &clients); err != nil {
		return fmt.Errorf("cannot decode advisor %q: %w", advisor, err)
	}
	for name, raw := range clients {
		if err := s.decodeClient(advisor, name, raw); err != nil {
			return err
		}
	}
	return nil
}

// decodeClient appends the operations of raw to a client, creating it even when the list is
// empty. Errors name the operation as advisor/client#index.
func (s *Snapshot) decodeClient(advisor, client string, raw json.RawMessage) error {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return fmt.Errorf("cannot decode %s/%s: %w", advisor, client, err)
	}
	ops := make([]Operation, len(items))
	for i, item := range items {
		if err := json.Unmarshal(item, &ops[i]); err != nil {
			return fmt.Errorf("cannot decode %s/%s#%d: %w", advisor, client, i, err)
		}
	}
	c := s.ensureClient(advisor, client)
	c.Operations = append(c.Operations, ops...)
	return nil
}
