package longshort

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// fieldWriter writes a json object whose keys keep the order they were added in, which is
// what makes the persisted document stable. The zero value is an empty object.
type fieldWriter struct {
	buf bytes.Buffer
	n   int
	err error
}

// Field adds key with value encoded by json.Marshal. The first failure is kept and reported
// by MarshalJSON, later fields are ignored.
func (w *fieldWriter) Field(key string, value any) *fieldWriter {
	if w.err != nil {
		return w
	}
	v, err := json.Marshal(value)
	if err != nil {
		w.err = fmt.Errorf("cannot encode %q: %w", key, err)
		return w
	}
	k, _ := json.Marshal(key)
	if w.n > 0 {
		w.buf.WriteByte(',')
	}
	w.buf.Write(k)
	w.buf.WriteByte(':')
	w.buf.Write(v)
	w.n++
	return w
}

// When adds the field only if cond holds.
func (w *fieldWriter) When(cond bool, key string, value any) *fieldWriter {
	if !cond {
		return w
	}
	return w.Field(key, value)
}

// MarshalJSON returns the object.
func (w *fieldWriter) MarshalJSON() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	out := make([]byte, 0, w.buf.Len()+2)
	out = append(out, '{')
	out = append(out, w.buf.Bytes()...)
	return append(out, '}'), nil
}
