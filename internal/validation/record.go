package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var (
	ErrEmptyBody = errors.New("request body is empty")
	ErrNotObject = errors.New("request body must be a JSON object")
)

// Record is a decoded JSON object. Numbers are kept as json.Number until a
// validator parses them.
type Record map[string]any

// Field is the tagged presence of one key in a Record. A key that is present
// with a null value has Present=true and Value=nil.
type Field struct {
	Value   any
	Present bool
}

func (r Record) Field(name string) Field {
	v, ok := r[name]
	return Field{Value: v, Present: ok}
}

func (f Field) IsNull() bool {
	return f.Present && f.Value == nil
}

// String returns the value when it is a JSON string.
func (f Field) String() (string, bool) {
	s, ok := f.Value.(string)
	return s, ok
}

// Has reports whether at least one of the named keys is present.
func (r Record) Has(names ...string) bool {
	for _, n := range names {
		if _, ok := r[n]; ok {
			return true
		}
	}
	return false
}

// Decode reads a single JSON object. An empty (or whitespace only) body yields
// ErrEmptyBody and any other top level value yields ErrNotObject.
func Decode(r io.Reader) (Record, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, ErrEmptyBody
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decoding body: %w", err)
	}
	if dec.More() {
		return nil, errors.New("decoding body: unexpected data after JSON value")
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	if len(obj) == 0 {
		return nil, ErrEmptyBody
	}
	return Record(obj), nil
}
