package propanel

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Schema is an ordered set of named descriptors. The renderer lays fields
// out in insertion order, so the JSON form keeps that order.
type Schema struct {
	keys        []string
	descriptors map[string]Descriptor
}

// NewSchema creates an empty schema
func NewSchema() *Schema {
	return &Schema{descriptors: make(map[string]Descriptor)}
}

// Set adds or replaces a descriptor. Replacing keeps the original position.
func (s *Schema) Set(key string, d Descriptor) {
	if s.descriptors == nil {
		s.descriptors = make(map[string]Descriptor)
	}
	if _, ok := s.descriptors[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.descriptors[key] = d
}

// Get returns the descriptor stored under key
func (s *Schema) Get(key string) (Descriptor, bool) {
	d, ok := s.descriptors[key]
	return d, ok
}

// Keys returns the keys in insertion order
func (s *Schema) Keys() []string {
	return append([]string(nil), s.keys...)
}

// Len returns the number of descriptors
func (s *Schema) Len() int {
	return len(s.keys)
}

func (s *Schema) MarshalJSON() ([]byte, error) {
	out := []byte("{}")
	for _, key := range s.keys {
		raw, err := json.Marshal(s.descriptors[key])
		if err != nil {
			return nil, fmt.Errorf("failed to marshal descriptor %s: %w", key, err)
		}
		out, err = sjson.SetRawBytes(out, gjson.Escape(key), raw)
		if err != nil {
			return nil, fmt.Errorf("failed to set descriptor %s: %w", key, err)
		}
	}
	return out, nil
}

func (s *Schema) UnmarshalJSON(data []byte) error {
	res := gjson.ParseBytes(data)
	if !res.IsObject() {
		return fmt.Errorf("panel schema must be an object")
	}

	schema := NewSchema()
	var err error
	res.ForEach(func(key, value gjson.Result) bool {
		var d Descriptor
		if err = json.Unmarshal([]byte(value.Raw), &d); err != nil {
			err = fmt.Errorf("failed to unmarshal descriptor %s: %w", key.String(), err)
			return false
		}
		schema.Set(key.String(), d)
		return true
	})
	if err != nil {
		return err
	}

	*s = *schema
	return nil
}
