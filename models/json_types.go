package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringMap is a jsonb-backed map of string keys to string values, used for
// the category/tag mapping indices on a page.
type StringMap map[string]string

// Value implements the driver.Valuer interface for StringMap
func (m StringMap) Value() (driver.Value, error) {
	if m == nil {
		return json.Marshal(StringMap{})
	}
	return json.Marshal(m)
}

// Scan implements the sql.Scanner interface for StringMap
func (m *StringMap) Scan(value any) error {
	if value == nil {
		*m = StringMap{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StringMap", value)
	}

	return json.Unmarshal(bytes, m)
}

// Clone returns a copy of the map that can be mutated independently.
func (m StringMap) Clone() StringMap {
	out := make(StringMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// StringSlice is a jsonb-backed string array, used for taxonomy membership
// and co-author lists on posts.
type StringSlice []string

// Value implements the driver.Valuer interface for StringSlice
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return json.Marshal(StringSlice{})
	}
	return json.Marshal(s)
}

// Scan implements the sql.Scanner interface for StringSlice
func (s *StringSlice) Scan(value any) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StringSlice", value)
	}

	return json.Unmarshal(bytes, s)
}

// Contains reports whether v is present in the slice.
func (s StringSlice) Contains(v string) bool {
	for _, item := range s {
		if item == v {
			return true
		}
	}
	return false
}

// JSONMap is a jsonb-backed map with arbitrary values, used for form
// submission payloads and free-form metadata.
type JSONMap map[string]any

// Value implements the driver.Valuer interface for JSONMap
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return json.Marshal(JSONMap{})
	}
	return json.Marshal(m)
}

// Scan implements the sql.Scanner interface for JSONMap
func (m *JSONMap) Scan(value any) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into JSONMap", value)
	}

	return json.Unmarshal(bytes, m)
}
