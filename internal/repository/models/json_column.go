package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSON stores a value as a JSON document in a CLOB column. NULL, empty and
// "null" all scan as Valid=false.
type JSON[T any] struct {
	Data  T
	Valid bool
}

// NewJSON wraps a value as a valid column.
func NewJSON[T any](v T) JSON[T] {
	return JSON[T]{Data: v, Valid: true}
}

// Value implements the driver.Valuer interface
func (j JSON[T]) Value() (driver.Value, error) {
	if !j.Valid {
		return nil, nil
	}
	b, err := json.Marshal(j.Data)
	if err != nil {
		return nil, err
	}
	// go-ora binds strings to CLOB parameters
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (j *JSON[T]) Scan(value interface{}) error {
	var zero T
	j.Data, j.Valid = zero, false

	var raw []byte
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("JSON Scan: unsupported type %T", value)
	}
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, &j.Data); err != nil {
		return fmt.Errorf("JSON Scan: %w", err)
	}
	j.Valid = true
	return nil
}
