package fetch

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/viant/fetchly/types"
)

// Row is one materialized row: positional cell values plus the name index
// shared by all rows of the result set. Positional access and access by name
// read the same backing slice, nil stands for SQL NULL.
type Row struct {
	schema *schema
	values []interface{}
}

// Len returns the column count
func (r *Row) Len() int {
	return len(r.values)
}

// Columns returns the descriptors of the result set the row came from
func (r *Row) Columns() Columns {
	return r.schema.columns
}

// Value returns the cell at the 0 based position
func (r *Row) Value(index int) interface{} {
	return r.values[index]
}

// Values returns all cells in column order
func (r *Row) Values() []interface{} {
	return r.values
}

// Lookup returns the cell of the named column, name matching is case
// insensitive
func (r *Row) Lookup(name string) (interface{}, bool) {
	index, ok := r.schema.nameIndex[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return r.values[index], true
}

// Int64 returns the named cell as int64, false for NULL, an absent column or
// a different host type
func (r *Row) Int64(name string) (int64, bool) {
	value, ok := r.Lookup(name)
	if !ok || value == nil {
		return 0, false
	}
	result, ok := value.(int64)
	return result, ok
}

// Float64 returns the named cell as float64
func (r *Row) Float64(name string) (float64, bool) {
	value, ok := r.Lookup(name)
	if !ok || value == nil {
		return 0, false
	}
	result, ok := value.(float64)
	return result, ok
}

// Bool returns the named cell as bool
func (r *Row) Bool(name string) (bool, bool) {
	value, ok := r.Lookup(name)
	if !ok || value == nil {
		return false, false
	}
	result, ok := value.(bool)
	return result, ok
}

// String returns the named cell as string
func (r *Row) String(name string) (string, bool) {
	value, ok := r.Lookup(name)
	if !ok || value == nil {
		return "", false
	}
	result, ok := value.(string)
	return result, ok
}

// Bytes returns the named cell as raw bytes
func (r *Row) Bytes(name string) ([]byte, bool) {
	value, ok := r.Lookup(name)
	if !ok || value == nil {
		return nil, false
	}
	result, ok := value.([]byte)
	return result, ok
}

// Time returns the named cell as time.Time
func (r *Row) Time(name string) (time.Time, bool) {
	value, ok := r.Lookup(name)
	if !ok || value == nil {
		return time.Time{}, false
	}
	result, ok := value.(time.Time)
	return result, ok
}

// Decimal returns the named cell as a fixed point decimal
func (r *Row) Decimal(name string) (types.Decimal, bool) {
	value, ok := r.Lookup(name)
	if !ok || value == nil {
		return types.Decimal{}, false
	}
	result, ok := value.(types.Decimal)
	return result, ok
}

// GUID returns the named cell as a uuid
func (r *Row) GUID(name string) (uuid.UUID, bool) {
	value, ok := r.Lookup(name)
	if !ok || value == nil {
		return uuid.UUID{}, false
	}
	result, ok := value.(uuid.UUID)
	return result, ok
}
