package types

import (
	"database/sql/driver"
	"fmt"
)

//BitBool customize bool type see https://stackoverflow.com/questions/47535543/mysqls-bit-type-maps-to-which-go-type
type BitBool bool

//Value renders the value as a single BIT byte
func (b BitBool) Value() (driver.Value, error) {
	if b {
		return []byte{1}, nil
	}
	return []byte{0}, nil
}

func (b *BitBool) Scan(src interface{}) error {
	switch actual := src.(type) {
	case bool:
		*b = BitBool(actual)
	case int64:
		*b = actual != 0
	case []byte:
		*b = len(actual) > 0 && actual[0] != 0
	case string:
		switch actual {
		case "\x00", "0", "":
			*b = false
		case "\x01", "1":
			*b = true
		default:
			return fmt.Errorf("unexpected value for BitBool: %q", actual)
		}
	default:
		return fmt.Errorf("unexpected type for BitBool: %T", src)
	}
	return nil
}
