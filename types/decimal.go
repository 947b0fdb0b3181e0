package types

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

//Decimal is a fixed point value carrying the declared scale of its source
//column. The native client renders fixed point cells as text with a platform
//decimal separator; Decimal keeps the exact value and renders with the
//declared scale.
type Decimal struct {
	value decimal.Decimal
	scale int32
}

//ParseDecimal converts client rendered text into a Decimal, separator is the
//decimal point the text was rendered with, scale the declared column scale
func ParseDecimal(text string, separator byte, scale int64) (Decimal, error) {
	if separator != '.' {
		text = strings.ReplaceAll(text, string(separator), ".")
	}
	value, err := decimal.NewFromString(text)
	if err != nil {
		return Decimal{}, fmt.Errorf("failed to parse decimal %q, due to %w", text, err)
	}
	return Decimal{value: value, scale: int32(scale)}, nil
}

//NewDecimalFromString creates a Decimal from canonical text with a '.' separator
func NewDecimalFromString(text string, scale int64) (Decimal, error) {
	return ParseDecimal(text, '.', scale)
}

//NewDecimalFromFloat64 creates a Decimal rounded to the supplied scale
func NewDecimalFromFloat64(value float64, scale int64) Decimal {
	return Decimal{value: decimal.NewFromFloat(value).Round(int32(scale)), scale: int32(scale)}
}

//Scale returns the declared scale
func (d Decimal) Scale() int32 {
	return d.scale
}

//String renders the value padded to the declared scale
func (d Decimal) String() string {
	return d.value.StringFixed(d.scale)
}

//Float64 returns the closest float64 representation
func (d Decimal) Float64() float64 {
	result, _ := d.value.Float64()
	return result
}

//Equal compares numeric values, scale does not participate
func (d Decimal) Equal(other Decimal) bool {
	return d.value.Equal(other.value)
}

//Cmp returns -1, 0 or 1 comparing numeric values
func (d Decimal) Cmp(other Decimal) int {
	return d.value.Cmp(other.value)
}

//IsZero returns true for a zero value of any scale
func (d Decimal) IsZero() bool {
	return d.value.IsZero()
}

//Rescale returns a copy rendered with a different scale
func (d Decimal) Rescale(scale int32) Decimal {
	return Decimal{value: d.value, scale: scale}
}

//Unwrap exposes the backing arbitrary precision value
func (d Decimal) Unwrap() decimal.Decimal {
	return d.value
}

//MarshalJSON renders the value as a quoted fixed scale string
func (d Decimal) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

//UnmarshalJSON accepts both quoted and bare numeric forms
func (d *Decimal) UnmarshalJSON(data []byte) error {
	text := strings.Trim(string(data), `"`)
	value, err := decimal.NewFromString(text)
	if err != nil {
		return fmt.Errorf("failed to unmarshal decimal %s, due to %w", data, err)
	}
	d.value = value
	d.scale = value.Exponent() * -1
	if d.scale < 0 {
		d.scale = 0
	}
	return nil
}
