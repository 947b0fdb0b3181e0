package fetch

import (
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/viant/fetchly/driver"
	"github.com/viant/fetchly/types"
)

// defaultVariableSize bounds variable width columns whose declared size the
// driver did not report.
const defaultVariableSize = 255

// Column represents immutable per column metadata for one result set.
type Column struct {
	ordinal   int
	name      string
	code      driver.TypeCode
	size      int64
	scale     *int64
	nullable  *bool
	long      bool
	fixed     bool
	deferred  bool
	stride    int
	dataWidth int
	scanType  reflect.Type
}

// Name returns the column name
func (c *Column) Name() string {
	return c.name
}

// Ordinal returns the 1 based driver ordinal
func (c *Column) Ordinal() int {
	return c.ordinal
}

// Type returns the SQL type code
func (c *Column) Type() driver.TypeCode {
	return c.code
}

// Length returns the declared size for variable width columns
func (c *Column) Length() (int64, bool) {
	if c.fixed {
		return 0, false
	}
	return c.size, true
}

// DecimalSize returns precision and scale for fixed point columns
func (c *Column) DecimalSize() (precision, scale int64, ok bool) {
	if c.scale == nil {
		return 0, 0, false
	}
	return c.size, *c.scale, true
}

// Nullable returns the nullability when the driver reported it
func (c *Column) Nullable() (nullable, ok bool) {
	if c.nullable == nil {
		return false, false
	}
	return *c.nullable, true
}

// IsLong returns true for long value columns
func (c *Column) IsLong() bool {
	return c.long
}

// IsFixedWidth returns true when the buffered element width does not depend on
// the declared size
func (c *Column) IsFixedWidth() bool {
	return c.fixed
}

// Stride returns the allocated bytes per buffered element, zero for deferred
// long columns which are never bound
func (c *Column) Stride() int {
	return c.stride
}

// ScanType returns the host type cells of this column materialize as
func (c *Column) ScanType() reflect.Type {
	return c.scanType
}

var (
	int64Type   = reflect.TypeOf(int64(0))
	float64Type = reflect.TypeOf(float64(0))
	boolType    = reflect.TypeOf(true)
	stringType  = reflect.TypeOf("")
	bytesType   = reflect.TypeOf([]byte{})
	timeType    = reflect.TypeOf(time.Time{})
	decimalType = reflect.TypeOf(types.Decimal{})
	guidType    = reflect.TypeOf(uuid.UUID{})
)

// newColumn builds a descriptor for the 1 based ordinal, resolving the element
// stride and host scan type for the supplied platform and long value policy.
func newColumn(described driver.Column, ordinal int, platform driver.Platform, deferredLong bool, longBufferSize int) *Column {
	column := &Column{
		ordinal: ordinal,
		name:    described.Name,
		code:    described.Type,
		size:    described.Size,
		long:    described.Type.IsLong(),
	}
	switch described.Nullable {
	case driver.NoNulls:
		nullable := false
		column.nullable = &nullable
	case driver.Nullable:
		nullable := true
		column.nullable = &nullable
	}
	if described.Type.IsDecimal() {
		scale := described.Scale
		column.scale = &scale
	}
	if stride, ok := described.Type.FixedStride(); ok {
		column.fixed = true
		column.stride = stride
		column.dataWidth = stride
	} else {
		column.sizeVariable(platform, deferredLong, longBufferSize)
	}
	column.scanType = scanTypeOf(described.Type)
	return column
}

// sizeVariable resolves stride and data width for variable width columns;
// the data width excludes the NUL terminator text bindings carry.
func (c *Column) sizeVariable(platform driver.Platform, deferredLong bool, longBufferSize int) {
	size := c.size
	if size <= 0 {
		size = defaultVariableSize
	}
	if c.long {
		if deferredLong {
			c.deferred = true
			return
		}
		size = int64(longBufferSize)
	}
	switch {
	case c.code.IsDecimal():
		// digits, sign and separator rendered as narrow text
		c.dataWidth = int(size) + 2
		c.stride = c.dataWidth + 1
	case c.code.IsWide():
		c.dataWidth = int(size) * platform.WideCharWidth
		c.stride = c.dataWidth + platform.WideCharWidth
	case c.code.IsBinary():
		c.dataWidth = int(size)
		c.stride = c.dataWidth
	default:
		c.dataWidth = int(size)
		c.stride = c.dataWidth + 1
	}
}

func scanTypeOf(code driver.TypeCode) reflect.Type {
	switch code {
	case driver.TypeBit:
		return boolType
	case driver.TypeTinyInt, driver.TypeSmallInt, driver.TypeInteger, driver.TypeBigInt:
		return int64Type
	case driver.TypeReal, driver.TypeDouble:
		return float64Type
	case driver.TypeDecimal, driver.TypeNumeric:
		return decimalType
	case driver.TypeDate, driver.TypeTime, driver.TypeTimestamp:
		return timeType
	case driver.TypeBinary, driver.TypeVarBinary, driver.TypeLongVarBinary:
		return bytesType
	case driver.TypeGUID:
		return guidType
	}
	return stringType
}

// Columns represents the ordered column set of one result set
type Columns []*Column

// Names returns column names
func (c Columns) Names() []string {
	var result = make([]string, len(c))
	for i, item := range c {
		result[i] = item.Name()
	}
	return result
}

// Index builds the case insensitive name to position map shared by all rows of
// a result set
func (c Columns) Index() map[string]int {
	var result = make(map[string]int, len(c))
	for i, item := range c {
		result[strings.ToLower(item.Name())] = i
	}
	return result
}

// ByName returns the position of the named column or -1
func (c Columns) ByName(name string) int {
	name = strings.ToLower(name)
	for i, item := range c {
		if strings.ToLower(item.Name()) == name {
			return i
		}
	}
	return -1
}
