package fetch

import (
	"unicode/utf16"
	"unsafe"

	"github.com/google/uuid"
	"github.com/viant/fetchly/driver"
	"github.com/viant/fetchly/types"
)

// Kind tags the converter strategy of one dispatch table entry. The same SQL
// type code always maps to the same kind, independent of data.
type Kind int8

const (
	KindUnsupported Kind = iota
	KindBool
	KindInt
	KindFloat
	KindDecimal
	KindText
	KindWideText
	KindBinary
	KindDate
	KindTime
	KindTimestamp
	KindGUID
	KindDeferred
)

var kindNames = map[Kind]string{
	KindUnsupported: "unsupported",
	KindBool:        "bool",
	KindInt:         "int",
	KindFloat:       "float",
	KindDecimal:     "decimal",
	KindText:        "text",
	KindWideText:    "wideText",
	KindBinary:      "binary",
	KindDate:        "date",
	KindTime:        "time",
	KindTimestamp:   "timestamp",
	KindGUID:        "guid",
	KindDeferred:    "deferred",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unsupported"
}

// kindOf selects the converter strategy for a type code; deferred long columns
// bypass buffers entirely and read through the long data primitive.
func kindOf(code driver.TypeCode, deferred bool) Kind {
	if deferred {
		return KindDeferred
	}
	switch code {
	case driver.TypeBit:
		return KindBool
	case driver.TypeTinyInt, driver.TypeSmallInt, driver.TypeInteger, driver.TypeBigInt:
		return KindInt
	case driver.TypeReal, driver.TypeDouble:
		return KindFloat
	case driver.TypeDecimal, driver.TypeNumeric:
		return KindDecimal
	case driver.TypeChar, driver.TypeVarChar, driver.TypeLongVarChar:
		return KindText
	case driver.TypeWChar, driver.TypeWVarChar, driver.TypeWLongVarChar:
		return KindWideText
	case driver.TypeBinary, driver.TypeVarBinary, driver.TypeLongVarBinary:
		return KindBinary
	case driver.TypeDate:
		return KindDate
	case driver.TypeTime:
		return KindTime
	case driver.TypeTimestamp:
		return KindTimestamp
	case driver.TypeGUID:
		return KindGUID
	}
	return KindUnsupported
}

// Converter materializes one buffered cell into its host value; NULL cells
// materialize as untyped nil.
type Converter struct {
	Kind Kind
	fn   func(row int) (interface{}, error)
}

// Convert returns the host value of row
func (c Converter) Convert(row int) (interface{}, error) {
	return c.fn(row)
}

func newBoolConverter(buffer *ColumnBuffer) Converter {
	return Converter{Kind: KindBool, fn: func(row int) (interface{}, error) {
		if buffer.IsNull(row) {
			return nil, nil
		}
		return buffer.Bytes(row)[0] != 0, nil
	}}
}

func newIntConverter(column *Column, buffer *ColumnBuffer) Converter {
	var read func(row int) int64
	switch column.stride {
	case 1:
		read = func(row int) int64 { return int64(buffer.Int8(row)) }
	case 2:
		read = func(row int) int64 { return int64(buffer.Int16(row)) }
	case 4:
		read = func(row int) int64 { return int64(buffer.Int32(row)) }
	default:
		read = buffer.Int64
	}
	return Converter{Kind: KindInt, fn: func(row int) (interface{}, error) {
		if buffer.IsNull(row) {
			return nil, nil
		}
		return read(row), nil
	}}
}

func newFloatConverter(column *Column, buffer *ColumnBuffer) Converter {
	var read func(row int) float64
	if column.stride == 4 {
		read = func(row int) float64 { return float64(buffer.Float32(row)) }
	} else {
		read = buffer.Float64
	}
	return Converter{Kind: KindFloat, fn: func(row int) (interface{}, error) {
		if buffer.IsNull(row) {
			return nil, nil
		}
		return read(row), nil
	}}
}

func newDecimalConverter(column *Column, buffer *ColumnBuffer, platform driver.Platform) Converter {
	separator := platform.DecimalPoint
	scale := int64(0)
	if column.scale != nil {
		scale = *column.scale
	}
	return Converter{Kind: KindDecimal, fn: func(row int) (interface{}, error) {
		if buffer.IsNull(row) {
			return nil, nil
		}
		text := string(narrowCell(buffer, row, column.dataWidth))
		value, err := types.ParseDecimal(text, separator, scale)
		if err != nil {
			return nil, NewConversionError(column.name, column.ordinal, row, column.code, "types.Decimal", err)
		}
		return value, nil
	}}
}

func newTextConverter(column *Column, buffer *ColumnBuffer, stmt driver.Statement) Converter {
	width := int64(column.dataWidth)
	return Converter{Kind: KindText, fn: func(row int) (interface{}, error) {
		if buffer.IsNull(row) {
			return nil, nil
		}
		if ind := buffer.Indicator(row); ind > width || ind == driver.NoTotal {
			data, err := stmt.ReadLong(column.ordinal, row)
			if err != nil {
				return nil, NewTruncationError(column.name, column.ordinal, row, column.code, err)
			}
			return string(data), nil
		}
		return string(narrowCell(buffer, row, column.dataWidth)), nil
	}}
}

func newWideTextConverter(column *Column, buffer *ColumnBuffer, stmt driver.Statement, platform driver.Platform) Converter {
	width := int64(column.dataWidth)
	charWidth := platform.WideCharWidth
	return Converter{Kind: KindWideText, fn: func(row int) (interface{}, error) {
		if buffer.IsNull(row) {
			return nil, nil
		}
		ind := buffer.Indicator(row)
		if ind > width || ind == driver.NoTotal {
			data, err := stmt.ReadLong(column.ordinal, row)
			if err != nil {
				return nil, NewTruncationError(column.name, column.ordinal, row, column.code, err)
			}
			return decodeWide(data, charWidth), nil
		}
		return decodeWide(buffer.Bytes(row)[:ind], charWidth), nil
	}}
}

func newBinaryConverter(column *Column, buffer *ColumnBuffer, stmt driver.Statement) Converter {
	width := int64(column.dataWidth)
	return Converter{Kind: KindBinary, fn: func(row int) (interface{}, error) {
		if buffer.IsNull(row) {
			return nil, nil
		}
		ind := buffer.Indicator(row)
		if ind > width || ind == driver.NoTotal {
			data, err := stmt.ReadLong(column.ordinal, row)
			if err != nil {
				return nil, NewTruncationError(column.name, column.ordinal, row, column.code, err)
			}
			return data, nil
		}
		cell := buffer.Bytes(row)[:ind]
		return append([]byte(nil), cell...), nil
	}}
}

func newDateConverter(buffer *ColumnBuffer) Converter {
	return Converter{Kind: KindDate, fn: func(row int) (interface{}, error) {
		if buffer.IsNull(row) {
			return nil, nil
		}
		return buffer.Date(row).AsTime(), nil
	}}
}

func newTimeConverter(buffer *ColumnBuffer) Converter {
	return Converter{Kind: KindTime, fn: func(row int) (interface{}, error) {
		if buffer.IsNull(row) {
			return nil, nil
		}
		return buffer.Clock(row).AsTime(), nil
	}}
}

func newTimestampConverter(buffer *ColumnBuffer) Converter {
	return Converter{Kind: KindTimestamp, fn: func(row int) (interface{}, error) {
		if buffer.IsNull(row) {
			return nil, nil
		}
		return buffer.Timestamp(row).AsTime(), nil
	}}
}

func newGUIDConverter(column *Column, buffer *ColumnBuffer) Converter {
	return Converter{Kind: KindGUID, fn: func(row int) (interface{}, error) {
		if buffer.IsNull(row) {
			return nil, nil
		}
		id, err := uuid.FromBytes(buffer.Bytes(row)[:16])
		if err != nil {
			return nil, NewConversionError(column.name, column.ordinal, row, column.code, "uuid.UUID", err)
		}
		return id, nil
	}}
}

// newDeferredConverter materializes a long column that was never bound, every
// cell is read through the long data primitive at materialization time.
func newDeferredConverter(column *Column, stmt driver.Statement, platform driver.Platform) Converter {
	wide := column.code.IsWide()
	binary := column.code.IsBinary()
	charWidth := platform.WideCharWidth
	return Converter{Kind: KindDeferred, fn: func(row int) (interface{}, error) {
		data, err := stmt.ReadLong(column.ordinal, row)
		if err != nil {
			return nil, NewDriverError("read long", column.name, column.ordinal, row, err)
		}
		if data == nil {
			return nil, nil
		}
		switch {
		case binary:
			return data, nil
		case wide:
			return decodeWide(data, charWidth), nil
		}
		return string(data), nil
	}}
}

// narrowCell returns the value bytes of a narrow text cell, bounded by the
// indicator and the bound width
func narrowCell(buffer *ColumnBuffer, row, width int) []byte {
	n := int(buffer.Indicator(row))
	if n > width {
		n = width
	}
	return buffer.Bytes(row)[:n]
}

// decodeWide decodes wide character data using the platform unit width:
// UTF-16 with surrogate pairs for 2 byte units, UTF-32 for 4 byte units.
func decodeWide(data []byte, charWidth int) string {
	if len(data) == 0 {
		return ""
	}
	switch charWidth {
	case 2:
		units := make([]uint16, len(data)/2)
		for i := range units {
			units[i] = *(*uint16)(unsafe.Pointer(&data[i*2]))
		}
		return string(utf16.Decode(units))
	default:
		runes := make([]rune, len(data)/4)
		for i := range runes {
			runes[i] = rune(*(*uint32)(unsafe.Pointer(&data[i*4])))
		}
		return string(runes)
	}
}
