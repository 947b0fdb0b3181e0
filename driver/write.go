package driver

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf16"
	"unsafe"

	"github.com/google/uuid"
)

//WriteNull marks the cell at row as NULL
func WriteNull(b Binding, row int) {
	b.Ind[row] = NullData
}

//WriteCell encodes a host value into the bound buffer region of row, applying
//the native ABI for the column type. Variable width values longer than the
//bound width are written truncated with the indicator holding the full length,
//so the reader can recover the value through ReadLong.
func WriteCell(b Binding, row int, column Column, platform Platform, value interface{}) error {
	if value == nil {
		WriteNull(b, row)
		return nil
	}
	offset := row * b.Stride
	cell := b.Data[offset : offset+b.Stride]
	switch column.Type {
	case TypeBit:
		flag, err := asBool(value)
		if err != nil {
			return cellError(column, row, err)
		}
		cell[0] = 0
		if flag {
			cell[0] = 1
		}
		b.Ind[row] = 1
	case TypeTinyInt:
		v, err := asInt64(value)
		if err != nil {
			return cellError(column, row, err)
		}
		*(*int8)(unsafe.Pointer(&cell[0])) = int8(v)
		b.Ind[row] = 1
	case TypeSmallInt:
		v, err := asInt64(value)
		if err != nil {
			return cellError(column, row, err)
		}
		*(*int16)(unsafe.Pointer(&cell[0])) = int16(v)
		b.Ind[row] = 2
	case TypeInteger:
		v, err := asInt64(value)
		if err != nil {
			return cellError(column, row, err)
		}
		*(*int32)(unsafe.Pointer(&cell[0])) = int32(v)
		b.Ind[row] = 4
	case TypeBigInt:
		v, err := asInt64(value)
		if err != nil {
			return cellError(column, row, err)
		}
		*(*int64)(unsafe.Pointer(&cell[0])) = v
		b.Ind[row] = 8
	case TypeReal:
		v, err := asFloat64(value)
		if err != nil {
			return cellError(column, row, err)
		}
		*(*float32)(unsafe.Pointer(&cell[0])) = float32(v)
		b.Ind[row] = 4
	case TypeDouble:
		v, err := asFloat64(value)
		if err != nil {
			return cellError(column, row, err)
		}
		*(*float64)(unsafe.Pointer(&cell[0])) = v
		b.Ind[row] = 8
	case TypeDecimal, TypeNumeric:
		text, err := asNumericText(value, platform)
		if err != nil {
			return cellError(column, row, err)
		}
		writeNarrowText(cell, b.Ind, row, text)
	case TypeChar, TypeVarChar, TypeLongVarChar:
		text, err := asString(value)
		if err != nil {
			return cellError(column, row, err)
		}
		writeNarrowText(cell, b.Ind, row, text)
	case TypeWChar, TypeWVarChar, TypeWLongVarChar:
		text, err := asString(value)
		if err != nil {
			return cellError(column, row, err)
		}
		writeWideText(cell, b.Ind, row, text, platform.WideCharWidth)
	case TypeBinary, TypeVarBinary, TypeLongVarBinary:
		raw, err := asBytes(value)
		if err != nil {
			return cellError(column, row, err)
		}
		copy(cell, raw)
		b.Ind[row] = int64(len(raw))
	case TypeDate:
		v, err := asDate(value)
		if err != nil {
			return cellError(column, row, err)
		}
		*(*Date)(unsafe.Pointer(&cell[0])) = v
		b.Ind[row] = 6
	case TypeTime:
		v, err := asClock(value)
		if err != nil {
			return cellError(column, row, err)
		}
		*(*Clock)(unsafe.Pointer(&cell[0])) = v
		b.Ind[row] = 6
	case TypeTimestamp:
		v, err := asTimestamp(value)
		if err != nil {
			return cellError(column, row, err)
		}
		*(*Timestamp)(unsafe.Pointer(&cell[0])) = v
		b.Ind[row] = 16
	case TypeGUID:
		id, err := asGUID(value)
		if err != nil {
			return cellError(column, row, err)
		}
		copy(cell, id[:])
		b.Ind[row] = 16
	default:
		return cellError(column, row, fmt.Errorf("unsupported type code: %v", column.Type))
	}
	return nil
}

//writeNarrowText writes value bytes with a NUL terminator, the indicator
//carries the full byte length even when the bound width forces truncation
func writeNarrowText(cell []byte, ind []int64, row int, text string) {
	room := len(cell) - 1
	n := copy(cell[:room], text)
	cell[n] = 0
	ind[row] = int64(len(text))
}

func writeWideText(cell []byte, ind []int64, row int, text string, charWidth int) {
	room := len(cell) - charWidth
	switch charWidth {
	case 2:
		units := utf16.Encode([]rune(text))
		total := len(units) * 2
		n := 0
		for _, unit := range units {
			if n+2 > room {
				break
			}
			*(*uint16)(unsafe.Pointer(&cell[n])) = unit
			n += 2
		}
		*(*uint16)(unsafe.Pointer(&cell[n])) = 0
		ind[row] = int64(total)
	default:
		runes := []rune(text)
		total := len(runes) * 4
		n := 0
		for _, r := range runes {
			if n+4 > room {
				break
			}
			*(*uint32)(unsafe.Pointer(&cell[n])) = uint32(r)
			n += 4
		}
		*(*uint32)(unsafe.Pointer(&cell[n])) = 0
		ind[row] = int64(total)
	}
}

func cellError(column Column, row int, err error) error {
	return fmt.Errorf("failed to encode %v cell %v at row %v, due to %w", column.Type, column.Name, row, err)
}

func asBool(value interface{}) (bool, error) {
	switch actual := value.(type) {
	case bool:
		return actual, nil
	case int:
		return actual != 0, nil
	case int64:
		return actual != 0, nil
	}
	return false, fmt.Errorf("unsupported bool source %T", value)
}

func asInt64(value interface{}) (int64, error) {
	switch actual := value.(type) {
	case int:
		return int64(actual), nil
	case int8:
		return int64(actual), nil
	case int16:
		return int64(actual), nil
	case int32:
		return int64(actual), nil
	case int64:
		return actual, nil
	case uint:
		return int64(actual), nil
	case uint8:
		return int64(actual), nil
	case uint16:
		return int64(actual), nil
	case uint32:
		return int64(actual), nil
	case uint64:
		return int64(actual), nil
	case bool:
		if actual {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("unsupported integer source %T", value)
}

func asFloat64(value interface{}) (float64, error) {
	switch actual := value.(type) {
	case float32:
		return float64(actual), nil
	case float64:
		return actual, nil
	case int:
		return float64(actual), nil
	case int64:
		return float64(actual), nil
	}
	return 0, fmt.Errorf("unsupported float source %T", value)
}

func asString(value interface{}) (string, error) {
	switch actual := value.(type) {
	case string:
		return actual, nil
	case []byte:
		return string(actual), nil
	case fmt.Stringer:
		return actual.String(), nil
	}
	return "", fmt.Errorf("unsupported text source %T", value)
}

func asNumericText(value interface{}, platform Platform) (string, error) {
	var text string
	switch actual := value.(type) {
	case string:
		text = actual
	case float64:
		text = fmt.Sprintf("%v", actual)
	case float32:
		text = fmt.Sprintf("%v", actual)
	case int:
		text = fmt.Sprintf("%v", actual)
	case int64:
		text = fmt.Sprintf("%v", actual)
	case fmt.Stringer:
		text = actual.String()
	default:
		return "", fmt.Errorf("unsupported numeric source %T", value)
	}
	if platform.DecimalPoint != '.' {
		text = strings.ReplaceAll(text, ".", string(platform.DecimalPoint))
	}
	return text, nil
}

func asBytes(value interface{}) ([]byte, error) {
	switch actual := value.(type) {
	case []byte:
		return actual, nil
	case string:
		return []byte(actual), nil
	}
	return nil, fmt.Errorf("unsupported binary source %T", value)
}

func asDate(value interface{}) (Date, error) {
	switch actual := value.(type) {
	case Date:
		return actual, nil
	case time.Time:
		return NewDate(actual), nil
	}
	return Date{}, fmt.Errorf("unsupported date source %T", value)
}

func asClock(value interface{}) (Clock, error) {
	switch actual := value.(type) {
	case Clock:
		return actual, nil
	case time.Time:
		return NewClock(actual), nil
	}
	return Clock{}, fmt.Errorf("unsupported time source %T", value)
}

func asTimestamp(value interface{}) (Timestamp, error) {
	switch actual := value.(type) {
	case Timestamp:
		return actual, nil
	case time.Time:
		return NewTimestamp(actual), nil
	}
	return Timestamp{}, fmt.Errorf("unsupported timestamp source %T", value)
}

func asGUID(value interface{}) (uuid.UUID, error) {
	switch actual := value.(type) {
	case uuid.UUID:
		return actual, nil
	case [16]byte:
		return uuid.UUID(actual), nil
	case string:
		return uuid.Parse(actual)
	case []byte:
		return uuid.FromBytes(actual)
	}
	return uuid.UUID{}, fmt.Errorf("unsupported guid source %T", value)
}
