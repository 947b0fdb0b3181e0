package bridge

import (
	"fmt"
	"strconv"
	"time"

	"github.com/viant/fetchly/driver"
)

// temporal layouts database/sql drivers render text cells with, longest first
var temporalLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
	"15:04:05.999999999",
}

// normalizeCell converts a scanned driver value into a host value the cell
// encoder accepts for the column type. Drivers running the text protocol
// report numerics, booleans and temporals as text.
func normalizeCell(column driver.Column, value interface{}) (interface{}, error) {
	if value == nil {
		return nil, nil
	}
	switch {
	case column.Type == driver.TypeBit:
		return normalizeBool(column, value)
	case column.Type.IsInteger():
		return normalizeInt(column, value)
	case column.Type.IsFloat():
		return normalizeFloat(column, value)
	case column.Type.IsDecimal():
		if raw, ok := value.([]byte); ok {
			return string(raw), nil
		}
	case column.Type.IsTemporal():
		return normalizeTemporal(column, value)
	case column.Type.IsText():
		return normalizeText(value), nil
	}
	return value, nil
}

// normalizeText renders non text driver values, expression columns of type
// less drivers resolve to text with whatever value kind the row carries
func normalizeText(value interface{}) interface{} {
	switch actual := value.(type) {
	case int64:
		return strconv.FormatInt(actual, 10)
	case float64:
		return strconv.FormatFloat(actual, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(actual)
	case time.Time:
		return actual.Format("2006-01-02 15:04:05.999999999")
	}
	return value
}

func normalizeBool(column driver.Column, value interface{}) (interface{}, error) {
	switch actual := value.(type) {
	case bool, int64:
		return actual, nil
	case []byte:
		return parseBool(column, string(actual))
	case string:
		return parseBool(column, actual)
	}
	return value, nil
}

func parseBool(column driver.Column, text string) (interface{}, error) {
	if len(text) == 1 && (text[0] == 0 || text[0] == 1) {
		//single byte BIT cell
		return text[0] == 1, nil
	}
	result, err := strconv.ParseBool(text)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize %v cell %v, due to %w", column.Type, column.Name, err)
	}
	return result, nil
}

func normalizeInt(column driver.Column, value interface{}) (interface{}, error) {
	switch actual := value.(type) {
	case []byte:
		return parseInt(column, string(actual))
	case string:
		return parseInt(column, actual)
	}
	return value, nil
}

func parseInt(column driver.Column, text string) (interface{}, error) {
	result, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize %v cell %v, due to %w", column.Type, column.Name, err)
	}
	return result, nil
}

func normalizeFloat(column driver.Column, value interface{}) (interface{}, error) {
	switch actual := value.(type) {
	case []byte:
		return parseFloat(column, string(actual))
	case string:
		return parseFloat(column, actual)
	}
	return value, nil
}

func parseFloat(column driver.Column, text string) (interface{}, error) {
	result, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize %v cell %v, due to %w", column.Type, column.Name, err)
	}
	return result, nil
}

func normalizeTemporal(column driver.Column, value interface{}) (interface{}, error) {
	switch actual := value.(type) {
	case time.Time:
		return actual, nil
	case []byte:
		return parseTemporal(column, string(actual))
	case string:
		return parseTemporal(column, actual)
	}
	return value, nil
}

func parseTemporal(column driver.Column, text string) (interface{}, error) {
	for _, layout := range temporalLayouts {
		if parsed, err := time.ParseInLocation(layout, text, time.UTC); err == nil {
			return parsed, nil
		}
	}
	return nil, fmt.Errorf("failed to normalize %v cell %v, unsupported layout %q", column.Type, column.Name, text)
}
