package fetch

import (
	"fmt"

	"github.com/viant/fetchly/driver"
)

// newDispatch builds the index aligned converter table for one result set.
// All per type branching happens here, once; the per cell hot loop only
// indexes the table.
func newDispatch(stmt driver.Statement, columns Columns, buffers []*ColumnBuffer, platform driver.Platform) ([]Converter, error) {
	table := make([]Converter, len(columns))
	for i, column := range columns {
		converter, err := newConverter(stmt, column, buffers[i], platform)
		if err != nil {
			return nil, err
		}
		table[i] = converter
	}
	return table, nil
}

func newConverter(stmt driver.Statement, column *Column, buffer *ColumnBuffer, platform driver.Platform) (Converter, error) {
	switch kindOf(column.code, column.deferred) {
	case KindBool:
		return newBoolConverter(buffer), nil
	case KindInt:
		return newIntConverter(column, buffer), nil
	case KindFloat:
		return newFloatConverter(column, buffer), nil
	case KindDecimal:
		return newDecimalConverter(column, buffer, platform), nil
	case KindText:
		return newTextConverter(column, buffer, stmt), nil
	case KindWideText:
		return newWideTextConverter(column, buffer, stmt, platform), nil
	case KindBinary:
		return newBinaryConverter(column, buffer, stmt), nil
	case KindDate:
		return newDateConverter(buffer), nil
	case KindTime:
		return newTimeConverter(buffer), nil
	case KindTimestamp:
		return newTimestampConverter(buffer), nil
	case KindGUID:
		return newGUIDConverter(column, buffer), nil
	case KindDeferred:
		return newDeferredConverter(column, stmt, platform), nil
	}
	return Converter{}, NewMetadataError("dispatch", fmt.Errorf("unsupported type code %v for column %v", column.code, column.name))
}
