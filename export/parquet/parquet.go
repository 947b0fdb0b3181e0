// Package parquet renders materialized rows as a parquet file. The row struct
// type is derived from the column set, nullable columns become optional
// fields.
package parquet

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	aParquet "github.com/segmentio/parquet-go"
	"github.com/viant/fetchly/export"
	"github.com/viant/fetchly/fetch"
	"github.com/viant/fetchly/types"
	"github.com/viant/toolbox/format"
)

var (
	int64Type   = reflect.TypeOf(int64(0))
	float64Type = reflect.TypeOf(float64(0))
	boolType    = reflect.TypeOf(true)
	stringType  = reflect.TypeOf("")
	bytesType   = reflect.TypeOf([]byte{})
)

// Write renders rows into dest, an empty row slice still writes the schema
func Write(dest io.Writer, columns fetch.Columns, rows []fetch.Row) error {
	structType := rowStructType(columns)
	writerConfig := aParquet.WriterConfig{
		Compression: &aParquet.Zstd,
	}
	schema := aParquet.SchemaOf(reflect.New(structType).Interface())
	writer := aParquet.NewWriter(dest, schema, &writerConfig)
	for _, row := range rows {
		record, err := newRecord(structType, columns, row)
		if err != nil {
			return err
		}
		if err = writer.Write(record); err != nil {
			return fmt.Errorf("failed to write parquet row, due to %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush parquet, due to %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet, due to %w", err)
	}
	return nil
}

// Drain writes every remaining reader row into dest, it returns the written
// row count
func Drain(ctx context.Context, reader *fetch.Reader, dest io.Writer) (int, error) {
	var rows []fetch.Row
	err := reader.FetchAll(ctx, func(row fetch.Row) error {
		rows = append(rows, row)
		return nil
	})
	if err != nil {
		return 0, err
	}
	columns := reader.Columns()
	if len(columns) == 0 {
		return 0, nil
	}
	if err = Write(dest, columns, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

// rowStructType builds the row struct for a column set; cells without a
// native parquet representation render as text
func rowStructType(columns fetch.Columns) reflect.Type {
	fields := make([]reflect.StructField, len(columns))
	used := map[string]bool{}
	for i, column := range columns {
		fieldType := fieldTypeOf(column)
		tag := `parquet:"` + column.Name() + `,plain`
		if nullable, ok := column.Nullable(); !ok || nullable {
			fieldType = reflect.PtrTo(fieldType)
			tag += `,optional`
		}
		tag += `"`
		fields[i] = reflect.StructField{
			Name: fieldName(column.Name(), i, used),
			Type: fieldType,
			Tag:  reflect.StructTag(tag),
		}
	}
	return reflect.StructOf(fields)
}

func fieldTypeOf(column *fetch.Column) reflect.Type {
	switch column.ScanType() {
	case int64Type, float64Type, boolType, stringType, bytesType:
		return column.ScanType()
	}
	//temporal, decimal and guid cells render as text
	return stringType
}

func fieldName(name string, ordinal int, used map[string]bool) string {
	var cleaned strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			cleaned.WriteRune(r)
		}
	}
	name = cleaned.String()
	if name == "" || unicode.IsDigit(rune(name[0])) {
		name = "Column" + strconv.Itoa(ordinal+1)
	}
	result := export.CaseOf(name).Format(name, format.CaseUpperCamel)
	if result == "" || !unicode.IsUpper(rune(result[0])) {
		result = "Column" + strconv.Itoa(ordinal+1)
	}
	for used[result] {
		result += strconv.Itoa(ordinal + 1)
	}
	used[result] = true
	return result
}

func newRecord(structType reflect.Type, columns fetch.Columns, row fetch.Row) (interface{}, error) {
	if row.Len() != structType.NumField() {
		return nil, fmt.Errorf("invalid row: expected %v cells, had %v", structType.NumField(), row.Len())
	}
	pointer := reflect.New(structType)
	record := pointer.Elem()
	for i, column := range columns {
		value := row.Value(i)
		if value == nil {
			continue
		}
		cell := reflect.ValueOf(fieldValueOf(column, value))
		field := record.Field(i)
		if field.Kind() == reflect.Ptr {
			holder := reflect.New(field.Type().Elem())
			holder.Elem().Set(cell)
			field.Set(holder)
			continue
		}
		field.Set(cell)
	}
	return pointer.Interface(), nil
}

func fieldValueOf(column *fetch.Column, value interface{}) interface{} {
	switch actual := value.(type) {
	case time.Time:
		return actual.Format(export.TemporalLayout(column.Type()))
	case types.Decimal:
		return actual.String()
	case uuid.UUID:
		return actual.String()
	}
	return value
}
