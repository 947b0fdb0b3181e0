// Package scan binds materialized rows to Go structs. A Binder is built once
// per result set and assigns cells with precomputed field offsets, no
// reflection runs on the per row path.
package scan

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/viant/fetchly/fetch"
	"github.com/viant/xunsafe"
)

// boundField carries a struct field with the accumulated offset of its
// embedding chain
type boundField struct {
	field *xunsafe.Field
	base  int
}

// Binder assigns row cells to fields of one struct type
type Binder struct {
	targetType reflect.Type
	columns    fetch.Columns
	setters    []setter
}

// New creates a binder matching columns to fields of targetType. Matching
// tries the tag name, then the field name, case insensitively and with
// underscores ignored. Columns without a field fail the build unless
// WithUnmappedIgnored is used.
func New(columns fetch.Columns, targetType reflect.Type, opts ...Option) (*Binder, error) {
	options := newOptions(opts)
	if targetType.Kind() == reflect.Ptr {
		targetType = targetType.Elem()
	}
	if targetType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("invalid binder target type: %s", targetType.String())
	}
	fields, matched := indexFields(targetType, options.tagName)
	var unmapped []string
	result := &Binder{
		targetType: targetType,
		columns:    columns,
		setters:    make([]setter, len(columns)),
	}
	for i, column := range columns {
		pos := matched.match(column.Name())
		if pos == -1 {
			unmapped = append(unmapped, column.Name())
			continue
		}
		bound := fields[pos]
		set, err := newSetter(column.ScanType(), bound.field, bound.base)
		if err != nil {
			return nil, fmt.Errorf("failed to bind column %v, due to %w", column.Name(), err)
		}
		result.setters[i] = set
	}
	if len(unmapped) > 0 && !options.unmappedIgnored {
		return nil, fmt.Errorf("failed to match columns: %v in type %s", strings.Join(unmapped, ", "), targetType.String())
	}
	return result, nil
}

// Type returns the bound struct type
func (b *Binder) Type() reflect.Type {
	return b.targetType
}

// Bind assigns row cells to target, which has to be a pointer to the binder
// struct type
func (b *Binder) Bind(target interface{}, row fetch.Row) error {
	targetType := reflect.TypeOf(target)
	if targetType == nil || targetType.Kind() != reflect.Ptr || targetType.Elem() != b.targetType {
		return fmt.Errorf("invalid bind target: expected %s, had %T", "*"+b.targetType.String(), target)
	}
	if row.Len() != len(b.setters) {
		return fmt.Errorf("invalid bind row: expected %v cells, had %v", len(b.setters), row.Len())
	}
	ptr := xunsafe.AsPointer(target)
	for i, set := range b.setters {
		if set == nil {
			continue
		}
		if err := set(ptr, row.Value(i)); err != nil {
			return fmt.Errorf("failed to bind column %v, due to %w", b.columns[i].Name(), err)
		}
	}
	return nil
}

// indexFields collects bindable fields of structType, expanding embedded
// value structs with their accumulated offsets
func indexFields(structType reflect.Type, tagName string) ([]boundField, index) {
	var fields []boundField
	matched := index{}
	appendFields(structType, tagName, 0, &fields, matched)
	return fields, matched
}

func appendFields(structType reflect.Type, tagName string, base int, fields *[]boundField, matched index) {
	xStruct := xunsafe.NewStruct(structType)
	for i := range xStruct.Fields {
		field := &xStruct.Fields[i]
		if field.Anonymous && field.Type.Kind() == reflect.Struct && field.Type != timeType {
			appendFields(field.Type, tagName, base+int(field.Offset), fields, matched)
			continue
		}
		tag := ParseTag(field.Tag.Get(tagName))
		if tag.Transient {
			continue
		}
		name := field.Name
		if tag.Column != "" {
			name = tag.Column
		}
		pos := len(*fields)
		*fields = append(*fields, boundField{field: field, base: base})
		matched.add(name, pos)
	}
}

// All drains reader binding every row to a fresh newRow value and hands it to
// emit, the binder is built from the first fetched row
func All(ctx context.Context, reader *fetch.Reader, newRow func() interface{}, emit func(target interface{}) error, opts ...Option) error {
	var binder *Binder
	return reader.FetchAll(ctx, func(row fetch.Row) error {
		if binder == nil {
			var err error
			if binder, err = New(row.Columns(), reflect.TypeOf(newRow()), opts...); err != nil {
				return err
			}
		}
		target := newRow()
		if err := binder.Bind(target, row); err != nil {
			return err
		}
		return emit(target)
	})
}
