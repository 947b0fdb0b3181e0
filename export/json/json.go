// Package json renders materialized rows as newline delimited JSON objects,
// one object per row with keys in column order.
package json

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/viant/fetchly/fetch"
)

// Writer renders rows of one result set
type Writer struct {
	dest    io.Writer
	keys    [][]byte
	buffer  bytes.Buffer
	columns fetch.Columns
}

// NewWriter creates a writer for the supplied column set
func NewWriter(dest io.Writer, columns fetch.Columns) (*Writer, error) {
	keys := make([][]byte, len(columns))
	for i, name := range columns.Names() {
		key, err := json.Marshal(name)
		if err != nil {
			return nil, fmt.Errorf("failed to encode column name %v, due to %w", name, err)
		}
		keys[i] = append(key, ':')
	}
	return &Writer{dest: dest, keys: keys, columns: columns}, nil
}

// WriteRow renders one row followed by a newline. NULL cells render as JSON
// null, binary cells as base64 text, temporal cells in RFC 3339.
func (w *Writer) WriteRow(row fetch.Row) error {
	if row.Len() != len(w.keys) {
		return fmt.Errorf("invalid row: expected %v cells, had %v", len(w.keys), row.Len())
	}
	w.buffer.Reset()
	w.buffer.WriteByte('{')
	for i, key := range w.keys {
		if i != 0 {
			w.buffer.WriteByte(',')
		}
		w.buffer.Write(key)
		cell, err := json.Marshal(row.Value(i))
		if err != nil {
			return fmt.Errorf("failed to encode column %v, due to %w", w.columns[i].Name(), err)
		}
		w.buffer.Write(cell)
	}
	w.buffer.WriteString("}\n")
	if _, err := w.dest.Write(w.buffer.Bytes()); err != nil {
		return fmt.Errorf("failed to write json, due to %w", err)
	}
	return nil
}

// WriteRows renders rows in order
func (w *Writer) WriteRows(rows []fetch.Row) error {
	for _, row := range rows {
		if err := w.WriteRow(row); err != nil {
			return err
		}
	}
	return nil
}

// Write drains reader into dest, it returns the written row count
func Write(ctx context.Context, reader *fetch.Reader, dest io.Writer) (int, error) {
	var writer *Writer
	count := 0
	err := reader.FetchAll(ctx, func(row fetch.Row) error {
		if writer == nil {
			var err error
			if writer, err = NewWriter(dest, row.Columns()); err != nil {
				return err
			}
		}
		if err := writer.WriteRow(row); err != nil {
			return err
		}
		count++
		return nil
	})
	return count, err
}
