// Package csv renders materialized rows as delimiter separated text, the
// format load tooling expects: configurable separators, escape and enclosure,
// NULL cells rendered with a placeholder.
package csv

import (
	"context"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/viant/fetchly/export"
	"github.com/viant/fetchly/fetch"
)

// Writer renders rows of one result set
type Writer struct {
	config       *Config
	dest         io.Writer
	columns      fetch.Columns
	stringifiers []cellStringifier
	written      bool
}

// NewWriter creates a writer for the supplied column set, config may be nil
func NewWriter(dest io.Writer, columns fetch.Columns, config *Config) *Writer {
	if config == nil {
		config = &Config{}
	}
	config.init()
	return &Writer{
		config:       config,
		dest:         dest,
		columns:      columns,
		stringifiers: newStringifiers(columns, config.NullValue),
	}
}

// WriteHeader writes the column name line, applying the configured header case
func (w *Writer) WriteHeader() error {
	builder := &strings.Builder{}
	w.separate(builder)
	for i, name := range w.columns.Names() {
		if i != 0 {
			builder.WriteString(w.config.FieldSeparator)
		}
		if w.config.HeaderCase != nil {
			name = export.CaseOf(name).Format(name, *w.config.HeaderCase)
		}
		builder.WriteString(w.escape(name))
	}
	return w.flush(builder)
}

// WriteRow renders one row, the header line is written first unless omitted
func (w *Writer) WriteRow(row fetch.Row) error {
	if !w.written && !w.config.OmitHeader {
		if err := w.WriteHeader(); err != nil {
			return err
		}
	}
	if row.Len() != len(w.stringifiers) {
		return errors.Errorf("invalid row: expected %v cells, had %v", len(w.stringifiers), row.Len())
	}
	builder := &strings.Builder{}
	w.separate(builder)
	for i, stringify := range w.stringifiers {
		if i != 0 {
			builder.WriteString(w.config.FieldSeparator)
		}
		value, enclose := stringify(row.Value(i))
		value = w.escape(value)
		if enclose {
			value = w.config.EncloseBy + value + w.config.EncloseBy
		}
		builder.WriteString(value)
	}
	return w.flush(builder)
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

func (w *Writer) separate(builder *strings.Builder) {
	if w.written {
		builder.WriteString(w.config.ObjectSeparator)
	}
}

func (w *Writer) flush(builder *strings.Builder) error {
	if _, err := w.dest.Write([]byte(builder.String())); err != nil {
		return errors.Wrapf(err, "failed to write csv")
	}
	w.written = true
	return nil
}

func (w *Writer) escape(value string) string {
	value = strings.ReplaceAll(value, w.config.EscapeBy, w.config.EscapeBy+w.config.EscapeBy)
	value = strings.ReplaceAll(value, w.config.FieldSeparator, w.config.EscapeBy+w.config.FieldSeparator)
	value = strings.ReplaceAll(value, w.config.ObjectSeparator, w.config.EscapeBy+w.config.ObjectSeparator)
	value = strings.ReplaceAll(value, w.config.EncloseBy, w.config.EscapeBy+w.config.EncloseBy)
	return value
}

// Write drains reader into dest, it returns the written row count; an empty
// result set still produces the header line
func Write(ctx context.Context, reader *fetch.Reader, dest io.Writer, config *Config) (int, error) {
	var writer *Writer
	count := 0
	err := reader.FetchAll(ctx, func(row fetch.Row) error {
		if writer == nil {
			writer = NewWriter(dest, row.Columns(), config)
		}
		if err := writer.WriteRow(row); err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		return count, err
	}
	if writer == nil {
		if columns := reader.Columns(); len(columns) > 0 {
			writer = NewWriter(dest, columns, config)
			if !writer.config.OmitHeader {
				return 0, writer.WriteHeader()
			}
		}
	}
	return count, nil
}
