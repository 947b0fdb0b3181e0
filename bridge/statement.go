// Package bridge adapts a database/sql result set to the native statement
// contract, so any database/sql driver can feed the batch materialization
// engine. Scanned cells are re-encoded into bound column buffers with the
// same ABI a native client fills them with.
package bridge

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/viant/fetchly/driver"
)

// Statement serves an executed database/sql query through the column binding
// protocol
type Statement struct {
	platform  driver.Platform
	rows      *sql.Rows
	columns   []driver.Column
	bindings  map[int]driver.Binding
	batch     [][]interface{}
	exhausted bool
	closed    bool
}

// New creates a statement over an executed query, the statement takes over
// the rows lifecycle
func New(platform driver.Platform, rows *sql.Rows) *Statement {
	return &Statement{
		platform: platform,
		rows:     rows,
		bindings: map[int]driver.Binding{},
	}
}

// Query runs SQL on db and serves the result through the column binding
// protocol
func Query(ctx context.Context, db *sql.DB, platform driver.Platform, query string, args ...interface{}) (*Statement, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to run query: %v, due to %w", query, err)
	}
	return New(platform, rows), nil
}

// DescribeColumns resolves column metadata from the driver reported types,
// declared type names take precedence over scan types
func (s *Statement) DescribeColumns() ([]driver.Column, error) {
	if err := s.ensureColumns(); err != nil {
		return nil, err
	}
	result := make([]driver.Column, len(s.columns))
	copy(result, s.columns)
	return result, nil
}

// BindColumn associates a buffer with the 1 based column ordinal
func (s *Statement) BindColumn(ordinal int, binding driver.Binding) error {
	if err := s.ensureColumns(); err != nil {
		return err
	}
	if ordinal < 1 || ordinal > len(s.columns) {
		return fmt.Errorf("invalid ordinal: %v, expected 1..%v", ordinal, len(s.columns))
	}
	s.bindings[ordinal] = binding
	return nil
}

// Fetch scans up to max rows and encodes them into the bound buffers
func (s *Statement) Fetch(max int) (int, error) {
	if s.closed {
		return 0, fmt.Errorf("statement closed")
	}
	if err := s.ensureColumns(); err != nil {
		return 0, err
	}
	if max <= 0 || s.exhausted {
		return 0, nil
	}
	s.batch = s.batch[:0]
	count := 0
	for count < max {
		if !s.rows.Next() {
			if err := s.rows.Err(); err != nil {
				return 0, fmt.Errorf("failed to advance row, due to %w", err)
			}
			s.exhausted = true
			break
		}
		cells, err := s.scanRow()
		if err != nil {
			return 0, err
		}
		s.batch = append(s.batch, cells)
		count++
	}
	for ordinal, binding := range s.bindings {
		if binding.Capacity() < count {
			return 0, fmt.Errorf("binding of column %v holds %v rows, fetched %v", ordinal, binding.Capacity(), count)
		}
	}
	for row, cells := range s.batch {
		for ordinal, binding := range s.bindings {
			column := s.columns[ordinal-1]
			if err := driver.WriteCell(binding, row, column, s.platform, cells[ordinal-1]); err != nil {
				return 0, err
			}
		}
	}
	return count, nil
}

// ReadLong returns the complete value of one cell of the most recent batch
func (s *Statement) ReadLong(ordinal, row int) ([]byte, error) {
	if s.closed {
		return nil, fmt.Errorf("statement closed")
	}
	if ordinal < 1 || ordinal > len(s.columns) {
		return nil, fmt.Errorf("invalid ordinal: %v, expected 1..%v", ordinal, len(s.columns))
	}
	if row < 0 || row >= len(s.batch) {
		return nil, fmt.Errorf("invalid row: %v, batch holds %v rows", row, len(s.batch))
	}
	value := s.batch[row][ordinal-1]
	if value == nil {
		return nil, nil
	}
	return driver.EncodeValue(s.columns[ordinal-1], s.platform, value)
}

// NextResultSet advances to the next result set of a multi statement query,
// bindings and described columns do not carry over
func (s *Statement) NextResultSet() (bool, error) {
	if s.closed {
		return false, fmt.Errorf("statement closed")
	}
	s.columns = nil
	s.bindings = map[int]driver.Binding{}
	s.batch = nil
	s.exhausted = false
	if !s.rows.NextResultSet() {
		if err := s.rows.Err(); err != nil {
			return false, fmt.Errorf("failed to advance result set, due to %w", err)
		}
		return false, nil
	}
	return true, nil
}

// CloseCursor releases the rows
func (s *Statement) CloseCursor() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.rows.Close(); err != nil {
		return fmt.Errorf("failed to close rows, due to %w", err)
	}
	return nil
}

func (s *Statement) ensureColumns() error {
	if s.columns != nil {
		return nil
	}
	columnTypes, err := s.rows.ColumnTypes()
	if err != nil {
		return fmt.Errorf("failed to read column types, due to %w", err)
	}
	s.columns = describeColumns(columnTypes)
	return nil
}

// scanRow scans the current row into driver values and normalizes each cell
// for the column it belongs to
func (s *Statement) scanRow() ([]interface{}, error) {
	cells := make([]interface{}, len(s.columns))
	dests := make([]interface{}, len(s.columns))
	for i := range cells {
		dests[i] = &cells[i]
	}
	if err := s.rows.Scan(dests...); err != nil {
		return nil, fmt.Errorf("failed to scan row, due to %w", err)
	}
	for i := range cells {
		//raw scan destinations alias driver owned memory valid only until the
		//next row advances
		if raw, ok := cells[i].([]byte); ok {
			cells[i] = append([]byte(nil), raw...)
		}
	}
	for i, column := range s.columns {
		value, err := normalizeCell(column, cells[i])
		if err != nil {
			return nil, err
		}
		cells[i] = value
	}
	return cells, nil
}
