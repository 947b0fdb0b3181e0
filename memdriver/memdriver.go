// Package memdriver implements the driver statement contract over scripted
// in memory result sets. It backs tests and examples without a database, host
// values are encoded into bound column buffers the same way a native driver
// fills them.
package memdriver

import (
	"fmt"

	"github.com/viant/fetchly/driver"
)

// ResultSet scripts one result set: described columns plus host value rows
type ResultSet struct {
	Columns []driver.Column
	Rows    [][]interface{}
}

// Statement replays scripted result sets through the column binding protocol
type Statement struct {
	//Platform controls the wide character width and decimal separator cells
	//are encoded with
	Platform driver.Platform

	//FailDescribe makes DescribeColumns fail with the supplied error
	FailDescribe error

	//FailFetch makes the FailFetchAfter-th fetch call fail
	FailFetch      error
	FailFetchAfter int

	//FailReadLong makes long data retrieval fail
	FailReadLong error

	sets       []*ResultSet
	current    int
	cursor     int
	lastBatch  int
	bindings   map[int]driver.Binding
	describes  int
	fetchCalls int
	closed     bool
}

// New creates a statement over the supplied result sets
func New(platform driver.Platform, sets ...*ResultSet) *Statement {
	return &Statement{Platform: platform, sets: sets, bindings: map[int]driver.Binding{}}
}

// Describes returns how many times column metadata was retrieved
func (s *Statement) Describes() int {
	return s.describes
}

// DescribeColumns returns the scripted column metadata of the active result set
func (s *Statement) DescribeColumns() ([]driver.Column, error) {
	if s.FailDescribe != nil {
		return nil, s.FailDescribe
	}
	set, err := s.resultSet()
	if err != nil {
		return nil, err
	}
	s.describes++
	result := make([]driver.Column, len(set.Columns))
	copy(result, set.Columns)
	return result, nil
}

// BindColumn attaches a buffer region to the 1 based ordinal
func (s *Statement) BindColumn(ordinal int, binding driver.Binding) error {
	set, err := s.resultSet()
	if err != nil {
		return err
	}
	if ordinal < 1 || ordinal > len(set.Columns) {
		return fmt.Errorf("ordinal %v out of range 1..%v", ordinal, len(set.Columns))
	}
	s.bindings[ordinal] = binding
	return nil
}

// Fetch encodes up to max scripted rows into the bound buffers and returns
// how many it produced, zero means the result set is drained
func (s *Statement) Fetch(max int) (int, error) {
	s.fetchCalls++
	if s.FailFetch != nil && s.fetchCalls == s.FailFetchAfter {
		return 0, s.FailFetch
	}
	set, err := s.resultSet()
	if err != nil {
		return 0, err
	}
	remaining := len(set.Rows) - s.cursor
	if remaining <= 0 {
		s.lastBatch = s.cursor
		return 0, nil
	}
	count := max
	if count > remaining {
		count = remaining
	}
	for ordinal, binding := range s.bindings {
		if count > binding.Capacity() {
			return 0, fmt.Errorf("fetch of %v rows exceeds capacity %v bound to ordinal %v", count, binding.Capacity(), ordinal)
		}
	}
	for row := 0; row < count; row++ {
		values := set.Rows[s.cursor+row]
		for ordinal, binding := range s.bindings {
			column := set.Columns[ordinal-1]
			if err := driver.WriteCell(binding, row, column, s.Platform, values[ordinal-1]); err != nil {
				return 0, err
			}
		}
	}
	s.lastBatch = s.cursor
	s.cursor += count
	return count, nil
}

// ReadLong returns the full value of a cell in the column's bound
// representation, row addresses the last fetched batch. Nil data stands for
// NULL.
func (s *Statement) ReadLong(ordinal, row int) ([]byte, error) {
	if s.FailReadLong != nil {
		return nil, s.FailReadLong
	}
	set, err := s.resultSet()
	if err != nil {
		return nil, err
	}
	if ordinal < 1 || ordinal > len(set.Columns) {
		return nil, fmt.Errorf("ordinal %v out of range 1..%v", ordinal, len(set.Columns))
	}
	absolute := s.lastBatch + row
	if absolute < 0 || absolute >= len(set.Rows) {
		return nil, fmt.Errorf("row %v outside the fetched batch", row)
	}
	value := set.Rows[absolute][ordinal-1]
	if value == nil {
		return nil, nil
	}
	return driver.EncodeValue(set.Columns[ordinal-1], s.Platform, value)
}

// NextResultSet discards the active result set and advances to the following
// one, bindings do not carry over
func (s *Statement) NextResultSet() (bool, error) {
	if s.closed {
		return false, fmt.Errorf("statement closed")
	}
	if s.current+1 >= len(s.sets) {
		return false, nil
	}
	s.current++
	s.cursor = 0
	s.lastBatch = 0
	s.bindings = map[int]driver.Binding{}
	return true, nil
}

// CloseCursor releases the statement
func (s *Statement) CloseCursor() error {
	s.closed = true
	return nil
}

func (s *Statement) resultSet() (*ResultSet, error) {
	if s.closed {
		return nil, fmt.Errorf("statement closed")
	}
	if s.current >= len(s.sets) {
		return nil, fmt.Errorf("no active result set")
	}
	return s.sets[s.current], nil
}
