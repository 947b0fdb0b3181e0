package fetch

import (
	"github.com/viant/fetchly/driver"
)

// schema is the immutable per result set view shared by every row the result
// set materializes; rows that escaped the reader stay valid after the context
// is invalidated and rebuilt for the next result set.
type schema struct {
	columns   Columns
	nameIndex map[string]int
}

func newSchema(columns Columns) *schema {
	return &schema{columns: columns, nameIndex: columns.Index()}
}

// fetchContext caches everything derivable from result set metadata: column
// descriptors, bound column buffers and the converter table. It is built
// lazily ahead of the first fetch and reused until the result set changes.
type fetchContext struct {
	schema      *schema
	described   []driver.Column
	dispatch    []Converter
	buffers     []*ColumnBuffer
	spare       []*ColumnBuffer
	capacity    int
	initialized bool
	builds      int
}

// ensure builds the context on first use and regrows bindings when the
// requested capacity exceeds the bound one. A build either completes fully or
// leaves the context untouched, a metadata failure never caches partial state.
func (c *fetchContext) ensure(stmt driver.Statement, opts *options, capacity int) error {
	if c.initialized {
		if capacity <= c.capacity {
			return nil
		}
		return c.grow(stmt, capacity)
	}
	described, err := stmt.DescribeColumns()
	if err != nil {
		return NewMetadataError("describe columns", err)
	}
	columns := make(Columns, len(described))
	for i, item := range described {
		columns[i] = newColumn(item, i+1, opts.platform, opts.deferredLong, opts.longBufferSize)
	}
	buffers := make([]*ColumnBuffer, len(columns))
	for i, column := range columns {
		if column.deferred {
			//deferred long columns are never bound, their cells are read on demand
			continue
		}
		if buffer := c.spareBuffer(i); buffer != nil {
			buffer.ensure(column.stride, capacity)
			buffers[i] = buffer
		} else {
			buffers[i] = newColumnBuffer(column.stride, capacity)
		}
		if err = stmt.BindColumn(column.ordinal, buffers[i].binding()); err != nil {
			return NewDriverError("bind column", column.name, column.ordinal, -1, err)
		}
	}
	dispatch, err := newDispatch(stmt, columns, buffers, opts.platform)
	if err != nil {
		return err
	}
	c.schema = newSchema(columns)
	c.described = described
	c.buffers = buffers
	c.spare = nil
	c.dispatch = dispatch
	c.capacity = capacity
	c.initialized = true
	c.builds++
	return nil
}

// spareBuffer hands out the retained buffer of a previous result set so a
// rebuild reuses already sized memory where column positions match
func (c *fetchContext) spareBuffer(i int) *ColumnBuffer {
	if i >= len(c.spare) {
		return nil
	}
	buffer := c.spare[i]
	c.spare[i] = nil
	return buffer
}

// grow resizes and rebinds the column buffers in place; descriptors and the
// converter table stay since converters reach storage through the buffer
// pointers.
func (c *fetchContext) grow(stmt driver.Statement, capacity int) error {
	for i, column := range c.schema.columns {
		buffer := c.buffers[i]
		if buffer == nil {
			continue
		}
		buffer.ensure(column.stride, capacity)
		if err := stmt.BindColumn(column.ordinal, buffer.binding()); err != nil {
			return NewDriverError("bind column", column.name, column.ordinal, -1, err)
		}
	}
	c.capacity = capacity
	return nil
}

// invalidate drops the cached metadata so the next fetch rebuilds it fresh;
// buffers are retained for the rebuild and the build counter survives so
// rebuilds stay observable.
func (c *fetchContext) invalidate() {
	c.initialized = false
	c.schema = nil
	c.described = nil
	c.dispatch = nil
	c.spare = c.buffers
	c.buffers = nil
	c.capacity = 0
}
