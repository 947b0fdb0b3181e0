package fetch

import (
	"unsafe"

	"github.com/viant/fetchly/driver"
)

// ColumnBuffer is the reusable typed storage of one column for one batch: a
// contiguous stride by capacity byte region plus one indicator per row. It is
// bound to the driver once per result set and refilled on every fetch call.
type ColumnBuffer struct {
	stride   int
	capacity int
	data     []byte
	ind      []int64
}

func newColumnBuffer(stride, capacity int) *ColumnBuffer {
	buffer := &ColumnBuffer{}
	buffer.ensure(stride, capacity)
	return buffer
}

// ensure resizes storage only when the element stride or batch capacity
// changed, otherwise the already allocated region is reused as is.
func (b *ColumnBuffer) ensure(stride, capacity int) {
	if b.stride == stride && b.capacity >= capacity {
		return
	}
	if required := stride * capacity; required > cap(b.data) {
		b.data = make([]byte, required)
	} else {
		b.data = b.data[:stride*capacity]
	}
	if capacity > cap(b.ind) {
		b.ind = make([]int64, capacity)
	} else {
		b.ind = b.ind[:capacity]
	}
	b.stride = stride
	b.capacity = capacity
}

// binding exposes the buffer region to the driver
func (b *ColumnBuffer) binding() driver.Binding {
	return driver.Binding{Data: b.data, Stride: b.stride, Ind: b.ind}
}

// Capacity returns the rows the buffer can hold
func (b *ColumnBuffer) Capacity() int {
	return b.capacity
}

// Indicator returns the raw indicator of row
func (b *ColumnBuffer) Indicator(row int) int64 {
	return b.ind[row]
}

// IsNull returns true when row is NULL, the indicator is authoritative and no
// data bytes may be read for a NULL cell
func (b *ColumnBuffer) IsNull(row int) bool {
	return b.ind[row] == driver.NullData
}

// Bytes returns the full element window of row
func (b *ColumnBuffer) Bytes(row int) []byte {
	offset := row * b.stride
	return b.data[offset : offset+b.stride]
}

func (b *ColumnBuffer) Int8(row int) int8 {
	return *(*int8)(unsafe.Pointer(&b.data[row*b.stride]))
}

func (b *ColumnBuffer) Int16(row int) int16 {
	return *(*int16)(unsafe.Pointer(&b.data[row*b.stride]))
}

func (b *ColumnBuffer) Int32(row int) int32 {
	return *(*int32)(unsafe.Pointer(&b.data[row*b.stride]))
}

func (b *ColumnBuffer) Int64(row int) int64 {
	return *(*int64)(unsafe.Pointer(&b.data[row*b.stride]))
}

func (b *ColumnBuffer) Float32(row int) float32 {
	return *(*float32)(unsafe.Pointer(&b.data[row*b.stride]))
}

func (b *ColumnBuffer) Float64(row int) float64 {
	return *(*float64)(unsafe.Pointer(&b.data[row*b.stride]))
}

func (b *ColumnBuffer) Date(row int) driver.Date {
	return *(*driver.Date)(unsafe.Pointer(&b.data[row*b.stride]))
}

func (b *ColumnBuffer) Clock(row int) driver.Clock {
	return *(*driver.Clock)(unsafe.Pointer(&b.data[row*b.stride]))
}

func (b *ColumnBuffer) Timestamp(row int) driver.Timestamp {
	return *(*driver.Timestamp)(unsafe.Pointer(&b.data[row*b.stride]))
}
