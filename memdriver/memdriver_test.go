package memdriver

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/viant/fetchly/driver"
)

func TestStatement_Fetch(t *testing.T) {
	platform := driver.Platform{WideCharWidth: 2, DecimalPoint: '.'}
	set := &ResultSet{
		Columns: []driver.Column{
			{Name: "ID", Type: driver.TypeBigInt},
			{Name: "NAME", Type: driver.TypeVarChar, Size: 8},
		},
		Rows: [][]interface{}{
			{int64(1), "John"},
			{int64(2), nil},
			{int64(3), "Ann"},
		},
	}
	stmt := New(platform, set)

	columns, err := stmt.DescribeColumns()
	assert.Nil(t, err)
	assert.Equal(t, 2, len(columns))
	assert.Equal(t, 1, stmt.Describes())

	ids := driver.Binding{Data: make([]byte, 8*2), Stride: 8, Ind: make([]int64, 2)}
	names := driver.Binding{Data: make([]byte, 9*2), Stride: 9, Ind: make([]int64, 2)}
	assert.Nil(t, stmt.BindColumn(1, ids))
	assert.Nil(t, stmt.BindColumn(2, names))
	assert.NotNil(t, stmt.BindColumn(3, ids))

	fetched, err := stmt.Fetch(2)
	assert.Nil(t, err)
	assert.Equal(t, 2, fetched)
	assert.Equal(t, int64(1), *(*int64)(unsafe.Pointer(&ids.Data[0])))
	assert.Equal(t, int64(2), *(*int64)(unsafe.Pointer(&ids.Data[8])))
	assert.Equal(t, "John", string(names.Data[:4]))
	assert.Equal(t, int64(4), names.Ind[0])
	assert.Equal(t, driver.NullData, names.Ind[1])

	fetched, err = stmt.Fetch(2)
	assert.Nil(t, err)
	assert.Equal(t, 1, fetched)

	fetched, err = stmt.Fetch(2)
	assert.Nil(t, err)
	assert.Equal(t, 0, fetched)
}

func TestStatement_ReadLong(t *testing.T) {
	platform := driver.Platform{WideCharWidth: 2, DecimalPoint: '.'}
	set := &ResultSet{
		Columns: []driver.Column{
			{Name: "BODY", Type: driver.TypeLongVarChar},
			{Name: "TITLE", Type: driver.TypeWVarChar, Size: 8},
		},
		Rows: [][]interface{}{
			{"a long body", "złoty"},
			{nil, nil},
		},
	}
	stmt := New(platform, set)
	binding := driver.Binding{Data: make([]byte, 4*2), Stride: 4, Ind: make([]int64, 2)}
	assert.Nil(t, stmt.BindColumn(1, binding))
	_, err := stmt.Fetch(2)
	assert.Nil(t, err)

	data, err := stmt.ReadLong(1, 0)
	assert.Nil(t, err)
	assert.Equal(t, "a long body", string(data))

	//wide values come back in the bound wide representation
	data, err = stmt.ReadLong(2, 0)
	assert.Nil(t, err)
	assert.Equal(t, 10, len(data))

	data, err = stmt.ReadLong(1, 1)
	assert.Nil(t, err)
	assert.Nil(t, data)

	_, err = stmt.ReadLong(1, 5)
	assert.NotNil(t, err)
}

func TestStatement_NextResultSet(t *testing.T) {
	platform := driver.DetectPlatform()
	first := &ResultSet{Columns: []driver.Column{{Name: "A", Type: driver.TypeInteger}}, Rows: [][]interface{}{{int64(1)}}}
	second := &ResultSet{Columns: []driver.Column{{Name: "B", Type: driver.TypeDouble}}, Rows: [][]interface{}{{2.5}}}
	stmt := New(platform, first, second)

	columns, err := stmt.DescribeColumns()
	assert.Nil(t, err)
	assert.Equal(t, "A", columns[0].Name)

	ok, err := stmt.NextResultSet()
	assert.Nil(t, err)
	assert.True(t, ok)
	columns, err = stmt.DescribeColumns()
	assert.Nil(t, err)
	assert.Equal(t, "B", columns[0].Name)

	ok, err = stmt.NextResultSet()
	assert.Nil(t, err)
	assert.False(t, ok)

	assert.Nil(t, stmt.CloseCursor())
	_, err = stmt.DescribeColumns()
	assert.NotNil(t, err)
}
