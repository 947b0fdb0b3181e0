package parquet

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"reflect"
	"testing"
	"time"

	aParquet "github.com/segmentio/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/viant/fetchly/driver"
	"github.com/viant/fetchly/fetch"
	"github.com/viant/fetchly/memdriver"
)

func TestDrain(t *testing.T) {
	placed := time.Date(2023, 7, 15, 8, 30, 0, 0, time.UTC)
	columns := []driver.Column{
		{Name: "ORDER_ID", Type: driver.TypeBigInt, Nullable: driver.NoNulls},
		{Name: "ITEM_NAME", Type: driver.TypeVarChar, Size: 24, Nullable: driver.Nullable},
		{Name: "TOTAL", Type: driver.TypeDecimal, Size: 10, Scale: 2, Nullable: driver.Nullable},
		{Name: "PLACED_AT", Type: driver.TypeTimestamp, Nullable: driver.NoNulls},
	}
	stmt := memdriver.New(driver.Platform{WideCharWidth: 2, DecimalPoint: '.'}, &memdriver.ResultSet{
		Columns: columns,
		Rows: [][]interface{}{
			{int64(10), "widget", "99.90", placed},
			{int64(11), nil, nil, placed},
		},
	})
	reader := fetch.NewReader(stmt, fetch.WithBatchSize(1))
	dest := new(bytes.Buffer)
	count, err := Drain(context.Background(), reader, dest)
	if !assert.Nil(t, err) {
		return
	}
	assert.Equal(t, 2, count)

	rowType := rowStructType(reader.Columns())
	parquetReader := aParquet.NewReader(bytes.NewReader(dest.Bytes()))
	var actual []string
	for {
		rowPtr := reflect.New(rowType).Interface()
		err = parquetReader.Read(rowPtr)
		if err == io.EOF {
			break
		}
		if !assert.Nil(t, err) {
			return
		}
		data, err := json.Marshal(rowPtr)
		assert.Nil(t, err)
		actual = append(actual, string(data))
	}
	expected := []string{
		`{"OrderId":10,"ItemName":"widget","Total":"99.90","PlacedAt":"2023-07-15 08:30:00"}`,
		`{"OrderId":11,"ItemName":null,"Total":null,"PlacedAt":"2023-07-15 08:30:00"}`,
	}
	assert.Equal(t, expected, actual)
}

func TestWrite_Empty(t *testing.T) {
	stmt := memdriver.New(driver.Platform{WideCharWidth: 2, DecimalPoint: '.'}, &memdriver.ResultSet{
		Columns: []driver.Column{
			{Name: "ID", Type: driver.TypeBigInt, Nullable: driver.NoNulls},
		},
	})
	reader := fetch.NewReader(stmt)
	dest := new(bytes.Buffer)
	count, err := Drain(context.Background(), reader, dest)
	assert.Nil(t, err)
	assert.Equal(t, 0, count)
	assert.True(t, dest.Len() > 0)
}
