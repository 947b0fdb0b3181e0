package csv_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/viant/fetchly/driver"
	"github.com/viant/fetchly/export/csv"
	"github.com/viant/fetchly/fetch"
	"github.com/viant/fetchly/memdriver"
	"github.com/viant/toolbox/format"
)

func ordersResultSet() *memdriver.ResultSet {
	placed := time.Date(2023, 7, 15, 0, 0, 0, 0, time.UTC)
	return &memdriver.ResultSet{
		Columns: []driver.Column{
			{Name: "ORDER_ID", Type: driver.TypeBigInt, Nullable: driver.NoNulls},
			{Name: "ITEM_NAME", Type: driver.TypeVarChar, Size: 24, Nullable: driver.Nullable},
			{Name: "TOTAL", Type: driver.TypeDecimal, Size: 10, Scale: 2, Nullable: driver.Nullable},
			{Name: "PLACED_AT", Type: driver.TypeDate, Nullable: driver.NoNulls},
		},
		Rows: [][]interface{}{
			{int64(10), `widget "large"`, "99.90", placed},
			{int64(11), nil, nil, placed},
		},
	}
}

func newOrdersReader() *fetch.Reader {
	stmt := memdriver.New(driver.Platform{WideCharWidth: 2, DecimalPoint: '.'}, ordersResultSet())
	return fetch.NewReader(stmt, fetch.WithBatchSize(1))
}

func TestWrite(t *testing.T) {
	headerCase := format.CaseLowerCamel
	var testCases = []struct {
		description string
		config      *csv.Config
		expected    string
	}{
		{
			description: "default config",
			config:      nil,
			expected: "ORDER_ID,ITEM_NAME,TOTAL,PLACED_AT\n" +
				`10,"widget \"large\"",99.90,"2023-07-15"` + "\n" +
				"11,null,null,\"2023-07-15\"",
		},
		{
			description: "header case and custom null",
			config:      &csv.Config{HeaderCase: &headerCase, NullValue: `\N`},
			expected: "orderId,itemName,total,placedAt\n" +
				`10,"widget \"large\"",99.90,"2023-07-15"` + "\n" +
				`11,\\N,\\N,"2023-07-15"`,
		},
		{
			description: "tab separated without header",
			config:      &csv.Config{FieldSeparator: "\t", OmitHeader: true},
			expected: "10\t\"widget \\\"large\\\"\"\t99.90\t\"2023-07-15\"\n" +
				"11\tnull\tnull\t\"2023-07-15\"",
		},
	}

	for _, testCase := range testCases {
		dest := new(bytes.Buffer)
		count, err := csv.Write(context.Background(), newOrdersReader(), dest, testCase.config)
		assert.Nil(t, err, testCase.description)
		assert.Equal(t, 2, count, testCase.description)
		assert.Equal(t, testCase.expected, dest.String(), testCase.description)
	}
}

func TestWrite_Empty(t *testing.T) {
	stmt := memdriver.New(driver.Platform{WideCharWidth: 2, DecimalPoint: '.'}, &memdriver.ResultSet{
		Columns: []driver.Column{
			{Name: "ID", Type: driver.TypeBigInt},
		},
	})
	reader := fetch.NewReader(stmt)
	dest := new(bytes.Buffer)
	count, err := csv.Write(context.Background(), reader, dest, nil)
	assert.Nil(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, "ID", dest.String())
}
