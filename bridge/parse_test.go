package bridge

import (
	"database/sql"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/fetchly/driver"
)

func TestParseDeclared(t *testing.T) {
	var testCases = []struct {
		description string
		declared    string
		name        string
		size        int64
		hasScale    bool
		scale       int64
	}{
		{
			description: "fixed point with precision and scale",
			declared:    "DECIMAL(12,2)",
			name:        "DECIMAL",
			size:        12,
			hasScale:    true,
			scale:       2,
		},
		{
			description: "sized text",
			declared:    "VARCHAR(255)",
			name:        "VARCHAR",
			size:        255,
		},
		{
			description: "spaced arguments",
			declared:    "NUMERIC(10, 2)",
			name:        "NUMERIC",
			size:        10,
			hasScale:    true,
			scale:       2,
		},
		{
			description: "multi word name",
			declared:    "DOUBLE PRECISION",
			name:        "DOUBLE PRECISION",
		},
		{
			description: "unsigned modifier",
			declared:    "BIGINT UNSIGNED",
			name:        "BIGINT",
		},
		{
			description: "lower case declaration",
			declared:    "varchar(64)",
			name:        "VARCHAR",
			size:        64,
		},
		{
			description: "bare name",
			declared:    "TEXT",
			name:        "TEXT",
		},
		{
			description: "empty declaration",
			declared:    "",
			name:        "",
		},
	}

	for _, testCase := range testCases {
		actual := parseDeclared(testCase.declared)
		assert.Equal(t, testCase.name, actual.Name, testCase.description)
		assert.Equal(t, testCase.size, actual.Size, testCase.description)
		if testCase.hasScale {
			if assert.NotNil(t, actual.Scale, testCase.description) {
				assert.Equal(t, testCase.scale, *actual.Scale, testCase.description)
			}
			continue
		}
		assert.Nil(t, actual.Scale, testCase.description)
	}
}

func TestTypeCodeOf(t *testing.T) {
	var testCases = []struct {
		name string
		code driver.TypeCode
	}{
		{name: "BIGINT", code: driver.TypeBigInt},
		{name: "DOUBLE PRECISION", code: driver.TypeDouble},
		{name: "DECIMAL", code: driver.TypeDecimal},
		{name: "TIMESTAMP WITH TIME ZONE", code: driver.TypeTimestamp},
		{name: "NVARCHAR", code: driver.TypeWVarChar},
		{name: "BYTEA", code: driver.TypeVarBinary},
		{name: "UUID", code: driver.TypeGUID},
	}
	for _, testCase := range testCases {
		code, ok := typeCodeOf(testCase.name)
		assert.True(t, ok, testCase.name)
		assert.Equal(t, testCase.code, code, testCase.name)
	}
	_, ok := typeCodeOf("GEOMETRY")
	assert.False(t, ok)
}

func TestScanTypeCode(t *testing.T) {
	var testCases = []struct {
		description string
		scanType    reflect.Type
		code        driver.TypeCode
	}{
		{"null int", reflect.TypeOf(sql.NullInt64{}), driver.TypeBigInt},
		{"null float", reflect.TypeOf(sql.NullFloat64{}), driver.TypeDouble},
		{"null bool", reflect.TypeOf(sql.NullBool{}), driver.TypeBit},
		{"null time", reflect.TypeOf(sql.NullTime{}), driver.TypeTimestamp},
		{"null string", reflect.TypeOf(sql.NullString{}), driver.TypeVarChar},
		{"raw bytes", reflect.TypeOf(sql.RawBytes{}), driver.TypeVarChar},
		{"bytes", reflect.TypeOf([]byte{}), driver.TypeVarBinary},
		{"interface", reflect.TypeOf((*interface{})(nil)).Elem(), driver.TypeVarChar},
		{"missing", nil, driver.TypeVarChar},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.code, scanTypeCode(testCase.scanType), testCase.description)
	}
}
