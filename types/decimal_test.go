package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDecimal(t *testing.T) {
	var testCases = []struct {
		description string
		text        string
		separator   byte
		scale       int64
		expect      string
		expectErr   bool
	}{
		{
			description: "dot separator with padding to declared scale",
			text:        "12.5",
			separator:   '.',
			scale:       2,
			expect:      "12.50",
		},
		{
			description: "comma separator",
			text:        "1234,567",
			separator:   ',',
			scale:       3,
			expect:      "1234.567",
		},
		{
			description: "zero scale",
			text:        "42",
			separator:   '.',
			scale:       0,
			expect:      "42",
		},
		{
			description: "negative value",
			text:        "-0.01",
			separator:   '.',
			scale:       2,
			expect:      "-0.01",
		},
		{
			description: "high precision exceeding int64",
			text:        "99999999999999999999999999999999999999",
			separator:   '.',
			scale:       0,
			expect:      "99999999999999999999999999999999999999",
		},
		{
			description: "garbage",
			text:        "12..4",
			separator:   '.',
			scale:       1,
			expectErr:   true,
		},
	}

	for _, testCase := range testCases {
		actual, err := ParseDecimal(testCase.text, testCase.separator, testCase.scale)
		if testCase.expectErr {
			assert.NotNil(t, err, testCase.description)
			continue
		}
		assert.Nil(t, err, testCase.description)
		assert.Equal(t, testCase.expect, actual.String(), testCase.description)
	}
}

func TestDecimal_Equal(t *testing.T) {
	left, err := NewDecimalFromString("12.50", 2)
	assert.Nil(t, err)
	right, err := NewDecimalFromString("12.5", 1)
	assert.Nil(t, err)
	assert.True(t, left.Equal(right), "same numeric value with different scale")
	assert.Equal(t, "12.50", left.String())
	assert.Equal(t, "12.5", right.String())
	assert.Equal(t, "12.500", right.Rescale(3).String())
}

func TestDecimal_JSON(t *testing.T) {
	value := NewDecimalFromFloat64(7.125, 3)
	data, err := json.Marshal(value)
	assert.Nil(t, err)
	assert.Equal(t, `"7.125"`, string(data))

	var decoded Decimal
	err = json.Unmarshal(data, &decoded)
	assert.Nil(t, err)
	assert.True(t, value.Equal(decoded))
}

func TestBitBool_Value(t *testing.T) {
	value, err := BitBool(true).Value()
	assert.Nil(t, err)
	assert.Equal(t, []byte{1}, value)
	value, err = BitBool(false).Value()
	assert.Nil(t, err)
	assert.Equal(t, []byte{0}, value)
}

func TestBitBool_Scan(t *testing.T) {
	var testCases = []struct {
		description string
		source      interface{}
		expect      BitBool
		expectErr   bool
	}{
		{description: "raw byte string one", source: "\x01", expect: true},
		{description: "raw byte string zero", source: "\x00", expect: false},
		{description: "int64", source: int64(1), expect: true},
		{description: "bool", source: true, expect: true},
		{description: "bytes", source: []byte{0}, expect: false},
		{description: "unsupported", source: 3.14, expectErr: true},
	}
	for _, testCase := range testCases {
		var actual BitBool
		err := actual.Scan(testCase.source)
		if testCase.expectErr {
			assert.NotNil(t, err, testCase.description)
			continue
		}
		assert.Nil(t, err, testCase.description)
		assert.Equal(t, testCase.expect, actual, testCase.description)
	}
}
