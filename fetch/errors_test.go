package fetch

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/fetchly/driver"
)

func TestError_Is(t *testing.T) {
	cause := fmt.Errorf("io failure")
	var testCases = []struct {
		description string
		err         error
		kind        error
		others      []error
	}{
		{
			description: "metadata error",
			err:         NewMetadataError("describe columns", cause),
			kind:        ErrMetadata,
			others:      []error{ErrDriver, ErrConversion, ErrTruncation},
		},
		{
			description: "driver error",
			err:         NewDriverError("fetch", "", 0, -1, cause),
			kind:        ErrDriver,
			others:      []error{ErrMetadata, ErrConversion, ErrTruncation},
		},
		{
			description: "conversion error",
			err:         NewConversionError("PRICE", 2, 3, driver.TypeDecimal, "types.Decimal", cause),
			kind:        ErrConversion,
			others:      []error{ErrMetadata, ErrDriver, ErrTruncation},
		},
		{
			description: "truncation error",
			err:         NewTruncationError("NOTE", 1, 0, driver.TypeVarChar, cause),
			kind:        ErrTruncation,
			others:      []error{ErrMetadata, ErrDriver, ErrConversion},
		},
	}
	for _, testCase := range testCases {
		assert.True(t, errors.Is(testCase.err, testCase.kind), testCase.description)
		assert.True(t, errors.Is(testCase.err, cause), testCase.description)
		for _, other := range testCase.others {
			assert.False(t, errors.Is(testCase.err, other), testCase.description)
		}
	}
}

func TestError_Message(t *testing.T) {
	err := NewConversionError("PRICE", 2, 3, driver.TypeDecimal, "types.Decimal", fmt.Errorf("bad digit"))
	assert.Equal(t, "fetch materialize: conversion failed column=PRICE(2) row=3 source=DECIMAL target=types.Decimal: bad digit", err.Error())

	plain := NewDriverError("fetch", "", 0, -1, fmt.Errorf("connection reset"))
	assert.Equal(t, "fetch fetch: driver fetch failed: connection reset", plain.Error())
}
