package cache

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/francoispqt/gojay"
	"github.com/google/uuid"
	"github.com/viant/fetchly/driver"
	"github.com/viant/fetchly/types"
)

// DecoderFn reads one cell value from a cached row line
type DecoderFn func(decoder *gojay.Decoder) (interface{}, error)

// newDecoderFn builds the cell decoder for a cached column; rows are encoded
// with plain JSON marshaling, decoding reverses it by column type so replayed
// values carry the same host types the materializer produces.
func newDecoderFn(column driver.Column) DecoderFn {
	switch column.Type {
	case driver.TypeBit:
		return boolDecoder()
	case driver.TypeTinyInt, driver.TypeSmallInt, driver.TypeInteger, driver.TypeBigInt:
		return int64Decoder()
	case driver.TypeReal, driver.TypeDouble:
		return float64Decoder()
	case driver.TypeDecimal, driver.TypeNumeric:
		return decimalDecoder(column.Scale)
	case driver.TypeDate, driver.TypeTime, driver.TypeTimestamp:
		return timeDecoder()
	case driver.TypeBinary, driver.TypeVarBinary, driver.TypeLongVarBinary:
		return bytesDecoder()
	case driver.TypeGUID:
		return guidDecoder()
	}
	return stringDecoder()
}

func boolDecoder() DecoderFn {
	return func(decoder *gojay.Decoder) (interface{}, error) {
		var value *bool
		if err := decoder.BoolNull(&value); err != nil {
			return nil, err
		}
		if value == nil {
			return nil, nil
		}
		return *value, nil
	}
}

func int64Decoder() DecoderFn {
	return func(decoder *gojay.Decoder) (interface{}, error) {
		var value *int64
		if err := decoder.Int64Null(&value); err != nil {
			return nil, err
		}
		if value == nil {
			return nil, nil
		}
		return *value, nil
	}
}

func float64Decoder() DecoderFn {
	return func(decoder *gojay.Decoder) (interface{}, error) {
		var value *float64
		if err := decoder.Float64Null(&value); err != nil {
			return nil, err
		}
		if value == nil {
			return nil, nil
		}
		return *value, nil
	}
}

func stringDecoder() DecoderFn {
	return func(decoder *gojay.Decoder) (interface{}, error) {
		var value *string
		if err := decoder.StringNull(&value); err != nil {
			return nil, err
		}
		if value == nil {
			return nil, nil
		}
		return *value, nil
	}
}

func decimalDecoder(scale int64) DecoderFn {
	return func(decoder *gojay.Decoder) (interface{}, error) {
		var value *string
		if err := decoder.StringNull(&value); err != nil {
			return nil, err
		}
		if value == nil {
			return nil, nil
		}
		result, err := types.NewDecimalFromString(*value, scale)
		if err != nil {
			return nil, fmt.Errorf("failed to decode cached decimal, due to %w", err)
		}
		return result, nil
	}
}

func timeDecoder() DecoderFn {
	return func(decoder *gojay.Decoder) (interface{}, error) {
		var value *string
		if err := decoder.StringNull(&value); err != nil {
			return nil, err
		}
		if value == nil {
			return nil, nil
		}
		result, err := time.Parse(time.RFC3339Nano, *value)
		if err != nil {
			return nil, fmt.Errorf("failed to decode cached time, due to %w", err)
		}
		return result, nil
	}
}

func bytesDecoder() DecoderFn {
	return func(decoder *gojay.Decoder) (interface{}, error) {
		var value *string
		if err := decoder.StringNull(&value); err != nil {
			return nil, err
		}
		if value == nil {
			return nil, nil
		}
		result, err := base64.StdEncoding.DecodeString(*value)
		if err != nil {
			return nil, fmt.Errorf("failed to decode cached binary, due to %w", err)
		}
		return result, nil
	}
}

func guidDecoder() DecoderFn {
	return func(decoder *gojay.Decoder) (interface{}, error) {
		var value *string
		if err := decoder.StringNull(&value); err != nil {
			return nil, err
		}
		if value == nil {
			return nil, nil
		}
		result, err := uuid.Parse(*value)
		if err != nil {
			return nil, fmt.Errorf("failed to decode cached guid, due to %w", err)
		}
		return result, nil
	}
}

// rowDecoder decodes one cached line into cell values using the per column
// decoder table
type rowDecoder struct {
	decoders []DecoderFn
	values   []interface{}
	index    int
}

func newRowDecoder(decoders []DecoderFn) *rowDecoder {
	return &rowDecoder{decoders: decoders, values: make([]interface{}, len(decoders))}
}

// UnmarshalJSONArray decodes the next cell of the line
func (d *rowDecoder) UnmarshalJSONArray(decoder *gojay.Decoder) error {
	index := d.index
	if index > len(d.values)-1 {
		return fmt.Errorf("unexpected cell, expected %v values", len(d.values))
	}
	d.index++
	value, err := d.decoders[index](decoder)
	if err != nil {
		return err
	}
	d.values[index] = value
	return nil
}

func (d *rowDecoder) reset() {
	for i := range d.values {
		d.values[i] = nil
	}
	d.index = 0
}
