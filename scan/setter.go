package scan

import (
	"fmt"
	"reflect"
	"time"
	"unsafe"

	"github.com/google/uuid"
	"github.com/viant/fetchly/types"
	"github.com/viant/xunsafe"
)

var (
	int64Type   = reflect.TypeOf(int64(0))
	float64Type = reflect.TypeOf(float64(0))
	boolType    = reflect.TypeOf(true)
	stringType  = reflect.TypeOf("")
	bytesType   = reflect.TypeOf([]byte{})
	timeType    = reflect.TypeOf(time.Time{})
	decimalType = reflect.TypeOf(types.Decimal{})
	guidType    = reflect.TypeOf(uuid.UUID{})
)

// setter assigns one cell to a field of the struct at ptr, nil stands for SQL
// NULL. Cells are trusted to carry the column host type.
type setter func(ptr unsafe.Pointer, value interface{}) error

// newSetter builds the assignment strategy for one column and field pair,
// picked once per result set by the column host type and the field kind
func newSetter(scanType reflect.Type, field *xunsafe.Field, base int) (setter, error) {
	offset := base + int(field.Offset)
	switch scanType {
	case int64Type:
		return newIntSetter(field, offset)
	case float64Type:
		return newFloatSetter(field, offset)
	case boolType:
		return newBoolSetter(field, offset)
	case stringType:
		return newStringSetter(field, offset)
	case bytesType:
		return newBytesSetter(field, offset)
	case timeType:
		return newTimeSetter(field, offset)
	case decimalType:
		return newDecimalSetter(field, offset)
	case guidType:
		return newGUIDSetter(field, offset)
	}
	return nil, fmt.Errorf("unsupported column host type %s", scanType.String())
}

func newIntSetter(field *xunsafe.Field, offset int) (setter, error) {
	switch field.Type.Kind() {
	case reflect.Int64:
		return func(ptr unsafe.Pointer, value interface{}) error {
			cell := (*int64)(unsafe.Add(ptr, offset))
			if value == nil {
				*cell = 0
				return nil
			}
			*cell = value.(int64)
			return nil
		}, nil
	case reflect.Int:
		return func(ptr unsafe.Pointer, value interface{}) error {
			cell := (*int)(unsafe.Add(ptr, offset))
			if value == nil {
				*cell = 0
				return nil
			}
			*cell = int(value.(int64))
			return nil
		}, nil
	case reflect.Int32:
		return func(ptr unsafe.Pointer, value interface{}) error {
			cell := (*int32)(unsafe.Add(ptr, offset))
			if value == nil {
				*cell = 0
				return nil
			}
			*cell = int32(value.(int64))
			return nil
		}, nil
	case reflect.Int16:
		return func(ptr unsafe.Pointer, value interface{}) error {
			cell := (*int16)(unsafe.Add(ptr, offset))
			if value == nil {
				*cell = 0
				return nil
			}
			*cell = int16(value.(int64))
			return nil
		}, nil
	case reflect.Int8:
		return func(ptr unsafe.Pointer, value interface{}) error {
			cell := (*int8)(unsafe.Add(ptr, offset))
			if value == nil {
				*cell = 0
				return nil
			}
			*cell = int8(value.(int64))
			return nil
		}, nil
	case reflect.Uint64:
		return func(ptr unsafe.Pointer, value interface{}) error {
			cell := (*uint64)(unsafe.Add(ptr, offset))
			if value == nil {
				*cell = 0
				return nil
			}
			*cell = uint64(value.(int64))
			return nil
		}, nil
	case reflect.Uint32:
		return func(ptr unsafe.Pointer, value interface{}) error {
			cell := (*uint32)(unsafe.Add(ptr, offset))
			if value == nil {
				*cell = 0
				return nil
			}
			*cell = uint32(value.(int64))
			return nil
		}, nil
	case reflect.Uint:
		return func(ptr unsafe.Pointer, value interface{}) error {
			cell := (*uint)(unsafe.Add(ptr, offset))
			if value == nil {
				*cell = 0
				return nil
			}
			*cell = uint(value.(int64))
			return nil
		}, nil
	case reflect.Ptr:
		switch field.Type.Elem().Kind() {
		case reflect.Int64:
			return func(ptr unsafe.Pointer, value interface{}) error {
				cell := (**int64)(unsafe.Add(ptr, offset))
				if value == nil {
					*cell = nil
					return nil
				}
				v := value.(int64)
				*cell = &v
				return nil
			}, nil
		case reflect.Int:
			return func(ptr unsafe.Pointer, value interface{}) error {
				cell := (**int)(unsafe.Add(ptr, offset))
				if value == nil {
					*cell = nil
					return nil
				}
				v := int(value.(int64))
				*cell = &v
				return nil
			}, nil
		}
	}
	return nil, unsupportedField(field, "integer")
}

func newFloatSetter(field *xunsafe.Field, offset int) (setter, error) {
	switch field.Type.Kind() {
	case reflect.Float64:
		return func(ptr unsafe.Pointer, value interface{}) error {
			cell := (*float64)(unsafe.Add(ptr, offset))
			if value == nil {
				*cell = 0
				return nil
			}
			*cell = value.(float64)
			return nil
		}, nil
	case reflect.Float32:
		return func(ptr unsafe.Pointer, value interface{}) error {
			cell := (*float32)(unsafe.Add(ptr, offset))
			if value == nil {
				*cell = 0
				return nil
			}
			*cell = float32(value.(float64))
			return nil
		}, nil
	case reflect.Ptr:
		if field.Type.Elem().Kind() == reflect.Float64 {
			return func(ptr unsafe.Pointer, value interface{}) error {
				cell := (**float64)(unsafe.Add(ptr, offset))
				if value == nil {
					*cell = nil
					return nil
				}
				v := value.(float64)
				*cell = &v
				return nil
			}, nil
		}
	}
	return nil, unsupportedField(field, "float")
}

func newBoolSetter(field *xunsafe.Field, offset int) (setter, error) {
	switch field.Type.Kind() {
	case reflect.Bool:
		return func(ptr unsafe.Pointer, value interface{}) error {
			cell := (*bool)(unsafe.Add(ptr, offset))
			if value == nil {
				*cell = false
				return nil
			}
			*cell = value.(bool)
			return nil
		}, nil
	case reflect.Ptr:
		if field.Type.Elem().Kind() == reflect.Bool {
			return func(ptr unsafe.Pointer, value interface{}) error {
				cell := (**bool)(unsafe.Add(ptr, offset))
				if value == nil {
					*cell = nil
					return nil
				}
				v := value.(bool)
				*cell = &v
				return nil
			}, nil
		}
	}
	return nil, unsupportedField(field, "bool")
}

func newStringSetter(field *xunsafe.Field, offset int) (setter, error) {
	switch field.Type.Kind() {
	case reflect.String:
		return func(ptr unsafe.Pointer, value interface{}) error {
			cell := (*string)(unsafe.Add(ptr, offset))
			if value == nil {
				*cell = ""
				return nil
			}
			*cell = value.(string)
			return nil
		}, nil
	case reflect.Slice:
		if field.Type.Elem().Kind() == reflect.Uint8 {
			return func(ptr unsafe.Pointer, value interface{}) error {
				cell := (*[]byte)(unsafe.Add(ptr, offset))
				if value == nil {
					*cell = nil
					return nil
				}
				*cell = []byte(value.(string))
				return nil
			}, nil
		}
	case reflect.Ptr:
		if field.Type.Elem().Kind() == reflect.String {
			return func(ptr unsafe.Pointer, value interface{}) error {
				cell := (**string)(unsafe.Add(ptr, offset))
				if value == nil {
					*cell = nil
					return nil
				}
				v := value.(string)
				*cell = &v
				return nil
			}, nil
		}
	}
	return nil, unsupportedField(field, "text")
}

func newBytesSetter(field *xunsafe.Field, offset int) (setter, error) {
	switch field.Type.Kind() {
	case reflect.Slice:
		if field.Type.Elem().Kind() == reflect.Uint8 {
			return func(ptr unsafe.Pointer, value interface{}) error {
				cell := (*[]byte)(unsafe.Add(ptr, offset))
				if value == nil {
					*cell = nil
					return nil
				}
				*cell = value.([]byte)
				return nil
			}, nil
		}
	case reflect.String:
		return func(ptr unsafe.Pointer, value interface{}) error {
			cell := (*string)(unsafe.Add(ptr, offset))
			if value == nil {
				*cell = ""
				return nil
			}
			*cell = string(value.([]byte))
			return nil
		}, nil
	}
	return nil, unsupportedField(field, "binary")
}

func newTimeSetter(field *xunsafe.Field, offset int) (setter, error) {
	switch field.Type {
	case timeType:
		return func(ptr unsafe.Pointer, value interface{}) error {
			cell := (*time.Time)(unsafe.Add(ptr, offset))
			if value == nil {
				*cell = time.Time{}
				return nil
			}
			*cell = value.(time.Time)
			return nil
		}, nil
	case reflect.PtrTo(timeType):
		return func(ptr unsafe.Pointer, value interface{}) error {
			cell := (**time.Time)(unsafe.Add(ptr, offset))
			if value == nil {
				*cell = nil
				return nil
			}
			v := value.(time.Time)
			*cell = &v
			return nil
		}, nil
	}
	return nil, unsupportedField(field, "temporal")
}

func newDecimalSetter(field *xunsafe.Field, offset int) (setter, error) {
	switch field.Type {
	case decimalType:
		return func(ptr unsafe.Pointer, value interface{}) error {
			cell := (*types.Decimal)(unsafe.Add(ptr, offset))
			if value == nil {
				*cell = types.Decimal{}
				return nil
			}
			*cell = value.(types.Decimal)
			return nil
		}, nil
	case reflect.PtrTo(decimalType):
		return func(ptr unsafe.Pointer, value interface{}) error {
			cell := (**types.Decimal)(unsafe.Add(ptr, offset))
			if value == nil {
				*cell = nil
				return nil
			}
			v := value.(types.Decimal)
			*cell = &v
			return nil
		}, nil
	}
	switch field.Type.Kind() {
	case reflect.String:
		return func(ptr unsafe.Pointer, value interface{}) error {
			cell := (*string)(unsafe.Add(ptr, offset))
			if value == nil {
				*cell = ""
				return nil
			}
			*cell = value.(types.Decimal).String()
			return nil
		}, nil
	case reflect.Float64:
		return func(ptr unsafe.Pointer, value interface{}) error {
			cell := (*float64)(unsafe.Add(ptr, offset))
			if value == nil {
				*cell = 0
				return nil
			}
			*cell = value.(types.Decimal).Float64()
			return nil
		}, nil
	}
	return nil, unsupportedField(field, "decimal")
}

func newGUIDSetter(field *xunsafe.Field, offset int) (setter, error) {
	switch field.Type {
	case guidType:
		return func(ptr unsafe.Pointer, value interface{}) error {
			cell := (*uuid.UUID)(unsafe.Add(ptr, offset))
			if value == nil {
				*cell = uuid.UUID{}
				return nil
			}
			*cell = value.(uuid.UUID)
			return nil
		}, nil
	}
	if field.Type.Kind() == reflect.String {
		return func(ptr unsafe.Pointer, value interface{}) error {
			cell := (*string)(unsafe.Add(ptr, offset))
			if value == nil {
				*cell = ""
				return nil
			}
			*cell = value.(uuid.UUID).String()
			return nil
		}, nil
	}
	return nil, unsupportedField(field, "guid")
}

func unsupportedField(field *xunsafe.Field, family string) error {
	return fmt.Errorf("failed to bind %s field %v, unsupported for %s cells", field.Type.String(), field.Name, family)
}
