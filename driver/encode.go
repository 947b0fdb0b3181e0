package driver

import "fmt"

//EncodeValue renders a host value through the cell encoder using a throwaway
//binding wide enough for the whole value, nil data stands for a NULL cell.
//Statement implementations use it to serve complete long values.
func EncodeValue(column Column, platform Platform, value interface{}) ([]byte, error) {
	stride := valueStride(column, platform, value)
	binding := Binding{Data: make([]byte, stride), Stride: stride, Ind: make([]int64, 1)}
	if err := WriteCell(binding, 0, column, platform, value); err != nil {
		return nil, err
	}
	ind := binding.Ind[0]
	if ind == NullData {
		return nil, nil
	}
	if ind > int64(len(binding.Data)) {
		return nil, fmt.Errorf("value of column %v exceeds %v bytes", column.Name, stride)
	}
	return binding.Data[:ind], nil
}

func valueStride(column Column, platform Platform, value interface{}) int {
	width := 1
	if column.Type.IsWide() {
		width = platform.WideCharWidth
	}
	switch actual := value.(type) {
	case string:
		return len(actual)*width + 8
	case []byte:
		return len(actual)*width + 8
	}
	return 64
}
