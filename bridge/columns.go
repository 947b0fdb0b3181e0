package bridge

import (
	"database/sql"
	"reflect"

	"github.com/viant/fetchly/driver"
	"github.com/viant/xreflect"
)

// typeCodeOf resolves a normalized declared type name to the client type code
func typeCodeOf(name string) (driver.TypeCode, bool) {
	switch name {
	case "BIT", "BOOL", "BOOLEAN":
		return driver.TypeBit, true
	case "TINYINT":
		return driver.TypeTinyInt, true
	case "SMALLINT", "INT2", "SMALLSERIAL":
		return driver.TypeSmallInt, true
	case "INT", "INTEGER", "MEDIUMINT", "INT4", "SERIAL":
		return driver.TypeInteger, true
	case "BIGINT", "INT8", "BIGSERIAL":
		return driver.TypeBigInt, true
	case "REAL", "FLOAT", "FLOAT4":
		return driver.TypeReal, true
	case "DOUBLE", "DOUBLE PRECISION", "FLOAT8":
		return driver.TypeDouble, true
	case "DECIMAL", "DEC", "MONEY":
		return driver.TypeDecimal, true
	case "NUMERIC", "NUMBER":
		return driver.TypeNumeric, true
	case "CHAR", "CHARACTER", "BPCHAR":
		return driver.TypeChar, true
	case "VARCHAR", "CHARACTER VARYING", "VARCHAR2", "STRING":
		return driver.TypeVarChar, true
	case "TEXT", "CLOB", "TINYTEXT", "MEDIUMTEXT", "LONGTEXT", "JSON", "XML":
		return driver.TypeLongVarChar, true
	case "NCHAR":
		return driver.TypeWChar, true
	case "NVARCHAR":
		return driver.TypeWVarChar, true
	case "NTEXT", "NCLOB":
		return driver.TypeWLongVarChar, true
	case "BINARY":
		return driver.TypeBinary, true
	case "VARBINARY", "BYTEA":
		return driver.TypeVarBinary, true
	case "BLOB", "TINYBLOB", "MEDIUMBLOB", "LONGBLOB":
		return driver.TypeLongVarBinary, true
	case "DATE":
		return driver.TypeDate, true
	case "TIME", "TIMETZ", "TIME WITH TIME ZONE", "TIME WITHOUT TIME ZONE":
		return driver.TypeTime, true
	case "DATETIME", "TIMESTAMP", "TIMESTAMPTZ", "TIMESTAMP WITH TIME ZONE", "TIMESTAMP WITHOUT TIME ZONE":
		return driver.TypeTimestamp, true
	case "UUID", "UNIQUEIDENTIFIER", "GUID":
		return driver.TypeGUID, true
	}
	return 0, false
}

var (
	sqlNullStringType  = reflect.TypeOf(sql.NullString{})
	sqlNullTimeType    = reflect.TypeOf(sql.NullTime{})
	sqlNullBoolType    = reflect.TypeOf(sql.NullBool{})
	sqlNullByteType    = reflect.TypeOf(sql.NullByte{})
	sqlNullInt16Type   = reflect.TypeOf(sql.NullInt16{})
	sqlNullInt32Type   = reflect.TypeOf(sql.NullInt32{})
	sqlNullInt64Type   = reflect.TypeOf(sql.NullInt64{})
	sqlNullFloat64Type = reflect.TypeOf(sql.NullFloat64{})
	sqlRawBytesType    = reflect.TypeOf(sql.RawBytes{})
)

// normalizeScanType maps database/sql null wrappers to plain pointer types
func normalizeScanType(scanType reflect.Type) reflect.Type {
	switch scanType {
	case sqlNullStringType, sqlRawBytesType:
		return reflect.PtrTo(reflect.TypeOf(""))
	case sqlNullTimeType:
		return reflect.PtrTo(xreflect.TimeType)
	case sqlNullBoolType:
		return reflect.PtrTo(xreflect.BoolType)
	case sqlNullByteType, sqlNullInt16Type, sqlNullInt32Type, sqlNullInt64Type:
		return reflect.PtrTo(xreflect.IntType)
	case sqlNullFloat64Type:
		return reflect.PtrTo(xreflect.Float64Type)
	}
	return scanType
}

// scanTypeCode resolves the type code from the driver scan type when the
// declared type name is unknown
func scanTypeCode(scanType reflect.Type) driver.TypeCode {
	if scanType == nil {
		return driver.TypeVarChar
	}
	scanType = normalizeScanType(scanType)
	for scanType.Kind() == reflect.Ptr {
		scanType = scanType.Elem()
	}
	switch scanType {
	case xreflect.TimeType:
		return driver.TypeTimestamp
	case xreflect.BoolType:
		return driver.TypeBit
	}
	switch scanType.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return driver.TypeBigInt
	case reflect.Float32, reflect.Float64:
		return driver.TypeDouble
	case reflect.Slice:
		if scanType.Elem().Kind() == reflect.Uint8 {
			return driver.TypeVarBinary
		}
	}
	return driver.TypeVarChar
}

// describeColumns converts driver reported column types into the client
// column records the materialization engine binds against
func describeColumns(columnTypes []*sql.ColumnType) []driver.Column {
	result := make([]driver.Column, len(columnTypes))
	for i, columnType := range columnTypes {
		declared := parseDeclared(columnType.DatabaseTypeName())
		code, ok := typeCodeOf(declared.Name)
		if !ok {
			code = scanTypeCode(columnType.ScanType())
		}
		column := driver.Column{Name: columnType.Name(), Type: code, Size: declared.Size}
		if declared.Scale != nil {
			column.Scale = *declared.Scale
		}
		if column.Size == 0 {
			if length, ok := columnType.Length(); ok {
				column.Size = length
			}
		}
		if code.IsDecimal() && column.Size == 0 {
			if precision, scale, ok := columnType.DecimalSize(); ok {
				column.Size = precision
				column.Scale = scale
			}
		}
		if nullable, ok := columnType.Nullable(); ok {
			column.Nullable = driver.NoNulls
			if nullable {
				column.Nullable = driver.Nullable
			}
		}
		result[i] = column
	}
	return result
}
