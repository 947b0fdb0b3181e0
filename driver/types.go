package driver

//TypeCode identifies the SQL type of a result set column as reported by the native client.
type TypeCode int

const (
	TypeUnknown TypeCode = iota
	TypeBit
	TypeTinyInt
	TypeSmallInt
	TypeInteger
	TypeBigInt
	TypeReal
	TypeDouble
	TypeDecimal
	TypeNumeric
	TypeChar
	TypeVarChar
	TypeLongVarChar
	TypeWChar
	TypeWVarChar
	TypeWLongVarChar
	TypeBinary
	TypeVarBinary
	TypeLongVarBinary
	TypeDate
	TypeTime
	TypeTimestamp
	TypeGUID
)

var typeNames = map[TypeCode]string{
	TypeUnknown:       "UNKNOWN",
	TypeBit:           "BIT",
	TypeTinyInt:       "TINYINT",
	TypeSmallInt:      "SMALLINT",
	TypeInteger:       "INTEGER",
	TypeBigInt:        "BIGINT",
	TypeReal:          "REAL",
	TypeDouble:        "DOUBLE",
	TypeDecimal:       "DECIMAL",
	TypeNumeric:       "NUMERIC",
	TypeChar:          "CHAR",
	TypeVarChar:       "VARCHAR",
	TypeLongVarChar:   "LONGVARCHAR",
	TypeWChar:         "WCHAR",
	TypeWVarChar:      "WVARCHAR",
	TypeWLongVarChar:  "WLONGVARCHAR",
	TypeBinary:        "BINARY",
	TypeVarBinary:     "VARBINARY",
	TypeLongVarBinary: "LONGVARBINARY",
	TypeDate:          "DATE",
	TypeTime:          "TIME",
	TypeTimestamp:     "TIMESTAMP",
	TypeGUID:          "GUID",
}

func (c TypeCode) String() string {
	if name, ok := typeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}

//IsLong returns true for types whose data may exceed any fixed buffer width
func (c TypeCode) IsLong() bool {
	switch c {
	case TypeLongVarChar, TypeWLongVarChar, TypeLongVarBinary:
		return true
	}
	return false
}

//IsWide returns true for wide character types
func (c TypeCode) IsWide() bool {
	switch c {
	case TypeWChar, TypeWVarChar, TypeWLongVarChar:
		return true
	}
	return false
}

//IsText returns true for narrow and wide character types
func (c TypeCode) IsText() bool {
	switch c {
	case TypeChar, TypeVarChar, TypeLongVarChar, TypeWChar, TypeWVarChar, TypeWLongVarChar:
		return true
	}
	return false
}

//IsBinary returns true for raw byte types
func (c TypeCode) IsBinary() bool {
	switch c {
	case TypeBinary, TypeVarBinary, TypeLongVarBinary:
		return true
	}
	return false
}

//IsInteger returns true for whole number types
func (c TypeCode) IsInteger() bool {
	switch c {
	case TypeTinyInt, TypeSmallInt, TypeInteger, TypeBigInt:
		return true
	}
	return false
}

//IsFloat returns true for approximate number types
func (c TypeCode) IsFloat() bool {
	return c == TypeReal || c == TypeDouble
}

//IsDecimal returns true for fixed point types carrying precision and scale
func (c TypeCode) IsDecimal() bool {
	return c == TypeDecimal || c == TypeNumeric
}

//IsTemporal returns true for date and time types
func (c TypeCode) IsTemporal() bool {
	switch c {
	case TypeDate, TypeTime, TypeTimestamp:
		return true
	}
	return false
}

//FixedStride returns the in buffer element width for fixed width types,
//ok is false for variable width types whose stride depends on the declared size.
func (c TypeCode) FixedStride() (int, bool) {
	switch c {
	case TypeBit, TypeTinyInt:
		return 1, true
	case TypeSmallInt:
		return 2, true
	case TypeInteger, TypeReal:
		return 4, true
	case TypeBigInt, TypeDouble:
		return 8, true
	case TypeDate, TypeTime:
		return 6, true
	case TypeTimestamp:
		return 16, true
	case TypeGUID:
		return 16, true
	}
	return 0, false
}

//IsFixedWidth returns true when the buffered element width does not depend on the declared size
func (c TypeCode) IsFixedWidth() bool {
	_, ok := c.FixedStride()
	return ok
}
