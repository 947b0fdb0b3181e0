//Package driver defines the contract between the materialization engine and a
//native, column binding database client. Implementations own statement
//execution and cursor state; the engine owns buffers, type dispatch and row
//construction.
package driver

//Indicator values reported by the client for each fetched cell, any other
//non negative indicator is the total byte length of the cell value before
//truncation.
const (
	//NullData marks a NULL cell
	NullData int64 = -1
	//NoTotal marks a long value whose total length was not known at fetch time
	NoTotal int64 = -4
)

//Nullability reports whether a column accepts NULL values
type Nullability int8

const (
	NullableUnknown Nullability = iota
	NoNulls
	Nullable
)

//Column is the per column metadata record returned by DescribeColumns.
//Size is the declared column size: characters for text, bytes for binary and
//total digits for fixed point types. Scale only applies to fixed point and
//timestamp types.
type Column struct {
	Name     string
	Type     TypeCode
	Size     int64
	Scale    int64
	Nullable Nullability
}

//Binding associates a caller owned buffer region with one column prior to
//fetching. Data holds Stride bytes per row, Ind holds one indicator per row.
type Binding struct {
	Data   []byte
	Stride int
	Ind    []int64
}

//Capacity returns the number of rows the binding can hold
func (b Binding) Capacity() int {
	if b.Stride == 0 {
		return 0
	}
	return len(b.Data) / b.Stride
}

//Statement is an executed statement with an open cursor. One Statement is
//owned by one caller; implementations are not required to support concurrent
//calls on the same Statement.
type Statement interface {
	//DescribeColumns returns metadata for every column of the current result
	//set, index i describes ordinal i+1
	DescribeColumns() ([]Column, error)

	//BindColumn associates a buffer with the 1 based column ordinal, bindings
	//stay in effect until rebound or the result set advances
	BindColumn(ordinal int, binding Binding) error

	//Fetch fills bound buffers with up to max rows and returns the number of
	//rows fetched. A count below max, zero included, means the result set is
	//exhausted; implementations must not return short counts mid stream
	Fetch(max int) (int, error)

	//ReadLong returns the complete value of one long or truncated cell of the
	//most recent batch, row is the 0 based index within that batch, nil data
	//means the cell is NULL
	ReadLong(ordinal, row int) ([]byte, error)

	//NextResultSet advances to the next result set of a multi statement
	//batch, false means no further result sets exist
	NextResultSet() (bool, error)

	//CloseCursor releases the cursor and all bindings
	CloseCursor() error
}
