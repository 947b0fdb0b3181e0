package fetch

import (
	"errors"
	"fmt"
	"strings"

	"github.com/viant/fetchly/driver"
)

var (
	// ErrMetadata indicates column description could not be retrieved; the
	// fetch context stays uninitialized and the statement has to be re-prepared
	// or the call retried.
	ErrMetadata = errors.New("metadata retrieval failed")

	// ErrDriver indicates the underlying batch fetch call itself failed,
	// distinct from per cell issues. Rows materialized by prior successful
	// calls are unaffected.
	ErrDriver = errors.New("driver fetch failed")

	// ErrConversion indicates one cell could not be converted to its host
	// type; the whole row fails, rows materialized before it stand.
	ErrConversion = errors.New("conversion failed")

	// ErrTruncation indicates a variable length value exceeded its bound
	// width and could not be recovered through the long data primitive.
	ErrTruncation = errors.New("value truncated")
)

// Error carries structured fetch context while remaining compatible with errors.Is().
type Error struct {
	Kind    error
	Op      string
	Column  string
	Ordinal int
	Row     int
	Source  driver.TypeCode
	Target  string
	Cause   error
}

func (e *Error) Error() string {
	sb := &strings.Builder{}
	sb.WriteString("fetch")
	if e.Op != "" {
		sb.WriteString(" ")
		sb.WriteString(e.Op)
	}
	sb.WriteString(": ")
	if e.Kind != nil {
		sb.WriteString(e.Kind.Error())
	} else {
		sb.WriteString("error")
	}
	if e.Column != "" {
		sb.WriteString(fmt.Sprintf(" column=%v(%v)", e.Column, e.Ordinal))
	}
	if e.Row >= 0 {
		sb.WriteString(fmt.Sprintf(" row=%v", e.Row))
	}
	if e.Source != driver.TypeUnknown {
		sb.WriteString(" source=")
		sb.WriteString(e.Source.String())
	}
	if e.Target != "" {
		sb.WriteString(" target=")
		sb.WriteString(e.Target)
	}
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() error { return e.Cause }

func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}
	if e.Kind != nil && target == e.Kind {
		return true
	}
	if e.Cause != nil {
		return errors.Is(e.Cause, target)
	}
	return false
}

// NewMetadataError creates a metadata retrieval error
func NewMetadataError(op string, cause error) error {
	return &Error{Kind: ErrMetadata, Op: op, Row: -1, Cause: cause}
}

// NewDriverError creates a driver call error, row is -1 unless the failure is
// scoped to one cell of the current batch
func NewDriverError(op string, column string, ordinal, row int, cause error) error {
	return &Error{Kind: ErrDriver, Op: op, Column: column, Ordinal: ordinal, Row: row, Cause: cause}
}

// NewConversionError creates a cell conversion error
func NewConversionError(column string, ordinal, row int, source driver.TypeCode, target string, cause error) error {
	return &Error{Kind: ErrConversion, Op: "materialize", Column: column, Ordinal: ordinal, Row: row, Source: source, Target: target, Cause: cause}
}

// NewTruncationError creates a truncation error for a cell whose full value
// could not be recovered
func NewTruncationError(column string, ordinal, row int, source driver.TypeCode, cause error) error {
	return &Error{Kind: ErrTruncation, Op: "materialize", Column: column, Ordinal: ordinal, Row: row, Source: source, Cause: cause}
}
