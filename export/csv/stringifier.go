package csv

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/viant/fetchly/export"
	"github.com/viant/fetchly/fetch"
	"github.com/viant/fetchly/types"
)

// cellStringifier renders one cell as text, the flag reports whether the
// rendered value has to be enclosed
type cellStringifier func(value interface{}) (string, bool)

func newStringifier(column *fetch.Column, nullValue string) cellStringifier {
	layout := export.TemporalLayout(column.Type())
	return func(value interface{}) (string, bool) {
		if value == nil {
			return nullValue, false
		}
		switch actual := value.(type) {
		case int64:
			return strconv.FormatInt(actual, 10), false
		case float64:
			return strconv.FormatFloat(actual, 'f', -1, 64), false
		case bool:
			return strconv.FormatBool(actual), false
		case string:
			return actual, true
		case []byte:
			return base64.StdEncoding.EncodeToString(actual), true
		case time.Time:
			return actual.Format(layout), true
		case types.Decimal:
			return actual.String(), false
		case uuid.UUID:
			return actual.String(), true
		}
		return fmt.Sprintf("%v", value), false
	}
}

func newStringifiers(columns fetch.Columns, nullValue string) []cellStringifier {
	result := make([]cellStringifier, len(columns))
	for i, column := range columns {
		result[i] = newStringifier(column, nullValue)
	}
	return result
}
