// Package export holds helpers shared by the format writers.
package export

import (
	"strings"
	"unicode"

	"github.com/viant/fetchly/driver"
	"github.com/viant/toolbox/format"
)

const (
	//DateLayout renders date cells
	DateLayout = "2006-01-02"
	//ClockLayout renders time of day cells
	ClockLayout = "15:04:05"
	//TimestampLayout renders timestamp cells
	TimestampLayout = "2006-01-02 15:04:05.999999999"
)

// TemporalLayout returns the text layout cells of a temporal column render
// with
func TemporalLayout(code driver.TypeCode) string {
	switch code {
	case driver.TypeDate:
		return DateLayout
	case driver.TypeTime:
		return ClockLayout
	}
	return TimestampLayout
}

// CaseOf resolves the case format a column name was reported with
func CaseOf(name string) format.Case {
	if name == "" {
		return format.CaseLowerCamel
	}
	hasUpper, hasLower := false, false
	for _, r := range name {
		hasUpper = hasUpper || unicode.IsUpper(r)
		hasLower = hasLower || unicode.IsLower(r)
	}
	if strings.Contains(name, "_") {
		if hasLower && !hasUpper {
			return format.CaseLowerUnderscore
		}
		return format.CaseUpperUnderscore
	}
	if hasUpper && !hasLower {
		return format.CaseUpper
	}
	if hasLower && !hasUpper {
		return format.CaseLower
	}
	if unicode.IsUpper(rune(name[0])) {
		return format.CaseUpperCamel
	}
	return format.CaseLowerCamel
}
