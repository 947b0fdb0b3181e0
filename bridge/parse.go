package bridge

import (
	"strings"

	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

const (
	whitespaceCode int = iota
	typeNameCode
	argumentsCode
	digitsCode
	nextCode
)

var (
	whitespaceToken = parsly.NewToken(whitespaceCode, "whitespace", matcher.NewWhiteSpace())
	typeNameToken   = parsly.NewToken(typeNameCode, "type name", matcher.NewCharset("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_ "))
	argumentsToken  = parsly.NewToken(argumentsCode, "()", matcher.NewBlock('(', ')', '\\'))
	digitsToken     = parsly.NewToken(digitsCode, "digits", matcher.NewDigits())
	nextToken       = parsly.NewToken(nextCode, ",", matcher.NewByte(','))
)

// declaredType carries the pieces of a declared column type such as
// "DECIMAL(12,2)" or "DOUBLE PRECISION"
type declaredType struct {
	Name  string
	Size  int64
	Scale *int64
}

// parseDeclared parses the database type name a driver reports. Unparseable
// input yields an empty name, callers then fall back to the scan type.
func parseDeclared(declared string) declaredType {
	result := declaredType{}
	cursor := parsly.NewCursor("", []byte(declared), 0)
	matched := cursor.MatchAfterOptional(whitespaceToken, typeNameToken)
	if matched.Code != typeNameToken.Code {
		return result
	}
	result.Name = normalizeTypeName(matched.Text(cursor))
	matched = cursor.MatchAfterOptional(whitespaceToken, argumentsToken)
	if matched.Code != argumentsToken.Code {
		return result
	}
	parseArguments(matched.Text(cursor), &result)
	return result
}

func parseArguments(arguments string, result *declaredType) {
	arguments = strings.TrimSpace(arguments)
	arguments = strings.TrimPrefix(arguments, "(")
	arguments = strings.TrimSuffix(arguments, ")")
	cursor := parsly.NewCursor("", []byte(arguments), 0)
	matched := cursor.MatchAfterOptional(whitespaceToken, digitsToken)
	if matched.Code != digitsToken.Code {
		return
	}
	size, err := matched.Int(cursor)
	if err != nil {
		return
	}
	result.Size = int64(size)
	matched = cursor.MatchAfterOptional(whitespaceToken, nextToken)
	if matched.Code != nextToken.Code {
		return
	}
	matched = cursor.MatchAfterOptional(whitespaceToken, digitsToken)
	if matched.Code != digitsToken.Code {
		return
	}
	value, err := matched.Int(cursor)
	if err != nil {
		return
	}
	scale := int64(value)
	result.Scale = &scale
}

// normalizeTypeName uppercases and collapses whitespace, the UNSIGNED
// modifier does not participate in type resolution
func normalizeTypeName(name string) string {
	name = strings.ToUpper(strings.Join(strings.Fields(name), " "))
	name = strings.Replace(name, "UNSIGNED", "", 1)
	return strings.Join(strings.Fields(name), " ")
}
