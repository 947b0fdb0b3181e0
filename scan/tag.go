package scan

import "strings"

// TagName is the struct tag binding fields to result set columns
const TagName = "fetchly"

// Tag represents a field binding tag
type Tag struct {
	Column    string
	Transient bool
}

// ParseTag parses a field tag, "-" marks the field transient, the column
// name comes from a name=value element or the first bare element
func ParseTag(tagString string) *Tag {
	tag := &Tag{}
	if tagString == "-" {
		tag.Transient = true
		return tag
	}
	elements := strings.Split(tagString, ",")
	for i, element := range elements {
		nv := strings.Split(element, "=")
		if len(nv) == 2 {
			if strings.ToLower(strings.TrimSpace(nv[0])) == "name" {
				tag.Column = strings.TrimSpace(nv[1])
			}
			continue
		}
		if i == 0 {
			tag.Column = strings.TrimSpace(element)
		}
	}
	return tag
}
