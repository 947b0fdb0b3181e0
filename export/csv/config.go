package csv

import "github.com/viant/toolbox/format"

// Config represents writer config
type Config struct {
	FieldSeparator  string
	ObjectSeparator string
	EncloseBy       string
	EscapeBy        string
	NullValue       string
	//HeaderCase transforms column names in the header line, nil keeps them as
	//reported
	HeaderCase *format.Case
	OmitHeader bool
}

func (c *Config) init() {
	if c.EncloseBy == "" {
		c.EncloseBy = `"`
	}
	if c.EscapeBy == "" {
		c.EscapeBy = `\`
	}
	if c.FieldSeparator == "" {
		c.FieldSeparator = `,`
	}
	if c.ObjectSeparator == "" {
		c.ObjectSeparator = "\n"
	}
	if c.NullValue == "" {
		c.NullValue = "null"
	}
}
