package cache

import (
	"bufio"
	"bytes"
	"encoding/json"
	goIo "io"

	"github.com/francoispqt/gojay"
	"github.com/viant/fetchly/driver"
)

// Meta is the first line of every cache entry
type Meta struct {
	SQL     string          `json:"sql"`
	Args    []byte          `json:"args,omitempty"`
	URL     string          `json:"url"`
	Expiry  int64           `json:"expiry"`
	Columns []driver.Column `json:"columns,omitempty"`
}

// Entry is one cached result set: a meta line followed by one JSON array line
// per row. An entry is either replayed (Has is true) or written, never both.
type Entry struct {
	Meta Meta
	Id   string

	decoder *rowDecoder

	reader     *bufio.Reader
	readCloser goIo.ReadCloser

	writer      *bufio.Writer
	writeCloser goIo.WriteCloser
	rowAdded    bool
}

// Has returns true when the entry carries cached data to replay
func (e *Entry) Has() bool {
	return e.reader != nil
}

// Columns returns the column metadata captured when the entry was written
func (e *Entry) Columns() []driver.Column {
	return e.Meta.Columns
}

// SetColumns captures column metadata prior to the first AddValues call
func (e *Entry) SetColumns(columns []driver.Column) {
	e.Meta.Columns = columns
}

// Next replays the next cached row, a nil result without error means the
// entry is exhausted
func (e *Entry) Next() ([]interface{}, error) {
	line, err := readLine(e.reader)
	if err != nil {
		if err == goIo.EOF && len(line) == 0 {
			return nil, nil
		}
		if err != goIo.EOF {
			return nil, err
		}
	}
	if len(line) == 0 {
		return nil, nil
	}
	if e.decoder == nil {
		decoders := make([]DecoderFn, len(e.Meta.Columns))
		for i, column := range e.Meta.Columns {
			decoders[i] = newDecoderFn(column)
		}
		e.decoder = newRowDecoder(decoders)
	}
	e.decoder.reset()
	if err := gojay.UnmarshalJSONArray(line, e.decoder); err != nil {
		return nil, err
	}
	result := make([]interface{}, len(e.decoder.values))
	copy(result, e.decoder.values)
	return result, nil
}

// init prepares the entry for replay
func (e *Entry) init(reader *bufio.Reader, closer goIo.ReadCloser) {
	e.reader = reader
	e.readCloser = closer
}

func (e *Entry) writeLine(data []byte) error {
	if _, err := e.writer.Write(data); err != nil {
		return err
	}
	return e.writer.WriteByte('\n')
}

func (e *Entry) writeMeta() error {
	data, err := json.Marshal(e.Meta)
	if err != nil {
		return err
	}
	return e.writeLine(data)
}

func readLine(reader *bufio.Reader) ([]byte, error) {
	line, err := reader.ReadBytes('\n')
	line = bytes.TrimSuffix(line, []byte{'\n'})
	return line, err
}
