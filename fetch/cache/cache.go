// Package cache persists materialized result sets as line delimited JSON
// entries, so that repeated statements can replay rows without a driver
// round trip.
package cache

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	goIo "io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/option"
)

// Service abstracts result set caching
type Service interface {
	//Get returns an entry for the supplied statement, a nil entry means bypass
	Get(ctx context.Context, SQL string, args []interface{}) (*Entry, error)

	//AddValues appends one materialized row to a written entry
	AddValues(ctx context.Context, entry *Entry, values []interface{}) error

	//Close commits a written entry or releases a replayed one
	Close(ctx context.Context, entry *Entry) error

	//Rollback discards a partially written entry
	Rollback(ctx context.Context, entry *Entry) error

	//Delete removes the persisted entry
	Delete(ctx context.Context, entry *Entry) error
}

// Cache implements Service on top of an afs storage location
type Cache struct {
	fs        afs.Service
	location  string
	extension string
	ttl       time.Duration
	mux       sync.Mutex
	inFlight  map[string]bool
}

// New creates a cache rooted at the supplied storage URL
func New(location string, ttl time.Duration) *Cache {
	if location != "" && location[len(location)-1] != '/' {
		location += "/"
	}
	return &Cache{
		fs:        afs.New(),
		location:  location,
		extension: ".json",
		ttl:       ttl,
		inFlight:  map[string]bool{},
	}
}

// Get returns a replayable entry when a valid one exists, otherwise a
// writable one. A nil entry means the URL is already in flight and caching
// shall be bypassed.
func (c *Cache) Get(ctx context.Context, SQL string, args []interface{}) (*Entry, error) {
	URL, argsData, err := entryURL(SQL, c.location, c.extension, args)
	if err != nil {
		return nil, err
	}
	if !c.mark(URL) {
		return nil, nil
	}
	entry := &Entry{Meta: Meta{SQL: SQL, Args: argsData, URL: URL}}
	if ok, _ := c.fs.Exists(ctx, URL); !ok {
		return c.writeEntry(ctx, entry)
	}
	result, err := c.readEntry(ctx, entry)
	if err != nil {
		c.unmark(URL)
		return nil, err
	}
	if result == nil {
		return c.writeEntry(ctx, entry)
	}
	return result, nil
}

// AddValues appends one row, the meta line is written lazily ahead of the
// first row
func (c *Cache) AddValues(ctx context.Context, entry *Entry, values []interface{}) error {
	if entry == nil || entry.writer == nil {
		return nil
	}
	if !entry.rowAdded {
		entry.rowAdded = true
		if err := entry.writeMeta(); err != nil {
			return err
		}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return err
	}
	return entry.writeLine(data)
}

// Close commits a written entry by moving it from its in flight URL into
// place, or releases the reader of a replayed one
func (c *Cache) Close(ctx context.Context, entry *Entry) error {
	if entry == nil {
		return nil
	}
	defer c.unmark(entry.Meta.URL)
	if entry.readCloser != nil {
		err := entry.readCloser.Close()
		entry.reader = nil
		entry.readCloser = nil
		return err
	}
	if entry.writeCloser == nil {
		return nil
	}
	if !entry.rowAdded {
		//an empty result set still gets its meta line so a replay sees zero rows
		if err := entry.writeMeta(); err != nil {
			return err
		}
	}
	if err := entry.writer.Flush(); err != nil {
		return err
	}
	if err := entry.writeCloser.Close(); err != nil {
		return err
	}
	entry.writer = nil
	entry.writeCloser = nil
	return c.fs.Move(ctx, entry.Meta.URL+entry.Id, entry.Meta.URL)
}

// Rollback discards a partially written entry, a replayed entry is only
// released
func (c *Cache) Rollback(ctx context.Context, entry *Entry) error {
	if entry == nil {
		return nil
	}
	defer c.unmark(entry.Meta.URL)
	if entry.readCloser != nil {
		err := entry.readCloser.Close()
		entry.reader = nil
		entry.readCloser = nil
		return err
	}
	if entry.writeCloser == nil {
		return nil
	}
	_ = entry.writer.Flush()
	_ = entry.writeCloser.Close()
	entry.writer = nil
	entry.writeCloser = nil
	return c.fs.Delete(ctx, entry.Meta.URL+entry.Id)
}

// Delete removes the persisted entry
func (c *Cache) Delete(ctx context.Context, entry *Entry) error {
	if entry == nil {
		return nil
	}
	defer c.unmark(entry.Meta.URL)
	if entry.readCloser != nil {
		_ = entry.readCloser.Close()
		entry.reader = nil
		entry.readCloser = nil
	}
	return c.fs.Delete(ctx, entry.Meta.URL)
}

func (c *Cache) readEntry(ctx context.Context, entry *Entry) (*Entry, error) {
	readCloser, err := c.fs.OpenURL(ctx, entry.Meta.URL)
	if err != nil {
		return nil, err
	}
	reader := bufio.NewReader(readCloser)
	line, err := readLine(reader)
	if err != nil && err != goIo.EOF {
		_ = readCloser.Close()
		return nil, err
	}
	meta := Meta{}
	if len(line) > 0 {
		err = json.Unmarshal(line, &meta)
	}
	if err != nil || !c.isValid(entry, &meta) {
		_ = readCloser.Close()
		if err := c.fs.Delete(ctx, entry.Meta.URL); err != nil {
			return nil, err
		}
		return nil, nil
	}
	entry.Meta = meta
	entry.init(reader, readCloser)
	return entry, nil
}

func (c *Cache) writeEntry(ctx context.Context, entry *Entry) (*Entry, error) {
	id := uuid.New()
	entry.Id = strings.ReplaceAll(id.String(), "-", "") + c.extension
	entry.Meta.Expiry = time.Now().Add(c.ttl).UnixMilli()
	writer, err := c.fs.NewWriter(ctx, entry.Meta.URL+entry.Id, file.DefaultFileOsMode, &option.SkipChecksum{Skip: true})
	if err != nil {
		c.unmark(entry.Meta.URL)
		return nil, err
	}
	entry.writeCloser = writer
	entry.writer = bufio.NewWriter(writer)
	return entry, nil
}

func (c *Cache) isValid(entry *Entry, meta *Meta) bool {
	if meta.SQL != entry.Meta.SQL || !bytes.Equal(meta.Args, entry.Meta.Args) {
		return false
	}
	return meta.Expiry > time.Now().UnixMilli()
}

func (c *Cache) mark(URL string) bool {
	c.mux.Lock()
	defer c.mux.Unlock()
	if c.inFlight[URL] {
		return false
	}
	c.inFlight[URL] = true
	return true
}

func (c *Cache) unmark(URL string) {
	c.mux.Lock()
	defer c.mux.Unlock()
	delete(c.inFlight, URL)
}
