// Package fetch materializes result sets in batches: column metadata is
// described once per result set, column buffers are bound once and refilled by
// every driver fetch call, and a per column converter table turns buffered
// cells into host values without per cell type branching.
package fetch

import (
	"context"
	"fmt"

	"github.com/viant/fetchly/driver"
	"github.com/viant/fetchly/fetch/cache"
)

type state int8

const (
	stateUnstarted state = iota
	stateFetching
	stateMaterializing
	stateMoreAvailable
	stateExhausted
	stateFailed
	stateClosed
)

// Stats exposes reader counters
type Stats struct {
	//ContextBuilds counts full metadata retrievals, at most one per result
	//set unless an error forced a rebuild
	ContextBuilds int
	//Batches counts driver fetch calls
	Batches int
	//Rows counts materialized rows
	Rows int
	//CacheHits counts result sets replayed from cache
	CacheHits int
}

// Reader drives the batch fetch loop over one executed statement. A reader is
// not safe for concurrent use.
type Reader struct {
	stmt    driver.Statement
	options *options
	context fetchContext
	state   state

	batches int
	rows    int
	emitted int

	entry    *cache.Entry
	replay   bool
	replayed bool
	sourced  bool
	cacheOff bool
}

// NewReader creates a batch reader over an executed statement
func NewReader(stmt driver.Statement, opts ...Option) *Reader {
	return &Reader{stmt: stmt, options: newOptions(opts), state: stateUnstarted}
}

// Columns returns the column descriptors of the current result set, nil ahead
// of the first fetch
func (r *Reader) Columns() Columns {
	if r.context.schema == nil {
		return nil
	}
	return r.context.schema.columns
}

// Exhausted returns true once the current result set has no rows left
func (r *Reader) Exhausted() bool {
	return r.state == stateExhausted
}

// Stats returns reader counters
func (r *Reader) Stats() Stats {
	hits := 0
	if r.replayed {
		hits = 1
	}
	return Stats{
		ContextBuilds: r.context.builds,
		Batches:       r.batches,
		Rows:          r.rows,
		CacheHits:     hits,
	}
}

// Fetch materializes up to max rows through one driver batch, max below one
// falls back to the configured batch size. Exhaustion yields an empty result
// and a nil error; on a cell failure the rows materialized ahead of the
// failing one come back alongside the error. Cancellation is honored between
// batches only, never inside one.
func (r *Reader) Fetch(ctx context.Context, max int) ([]Row, error) {
	switch r.state {
	case stateClosed:
		return nil, fmt.Errorf("fetch called on a closed reader")
	case stateExhausted:
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if max <= 0 {
		max = r.options.batchSize
	}
	r.ensureSource(ctx)
	if r.replay {
		return r.fetchReplay(ctx, max)
	}
	return r.fetchDriver(ctx, max)
}

// FetchAll drains the current result set, emitting every materialized row.
// Rows fetched ahead of a failure are emitted before the error returns.
func (r *Reader) FetchAll(ctx context.Context, emit func(row Row) error) error {
	for {
		rows, err := r.Fetch(ctx, r.options.batchSize)
		for i := range rows {
			if emitErr := emit(rows[i]); emitErr != nil {
				return emitErr
			}
		}
		if err != nil {
			return err
		}
		if r.state == stateExhausted {
			return nil
		}
	}
}

// NextResultSet advances to the following result set of the statement. The
// cached fetch context is invalidated so the next fetch rebuilds it from
// fresh metadata; rows already materialized stay valid.
func (r *Reader) NextResultSet(ctx context.Context) (bool, error) {
	if r.state == stateClosed {
		return false, fmt.Errorf("next result set called on a closed reader")
	}
	r.releaseEntry(ctx)
	//cache entries are keyed by the statement, only its first result set is cached
	r.cacheOff = true
	r.replay = false
	r.emitted = 0
	ok, err := r.stmt.NextResultSet()
	r.context.invalidate()
	if err != nil {
		r.state = stateFailed
		return false, NewDriverError("next result set", "", 0, -1, err)
	}
	if !ok {
		r.state = stateExhausted
		return false, nil
	}
	r.state = stateUnstarted
	return true, nil
}

// Close releases the cursor, a pending cache entry is rolled back
func (r *Reader) Close(ctx context.Context) error {
	if r.state == stateClosed {
		return nil
	}
	r.releaseEntry(ctx)
	r.context.invalidate()
	r.state = stateClosed
	if err := r.stmt.CloseCursor(); err != nil {
		return NewDriverError("close cursor", "", 0, -1, err)
	}
	return nil
}

func (r *Reader) fetchDriver(ctx context.Context, max int) ([]Row, error) {
	builds := r.context.builds
	if err := r.context.ensure(r.stmt, r.options, max); err != nil {
		return r.fail(ctx, err)
	}
	if r.context.builds != builds {
		r.options.logger.Debugf("fetch context built: %v columns, capacity %v", len(r.context.schema.columns), r.context.capacity)
		if r.entry != nil && !r.replay {
			r.entry.SetColumns(r.context.described)
		}
	}
	r.state = stateFetching
	fetched, err := r.stmt.Fetch(max)
	if err != nil {
		return r.fail(ctx, NewDriverError("fetch", "", 0, -1, err))
	}
	r.batches++
	r.state = stateMaterializing
	rows, err := r.materialize(fetched)
	r.rows += len(rows)
	r.emitted += len(rows)
	if err != nil {
		r.state = stateFailed
		r.context.invalidate()
		r.rollbackEntry(ctx)
		return rows, err
	}
	r.recordRows(ctx, rows)
	if fetched < max {
		r.state = stateExhausted
		r.commitEntry(ctx)
		return rows, nil
	}
	r.state = stateMoreAvailable
	return rows, nil
}

// materialize runs the converter table over the fetched batch; the per cell
// loop only indexes the table. A failing cell fails its whole row, rows ahead
// of it stand and come back to the caller.
func (r *Reader) materialize(count int) ([]Row, error) {
	dispatch := r.context.dispatch
	rows := make([]Row, 0, count)
	for row := 0; row < count; row++ {
		values := make([]interface{}, len(dispatch))
		for i := range dispatch {
			value, err := dispatch[i].Convert(row)
			if err != nil {
				return rows, err
			}
			values[i] = value
		}
		rows = append(rows, Row{schema: r.context.schema, values: values})
	}
	return rows, nil
}

func (r *Reader) fail(ctx context.Context, err error) ([]Row, error) {
	r.state = stateFailed
	r.context.invalidate()
	r.rollbackEntry(ctx)
	return nil, err
}

// ensureSource resolves the cache entry once ahead of the first fetch
func (r *Reader) ensureSource(ctx context.Context) {
	if r.sourced || r.cacheOff || r.options.cache == nil {
		return
	}
	r.sourced = true
	entry, err := r.options.cache.Get(ctx, r.options.cacheSQL, r.options.cacheArgs)
	if err != nil {
		r.options.logger.Warnf("failed to access result set cache: %v", err)
		return
	}
	if entry == nil {
		return
	}
	r.entry = entry
	if entry.Has() {
		r.replay = true
		r.replayed = true
		r.options.logger.Debugf("result set cache hit: %v", entry.Meta.URL)
	}
}

// fetchReplay serves rows from a cached entry instead of the driver
func (r *Reader) fetchReplay(ctx context.Context, max int) ([]Row, error) {
	if r.context.schema == nil {
		described := r.entry.Columns()
		columns := make(Columns, len(described))
		for i, item := range described {
			columns[i] = newColumn(item, i+1, r.options.platform, r.options.deferredLong, r.options.longBufferSize)
		}
		r.context.schema = newSchema(columns)
	}
	r.state = stateFetching
	rows := make([]Row, 0, max)
	for len(rows) < max {
		values, err := r.entry.Next()
		if err != nil {
			return r.replayFailure(ctx, rows, err)
		}
		if values == nil {
			r.state = stateExhausted
			if closeErr := r.options.cache.Close(ctx, r.entry); closeErr != nil {
				r.options.logger.Warnf("failed to release result set cache entry: %v", closeErr)
			}
			r.entry = nil
			r.rows += len(rows)
			r.emitted += len(rows)
			return rows, nil
		}
		rows = append(rows, Row{schema: r.context.schema, values: values})
	}
	r.state = stateMoreAvailable
	r.rows += len(rows)
	r.emitted += len(rows)
	return rows, nil
}

// replayFailure drops the corrupt entry; when no row of the result set
// reached the caller yet the reader falls back to the driver, otherwise the
// failure surfaces since a driver restart would duplicate rows.
func (r *Reader) replayFailure(ctx context.Context, rows []Row, err error) ([]Row, error) {
	r.options.logger.Warnf("failed to replay result set cache entry, discarding it: %v", err)
	if deleteErr := r.options.cache.Delete(ctx, r.entry); deleteErr != nil {
		r.options.logger.Warnf("failed to delete result set cache entry: %v", deleteErr)
	}
	r.entry = nil
	r.replay = false
	r.cacheOff = true
	if r.emitted == 0 && len(rows) == 0 {
		r.context.invalidate()
		return r.fetchDriver(ctx, r.options.batchSize)
	}
	r.state = stateFailed
	r.rows += len(rows)
	r.emitted += len(rows)
	return rows, NewDriverError("cache replay", "", 0, -1, err)
}

// recordRows appends materialized rows to a written cache entry, a recording
// failure only disables caching for this reader
func (r *Reader) recordRows(ctx context.Context, rows []Row) {
	if r.entry == nil || r.replay {
		return
	}
	for i := range rows {
		if err := r.options.cache.AddValues(ctx, r.entry, rows[i].values); err != nil {
			r.options.logger.Warnf("failed to record result set cache entry: %v", err)
			_ = r.options.cache.Rollback(ctx, r.entry)
			r.entry = nil
			return
		}
	}
}

func (r *Reader) commitEntry(ctx context.Context) {
	if r.entry == nil || r.replay {
		return
	}
	if err := r.options.cache.Close(ctx, r.entry); err != nil {
		r.options.logger.Warnf("failed to commit result set cache entry: %v", err)
	}
	r.entry = nil
}

func (r *Reader) rollbackEntry(ctx context.Context) {
	if r.entry == nil {
		return
	}
	if err := r.options.cache.Rollback(ctx, r.entry); err != nil {
		r.options.logger.Warnf("failed to roll back result set cache entry: %v", err)
	}
	r.entry = nil
}

func (r *Reader) releaseEntry(ctx context.Context) {
	if r.entry == nil {
		return
	}
	if r.replay {
		if err := r.options.cache.Close(ctx, r.entry); err != nil {
			r.options.logger.Warnf("failed to release result set cache entry: %v", err)
		}
		r.entry = nil
		return
	}
	r.rollbackEntry(ctx)
}
