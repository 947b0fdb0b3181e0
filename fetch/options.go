package fetch

import (
	log "github.com/sirupsen/logrus"
	"github.com/viant/fetchly/driver"
	"github.com/viant/fetchly/fetch/cache"
)

const (
	defaultBatchSize      = 100
	defaultLongBufferSize = 4096
)

type options struct {
	batchSize      int
	platform       driver.Platform
	deferredLong   bool
	longBufferSize int
	cache          cache.Service
	cacheSQL       string
	cacheArgs      []interface{}
	logger         *log.Logger
}

// Option represents a reader option
type Option func(o *options)

func newOptions(opts []Option) *options {
	result := &options{
		batchSize:      defaultBatchSize,
		platform:       driver.DetectPlatform(),
		longBufferSize: defaultLongBufferSize,
		logger:         log.StandardLogger(),
	}
	for _, opt := range opts {
		opt(result)
	}
	return result
}

// WithBatchSize sets the rows requested per driver fetch call
func WithBatchSize(size int) Option {
	return func(o *options) {
		if size > 0 {
			o.batchSize = size
		}
	}
}

// WithPlatform overrides the detected platform properties
func WithPlatform(platform driver.Platform) Option {
	return func(o *options) {
		o.platform = platform
	}
}

// WithDeferredLong switches long value columns from inline buffering to
// per cell retrieval through the driver long data primitive
func WithDeferredLong(deferred bool) Option {
	return func(o *options) {
		o.deferredLong = deferred
	}
}

// WithLongBufferSize sets the inline bound width for long value columns
func WithLongBufferSize(size int) Option {
	return func(o *options) {
		if size > 0 {
			o.longBufferSize = size
		}
	}
}

// WithCache attaches a result set cache; SQL and args identify the statement
// the reader was executed for and key the cache entry
func WithCache(service cache.Service, SQL string, args ...interface{}) Option {
	return func(o *options) {
		o.cache = service
		o.cacheSQL = SQL
		o.cacheArgs = args
	}
}

// WithLogger overrides the diagnostics logger
func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}
