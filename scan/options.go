package scan

type options struct {
	tagName         string
	unmappedIgnored bool
}

// Option represents a binder option
type Option func(o *options)

func newOptions(opts []Option) *options {
	result := &options{tagName: TagName}
	for _, opt := range opts {
		opt(result)
	}
	return result
}

// WithTagName overrides the struct tag consulted for column names
func WithTagName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.tagName = name
		}
	}
}

// WithUnmappedIgnored skips columns that match no struct field instead of
// failing the binder build
func WithUnmappedIgnored() Option {
	return func(o *options) {
		o.unmappedIgnored = true
	}
}
