package rarextract

// Option configures optional behavior of the Parse/Extract family of
// operations, applied on top of the defaults (defaultFS, defaultLogger).
type Option func(*options)

// WithLogger injects the Logger the orchestrator and the multi-volume
// reassembler log to, overriding defaultLogger.
func WithLogger(logger Logger) Option {
	return func(o *options) { o.logger = logger }
}

func applyOptions(o *options, opts []Option) {
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = defaultLogger
	}
}
