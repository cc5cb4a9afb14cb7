package association

import "go.uber.org/zap"

// Factory turns a raw candidate (an ID, a map of fields...) into a relation member.
type Factory func(raw any) (any, error)

type options struct {
	inverse    string
	factory    Factory
	logger     *zap.Logger
	manyToMany *bool
}

// Option configures a reconciliation.
type Option func(*options)

// WithInverse sets the inverse relation name used by RunConvention and
// RunDescribed instead of the one derived from the owner type.
func WithInverse(name string) Option {
	return func(o *options) {
		o.inverse = name
	}
}

// WithFactory coerces candidates that are not entities through f.
func WithFactory(f Factory) Option {
	return func(o *options) {
		o.factory = f
	}
}

// WithLogger logs link and unlink decisions at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithManyToMany overrides the plural-inverse heuristic.
func WithManyToMany(manyToMany bool) Option {
	return func(o *options) {
		o.manyToMany = &manyToMany
	}
}

func buildOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	return o
}
