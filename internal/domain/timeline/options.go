package timeline

import "github.com/okian/loggraph/internal/domain/scoring"

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithLayout sets canvas geometry and highlight parameters.
func WithLayout(l Layout) Option {
	return func(b *Builder) {
		b.layout = l
	}
}

// WithTable sets the scoring value table.
func WithTable(t *scoring.Table) Option {
	return func(b *Builder) {
		if t != nil {
			b.table = t
		}
	}
}
