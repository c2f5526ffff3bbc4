package logreader

import (
	"github.com/okian/loggraph/internal/domain/grammar"
	"github.com/okian/loggraph/pkg/logger"
)

// Option configures a Reader.
type Option func(*Reader)

// WithLogger sets the logger used for read summaries.
func WithLogger(l logger.Logger) Option {
	return func(r *Reader) {
		if l != nil {
			r.log = l
		}
	}
}

// WithParser replaces the grammar parser.
func WithParser(p *grammar.Parser) Option {
	return func(r *Reader) {
		if p != nil {
			r.parser = p
		}
	}
}

// WithMaxLineBytes bounds line length for ReadFrom.
func WithMaxLineBytes(n int) Option {
	return func(r *Reader) {
		if n > 0 {
			r.maxLine = n
		}
	}
}
