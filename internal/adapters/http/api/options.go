package api

import "github.com/okian/loggraph/internal/adapters/render"

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithCanvas sets the geometry used for SVG responses.
func WithCanvas(c render.Canvas) Option {
	return func(s *Server) {
		s.canvas = c
	}
}

// WithMaxLimit caps the leaderboard limit parameter.
func WithMaxLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

// WithMaxBody caps uploaded log size in bytes.
func WithMaxBody(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBody = n
		}
	}
}
