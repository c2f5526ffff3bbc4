package service

import (
	"github.com/okian/loggraph/internal/adapters/repository"
	"github.com/okian/loggraph/internal/domain/logreader"
	"github.com/okian/loggraph/internal/domain/timeline"
	"github.com/okian/loggraph/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the batch worker and summary concurrency.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize caps how many batch jobs may be queued at once.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many uploaded log digests are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithBatching sets the default batching window in seconds.
func WithBatching(seconds int64) Option {
	return func(s *Service) {
		if seconds > 0 {
			s.batching = seconds
		}
	}
}

// WithBuilder sets the timeline builder.
func WithBuilder(b *timeline.Builder) Option {
	return func(s *Service) {
		if b != nil {
			s.builder = b
		}
	}
}

// WithReader sets the log reader.
func WithReader(r *logreader.Reader) Option {
	return func(s *Service) {
		if r != nil {
			s.reader = r
		}
	}
}

// WithStore sets the summary store.
func WithStore(st repository.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.store = st
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
