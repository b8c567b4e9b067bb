package session

import (
	"log/slog"

	"github.com/roach88/enskit/internal/metrics"
)

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger. The filter set inherits it.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics records synchronize and filter-run metrics on m.
func WithMetrics(m *metrics.Recorder) Option {
	return func(s *Session) {
		s.metrics = m
	}
}

// WithRealizationFilters enables realization filters at construction.
func WithRealizationFilters() Option {
	return func(s *Session) {
		s.enableFilters = true
	}
}
