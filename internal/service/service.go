// Package service implements the question answering pipeline.
package service

import (
	"log/slog"
	"time"

	"github.com/xiaot623/gogo/ibu/internal/adapter/llm"
	"github.com/xiaot623/gogo/ibu/internal/metrics"
	"github.com/xiaot623/gogo/ibu/internal/repository"
)

// Service answers questions about the resume and records each exchange.
type Service struct {
	completer   llm.Completer
	store       store.Store
	instruction string
	logger      *slog.Logger
	metrics     *metrics.Metrics
	onAbsorbed  func(AbsorbedFailure)
	now         func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithAbsorbedFailureHook registers fn to receive every failure the pipeline
// swallows instead of returning.
func WithAbsorbedFailureHook(fn func(AbsorbedFailure)) Option {
	return func(s *Service) { s.onAbsorbed = fn }
}

// New creates the service. instruction is the prebuilt system instruction
// shared by all requests.
func New(completer llm.Completer, store store.Store, instruction string, opts ...Option) *Service {
	s := &Service{
		completer:   completer,
		store:       store,
		instruction: instruction,
		logger:      slog.Default(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
