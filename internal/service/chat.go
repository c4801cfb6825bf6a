package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/xiaot623/gogo/ibu/internal/adapter/llm"
	"github.com/xiaot623/gogo/ibu/internal/domain"
	"github.com/xiaot623/gogo/ibu/internal/metrics"
)

// HandleQuestion answers question and records the exchange.
//
// A completion failure aborts the request before anything is written. A
// failed history write is logged and reported to the absorbed-failure hook,
// and the answer is still returned with the current time as its timestamp.
func (s *Service) HandleQuestion(ctx context.Context, question string, sessionID *string) (*domain.ChatResponse, error) {
	requestID := "chat_" + uuid.New().String()[:8]
	logger := s.logger.With("request_id", requestID)

	startTime := time.Now()
	answer, err := s.completer.GetAnswer(ctx, s.instruction, question)
	s.metrics.ObserveCompletion(time.Since(startTime), err)
	if err != nil {
		if llm.IsCompletionError(err) {
			logger.Warn("completion failed", "error", err, "cause", errorCause(err))
			s.metrics.ObserveRequest(metrics.OutcomeUnavailable)
			return nil, &UserFacingError{Message: err.Error(), Err: err}
		}
		s.metrics.ObserveRequest(metrics.OutcomeError)
		return nil, fmt.Errorf("failed to get answer: %w", err)
	}

	var timestamp time.Time
	exchange, err := s.store.SaveExchange(ctx, question, answer, sessionID)
	if err != nil {
		s.absorb(logger, AbsorbedFailure{RequestID: requestID, Op: "save_exchange", Err: err})
		timestamp = s.now().UTC()
	} else {
		timestamp = exchange.Timestamp
		logger.Debug("exchange saved", "exchange_id", exchange.ID)
	}

	s.metrics.ObserveRequest(metrics.OutcomeOK)
	return &domain.ChatResponse{
		Assistant: domain.AssistantName,
		Answer:    answer,
		Timestamp: timestamp,
	}, nil
}

func (s *Service) absorb(logger *slog.Logger, f AbsorbedFailure) {
	logger.Warn("failed to save chat history", "op", f.Op, "error", f.Err)
	s.metrics.ObserveAbsorbedFailure()
	if s.onAbsorbed != nil {
		s.onAbsorbed(f)
	}
}

func errorCause(err error) string {
	var ce *llm.CompletionError
	if errors.As(err, &ce) && ce.Err != nil {
		return ce.Err.Error()
	}
	return ""
}
