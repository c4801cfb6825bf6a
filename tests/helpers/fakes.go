package helpers

import (
	"context"
	"errors"
	"sync"

	"github.com/xiaot623/gogo/ibu/internal/domain"
	"github.com/xiaot623/gogo/ibu/internal/repository"
)

// FakeCompleter returns a fixed answer or error and counts calls.
type FakeCompleter struct {
	Answer string
	Err    error

	mu        sync.Mutex
	calls     int
	questions []string
}

// GetAnswer implements llm.Completer.
func (f *FakeCompleter) GetAnswer(ctx context.Context, systemInstruction, question string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.questions = append(f.questions, question)
	if f.Err != nil {
		return "", f.Err
	}
	return f.Answer, nil
}

// Calls returns the number of GetAnswer calls.
func (f *FakeCompleter) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// FailingStore fails every write and counts SaveExchange calls.
type FailingStore struct {
	mu    sync.Mutex
	saves int
}

// Ensure FailingStore implements Store interface.
var _ store.Store = (*FailingStore)(nil)

// ErrStoreDown is the cause wrapped in every FailingStore error.
var ErrStoreDown = errors.New("database is locked")

func (f *FailingStore) SaveExchange(ctx context.Context, question, answer string, sessionID *string) (*domain.ChatExchange, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	return nil, &store.StorageError{Op: "save_exchange", Err: ErrStoreDown}
}

func (f *FailingStore) RecentExchanges(ctx context.Context, limit int) ([]domain.ChatExchange, error) {
	return nil, &store.StorageError{Op: "recent_exchanges", Err: ErrStoreDown}
}

func (f *FailingStore) SessionHistory(ctx context.Context, sessionID string, limit int) ([]domain.ChatExchange, error) {
	return nil, &store.StorageError{Op: "session_history", Err: ErrStoreDown}
}

func (f *FailingStore) Close() error { return nil }

// Saves returns the number of SaveExchange calls.
func (f *FailingStore) Saves() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves
}

// CountingStore wraps a Store and counts SaveExchange calls.
type CountingStore struct {
	store.Store

	mu    sync.Mutex
	saves int
}

func (c *CountingStore) SaveExchange(ctx context.Context, question, answer string, sessionID *string) (*domain.ChatExchange, error) {
	c.mu.Lock()
	c.saves++
	c.mu.Unlock()
	return c.Store.SaveExchange(ctx, question, answer, sessionID)
}

// Saves returns the number of SaveExchange calls.
func (c *CountingStore) Saves() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saves
}
