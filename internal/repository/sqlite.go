package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/xiaot623/gogo/ibu/internal/domain"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// Ensure SQLiteStore implements Store interface.
var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens the database at dsn and creates the schema.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// migrate creates the chat_history table. There are no later migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS chat_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT,
			question TEXT NOT NULL,
			answer TEXT NOT NULL,
			timestamp DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chat_history_session ON chat_history(session_id, timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_chat_history_timestamp ON chat_history(timestamp)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// withConn runs fn on a connection checked out for this call only.
func (s *SQLiteStore) withConn(ctx context.Context, op string, fn func(conn *sql.Conn) error) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return &StorageError{Op: op, Err: err}
	}
	defer conn.Close()

	if err := fn(conn); err != nil {
		return &StorageError{Op: op, Err: err}
	}
	return nil
}

// SaveExchange inserts a new chat exchange.
func (s *SQLiteStore) SaveExchange(ctx context.Context, question, answer string, sessionID *string) (*domain.ChatExchange, error) {
	exchange := &domain.ChatExchange{
		SessionID: sessionID,
		Question:  question,
		Answer:    answer,
		Timestamp: time.Now().UTC(),
	}

	err := s.withConn(ctx, "save_exchange", func(conn *sql.Conn) error {
		res, err := conn.ExecContext(ctx,
			`INSERT INTO chat_history (session_id, question, answer, timestamp) VALUES (?, ?, ?, ?)`,
			nullString(sessionID), question, answer, exchange.Timestamp)
		if err != nil {
			return err
		}
		exchange.ID, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return nil, err
	}
	return exchange, nil
}

// RecentExchanges retrieves the most recent exchanges across all sessions.
func (s *SQLiteStore) RecentExchanges(ctx context.Context, limit int) ([]domain.ChatExchange, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	var exchanges []domain.ChatExchange
	err := s.withConn(ctx, "recent_exchanges", func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx,
			`SELECT id, session_id, question, answer, timestamp FROM chat_history ORDER BY timestamp DESC, id DESC LIMIT ?`,
			limit)
		if err != nil {
			return err
		}
		exchanges, err = scanExchanges(rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return exchanges, nil
}

// SessionHistory retrieves the exchanges of one session in the order they happened.
func (s *SQLiteStore) SessionHistory(ctx context.Context, sessionID string, limit int) ([]domain.ChatExchange, error) {
	if limit <= 0 {
		limit = DefaultSessionLimit
	}

	var exchanges []domain.ChatExchange
	err := s.withConn(ctx, "session_history", func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx,
			`SELECT id, session_id, question, answer, timestamp FROM chat_history WHERE session_id = ? ORDER BY timestamp ASC, id ASC LIMIT ?`,
			sessionID, limit)
		if err != nil {
			return err
		}
		exchanges, err = scanExchanges(rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return exchanges, nil
}

func scanExchanges(rows *sql.Rows) ([]domain.ChatExchange, error) {
	defer rows.Close()

	exchanges := []domain.ChatExchange{}
	for rows.Next() {
		var ex domain.ChatExchange
		var sessionID sql.NullString
		if err := rows.Scan(&ex.ID, &sessionID, &ex.Question, &ex.Answer, &ex.Timestamp); err != nil {
			return nil, err
		}
		if sessionID.Valid {
			id := sessionID.String
			ex.SessionID = &id
		}
		exchanges = append(exchanges, ex)
	}
	return exchanges, rows.Err()
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
