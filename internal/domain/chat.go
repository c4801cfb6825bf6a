// Package domain defines the core domain models for the chat service.
package domain

import "time"

// AssistantName is the constant persona name returned with every answer.
const AssistantName = "Ibu"

// MaxQuestionLength is the longest question accepted, in characters. The
// question_length validation tag is registered from it.
const MaxQuestionLength = 500

// ChatExchange is one persisted question/answer pair.
type ChatExchange struct {
	ID        int64     `json:"id"`
	SessionID *string   `json:"session_id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Question  string  `json:"question" validate:"required,question_length"`
	SessionID *string `json:"session_id,omitempty"`
}

// ChatResponse is the envelope returned for a successful question.
type ChatResponse struct {
	Assistant string    `json:"assistant"`
	Answer    string    `json:"answer"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}
