package v1

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaot623/gogo/ibu/internal/adapter/llm"
	"github.com/xiaot623/gogo/ibu/internal/domain"
	"github.com/xiaot623/gogo/ibu/internal/repository"
	"github.com/xiaot623/gogo/ibu/internal/service"
	"github.com/xiaot623/gogo/ibu/tests/helpers"
)

func newTestServer(t *testing.T, completer llm.Completer, db store.Store) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	NewHandler(service.New(completer, db, "instruction"), nil).RegisterRoutes(e)
	return e
}

func postChat(e *echo.Echo, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func chatBody(t *testing.T, question string, sessionID *string) string {
	t.Helper()
	b, err := json.Marshal(domain.ChatRequest{Question: question, SessionID: sessionID})
	require.NoError(t, err)
	return string(b)
}

func newCompletionServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestChatAnswersQuestion(t *testing.T) {
	remote := newCompletionServer(t, http.StatusOK, `{"choices":[{"message":{"content":"He knows Python and TypeScript."}}]}`)
	db := helpers.NewTestSQLiteStore(t)
	e := newTestServer(t, llm.NewClient(remote.URL, "key", "model", time.Second), db)

	sessionID := "user-123-session"
	rec := postChat(e, chatBody(t, "What technologies does Mohamed know?", &sessionID))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp domain.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Ibu", resp.Assistant)
	assert.Equal(t, "He knows Python and TypeScript.", resp.Answer)
	assert.False(t, resp.Timestamp.IsZero())

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.Len(t, raw, 3)

	recent, err := db.RecentExchanges(t.Context(), 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, sessionID, *recent[0].SessionID)
}

func TestChatRateLimited(t *testing.T) {
	remote := newCompletionServer(t, http.StatusTooManyRequests, `{"error":{"message":"slow down"}}`)
	db := &helpers.CountingStore{Store: helpers.NewTestSQLiteStore(t)}
	e := newTestServer(t, llm.NewClient(remote.URL, "key", "model", time.Second), db)

	rec := postChat(e, `{"question":"hello"}`)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp domain.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "rate-limited")
	assert.Equal(t, 0, db.Saves())
}

func TestChatRemoteError(t *testing.T) {
	remote := newCompletionServer(t, http.StatusInternalServerError, `model overloaded`)
	e := newTestServer(t, llm.NewClient(remote.URL, "key", "model", time.Second), helpers.NewTestSQLiteStore(t))

	rec := postChat(e, `{"question":"hello"}`)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp domain.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "AI service error: model overloaded", resp.Error)
}

func TestChatMissingContentIsNotAnAnswer(t *testing.T) {
	for _, body := range []string{
		`{"choices":[{"message":{}}]}`,
		`{"choices":[{"message":{"content":null}}]}`,
	} {
		remote := newCompletionServer(t, http.StatusOK, body)
		db := &helpers.CountingStore{Store: helpers.NewTestSQLiteStore(t)}
		e := newTestServer(t, llm.NewClient(remote.URL, "key", "model", time.Second), db)

		rec := postChat(e, `{"question":"hello"}`)
		require.Equal(t, http.StatusServiceUnavailable, rec.Code, body)

		var resp domain.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "AI service error: unexpected response format", resp.Error)
		assert.Equal(t, 0, db.Saves())
	}
}

func TestChatStoreFailureStillAnswers(t *testing.T) {
	remote := newCompletionServer(t, http.StatusOK, `{"choices":[{"message":{"content":"X"}}]}`)
	db := &helpers.FailingStore{}
	e := newTestServer(t, llm.NewClient(remote.URL, "key", "model", time.Second), db)

	rec := postChat(e, `{"question":"hello","session_id":null}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp domain.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "X", resp.Answer)
	assert.Equal(t, "Ibu", resp.Assistant)
	assert.False(t, resp.Timestamp.IsZero())
	assert.Equal(t, 1, db.Saves())
}

func TestChatUnexpectedErrorHidesDetail(t *testing.T) {
	completer := &helpers.FakeCompleter{Err: errors.New("secret internal detail")}
	e := newTestServer(t, completer, helpers.NewTestSQLiteStore(t))

	rec := postChat(e, `{"question":"hello"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret internal detail")

	var resp domain.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, unexpectedErrorMessage, resp.Error)
}

func TestChatValidation(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		detail string
	}{
		{name: "empty question", body: `{"question":""}`, detail: "question is required"},
		{name: "missing question", body: `{"session_id":"s1"}`, detail: "question is required"},
		{name: "too long", body: fmt.Sprintf(`{"question":%q}`, strings.Repeat("a", domain.MaxQuestionLength+1)), detail: "question must be at most 500 characters"},
		{name: "malformed json", body: `{"question":`},
		{name: "wrong type", body: `{"question":42}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer := &helpers.FakeCompleter{Answer: "unused"}
			e := newTestServer(t, completer, helpers.NewTestSQLiteStore(t))

			rec := postChat(e, tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.Equal(t, 0, completer.Calls())

			var resp domain.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
			if tt.detail != "" {
				assert.Equal(t, tt.detail, resp.Detail)
			}
		})
	}
}

func TestChatBoundaryLengths(t *testing.T) {
	completer := &helpers.FakeCompleter{Answer: "ok"}
	e := newTestServer(t, completer, helpers.NewTestSQLiteStore(t))

	for _, q := range []string{"a", strings.Repeat("a", domain.MaxQuestionLength), strings.Repeat("é", domain.MaxQuestionLength)} {
		rec := postChat(e, chatBody(t, q, nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, 3, completer.Calls())
}

func TestHealth(t *testing.T) {
	completer := &helpers.FakeCompleter{}
	db := &helpers.CountingStore{Store: helpers.NewTestSQLiteStore(t)}
	e := newTestServer(t, completer, db)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
	assert.Equal(t, 0, completer.Calls())
	assert.Equal(t, 0, db.Saves())
}

func TestChatDirectHandlerCall(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	completer := &helpers.FakeCompleter{Answer: "direct"}
	h := NewHandler(service.New(completer, helpers.NewTestSQLiteStore(t), "instruction"), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString(`{"question":"hi"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Chat(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"answer":"direct"`)
}
