// Package api provides HTTP handlers for the Mentora API.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mentoralabs/mentora/internal/domain"
	"github.com/mentoralabs/mentora/internal/mentor"
	"github.com/mentoralabs/mentora/internal/store"
)

// maxRequestBodySize is the maximum allowed request body size (1MB).
const maxRequestBodySize = 1 << 20

// SessionEngine is the surface of the mentor engine the API depends on.
// Satisfied by *mentor.Engine; substitutable with a stub in tests.
type SessionEngine interface {
	StartSession(ctx context.Context, contextDescription, extraInstructions, role string) mentor.Intro
	Chat(ctx context.Context, sessionKey string, history []domain.ChatMessage, sc domain.SessionContext) mentor.ChatResult
	SuggestTopicPrompts(ctx context.Context, topic, contextDescription, role string) []string
}

// Handler serves the mentoring API.
type Handler struct {
	repo   store.Repository
	engine SessionEngine
}

// NewHandler creates a new Handler with common dependencies.
func NewHandler(repo store.Repository, engine SessionEngine) *Handler {
	return &Handler{repo: repo, engine: engine}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// decode reads a size-limited JSON request body into v.
func decode(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	return json.NewDecoder(r.Body).Decode(v)
}
