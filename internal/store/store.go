// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"github.com/mentoralabs/mentora/internal/domain"
)

// Repository defines the interface for persisting users, chat sessions, and
// tutoring preferences. Reads return nil (not an error) when nothing is
// found; callers decide whether absence matters.
type Repository interface {
	// CreateUser inserts a user account. Existing accounts are left untouched.
	CreateUser(ctx context.Context, user *domain.User) error

	// GetUser retrieves a user by ID.
	GetUser(ctx context.Context, userID string) (*domain.User, error)

	// ValidateLogin reports whether the user ID and password match a stored account.
	ValidateLogin(ctx context.Context, userID, password string) (bool, error)

	// SaveChat creates or replaces a chat session with its full message
	// history and topic state.
	SaveChat(ctx context.Context, userID, title string, messages []domain.ChatMessage, state domain.SessionState) error

	// ListChats returns summaries of all chat sessions owned by a user.
	ListChats(ctx context.Context, userID string) ([]domain.ChatSummary, error)

	// GetChatWithState retrieves a chat's messages and topic state.
	// Returns (nil, zero state, nil) when the chat does not exist.
	GetChatWithState(ctx context.Context, userID, title string) ([]domain.ChatMessage, domain.SessionState, error)

	// SaveUserPreferences creates or replaces a user's tutoring preferences.
	SaveUserPreferences(ctx context.Context, userID string, prefs domain.Preferences) error

	// GetUserPreferences retrieves a user's tutoring preferences, or nil if
	// none were saved yet.
	GetUserPreferences(ctx context.Context, userID string) (*domain.Preferences, error)

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
