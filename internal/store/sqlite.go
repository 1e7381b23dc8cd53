package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/mentoralabs/mentora/internal/domain"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS users (
		user_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		password TEXT NOT NULL,
		email TEXT NOT NULL,
		firm TEXT,
		unit TEXT,
		location TEXT,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS chats (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		messages_json TEXT NOT NULL,
		mentor_topics TEXT,
		current_topic TEXT,
		completed_topics TEXT,
		created_at INTEGER NOT NULL,
		UNIQUE(user_id, title)
	);
	CREATE INDEX IF NOT EXISTS idx_chats_user ON chats(user_id);

	CREATE TABLE IF NOT EXISTS user_preferences (
		user_id TEXT PRIMARY KEY,
		learning_goal TEXT,
		skills TEXT,
		difficulty TEXT,
		role TEXT,
		updated_at INTEGER NOT NULL
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

// CreateUser inserts a user account, ignoring duplicates.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *domain.User) error {
	query := `
		INSERT OR IGNORE INTO users (user_id, name, password, email, firm, unit, location, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	createdAt := user.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, query,
		user.UserID, user.Name, user.Password, user.Email,
		user.Firm, user.Unit, user.Location, createdAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by their user ID.
func (s *SQLiteStore) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	query := `
		SELECT user_id, name, password, email, firm, unit, location, created_at
		FROM users WHERE user_id = ?`

	row := s.db.QueryRowContext(ctx, query, userID)

	var user domain.User
	var firm, unit, location sql.NullString
	var createdAt int64

	err := row.Scan(
		&user.UserID, &user.Name, &user.Password, &user.Email,
		&firm, &unit, &location, &createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan user row: %w", err)
	}

	user.Firm = firm.String
	user.Unit = unit.String
	user.Location = location.String
	user.CreatedAt = time.Unix(createdAt, 0)

	return &user, nil
}

// ValidateLogin reports whether the credentials match a stored account.
func (s *SQLiteStore) ValidateLogin(ctx context.Context, userID, password string) (bool, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, nil
	}
	return user.Password == password, nil
}

// SaveChat creates or replaces a chat session with its full message history
// and topic state.
func (s *SQLiteStore) SaveChat(ctx context.Context, userID, title string, messages []domain.ChatMessage, state domain.SessionState) error {
	messagesJSON, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("marshal chat messages: %w", err)
	}
	topicsJSON, err := json.Marshal(state.MentorTopics)
	if err != nil {
		return fmt.Errorf("marshal mentor topics: %w", err)
	}
	completedJSON, err := json.Marshal(state.CompletedTopics)
	if err != nil {
		return fmt.Errorf("marshal completed topics: %w", err)
	}

	query := `
		INSERT INTO chats (user_id, title, messages_json, mentor_topics, current_topic, completed_topics, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, title) DO UPDATE SET
			messages_json = excluded.messages_json,
			mentor_topics = excluded.mentor_topics,
			current_topic = excluded.current_topic,
			completed_topics = excluded.completed_topics`

	var currentTopic interface{}
	if state.CurrentTopic != "" {
		currentTopic = state.CurrentTopic
	}

	_, err = s.db.ExecContext(ctx, query,
		userID, title, string(messagesJSON), string(topicsJSON),
		currentTopic, string(completedJSON), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert chat: %w", err)
	}
	return nil
}

// ListChats returns summaries of all chat sessions owned by a user.
func (s *SQLiteStore) ListChats(ctx context.Context, userID string) ([]domain.ChatSummary, error) {
	query := `SELECT id, title, created_at FROM chats WHERE user_id = ? ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query chats: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close chat rows", "error", closeErr)
		}
	}()

	var chats []domain.ChatSummary
	for rows.Next() {
		var chat domain.ChatSummary
		var createdAt int64
		if err := rows.Scan(&chat.ID, &chat.Title, &createdAt); err != nil {
			return nil, fmt.Errorf("scan chat row: %w", err)
		}
		chat.CreatedAt = time.Unix(createdAt, 0)
		chats = append(chats, chat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chats: %w", err)
	}

	return chats, nil
}

// GetChatWithState retrieves a chat's messages and topic state. A missing
// chat yields nil messages and a zero state, not an error.
func (s *SQLiteStore) GetChatWithState(ctx context.Context, userID, title string) ([]domain.ChatMessage, domain.SessionState, error) {
	query := `
		SELECT messages_json, mentor_topics, current_topic, completed_topics
		FROM chats WHERE user_id = ? AND title = ?`

	row := s.db.QueryRowContext(ctx, query, userID, title)

	var messagesJSON string
	var topicsJSON, currentTopic, completedJSON sql.NullString

	err := row.Scan(&messagesJSON, &topicsJSON, &currentTopic, &completedJSON)
	if err == sql.ErrNoRows {
		return nil, domain.SessionState{}, nil
	}
	if err != nil {
		return nil, domain.SessionState{}, fmt.Errorf("scan chat row: %w", err)
	}

	var messages []domain.ChatMessage
	if messagesJSON != "" {
		if err := json.Unmarshal([]byte(messagesJSON), &messages); err != nil {
			return nil, domain.SessionState{}, fmt.Errorf("unmarshal chat messages: %w", err)
		}
	}

	state := domain.SessionState{CurrentTopic: currentTopic.String}
	if topicsJSON.Valid && topicsJSON.String != "" {
		if err := json.Unmarshal([]byte(topicsJSON.String), &state.MentorTopics); err != nil {
			return nil, domain.SessionState{}, fmt.Errorf("unmarshal mentor topics: %w", err)
		}
	}
	if completedJSON.Valid && completedJSON.String != "" {
		if err := json.Unmarshal([]byte(completedJSON.String), &state.CompletedTopics); err != nil {
			return nil, domain.SessionState{}, fmt.Errorf("unmarshal completed topics: %w", err)
		}
	}

	return messages, state, nil
}

// SaveUserPreferences creates or replaces a user's tutoring preferences.
func (s *SQLiteStore) SaveUserPreferences(ctx context.Context, userID string, prefs domain.Preferences) error {
	skillsJSON, err := json.Marshal(prefs.Skills)
	if err != nil {
		return fmt.Errorf("marshal skills: %w", err)
	}

	query := `
		INSERT INTO user_preferences (user_id, learning_goal, skills, difficulty, role, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			learning_goal = excluded.learning_goal,
			skills = excluded.skills,
			difficulty = excluded.difficulty,
			role = excluded.role,
			updated_at = excluded.updated_at`

	_, err = s.db.ExecContext(ctx, query,
		userID, prefs.LearningGoal, string(skillsJSON),
		prefs.Difficulty, prefs.Role, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert user preferences: %w", err)
	}
	return nil
}

// GetUserPreferences retrieves a user's tutoring preferences.
func (s *SQLiteStore) GetUserPreferences(ctx context.Context, userID string) (*domain.Preferences, error) {
	query := `SELECT learning_goal, skills, difficulty, role FROM user_preferences WHERE user_id = ?`

	row := s.db.QueryRowContext(ctx, query, userID)

	var prefs domain.Preferences
	var learningGoal, skillsJSON sql.NullString

	err := row.Scan(&learningGoal, &skillsJSON, &prefs.Difficulty, &prefs.Role)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan preferences row: %w", err)
	}

	prefs.LearningGoal = learningGoal.String
	if skillsJSON.Valid && skillsJSON.String != "" {
		if err := json.Unmarshal([]byte(skillsJSON.String), &prefs.Skills); err != nil {
			return nil, fmt.Errorf("unmarshal skills: %w", err)
		}
	}

	return &prefs, nil
}
