package domain

import "time"

// SessionContext carries everything the engine needs to ground a chat turn.
// It is assembled by the caller from stored preferences and session state;
// the engine never reads storage itself.
type SessionContext struct {
	LearningGoal    string
	Skills          []string
	Difficulty      string
	Role            string
	MentorTopics    []string
	CurrentTopic    string
	CompletedTopics []string
}

// SessionState is the per-chat topic progress persisted alongside messages.
type SessionState struct {
	MentorTopics    []string `json:"mentor_topics"`
	CurrentTopic    string   `json:"current_topic"`
	CompletedTopics []string `json:"completed_topics"`
}

// ChatSummary identifies a stored chat session in listings.
type ChatSummary struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}
