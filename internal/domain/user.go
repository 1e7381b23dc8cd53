package domain

import "time"

// User is a registered learner account.
type User struct {
	UserID    string
	Name      string
	Password  string
	Email     string
	Firm      string
	Unit      string
	Location  string
	CreatedAt time.Time
}

// Preferences holds a learner's standing tutoring preferences, keyed by user.
type Preferences struct {
	LearningGoal string   `json:"learning_goal"`
	Skills       []string `json:"skills"`
	Difficulty   string   `json:"difficulty"`
	Role         string   `json:"role"`
}
