package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mentoralabs/mentora/internal/domain"
)

// startSessionInstructions is the fixed directive layered on top of the
// catalog's default behavior when opening a session.
const startSessionInstructions = "Be very interactive: ask questions, quiz the learner, " +
	"summarize lessons, and check understanding. If the learner strays outside the chosen " +
	"domain, give a brief fallback answer and steer back."

type loginRequest struct {
	UserID   string `json:"user_id"`
	Password string `json:"password"`
}

type startSessionRequest struct {
	UserID       string   `json:"user_id"`
	LearningGoal string   `json:"learning_goal"`
	Skills       []string `json:"skills"`
	Difficulty   string   `json:"difficulty"`
	Role         string   `json:"role"`
}

type chatRequest struct {
	UserID      string               `json:"user_id"`
	ChatTitle   string               `json:"chat_title"`
	ChatHistory []domain.ChatMessage `json:"chat_history"`
}

type topicPromptRequest struct {
	Topic  string `json:"topic"`
	UserID string `json:"user_id"`
}

// RegisterRoutes registers the mentoring API routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/login", h.Login)
	r.Post("/start_session", h.StartSession)
	r.Post("/chat", h.Chat)
	r.Get("/get_chats", h.ListChats)
	r.Get("/get_chat_messages", h.GetChatMessages)
	r.Post("/get_topic_prompts", h.TopicPrompts)
}

// Login validates user credentials.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	valid, err := h.repo.ValidateLogin(r.Context(), req.UserID, req.Password)
	if err != nil {
		slog.Error("login validation failed", "user_id", req.UserID, "error", err)
		Error(w, http.StatusInternalServerError, "login failed")
		return
	}
	if !valid {
		Error(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{"success": true, "user_id": req.UserID})
}

// StartSession saves the learner's preferences, opens a mentoring session,
// and persists the opening mentor message with the topic plan. Engine
// fallbacks are valid results here: this endpoint fails only on storage.
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := decode(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" {
		Error(w, http.StatusBadRequest, "user_id is required")
		return
	}

	ctx := r.Context()
	prefs := domain.Preferences{
		LearningGoal: req.LearningGoal,
		Skills:       req.Skills,
		Difficulty:   req.Difficulty,
		Role:         req.Role,
	}
	if err := h.repo.SaveUserPreferences(ctx, req.UserID, prefs); err != nil {
		slog.Error("failed to save preferences", "user_id", req.UserID, "error", err)
		Error(w, http.StatusInternalServerError, "could not start session")
		return
	}

	contextDescription := fmt.Sprintf("Skills/Interests: %s\nDifficulty: %s\nUser Role: %s",
		strings.Join(req.Skills, ", "), req.Difficulty, req.Role)
	if req.LearningGoal != "" {
		contextDescription = "Learning Goal: " + req.LearningGoal + "\n" + contextDescription
	}

	intro := h.engine.StartSession(ctx, contextDescription, startSessionInstructions, req.Role)

	currentTopic := ""
	if len(intro.Topics) > 0 {
		currentTopic = intro.Topics[0]
	}

	title := newSessionTitle(req.LearningGoal, req.Skills)
	content := strings.TrimSpace(strings.ReplaceAll(
		intro.Message+"\n\nFeel free to ask questions anytime. Are you ready to begin?", "\U0001F50A", ""))

	now := float64(time.Now().UnixMilli()) / 1000
	opening := domain.ChatMessage{Role: domain.RoleAssistant, Content: content, Timestamp: &now}
	state := domain.SessionState{
		MentorTopics:    intro.Topics,
		CurrentTopic:    currentTopic,
		CompletedTopics: []string{},
	}
	if err := h.repo.SaveChat(ctx, req.UserID, title, []domain.ChatMessage{opening}, state); err != nil {
		slog.Error("failed to save new chat session", "user_id", req.UserID, "title", title, "error", err)
		Error(w, http.StatusInternalServerError, "could not start session")
		return
	}

	slog.Info("session started", "user_id", req.UserID, "title", title, "topics", len(intro.Topics))
	JSON(w, http.StatusOK, map[string]interface{}{
		"intro_and_topics": content,
		"title":            title,
		"topics":           intro.Topics,
		"current_topic":    currentTopic,
		"suggestions":      intro.Suggestions,
	})
}

// Chat runs one conversation turn and persists the updated history.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decode(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" || req.ChatTitle == "" {
		Error(w, http.StatusBadRequest, "user_id and chat_title are required")
		return
	}

	ctx := r.Context()
	_, state, err := h.repo.GetChatWithState(ctx, req.UserID, req.ChatTitle)
	if err != nil {
		slog.Error("failed to load chat state", "user_id", req.UserID, "title", req.ChatTitle, "error", err)
		Error(w, http.StatusInternalServerError, "chat failed")
		return
	}

	prefs, err := h.repo.GetUserPreferences(ctx, req.UserID)
	if err != nil {
		slog.Error("failed to load preferences", "user_id", req.UserID, "error", err)
		Error(w, http.StatusInternalServerError, "chat failed")
		return
	}
	if prefs == nil {
		prefs = &domain.Preferences{Difficulty: "medium", Role: "student"}
	}

	sc := domain.SessionContext{
		LearningGoal:    prefs.LearningGoal,
		Skills:          prefs.Skills,
		Difficulty:      prefs.Difficulty,
		Role:            prefs.Role,
		MentorTopics:    state.MentorTopics,
		CurrentTopic:    state.CurrentTopic,
		CompletedTopics: state.CompletedTopics,
	}

	result := h.engine.Chat(ctx, req.ChatTitle, req.ChatHistory, sc)

	now := float64(time.Now().UnixMilli()) / 1000
	reply := domain.ChatMessage{Role: domain.RoleAssistant, Content: result.Reply, Timestamp: &now}
	updated := append(req.ChatHistory, reply)
	if err := h.repo.SaveChat(ctx, req.UserID, req.ChatTitle, updated, state); err != nil {
		slog.Error("failed to save chat history", "user_id", req.UserID, "title", req.ChatTitle, "error", err)
		Error(w, http.StatusInternalServerError, "chat failed")
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"reply":       result.Reply,
		"suggestions": result.Suggestions,
	})
}

// ListChats returns all stored chat sessions for a user.
func (h *Handler) ListChats(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		Error(w, http.StatusBadRequest, "user_id is required")
		return
	}

	chats, err := h.repo.ListChats(r.Context(), userID)
	if err != nil {
		slog.Error("failed to list chats", "user_id", userID, "error", err)
		Error(w, http.StatusInternalServerError, "failed to get chats")
		return
	}
	if chats == nil {
		chats = []domain.ChatSummary{}
	}

	JSON(w, http.StatusOK, map[string]interface{}{"chats": chats})
}

// GetChatMessages returns a chat's messages and topic state.
func (h *Handler) GetChatMessages(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	title := r.URL.Query().Get("title")
	if userID == "" || title == "" {
		Error(w, http.StatusBadRequest, "user_id and title are required")
		return
	}

	messages, state, err := h.repo.GetChatWithState(r.Context(), userID, title)
	if err != nil {
		slog.Error("failed to get chat messages", "user_id", userID, "title", title, "error", err)
		Error(w, http.StatusInternalServerError, "failed to get chat messages")
		return
	}
	if messages == nil {
		messages = []domain.ChatMessage{}
	}

	JSON(w, http.StatusOK, map[string]interface{}{"messages": messages, "state": state})
}

// TopicPrompts generates suggested learner prompts for a topic, folding the
// user's stored preferences into the context when available.
func (h *Handler) TopicPrompts(w http.ResponseWriter, r *http.Request) {
	var req topicPromptRequest
	if err := decode(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Topic == "" {
		Error(w, http.StatusBadRequest, "topic is required")
		return
	}

	ctx := r.Context()
	contextDescription := ""
	role := ""
	if req.UserID != "" {
		prefs, err := h.repo.GetUserPreferences(ctx, req.UserID)
		if err != nil {
			slog.Warn("failed to load preferences for topic prompts", "user_id", req.UserID, "error", err)
		} else if prefs != nil {
			contextDescription = fmt.Sprintf("Learning Goal: %s\nSkills: %s\nDifficulty: %s\nRole: %s",
				prefs.LearningGoal, strings.Join(prefs.Skills, ", "), prefs.Difficulty, prefs.Role)
			role = prefs.Role
		}
	}

	prompts := h.engine.SuggestTopicPrompts(ctx, req.Topic, contextDescription, role)
	JSON(w, http.StatusOK, map[string]interface{}{"prompts": prompts})
}

// newSessionTitle derives a unique chat title from the learning goal or the
// first skill: alphanumerics kept, spaces underscored, then a timestamp and
// a short random suffix for uniqueness.
func newSessionTitle(learningGoal string, skills []string) string {
	base := learningGoal
	if base == "" && len(skills) > 0 {
		base = skills[0]
	}
	if base == "" {
		base = "New Session"
	}

	var b strings.Builder
	for _, r := range base {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' {
			b.WriteRune(r)
		}
	}
	sanitized := strings.ReplaceAll(strings.TrimSpace(b.String()), " ", "_")
	if sanitized == "" {
		sanitized = "Session"
	}

	return fmt.Sprintf("%s_%s_%s", sanitized,
		time.Now().Format("20060102150405"), uuid.NewString()[:4])
}
