// Package mentor implements the tutoring session engine: it composes the
// prompt catalog, context assembly, the rolling summary, and the model
// gateway into the three public operations (start session, chat, suggest
// topic prompts). No error from a model call ever escapes these operations;
// every path resolves to a well-formed result, with anomalies logged.
package mentor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mentoralabs/mentora/internal/domain"
	"github.com/mentoralabs/mentora/internal/llm"
	"github.com/mentoralabs/mentora/internal/prompts"
)

var (
	introParams = llm.Params{Temperature: 0.5, MaxTokens: 800, JSONMode: true}
	chatParams  = llm.Params{Temperature: 0.7, MaxTokens: 1500, JSONMode: true}
	topicParams = llm.Params{Temperature: 0.5, MaxTokens: 500, JSONMode: true}
)

const (
	emptyHistoryReply   = "Please start the conversation with a message."
	malformedChatReply  = "I seem to be having trouble formatting my thoughts. Please try rephrasing your question."
	generationChatReply = "I'm sorry, I couldn't understand your question. Could you please rephrase it?"

	fallbackIntroMessage = "Hello! I'm your mentor, ready to guide you.\n\nHere are some topics:\n- Introduction\n- Core Concepts\n- Advanced Topics\n\nShall we start?"
)

// Intro is the result of starting a session.
type Intro struct {
	Message     string
	Topics      []string
	Suggestions []string
}

// ChatResult is the result of one chat turn.
type ChatResult struct {
	Reply       string
	Suggestions []string
}

// Engine orchestrates mentoring sessions. It is stateless across calls
// except for the rolling summary cache; session state travels with the
// caller. Construct one per process and share it freely.
type Engine struct {
	gateway   llm.Gateway
	assembler contextAssembler
	summaries *SummaryManager
}

// NewEngine creates an engine over the given gateway and prompt catalog.
func NewEngine(gateway llm.Gateway, catalog *prompts.Catalog) *Engine {
	return &Engine{
		gateway:   gateway,
		assembler: contextAssembler{catalog: catalog},
		summaries: NewSummaryManager(gateway, catalog),
	}
}

// StartSession generates the opening mentor message, the topic plan, and
// starter suggestions. It always succeeds from the caller's point of view:
// any failure resolves to the built-in fallback intro.
func (e *Engine) StartSession(ctx context.Context, contextDescription, extraInstructions, role string) Intro {
	intro, err := e.generateIntro(ctx, contextDescription, extraInstructions, role)
	if err != nil {
		slog.Error("intro generation failed, using fallback", "role", role, "error", err)
		return fallbackIntro()
	}
	return intro
}

func (e *Engine) generateIntro(ctx context.Context, contextDescription, extraInstructions, role string) (Intro, error) {
	messages, err := e.assembler.introMessages(contextDescription, extraInstructions, role)
	if err != nil {
		return Intro{}, fmt.Errorf("build intro context: %w", err)
	}

	raw, err := e.gateway.Complete(ctx, messages, introParams)
	if err != nil {
		return Intro{}, err
	}

	payload, err := parseIntro(raw)
	if err != nil {
		return Intro{}, err
	}

	message := fmt.Sprintf("%s\n\nHere are the topics we'll explore:\n- %s\n\n%s",
		payload.Greeting, strings.Join(payload.Topics, "\n- "), payload.ConcludingQuestion)
	return Intro{Message: message, Topics: payload.Topics, Suggestions: payload.Suggestions}, nil
}

func fallbackIntro() Intro {
	return Intro{
		Message: fallbackIntroMessage,
		Topics:  []string{"Introduction", "Core Concepts", "Advanced Topics"},
		Suggestions: []string{
			"What should I focus on first?",
			"Can you explain the first topic?",
			"How does this relate to my goal?",
			"Can you quiz me on a topic?",
		},
	}
}

// Chat runs one conversation turn. Empty history is benign caller input and
// yields a guidance reply without touching the model. Backend and parsing
// failures resolve to distinct rephrase messages with empty suggestions.
func (e *Engine) Chat(ctx context.Context, sessionKey string, history []domain.ChatMessage, sc domain.SessionContext) ChatResult {
	if len(history) == 0 {
		return ChatResult{Reply: emptyHistoryReply, Suggestions: []string{}}
	}

	result, err := e.converse(ctx, sessionKey, history, sc)
	switch {
	case err == nil:
		return result
	case IsMalformedOutput(err):
		slog.Error("model produced unparseable chat output", "session_key", sessionKey, "error", err)
		return ChatResult{Reply: malformedChatReply, Suggestions: []string{}}
	default:
		slog.Error("chat turn failed", "session_key", sessionKey, "error", err)
		return ChatResult{Reply: generationChatReply, Suggestions: []string{}}
	}
}

func (e *Engine) converse(ctx context.Context, sessionKey string, history []domain.ChatMessage, sc domain.SessionContext) (ChatResult, error) {
	summary := e.summaries.ContextSummary(ctx, sessionKey, history)

	messages, err := e.assembler.chatMessages(sc, summary, history)
	if err != nil {
		return ChatResult{}, fmt.Errorf("build chat context: %w", err)
	}

	raw, err := e.gateway.Complete(ctx, messages, chatParams)
	if err != nil {
		return ChatResult{}, err
	}

	payload, err := parseChatTurn(raw)
	if err != nil {
		return ChatResult{}, err
	}
	return ChatResult{Reply: payload.Reply, Suggestions: payload.Suggestions}, nil
}

// SuggestTopicPrompts generates starter questions for a topic. On any
// failure it returns four templated fallback questions instead.
func (e *Engine) SuggestTopicPrompts(ctx context.Context, topic, contextDescription, role string) []string {
	prompts, err := e.generateTopicPrompts(ctx, topic, contextDescription, role)
	if err != nil {
		slog.Error("topic prompt generation failed, using fallback", "topic", topic, "error", err)
		return fallbackTopicPrompts(topic)
	}
	return prompts
}

func (e *Engine) generateTopicPrompts(ctx context.Context, topic, contextDescription, role string) ([]string, error) {
	messages, err := e.assembler.topicPromptMessages(topic, contextDescription, role)
	if err != nil {
		return nil, fmt.Errorf("build topic prompt context: %w", err)
	}

	raw, err := e.gateway.Complete(ctx, messages, topicParams)
	if err != nil {
		return nil, err
	}
	return parseTopicPrompts(raw)
}

func fallbackTopicPrompts(topic string) []string {
	return []string{
		fmt.Sprintf("What are the basics of %s?", topic),
		fmt.Sprintf("Give me an example of %s", topic),
		fmt.Sprintf("How to apply %s?", topic),
		fmt.Sprintf("Common mistakes in %s?", topic),
	}
}
