package mentor

import (
	"strings"

	"github.com/samber/lo"

	"github.com/mentoralabs/mentora/internal/domain"
	"github.com/mentoralabs/mentora/internal/llm"
	"github.com/mentoralabs/mentora/internal/prompts"
)

// recentWindow is how many trailing history turns are forwarded verbatim on
// each chat turn; anything older is represented only by the rolling summary.
const recentWindow = 6

// contextAssembler builds the exact message sequence sent to the gateway for
// each engine operation. Deterministic: same inputs, same messages, so
// prompts stay diffable in tests.
type contextAssembler struct {
	catalog *prompts.Catalog
}

func (a *contextAssembler) introMessages(contextDescription, extraInstructions, role string) ([]llm.Message, error) {
	content, err := prompts.Render(a.catalog.IntroTemplate(), map[string]string{
		"extra_instructions":  extraInstructions,
		"default_behavior":    a.catalog.DefaultInstructions(),
		"role_prompt":         a.catalog.Role(role),
		"context_description": contextDescription,
	})
	if err != nil {
		return nil, err
	}
	return []llm.Message{{Role: domain.RoleUser, Content: content}}, nil
}

func (a *contextAssembler) topicPromptMessages(topic, contextDescription, role string) ([]llm.Message, error) {
	content, err := prompts.Render(a.catalog.TopicPromptsTemplate(), map[string]string{
		"topic":               topic,
		"role_prompt":         a.catalog.Role(role),
		"context_description": contextDescription,
	})
	if err != nil {
		return nil, err
	}
	return []llm.Message{{Role: domain.RoleUser, Content: content}}, nil
}

// chatMessages builds the system context, an optional summary system message,
// and the last recentWindow turns of history. Only role and content are
// forwarded; timestamps and audio URLs stay with the caller.
func (a *contextAssembler) chatMessages(sc domain.SessionContext, summary string, history []domain.ChatMessage) ([]llm.Message, error) {
	systemPrompt, err := a.systemContext(sc)
	if err != nil {
		return nil, err
	}

	messages := []llm.Message{{Role: domain.RoleSystem, Content: systemPrompt}}
	if summary != "" {
		wrapped, err := prompts.Render(a.catalog.ChatSummaryWrapper(), map[string]string{"summary": summary})
		if err != nil {
			return nil, err
		}
		messages = append(messages, llm.Message{Role: domain.RoleSystem, Content: wrapped})
	}

	recent := lo.Map(domain.Recent(history, recentWindow), func(msg domain.ChatMessage, _ int) llm.Message {
		return llm.Message{Role: msg.Role, Content: msg.Content}
	})
	return append(messages, recent...), nil
}

// systemContext assembles the session context block in fixed line order:
// Role, Learning Goal, Skills, Difficulty, Topics, Current Topic, Completed
// Topics. Optional lines are omitted when their value is empty.
func (a *contextAssembler) systemContext(sc domain.SessionContext) (string, error) {
	lines := []string{"Role: " + sc.Role}
	if sc.LearningGoal != "" {
		lines = append(lines, "Learning Goal: "+sc.LearningGoal)
	}
	if len(sc.Skills) > 0 {
		lines = append(lines, "Skills: "+strings.Join(sc.Skills, ", "))
	}
	lines = append(lines, "Difficulty: "+sc.Difficulty)
	if len(sc.MentorTopics) > 0 {
		lines = append(lines, "Topics: "+strings.Join(sc.MentorTopics, ", "))
	}
	if sc.CurrentTopic != "" {
		lines = append(lines, "Current Topic: "+sc.CurrentTopic)
	}
	if len(sc.CompletedTopics) > 0 {
		lines = append(lines, "Completed Topics: "+strings.Join(sc.CompletedTopics, ", "))
	}

	return prompts.Render(a.catalog.ChatSystemTemplate(), map[string]string{
		"context_summary":         strings.Join(lines, "\n"),
		"role_instruction":        a.catalog.Role(sc.Role),
		"default_instruction":     a.catalog.DefaultInstructions(),
		"json_output_instruction": a.catalog.JSONOutputFormat(),
	})
}
