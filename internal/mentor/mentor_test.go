package mentor

import (
	"context"
	"errors"
	"testing"

	"github.com/mentoralabs/mentora/internal/domain"
	"github.com/mentoralabs/mentora/internal/llm"
	"github.com/mentoralabs/mentora/internal/prompts"
)

// fakeGateway scripts one response (or error) per call, in order, and
// records every call it receives.
type fakeGateway struct {
	script []scriptedReply
	calls  []recordedCall
}

type scriptedReply struct {
	text string
	err  error
}

type recordedCall struct {
	messages []llm.Message
	params   llm.Params
}

func (g *fakeGateway) Complete(_ context.Context, messages []llm.Message, params llm.Params) (string, error) {
	g.calls = append(g.calls, recordedCall{messages: messages, params: params})
	i := len(g.calls) - 1
	if i >= len(g.script) {
		return "", &llm.GenerationError{Err: errors.New("no scripted reply")}
	}
	if g.script[i].err != nil {
		return "", g.script[i].err
	}
	return g.script[i].text, nil
}

func loadCatalog(t *testing.T) *prompts.Catalog {
	t.Helper()
	catalog, err := prompts.Load()
	if err != nil {
		t.Fatalf("Failed to load prompt catalog: %v", err)
	}
	return catalog
}

func userTurn(content string) domain.ChatMessage {
	return domain.ChatMessage{Role: domain.RoleUser, Content: content}
}

func assistantTurn(content string) domain.ChatMessage {
	return domain.ChatMessage{Role: domain.RoleAssistant, Content: content}
}

// history produces an alternating user/assistant conversation of n turns.
func history(n int) []domain.ChatMessage {
	msgs := make([]domain.ChatMessage, 0, n)
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			msgs = append(msgs, userTurn("question"))
		} else {
			msgs = append(msgs, assistantTurn("answer"))
		}
	}
	return msgs
}
