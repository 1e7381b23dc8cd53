package mentor

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mentoralabs/mentora/internal/domain"
	"github.com/mentoralabs/mentora/internal/llm"
	"github.com/mentoralabs/mentora/internal/prompts"
)

const (
	// summaryThreshold is the history length at which a rolling summary is
	// (re)generated.
	summaryThreshold = 10
	// summaryKeepRecent is how many of the most recent turns are excluded
	// from the summary; they are sent to the model verbatim instead.
	summaryKeepRecent = 5
)

var summaryParams = llm.Params{Temperature: 0.3, MaxTokens: 250}

// SummaryManager keeps one rolling summary string per session key to bound
// the chat context sent to the model. The cache lives for the process only
// and never evicts: losing it on restart costs one summary round, nothing
// more, so it is a cache rather than a source of truth.
type SummaryManager struct {
	gateway llm.Gateway
	catalog *prompts.Catalog

	mu        sync.Mutex
	summaries map[string]string
}

// NewSummaryManager creates an empty summary cache.
func NewSummaryManager(gateway llm.Gateway, catalog *prompts.Catalog) *SummaryManager {
	return &SummaryManager{
		gateway:   gateway,
		catalog:   catalog,
		summaries: make(map[string]string),
	}
}

// ContextSummary returns the rolling summary for sessionKey. Below the
// threshold it returns whatever is cached (empty if nothing is). At or above
// it, everything but the last summaryKeepRecent turns is summarized and the
// cache overwritten. A failed regeneration is logged and the previous value
// returned unchanged: a summary must never abort a chat turn.
//
// The lock guards only map access. Two turns on the same key racing through
// regeneration may overwrite each other's summary with a slightly stale one;
// that self-corrects on the next regeneration and is accepted.
func (m *SummaryManager) ContextSummary(ctx context.Context, sessionKey string, history []domain.ChatMessage) string {
	if len(history) < summaryThreshold {
		return m.cached(sessionKey)
	}

	older := history[:len(history)-summaryKeepRecent]
	messages := make([]llm.Message, 0, len(older)+1)
	messages = append(messages, llm.Message{Role: domain.RoleSystem, Content: m.catalog.SummarizeTemplate()})
	for _, msg := range older {
		messages = append(messages, llm.Message{Role: msg.Role, Content: msg.Content})
	}

	summary, err := m.gateway.Complete(ctx, messages, summaryParams)
	if err != nil {
		slog.Warn("conversation summary generation failed", "session_key", sessionKey, "error", err)
		return m.cached(sessionKey)
	}

	m.mu.Lock()
	m.summaries[sessionKey] = summary
	m.mu.Unlock()

	slog.Info("generated conversation summary", "session_key", sessionKey, "summarized_turns", len(older))
	return summary
}

func (m *SummaryManager) cached(sessionKey string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.summaries[sessionKey]
}
