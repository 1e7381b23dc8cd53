package mentor

import (
	"context"
	"errors"
	"testing"

	"github.com/mentoralabs/mentora/internal/domain"
	"github.com/mentoralabs/mentora/internal/llm"
)

func TestContextSummaryBelowThreshold(t *testing.T) {
	gw := &fakeGateway{}
	m := NewSummaryManager(gw, loadCatalog(t))
	m.summaries["lesson"] = "previous summary"

	got := m.ContextSummary(context.Background(), "lesson", history(summaryThreshold-1))

	if got != "previous summary" {
		t.Errorf("Expected cached summary, got %q", got)
	}
	if len(gw.calls) != 0 {
		t.Errorf("Expected no gateway calls below threshold, got %d", len(gw.calls))
	}
}

func TestContextSummaryEmptyWhenNothingCached(t *testing.T) {
	gw := &fakeGateway{}
	m := NewSummaryManager(gw, loadCatalog(t))

	if got := m.ContextSummary(context.Background(), "lesson", history(3)); got != "" {
		t.Errorf("Expected empty summary, got %q", got)
	}
	if len(gw.calls) != 0 {
		t.Errorf("Expected no gateway calls, got %d", len(gw.calls))
	}
}

func TestContextSummaryRegenerates(t *testing.T) {
	gw := &fakeGateway{script: []scriptedReply{{text: "fresh summary"}}}
	catalog := loadCatalog(t)
	m := NewSummaryManager(gw, catalog)
	m.summaries["lesson"] = "stale summary"

	full := history(12)
	got := m.ContextSummary(context.Background(), "lesson", full)

	if got != "fresh summary" {
		t.Errorf("Expected fresh summary, got %q", got)
	}
	if m.summaries["lesson"] != "fresh summary" {
		t.Errorf("Expected cache overwrite, got %q", m.summaries["lesson"])
	}
	if len(gw.calls) != 1 {
		t.Fatalf("Expected exactly one gateway call, got %d", len(gw.calls))
	}

	call := gw.calls[0]
	// One system instruction plus everything but the last 5 turns.
	wantLen := 1 + len(full) - summaryKeepRecent
	if len(call.messages) != wantLen {
		t.Errorf("Expected %d messages, got %d", wantLen, len(call.messages))
	}
	if call.messages[0].Role != domain.RoleSystem || call.messages[0].Content != catalog.SummarizeTemplate() {
		t.Error("Expected first message to carry the summarize instruction")
	}
	if call.messages[1].Content != full[0].Content {
		t.Error("Expected summarized history to start at the oldest turn")
	}
	if call.params.Temperature != 0.3 || call.params.MaxTokens != 250 || call.params.JSONMode {
		t.Errorf("Unexpected summary params: %+v", call.params)
	}
}

func TestContextSummaryKeepsCacheOnFailure(t *testing.T) {
	gw := &fakeGateway{script: []scriptedReply{{err: &llm.GenerationError{Err: errors.New("rate limited")}}}}
	m := NewSummaryManager(gw, loadCatalog(t))
	m.summaries["lesson"] = "previous summary"

	got := m.ContextSummary(context.Background(), "lesson", history(15))

	if got != "previous summary" {
		t.Errorf("Expected previous summary on failure, got %q", got)
	}
	if m.summaries["lesson"] != "previous summary" {
		t.Error("Expected cache to stay unchanged on failure")
	}
}
