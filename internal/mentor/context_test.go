package mentor

import (
	"strings"
	"testing"

	"github.com/mentoralabs/mentora/internal/domain"
)

func TestSystemContextLineOrder(t *testing.T) {
	a := contextAssembler{catalog: loadCatalog(t)}
	sc := domain.SessionContext{
		LearningGoal:    "Pass the exam",
		Skills:          []string{"Python", "SQL"},
		Difficulty:      "medium",
		Role:            "student",
		MentorTopics:    []string{"Vars", "Loops"},
		CurrentTopic:    "Vars",
		CompletedTopics: []string{"Intro"},
	}

	got, err := a.systemContext(sc)
	if err != nil {
		t.Fatalf("systemContext failed: %v", err)
	}

	lines := []string{
		"Role: student",
		"Learning Goal: Pass the exam",
		"Skills: Python, SQL",
		"Difficulty: medium",
		"Topics: Vars, Loops",
		"Current Topic: Vars",
		"Completed Topics: Intro",
	}
	prev := -1
	for _, line := range lines {
		idx := strings.Index(got, line)
		if idx < 0 {
			t.Fatalf("Expected line %q in system context", line)
		}
		if idx <= prev {
			t.Errorf("Line %q out of order", line)
		}
		prev = idx
	}
}

func TestSystemContextOmitsEmptyFields(t *testing.T) {
	a := contextAssembler{catalog: loadCatalog(t)}
	sc := domain.SessionContext{Difficulty: "easy", Role: "professional"}

	got, err := a.systemContext(sc)
	if err != nil {
		t.Fatalf("systemContext failed: %v", err)
	}

	for _, required := range []string{"Role: professional", "Difficulty: easy"} {
		if !strings.Contains(got, required) {
			t.Errorf("Expected %q in system context", required)
		}
	}
	for _, absent := range []string{"Learning Goal:", "Skills:", "Topics:", "Current Topic:", "Completed Topics:"} {
		if strings.Contains(got, absent) {
			t.Errorf("Expected %q to be omitted for empty field", absent)
		}
	}
}

func TestSystemContextUnknownRoleUsesDefaultPersona(t *testing.T) {
	catalog := loadCatalog(t)
	a := contextAssembler{catalog: catalog}

	got, err := a.systemContext(domain.SessionContext{Difficulty: "hard", Role: "astronaut"})
	if err != nil {
		t.Fatalf("systemContext failed: %v", err)
	}
	if !strings.Contains(got, strings.TrimSpace(catalog.Role("default"))) {
		t.Error("Expected default persona for unknown role")
	}
}

func TestChatMessagesWindowAndSummary(t *testing.T) {
	a := contextAssembler{catalog: loadCatalog(t)}
	sc := domain.SessionContext{Difficulty: "medium", Role: "student"}
	full := history(10)

	messages, err := a.chatMessages(sc, "the summary so far", full)
	if err != nil {
		t.Fatalf("chatMessages failed: %v", err)
	}

	// System context, summary message, then the last 6 turns.
	if len(messages) != 2+recentWindow {
		t.Fatalf("Expected %d messages, got %d", 2+recentWindow, len(messages))
	}
	if messages[0].Role != domain.RoleSystem {
		t.Error("Expected first message to be the system context")
	}
	if messages[1].Role != domain.RoleSystem || !strings.Contains(messages[1].Content, "the summary so far") {
		t.Error("Expected second system message to carry the rolling summary")
	}
	if messages[2].Content != full[len(full)-recentWindow].Content {
		t.Error("Expected history window to start at len-6")
	}
}

func TestChatMessagesNoSummaryMessageWhenEmpty(t *testing.T) {
	a := contextAssembler{catalog: loadCatalog(t)}
	sc := domain.SessionContext{Difficulty: "medium", Role: "student"}

	messages, err := a.chatMessages(sc, "", history(2))
	if err != nil {
		t.Fatalf("chatMessages failed: %v", err)
	}
	if len(messages) != 3 {
		t.Fatalf("Expected 3 messages (system + 2 turns), got %d", len(messages))
	}
	if messages[1].Role != domain.RoleUser {
		t.Error("Expected no summary system message when summary is empty")
	}
}
