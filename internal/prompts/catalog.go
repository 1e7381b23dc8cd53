// Package prompts holds the static prompt catalog used by the mentor engine.
//
// Templates are embedded at build time and validated once at startup: a
// template referencing an unrecognized placeholder is a configuration error,
// not something to discover on a live request.
package prompts

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var rawCatalog []byte

// DefaultRole is the persona key every unknown role resolves to.
const DefaultRole = "default"

var placeholderPattern = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// Recognized placeholders per task template. Validated at load time so a
// typo in prompts.yaml fails startup instead of a chat turn.
var taskPlaceholders = map[string][]string{
	"generate_intro_and_topics": {"extra_instructions", "default_behavior", "role_prompt", "context_description"},
	"generate_topic_prompts":    {"topic", "role_prompt", "context_description"},
	"summarize_conversation":    {},
	"chat.system_prompt":        {"context_summary", "role_instruction", "default_instruction", "json_output_instruction"},
	"chat.user_prompt_wrapper":  {"summary"},
}

type chatTemplates struct {
	SystemPrompt      string `yaml:"system_prompt"`
	UserPromptWrapper string `yaml:"user_prompt_wrapper"`
}

type taskTemplates struct {
	GenerateIntroAndTopics string        `yaml:"generate_intro_and_topics"`
	GenerateTopicPrompts   string        `yaml:"generate_topic_prompts"`
	SummarizeConversation  string        `yaml:"summarize_conversation"`
	Chat                   chatTemplates `yaml:"chat"`
}

type catalogFile struct {
	DefaultInstructions string            `yaml:"default_instructions"`
	Roles               map[string]string `yaml:"roles"`
	SharedComponents    map[string]string `yaml:"shared_components"`
	Tasks               taskTemplates     `yaml:"tasks"`
}

// Catalog is the loaded prompt catalog. Read-only after Load.
type Catalog struct {
	defaultInstructions string
	roles               map[string]string
	jsonOutputFormat    string
	tasks               taskTemplates
}

// Load parses and validates the embedded catalog.
func Load() (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(rawCatalog, &file); err != nil {
		return nil, fmt.Errorf("parse prompt catalog: %w", err)
	}

	if file.DefaultInstructions == "" {
		return nil, fmt.Errorf("prompt catalog missing default_instructions")
	}
	if _, ok := file.Roles[DefaultRole]; !ok {
		return nil, fmt.Errorf("prompt catalog missing %q role persona", DefaultRole)
	}
	jsonFormat, ok := file.SharedComponents["json_output_format"]
	if !ok || jsonFormat == "" {
		return nil, fmt.Errorf("prompt catalog missing shared_components.json_output_format")
	}

	templates := map[string]string{
		"generate_intro_and_topics": file.Tasks.GenerateIntroAndTopics,
		"generate_topic_prompts":    file.Tasks.GenerateTopicPrompts,
		"summarize_conversation":    file.Tasks.SummarizeConversation,
		"chat.system_prompt":        file.Tasks.Chat.SystemPrompt,
		"chat.user_prompt_wrapper":  file.Tasks.Chat.UserPromptWrapper,
	}
	for name, tmpl := range templates {
		if tmpl == "" {
			return nil, fmt.Errorf("prompt catalog missing tasks.%s", name)
		}
		if err := validatePlaceholders(name, tmpl); err != nil {
			return nil, err
		}
	}

	return &Catalog{
		defaultInstructions: file.DefaultInstructions,
		roles:               file.Roles,
		jsonOutputFormat:    jsonFormat,
		tasks:               file.Tasks,
	}, nil
}

func validatePlaceholders(name, tmpl string) error {
	allowed := make(map[string]bool)
	for _, p := range taskPlaceholders[name] {
		allowed[p] = true
	}
	for _, match := range placeholderPattern.FindAllStringSubmatch(tmpl, -1) {
		if !allowed[match[1]] {
			return fmt.Errorf("tasks.%s references unknown placeholder {%s}", name, match[1])
		}
	}
	return nil
}

// Role resolves a persona by name, falling back to the default persona for
// any name not present in the catalog. Total: never fails.
func (c *Catalog) Role(name string) string {
	if persona, ok := c.roles[name]; ok {
		return persona
	}
	return c.roles[DefaultRole]
}

// DefaultInstructions returns the mentor's baseline behavioral instructions.
func (c *Catalog) DefaultInstructions() string { return c.defaultInstructions }

// JSONOutputFormat returns the shared structured-output instruction fragment.
func (c *Catalog) JSONOutputFormat() string { return c.jsonOutputFormat }

// IntroTemplate returns the session-intro generation template.
func (c *Catalog) IntroTemplate() string { return c.tasks.GenerateIntroAndTopics }

// TopicPromptsTemplate returns the topic-prompt generation template.
func (c *Catalog) TopicPromptsTemplate() string { return c.tasks.GenerateTopicPrompts }

// SummarizeTemplate returns the conversation summarization instruction.
func (c *Catalog) SummarizeTemplate() string { return c.tasks.SummarizeConversation }

// ChatSystemTemplate returns the chat-turn system prompt template.
func (c *Catalog) ChatSystemTemplate() string { return c.tasks.Chat.SystemPrompt }

// ChatSummaryWrapper returns the template wrapping a rolling summary.
func (c *Catalog) ChatSummaryWrapper() string { return c.tasks.Chat.UserPromptWrapper }

// Render substitutes {name} placeholders in tmpl from vars. It fails if the
// template references a placeholder with no supplied value.
func Render(tmpl string, vars map[string]string) (string, error) {
	var missing []string
	rendered := placeholderPattern.ReplaceAllStringFunc(tmpl, func(token string) string {
		name := token[1 : len(token)-1]
		value, ok := vars[name]
		if !ok {
			missing = append(missing, name)
			return token
		}
		return value
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("render template: no value for placeholder(s) %s", strings.Join(missing, ", "))
	}
	return rendered, nil
}
