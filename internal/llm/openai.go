package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

// Config holds the model backend connection settings. All fields except
// APIVersion are required; validation happens in the config package before
// the gateway is constructed.
type Config struct {
	APIKey     string
	Endpoint   string
	APIVersion string
	Deployment string
}

// OpenAIGateway implements Gateway against an Azure OpenAI deployment.
type OpenAIGateway struct {
	model llms.Model
}

// NewOpenAIGateway builds a gateway for the configured deployment.
func NewOpenAIGateway(cfg Config) (*OpenAIGateway, error) {
	model, err := openai.New(
		openai.WithAPIType(openai.APITypeAzure),
		openai.WithToken(cfg.APIKey),
		openai.WithBaseURL(cfg.Endpoint),
		openai.WithAPIVersion(cfg.APIVersion),
		openai.WithModel(cfg.Deployment),
	)
	if err != nil {
		return nil, fmt.Errorf("create openai client: %w", err)
	}
	return &OpenAIGateway{model: model}, nil
}

// Complete sends messages to the deployment and returns the trimmed response
// text. Any backend failure surfaces as a *GenerationError.
func (g *OpenAIGateway) Complete(ctx context.Context, messages []Message, params Params) (string, error) {
	content := make([]llms.MessageContent, 0, len(messages))
	for _, msg := range messages {
		content = append(content, llms.TextParts(chatMessageType(msg.Role), msg.Content))
	}

	opts := []llms.CallOption{
		llms.WithTemperature(params.Temperature),
		llms.WithMaxTokens(params.MaxTokens),
	}
	if params.JSONMode {
		opts = append(opts, llms.WithJSONMode())
	}

	resp, err := g.model.GenerateContent(ctx, content, opts...)
	if err != nil {
		return "", &GenerationError{Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &GenerationError{Err: fmt.Errorf("backend returned no choices")}
	}
	return strings.TrimSpace(resp.Choices[0].Content), nil
}

func chatMessageType(role string) schema.ChatMessageType {
	switch role {
	case "system":
		return schema.ChatMessageTypeSystem
	case "assistant":
		return schema.ChatMessageTypeAI
	default:
		return schema.ChatMessageTypeHuman
	}
}
