package textgen

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/sashabaranov/go-openai"
)

// openAIService generates with an OpenAI-compatible chat completions API.
// It has no native grounding; pair it with Grounded for map citations.
type openAIService struct {
	client    *openai.Client
	model     string
	maxTokens int
}

// NewOpenAI builds a Service for an OpenAI-compatible endpoint. An empty
// baseURL uses the public API.
func NewOpenAI(apiKey, baseURL, modelName string, maxTokens int) (Service, error) {
	if apiKey == "" {
		return nil, eris.New("textgen: openai api key is required")
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if modelName == "" {
		modelName = openai.GPT4oMini
	}
	return &openAIService{
		client:    openai.NewClientWithConfig(cfg),
		model:     modelName,
		maxTokens: maxTokens,
	}, nil
}

func (s *openAIService) Generate(ctx context.Context, req Request) (*Response, error) {
	modelName := req.Model
	if modelName == "" {
		modelName = s.model
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = s.maxTokens
	}

	var msgs []openai.ChatCompletionMessage
	if req.System != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.Prompt})

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       modelName,
		Messages:    msgs,
		MaxTokens:   maxTokens,
		Temperature: 0.4,
	})
	if err != nil {
		return nil, classify(eris.Wrap(err, "textgen: openai chat completion"))
	}

	var text string
	if len(resp.Choices) > 0 {
		text = strings.TrimSpace(resp.Choices[0].Message.Content)
	}

	return &Response{
		Text:     text,
		Model:    resp.Model,
		Provider: ProviderOpenAI,
		Usage: Usage{
			InputTokens:  int64(resp.Usage.PromptTokens),
			OutputTokens: int64(resp.Usage.CompletionTokens),
		},
	}, nil
}
