package textgen

import (
	"context"

	"github.com/sells-group/lead-scout/internal/model"
	"github.com/sells-group/lead-scout/pkg/anthropic"
)

const defaultAnthropicModel = "claude-sonnet-4-5-20250929"

// anthropicService generates with Claude. Web grounding uses the
// server-side web search tool.
type anthropicService struct {
	client       anthropic.Client
	model        string
	maxTokens    int
	webSearchMax int64
}

// NewAnthropic wraps an Anthropic client as a Service.
func NewAnthropic(client anthropic.Client, modelName string, maxTokens int) Service {
	if modelName == "" {
		modelName = defaultAnthropicModel
	}
	return &anthropicService{
		client:       client,
		model:        modelName,
		maxTokens:    maxTokens,
		webSearchMax: 5,
	}
}

func (s *anthropicService) Generate(ctx context.Context, req Request) (*Response, error) {
	modelName := req.Model
	if modelName == "" {
		modelName = s.model
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = s.maxTokens
	}
	if maxTokens <= 0 {
		maxTokens = 8192
	}

	msgReq := anthropic.MessageRequest{
		Model:     modelName,
		MaxTokens: int64(maxTokens),
		Messages:  []anthropic.Message{{Role: "user", Content: req.Prompt}},
	}
	if req.System != "" {
		msgReq.System = []anthropic.SystemBlock{{
			Text:         req.System,
			CacheControl: &anthropic.CacheControl{TTL: "5m"},
		}}
	}
	if req.Grounding.Web {
		msgReq.WebSearch = &anthropic.WebSearch{MaxUses: s.webSearchMax}
	}

	resp, err := s.client.CreateMessage(ctx, msgReq)
	if err != nil {
		return nil, classify(err)
	}
	resp.Usage.LogUsage(resp.Model, "search")

	var citations []model.Citation
	for _, block := range resp.Content {
		for _, c := range block.Citations {
			citations = append(citations, model.Citation{
				Kind:  model.CitationWeb,
				Title: c.Title,
				URI:   c.URL,
			})
		}
	}

	return &Response{
		Text:      resp.Text(),
		Citations: dedupCitations(citations),
		Model:     resp.Model,
		Provider:  ProviderAnthropic,
		Usage: Usage{
			InputTokens:  resp.Usage.Input(),
			OutputTokens: resp.Usage.OutputTokens,
		},
	}, nil
}
