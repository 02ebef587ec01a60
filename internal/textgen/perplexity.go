package textgen

import (
	"context"

	"github.com/sells-group/lead-scout/internal/model"
	"github.com/sells-group/lead-scout/pkg/perplexity"
)

// perplexityService generates with Perplexity's search-backed models.
// Every answer is web grounded; search results become web citations.
type perplexityService struct {
	client    perplexity.Client
	model     string
	maxTokens int
}

// NewPerplexity wraps a Perplexity client as a Service.
func NewPerplexity(client perplexity.Client, modelName string, maxTokens int) Service {
	return &perplexityService{client: client, model: modelName, maxTokens: maxTokens}
}

func (s *perplexityService) Generate(ctx context.Context, req Request) (*Response, error) {
	var msgs []perplexity.Message
	if req.System != "" {
		msgs = append(msgs, perplexity.Message{Role: "system", Content: req.System})
	}
	msgs = append(msgs, perplexity.Message{Role: "user", Content: req.Prompt})

	chatReq := perplexity.ChatCompletionRequest{
		Model:    req.Model,
		Messages: msgs,
	}
	if chatReq.Model == "" {
		chatReq.Model = s.model
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = s.maxTokens
	}
	if maxTokens > 0 {
		chatReq.MaxTokens = &maxTokens
	}
	if req.Lat != nil && req.Lng != nil {
		chatReq.WebSearchOptions = &perplexity.WebSearchOptions{
			UserLocation: &perplexity.UserLocation{Latitude: *req.Lat, Longitude: *req.Lng},
		}
	}

	resp, err := s.client.ChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, classify(err)
	}

	var citations []model.Citation
	for _, r := range resp.SearchResults {
		citations = append(citations, model.Citation{Kind: model.CitationWeb, Title: r.Title, URI: r.URL})
	}
	if len(citations) == 0 {
		for _, u := range resp.Citations {
			citations = append(citations, model.Citation{Kind: model.CitationWeb, URI: u})
		}
	}

	return &Response{
		Text:      resp.Content(),
		Citations: dedupCitations(citations),
		Model:     resp.Model,
		Provider:  ProviderPerplexity,
		Usage: Usage{
			InputTokens:  int64(resp.Usage.PromptTokens),
			OutputTokens: int64(resp.Usage.CompletionTokens),
		},
	}, nil
}
