// Package textgen wraps the generative text providers used for lead search
// behind one Service interface, plus the middleware (retry, circuit
// breaking, rate limiting, caching, place grounding) layered around them.
package textgen

import (
	"context"

	"github.com/sells-group/lead-scout/internal/model"
)

// Service generates text for a prompt, optionally grounded on web or map
// sources.
type Service interface {
	Generate(ctx context.Context, req Request) (*Response, error)
}

// Func adapts a plain function to Service.
type Func func(ctx context.Context, req Request) (*Response, error)

// Generate calls f.
func (f Func) Generate(ctx context.Context, req Request) (*Response, error) {
	return f(ctx, req)
}

// Grounding selects which source channels the provider may consult.
type Grounding struct {
	Maps bool `json:"maps"`
	Web  bool `json:"web"`
}

// Request is a single generation call.
type Request struct {
	Prompt    string
	System    string
	Model     string
	MaxTokens int
	Grounding Grounding

	// PlaceQuery is the free-text query used for map grounding, e.g.
	// "dentists in Austin, TX".
	PlaceQuery string
	MaxPlaces  int

	// Lat/Lng bias grounding toward a point; RadiusKM bounds it.
	Lat      *float64
	Lng      *float64
	RadiusKM int
}

// Usage reports token consumption for one call.
type Usage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
}

// Response is the generated text with its grounding citations.
type Response struct {
	Text      string           `json:"text"`
	Citations []model.Citation `json:"citations,omitempty"`
	Model     string           `json:"model"`
	Provider  string           `json:"provider"`
	Usage     Usage            `json:"usage"`
	Cached    bool             `json:"-"`
}

// dedupCitations drops repeated citations, keeping the first by URI.
func dedupCitations(in []model.Citation) []model.Citation {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(in))
	out := make([]model.Citation, 0, len(in))
	for _, c := range in {
		key := string(c.Kind) + "|" + c.URI
		if c.URI == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}
