package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lead-scout/internal/cost"
	"github.com/sells-group/lead-scout/internal/model"
	"github.com/sells-group/lead-scout/internal/textgen"
)

// Progress lines emitted while a search runs.
const (
	progressMaps     = "Accessing Google Maps Platform..."
	progressAnalyze  = "Analyzing digital footprints..."
	progressScoring  = "Scoring opportunities..."
	progressFailed   = "Error: Failed to complete search."
	progressInitFmt  = "Initializing search for %d %s in %s..."
	progressSavedFmt = "Complete. Saved %d new leads."
)

// LeadSink persists the output of a search.
type LeadSink interface {
	InsertWithDedup(ctx context.Context, leads []model.Lead) (int, error)
	AddHistory(ctx context.Context, params model.SearchParams, resultCount int) (*model.HistoryItem, error)
}

// Recorder observes completed searches.
type Recorder interface {
	ObserveSearch(extracted, accepted, dropped int, elapsed time.Duration, err error)
}

// SearchResult summarizes one search run.
type SearchResult struct {
	Accepted  int              `json:"accepted"`
	Extracted int              `json:"extracted"`
	Dropped   int              `json:"dropped"`
	Leads     []model.Lead     `json:"leads"`
	Citations []model.Citation `json:"citations,omitempty"`
	Progress  []string         `json:"progress"`
	Cached    bool             `json:"cached"`
	Model     string           `json:"model,omitempty"`
	Usage     textgen.Usage    `json:"usage"`
	CostUSD   float64          `json:"costUsd"`
}

// Runner executes a lead search: prompt, generate, extract, persist.
type Runner struct {
	text      textgen.Service
	sink      LeadSink
	grounding textgen.Grounding

	// Recorder, when set, receives the outcome of every search.
	Recorder Recorder
	// OnProgress, when set, receives each progress line as it is emitted.
	OnProgress func(line string)
	// MaxTokens overrides the provider's default output budget.
	MaxTokens int
	// Pricing, when set, prices the generation call of each search.
	Pricing *cost.Calculator

	// mu serializes searches so a batch is inserted as one block.
	mu sync.Mutex
}

// NewRunner creates a Runner that generates with text and persists to sink.
func NewRunner(text textgen.Service, sink LeadSink, grounding textgen.Grounding) *Runner {
	return &Runner{text: text, sink: sink, grounding: grounding}
}

// Search runs one lead search. When generation, extraction or the insert
// fails nothing is stored and no history is recorded. A history failure
// after a successful insert leaves the new leads stored and is still
// returned as an error. The result carries the progress feed including the
// terminal error line in every case.
func (r *Runner) Search(ctx context.Context, params model.SearchParams) (*SearchResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	res := &SearchResult{}
	emit := func(line string) {
		res.Progress = append(res.Progress, line)
		if r.OnProgress != nil {
			r.OnProgress(line)
		}
	}

	log := zap.L().With(
		zap.String("niche", params.Niche),
		zap.String("location", params.Location),
		zap.Int("count", params.Count),
	)

	emit(fmt.Sprintf(progressInitFmt, params.Count, params.Niche, params.Location))

	err := r.run(ctx, params, res, emit)
	if r.Recorder != nil {
		r.Recorder.ObserveSearch(res.Extracted, res.Accepted, res.Dropped, time.Since(start), err)
	}
	if err != nil {
		emit(progressFailed)
		log.Error("pipeline: search failed", zap.Error(err))
		return res, err
	}

	log.Info("pipeline: search complete",
		zap.Int("extracted", res.Extracted),
		zap.Int("accepted", res.Accepted),
		zap.Int("dropped", res.Dropped),
		zap.Bool("cached", res.Cached),
		zap.Float64("cost_usd", res.CostUSD),
		zap.Duration("elapsed", time.Since(start)),
	)
	return res, nil
}

func (r *Runner) run(ctx context.Context, params model.SearchParams, res *SearchResult, emit func(string)) error {
	if r.grounding.Maps {
		emit(progressMaps)
	}

	resp, err := r.text.Generate(ctx, textgen.Request{
		Prompt:     BuildPrompt(params),
		System:     SystemPrompt,
		MaxTokens:  r.MaxTokens,
		Grounding:  r.grounding,
		PlaceQuery: fmt.Sprintf("%s in %s", params.Niche, params.Location),
		MaxPlaces:  params.Count,
		Lat:        params.Lat,
		Lng:        params.Lng,
		RadiusKM:   params.RadiusKM,
	})
	if err != nil {
		return eris.Wrap(err, "pipeline: generate")
	}
	res.Cached = resp.Cached
	res.Citations = resp.Citations
	res.Model = resp.Model
	res.Usage = resp.Usage
	if r.Pricing != nil && !resp.Cached {
		res.CostUSD = r.Pricing.Generation(resp.Model, resp.Usage.InputTokens, resp.Usage.OutputTokens)
	}

	emit(progressAnalyze)
	extracted, err := NewExtractor(params.Niche).Run(resp.Text, resp.Citations)
	if err != nil {
		return eris.Wrap(err, "pipeline: extract")
	}
	emit(progressScoring)

	res.Leads = extracted.Leads
	res.Extracted = len(extracted.Leads)
	res.Dropped = extracted.Dropped

	accepted, err := r.sink.InsertWithDedup(ctx, extracted.Leads)
	if err != nil {
		return eris.Wrap(err, "pipeline: save leads")
	}
	res.Accepted = accepted

	if _, err := r.sink.AddHistory(ctx, params, res.Extracted); err != nil {
		return eris.Wrap(err, "pipeline: add history")
	}

	emit(fmt.Sprintf(progressSavedFmt, accepted))
	return nil
}
