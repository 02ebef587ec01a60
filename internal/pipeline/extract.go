package pipeline

import (
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lead-scout/internal/model"
)

// ErrEmptyResponse is returned when the generated text is empty. Callers
// usually retry with a narrower query.
var ErrEmptyResponse = eris.New("empty AI response")

const defaultAnalysis = "No analysis available."

// ExtractResult carries the leads built from one response plus the raw
// text and how many records were dropped.
type ExtractResult struct {
	Leads   []model.Lead
	Dropped int
	Raw     string
}

// Extractor turns generated text into lead candidates.
type Extractor struct {
	// Niche is the default category for records without CATEGORY.
	Niche string
	Now   func() time.Time
	NewID func() string
}

// NewExtractor creates an Extractor for a search niche.
func NewExtractor(niche string) *Extractor {
	return &Extractor{
		Niche: niche,
		Now:   time.Now,
		NewID: model.NewLeadID,
	}
}

// Extract parses raw into leads in source order.
func (x *Extractor) Extract(raw string, citations []model.Citation) ([]model.Lead, error) {
	res, err := x.Run(raw, citations)
	if err != nil {
		return nil, err
	}
	return res.Leads, nil
}

// Run parses raw and reports the dropped record count alongside the leads.
// Only an entirely empty input fails; malformed records are skipped.
func (x *Extractor) Run(raw string, citations []model.Citation) (*ExtractResult, error) {
	if len(raw) == 0 {
		return nil, ErrEmptyResponse
	}

	entries, dropped := ParseEntries(raw, Delimiter)
	now := x.Now().UnixMilli()

	leads := make([]model.Lead, 0, len(entries))
	for _, e := range entries {
		leads = append(leads, x.assemble(e, citations, now))
	}

	if dropped > 0 {
		zap.L().Debug("pipeline: dropped malformed records",
			zap.Int("dropped", dropped),
			zap.Int("accepted", len(leads)),
		)
	}

	return &ExtractResult{Leads: leads, Dropped: dropped, Raw: raw}, nil
}

func (x *Extractor) assemble(e Entry, citations []model.Citation, now int64) model.Lead {
	f := e.Fields

	category := f.Value(LabelCategory)
	if category == "" {
		category = x.Niche
	}
	analysis := f.Value(LabelAnalysis)
	if analysis == "" {
		analysis = defaultAnalysis
	}

	return model.Lead{
		ID:          x.NewID(),
		Name:        e.Name,
		Category:    category,
		Address:     f.Value(LabelAddress),
		City:        f.Value(LabelCity),
		Rating:      f.Value(LabelRating),
		Reviews:     ParseReviews(f.Value(LabelReviews)),
		Website:     f.Value(LabelWebsite),
		Email:       f.Value(LabelEmail),
		Phone:       f.Value(LabelPhone),
		SocialMedia: f.Value(LabelSocial),
		Status:      model.StatusNew,
		Score:       ScoreFields(f),
		Analysis:    analysis,
		SourceURL:   SourceURL(f, e.Name, citations),
		Source:      model.SourceHybrid,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
