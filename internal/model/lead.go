package model

import (
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
)

// Status is a lead's position in the sales pipeline.
type Status string

const (
	StatusNew          Status = "new"
	StatusContacted    Status = "contacted"
	StatusFollowUp     Status = "follow_up"
	StatusQualified    Status = "qualified"
	StatusClosed       Status = "closed"
	StatusDisqualified Status = "disqualified"
)

// Statuses lists every pipeline status in board order.
var Statuses = []Status{
	StatusNew,
	StatusContacted,
	StatusFollowUp,
	StatusQualified,
	StatusClosed,
	StatusDisqualified,
}

// Valid reports whether s is a known pipeline status.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParseStatus converts user input ("Follow-Up", "qualified") into a Status.
func ParseStatus(raw string) (Status, error) {
	norm := strings.ToLower(strings.TrimSpace(raw))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	s := Status(norm)
	if !s.Valid() {
		return "", eris.Errorf("model: unknown status %q", raw)
	}
	return s, nil
}

// Source records which grounding channel produced a lead.
type Source string

const (
	SourceMap    Source = "map"
	SourceWeb    Source = "web"
	SourceHybrid Source = "hybrid"
	SourceImport Source = "import"
)

// Label is the qualitative temperature of a lead.
type Label string

const (
	LabelHot  Label = "Hot"
	LabelWarm Label = "Warm"
	LabelCold Label = "Cold"
)

// LabelFor derives the label for a score total.
func LabelFor(total int) Label {
	switch {
	case total > 75:
		return LabelHot
	case total > 40:
		return LabelWarm
	default:
		return LabelCold
	}
}

// Breakdown holds the per-dimension sub-scores, each within [0,100].
type Breakdown struct {
	DigitalPresence int `json:"digitalPresence"`
	Reputation      int `json:"reputation"`
	Accessibility   int `json:"accessibility"`
}

// Score is the opportunity assessment attached to every lead.
type Score struct {
	Total             int       `json:"total"`
	Label             Label     `json:"label"`
	Breakdown         Breakdown `json:"breakdown"`
	OpportunitySignal string    `json:"opportunitySignal"`
}

// Lead is a prospective business customer. Optional text fields are empty
// when the upstream answer did not supply them. Timestamps are Unix millis.
type Lead struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Address     string `json:"address,omitempty"`
	City        string `json:"city,omitempty"`
	Country     string `json:"country,omitempty"`
	Rating      string `json:"rating,omitempty"`
	Reviews     int    `json:"reviews"`
	Website     string `json:"website,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	SocialMedia string `json:"socialMedia,omitempty"`
	Status      Status `json:"status"`
	Score       Score  `json:"score"`
	Analysis    string `json:"analysis,omitempty"`
	Notes       string `json:"notes,omitempty"`
	SourceURL   string `json:"sourceUrl,omitempty"`
	Source      Source `json:"source"`
	CreatedAt   int64  `json:"createdAt"`
	UpdatedAt   int64  `json:"updatedAt"`
}

// NewLeadID returns a fresh, collision-free lead identifier.
func NewLeadID() string {
	return "lead-" + uuid.NewString()
}

// LeadPatch is a partial update. Nil fields are left untouched.
type LeadPatch struct {
	Name        *string `json:"name,omitempty"`
	Category    *string `json:"category,omitempty"`
	Address     *string `json:"address,omitempty"`
	City        *string `json:"city,omitempty"`
	Country     *string `json:"country,omitempty"`
	Rating      *string `json:"rating,omitempty"`
	Reviews     *int    `json:"reviews,omitempty"`
	Website     *string `json:"website,omitempty"`
	Email       *string `json:"email,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	SocialMedia *string `json:"socialMedia,omitempty"`
	Status      *Status `json:"status,omitempty"`
	Score       *Score  `json:"score,omitempty"`
	Analysis    *string `json:"analysis,omitempty"`
	Notes       *string `json:"notes,omitempty"`
	SourceURL   *string `json:"sourceUrl,omitempty"`
}

// Validate rejects patches carrying an unknown status.
func (p LeadPatch) Validate() error {
	if p.Status != nil && !p.Status.Valid() {
		return eris.Errorf("model: unknown status %q", *p.Status)
	}
	return nil
}

// Apply merges the patch into l. ID and CreatedAt are never changed.
func (p LeadPatch) Apply(l *Lead) {
	setStr := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setStr(&l.Name, p.Name)
	setStr(&l.Category, p.Category)
	setStr(&l.Address, p.Address)
	setStr(&l.City, p.City)
	setStr(&l.Country, p.Country)
	setStr(&l.Rating, p.Rating)
	setStr(&l.Website, p.Website)
	setStr(&l.Email, p.Email)
	setStr(&l.Phone, p.Phone)
	setStr(&l.SocialMedia, p.SocialMedia)
	setStr(&l.Analysis, p.Analysis)
	setStr(&l.Notes, p.Notes)
	setStr(&l.SourceURL, p.SourceURL)
	if p.Reviews != nil {
		l.Reviews = *p.Reviews
	}
	if p.Status != nil {
		l.Status = *p.Status
	}
	if p.Score != nil {
		l.Score = *p.Score
		l.Score.Total = min(max(l.Score.Total, 0), 100)
		l.Score.Label = LabelFor(l.Score.Total)
	}
}
