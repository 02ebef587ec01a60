package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/lead-scout/internal/model"
)

func TestScoreFields_Defaults(t *testing.T) {
	s := ScoreFields(Fields{})
	assert.Equal(t, 50, s.Total)
	assert.Equal(t, model.LabelWarm, s.Label)
	assert.Equal(t, 20, s.Breakdown.DigitalPresence)
	assert.Equal(t, 50, s.Breakdown.Reputation)
	assert.Equal(t, 0, s.Breakdown.Accessibility)
	assert.Equal(t, "Standard lead.", s.OpportunitySignal)
}

func TestScoreFields(t *testing.T) {
	tests := []struct {
		name       string
		fields     Fields
		total      int
		label      model.Label
		presence   int
		reputation int
		access     int
	}{
		{
			name:   "full record",
			fields: Fields{LabelScore: "82", LabelWebsite: "https://a.example", LabelRating: "4.5", LabelPhone: "555-1234"},
			total:  82, label: model.LabelHot, presence: 80, reputation: 90, access: 100,
		},
		{
			name:   "score with suffix",
			fields: Fields{LabelScore: "65/100"},
			total:  65, label: model.LabelWarm, presence: 20, reputation: 50,
		},
		{
			name:   "non numeric score",
			fields: Fields{LabelScore: "high"},
			total:  50, label: model.LabelWarm, presence: 20, reputation: 50,
		},
		{
			name:   "score clamped high",
			fields: Fields{LabelScore: "140"},
			total:  100, label: model.LabelHot, presence: 20, reputation: 50,
		},
		{
			name:   "score clamped low",
			fields: Fields{LabelScore: "-5"},
			total:  0, label: model.LabelCold, presence: 20, reputation: 50,
		},
		{
			name:   "rating clamped",
			fields: Fields{LabelRating: "6.0"},
			total:  50, label: model.LabelWarm, presence: 20, reputation: 100,
		},
		{
			name:   "rating with text",
			fields: Fields{LabelRating: "3.2 stars"},
			total:  50, label: model.LabelWarm, presence: 20, reputation: 64,
		},
		{
			name:   "rating n/a",
			fields: Fields{LabelRating: "N/A"},
			total:  50, label: model.LabelWarm, presence: 20, reputation: 50,
		},
		{
			name:   "website and phone n/a",
			fields: Fields{LabelWebsite: "N/A", LabelPhone: "n/a"},
			total:  50, label: model.LabelWarm, presence: 20, reputation: 50,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ScoreFields(tt.fields)
			assert.Equal(t, tt.total, s.Total)
			assert.Equal(t, tt.label, s.Label)
			assert.Equal(t, tt.presence, s.Breakdown.DigitalPresence)
			assert.Equal(t, tt.reputation, s.Breakdown.Reputation)
			assert.Equal(t, tt.access, s.Breakdown.Accessibility)
		})
	}
}

func TestScoreFields_LabelBoundaries(t *testing.T) {
	tests := []struct {
		score string
		want  model.Label
	}{
		{"76", model.LabelHot},
		{"75", model.LabelWarm},
		{"41", model.LabelWarm},
		{"40", model.LabelCold},
		{"0", model.LabelCold},
	}
	for _, tt := range tests {
		t.Run(tt.score, func(t *testing.T) {
			assert.Equal(t, tt.want, ScoreFields(Fields{LabelScore: tt.score}).Label)
		})
	}
}

func TestScoreFields_Reason(t *testing.T) {
	s := ScoreFields(Fields{LabelScoreReason: "No website, 4.8 stars."})
	assert.Equal(t, "No website, 4.8 stars.", s.OpportunitySignal)
}

func TestParseReviews(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"120", 120},
		{"1,204 reviews", 1204},
		{"(87)", 87},
		{"N/A", 0},
		{"", 0},
		{"-3", 0},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseReviews(tt.raw))
		})
	}
}

func TestLeadingFloat(t *testing.T) {
	v, ok := leadingFloat("4.")
	assert.True(t, ok)
	assert.InDelta(t, 4.0, v, 1e-9)

	_, ok = leadingFloat(".")
	assert.False(t, ok)

	v, ok = RatingValue(" 4.7/5")
	assert.True(t, ok)
	assert.InDelta(t, 4.7, v, 1e-9)
}
