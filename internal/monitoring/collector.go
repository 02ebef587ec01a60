package monitoring

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-scout/internal/model"
)

// MetricsSnapshot holds a point-in-time view of lead intake health.
type MetricsSnapshot struct {
	// Search metrics (within lookback window).
	SearchTotal     int     `json:"search_total"`
	SearchZeroYield int     `json:"search_zero_yield"`
	ZeroYieldRate   float64 `json:"zero_yield_rate"`
	LeadsExtracted  int     `json:"leads_extracted"`

	// Lead collection metrics.
	LeadsTotal    int     `json:"leads_total"`
	HotLeads      int     `json:"hot_leads"`
	StaleNewLeads int     `json:"stale_new_leads"`
	AvgScore      float64 `json:"avg_score"`

	// Metadata.
	LookbackHours int       `json:"lookback_hours"`
	StaleDays     int       `json:"stale_days"`
	CollectedAt   time.Time `json:"collected_at"`
}

// LeadSource abstracts the store reads needed by the collector.
type LeadSource interface {
	GetAll(ctx context.Context) ([]model.Lead, error)
	GetHistory(ctx context.Context) ([]model.HistoryItem, error)
}

// Collector gathers metrics from the lead store.
type Collector struct {
	source LeadSource
	now    func() time.Time
}

// NewCollector creates a new metrics collector.
func NewCollector(source LeadSource) *Collector {
	return &Collector{source: source, now: time.Now}
}

// Collect gathers a snapshot over the lookback window. A lead counts as
// stale when it is still new and untouched for staleDays.
func (c *Collector) Collect(ctx context.Context, lookbackHours, staleDays int) (*MetricsSnapshot, error) {
	now := c.now().UTC()
	snap := &MetricsSnapshot{
		LookbackHours: lookbackHours,
		StaleDays:     staleDays,
		CollectedAt:   now,
	}

	history, err := c.source.GetHistory(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "monitoring: list history")
	}
	cutoff := now.Add(-time.Duration(lookbackHours) * time.Hour).UnixMilli()
	for _, h := range history {
		if h.Timestamp < cutoff {
			continue
		}
		snap.SearchTotal++
		snap.LeadsExtracted += h.ResultCount
		if h.ResultCount == 0 {
			snap.SearchZeroYield++
		}
	}
	if snap.SearchTotal > 0 {
		snap.ZeroYieldRate = float64(snap.SearchZeroYield) / float64(snap.SearchTotal)
	}

	leads, err := c.source.GetAll(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "monitoring: list leads")
	}
	staleCutoff := now.Add(-time.Duration(staleDays) * 24 * time.Hour).UnixMilli()
	var totalScore int
	for _, l := range leads {
		totalScore += l.Score.Total
		if l.Score.Label == model.LabelHot {
			snap.HotLeads++
		}
		if staleDays > 0 && l.Status == model.StatusNew && l.UpdatedAt < staleCutoff {
			snap.StaleNewLeads++
		}
	}
	snap.LeadsTotal = len(leads)
	if len(leads) > 0 {
		snap.AvgScore = float64(totalScore) / float64(len(leads))
	}

	return snap, nil
}
