package monitoring

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/lead-scout/internal/model"
)

type mockSource struct {
	leads      []model.Lead
	history    []model.HistoryItem
	leadsErr   error
	historyErr error
}

func (m *mockSource) GetAll(_ context.Context) ([]model.Lead, error) {
	return m.leads, m.leadsErr
}

func (m *mockSource) GetHistory(_ context.Context) ([]model.HistoryItem, error) {
	return m.history, m.historyErr
}

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func hoursAgo(h int) int64 {
	return fixedNow.Add(-time.Duration(h) * time.Hour).UnixMilli()
}

func newTestCollector(src LeadSource) *Collector {
	c := NewCollector(src)
	c.now = func() time.Time { return fixedNow }
	return c
}

func TestCollector_Collect(t *testing.T) {
	src := &mockSource{
		history: []model.HistoryItem{
			{ID: "h1", Timestamp: hoursAgo(1), ResultCount: 4},
			{ID: "h2", Timestamp: hoursAgo(2), ResultCount: 0},
			{ID: "h3", Timestamp: hoursAgo(5), ResultCount: 0},
			{ID: "h4", Timestamp: hoursAgo(30), ResultCount: 0},
		},
		leads: []model.Lead{
			{ID: "a", Status: model.StatusNew, UpdatedAt: hoursAgo(24 * 10), Score: model.Score{Total: 90, Label: model.LabelHot}},
			{ID: "b", Status: model.StatusNew, UpdatedAt: hoursAgo(1), Score: model.Score{Total: 50, Label: model.LabelWarm}},
			{ID: "c", Status: model.StatusContacted, UpdatedAt: hoursAgo(24 * 30), Score: model.Score{Total: 10, Label: model.LabelCold}},
		},
	}

	snap, err := newTestCollector(src).Collect(context.Background(), 24, 7)
	require.NoError(t, err)

	assert.Equal(t, 3, snap.SearchTotal)
	assert.Equal(t, 2, snap.SearchZeroYield)
	assert.InDelta(t, 2.0/3.0, snap.ZeroYieldRate, 1e-9)
	assert.Equal(t, 4, snap.LeadsExtracted)
	assert.Equal(t, 3, snap.LeadsTotal)
	assert.Equal(t, 1, snap.HotLeads)
	assert.Equal(t, 1, snap.StaleNewLeads)
	assert.InDelta(t, 50.0, snap.AvgScore, 1e-9)
	assert.Equal(t, 24, snap.LookbackHours)
	assert.Equal(t, fixedNow, snap.CollectedAt)
}

func TestCollector_Collect_Empty(t *testing.T) {
	snap, err := newTestCollector(&mockSource{}).Collect(context.Background(), 24, 7)
	require.NoError(t, err)
	assert.Zero(t, snap.SearchTotal)
	assert.Zero(t, snap.ZeroYieldRate)
	assert.Zero(t, snap.AvgScore)
}

func TestCollector_Collect_StaleDisabled(t *testing.T) {
	src := &mockSource{leads: []model.Lead{{ID: "a", Status: model.StatusNew, UpdatedAt: 0}}}
	snap, err := newTestCollector(src).Collect(context.Background(), 24, 0)
	require.NoError(t, err)
	assert.Zero(t, snap.StaleNewLeads)
}

func TestCollector_Collect_Errors(t *testing.T) {
	_, err := newTestCollector(&mockSource{historyErr: errors.New("boom")}).Collect(context.Background(), 24, 7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "monitoring: list history")

	_, err = newTestCollector(&mockSource{leadsErr: errors.New("boom")}).Collect(context.Background(), 24, 7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "monitoring: list leads")
}
