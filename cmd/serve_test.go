//go:build !integration

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/lead-scout/internal/model"
	"github.com/sells-group/lead-scout/internal/monitoring"
	"github.com/sells-group/lead-scout/internal/pipeline"
)

type fakeSearcher struct {
	res    *pipeline.SearchResult
	err    error
	params model.SearchParams
}

func (f *fakeSearcher) Search(_ context.Context, params model.SearchParams) (*pipeline.SearchResult, error) {
	f.params = params
	return f.res, f.err
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRouter_Health(t *testing.T) {
	h := newRouter(newMemoryStore(t), nil, nil, []string{"*"})

	rr := do(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestRouter_CORS(t *testing.T) {
	h := newRouter(newMemoryStore(t), nil, nil, []string{"https://app.example"})

	req := httptest.NewRequest(http.MethodOptions, "/api/leads", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, "https://app.example", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_ListLeads(t *testing.T) {
	st := newMemoryStore(t,
		testLead("lead-1", "Charlie", model.StatusNew, 40),
		testLead("lead-2", "Alpha", model.StatusContacted, 90),
		testLead("lead-3", "Bravo", model.StatusNew, 70),
	)
	h := newRouter(st, nil, nil, nil)

	rr := do(t, h, http.MethodGet, "/api/leads?status=new&sort=score&desc=true", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var leads []model.Lead
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &leads))
	assert.Equal(t, []string{"Bravo", "Charlie"}, names(leads))

	rr = do(t, h, http.MethodGet, "/api/leads?sort=phone", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRouter_GetLead(t *testing.T) {
	h := newRouter(newMemoryStore(t, testLead("lead-1", "Acme", model.StatusNew, 50)), nil, nil, nil)

	rr := do(t, h, http.MethodGet, "/api/leads/lead-1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var l model.Lead
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &l))
	assert.Equal(t, "Acme", l.Name)

	rr = do(t, h, http.MethodGet, "/api/leads/missing", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRouter_PatchLead(t *testing.T) {
	st := newMemoryStore(t, testLead("lead-1", "Acme", model.StatusNew, 50))
	h := newRouter(st, nil, nil, nil)

	rr := do(t, h, http.MethodPatch, "/api/leads/lead-1", map[string]string{"status": "qualified", "notes": "Demo booked"})
	require.Equal(t, http.StatusOK, rr.Code)
	var l model.Lead
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &l))
	assert.Equal(t, model.StatusQualified, l.Status)
	assert.Equal(t, "Demo booked", l.Notes)
	assert.Equal(t, "Acme", l.Name)

	rr = do(t, h, http.MethodPatch, "/api/leads/lead-1", map[string]string{"status": "won"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "unknown status")

	rr = do(t, h, http.MethodPatch, "/api/leads/missing", map[string]string{"notes": "x"})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	req := httptest.NewRequest(http.MethodPatch, "/api/leads/lead-1", strings.NewReader("{bad"))
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRouter_DeleteLead(t *testing.T) {
	st := newMemoryStore(t, testLead("lead-1", "Acme", model.StatusNew, 50))
	h := newRouter(st, nil, nil, nil)

	rr := do(t, h, http.MethodDelete, "/api/leads/lead-1", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = do(t, h, http.MethodDelete, "/api/leads/lead-1", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRouter_StatsAndHistory(t *testing.T) {
	st := newMemoryStore(t,
		testLead("lead-1", "Acme", model.StatusNew, 40),
		testLead("lead-2", "Bravo", model.StatusClosed, 61),
	)
	_, err := st.AddHistory(context.Background(), model.SearchParams{Niche: "Dentists", Location: "Austin"}, 2)
	require.NoError(t, err)
	h := newRouter(st, nil, nil, nil)

	rr := do(t, h, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var stats model.Stats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats.TotalLeads)
	assert.Equal(t, 1, stats.TotalSearches)
	assert.Equal(t, 1, stats.LeadsByStatus.Closed)
	assert.Equal(t, 51, stats.AvgScore)

	rr = do(t, h, http.MethodGet, "/api/history", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var items []model.HistoryItem
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "Dentists", items[0].SearchParams.Niche)
}

func TestRouter_HistoryEmptyIsArray(t *testing.T) {
	rr := do(t, newRouter(newMemoryStore(t), nil, nil, nil), http.MethodGet, "/api/history", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestRouter_Search(t *testing.T) {
	fs := &fakeSearcher{res: &pipeline.SearchResult{
		Accepted:  2,
		Extracted: 3,
		Progress:  []string{"Initializing search for 10 Dentists in Austin...", "Complete. Saved 2 new leads."},
	}}
	h := newRouter(newMemoryStore(t), fs, nil, nil)

	rr := do(t, h, http.MethodPost, "/api/search", map[string]any{"niche": "Dentists", "location": "Austin", "count": 10})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Dentists", fs.params.Niche)
	assert.Equal(t, 10, fs.params.Count)

	var res pipeline.SearchResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.Equal(t, 2, res.Accepted)
	assert.Equal(t, 3, res.Extracted)
	assert.Len(t, res.Progress, 2)
}

func TestRouter_SearchUpstreamFailure(t *testing.T) {
	fs := &fakeSearcher{
		res: &pipeline.SearchResult{Progress: []string{"Error: Failed to complete search."}},
		err: errors.New("pipeline: generate: upstream timeout"),
	}
	h := newRouter(newMemoryStore(t), fs, nil, nil)

	rr := do(t, h, http.MethodPost, "/api/search", map[string]any{"niche": "Dentists", "location": "Austin"})
	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Contains(t, rr.Body.String(), "upstream timeout")
	assert.Contains(t, rr.Body.String(), "Error: Failed to complete search.")
}

func TestRouter_SearchInvalidParams(t *testing.T) {
	fs := &fakeSearcher{err: errors.New("model: niche is required")}
	h := newRouter(newMemoryStore(t), fs, nil, nil)

	rr := do(t, h, http.MethodPost, "/api/search", map[string]any{"location": "Austin"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "niche is required")
}

func TestRouter_SearchNotConfigured(t *testing.T) {
	rr := do(t, newRouter(newMemoryStore(t), nil, nil, nil), http.MethodPost, "/api/search", map[string]any{})
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestRouter_ExportCSV(t *testing.T) {
	l := testLead("lead-1", `Joe's "Best" Plumbing`, model.StatusNew, 50)
	l.Phone = "555-0101"
	h := newRouter(newMemoryStore(t, l), nil, nil, nil)

	rr := do(t, h, http.MethodGet, "/api/export.csv", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "leadgen_export_"+time.Now().Format("2006-01-02")+".csv")

	lines := strings.Split(rr.Body.String(), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Business Name,Address,Phone"))
	assert.True(t, strings.HasPrefix(lines[1], `"Joe's ""Best"" Plumbing","","555-0101"`))
}

func TestRouter_Metrics(t *testing.T) {
	m := monitoring.NewMetrics()
	m.ObserveSearch(3, 2, 1, time.Second, nil)
	h := newRouter(newMemoryStore(t), nil, m, nil)

	rr := do(t, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "leadscout_search_leads_accepted_total 2")

	rr = do(t, newRouter(newMemoryStore(t), nil, nil, nil), http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
