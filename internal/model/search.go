package model

import (
	"github.com/rotisserie/eris"
)

const (
	// DefaultLeadCount is the number of leads requested when none is given.
	DefaultLeadCount = 10
	// MaxLeadCount caps a single search request.
	MaxLeadCount = 50
)

// SearchParams describes a single lead search.
type SearchParams struct {
	Niche    string   `json:"niche"`
	Location string   `json:"location"`
	Count    int      `json:"count"`
	RadiusKM int      `json:"radius"`
	Lat      *float64 `json:"userLat,omitempty"`
	Lng      *float64 `json:"userLng,omitempty"`
}

// Validate checks required fields and normalizes Count.
func (p *SearchParams) Validate() error {
	if p.Niche == "" {
		return eris.New("model: niche is required")
	}
	if p.Location == "" {
		return eris.New("model: location is required")
	}
	if p.Count <= 0 {
		p.Count = DefaultLeadCount
	}
	if p.Count > MaxLeadCount {
		p.Count = MaxLeadCount
	}
	if p.RadiusKM < 0 {
		return eris.Errorf("model: radius must not be negative, got %d", p.RadiusKM)
	}
	if (p.Lat == nil) != (p.Lng == nil) {
		return eris.New("model: userLat and userLng must be set together")
	}
	return nil
}

// HistoryItem records one completed search.
type HistoryItem struct {
	ID           string       `json:"id"`
	Timestamp    int64        `json:"timestamp"`
	SearchParams SearchParams `json:"searchParams"`
	ResultCount  int          `json:"resultCount"`
}

// StatusCounts holds the per-column lead counts reported in Stats.
type StatusCounts struct {
	New       int `json:"new"`
	Contacted int `json:"contacted"`
	Qualified int `json:"qualified"`
	Closed    int `json:"closed"`
}

// Stats summarizes the lead store.
type Stats struct {
	TotalLeads    int          `json:"totalLeads"`
	TotalSearches int          `json:"totalSearches"`
	LeadsByStatus StatusCounts `json:"leadsByStatus"`
	AvgScore      int          `json:"avgScore"`
}

// CitationKind distinguishes map-place citations from web citations.
type CitationKind string

const (
	CitationMap CitationKind = "map"
	CitationWeb CitationKind = "web"
)

// Citation is a grounding reference returned alongside generated text.
type Citation struct {
	Kind    CitationKind `json:"kind"`
	Title   string       `json:"title"`
	URI     string       `json:"uri"`
	PlaceID string       `json:"placeId,omitempty"`
}
