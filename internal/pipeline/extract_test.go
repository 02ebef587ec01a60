package pipeline

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/lead-scout/internal/model"
)

func testExtractor(niche string) *Extractor {
	n := 0
	x := NewExtractor(niche)
	x.Now = func() time.Time { return time.UnixMilli(1_700_000_000_000) }
	x.NewID = func() string {
		n++
		return fmt.Sprintf("lead-%d", n)
	}
	return x
}

func TestExtract_EndToEnd(t *testing.T) {
	raw := "preamble\n---LEAD_ENTRY---\nNAME: Acme Dental\nADDRESS: 1 Main St\nWEBSITE: N/A\nRATING: 4.5\nPHONE: 555-1234\nSCORE: 82\n---LEAD_ENTRY---\nNAME: B\n"

	leads, err := testExtractor("Dentist").Extract(raw, nil)
	require.NoError(t, err)
	require.Len(t, leads, 1)

	l := leads[0]
	assert.Equal(t, "Acme Dental", l.Name)
	assert.Equal(t, "1 Main St", l.Address)
	assert.Equal(t, 82, l.Score.Total)
	assert.Equal(t, model.LabelHot, l.Score.Label)
	assert.Equal(t, 20, l.Score.Breakdown.DigitalPresence)
	assert.Equal(t, 90, l.Score.Breakdown.Reputation)
	assert.Equal(t, 100, l.Score.Breakdown.Accessibility)
	assert.Equal(t, model.StatusNew, l.Status)
	assert.Equal(t, model.SourceHybrid, l.Source)
	assert.Equal(t, "Dentist", l.Category)
	assert.Equal(t, "No analysis available.", l.Analysis)
	assert.Equal(t, int64(1_700_000_000_000), l.CreatedAt)
	assert.Equal(t, l.CreatedAt, l.UpdatedAt)
	assert.Equal(t, "lead-1", l.ID)
}

func TestExtract_DegenerateNameDropped(t *testing.T) {
	leads, err := testExtractor("Dentist").Extract("...\n---LEAD_ENTRY---\nNAME: X\nCATEGORY: Dentist...", nil)
	require.NoError(t, err)
	assert.Empty(t, leads)
}

func TestExtract_PlaceholderName(t *testing.T) {
	leads, err := testExtractor("Cafe").Extract("---LEAD_ENTRY---\nCITY: Austin\n", nil)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Unknown Lead 0", leads[0].Name)
}

func TestExtract_NumberedListNames(t *testing.T) {
	leads, err := testExtractor("Cafe").Extract("x\n---LEAD_ENTRY---\n1. NAME: Acme Co\n2. CITY: Austin\n", nil)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Acme Co", leads[0].Name)
	assert.Equal(t, "Austin", leads[0].City)
}

func TestExtract_EmptyResponse(t *testing.T) {
	_, err := testExtractor("Cafe").Extract("", nil)
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestExtract_NoDelimiter(t *testing.T) {
	leads, err := testExtractor("Cafe").Extract("I could not find any businesses.", nil)
	require.NoError(t, err)
	assert.Empty(t, leads)
}

func TestExtract_PreservesOrderAndFields(t *testing.T) {
	var b strings.Builder
	b.WriteString("Results:\n")
	for i := 1; i <= 5; i++ {
		fmt.Fprintf(&b, "---LEAD_ENTRY---\nNAME: Business %d\nCATEGORY: Bakery\nCITY: Austin\nEMAIL: b%d@example.com\nSOCIAL: instagram.com/b%d\nREVIEWS: 1,0%d0\nANALYSIS: Weak site.\n", i, i, i, i)
	}

	res, err := testExtractor("Cafe").Run(b.String(), nil)
	require.NoError(t, err)
	require.Len(t, res.Leads, 5)
	assert.Zero(t, res.Dropped)
	for i, l := range res.Leads {
		assert.Equal(t, fmt.Sprintf("Business %d", i+1), l.Name)
		assert.Equal(t, fmt.Sprintf("lead-%d", i+1), l.ID)
	}
	first := res.Leads[0]
	assert.Equal(t, "Bakery", first.Category)
	assert.Equal(t, "Austin", first.City)
	assert.Equal(t, "b1@example.com", first.Email)
	assert.Equal(t, "instagram.com/b1", first.SocialMedia)
	assert.Equal(t, 1010, first.Reviews)
	assert.Equal(t, "Weak site.", first.Analysis)
	assert.Equal(t, b.String(), res.Raw)
}

func TestExtract_SourceURL(t *testing.T) {
	citations := []model.Citation{
		{Kind: model.CitationMap, Title: "ACME DENTAL - Austin", URI: "https://maps.example/acme"},
		{Kind: model.CitationWeb, Title: "Acme Dental reviews", URI: "https://web.example/acme"},
		{Kind: model.CitationWeb, Title: "Bright Smiles", URI: "https://web.example/bright"},
	}
	raw := "---LEAD_ENTRY---\nNAME: Acme Dental\nWEBSITE: N/A\n" +
		"---LEAD_ENTRY---\nNAME: Bright Smiles\nWEBSITE: https://brightsmiles.example\n" +
		"---LEAD_ENTRY---\nNAME: Nowhere Clinic\n"

	leads, err := testExtractor("Dentist").Extract(raw, citations)
	require.NoError(t, err)
	require.Len(t, leads, 3)
	assert.Equal(t, "https://maps.example/acme", leads[0].SourceURL)
	assert.Equal(t, "https://brightsmiles.example", leads[1].SourceURL)
	assert.Empty(t, leads[2].SourceURL)
}

func TestMatchCitation(t *testing.T) {
	cites := []model.Citation{
		{Title: "Straße Bakery", URI: "u1"},
		{Title: "Joe's Pizza", URI: "u2"},
	}
	c, ok := MatchCitation("STRASSE BAKERY", cites)
	require.True(t, ok)
	assert.Equal(t, "u1", c.URI)

	c, ok = MatchCitation("joe's", cites)
	require.True(t, ok)
	assert.Equal(t, "u2", c.URI)

	_, ok = MatchCitation("Nobody", cites)
	assert.False(t, ok)
	_, ok = MatchCitation("", cites)
	assert.False(t, ok)
	_, ok = MatchCitation("Joe", nil)
	assert.False(t, ok)
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt(model.SearchParams{Niche: "Dentists", Location: "Austin, TX", Count: 12, RadiusKM: 5})
	assert.Contains(t, p, "identify 12 Dentists businesses in Austin, TX (within 5 km)")
	assert.Contains(t, p, Delimiter)
	assert.Contains(t, p, "HIGH OPPORTUNITY")
	assert.Contains(t, p, "Limit to 12 results.")
	for label := range labelTable {
		assert.Contains(t, p, label+": ")
	}

	noRadius := BuildPrompt(model.SearchParams{Niche: "Cafes", Location: "Boise", Count: 3})
	assert.NotContains(t, noRadius, "within")
}

func TestBuildPrompt_FormatRoundTrips(t *testing.T) {
	// The format block in the prompt must itself parse as one entry.
	p := BuildPrompt(model.SearchParams{Niche: "Cafes", Location: "Boise", Count: 3})
	idx := strings.LastIndex(p, Delimiter+"\n")
	require.Positive(t, idx)

	entries, dropped := ParseEntries(p[idx:], Delimiter)
	require.Len(t, entries, 1)
	assert.Zero(t, dropped)
	assert.Equal(t, "[Business Name]", entries[0].Name)
	assert.Len(t, entries[0].Fields, len(labelTable))
}
