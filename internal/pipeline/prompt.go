package pipeline

import (
	"fmt"
	"strings"

	"github.com/sells-group/lead-scout/internal/model"
)

// SystemPrompt frames the model as a market analyst.
const SystemPrompt = "You are a business intelligence analyst who finds local businesses " +
	"and judges how much they would benefit from digital services."

// BuildPrompt renders the lead search prompt. The output format section is
// the contract the record tokenizer relies on.
func BuildPrompt(p model.SearchParams) string {
	var b strings.Builder

	area := p.Location
	if p.RadiusKM > 0 {
		area = fmt.Sprintf("%s (within %d km)", p.Location, p.RadiusKM)
	}

	fmt.Fprintf(&b, "Task: Conduct a deep market sweep to identify %d %s businesses in %s.\n\n", p.Count, p.Niche, area)

	b.WriteString("Strategy:\n")
	b.WriteString("1. Use map and place listings to identify operational businesses.\n")
	b.WriteString("2. Use web search to enrich contact details, social profiles and reputation.\n")
	b.WriteString("3. Rate each business with an Opportunity Score (0-100) based on digital maturity: website quality, reviews, social presence.\n\n")

	b.WriteString("Requirements:\n")
	b.WriteString("- Maximize variety. Do not only pick the top rated businesses.\n")
	b.WriteString("- A business with no website is a HIGH OPPORTUNITY lead (needs web services).\n")
	b.WriteString("- A business with bad reviews is a HIGH OPPORTUNITY lead (needs reputation management).\n")
	fmt.Fprintf(&b, "- Return exactly %d results if available.\n\n", p.Count)

	b.WriteString("Output Format:\n")
	fmt.Fprintf(&b, "Strictly follow this text format for EACH business, separated by %q.\n\n", Delimiter)
	b.WriteString(Delimiter + "\n")
	for _, line := range []struct{ label, hint string }{
		{LabelName, "[Business Name]"},
		{LabelCategory, "[Specific Category]"},
		{LabelAddress, "[Full Address]"},
		{LabelCity, "[City Name]"},
		{LabelPhone, `[Phone or "N/A"]`},
		{LabelEmail, `[Email or "N/A"]`},
		{LabelWebsite, `[URL or "N/A"]`},
		{LabelSocial, `[Social Links or "N/A"]`},
		{LabelRating, "[Rating (e.g. 4.5)]"},
		{LabelReviews, "[Review Count (e.g. 120)]"},
		{LabelScore, "[0-100]"},
		{LabelScoreReason, `[Why this score? e.g. "No website, high ratings = High Potential"]`},
		{LabelAnalysis, "[Brief strategic analysis of their digital footprint]"},
	} {
		fmt.Fprintf(&b, "%s: %s\n", line.label, line.hint)
	}
	fmt.Fprintf(&b, "\nLimit to %d results.\n", p.Count)

	return b.String()
}
