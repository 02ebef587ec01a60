package pipeline

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/sells-group/lead-scout/internal/model"
)

// MatchCitation returns the first citation whose title contains name,
// compared with Unicode case folding. List order decides ties.
func MatchCitation(name string, citations []model.Citation) (model.Citation, bool) {
	if name == "" {
		return model.Citation{}, false
	}
	fold := cases.Fold()
	needle := fold.String(name)
	for _, c := range citations {
		if strings.Contains(fold.String(c.Title), needle) {
			return c, true
		}
	}
	return model.Citation{}, false
}

// SourceURL picks the lead's source link: the stated website when one is
// available, else the URI of the matched citation, else empty.
func SourceURL(f Fields, name string, citations []model.Citation) string {
	if f.Available(LabelWebsite) {
		return f.Value(LabelWebsite)
	}
	if c, ok := MatchCitation(name, citations); ok {
		return c.URI
	}
	return ""
}
