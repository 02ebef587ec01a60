package pipeline

import (
	"math"
	"strconv"
	"strings"

	"github.com/sells-group/lead-scout/internal/model"
)

const (
	defaultScore       = 50
	defaultReputation  = 50
	defaultScoreReason = "Standard lead."

	presenceWithSite    = 80
	presenceWithoutSite = 20
	accessibleScore     = 100
	ratingMultiplier    = 20
)

// ScoreFields structures the score asserted by a record. It never
// recomputes the opportunity policy; that lives in the prompt.
func ScoreFields(f Fields) model.Score {
	total := defaultScore
	if n, ok := leadingInt(f.Value(LabelScore)); ok {
		total = clamp(n, 0, 100)
	}

	presence := presenceWithoutSite
	if f.Available(LabelWebsite) {
		presence = presenceWithSite
	}

	reputation := defaultReputation
	if r, ok := leadingFloat(f.Value(LabelRating)); ok {
		reputation = clamp(int(math.Round(r*ratingMultiplier)), 0, 100)
	}

	access := 0
	if f.Available(LabelPhone) {
		access = accessibleScore
	}

	reason := f.Value(LabelScoreReason)
	if reason == "" {
		reason = defaultScoreReason
	}

	return model.Score{
		Total: total,
		Label: model.LabelFor(total),
		Breakdown: model.Breakdown{
			DigitalPresence: presence,
			Reputation:      reputation,
			Accessibility:   access,
		},
		OpportunitySignal: reason,
	}
}

// ParseReviews reads a review count such as "120", "1,204 reviews" or
// "(87)". Anything without a leading number yields 0.
func ParseReviews(raw string) int {
	s := strings.TrimLeft(strings.TrimSpace(raw), "(")
	s = strings.ReplaceAll(s, ",", "")
	n, ok := leadingInt(s)
	if !ok || n < 0 {
		return 0
	}
	return n
}

// RatingValue extracts the leading decimal of a free-form rating.
func RatingValue(raw string) (float64, bool) {
	return leadingFloat(raw)
}

// leadingInt parses the longest integer prefix of s, ignoring leading
// whitespace. "82/100" parses as 82.
func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// leadingFloat parses the longest decimal prefix of s. "4.5 stars" parses
// as 4.5.
func leadingFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	sawDigit, sawDot := false, false
	for end < len(s) {
		c := s[end]
		if c >= '0' && c <= '9' {
			sawDigit = true
		} else if c == '.' && !sawDot {
			sawDot = true
		} else {
			break
		}
		end++
	}
	if !sawDigit {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(s[:end], "."), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
