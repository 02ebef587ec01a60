package store

import (
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-scout/internal/model"
)

// Sort keys accepted by SortLeads.
const (
	SortName     = "name"
	SortCategory = "category"
	SortCity     = "city"
	SortAddress  = "address"
	SortRating   = "rating"
	SortReviews  = "reviews"
	SortScore    = "score"
	SortStatus   = "status"
	SortCreated  = "createdAt"
)

var sortKeys = []string{SortName, SortCategory, SortCity, SortAddress, SortRating, SortReviews, SortScore, SortStatus, SortCreated}

var ratingNumber = regexp.MustCompile(`[\d.]+`)

// ratingSortValue is the first number in a free-form rating, or -1 when
// there is none.
func ratingSortValue(raw string) float64 {
	if raw == "" || raw == "N/A" {
		return -1
	}
	m := ratingNumber.FindString(raw)
	if m == "" {
		return -1
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return -1
	}
	return v
}

func textSortValue(l model.Lead, key string) string {
	switch key {
	case SortName:
		return l.Name
	case SortCategory:
		return l.Category
	case SortCity:
		return l.City
	case SortAddress:
		return l.Address
	case SortStatus:
		return string(l.Status)
	}
	return ""
}

// SortLeads returns a sorted copy of leads. Ratings compare by their
// leading number with missing ratings lowest. Text keys compare case
// insensitively and always place empty or "N/A" values last. The sort is
// stable, so equal leads keep storage order. An empty key returns the
// copy unsorted.
func SortLeads(leads []model.Lead, key string, desc bool) ([]model.Lead, error) {
	out := slices.Clone(leads)
	if key == "" {
		return out, nil
	}
	if !slices.Contains(sortKeys, key) {
		return nil, eris.Errorf("store: unknown sort key %q (want one of %s)", key, strings.Join(sortKeys, ", "))
	}

	dir := func(c int) int {
		if desc {
			return -c
		}
		return c
	}

	var cmp func(a, b model.Lead) int
	switch key {
	case SortRating:
		cmp = func(a, b model.Lead) int {
			return dir(compareFloat(ratingSortValue(a.Rating), ratingSortValue(b.Rating)))
		}
	case SortReviews:
		cmp = func(a, b model.Lead) int { return dir(compareInt(a.Reviews, b.Reviews)) }
	case SortScore:
		cmp = func(a, b model.Lead) int { return dir(compareInt(a.Score.Total, b.Score.Total)) }
	case SortCreated:
		cmp = func(a, b model.Lead) int { return dir(compareInt(int(a.CreatedAt), int(b.CreatedAt))) }
	default:
		cmp = func(a, b model.Lead) int {
			av, bv := textSortValue(a, key), textSortValue(b, key)
			aBad, bBad := isBlank(av), isBlank(bv)
			switch {
			case aBad && bBad:
				return 0
			case aBad:
				return 1
			case bBad:
				return -1
			}
			return dir(strings.Compare(strings.ToLower(av), strings.ToLower(bv)))
		}
	}

	slices.SortStableFunc(out, cmp)
	return out, nil
}

func isBlank(v string) bool {
	return v == "" || v == "N/A"
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// FilterByStatus returns the leads whose status is one of statuses, in
// their original order. No statuses returns every lead.
func FilterByStatus(leads []model.Lead, statuses ...model.Status) []model.Lead {
	if len(statuses) == 0 {
		return slices.Clone(leads)
	}
	out := make([]model.Lead, 0, len(leads))
	for _, l := range leads {
		if slices.Contains(statuses, l.Status) {
			out = append(out, l)
		}
	}
	return out
}

// BoardColumns lists the CRM board columns in display order.
var BoardColumns = []model.Status{
	model.StatusNew,
	model.StatusContacted,
	model.StatusQualified,
	model.StatusClosed,
}

// GroupByStatus buckets leads into the board columns. Leads in statuses
// without a column are left out.
func GroupByStatus(leads []model.Lead) map[model.Status][]model.Lead {
	board := make(map[model.Status][]model.Lead, len(BoardColumns))
	for _, col := range BoardColumns {
		board[col] = FilterByStatus(leads, col)
	}
	return board
}
