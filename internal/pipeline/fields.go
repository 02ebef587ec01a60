package pipeline

import (
	"strings"
)

// Field labels recognized by the record tokenizer.
const (
	LabelName        = "NAME"
	LabelCategory    = "CATEGORY"
	LabelAddress     = "ADDRESS"
	LabelCity        = "CITY"
	LabelPhone       = "PHONE"
	LabelEmail       = "EMAIL"
	LabelWebsite     = "WEBSITE"
	LabelSocial      = "SOCIAL"
	LabelRating      = "RATING"
	LabelReviews     = "REVIEWS"
	LabelScore       = "SCORE"
	LabelScoreReason = "SCORE_REASON"
	LabelAnalysis    = "ANALYSIS"
)

// labelTable is the fixed set of labels a record line may start with.
var labelTable = map[string]bool{
	LabelName:        true,
	LabelCategory:    true,
	LabelAddress:     true,
	LabelCity:        true,
	LabelPhone:       true,
	LabelEmail:       true,
	LabelWebsite:     true,
	LabelSocial:      true,
	LabelRating:      true,
	LabelReviews:     true,
	LabelScore:       true,
	LabelScoreReason: true,
	LabelAnalysis:    true,
}

// notAvailable is the literal the prompt asks for when a value is unknown.
const notAvailable = "N/A"

// Fields holds the labeled values of one record. A label that never
// appeared is missing, which is distinct from present-but-empty.
type Fields map[string]string

// Get returns the value for label and whether it was present.
func (f Fields) Get(label string) (string, bool) {
	v, ok := f[label]
	return v, ok
}

// Value returns the value for label, or "" when missing.
func (f Fields) Value(label string) string {
	return f[label]
}

// Available reports whether label is present, non-empty and not "N/A".
func (f Fields) Available(label string) bool {
	v, ok := f[label]
	if !ok || v == "" {
		return false
	}
	return !strings.EqualFold(v, notAvailable)
}

// tokenizeRecord scans a record line by line and collects labeled values.
// The first occurrence of a label wins.
func tokenizeRecord(record string) Fields {
	fields := make(Fields)
	for _, line := range strings.Split(record, "\n") {
		label, value, ok := tokenizeLine(line)
		if !ok {
			continue
		}
		if _, seen := fields[label]; seen {
			continue
		}
		fields[label] = value
	}
	return fields
}

// tokenizeLine recognizes `LABEL: value` lines. Leading whitespace, list
// bullets, numbered list markers ("1." or "2)") and emphasis markers
// before the label are ignored, as are emphasis markers between the label
// and the colon.
func tokenizeLine(line string) (string, string, bool) {
	s := strings.TrimSpace(strings.TrimSuffix(line, "\r"))
	s = strings.TrimLeft(s, "-*• \t")
	s = strings.TrimLeft(trimListNumber(s), "-*• \t")

	end := 0
	for end < len(s) && isLabelByte(s[end]) {
		end++
	}
	if end == 0 {
		return "", "", false
	}
	label := strings.ToUpper(s[:end])
	if !labelTable[label] {
		return "", "", false
	}

	rest := strings.TrimLeft(s[end:], "* \t")
	if !strings.HasPrefix(rest, ":") {
		return "", "", false
	}
	value := strings.TrimPrefix(rest, ":")
	value = strings.TrimSpace(value)
	if strings.HasPrefix(value, "**") {
		value = strings.TrimSpace(strings.TrimPrefix(value, "**"))
	}
	return label, value, true
}

// trimListNumber drops a leading "12." or "12)" marker.
func trimListNumber(s string) string {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 || i == len(s) || (s[i] != '.' && s[i] != ')') {
		return s
	}
	return s[i+1:]
}

func isLabelByte(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}
