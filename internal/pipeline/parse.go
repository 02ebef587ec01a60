package pipeline

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Delimiter separates lead records in the generated text.
const Delimiter = "---LEAD_ENTRY---"

// Entry is one parsed record that passed the name check.
type Entry struct {
	Index  int
	Name   string
	Fields Fields
}

// SplitRecords splits text on delimiter and drops the preamble before the
// first delimiter. Text without any delimiter yields no records.
func SplitRecords(text, delimiter string) []string {
	parts := strings.Split(text, delimiter)
	if len(parts) < 2 {
		return nil
	}
	return parts[1:]
}

// ParseEntry tokenizes one record. A missing NAME becomes the positional
// placeholder "Unknown Lead <index>"; a present NAME that is empty or a
// single character after emphasis stripping rejects the record. Blank
// records (trailing delimiter) are rejected too.
func ParseEntry(record string, index int) (Entry, bool) {
	if strings.TrimSpace(record) == "" {
		return Entry{}, false
	}
	fields := tokenizeRecord(record)

	name, ok := fields.Get(LabelName)
	if !ok {
		name = fmt.Sprintf("Unknown Lead %d", index)
	}
	name = strings.TrimSpace(strings.ReplaceAll(name, "**", ""))
	if utf8.RuneCountInString(name) <= 1 {
		return Entry{}, false
	}

	return Entry{Index: index, Name: name, Fields: fields}, true
}

// ParseEntries parses every record in text, preserving source order, and
// returns the accepted entries along with the number of rejected records.
func ParseEntries(text, delimiter string) ([]Entry, int) {
	records := SplitRecords(text, delimiter)
	entries := make([]Entry, 0, len(records))
	dropped := 0
	for i, rec := range records {
		e, ok := ParseEntry(rec, i)
		if !ok {
			dropped++
			continue
		}
		entries = append(entries, e)
	}
	return entries, dropped
}
