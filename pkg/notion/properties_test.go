package notion

import (
	"testing"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
)

// textProp mimics a rich-text property as decoded from an API response.
func textProp(s string) *notionapi.RichTextProperty {
	return &notionapi.RichTextProperty{RichText: []notionapi.RichText{{PlainText: s}}}
}

func TestBuilders(t *testing.T) {
	title := Title("Acme Dental")
	assert.Equal(t, notionapi.PropertyTypeTitle, title.Type)
	assert.Equal(t, "Acme Dental", title.Title[0].Text.Content)

	text := Text("1 Main St")
	assert.Equal(t, notionapi.PropertyTypeRichText, text.Type)
	assert.Equal(t, "1 Main St", text.RichText[0].Text.Content)

	assert.Equal(t, "Hot", Select("Hot").Select.Name)
	assert.InDelta(t, 87, Number(87).Number, 1e-9)
	assert.Equal(t, "https://acme.example", URL("https://acme.example").URL)
	assert.Equal(t, "hi@acme.example", Email("hi@acme.example").Email)
	assert.Equal(t, "555-0100", Phone("555-0100").PhoneNumber)
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		prop notionapi.Property
		want string
	}{
		{"title", &notionapi.TitleProperty{Title: []notionapi.RichText{{PlainText: "Acme "}, {PlainText: "Dental"}}}, "Acme Dental"},
		{"rich text", textProp(" lead-1 "), "lead-1"},
		{"select", &notionapi.SelectProperty{Select: notionapi.Option{Name: "qualified"}}, "qualified"},
		{"status", &notionapi.StatusProperty{Status: notionapi.Status{Name: "contacted"}}, "contacted"},
		{"url", &notionapi.URLProperty{URL: "https://x.example"}, "https://x.example"},
		{"number", &notionapi.NumberProperty{Number: 4}, ""},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlainText(tt.prop))
		})
	}
}
