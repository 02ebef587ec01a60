package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertSQL(t *testing.T) {
	sql, err := UpsertSQL(UpsertConfig{
		Table:        "lead_blobs",
		Columns:      []string{"key", "data", "updated_at"},
		ConflictKeys: []string{"key"},
	})
	require.NoError(t, err)
	assert.Equal(t,
		`INSERT INTO "lead_blobs" ("key", "data", "updated_at") VALUES ($1, $2, $3) ON CONFLICT ("key") DO UPDATE SET "data" = EXCLUDED."data", "updated_at" = EXCLUDED."updated_at"`,
		sql)
}

func TestUpsertSQL_ExplicitUpdateCols(t *testing.T) {
	sql, err := UpsertSQL(UpsertConfig{
		Table:        "leadscout.lead_blobs",
		Columns:      []string{"key", "data", "updated_at"},
		ConflictKeys: []string{"key"},
		UpdateCols:   []string{"data"},
	})
	require.NoError(t, err)
	assert.Contains(t, sql, `INSERT INTO "leadscout"."lead_blobs"`)
	assert.Contains(t, sql, `DO UPDATE SET "data" = EXCLUDED."data"`)
	assert.NotContains(t, sql, `"updated_at" = EXCLUDED`)
}

func TestUpsertSQL_DoNothing(t *testing.T) {
	sql, err := UpsertSQL(UpsertConfig{
		Table:        "seen",
		Columns:      []string{"key"},
		ConflictKeys: []string{"key"},
	})
	require.NoError(t, err)
	assert.Contains(t, sql, "ON CONFLICT (\"key\") DO NOTHING")
}

func TestUpsertSQL_NoColumns(t *testing.T) {
	_, err := UpsertSQL(UpsertConfig{
		Table:        "lead_blobs",
		ConflictKeys: []string{"key"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no columns specified")
}

func TestUpsertSQL_NoConflictKeys(t *testing.T) {
	_, err := UpsertSQL(UpsertConfig{
		Table:   "lead_blobs",
		Columns: []string{"key", "data"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no conflict keys specified")
}

func TestSanitizeTable(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"simple", `"simple"`},
		{"leadscout.lead_blobs", `"leadscout"."lead_blobs"`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := sanitizeTable(tt.input)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestQuoteAndJoin(t *testing.T) {
	result := quoteAndJoin([]string{"key", "data", "updated_at"})
	assert.Equal(t, `"key", "data", "updated_at"`, result)
}
