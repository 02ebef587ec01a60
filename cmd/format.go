package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/sells-group/lead-scout/internal/model"
	"github.com/sells-group/lead-scout/internal/monitoring"
	"github.com/sells-group/lead-scout/internal/store"
)

// formatLeadsList writes a tabular list of leads to w.
func formatLeadsList(out io.Writer, leads []model.Lead) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tCITY\tRATING\tSCORE\tLABEL\tSTATUS")
	_, _ = fmt.Fprintln(w, "--\t----\t----\t------\t-----\t-----\t------")
	for _, l := range leads {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			shortID(l.ID),
			clip(l.Name, 32),
			clip(orDash(l.City), 20),
			orDash(l.Rating),
			l.Score.Total,
			l.Score.Label,
			l.Status,
		)
	}
	_ = w.Flush()
}

// formatBoard writes leads grouped into the pipeline board columns.
func formatBoard(out io.Writer, leads []model.Lead) {
	board := store.GroupByStatus(leads)
	for i, col := range store.BoardColumns {
		if i > 0 {
			_, _ = fmt.Fprintln(out)
		}
		_, _ = fmt.Fprintf(out, "== %s (%d) ==\n", col, len(board[col]))
		for _, l := range board[col] {
			_, _ = fmt.Fprintf(out, "  %s  %-32s  %3d %s\n", shortID(l.ID), clip(l.Name, 32), l.Score.Total, l.Score.Label)
		}
	}
}

// formatLead writes every field of a single lead.
func formatLead(out io.Writer, l model.Lead) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	row := func(k, v string) { _, _ = fmt.Fprintf(w, "%s:\t%s\n", k, orDash(v)) }
	row("ID", l.ID)
	row("Name", l.Name)
	row("Category", l.Category)
	row("Address", l.Address)
	row("City", l.City)
	row("Phone", l.Phone)
	row("Email", l.Email)
	row("Website", l.Website)
	row("Social", l.SocialMedia)
	row("Rating", l.Rating)
	row("Reviews", fmt.Sprintf("%d", l.Reviews))
	row("Status", string(l.Status))
	row("Score", fmt.Sprintf("%d (%s)", l.Score.Total, l.Score.Label))
	row("Breakdown", fmt.Sprintf("digital %d / reputation %d / access %d",
		l.Score.Breakdown.DigitalPresence, l.Score.Breakdown.Reputation, l.Score.Breakdown.Accessibility))
	row("Opportunity", l.Score.OpportunitySignal)
	row("Analysis", l.Analysis)
	row("Notes", l.Notes)
	row("Source", l.SourceURL)
	row("Created", formatMillis(l.CreatedAt))
	row("Updated", formatMillis(l.UpdatedAt))
	_ = w.Flush()
}

// formatStats writes the dashboard counters.
func formatStats(out io.Writer, s model.Stats) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Total leads:\t%d\n", s.TotalLeads)
	_, _ = fmt.Fprintf(w, "Total searches:\t%d\n", s.TotalSearches)
	_, _ = fmt.Fprintf(w, "  New:\t%d\n", s.LeadsByStatus.New)
	_, _ = fmt.Fprintf(w, "  Contacted:\t%d\n", s.LeadsByStatus.Contacted)
	_, _ = fmt.Fprintf(w, "  Qualified:\t%d\n", s.LeadsByStatus.Qualified)
	_, _ = fmt.Fprintf(w, "  Closed:\t%d\n", s.LeadsByStatus.Closed)
	_, _ = fmt.Fprintf(w, "Avg score:\t%d\n", s.AvgScore)
	_ = w.Flush()
}

// formatHistory writes recent searches, newest first.
func formatHistory(out io.Writer, items []model.HistoryItem) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "WHEN\tNICHE\tLOCATION\tCOUNT\tRESULTS")
	_, _ = fmt.Fprintln(w, "----\t-----\t--------\t-----\t-------")
	for _, h := range items {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n",
			formatMillis(h.Timestamp),
			clip(h.SearchParams.Niche, 24),
			clip(h.SearchParams.Location, 24),
			h.SearchParams.Count,
			h.ResultCount,
		)
	}
	_ = w.Flush()
}

func formatMillis(ms int64) string {
	if ms <= 0 {
		return ""
	}
	return time.UnixMilli(ms).UTC().Format("2006-01-02 15:04")
}

// shortID trims the "lead-" prefix and keeps the first 8 characters.
func shortID(id string) string {
	const prefix = "lead-"
	if len(id) > len(prefix) && id[:len(prefix)] == prefix {
		id = id[len(prefix):]
	}
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// formatSnapshot writes a health snapshot followed by any breached alerts.
func formatSnapshot(out io.Writer, snap *monitoring.MetricsSnapshot, alerts []monitoring.Alert) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Searches (last %dh):\t%d\n", snap.LookbackHours, snap.SearchTotal)
	_, _ = fmt.Fprintf(w, "  Zero-yield:\t%d (%.1f%%)\n", snap.SearchZeroYield, snap.ZeroYieldRate*100)
	_, _ = fmt.Fprintf(w, "  Leads extracted:\t%d\n", snap.LeadsExtracted)
	_, _ = fmt.Fprintf(w, "Leads:\t%d\n", snap.LeadsTotal)
	_, _ = fmt.Fprintf(w, "  Hot:\t%d\n", snap.HotLeads)
	_, _ = fmt.Fprintf(w, "  New for %d+ days:\t%d\n", snap.StaleDays, snap.StaleNewLeads)
	_, _ = fmt.Fprintf(w, "Avg score:\t%.1f\n", snap.AvgScore)
	_ = w.Flush()

	if len(alerts) == 0 {
		_, _ = fmt.Fprintln(out, "\nNo alerts.")
		return
	}
	_, _ = fmt.Fprintln(out)
	for _, a := range alerts {
		_, _ = fmt.Fprintf(out, "[%s] %s: %s\n", a.Severity, a.Type, a.Message)
	}
}
