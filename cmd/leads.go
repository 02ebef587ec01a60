package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/lead-scout/internal/export"
	"github.com/sells-group/lead-scout/internal/model"
	"github.com/sells-group/lead-scout/internal/pipeline"
	"github.com/sells-group/lead-scout/internal/store"
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "Browse and triage saved leads",
}

// -- leads list --

var leadsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved leads",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		statusFlags, _ := cmd.Flags().GetStringSlice("status")
		sortKey, _ := cmd.Flags().GetString("sort")
		desc, _ := cmd.Flags().GetBool("desc")
		board, _ := cmd.Flags().GetBool("board")
		asJSON, _ := cmd.Flags().GetBool("json")

		leads, err := listLeads(ctx, st, statusFlags, sortKey, desc)
		if err != nil {
			return err
		}

		switch {
		case asJSON:
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(leads)
		case board:
			formatBoard(os.Stdout, leads)
		case len(leads) == 0:
			fmt.Fprintln(os.Stderr, "No leads found.")
		default:
			formatLeadsList(os.Stdout, leads)
		}
		return nil
	},
}

// listLeads loads, filters and sorts leads for display.
func listLeads(ctx context.Context, st *store.LeadStore, statusFlags []string, sortKey string, desc bool) ([]model.Lead, error) {
	statuses := make([]model.Status, 0, len(statusFlags))
	for _, raw := range statusFlags {
		s, err := model.ParseStatus(raw)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, s)
	}

	leads, err := st.GetAll(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "leads list")
	}
	return store.SortLeads(store.FilterByStatus(leads, statuses...), sortKey, desc)
}

// -- leads show --

var leadsShowCmd = &cobra.Command{
	Use:   "show <lead-id>",
	Short: "Show every field of a lead",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		lead, err := resolveLead(ctx, st, args[0])
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(lead)
		}
		formatLead(os.Stdout, *lead)
		return nil
	},
}

// -- leads status --

var leadsStatusCmd = &cobra.Command{
	Use:   "status <lead-id> <status>",
	Short: "Move a lead to another pipeline status",
	Long:  "Valid statuses: new, contacted, follow_up, qualified, closed, disqualified.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := model.ParseStatus(args[1])
		if err != nil {
			return err
		}
		return patchLead(cmd.Context(), args[0], model.LeadPatch{Status: &status})
	},
}

// -- leads note --

var leadsNoteCmd = &cobra.Command{
	Use:   "note <lead-id> <text>",
	Short: "Replace a lead's notes",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		notes := strings.Join(args[1:], " ")
		return patchLead(cmd.Context(), args[0], model.LeadPatch{Notes: &notes})
	},
}

func patchLead(ctx context.Context, ref string, patch model.LeadPatch) error {
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	lead, err := resolveLead(ctx, st, ref)
	if err != nil {
		return err
	}
	if _, err := st.Update(ctx, lead.ID, patch); err != nil {
		return eris.Wrap(err, "leads update")
	}
	fmt.Fprintf(os.Stderr, "Updated %s (%s).\n", lead.Name, shortID(lead.ID))
	return nil
}

// -- leads delete --

var leadsDeleteCmd = &cobra.Command{
	Use:   "delete <lead-id>",
	Short: "Delete a lead",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		lead, err := resolveLead(ctx, st, args[0])
		if err != nil {
			return err
		}
		if _, err := st.Delete(ctx, lead.ID); err != nil {
			return eris.Wrap(err, "leads delete")
		}
		fmt.Fprintf(os.Stderr, "Deleted %s (%s).\n", lead.Name, shortID(lead.ID))
		return nil
	},
}

// -- leads import --

var leadsImportCmd = &cobra.Command{
	Use:   "import <file.xlsx>",
	Short: "Import leads from a workbook in the export layout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		category, _ := cmd.Flags().GetString("category")

		rows, err := export.ReadXLSX(args[0])
		if err != nil {
			return err
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		leads := prepareImported(rows, category, time.Now())
		added, err := st.InsertWithDedup(ctx, leads)
		if err != nil {
			return eris.Wrap(err, "leads import")
		}
		fmt.Fprintf(os.Stderr, "Imported %d of %d rows (%d duplicates skipped).\n", added, len(leads), len(leads)-added)
		return nil
	},
}

// prepareImported fills identity, pipeline and score fields for rows read
// from a workbook. The score is derived from the contact fields alone.
func prepareImported(rows []model.Lead, category string, now time.Time) []model.Lead {
	ts := now.UnixMilli()
	out := make([]model.Lead, 0, len(rows))
	for _, l := range rows {
		l.ID = model.NewLeadID()
		if l.Category == "" {
			l.Category = category
		}
		l.Status = model.StatusNew
		l.Source = model.SourceImport
		l.Score = pipeline.ScoreFields(pipeline.Fields{
			pipeline.LabelWebsite: l.Website,
			pipeline.LabelPhone:   l.Phone,
			pipeline.LabelRating:  l.Rating,
		})
		l.CreatedAt, l.UpdatedAt = ts, ts
		out = append(out, l)
	}
	return out
}

// resolveLead finds a lead by full ID or by a unique ID prefix as printed
// in lists.
func resolveLead(ctx context.Context, st *store.LeadStore, ref string) (*model.Lead, error) {
	if l, err := st.Get(ctx, ref); err != nil {
		return nil, eris.Wrap(err, "find lead")
	} else if l != nil {
		return l, nil
	}

	leads, err := st.GetAll(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "find lead")
	}
	prefix := strings.TrimPrefix(ref, "lead-")
	var match *model.Lead
	for i := range leads {
		if !strings.HasPrefix(strings.TrimPrefix(leads[i].ID, "lead-"), prefix) {
			continue
		}
		if match != nil {
			return nil, eris.Errorf("lead id %q is ambiguous", ref)
		}
		match = &leads[i]
	}
	if match == nil {
		return nil, eris.Errorf("lead %q not found", ref)
	}
	return match, nil
}

func init() {
	leadsListCmd.Flags().StringSlice("status", nil, "only show leads in these statuses (repeatable)")
	leadsListCmd.Flags().String("sort", "", "sort key: name, category, city, address, rating, reviews, score, status, createdAt")
	leadsListCmd.Flags().Bool("desc", false, "sort descending")
	leadsListCmd.Flags().Bool("board", false, "group leads into pipeline board columns")
	leadsListCmd.Flags().Bool("json", false, "print leads as JSON")

	leadsShowCmd.Flags().Bool("json", false, "print the lead as JSON")

	leadsImportCmd.Flags().String("category", "Imported", "category for rows without one")

	leadsCmd.AddCommand(leadsListCmd)
	leadsCmd.AddCommand(leadsShowCmd)
	leadsCmd.AddCommand(leadsStatusCmd)
	leadsCmd.AddCommand(leadsNoteCmd)
	leadsCmd.AddCommand(leadsDeleteCmd)
	leadsCmd.AddCommand(leadsImportCmd)
	rootCmd.AddCommand(leadsCmd)
}
