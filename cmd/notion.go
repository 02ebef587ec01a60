package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/lead-scout/internal/crmsync"
	"github.com/sells-group/lead-scout/internal/model"
	"github.com/sells-group/lead-scout/pkg/notion"
)

var notionCmd = &cobra.Command{
	Use:   "notion",
	Short: "Mirror leads into a Notion database",
}

var notionSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Push leads to Notion and optionally pull back status changes",
	Long:  "Creates or updates one Notion page per lead, keyed by the \"Lead ID\" property. With --pull, statuses edited in Notion are applied locally first so the push does not overwrite them.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("notion"); err != nil {
			return err
		}
		pull, _ := cmd.Flags().GetBool("pull")

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		syncer := crmsync.New(
			notion.NewClient(cfg.Notion.Token, notion.WithRateLimit(cfg.Notion.RateLimit)),
			cfg.Notion.LeadDB,
		)

		leads, err := st.GetAll(ctx)
		if err != nil {
			return eris.Wrap(err, "notion sync")
		}

		if pull {
			changes, err := syncer.PullStatuses(ctx, leads)
			if err != nil {
				return err
			}
			for _, c := range changes {
				status := c.Status
				if _, err := st.Update(ctx, c.LeadID, model.LeadPatch{Status: &status}); err != nil {
					return eris.Wrap(err, "notion sync: apply status")
				}
				zap.L().Info("notion: pulled status", zap.String("lead_id", c.LeadID), zap.String("status", string(c.Status)))
			}
			fmt.Fprintf(os.Stderr, "Pulled %d status changes.\n", len(changes))

			if leads, err = st.GetAll(ctx); err != nil {
				return eris.Wrap(err, "notion sync")
			}
		}

		res, err := syncer.Push(ctx, leads)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Created %d, updated %d, failed %d.\n", res.Created, res.Updated, res.Failed)
		if res.Failed > 0 {
			return eris.Errorf("notion sync: %d leads failed", res.Failed)
		}
		return nil
	},
}

func init() {
	notionSyncCmd.Flags().Bool("pull", false, "apply statuses edited in Notion before pushing")
	notionCmd.AddCommand(notionSyncCmd)
	rootCmd.AddCommand(notionCmd)
}
