package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/lead-scout/internal/monitoring"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Lead and search health checks",
}

var monitorCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Collect a health snapshot and evaluate alert thresholds once",
	Long:  "Prints search yield and lead staleness over the configured lookback window. With --send, breached alerts are posted to monitoring.webhook_url.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		alerter := monitoring.NewAlerter(cfg.Monitoring)
		checker := monitoring.NewChecker(monitoring.NewCollector(st), alerter, cfg.Monitoring)

		snap, alerts, err := checker.Check(ctx)
		if err != nil {
			return eris.Wrap(err, "monitor check")
		}

		if send, _ := cmd.Flags().GetBool("send"); send && len(alerts) > 0 {
			if cfg.Monitoring.WebhookURL == "" {
				return eris.New("monitor check: --send needs monitoring.webhook_url")
			}
			sent := alerter.SendAlerts(ctx, alerts)
			fmt.Fprintf(os.Stderr, "Sent %d of %d alerts.\n", sent, len(alerts))
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Snapshot *monitoring.MetricsSnapshot `json:"snapshot"`
				Alerts   []monitoring.Alert          `json:"alerts"`
			}{snap, alerts})
		}
		formatSnapshot(os.Stdout, snap, alerts)
		return nil
	},
}

func init() {
	monitorCheckCmd.Flags().Bool("send", false, "post breached alerts to the webhook")
	monitorCheckCmd.Flags().Bool("json", false, "print the snapshot and alerts as JSON")
	monitorCmd.AddCommand(monitorCheckCmd)
	rootCmd.AddCommand(monitorCmd)
}
