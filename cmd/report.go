package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/lead-scout/internal/export"
)

// -- stats --

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show lead and search totals",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		stats, err := st.GetStats(ctx)
		if err != nil {
			return eris.Wrap(err, "stats")
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(stats)
		}
		formatStats(os.Stdout, *stats)
		return nil
	},
}

// -- history --

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent searches",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		items, err := st.GetHistory(ctx)
		if err != nil {
			return eris.Wrap(err, "history")
		}
		if len(items) == 0 {
			fmt.Fprintln(os.Stderr, "No searches yet.")
			return nil
		}
		formatHistory(os.Stdout, items)
		return nil
	},
}

// -- export --

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export leads to CSV or XLSX",
	Long:  "Writes every saved lead, or only those matching --status, to leadgen_export_<date>.<format> unless --out is given. Use --out - to write to stdout.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		format, _ := cmd.Flags().GetString("format")
		if format != "csv" && format != "xlsx" {
			return eris.Errorf("export: unknown format %q (want csv or xlsx)", format)
		}
		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			out = export.Filename(time.Now(), format)
		}
		statusFlags, _ := cmd.Flags().GetStringSlice("status")

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		leads, err := listLeads(ctx, st, statusFlags, "", false)
		if err != nil {
			return err
		}

		w := os.Stdout
		if out != "-" {
			f, err := os.Create(out)
			if err != nil {
				return eris.Wrapf(err, "export: create %s", out)
			}
			defer f.Close() //nolint:errcheck
			w = f
		}

		switch format {
		case "csv":
			if _, err := fmt.Fprint(w, export.CSV(leads)); err != nil {
				return eris.Wrap(err, "export: write csv")
			}
		case "xlsx":
			if err := export.XLSX(w, leads); err != nil {
				return err
			}
		}

		if out != "-" {
			fmt.Fprintf(os.Stderr, "Exported %d leads to %s.\n", len(leads), out)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().Bool("json", false, "print stats as JSON")

	exportCmd.Flags().String("format", "csv", "output format: csv or xlsx")
	exportCmd.Flags().String("out", "", "output path (default leadgen_export_<date>.<format>)")
	exportCmd.Flags().StringSlice("status", nil, "only export leads in these statuses")

	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(exportCmd)
}
