package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/lead-scout/internal/model"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Find, score and save new leads for a niche and location",
	Example: `  lead-scout search --niche "Dentists" --location "Austin, TX" --count 20
  lead-scout search --niche plumbers --location Denver --lat 39.74 --lng -104.99 --radius 15`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("search"); err != nil {
			return err
		}

		params, err := searchParamsFromFlags(cmd)
		if err != nil {
			return err
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		runner, err := newRunner(st, nil)
		if err != nil {
			return err
		}
		runner.OnProgress = func(line string) {
			fmt.Fprintln(os.Stderr, line)
		}

		res, err := runner.Search(ctx, params)
		if err != nil {
			return eris.Wrap(err, "search")
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}

		if res.CostUSD > 0 {
			fmt.Fprintf(os.Stderr, "Model %s, %d in / %d out tokens, $%.4f\n",
				res.Model, res.Usage.InputTokens, res.Usage.OutputTokens, res.CostUSD)
		}
		if len(res.Leads) == 0 {
			fmt.Fprintln(os.Stderr, "No new leads.")
			return nil
		}
		formatLeadsList(os.Stdout, res.Leads)
		return nil
	},
}

func searchParamsFromFlags(cmd *cobra.Command) (model.SearchParams, error) {
	flags := cmd.Flags()
	niche, _ := flags.GetString("niche")
	location, _ := flags.GetString("location")
	count, _ := flags.GetInt("count")
	radius, _ := flags.GetInt("radius")

	params := model.SearchParams{
		Niche:    niche,
		Location: location,
		Count:    count,
		RadiusKM: radius,
	}
	if flags.Changed("lat") || flags.Changed("lng") {
		if !flags.Changed("lat") || !flags.Changed("lng") {
			return params, eris.New("search: --lat and --lng must be given together")
		}
		lat, _ := flags.GetFloat64("lat")
		lng, _ := flags.GetFloat64("lng")
		params.Lat, params.Lng = &lat, &lng
	}
	return params, nil
}

func addSearchFlags(cmd *cobra.Command) {
	cmd.Flags().String("niche", "", "business niche to search for (required)")
	cmd.Flags().String("location", "", "city or region to search in (required)")
	cmd.Flags().Int("count", model.DefaultLeadCount, fmt.Sprintf("number of leads to request (max %d)", model.MaxLeadCount))
	cmd.Flags().Int("radius", 0, "search radius in km around --lat/--lng")
	cmd.Flags().Float64("lat", 0, "latitude to bias map results toward")
	cmd.Flags().Float64("lng", 0, "longitude to bias map results toward")
	cmd.Flags().Bool("json", false, "print the full search result as JSON")
}

func init() {
	addSearchFlags(searchCmd)
	_ = searchCmd.MarkFlagRequired("niche")
	_ = searchCmd.MarkFlagRequired("location")
	rootCmd.AddCommand(searchCmd)
}
