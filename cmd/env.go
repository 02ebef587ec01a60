package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-scout/internal/cost"
	"github.com/sells-group/lead-scout/internal/monitoring"
	"github.com/sells-group/lead-scout/internal/pipeline"
	"github.com/sells-group/lead-scout/internal/store"
	"github.com/sells-group/lead-scout/internal/textgen"
)

// openStore validates the store section and opens the configured backend.
func openStore(ctx context.Context) (*store.LeadStore, error) {
	if err := cfg.Validate("store"); err != nil {
		return nil, err
	}
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}
	return st, nil
}

// newRunner wires the configured text provider to sink. metrics may be nil.
func newRunner(sink pipeline.LeadSink, metrics *monitoring.Metrics) (*pipeline.Runner, error) {
	var obs textgen.Observer
	if metrics != nil {
		obs = metrics
	}

	svc, err := textgen.New(cfg, obs)
	if err != nil {
		return nil, eris.Wrap(err, "init text provider")
	}

	runner := pipeline.NewRunner(svc, sink, textgen.Grounding{
		Maps: cfg.AI.MapGrounding,
		Web:  cfg.AI.WebGrounding,
	})
	runner.MaxTokens = cfg.AI.MaxTokens
	runner.Pricing = cost.NewCalculator(cost.DefaultRates())
	if metrics != nil {
		runner.Recorder = metrics
	}
	return runner, nil
}
