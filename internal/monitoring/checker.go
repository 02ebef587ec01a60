package monitoring

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/lead-scout/internal/config"
)

const defaultCheckInterval = 5 * time.Minute

// Checker evaluates the lead store on a fixed interval and posts alerts
// when a threshold is first breached. An alert that stays breached is not
// re-sent until it clears and trips again.
type Checker struct {
	collector *Collector
	alerter   *Alerter
	cfg       config.MonitoringConfig

	mu     sync.Mutex
	active map[AlertType]bool
	last   *MetricsSnapshot
}

// NewChecker creates a background alert checker.
func NewChecker(collector *Collector, alerter *Alerter, cfg config.MonitoringConfig) *Checker {
	return &Checker{
		collector: collector,
		alerter:   alerter,
		cfg:       cfg,
		active:    make(map[AlertType]bool),
	}
}

// Run checks once immediately and then on every interval until ctx is
// cancelled.
func (c *Checker) Run(ctx context.Context) {
	interval := time.Duration(c.cfg.CheckIntervalSecs) * time.Second
	if interval <= 0 {
		interval = defaultCheckInterval
	}

	log := zap.L().With(zap.String("component", "monitoring.checker"))
	log.Info("starting lead checker",
		zap.Duration("interval", interval),
		zap.Int("lookback_hours", c.cfg.LookbackWindowHours),
		zap.Int("stale_days", c.cfg.StaleLeadDays),
	)

	if ctx.Err() == nil {
		c.tick(ctx, log)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("lead checker stopped")
			return
		case <-ticker.C:
			c.tick(ctx, log)
		}
	}
}

// Check collects a snapshot and returns the alerts it breaches without
// sending anything.
func (c *Checker) Check(ctx context.Context) (*MetricsSnapshot, []Alert, error) {
	snap, err := c.collector.Collect(ctx, c.cfg.LookbackWindowHours, c.cfg.StaleLeadDays)
	if err != nil {
		return nil, nil, err
	}

	c.mu.Lock()
	c.last = snap
	c.mu.Unlock()

	return snap, c.alerter.Evaluate(snap), nil
}

// Last returns the most recent snapshot, or nil before the first check.
func (c *Checker) Last() *MetricsSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

func (c *Checker) tick(ctx context.Context, log *zap.Logger) {
	_, alerts, err := c.Check(ctx)
	if err != nil {
		log.Error("monitoring: collect failed", zap.Error(err))
		return
	}

	fresh := c.transition(alerts, log)
	if len(fresh) == 0 {
		log.Debug("monitoring: nothing new to report", zap.Int("active", len(alerts)))
		return
	}

	sent := c.alerter.SendAlerts(ctx, fresh)
	log.Info("monitoring: check complete",
		zap.Int("alerts_active", len(alerts)),
		zap.Int("alerts_new", len(fresh)),
		zap.Int("alerts_sent", sent),
	)
}

// transition records which alert types are now breached and returns the
// alerts that were not breached on the previous check.
func (c *Checker) transition(alerts []Alert, log *zap.Logger) []Alert {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := make(map[AlertType]bool, len(alerts))
	var fresh []Alert
	for _, a := range alerts {
		now[a.Type] = true
		if !c.active[a.Type] {
			fresh = append(fresh, a)
		}
	}
	for t := range c.active {
		if !now[t] {
			log.Info("monitoring: alert cleared", zap.String("type", string(t)))
		}
	}
	c.active = now
	return fresh
}
