package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lead-scout/internal/config"
)

// AlertType identifies the kind of alert.
type AlertType string

const (
	AlertZeroYieldRate AlertType = "zero_yield_rate"
	AlertStaleLeads    AlertType = "stale_leads"
)

// minSearchesForRate is the fewest searches in the window before the
// zero-yield rate is trusted.
const minSearchesForRate = 5

// Alert represents a single alert to be sent.
type Alert struct {
	Type      AlertType      `json:"type"`
	Severity  string         `json:"severity"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Alerter evaluates a MetricsSnapshot against configured thresholds
// and sends alerts via webhook when thresholds are breached.
type Alerter struct {
	cfg    config.MonitoringConfig
	client *http.Client
}

// NewAlerter creates a new Alerter with the given monitoring config.
func NewAlerter(cfg config.MonitoringConfig) *Alerter {
	return &Alerter{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Evaluate checks the snapshot against thresholds and returns any alerts.
func (a *Alerter) Evaluate(snap *MetricsSnapshot) []Alert {
	var alerts []Alert
	now := time.Now().UTC()

	// Searches that keep coming back empty usually mean the provider's
	// output drifted from the record format.
	if snap.SearchTotal >= minSearchesForRate && a.cfg.ZeroYieldThreshold > 0 && snap.ZeroYieldRate > a.cfg.ZeroYieldThreshold {
		alerts = append(alerts, Alert{
			Type:     AlertZeroYieldRate,
			Severity: "high",
			Message: fmt.Sprintf(
				"Zero-yield search rate %.1f%% exceeds threshold %.1f%% (%d empty / %d searches in last %dh)",
				snap.ZeroYieldRate*100, a.cfg.ZeroYieldThreshold*100,
				snap.SearchZeroYield, snap.SearchTotal, snap.LookbackHours,
			),
			Details: map[string]any{
				"zero_yield_rate": snap.ZeroYieldRate,
				"threshold":       a.cfg.ZeroYieldThreshold,
				"zero_yield":      snap.SearchZeroYield,
				"searches":        snap.SearchTotal,
			},
			Timestamp: now,
		})
	}

	if a.cfg.StaleLeadThreshold > 0 && snap.StaleNewLeads >= a.cfg.StaleLeadThreshold {
		alerts = append(alerts, Alert{
			Type:     AlertStaleLeads,
			Severity: "medium",
			Message: fmt.Sprintf(
				"%d leads still new after %d days",
				snap.StaleNewLeads, snap.StaleDays,
			),
			Details: map[string]any{
				"stale_new_leads": snap.StaleNewLeads,
				"threshold":       a.cfg.StaleLeadThreshold,
				"leads_total":     snap.LeadsTotal,
			},
			Timestamp: now,
		})
	}

	return alerts
}

// SendAlerts delivers alerts to the configured webhook URL.
// Returns the number of alerts successfully sent.
func (a *Alerter) SendAlerts(ctx context.Context, alerts []Alert) int {
	if a.cfg.WebhookURL == "" || len(alerts) == 0 {
		return 0
	}

	sent := 0
	for _, alert := range alerts {
		if err := a.sendWebhook(ctx, alert); err != nil {
			zap.L().Error("monitoring: failed to send alert",
				zap.String("type", string(alert.Type)),
				zap.Error(err),
			)
			continue
		}
		zap.L().Info("monitoring: alert sent",
			zap.String("type", string(alert.Type)),
			zap.String("severity", alert.Severity),
		)
		sent++
	}
	return sent
}

// sendWebhook posts a single alert to the webhook URL.
func (a *Alerter) sendWebhook(ctx context.Context, alert Alert) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return eris.Wrap(err, "monitoring: marshal alert")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		return eris.Wrap(err, "monitoring: create webhook request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return eris.Wrap(err, "monitoring: webhook request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= 400 {
		return eris.Errorf("monitoring: webhook returned status %d", resp.StatusCode)
	}
	return nil
}
