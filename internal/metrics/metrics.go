// Package metrics exposes Prometheus instruments for purchase outcomes.
package metrics

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/fairyhunter13/vending-machine-simulator/internal/coin"
)

// OutcomeCommitted labels a successful sale. Failures use the
// vending.ErrorKind string.
const OutcomeCommitted = "committed"

// Metrics groups the simulator's instruments.
type Metrics struct {
	purchases    *prometheus.CounterVec
	changeCoins  *prometheus.CounterVec
	refunds      prometheus.Counter
	reserveValue prometheus.Gauge
}

// New registers the instruments with reg. A nil reg uses a private registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)
	return &Metrics{
		purchases: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vending_purchases_total",
			Help: "Product selections by outcome",
		}, []string{"outcome"}), // outcome=committed|product_not_available|not_enough_money|cannot_give_change
		changeCoins: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vending_change_coins_total",
			Help: "Coins dispensed as change by denomination",
		}, []string{"denomination"}),
		refunds: f.NewCounter(prometheus.CounterOpts{
			Name: "vending_refunds_total",
			Help: "Sessions ended by reset",
		}),
		reserveValue: f.NewGauge(prometheus.GaugeOpts{
			Name: "vending_reserve_value",
			Help: "Total value of coins held by the machine (minor units)",
		}),
	}
}

// RecordPurchase counts one selection attempt.
func (m *Metrics) RecordPurchase(outcome string) {
	if m == nil {
		return
	}
	m.purchases.WithLabelValues(outcome).Inc()
}

// RecordChange counts dispensed coins.
func (m *Metrics) RecordChange(given coin.Coins) {
	if m == nil {
		return
	}
	for d, n := range given.Counts() {
		m.changeCoins.WithLabelValues(d.String()).Add(float64(n))
	}
}

// RecordRefund counts one reset.
func (m *Metrics) RecordRefund() {
	if m == nil {
		return
	}
	m.refunds.Inc()
}

// SetReserve publishes the current reserve total.
func (m *Metrics) SetReserve(total coin.Amount) {
	if m == nil {
		return
	}
	m.reserveValue.Set(float64(total))
}

// Export writes the gathered families to path in the Prometheus text format.
// With an empty path the vending_* samples are logged instead.
func Export(path string, g prometheus.Gatherer, log *slog.Logger) error {
	if path != "" {
		if err := prometheus.WriteToTextfile(path, g); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
		log.Info("metrics_written", "path", path)
		return nil
	}
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "vending_") {
			continue
		}
		for _, m := range mf.GetMetric() {
			attrs := []any{"name", mf.GetName()}
			for _, lp := range m.GetLabel() {
				attrs = append(attrs, lp.GetName(), lp.GetValue())
			}
			switch {
			case m.GetCounter() != nil:
				attrs = append(attrs, "value", m.GetCounter().GetValue())
			case m.GetGauge() != nil:
				attrs = append(attrs, "value", m.GetGauge().GetValue())
			}
			log.Info("metric_sample", attrs...)
		}
	}
	return nil
}
