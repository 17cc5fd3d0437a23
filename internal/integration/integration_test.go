package integration

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/fairyhunter13/vending-machine-simulator/internal/change"
	"github.com/fairyhunter13/vending-machine-simulator/internal/config"
	"github.com/fairyhunter13/vending-machine-simulator/internal/metrics"
	"github.com/fairyhunter13/vending-machine-simulator/internal/obs"
	"github.com/fairyhunter13/vending-machine-simulator/internal/sim"
	"github.com/fairyhunter13/vending-machine-simulator/internal/vending"
)

const seed = `
products:
  - id: Water
    price: 20
    stock: 2
  - id: Cola
    price: 40
    stock: 5
reserve:
  50: 1
  20: 3
`

const script = `
steps:
  - insert: [50, 50]
  - select: Cola
  - insert: [20]
  - select: Water
  - insert: [20]
  - select: Water
  - insert: [20]
  - select: Water
  - reset: true
`

func write(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

// replay runs the script and returns the report with the exported metrics.
func replay(t *testing.T, strategy string) (sim.Report, string) {
	t.Helper()
	t.Setenv("SEED_FILE", write(t, "seed.yaml", seed))
	t.Setenv("SCRIPT_FILE", write(t, "script.yaml", script))
	t.Setenv("CHANGE_STRATEGY", strategy)
	t.Setenv("METRICS_FILE", filepath.Join(t.TempDir(), "vending.prom"))
	cfg := config.Load()

	st, err := config.LoadSeed(cfg.SeedFile)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	sc, err := sim.LoadScript(cfg.ScriptFile)
	if err != nil {
		t.Fatalf("script: %v", err)
	}
	mk, err := change.ByName(cfg.ChangeStrategy)
	if err != nil {
		t.Fatalf("strategy: %v", err)
	}
	var buf bytes.Buffer
	reg := prometheus.NewRegistry()
	log := obs.NewLogger(&buf, "info")
	r := &sim.Runner{Logger: log, Metrics: metrics.New(reg)}
	rep, err := r.Run(context.Background(), vending.New(st.Catalog, st.Reserve, vending.WithChangeMaker(mk)), sc)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !rep.Conserved() {
		t.Fatalf("money not conserved: %+v", rep)
	}
	if err := metrics.Export(cfg.MetricsFile, reg, log); err != nil {
		t.Fatalf("export: %v", err)
	}
	data, err := os.ReadFile(cfg.MetricsFile)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	return rep, string(data)
}

func TestIntegration_GreedyRefusesChange(t *testing.T) {
	rep, prom := replay(t, "greedy")
	// 100 paid for 40: greedy takes a 50 and cannot cover the last 10.
	if got := rep.Steps[1].Outcome(); got != "cannot_give_change" {
		t.Fatalf("expected cannot_give_change, got %s", got)
	}
	// The pouch of 100 stays in the session and pays for Water.
	if got := rep.Steps[3].Outcome(); got != metrics.OutcomeCommitted {
		t.Fatalf("expected committed, got %s", got)
	}
	if got := rep.Steps[7].Outcome(); got != "product_not_available" {
		t.Fatalf("expected product_not_available, got %s", got)
	}
	if rep.Final.State() != vending.StateIdle {
		t.Fatalf("expected idle, got %s", rep.Final.State())
	}
	for _, want := range []string{
		`vending_purchases_total{outcome="committed"} 2`,
		`vending_purchases_total{outcome="cannot_give_change"} 1`,
		`vending_purchases_total{outcome="product_not_available"} 1`,
		`vending_refunds_total 1`,
	} {
		if !strings.Contains(prom, want) {
			t.Fatalf("metrics file missing %q:\n%s", want, prom)
		}
	}
}

func TestIntegration_ExactGivesChange(t *testing.T) {
	rep, prom := replay(t, "exact")
	if got := rep.Steps[1].Outcome(); got != metrics.OutcomeCommitted {
		t.Fatalf("expected committed, got %s", got)
	}
	if got := rep.Steps[1].Change.Total(); got != 60 {
		t.Fatalf("expected 60 change, got %d", got)
	}
	p, _ := rep.Final.Catalog().Get("Water")
	if p.Stock != 0 {
		t.Fatalf("expected Water sold out, got %d", p.Stock)
	}
	if !strings.Contains(prom, `vending_purchases_total{outcome="committed"} 3`) {
		t.Fatalf("metrics file missing committed count:\n%s", prom)
	}
	if !strings.Contains(prom, `vending_change_coins_total{denomination="20"} 3`) {
		t.Fatalf("metrics file missing change coins:\n%s", prom)
	}
}
