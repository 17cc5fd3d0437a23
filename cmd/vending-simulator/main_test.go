package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fairyhunter13/vending-machine-simulator/internal/config"
)

// run registers on the default Prometheus registry, so it is called once.
func TestRunDemoWritesMetrics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vending.prom")
	cfg := config.Config{LogLevel: "error", ChangeStrategy: "greedy", MetricsFile: path}
	if err := run(context.Background(), cfg); err != nil {
		t.Fatalf("run: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	if !strings.Contains(string(data), `vending_purchases_total{outcome="committed"} 3`) {
		t.Fatalf("unexpected metrics:\n%s", data)
	}
}

func TestRunRejectsUnknownStrategy(t *testing.T) {
	cfg := config.Config{ChangeStrategy: "optimal"}
	if err := run(context.Background(), cfg); err == nil {
		t.Fatalf("expected error")
	}
}
