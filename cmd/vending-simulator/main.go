// Package main boots the Vending Machine Simulator and replays a purchase
// script against a single machine.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/fairyhunter13/vending-machine-simulator/internal/change"
	"github.com/fairyhunter13/vending-machine-simulator/internal/config"
	"github.com/fairyhunter13/vending-machine-simulator/internal/metrics"
	"github.com/fairyhunter13/vending-machine-simulator/internal/obs"
	"github.com/fairyhunter13/vending-machine-simulator/internal/sim"
	"github.com/fairyhunter13/vending-machine-simulator/internal/vending"
)

var errNotConserved = errors.New("reserve does not balance committed payments and change")

func main() {
	cfg := config.Load()
	obs.InitLogger(cfg.LogLevel)
	obs.Logger.Info("simulator_starting", "change_strategy", cfg.ChangeStrategy)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, cfg)
	stop()
	if err != nil {
		obs.Logger.Error("simulator_failed", "error", err)
		os.Exit(1)
	}
	obs.Logger.Info("simulator_stopped")
}

func run(ctx context.Context, cfg config.Config) error {
	seed, err := config.LoadSeed(cfg.SeedFile)
	if err != nil {
		return fmt.Errorf("load seed %q: %w", cfg.SeedFile, err)
	}
	maker, err := change.ByName(cfg.ChangeStrategy)
	if err != nil {
		return err
	}

	script := sim.DemoScript()
	if cfg.ScriptFile != "" {
		script, err = sim.LoadScript(cfg.ScriptFile)
		if err != nil {
			return fmt.Errorf("load script %q: %w", cfg.ScriptFile, err)
		}
	}

	machine := vending.New(seed.Catalog, seed.Reserve, vending.WithChangeMaker(maker))
	obs.Logger.Info("machine_ready",
		"products", seed.Catalog.Len(),
		"reserve", seed.Reserve.String(),
		"reserve_total", uint64(seed.Reserve.Total()),
		"steps", len(script.Steps),
	)

	runner := sim.NewRunner(metrics.New(prometheus.DefaultRegisterer))
	rep, runErr := runner.Run(ctx, machine, script)
	if rep.Final != nil {
		for _, p := range rep.Final.Catalog().Products() {
			obs.Logger.Debug("product_stock", "product_id", p.ID, "price", uint64(p.Price), "stock", p.Stock)
		}
	}
	obs.Logger.Info("replay_complete",
		"steps", len(rep.Steps),
		"reserve_before", uint64(rep.ReserveBefore),
		"reserve_after", uint64(rep.ReserveAfter),
		"committed", uint64(rep.Committed),
		"dispensed", uint64(rep.Dispensed),
		"refunded", uint64(rep.Refunded),
		"conserved", rep.Conserved(),
	)
	if err := metrics.Export(cfg.MetricsFile, prometheus.DefaultGatherer, obs.Logger); err != nil {
		return err
	}
	if runErr != nil {
		return runErr
	}
	if !rep.Conserved() {
		return errNotConserved
	}
	return nil
}
