package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/cpu"
	"github.com/sirupsen/logrus"
	mpb "github.com/vbauerster/mpb/v7"
	"github.com/vbauerster/mpb/v7/decor"
	"github.com/xhhuango/json"

	"github.com/quantdash/optpricer/engine"
	"github.com/quantdash/optpricer/models"
	"github.com/quantdash/optpricer/server"
)

var log = logrus.New()

func main() {
	cfg := loadConfig()
	engine.SetLogger(log)
	eng := engine.New()

	args := os.Args[1:]
	switch {
	case len(args) == 2 && args[0] == "-heatmap":
		if err := runHeatmapFile(eng, cfg, args[1]); err != nil {
			log.Fatal(err)
		}
	case len(args) == 1:
		if err := runPriceFile(eng, cfg, args[0]); err != nil {
			log.Fatal(err)
		}
	default:
		gin.SetMode(cfg.GinMode)
		srv := server.New(eng, cfg.Models)
		log.WithField("port", cfg.Port).Info("starting option pricing server")
		if err := srv.Run(":" + cfg.Port); err != nil {
			log.Fatal(err)
		}
	}
}

// runPriceFile prices the request in the given JSON file with every model
// and writes the aggregate to results.json.
func runPriceFile(eng *engine.Engine, cfg Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var req server.PriceRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	resp := eng.CalculateAll(req.Contract(), mergeConfig(cfg.Models, req.BinomialSteps, req.Simulations))
	if len(resp.Results) == 0 {
		return fmt.Errorf("pricing failed: %v", resp.Violations)
	}

	out, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	if err := os.WriteFile("results.json", out, 0644); err != nil {
		return err
	}

	log.WithField("models", len(resp.Results)).Info("wrote results.json")
	return nil
}

// runHeatmapFile computes the spot×time price grid described by the request
// file and writes it to heatmap.json, showing per-cell progress.
func runHeatmapFile(eng *engine.Engine, cfg Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var req server.HeatmapRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	if req.Model == "" {
		req.Model = models.ModelBlackScholes
	}

	resolution := engine.ClampResolution(req.Resolution)

	progress := mpb.New(mpb.WithWidth(64))
	bar := progress.AddBar(int64(resolution*resolution),
		mpb.PrependDecorators(
			decor.Name("Pricing grid"),
			decor.Percentage(decor.WCSyncSpace),
		),
		mpb.AppendDecorators(
			decor.CountersNoUnit("(%d / %d)", decor.WCSyncSpace),
		),
	)

	done := make(chan struct{})
	go monitorCPUUsage(done)

	grid, err := eng.ComputeGrid(engine.GridRequest{
		Base:       req.Contract(),
		Model:      req.Model,
		SpotMin:    req.SpotMin,
		SpotMax:    req.SpotMax,
		TimeMin:    req.TimeMin,
		TimeMax:    req.TimeMax,
		Resolution: resolution,
		Config:     mergeConfig(cfg.Models, req.BinomialSteps, req.Simulations),
	}, bar.Increment)
	close(done)
	if err != nil {
		bar.Abort(true)
		progress.Wait()
		return err
	}
	progress.Wait()

	out, err := json.Marshal(grid)
	if err != nil {
		return err
	}
	if err := os.WriteFile("heatmap.json", out, 0644); err != nil {
		return err
	}

	log.WithField("cells", resolution*resolution).Info("wrote heatmap.json")
	return nil
}

func mergeConfig(base models.ModelConfig, steps, simulations int) models.ModelConfig {
	if steps != 0 {
		base.BinomialSteps = steps
	}
	if simulations != 0 {
		base.Simulations = simulations
	}
	return base.Clamped()
}

// monitorCPUUsage samples total CPU load once a second while a grid batch
// runs.
func monitorCPUUsage(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		default:
		}
		percentage, err := cpu.Percent(time.Second, false)
		if err != nil || len(percentage) == 0 {
			continue
		}
		log.Debugf("CPU usage: %.2f%%", percentage[0])
	}
}
