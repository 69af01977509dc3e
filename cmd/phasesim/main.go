// phasesim runs the multi-phase strategy evolution between competing sites
// and charts how each site's strategies moved.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/plot/vg"

	"github.com/domino14/stratsim/config"
	"github.com/domino14/stratsim/evolution"
	"github.com/domino14/stratsim/logger"
	"github.com/domino14/stratsim/render"
	"github.com/domino14/stratsim/rng"
)

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("loading config")
	}
	l := logger.Setup(cfg.GetBool(config.ConfigDebug))
	ctx, stop := signal.NotifyContext(l.WithContext(context.Background()), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	log.Debug().Interface("settings", cfg.AllSettings()).Msg("loaded-config")

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("phase simulation failed")
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	seed, err := rng.ParseSeed(cfg.GetString(config.ConfigSeed))
	if err != nil {
		return err
	}
	log.Info().Str("seed", rng.EncodeSeed(seed)).Msg("seeded")

	sim, err := evolution.NewSimulator(cfg.SimulationParams(), rng.New(seed))
	if err != nil {
		return err
	}
	if path := cfg.GetString(config.ConfigLogPath); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating phase log: %w", err)
		}
		defer f.Close()
		sim.SetLogStream(f)
		log.Info().Str("log-path", path).Msg("writing-phase-log")
	}

	res, err := sim.Run(ctx)
	if err != nil {
		return err
	}
	if !res.Finite() {
		log.Warn().Msg("simulation produced non-finite values")
	}
	fmt.Println(render.FormatMatrix("Utilities: ", res.Utilities))

	if cfg.GetBool(config.ConfigTerminalChart) {
		if err := render.UtilityHistogram(os.Stdout, res.Utilities.RawMatrix().Data, 10, 40); err != nil {
			return err
		}
	}

	path := cfg.GetString(config.ConfigChartPath)
	if path == "" {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chart: %w", err)
	}
	defer f.Close()

	opts := render.DefaultChartOptions()
	opts.Width = vg.Length(cfg.GetFloat64(config.ConfigChartWidth)) * vg.Inch
	opts.Height = vg.Length(cfg.GetFloat64(config.ConfigChartHeight)) * vg.Inch
	if err := render.PhaseChart(f, res.Strategies, opts); err != nil {
		return err
	}
	log.Info().Str("chart-path", path).Msg("wrote-chart")
	return nil
}
