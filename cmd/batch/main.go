// batch runs many seeded phase simulations and summarizes the sites'
// final-phase utilities across them.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/domino14/stratsim/automatic"
	"github.com/domino14/stratsim/config"
	"github.com/domino14/stratsim/logger"
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
		log.Fatal().Err(err).Msg("batch failed")
	}
}

// seeds replays the seed file if it exists, and otherwise generates fresh
// seeds, saving them there when a path is set.
func seeds(cfg *config.Config) ([][32]byte, error) {
	path := cfg.GetString(config.ConfigBatchSeedFile)
	if path != "" {
		s, err := automatic.LoadSeeds(path)
		if err == nil {
			log.Info().Str("seed-file", path).Int("seeds", len(s)).Msg("loaded-seeds")
			return s, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	s := automatic.GenerateSeeds(cfg.GetInt(config.ConfigBatchReplicates))
	if path != "" {
		if err := automatic.SaveSeeds(s, path); err != nil {
			return nil, err
		}
		log.Info().Str("seed-file", path).Int("seeds", len(s)).Msg("saved-seeds")
	}
	return s, nil
}

func run(ctx context.Context, cfg *config.Config) error {
	s, err := seeds(cfg)
	if err != nil {
		return err
	}
	out := cfg.GetString(config.ConfigBatchOutput)
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	err = automatic.RunReplicates(ctx, cfg.SimulationParams(), s, cfg.GetInt(config.ConfigBatchThreads), f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	summary, err := automatic.AnalyzeLogFile(out)
	if err != nil {
		return err
	}
	fmt.Print(summary)
	return nil
}
