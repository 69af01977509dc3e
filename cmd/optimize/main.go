// optimize searches for a stationary point of the participants' payoff
// game and prints the resulting strategy matrix.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/domino14/stratsim/config"
	"github.com/domino14/stratsim/logger"
	"github.com/domino14/stratsim/payoff"
	"github.com/domino14/stratsim/render"
	"github.com/domino14/stratsim/rng"
)

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("loading config")
	}
	l := logger.Setup(cfg.GetBool(config.ConfigDebug))
	ctx := l.WithContext(context.Background())
	log.Debug().Interface("settings", cfg.AllSettings()).Msg("loaded-config")

	seed, err := rng.ParseSeed(cfg.GetString(config.ConfigSeed))
	if err != nil {
		log.Fatal().Err(err).Msg("bad seed")
	}
	log.Info().Str("seed", rng.EncodeSeed(seed)).Msg("seeded")

	params := cfg.OptimizerParams()
	res, err := payoff.Optimize(ctx, params, rng.New(seed))
	if err != nil {
		log.Fatal().Err(err).Msg("optimizing")
	}
	log.Info().Str("status", res.Status.String()).Bool("converged", res.Converged()).
		Int("iterations", res.MajorIterations).Int("evals", res.FuncEvaluations).
		Int("restart", res.Restart).Float64("utility", res.Value).Msg("optimizer-finished")

	fmt.Println(render.FormatMatrix("Optimal strategies: ", res.Strategies))
}
