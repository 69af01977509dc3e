// Package automatic runs many seeded phase simulations back to back and
// summarizes how the sites fared across them.
package automatic

import (
	"context"
	"encoding/csv"
	"errors"
	"expvar"
	"fmt"
	"io"
	"strconv"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/stratsim/evolution"
	"github.com/domino14/stratsim/rng"
)

var ReplicatesCompleted = expvar.NewInt("replicatesCompleted")

var ErrThreads = errors.New("need at least one thread")

// Header returns the CSV header for replicate rows.
func Header(strategies int) []string {
	h := []string{"replicate", "phase", "site", "utility", "mean_utility"}
	for k := 0; k < strategies; k++ {
		h = append(h, "s"+strconv.Itoa(k))
	}
	return h
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func replicateRows(replicate int, res *evolution.Result) [][]string {
	phases, sites, _ := res.Strategies.Shape()
	rows := make([][]string, 0, phases*sites)
	for phase := 0; phase < phases; phase++ {
		for site := 0; site < sites; site++ {
			row := []string{
				strconv.Itoa(replicate),
				strconv.Itoa(phase),
				strconv.Itoa(site),
				formatFloat(res.Utilities.At(phase, site)),
				formatFloat(res.Stats[phase][site].Mean()),
			}
			for _, v := range res.Strategies.Vector(phase, site) {
				row = append(row, formatFloat(v))
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// RunReplicates runs one simulation per seed, threads at a time, and writes
// every phase of every replicate to w as CSV. A replicate's rows are written
// together, but replicates appear in the order they finish.
func RunReplicates(ctx context.Context, p evolution.Params, seeds [][32]byte,
	threads int, w io.Writer) error {

	logger := zerolog.Ctx(ctx)
	if threads < 1 {
		return ErrThreads
	}
	if err := p.Validate(); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Header(p.Strategies)); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	logChan := make(chan [][]string, threads)
	writer := errgroup.Group{}
	writer.Go(func() error {
		var werr error
		for rows := range logChan {
			if werr != nil {
				// keep draining so no worker blocks
				continue
			}
			werr = cw.WriteAll(rows)
		}
		if werr == nil {
			cw.Flush()
			werr = cw.Error()
		}
		if werr != nil {
			return fmt.Errorf("writing replicates: %w", werr)
		}
		return nil
	})

	logger.Debug().Int("replicates", len(seeds)).Int("threads", threads).Msg("starting-replicates")
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(threads)
	for i, seed := range seeds {
		g.Go(func() error {
			sim, err := evolution.NewSimulator(p, rng.New(seed))
			if err != nil {
				return err
			}
			res, err := sim.Run(gctx)
			if err != nil {
				return fmt.Errorf("replicate %d: %w", i, err)
			}
			if !res.Finite() {
				logger.Warn().Int("replicate", i).Str("seed", rng.EncodeSeed(seed)).Msg("non-finite-values")
			}
			select {
			case logChan <- replicateRows(i, res):
			case <-gctx.Done():
				return gctx.Err()
			}
			ReplicatesCompleted.Add(1)
			if n := ReplicatesCompleted.Value(); n%1000 == 0 {
				logger.Info().Int64("completed", n).Msg("replicates")
			}
			return nil
		})
	}

	err := g.Wait()
	close(logChan)
	werr := writer.Wait()
	if err != nil {
		return err
	}
	if werr != nil {
		return werr
	}
	logger.Info().Int("replicates", len(seeds)).Msg("all-replicates-finished")
	return nil
}
