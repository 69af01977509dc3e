package payoff

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
	"lukechampine.com/frand"

	"github.com/domino14/stratsim/rng"
)

// Result is the best stationary point found over all restarts.
type Result struct {
	// Strategies is the minimizer's final vector reshaped to
	// participants x strategies.
	Strategies *mat.Dense
	// Value is the total utility at Strategies (the negated objective).
	Value  float64
	Status optimize.Status
	// Message holds whatever error the minimizer ended with, if any.
	Message string

	MajorIterations int
	FuncEvaluations int
	Restart         int
	Initial         []float64
}

// Converged is true when the minimizer stopped on one of its own
// convergence tests.
func (r *Result) Converged() bool {
	return r.Status == optimize.GradientThreshold ||
		r.Status == optimize.FunctionConvergence ||
		r.Status == optimize.StepConvergence ||
		r.Status == optimize.Success
}

// Optimize runs BFGS from p.Restarts random starting points drawn from r and
// returns the best result. All starting points are drawn before any restart
// runs, so the outcome depends only on the RNG's seed.
func Optimize(ctx context.Context, p Params, r *frand.RNG) (*Result, error) {
	logger := zerolog.Ctx(ctx)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	starts := make([][]float64, p.Restarts)
	for i := range starts {
		starts[i] = rng.Uniform(r, p.Dim())
	}

	results := make([]*Result, p.Restarts)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.Threads)
	for i := range starts {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := minimize(p, starts[i])
			if err != nil {
				return fmt.Errorf("restart %d: %w", i, err)
			}
			res.Restart = i
			logger.Debug().Int("restart", i).Float64("value", res.Value).
				Str("status", res.Status.String()).Int("evals", res.FuncEvaluations).
				Msg("restart-finished")
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	best := results[0]
	for _, res := range results[1:] {
		if res.Value > best.Value {
			best = res
		}
	}
	if best.Message != "" {
		logger.Warn().Str("status", best.Status.String()).Str("message", best.Message).
			Msg("minimizer-reported-error")
	}
	return best, nil
}

func minimize(p Params, x0 []float64) (*Result, error) {
	problem := optimize.Problem{
		Func: p.Objective(),
		Grad: p.Gradient(),
	}
	settings := &optimize.Settings{
		GradientThreshold: p.GradientThreshold,
		MajorIterations:   p.MaxIterations,
	}
	initial := make([]float64, len(x0))
	copy(initial, x0)

	res, err := optimize.Minimize(problem, x0, settings, &optimize.BFGS{})
	if res == nil {
		// The problem itself was rejected; nothing to report.
		return nil, err
	}
	out := &Result{
		Strategies:      mat.NewDense(p.Participants, p.Strategies, res.X),
		Value:           -res.F,
		Status:          res.Status,
		MajorIterations: res.MajorIterations,
		FuncEvaluations: res.FuncEvaluations,
		Initial:         initial,
	}
	if err != nil {
		out.Message = err.Error()
	}
	return out, nil
}
