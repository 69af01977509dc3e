// Package payoff searches for stationary points of a simple N-participant
// payoff game. Each participant chooses a vector of strategy intensities;
// the group is scored by the negative sum of every participant's utility,
// which is handed to a quasi-Newton minimizer.
package payoff

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
)

var (
	ErrParticipants = errors.New("need at least one participant")
	ErrStrategies   = errors.New("need at least one strategy per participant")
	ErrRestarts     = errors.New("need at least one restart")
	ErrThreads      = errors.New("need at least one thread")
	ErrDimension    = errors.New("strategy vector has the wrong length")
)

// Params describes the game and how hard to search.
type Params struct {
	Participants int
	Strategies   int
	// Target is the intensity each participant is penalized for straying from.
	Target float64

	Restarts          int
	Threads           int
	MaxIterations     int
	GradientThreshold float64
}

func DefaultParams() Params {
	return Params{
		Participants:      2,
		Strategies:        2,
		Target:            1.0,
		Restarts:          1,
		Threads:           1,
		GradientThreshold: 1e-6,
	}
}

func (p Params) Validate() error {
	switch {
	case p.Participants < 1:
		return ErrParticipants
	case p.Strategies < 1:
		return ErrStrategies
	case p.Restarts < 1:
		return ErrRestarts
	case p.Threads < 1:
		return ErrThreads
	}
	return nil
}

// Dim is the length of the flat strategy vector.
func (p Params) Dim() int {
	return p.Participants * p.Strategies
}

// Utility is log(1 + sum of all strategies) minus the distance of the
// player's own strategies from target. x is the flat vector of every
// participant's strategies, row-major by participant.
func Utility(player int, x []float64, strategies int, target float64) float64 {
	own := x[player*strategies : (player+1)*strategies]
	var dist float64
	for _, v := range own {
		dist += (v - target) * (v - target)
	}
	return math.Log(1+floats.Sum(x)) - math.Sqrt(dist)
}

// Objective returns the function to minimize: the negated total utility.
func (p Params) Objective() func([]float64) float64 {
	return func(x []float64) float64 {
		total := 0.0
		for player := 0; player < p.Participants; player++ {
			total += Utility(player, x, p.Strategies, p.Target)
		}
		return -total
	}
}

// Gradient approximates the objective's gradient with central differences.
func (p Params) Gradient() func(grad, x []float64) {
	f := p.Objective()
	settings := &fd.Settings{Formula: fd.Central}
	return func(grad, x []float64) {
		fd.Gradient(grad, f, x, settings)
	}
}
