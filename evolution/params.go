package evolution

import "errors"

var (
	ErrPhases     = errors.New("need at least one phase")
	ErrIterations = errors.New("need at least one iteration per phase")
	ErrSites      = errors.New("need at least two sites")
	ErrStrategies = errors.New("need at least one strategy")
	ErrEpsilon    = errors.New("noise width must not be negative")
	ErrBeta       = errors.New("interaction strength must not be negative")
)

// Params for a phase simulation. The zero value is not usable; start from
// DefaultParams.
type Params struct {
	Phases     int
	Iterations int
	Sites      int
	Strategies int

	// Epsilon is the width of the uniform noise added each iteration.
	Epsilon float64
	// Gamma weighs the penalty for straying from Target.
	Gamma float64
	// Beta is the strength of the opponent's first strategy on our utility.
	Beta   float64
	Target float64
}

func DefaultParams() Params {
	return Params{
		Phases:     5,
		Iterations: 10,
		Sites:      2,
		Strategies: 2,
		Epsilon:    0.1,
		Gamma:      1.0,
		Beta:       0.5,
		Target:     0.5,
	}
}

func (p Params) Validate() error {
	switch {
	case p.Phases < 1:
		return ErrPhases
	case p.Iterations < 1:
		return ErrIterations
	case p.Sites < 2:
		return ErrSites
	case p.Strategies < 1:
		return ErrStrategies
	case p.Epsilon < 0:
		return ErrEpsilon
	case p.Beta < 0:
		return ErrBeta
	}
	return nil
}
