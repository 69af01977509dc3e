package evolution

import "math"

// Strategies is a dense phases x sites x strategies array of strategy
// intensities.
type Strategies struct {
	phases     int
	sites      int
	strategies int
	data       []float64
}

func NewStrategies(phases, sites, strategies int) *Strategies {
	return &Strategies{
		phases:     phases,
		sites:      sites,
		strategies: strategies,
		data:       make([]float64, phases*sites*strategies),
	}
}

func (s *Strategies) Shape() (phases, sites, strategies int) {
	return s.phases, s.sites, s.strategies
}

func (s *Strategies) offset(phase, site int) int {
	return (phase*s.sites + site) * s.strategies
}

func (s *Strategies) At(phase, site, k int) float64 {
	return s.data[s.offset(phase, site)+k]
}

// Vector returns the strategy vector of a site within a phase. It aliases
// the underlying array.
func (s *Strategies) Vector(phase, site int) []float64 {
	o := s.offset(phase, site)
	return s.data[o : o+s.strategies : o+s.strategies]
}

// Trajectory returns strategy component k of a site for every phase.
func (s *Strategies) Trajectory(site, k int) []float64 {
	t := make([]float64, s.phases)
	for p := range t {
		t[p] = s.At(p, site, k)
	}
	return t
}

// Raw exposes the array in phase-major order.
func (s *Strategies) Raw() []float64 {
	return s.data
}

// Finite reports whether every value is a real number.
func (s *Strategies) Finite() bool {
	for _, v := range s.data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
