// Package evolution simulates competing sites adjusting their strategies
// over a number of phases. Within a phase every site repeatedly scores its
// position against its opponent and then takes a small random step.
package evolution

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"
	"lukechampine.com/frand"

	"github.com/domino14/stratsim/rng"
	"github.com/domino14/stratsim/stats"
)

// LogPhase is written to the log stream once a phase is done.
type LogPhase struct {
	Phase int       `yaml:"phase"`
	Sites []LogSite `yaml:"sites"`
}

type LogSite struct {
	Site        int       `yaml:"site"`
	Strategies  []float64 `yaml:"strategies,flow"`
	Utility     float64   `yaml:"utility"`
	MeanUtility float64   `yaml:"mean_utility"`
}

// Utility scores own against the opponent: log(1 + beta*opponent[0])
// minus gamma times the distance of own from target.
func Utility(own, opponent []float64, beta, gamma, target float64) float64 {
	diff := lo.Map(own, func(v float64, _ int) float64 { return v - target })
	return math.Log(1+beta*opponent[0]) - gamma*floats.Norm(diff, 2)
}

// Result of a run.
type Result struct {
	Strategies *Strategies
	// Utilities holds the last iteration's utility for every phase, site.
	Utilities *mat.Dense
	// Stats accumulate the utility of every iteration, indexed [phase][site].
	Stats [][]stats.Statistic
}

// Finite reports whether no NaN or Inf crept into strategies or utilities.
func (r *Result) Finite() bool {
	if !r.Strategies.Finite() {
		return false
	}
	for _, v := range r.Utilities.RawMatrix().Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Simulator runs the phase simulation. It is not safe for concurrent use.
type Simulator struct {
	params    Params
	rng       *frand.RNG
	logStream io.Writer
}

func NewSimulator(p Params, r *frand.RNG) (*Simulator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Simulator{params: p, rng: r}, nil
}

func (s *Simulator) SetLogStream(w io.Writer) {
	s.logStream = w
}

func (s *Simulator) Params() Params {
	return s.params
}

// Run simulates every phase and returns the final state. It is blocking.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	logger := zerolog.Ctx(ctx)
	p := s.params

	strats := NewStrategies(p.Phases, p.Sites, p.Strategies)
	copy(strats.Raw(), rng.Uniform(s.rng, len(strats.Raw())))

	res := &Result{
		Strategies: strats,
		Utilities:  mat.NewDense(p.Phases, p.Sites, nil),
		Stats:      make([][]stats.Statistic, p.Phases),
	}

	for phase := 0; phase < p.Phases; phase++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res.Stats[phase] = make([]stats.Statistic, p.Sites)
		for it := 0; it < p.Iterations; it++ {
			for site := 0; site < p.Sites; site++ {
				s.step(res, phase, site)
			}
		}
		logger.Debug().Int("phase", phase).
			Floats64("utilities", mat.Row(nil, phase, res.Utilities)).
			Msg("phase-finished")

		if s.logStream != nil {
			if err := s.writeLog(res, phase); err != nil {
				return nil, err
			}
		}
	}
	return res, nil
}

func (s *Simulator) step(res *Result, phase, site int) {
	p := s.params
	own := res.Strategies.Vector(phase, site)
	opponent := res.Strategies.Vector(phase, (site+1)%p.Sites)

	u := Utility(own, opponent, p.Beta, p.Gamma, p.Target)
	res.Utilities.Set(phase, site, u)
	res.Stats[phase][site].Push(u)

	floats.Add(own, rng.Noise(s.rng, p.Strategies, p.Epsilon))
}

func (s *Simulator) writeLog(res *Result, phase int) error {
	entry := LogPhase{Phase: phase, Sites: make([]LogSite, s.params.Sites)}
	for site := range entry.Sites {
		entry.Sites[site] = LogSite{
			Site:        site,
			Strategies:  append([]float64(nil), res.Strategies.Vector(phase, site)...),
			Utility:     res.Utilities.At(phase, site),
			MeanUtility: res.Stats[phase][site].Mean(),
		}
	}
	out, err := yaml.Marshal([]LogPhase{entry})
	if err != nil {
		return fmt.Errorf("marshalling phase log: %w", err)
	}
	if _, err := s.logStream.Write(out); err != nil {
		return fmt.Errorf("writing phase log: %w", err)
	}
	return nil
}
