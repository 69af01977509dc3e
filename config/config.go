package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/domino14/stratsim/evolution"
	"github.com/domino14/stratsim/payoff"
)

const (
	ConfigDebug      = "debug"
	ConfigSeed       = "seed"
	ConfigConfigFile = "config-file"

	ConfigOptParticipants      = "opt-participants"
	ConfigOptStrategies        = "opt-strategies"
	ConfigOptTarget            = "opt-target"
	ConfigOptRestarts          = "opt-restarts"
	ConfigOptThreads           = "opt-threads"
	ConfigOptMaxIterations     = "opt-max-iterations"
	ConfigOptGradientThreshold = "opt-gradient-threshold"

	ConfigSimPhases     = "sim-phases"
	ConfigSimIterations = "sim-iterations"
	ConfigSimSites      = "sim-sites"
	ConfigSimStrategies = "sim-strategies"
	ConfigSimEpsilon    = "sim-epsilon"
	ConfigSimGamma      = "sim-gamma"
	ConfigSimBeta       = "sim-beta"
	ConfigSimTarget     = "sim-target"

	ConfigChartPath     = "chart-path"
	ConfigChartWidth    = "chart-width"
	ConfigChartHeight   = "chart-height"
	ConfigLogPath       = "log-path"
	ConfigTerminalChart = "terminal-chart"

	ConfigBatchReplicates = "batch-replicates"
	ConfigBatchThreads    = "batch-threads"
	ConfigBatchSeedFile   = "batch-seed-file"
	ConfigBatchOutput     = "batch-output"
)

type Config struct {
	*viper.Viper
}

// DefaultConfig returns a config holding only the defaults. With no
// overrides both simulations run exactly the classic two-player setup.
func DefaultConfig() *Config {
	c := &Config{Viper: viper.New()}
	c.setDefaults()
	return c
}

func (c *Config) setDefaults() {
	opt := payoff.DefaultParams()
	sim := evolution.DefaultParams()

	c.SetDefault(ConfigDebug, false)
	c.SetDefault(ConfigSeed, "")
	c.SetDefault(ConfigConfigFile, "")

	c.SetDefault(ConfigOptParticipants, opt.Participants)
	c.SetDefault(ConfigOptStrategies, opt.Strategies)
	c.SetDefault(ConfigOptTarget, opt.Target)
	c.SetDefault(ConfigOptRestarts, opt.Restarts)
	c.SetDefault(ConfigOptThreads, opt.Threads)
	c.SetDefault(ConfigOptMaxIterations, opt.MaxIterations)
	c.SetDefault(ConfigOptGradientThreshold, opt.GradientThreshold)

	c.SetDefault(ConfigSimPhases, sim.Phases)
	c.SetDefault(ConfigSimIterations, sim.Iterations)
	c.SetDefault(ConfigSimSites, sim.Sites)
	c.SetDefault(ConfigSimStrategies, sim.Strategies)
	c.SetDefault(ConfigSimEpsilon, sim.Epsilon)
	c.SetDefault(ConfigSimGamma, sim.Gamma)
	c.SetDefault(ConfigSimBeta, sim.Beta)
	c.SetDefault(ConfigSimTarget, sim.Target)

	c.SetDefault(ConfigChartPath, "phases.png")
	c.SetDefault(ConfigChartWidth, 12.0)
	c.SetDefault(ConfigChartHeight, 6.0)
	c.SetDefault(ConfigLogPath, "")
	c.SetDefault(ConfigTerminalChart, false)

	c.SetDefault(ConfigBatchReplicates, 100)
	c.SetDefault(ConfigBatchThreads, 4)
	c.SetDefault(ConfigBatchSeedFile, "")
	c.SetDefault(ConfigBatchOutput, "replicates.csv")
}

func (c *Config) flagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("stratsim", pflag.ContinueOnError)
	fs.Bool(ConfigDebug, c.GetBool(ConfigDebug), "debug logging on")
	fs.String(ConfigSeed, c.GetString(ConfigSeed), "base64 32-byte seed; a random one is used if empty")
	fs.String(ConfigConfigFile, c.GetString(ConfigConfigFile), "optional yaml file with settings")

	fs.Int(ConfigOptParticipants, c.GetInt(ConfigOptParticipants), "number of participants")
	fs.Int(ConfigOptStrategies, c.GetInt(ConfigOptStrategies), "strategies per participant")
	fs.Float64(ConfigOptTarget, c.GetFloat64(ConfigOptTarget), "strategy intensity participants are pulled toward")
	fs.Int(ConfigOptRestarts, c.GetInt(ConfigOptRestarts), "random starting points to minimize from")
	fs.Int(ConfigOptThreads, c.GetInt(ConfigOptThreads), "restarts to run at once")
	fs.Int(ConfigOptMaxIterations, c.GetInt(ConfigOptMaxIterations), "minimizer iteration cap (0 for none)")
	fs.Float64(ConfigOptGradientThreshold, c.GetFloat64(ConfigOptGradientThreshold), "stop when the gradient norm is below this")

	fs.Int(ConfigSimPhases, c.GetInt(ConfigSimPhases), "number of phases")
	fs.Int(ConfigSimIterations, c.GetInt(ConfigSimIterations), "iterations per phase")
	fs.Int(ConfigSimSites, c.GetInt(ConfigSimSites), "number of competing sites")
	fs.Int(ConfigSimStrategies, c.GetInt(ConfigSimStrategies), "strategies per site")
	fs.Float64(ConfigSimEpsilon, c.GetFloat64(ConfigSimEpsilon), "width of the random step")
	fs.Float64(ConfigSimGamma, c.GetFloat64(ConfigSimGamma), "weight of the distance-from-target penalty")
	fs.Float64(ConfigSimBeta, c.GetFloat64(ConfigSimBeta), "strength of the opponent interaction")
	fs.Float64(ConfigSimTarget, c.GetFloat64(ConfigSimTarget), "strategy intensity sites are pulled toward")

	fs.String(ConfigChartPath, c.GetString(ConfigChartPath), "where to write the phase chart (PNG)")
	fs.Float64(ConfigChartWidth, c.GetFloat64(ConfigChartWidth), "chart width in inches")
	fs.Float64(ConfigChartHeight, c.GetFloat64(ConfigChartHeight), "chart height in inches")
	fs.String(ConfigLogPath, c.GetString(ConfigLogPath), "write a yaml log of every phase here")
	fs.Bool(ConfigTerminalChart, c.GetBool(ConfigTerminalChart), "also print a utility histogram")

	fs.Int(ConfigBatchReplicates, c.GetInt(ConfigBatchReplicates), "number of replicate simulations")
	fs.Int(ConfigBatchThreads, c.GetInt(ConfigBatchThreads), "replicates to run at once")
	fs.String(ConfigBatchSeedFile, c.GetString(ConfigBatchSeedFile), "seed file to replay, or to create if missing")
	fs.String(ConfigBatchOutput, c.GetString(ConfigBatchOutput), "CSV file for replicate results")
	return fs
}

// Load reads settings from, in increasing order of precedence, the
// defaults, an optional config file, STRATSIM_* environment variables,
// and args.
func (c *Config) Load(args []string) error {
	c.Viper = viper.New()
	c.setDefaults()

	fs := c.flagSet()
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.BindPFlags(fs); err != nil {
		return err
	}
	c.SetEnvPrefix("stratsim")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	if path := c.GetString(ConfigConfigFile); path != "" {
		c.SetConfigFile(path)
		if err := c.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file: %w", err)
		}
	}
	return nil
}

// OptimizerParams maps the opt-* settings onto the minimizer's params.
func (c *Config) OptimizerParams() payoff.Params {
	return payoff.Params{
		Participants:      c.GetInt(ConfigOptParticipants),
		Strategies:        c.GetInt(ConfigOptStrategies),
		Target:            c.GetFloat64(ConfigOptTarget),
		Restarts:          c.GetInt(ConfigOptRestarts),
		Threads:           c.GetInt(ConfigOptThreads),
		MaxIterations:     c.GetInt(ConfigOptMaxIterations),
		GradientThreshold: c.GetFloat64(ConfigOptGradientThreshold),
	}
}

// SimulationParams maps the sim-* settings onto the phase simulation.
func (c *Config) SimulationParams() evolution.Params {
	return evolution.Params{
		Phases:     c.GetInt(ConfigSimPhases),
		Iterations: c.GetInt(ConfigSimIterations),
		Sites:      c.GetInt(ConfigSimSites),
		Strategies: c.GetInt(ConfigSimStrategies),
		Epsilon:    c.GetFloat64(ConfigSimEpsilon),
		Gamma:      c.GetFloat64(ConfigSimGamma),
		Beta:       c.GetFloat64(ConfigSimBeta),
		Target:     c.GetFloat64(ConfigSimTarget),
	}
}
