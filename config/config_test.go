package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/domino14/stratsim/evolution"
	"github.com/domino14/stratsim/payoff"
)

func TestDefaults(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, payoff.DefaultParams(), cfg.OptimizerParams())
	assert.Equal(t, evolution.DefaultParams(), cfg.SimulationParams())
	assert.False(t, cfg.GetBool(ConfigDebug))
	assert.Equal(t, "phases.png", cfg.GetString(ConfigChartPath))
}

func TestLoadNoArgs(t *testing.T) {
	cfg := &Config{}
	assert.Nil(t, cfg.Load(nil))
	assert.Equal(t, payoff.DefaultParams(), cfg.OptimizerParams())
	assert.Equal(t, evolution.DefaultParams(), cfg.SimulationParams())
}

func TestLoadFlags(t *testing.T) {
	cfg := &Config{}
	err := cfg.Load([]string{"--opt-participants", "3", "--sim-epsilon=0.25", "--debug"})
	assert.Nil(t, err)
	assert.Equal(t, 3, cfg.OptimizerParams().Participants)
	assert.Equal(t, 0.25, cfg.SimulationParams().Epsilon)
	assert.True(t, cfg.GetBool(ConfigDebug))
	// untouched keys keep their defaults
	assert.Equal(t, 2, cfg.OptimizerParams().Strategies)
}

func TestLoadBadFlag(t *testing.T) {
	cfg := &Config{}
	assert.NotNil(t, cfg.Load([]string{"--no-such-flag"}))
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("STRATSIM_SIM_PHASES", "8")
	cfg := &Config{}
	assert.Nil(t, cfg.Load(nil))
	assert.Equal(t, 8, cfg.SimulationParams().Phases)

	// flags beat the environment
	assert.Nil(t, cfg.Load([]string{"--sim-phases", "3"}))
	assert.Equal(t, 3, cfg.SimulationParams().Phases)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stratsim.yaml")
	contents := "sim-sites: 3\nsim-beta: 0.75\nopt-restarts: 6\n"
	assert.Nil(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg := &Config{}
	assert.Nil(t, cfg.Load([]string{"--config-file", path, "--opt-restarts", "2"}))
	assert.Equal(t, 3, cfg.SimulationParams().Sites)
	assert.Equal(t, 0.75, cfg.SimulationParams().Beta)
	assert.Equal(t, 2, cfg.OptimizerParams().Restarts)
}

func TestLoadMissingConfigFile(t *testing.T) {
	cfg := &Config{}
	err := cfg.Load([]string{"--config-file", filepath.Join(t.TempDir(), "nope.yaml")})
	assert.NotNil(t, err)
}
