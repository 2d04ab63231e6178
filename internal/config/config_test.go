package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fumitoshi0524/ixeoriLoss/loss"
)

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, loss.DefaultGradClipThreshold, cfg.GradClipThreshold)
	assert.Equal(t, loss.DefaultDeltaOutput, cfg.DeltaOutput)
	assert.Equal(t, "none", cfg.Penalty)
	require.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mse.yaml")
	body := `
grad_clip_threshold: 2.5
delta_output: 0.5
axis: [1]
penalty: l2
l2_lambda: 0.01
workers: 2
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2.5, cfg.GradClipThreshold)
	assert.Equal(t, 0.5, cfg.DeltaOutput)
	assert.Equal(t, []int{1}, cfg.Axis)
	assert.Equal(t, 2, cfg.Workers)

	m, err := cfg.Loss()
	require.NoError(t, err)
	assert.Equal(t, 2.5, m.GradClipThreshold())

	r, err := cfg.Regularizer()
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, "l2", r.Name())
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse(strings.NewReader("grad_clip: 1\n"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"zero threshold":     func(c *Config) { c.GradClipThreshold = 0 },
		"negative threshold": func(c *Config) { c.GradClipThreshold = -1 },
		"negative lambda":    func(c *Config) { c.L1Lambda = -0.1 },
		"negative workers":   func(c *Config) { c.Workers = -1 },
		"unknown penalty":    func(c *Config) { c.Penalty = "dropout" },
	}
	for name, mutate := range cases {
		cfg := Default()
		mutate(cfg)
		assert.Error(t, cfg.Validate(), name)
	}
	var nilCfg *Config
	assert.Error(t, nilCfg.Validate())
}

func TestApplyOverrides(t *testing.T) {
	threshold, penalty, axis := 3.0, "l1", []int{0}
	cfg := Default()
	cfg.ApplyOverrides(Overrides{GradClipThreshold: &threshold, Axis: &axis, Penalty: &penalty})
	assert.Equal(t, 3.0, cfg.GradClipThreshold)
	assert.Equal(t, []int{0}, cfg.Axis)
	assert.Equal(t, "l1", cfg.Penalty)
	assert.Equal(t, loss.DefaultDeltaOutput, cfg.DeltaOutput)

	cfg.ApplyOverrides(Overrides{})
	assert.Equal(t, 3.0, cfg.GradClipThreshold)
}

func TestApplyOverridesZeroValues(t *testing.T) {
	zero, negative := 0.0, -1.0
	cfg := Default()
	cfg.ApplyOverrides(Overrides{DeltaOutput: &zero})
	assert.Equal(t, 0.0, cfg.DeltaOutput)
	require.NoError(t, cfg.Validate())

	cfg.ApplyOverrides(Overrides{GradClipThreshold: &negative})
	assert.Equal(t, -1.0, cfg.GradClipThreshold)
	assert.Error(t, cfg.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
