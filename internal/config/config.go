package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fumitoshi0524/ixeoriLoss/loss"
	"github.com/fumitoshi0524/ixeoriLoss/regularizer"
)

// Config captures the knobs for a loss evaluation run.
type Config struct {
	GradClipThreshold float64 `yaml:"grad_clip_threshold"`
	DeltaOutput       float64 `yaml:"delta_output"`
	Axis              []int   `yaml:"axis"`
	Penalty           string  `yaml:"penalty"`
	L1Lambda          float64 `yaml:"l1_lambda"`
	L2Lambda          float64 `yaml:"l2_lambda"`
	Workers           int     `yaml:"workers"`
}

// Overrides captures CLI supplied values. Nil fields leave the config
// untouched; set fields are applied as given and checked by Validate.
type Overrides struct {
	GradClipThreshold *float64
	DeltaOutput       *float64
	Axis              *[]int
	Penalty           *string
	Workers           *int
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		GradClipThreshold: loss.DefaultGradClipThreshold,
		DeltaOutput:       loss.DefaultDeltaOutput,
		Penalty:           "none",
	}
}

// Load reads and validates a Config from YAML.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML on top of Default. Unknown keys are rejected.
func Parse(r io.Reader) (*Config, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if len(bytes.TrimSpace(raw)) == 0 {
		return cfg, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyOverrides updates c using every non-nil override.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.GradClipThreshold != nil {
		c.GradClipThreshold = *o.GradClipThreshold
	}
	if o.DeltaOutput != nil {
		c.DeltaOutput = *o.DeltaOutput
	}
	if o.Axis != nil {
		c.Axis = append([]int(nil), (*o.Axis)...)
	}
	if o.Penalty != nil {
		c.Penalty = *o.Penalty
	}
	if o.Workers != nil {
		c.Workers = *o.Workers
	}
}

// Validate verifies the config is runnable.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if !(c.GradClipThreshold > 0) || math.IsInf(c.GradClipThreshold, 0) {
		return fmt.Errorf("grad_clip_threshold must be a positive finite number (got %v)", c.GradClipThreshold)
	}
	if math.IsNaN(c.DeltaOutput) || math.IsInf(c.DeltaOutput, 0) {
		return fmt.Errorf("delta_output must be finite (got %v)", c.DeltaOutput)
	}
	if c.L1Lambda < 0 || c.L2Lambda < 0 {
		return fmt.Errorf("regularization lambdas must be >= 0 (got l1=%v l2=%v)", c.L1Lambda, c.L2Lambda)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0 (got %d)", c.Workers)
	}
	if _, err := c.Regularizer(); err != nil {
		return err
	}
	return nil
}

// Loss builds the configured MSE loss.
func (c *Config) Loss() (*loss.MeanSquaredError, error) {
	return loss.NewMeanSquaredError(c.GradClipThreshold)
}

// Regularizer builds the configured penalty producer, or nil for none.
func (c *Config) Regularizer() (regularizer.Regularizer, error) {
	return regularizer.ByName(c.Penalty, c.L1Lambda, c.L2Lambda)
}
