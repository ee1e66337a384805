package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const envPrefix = "RETOUCH_"

const (
	CloneMethodPoisson = "poisson"
	CloneMethodOpenCV  = "opencv"
)

// Config is the explicit parameter object threaded through the pipeline.
type Config struct {
	Params Params    `yaml:"params"`
	Log    LogConfig `yaml:"log"`
}

// LogConfig selects logger level and output format.
type LogConfig struct {
	Level string `yaml:"level"`
	Human bool   `yaml:"human"`
}

// Params holds every tunable of the retouching pipeline.
type Params struct {
	PatchRadius         int     `yaml:"patch_radius"`
	SigmaMultiplier     float64 `yaml:"sigma_multiplier"`
	MorphKernel         int     `yaml:"morph_kernel"`
	BlendStrength       int     `yaml:"blend_strength"`
	BilateralDiameter   int     `yaml:"bilateral_diameter"`
	BilateralSigmaColor float64 `yaml:"bilateral_sigma_color"`
	BilateralSigmaSpace float64 `yaml:"bilateral_sigma_space"`
	GrabCutIterations   int     `yaml:"grabcut_iterations"`
	FeatherSize         int     `yaml:"feather_size"`
	FaceMargin          int     `yaml:"face_margin"`
	BlobMinArea         float64 `yaml:"blob_min_area"`
	BlobMaxArea         float64 `yaml:"blob_max_area"`
	MaxBlemishes        int     `yaml:"max_blemishes"`
	CascadePath         string  `yaml:"cascade_path"`
	CloneMethod         string  `yaml:"clone_method"`
}

// Default returns the stock configuration.
func Default() *Config {
	return &Config{
		Params: Params{
			PatchRadius:         15,
			SigmaMultiplier:     2.0,
			MorphKernel:         5,
			BlendStrength:       70,
			BilateralDiameter:   9,
			BilateralSigmaColor: 75,
			BilateralSigmaSpace: 75,
			GrabCutIterations:   3,
			FeatherSize:         15,
			FaceMargin:          20,
			BlobMinArea:         12,
			BlobMaxArea:         600,
			MaxBlemishes:        0,
			CascadePath:         "haarcascade_frontalface_default.xml",
			CloneMethod:         CloneMethodOpenCV,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load builds the configuration from defaults, an optional YAML preset and
// RETOUCH_* environment variables (a .env file in the working directory is
// honoured). The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides parameters from RETOUCH_<KEY> variables, where KEY is
// the upper-cased YAML key. lookup is os.LookupEnv outside of tests.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	for _, key := range Keys() {
		value, ok := lookup(envPrefix + strings.ToUpper(key))
		if !ok || value == "" {
			continue
		}
		if err := c.Set(key, value); err != nil {
			return err
		}
	}
	if v, ok := lookup(envPrefix + "LOG_LEVEL"); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup(envPrefix + "LOG_HUMAN"); ok && v != "" {
		human, err := strconv.ParseBool(v)
		if err != nil {
			return NewValidationError("log_human", v, "not a boolean")
		}
		c.Log.Human = human
	}
	return nil
}

// Set assigns a parameter by its YAML key from a string value.
func (c *Config) Set(key, value string) error {
	f, ok := c.Params.field(key)
	if !ok {
		return NewValidationError(key, value, "unknown parameter")
	}

	switch p := f.ptr.(type) {
	case *int:
		v, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return NewValidationError(key, value, "not an integer")
		}
		*p = v
	case *float64:
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return NewValidationError(key, value, "not a number")
		}
		*p = v
	case *string:
		*p = strings.TrimSpace(value)
	}
	return nil
}

// SetPair parses "key=value".
func (c *Config) SetPair(pair string) error {
	key, value, ok := strings.Cut(pair, "=")
	if !ok {
		return NewValidationError(pair, "", "expected key=value")
	}
	return c.Set(strings.TrimSpace(key), value)
}

// Keys lists the parameter keys in declaration order.
func Keys() []string {
	var p Params
	fields := p.fields()
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.key
	}
	return keys
}

type field struct {
	key string
	ptr interface{}
}

func (p *Params) fields() []field {
	return []field{
		{"patch_radius", &p.PatchRadius},
		{"sigma_multiplier", &p.SigmaMultiplier},
		{"morph_kernel", &p.MorphKernel},
		{"blend_strength", &p.BlendStrength},
		{"bilateral_diameter", &p.BilateralDiameter},
		{"bilateral_sigma_color", &p.BilateralSigmaColor},
		{"bilateral_sigma_space", &p.BilateralSigmaSpace},
		{"grabcut_iterations", &p.GrabCutIterations},
		{"feather_size", &p.FeatherSize},
		{"face_margin", &p.FaceMargin},
		{"blob_min_area", &p.BlobMinArea},
		{"blob_max_area", &p.BlobMaxArea},
		{"max_blemishes", &p.MaxBlemishes},
		{"cascade_path", &p.CascadePath},
		{"clone_method", &p.CloneMethod},
	}
}

func (p *Params) field(key string) (field, bool) {
	for _, f := range p.fields() {
		if f.key == key {
			return f, true
		}
	}
	return field{}, false
}
