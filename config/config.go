// Package config loads the compositor's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration document.
type Config struct {
	// Term is the command used to spawn a terminal.
	Term []string `yaml:"term"`

	Outputs  []Output `yaml:"outputs"`
	Floating Floating `yaml:"floating"`
}

// Output configures one display, matched by name. Zero values mean
// "leave it to the backend": position -1,-1 auto-places the output in
// the layout, width/height 0 keep the preferred mode.
type Output struct {
	Name      string   `yaml:"name"`
	X         int      `yaml:"x"`
	Y         int      `yaml:"y"`
	Width     int      `yaml:"width"`
	Height    int      `yaml:"height"`
	Scale     float32  `yaml:"scale"`
	Transform int      `yaml:"transform"`
	Reserved  Reserved `yaml:"reserved"`
}

func (o *Output) UnmarshalYAML(node *yaml.Node) error {
	type raw Output
	r := raw{X: -1, Y: -1}
	if err := node.Decode(&r); err != nil {
		return err
	}
	*o = Output(r)
	return nil
}

// Reserved is space claimed along each output edge by panels and
// docks, in logical pixels. Windows are placed in what remains.
type Reserved struct {
	Top    int `yaml:"top"`
	Bottom int `yaml:"bottom"`
	Left   int `yaml:"left"`
	Right  int `yaml:"right"`
}

// Floating tunes the floating layout's chrome.
type Floating struct {
	// FocusIndicatorThickness is the focus ring width in logical
	// pixels. 0 disables the ring.
	FocusIndicatorThickness int `yaml:"focus_indicator_thickness"`
}

// Default is the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Term: []string{"alacritty"},
		Floating: Floating{
			FocusIndicatorThickness: 4,
		},
	}
}

// DefaultPath is the standard location of the config file.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("find config directory: %w", err)
	}
	return filepath.Join(dir, "cosmic-comp", "config.yaml"), nil
}

// Load reads the configuration from path. A missing file is not an
// error; the defaults are returned instead.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes a configuration document, filling unset fields from
// the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if len(cfg.Term) == 0 {
		cfg.Term = Default().Term
	}
	return cfg, nil
}

// ForOutput returns the configuration for the named output, if any.
func (c *Config) ForOutput(name string) (Output, bool) {
	for _, out := range c.Outputs {
		if out.Name == name {
			return out, true
		}
	}
	return Output{}, false
}
