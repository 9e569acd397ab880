package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/orayew2002/checklist-excel/excel"
	"github.com/orayew2002/checklist-excel/layout"
	"gopkg.in/yaml.v3"
)

// DefaultOutput is the file name exports are saved under.
const DefaultOutput = "bathroom_renovation_checklist.xlsx"

// SearchPaths are tried in order when no config path is given.
var SearchPaths = []string{
	"checklist-excel.yaml",
	"configs/checklist-excel.yaml",
	"/etc/checklist-excel/config.yaml",
}

// Config represents the exporter configuration
type Config struct {
	// Layout is one of sections, grouped, consolidated.
	Layout string `yaml:"layout"`
	// Columns is the task column order; empty means the layout default.
	Columns      []string `yaml:"columns,omitempty"`
	Output       string   `yaml:"output"`
	FallbackName string   `yaml:"fallback_sheet_name"`
	TitleRow     bool     `yaml:"title_row"`
	GrandTotal   bool     `yaml:"grand_total"`
	Creator      string   `yaml:"creator"`
	LogLevel     string   `yaml:"log_level"`

	// ConfigPath is the path the config was loaded from (not serialized)
	ConfigPath string `yaml:"-"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Layout:       string(layout.ModeSections),
		Output:       DefaultOutput,
		FallbackName: excel.FallbackSheetName,
		Creator:      "Bathroom Renovation Checklist App",
		LogLevel:     "info",
	}
}

// Load reads the config at path over the defaults. With an empty path the
// SearchPaths are tried, and the defaults are returned if none exists.
func Load(path string) (*Config, error) {
	cfg := Default()

	paths := SearchPaths
	if path != "" {
		paths = []string{path}
	}

	for _, p := range paths {
		data, err := os.ReadFile(p)
		if errors.Is(err, fs.ErrNotExist) && path == "" {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", p, err)
		}
		cfg.ConfigPath = p
		break
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the layout name and column list.
func (c *Config) Validate() error {
	if _, err := layout.ParseMode(c.Layout); err != nil {
		return err
	}
	if len(c.Columns) > 0 {
		if err := layout.ValidateColumns(c.Columns); err != nil {
			return err
		}
	}
	return nil
}

// LayoutOptions converts the config into options for layout.Build.
func (c *Config) LayoutOptions() (layout.Options, error) {
	mode, err := layout.ParseMode(c.Layout)
	if err != nil {
		return layout.Options{}, err
	}

	return layout.Options{
		Mode:         mode,
		Columns:      c.Columns,
		FallbackName: c.FallbackName,
		TitleRow:     c.TitleRow,
		GrandTotal:   c.GrandTotal,
	}, nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
