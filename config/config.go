// Package config loads the YAML configuration of the sunspots tools.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/sartorproj/sunspots/chart"
	"github.com/sartorproj/sunspots/forecast"
	"github.com/sartorproj/sunspots/logging"
	"github.com/sartorproj/sunspots/timeseries"
)

// Config is the complete configuration.
type Config struct {
	Data      DataConfig      `yaml:"data"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Forecast  forecast.Config `yaml:"forecast"`
	Server    ServerConfig    `yaml:"server"`
	Logging   logging.Config  `yaml:"logging"`
}

// DataConfig locates the input files.
type DataConfig struct {
	Path string `yaml:"path" validate:"required"` // year,value file
	// ForecastPath is an optional ds,y file for the forecast view; when empty
	// the forecast uses Path.
	ForecastPath string `yaml:"forecast_path"`
}

// DashboardConfig holds the default display parameters.
type DashboardConfig struct {
	// Zero years fall back to the bounds of the data.
	YearFrom    int     `yaml:"year_from" validate:"min=0"`
	YearTo      int     `yaml:"year_to" validate:"min=0"`
	Bins        int     `yaml:"bins" validate:"min=1"`
	TrendDegree int     `yaml:"trend_degree" validate:"min=1"`
	PointSize   float64 `yaml:"point_size" validate:"gt=0"`
	PointAlpha  float64 `yaml:"point_alpha" validate:"gt=0,lte=1"`
	Smooth      int     `yaml:"smooth" validate:"min=0"`
}

// ServerConfig configures the dashboard HTTP server.
type ServerConfig struct {
	Addr         string        `yaml:"addr" validate:"required"`
	ReadTimeout  time.Duration `yaml:"read_timeout" validate:"gte=0"`
	WriteTimeout time.Duration `yaml:"write_timeout" validate:"gte=0"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Data: DataConfig{Path: "data/sunspots.csv"},
		Dashboard: DashboardConfig{
			Bins:        30,
			TrendDegree: 1,
			PointSize:   20,
			PointAlpha:  0.5,
		},
		Forecast: forecast.DefaultConfig(),
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		Logging: logging.Config{Level: "info", Format: "json"},
	}
}

// Load reads the YAML file at path over the defaults and validates the
// result. An empty path returns the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		cfg := Default()
		return cfg, cfg.Validate()
	}
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := Read(f)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Read decodes YAML from r over the defaults and validates the result.
// Unknown keys are rejected.
func Read(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every section.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Params returns the dashboard parameters for series, filling a zero year
// bound from the data.
func (d DashboardConfig) Params(series *timeseries.Series) chart.Params {
	p := chart.DefaultParams(series)
	if d.YearFrom != 0 {
		p.YearFrom = d.YearFrom
	}
	if d.YearTo != 0 {
		p.YearTo = d.YearTo
	}
	p.Bins = d.Bins
	p.TrendDegree = d.TrendDegree
	p.PointSize = d.PointSize
	p.PointAlpha = d.PointAlpha
	p.Smooth = d.Smooth
	return p
}
