// Package config loads and validates CLI configuration. Values come from
// flags, environment variables and an optional config file, merged by
// viper; flags win.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/vpotap/CleanHTML/pkg/cleanhtml"
)

// Config holds the CLI settings.
type Config struct {
	// Cleaning options, mirroring the five library options.
	Images  bool `mapstructure:"images"`
	Italics bool `mapstructure:"italics"`
	Links   bool `mapstructure:"links"`
	Table   bool `mapstructure:"table"`
	Strip   bool `mapstructure:"strip"`

	// LineBreaks controls <br /> insertion for the autop command.
	LineBreaks bool `mapstructure:"line_breaks"`

	// Format selects the output serialization.
	Format string `mapstructure:"format" validate:"oneof=html json yaml markdown"`

	// Concurrency bounds how many files are cleaned at once.
	Concurrency int `mapstructure:"concurrency" validate:"gte=1,lte=64"`

	// Stats includes per-phase metrics in structured output.
	Stats bool `mapstructure:"stats"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		LineBreaks:  true,
		Format:      "html",
		Concurrency: 4,
	}
}

// Load unmarshals the merged viper state and validates it.
func Load() (Config, error) {
	cfg := Default()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading configuration: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Options maps the config onto the library's option record.
func (c Config) Options() cleanhtml.Options {
	return cleanhtml.Options{
		Images:  c.Images,
		Italics: c.Italics,
		Links:   c.Links,
		Table:   c.Table,
		Strip:   c.Strip,
	}
}
