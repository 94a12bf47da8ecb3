package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// AnalyticsConfig tunes the analytics endpoints. It is read from an optional
// YAML file and completed with defaults.
type AnalyticsConfig struct {
	DefaultPageSize   int              `yaml:"default_page_size"`
	MaxPageSize       int              `yaml:"max_page_size"`
	ScatterSampleSize int              `yaml:"scatter_sample_size"`
	SampleSeed        uint64           `yaml:"sample_seed"`
	TopRecipes        int              `yaml:"top_recipes"`
	MaxTopRecipes     int              `yaml:"max_top_recipes"`
	SimilarRecipes    int              `yaml:"similar_recipes"`
	Clustering        ClusteringConfig `yaml:"clustering"`
}

// ClusteringConfig configures the /clusters endpoint.
type ClusteringConfig struct {
	// DefaultK of zero picks k from the record count.
	DefaultK      int   `yaml:"default_k"`
	MaxK          int   `yaml:"max_k"`
	MaxIterations int   `yaml:"max_iterations"`
	Standardize   *bool `yaml:"standardize"`
}

// StandardizeEnabled reports whether features are z-scored before clustering.
func (c ClusteringConfig) StandardizeEnabled() bool {
	return c.Standardize == nil || *c.Standardize
}

// LoadAnalyticsConfig reads the YAML file at path and applies defaults. An
// empty path or a missing file yields the defaults.
func LoadAnalyticsConfig(path string) (AnalyticsConfig, error) {
	var cfg AnalyticsConfig
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read analytics config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse analytics config: %w", err)
			}
		}
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyDefaults fills zero values.
func (c *AnalyticsConfig) ApplyDefaults() {
	if c.DefaultPageSize == 0 {
		c.DefaultPageSize = 20
	}
	if c.MaxPageSize == 0 {
		c.MaxPageSize = 100
	}
	if c.ScatterSampleSize == 0 {
		c.ScatterSampleSize = 500
	}
	if c.SampleSeed == 0 {
		c.SampleSeed = 42
	}
	if c.TopRecipes == 0 {
		c.TopRecipes = 10
	}
	if c.MaxTopRecipes == 0 {
		c.MaxTopRecipes = 100
	}
	if c.SimilarRecipes == 0 {
		c.SimilarRecipes = 5
	}
	if c.Clustering.MaxK == 0 {
		c.Clustering.MaxK = 10
	}
	if c.Clustering.MaxIterations == 0 {
		c.Clustering.MaxIterations = 100
	}
}

// Validate rejects settings the endpoints cannot honour.
func (c AnalyticsConfig) Validate() error {
	switch {
	case c.DefaultPageSize < 1:
		return ValidationError{Field: "default_page_size", Message: "must be at least 1"}
	case c.MaxPageSize < c.DefaultPageSize:
		return ValidationError{Field: "max_page_size", Message: "must not be below default_page_size"}
	case c.ScatterSampleSize < 1:
		return ValidationError{Field: "scatter_sample_size", Message: "must be at least 1"}
	case c.TopRecipes < 1 || c.MaxTopRecipes < c.TopRecipes:
		return ValidationError{Field: "top_recipes", Message: "must be between 1 and max_top_recipes"}
	case c.SimilarRecipes < 1:
		return ValidationError{Field: "similar_recipes", Message: "must be at least 1"}
	case c.Clustering.DefaultK < 0 || c.Clustering.DefaultK > c.Clustering.MaxK:
		return ValidationError{Field: "clustering.default_k", Message: "must be between 0 and max_k"}
	case c.Clustering.MaxIterations < 1:
		return ValidationError{Field: "clustering.max_iterations", Message: "must be at least 1"}
	}
	return nil
}
