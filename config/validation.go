package config

import (
	"fmt"
	"os"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConfigRequirements defines required configuration for each environment
type ConfigRequirements struct {
	RequiredEnvVars []string
}

var (
	// Environment-specific requirements
	requirements = map[Environment]ConfigRequirements{
		Development: {},
		Test:        {},
		CI: {
			RequiredEnvVars: []string{
				"DATASET_SOURCE",
			},
		},
		Production: {
			RequiredEnvVars: []string{
				"SERVER_PORT",
				"DATASET_SOURCE",
			},
		},
	}
)

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	env := GetEnvironment()
	reqs := requirements[env]

	var errs []string
	for _, envVar := range reqs.RequiredEnvVars {
		if value := os.Getenv(envVar); value == "" {
			errs = append(errs, fmt.Sprintf("required environment variable %s is not set", envVar))
		}
	}

	switch cfg.DatasetSource {
	case SourceFile:
		if cfg.DatasetPath == "" {
			errs = append(errs, ValidationError{Field: "DATASET_PATH", Message: "required for the file source"}.Error())
		}
	case SourceS3:
		if cfg.S3Bucket == "" {
			errs = append(errs, ValidationError{Field: "S3_BUCKET_NAME", Message: "required for the s3 source"}.Error())
		}
		if cfg.DatasetKey == "" {
			errs = append(errs, ValidationError{Field: "DATASET_KEY", Message: "required for the s3 source"}.Error())
		}
	case SourceDatabase:
		errs = append(errs, validateDatabase(cfg, env)...)
	default:
		errs = append(errs, ValidationError{Field: "DATASET_SOURCE", Message: fmt.Sprintf("unknown source %q", cfg.DatasetSource)}.Error())
	}

	if cfg.RateLimit < 0 {
		errs = append(errs, ValidationError{Field: "RATE_LIMIT", Message: "must not be negative"}.Error())
	}
	if cfg.RateLimit > 0 && cfg.RateLimitWindow <= 0 {
		errs = append(errs, ValidationError{Field: "RATE_LIMIT_WINDOW", Message: "must be positive"}.Error())
	}

	if err := cfg.Analytics.Validate(); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}
	return nil
}

func validateDatabase(cfg *Config, env Environment) []string {
	var errs []string
	switch cfg.DBDriver {
	case "sqlite":
		if cfg.SQLitePath == "" {
			errs = append(errs, ValidationError{Field: "SQLITE_PATH", Message: "required for the sqlite driver"}.Error())
		}
	case "postgres":
		if cfg.DBHost == "" || cfg.DBName == "" {
			errs = append(errs, ValidationError{Field: "DB_HOST", Message: "host and database name are required"}.Error())
		}
		// Production passwords come from the environment or the db_password secret
		if env == Production && cfg.DBPassword == "" {
			errs = append(errs, "db_password secret is required")
		}
	default:
		errs = append(errs, ValidationError{Field: "DB_DRIVER", Message: fmt.Sprintf("unknown driver %q", cfg.DBDriver)}.Error())
	}
	return errs
}
