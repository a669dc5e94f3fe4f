/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/

// Package mongo uploads a converted course into a MongoDB-backed LMS
// catalog: one course document plus flattened curriculum items.
package mongo

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the upload target settings.
type Config struct {
	URI                  string `mapstructure:"uri"`
	Database             string `mapstructure:"database"`
	CourseCollection     string `mapstructure:"course_collection"`
	CurriculumCollection string `mapstructure:"curriculum_collection"`
}

// LoadConfig reads settings from an optional config file plus the
// COURSEPORT_MONGO_* environment, environment winning.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("COURSEPORT_MONGO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unmarshal only sees keys viper knows about, so bind each one even
	// when it has no default.
	for _, key := range []string{"uri", "database", "course_collection", "curriculum_collection"} {
		_ = v.BindEnv(key)
	}

	v.SetDefault("database", "tutor_lms")
	v.SetDefault("course_collection", "courses")
	v.SetDefault("curriculum_collection", "curriculum_items")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read upload config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse upload config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the settings are usable.
func (c *Config) Validate() error {
	if c.URI == "" {
		return fmt.Errorf("mongo URI is not set (COURSEPORT_MONGO_URI)")
	}
	if !strings.HasPrefix(c.URI, "mongodb://") && !strings.HasPrefix(c.URI, "mongodb+srv://") {
		return fmt.Errorf("mongo URI must start with mongodb:// or mongodb+srv://")
	}
	return nil
}
