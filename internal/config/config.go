package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level ebb.yaml configuration.
type Config struct {
	DefaultAccount string         `yaml:"default_account"`
	LookAheadDays  int            `yaml:"look_ahead_days"`
	LookBehindDays int            `yaml:"look_behind_days"`
	GraceDays      int            `yaml:"grace_days"`
	Database       string         `yaml:"database"`
	BankFeed       FeedConfig     `yaml:"bank_feed"`
	ScheduleStore  ScheduleConfig `yaml:"schedule_store"`
}

// FeedConfig locates the bank feed.
type FeedConfig struct {
	URL            string `yaml:"url,omitempty"`
	File           string `yaml:"file,omitempty"` // normalized statement JSON on disk
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// ScheduleConfig locates the external schedule store.
type ScheduleConfig struct {
	URL            string `yaml:"url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

const (
	minWindowDays = 4
	maxWindowDays = 30
)

// Load reads an ebb.yaml file from disk and normalizes it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Normalize()
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(defaultAccount string) *Config {
	return &Config{
		DefaultAccount: defaultAccount,
		LookAheadDays:  14,
		LookBehindDays: 14,
		GraceDays:      3,
		Database:       "ebb.db",
		BankFeed:       FeedConfig{TimeoutSeconds: 30},
		ScheduleStore:  ScheduleConfig{TimeoutSeconds: 30},
	}
}

// Normalize clamps the forecast windows to [4,30] days and fills zero
// values with defaults.
func (c *Config) Normalize() {
	c.LookAheadDays = clamp(c.LookAheadDays, minWindowDays, maxWindowDays)
	c.LookBehindDays = clamp(c.LookBehindDays, minWindowDays, maxWindowDays)
	if c.GraceDays <= 0 {
		c.GraceDays = 3
	}
	if c.Database == "" {
		c.Database = "ebb.db"
	}
	if c.BankFeed.TimeoutSeconds <= 0 {
		c.BankFeed.TimeoutSeconds = 30
	}
	if c.ScheduleStore.TimeoutSeconds <= 0 {
		c.ScheduleStore.TimeoutSeconds = 30
	}
}

// FeedTimeout returns the bank feed timeout as a duration.
func (c *Config) FeedTimeout() time.Duration {
	return time.Duration(c.BankFeed.TimeoutSeconds) * time.Second
}

// ScheduleTimeout returns the schedule store timeout as a duration.
func (c *Config) ScheduleTimeout() time.Duration {
	return time.Duration(c.ScheduleStore.TimeoutSeconds) * time.Second
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
