package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// Environment overrides, applied after the config file
const (
	EnvHome     = "HEALTHSCORE_HOME"
	EnvDB       = "HEALTHSCORE_DB"
	EnvFeed     = "HEALTHSCORE_FEED"
	EnvSchedule = "HEALTHSCORE_SCHEDULE"
)

// Config represents the application configuration
type Config struct {
	Profile  ProfileConfig  `json:"profile"`
	Baseline BaselineConfig `json:"baseline"`
	Stress   StressConfig   `json:"stress"`
	Sleep    SleepConfig    `json:"sleep"`
	Feed     FeedConfig     `json:"feed"`
	Storage  StorageConfig  `json:"storage"`
	Schedule ScheduleConfig `json:"schedule"`
}

// ProfileConfig holds the user's heart rate anchors
type ProfileConfig struct {
	Age       int     `json:"age"`
	RestingHR float64 `json:"resting_hr"`
	MaxHR     float64 `json:"max_hr"` // 0 estimates 220-age
}

// BaselineConfig sizes the rolling baseline windows
type BaselineConfig struct {
	MinimumDays       int `json:"minimum_days"`
	WindowDays        int `json:"window_days"`
	ChronicWindowDays int `json:"chronic_window_days"`
}

// StressConfig tunes elevated-period detection and charting
type StressConfig struct {
	Threshold            float64 `json:"threshold"`
	MinPeriodMinutes     int     `json:"min_period_minutes"`
	WorkoutBufferMinutes int     `json:"workout_buffer_minutes"` // 0 disables
	ChartPoints          int     `json:"chart_points"`
}

// SleepConfig holds the nightly sleep need
type SleepConfig struct {
	NeedHours float64 `json:"need_hours"`
}

// FeedConfig points at the wearable export
type FeedConfig struct {
	Path string `json:"path"`
}

// StorageConfig locates the SQLite database
type StorageConfig struct {
	DBPath string `json:"db_path"` // empty uses <home>/data.db
}

// ScheduleConfig is the cron spec for `watch`, with seconds
type ScheduleConfig struct {
	Cron string `json:"cron"`
}

// ErrNoConfig is returned when the config file doesn't exist
var ErrNoConfig = errors.New("config file not found")

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Profile: ProfileConfig{
			RestingHR: 55,
			MaxHR:     190,
		},
		Baseline: BaselineConfig{
			MinimumDays:       5,
			WindowDays:        7,
			ChronicWindowDays: 28,
		},
		Stress: StressConfig{
			Threshold:            2.0,
			MinPeriodMinutes:     5,
			WorkoutBufferMinutes: 60,
			ChartPoints:          48,
		},
		Sleep: SleepConfig{
			NeedHours: 8,
		},
		Schedule: ScheduleConfig{
			Cron: "0 30 6 * * *",
		},
	}
}

// Load reads <home>/config.json after loading a .env file from the
// working directory, if present. Environment variables override the file.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("loading .env: %w", err)
		}
	}

	dir, err := GetConfigDir()
	if err != nil {
		return nil, err
	}
	return LoadFrom(filepath.Join(dir, "config.json"))
}

// LoadFrom reads the config at path, fills defaults and applies env overrides
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNoConfig
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// 0 disables the workout buffer, so its default is seeded before decoding
	// and only an absent key falls back to it
	cfg := Config{Stress: StressConfig{WorkoutBufferMinutes: DefaultConfig().Stress.WorkoutBufferMinutes}}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()
	return &cfg, nil
}

// FromEnv returns the defaults with env overrides, for running without a file
func FromEnv() *Config {
	cfg := DefaultConfig()
	cfg.applyEnv()
	return &cfg
}

// applyDefaults fills zero values from DefaultConfig. The workout buffer is
// seeded in LoadFrom instead, since zero is a valid setting for it.
func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.Profile.RestingHR == 0 {
		c.Profile.RestingHR = d.Profile.RestingHR
	}
	if c.Profile.MaxHR == 0 && c.Profile.Age == 0 {
		c.Profile.MaxHR = d.Profile.MaxHR
	}
	if c.Baseline.MinimumDays == 0 {
		c.Baseline.MinimumDays = d.Baseline.MinimumDays
	}
	if c.Baseline.WindowDays == 0 {
		c.Baseline.WindowDays = d.Baseline.WindowDays
	}
	if c.Baseline.ChronicWindowDays == 0 {
		c.Baseline.ChronicWindowDays = d.Baseline.ChronicWindowDays
	}
	if c.Stress.Threshold == 0 {
		c.Stress.Threshold = d.Stress.Threshold
	}
	if c.Stress.MinPeriodMinutes == 0 {
		c.Stress.MinPeriodMinutes = d.Stress.MinPeriodMinutes
	}
	if c.Stress.ChartPoints == 0 {
		c.Stress.ChartPoints = d.Stress.ChartPoints
	}
	if c.Sleep.NeedHours == 0 {
		c.Sleep.NeedHours = d.Sleep.NeedHours
	}
	if c.Schedule.Cron == "" {
		c.Schedule.Cron = d.Schedule.Cron
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDB); v != "" {
		c.Storage.DBPath = v
	}
	if v := os.Getenv(EnvFeed); v != "" {
		c.Feed.Path = v
	}
	if v := os.Getenv(EnvSchedule); v != "" {
		c.Schedule.Cron = v
	}
}

// Save writes the configuration to <home>/config.json
func Save(cfg *Config) error {
	dir, err := GetConfigDir()
	if err != nil {
		return err
	}
	return SaveTo(cfg, filepath.Join(dir, "config.json"))
}

// SaveTo writes the configuration to path, creating its directory
func SaveTo(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// CreateExample creates an example config file if none exists
func CreateExample() error {
	dir, err := GetConfigDir()
	if err != nil {
		return err
	}
	path := filepath.Join(dir, "config.json")
	if _, err := os.Stat(path); err == nil {
		return nil // Config exists, don't overwrite
	}

	example := DefaultConfig()
	example.Profile.Age = 30
	example.Feed.Path = filepath.Join(dir, "export.json")
	return SaveTo(&example, path)
}

// Validate checks the config for impossible settings
func (c *Config) Validate() error {
	if c.Profile.Age < 0 || c.Profile.Age > 120 {
		return fmt.Errorf("profile.age must be between 0 and 120, got %d", c.Profile.Age)
	}
	if c.Profile.RestingHR < 0 {
		return fmt.Errorf("profile.resting_hr must be positive, got %v", c.Profile.RestingHR)
	}
	if c.Profile.MaxHR > 0 && c.Profile.MaxHR <= c.Profile.RestingHR {
		return fmt.Errorf("profile.max_hr (%v) must be greater than profile.resting_hr (%v)", c.Profile.MaxHR, c.Profile.RestingHR)
	}

	if c.Baseline.WindowDays <= 0 || c.Baseline.ChronicWindowDays <= 0 {
		return errors.New("baseline windows must be positive")
	}
	if c.Baseline.MinimumDays < 2 || c.Baseline.MinimumDays > c.Baseline.WindowDays {
		return fmt.Errorf("baseline.minimum_days must be between 2 and window_days (%d), got %d", c.Baseline.WindowDays, c.Baseline.MinimumDays)
	}
	if c.Baseline.ChronicWindowDays < c.Baseline.WindowDays {
		return fmt.Errorf("baseline.chronic_window_days (%d) must not be shorter than window_days (%d)", c.Baseline.ChronicWindowDays, c.Baseline.WindowDays)
	}

	if c.Stress.Threshold <= 0 || c.Stress.Threshold > 3 {
		return fmt.Errorf("stress.threshold must be in (0, 3], got %v", c.Stress.Threshold)
	}
	if c.Stress.MinPeriodMinutes <= 0 {
		return fmt.Errorf("stress.min_period_minutes must be positive, got %d", c.Stress.MinPeriodMinutes)
	}
	if c.Stress.WorkoutBufferMinutes < 0 {
		return fmt.Errorf("stress.workout_buffer_minutes must not be negative, got %d", c.Stress.WorkoutBufferMinutes)
	}
	if c.Stress.ChartPoints < 2 {
		return fmt.Errorf("stress.chart_points must be at least 2, got %d", c.Stress.ChartPoints)
	}

	if c.Sleep.NeedHours <= 0 || c.Sleep.NeedHours > 14 {
		return fmt.Errorf("sleep.need_hours must be in (0, 14], got %v", c.Sleep.NeedHours)
	}
	return nil
}

// MinPeriod is the minimum elevated-stress period as a duration
func (s StressConfig) MinPeriod() time.Duration {
	return time.Duration(s.MinPeriodMinutes) * time.Minute
}

// WorkoutBuffer is the post-workout exclusion window as a duration
func (s StressConfig) WorkoutBuffer() time.Duration {
	return time.Duration(s.WorkoutBufferMinutes) * time.Minute
}

// DBPath resolves the database location
func (c *Config) DBPath() (string, error) {
	if c.Storage.DBPath != "" {
		return c.Storage.DBPath, nil
	}
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "data.db"), nil
}

// GetConfigDir returns ~/.healthscore or HEALTHSCORE_HOME when set
func GetConfigDir() (string, error) {
	if dir := os.Getenv(EnvHome); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".healthscore"), nil
}
