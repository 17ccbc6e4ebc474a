package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Cache    CacheConfig    `mapstructure:"cache"    validate:"required"`
	Scoring  ScoringConfig  `mapstructure:"scoring"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// CacheConfig contains the tuning knobs for the in-process cache layer.
// Durations are expressed in seconds so they can be set from plain
// environment variables.
type CacheConfig struct {
	SweepIntervalSeconds int `mapstructure:"sweep_interval_seconds" validate:"required,gt=0"`
	RefreshWorkers       int `mapstructure:"refresh_workers"        validate:"required,gt=0,lte=64"`
	RefreshQueueSize     int `mapstructure:"refresh_queue_size"     validate:"required,gt=0"`
	TopKeyLimit          int `mapstructure:"top_key_limit"          validate:"required,gt=0"`
}

// ScoringConfig optionally overrides the default scoring parameters.
// Zero values mean "keep the default", so the whole section can be
// omitted from the environment.
type ScoringConfig struct {
	HighPriorityPoints   float64 `mapstructure:"high_priority_points"    validate:"gte=0"`
	MediumPriorityPoints float64 `mapstructure:"medium_priority_points"  validate:"gte=0"`
	LowPriorityPoints    float64 `mapstructure:"low_priority_points"     validate:"gte=0"`
	EarlyBonusPerDay     float64 `mapstructure:"early_bonus_per_day"     validate:"gte=0"`
	LatePenaltyPerDay    float64 `mapstructure:"late_penalty_per_day"    validate:"gte=0"`
	OverduePenaltyPerDay float64 `mapstructure:"overdue_penalty_per_day" validate:"gte=0"`
}
