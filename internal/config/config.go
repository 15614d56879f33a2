package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"   validate:"required"`
	Session   SessionConfig   `mapstructure:"session"   validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" validate:"required"`
	Store     StoreConfig     `mapstructure:"store"`
}

// LoggingConfig contains all logging-related settings.
type LoggingConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// SessionConfig contains the study-session behavior settings.
type SessionConfig struct {
	LearnLimit  int    `mapstructure:"learn_limit"  validate:"gte=0"`
	ReviewLimit int    `mapstructure:"review_limit" validate:"gte=0"`
	SessionSize int    `mapstructure:"session_size" validate:"gte=0"`
	SortMethod  string `mapstructure:"sort_method"  validate:"required,oneof=paired sequential random"`
	AllowRedos  bool   `mapstructure:"allow_redos"`
}

// SchedulerConfig selects and tunes the scheduling algorithm.
type SchedulerConfig struct {
	Algorithm           string `mapstructure:"algorithm" validate:"required,oneof=basic sm2 fsrs static"`
	CompletionThreshold int    `mapstructure:"completion_threshold" validate:"gte=0"`
	UserLevel           int    `mapstructure:"user_level" validate:"gte=0"`
}

// StoreConfig contains persistence adapter settings. Path is the SQLite
// database file; empty keeps assignments in memory only.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}
