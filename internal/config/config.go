// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) to build a Config with defaults, Load to layer sources.
// - External errors must be wrapped via this package's error helpers.
package config

// AssignmentConfig binds one remote assignment to an evaluator key.
type AssignmentConfig struct {
	// ID is the assignment identifier on the course service.
	ID int64 `koanf:"id"`

	// Name is the display name, used only for logging.
	Name string `koanf:"name"`

	// Evaluator selects the rubric registered under this key.
	Evaluator string `koanf:"evaluator"`
}

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// MetricsAddr configures the Prometheus endpoint listen address.
	MetricsAddr string `koanf:"metrics_addr"`

	// APIToken is the bearer credential for the course service. Required.
	APIToken string `koanf:"api_token"`

	// BaseURL is the course service API root, e.g.
	// "https://bcourses.example.edu/api/v1".
	BaseURL string `koanf:"base_url"`

	// CourseID identifies the course whose assignments are swept.
	CourseID int64 `koanf:"course_id"`

	// PollIntervalSeconds is the sleep between sweeps.
	PollIntervalSeconds int `koanf:"poll_interval_seconds"`

	// HTTPTimeoutSeconds bounds each request to the course service.
	HTTPTimeoutSeconds int `koanf:"http_timeout_seconds"`

	// WorkerCount sets the number of grading workers per assignment.
	// 1 preserves strictly sequential processing.
	WorkerCount int `koanf:"worker_count"`

	// Assignments is the static table of assignments to grade.
	Assignments []AssignmentConfig `koanf:"assignments"`
}

// New creates a Config with defaults. The assignment table and credential
// have no defaults; they come from the file or environment layers.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		MetricsAddr:         ":9090",
		BaseURL:             "https://bcourses.berkeley.edu/api/v1",
		CourseID:            1531205,
		PollIntervalSeconds: 300,
		HTTPTimeoutSeconds:  30,
		WorkerCount:         1,
	}
}
