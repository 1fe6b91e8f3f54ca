package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config holds the complete application configuration
type Config struct {
	Version  string         `yaml:"version" json:"version"`
	Server   ServerConfig   `yaml:"server" json:"server"`
	Upload   UploadConfig   `yaml:"upload" json:"upload"`
	Progress ProgressConfig `yaml:"progress" json:"progress"`
	Output   OutputConfig   `yaml:"output" json:"output"`
	UI       UIConfig       `yaml:"ui" json:"ui"`
	Watch    WatchConfig    `yaml:"watch" json:"watch"`
}

// ServerConfig configures the inference service
type ServerConfig struct {
	Endpoint      string        `yaml:"endpoint" json:"endpoint"`             // base URL
	AnalyzePath   string        `yaml:"analyze_path" json:"analyze_path"`     // multipart upload path
	HealthPath    string        `yaml:"health_path" json:"health_path"`       // health probe path
	AnalyticsPath string        `yaml:"analytics_path" json:"analytics_path"` // usage statistics path
	FeedbackPath  string        `yaml:"feedback_path" json:"feedback_path"`   // feedback submit/stats path
	ResetPath     string        `yaml:"reset_path" json:"reset_path"`         // statistics reset path
	Timeout       time.Duration `yaml:"timeout" json:"timeout"`               // 0 means no timeout
	MaxConcurrent int           `yaml:"max_concurrent" json:"max_concurrent"` // parallel uploads in batch mode
}

// UploadConfig configures file acceptance
type UploadConfig struct {
	MaxSize      int64    `yaml:"max_size" json:"max_size"`           // bytes
	AllowedTypes []string `yaml:"allowed_types" json:"allowed_types"` // media types
}

// ProgressConfig configures the simulated progress schedule
type ProgressConfig struct {
	Enabled       bool          `yaml:"enabled" json:"enabled"` // false skips every delay
	Preparing     time.Duration `yaml:"preparing" json:"preparing"`
	Uploading     time.Duration `yaml:"uploading" json:"uploading"`
	Preprocessing time.Duration `yaml:"preprocessing" json:"preprocessing"`
	Generating    time.Duration `yaml:"generating" json:"generating"`
	Complete      time.Duration `yaml:"complete" json:"complete"`
}

// OutputConfig configures output formatting and display
type OutputConfig struct {
	Format       string `yaml:"format" json:"format"`               // text|json|markdown|report
	ReportFormat string `yaml:"report_format" json:"report_format"` // text|json|markdown
	ReportDir    string `yaml:"report_dir" json:"report_dir"`       // where exported reports go
	ColorMode    string `yaml:"color_mode" json:"color_mode"`       // auto|always|never
	Emoji        bool   `yaml:"emoji" json:"emoji"`
	Verbose      bool   `yaml:"verbose" json:"verbose"`
}

// UIConfig configures the interactive terminal UI
type UIConfig struct {
	Theme     string `yaml:"theme" json:"theme"`           // auto|light|dark
	StateFile string `yaml:"state_file" json:"state_file"` // persisted theme preference
}

// WatchConfig configures the drop folder watcher
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce" json:"debounce"` // wait for writes to settle
	Export   bool          `yaml:"export" json:"export"`     // write a report per analysis
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Server: ServerConfig{
			Endpoint:      "http://localhost:5000",
			AnalyzePath:   "/analyze",
			HealthPath:    "/health",
			AnalyticsPath: "/analytics",
			FeedbackPath:  "/feedback",
			ResetPath:     "/stats/reset",
			Timeout:       0,
			MaxConcurrent: 4,
		},
		Upload: UploadConfig{
			MaxSize:      10 * 1024 * 1024,
			AllowedTypes: []string{"image/jpeg", "image/jpg", "image/png"},
		},
		Progress: ProgressConfig{
			Enabled:       true,
			Preparing:     800 * time.Millisecond,
			Uploading:     600 * time.Millisecond,
			Preprocessing: 800 * time.Millisecond,
			Generating:    400 * time.Millisecond,
			Complete:      500 * time.Millisecond,
		},
		Output: OutputConfig{
			Format:       "text",
			ReportFormat: "text",
			ReportDir:    ".",
			ColorMode:    "auto",
			Emoji:        true,
			Verbose:      false,
		},
		UI: UIConfig{
			Theme:     "auto",
			StateFile: "~/.config/palmscan/state.yaml",
		},
		Watch: WatchConfig{
			Debounce: 250 * time.Millisecond,
			Export:   true,
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateServerConfig(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}
	if err := c.validateUploadConfig(); err != nil {
		return fmt.Errorf("upload config: %w", err)
	}
	if err := c.validateProgressConfig(); err != nil {
		return fmt.Errorf("progress config: %w", err)
	}
	if err := c.validateOutputConfig(); err != nil {
		return fmt.Errorf("output config: %w", err)
	}
	if err := c.validateUIConfig(); err != nil {
		return fmt.Errorf("ui config: %w", err)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch config: debounce must be non-negative")
	}
	return nil
}

// validateServerConfig validates service-related configuration
func (c *Config) validateServerConfig() error {
	if c.Server.Endpoint == "" {
		return fmt.Errorf("endpoint is required")
	}
	u, err := url.Parse(c.Server.Endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint %q: %w", c.Server.Endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid endpoint scheme: %s (must be http or https)", u.Scheme)
	}
	if c.Server.AnalyzePath == "" {
		return fmt.Errorf("analyze_path is required")
	}
	if c.Server.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}
	if c.Server.MaxConcurrent < 1 {
		return fmt.Errorf("max_concurrent must be greater than 0")
	}
	return nil
}

// validateUploadConfig validates file acceptance configuration
func (c *Config) validateUploadConfig() error {
	if c.Upload.MaxSize < 1 {
		return fmt.Errorf("max_size must be greater than 0")
	}
	if len(c.Upload.AllowedTypes) == 0 {
		return fmt.Errorf("allowed_types must not be empty")
	}
	for _, t := range c.Upload.AllowedTypes {
		if !strings.HasPrefix(strings.ToLower(t), "image/") {
			return fmt.Errorf("invalid allowed type: %s (must be an image type)", t)
		}
	}
	return nil
}

// validateProgressConfig validates the progress schedule delays
func (c *Config) validateProgressConfig() error {
	delays := map[string]time.Duration{
		"preparing":     c.Progress.Preparing,
		"uploading":     c.Progress.Uploading,
		"preprocessing": c.Progress.Preprocessing,
		"generating":    c.Progress.Generating,
		"complete":      c.Progress.Complete,
	}
	for name, d := range delays {
		if d < 0 {
			return fmt.Errorf("%s delay must be non-negative", name)
		}
	}
	return nil
}

// validateOutputConfig validates output-related configuration
func (c *Config) validateOutputConfig() error {
	if c.Output.Format != "" {
		validFormats := map[string]bool{
			"text":     true,
			"json":     true,
			"markdown": true,
			"report":   true,
		}
		if !validFormats[c.Output.Format] {
			return fmt.Errorf("invalid output format: %s (must be one of: text, json, markdown, report)", c.Output.Format)
		}
	}
	if c.Output.ReportFormat != "" {
		validReportFormats := map[string]bool{
			"text":     true,
			"json":     true,
			"markdown": true,
		}
		if !validReportFormats[c.Output.ReportFormat] {
			return fmt.Errorf("invalid report format: %s (must be one of: text, json, markdown)", c.Output.ReportFormat)
		}
	}
	if c.Output.ColorMode != "" {
		validColorModes := map[string]bool{
			"auto":   true,
			"always": true,
			"never":  true,
		}
		if !validColorModes[c.Output.ColorMode] {
			return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", c.Output.ColorMode)
		}
	}
	return nil
}

// validateUIConfig validates interactive UI configuration
func (c *Config) validateUIConfig() error {
	switch c.UI.Theme {
	case "", "auto", "light", "dark":
		return nil
	default:
		return fmt.Errorf("invalid theme: %s (must be one of: auto, light, dark)", c.UI.Theme)
	}
}

// StateFilePath returns the theme state file with ~ expanded
func (c *Config) StateFilePath() string {
	return expandPath(c.UI.StateFile)
}

// ReportDirPath returns the report directory with ~ expanded
func (c *Config) ReportDirPath() string {
	if c.Output.ReportDir == "" {
		return "."
	}
	return expandPath(c.Output.ReportDir)
}

// UseColor resolves the color mode against whether output is a terminal
func (c *Config) UseColor(isTerminal bool) bool {
	switch c.Output.ColorMode {
	case "always":
		return true
	case "never":
		return false
	default:
		return isTerminal
	}
}
