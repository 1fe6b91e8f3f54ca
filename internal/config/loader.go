package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigPaths defines the config file search paths in priority order
var ConfigPaths = []string{
	"./.palmscan.yaml",               // Project-specific config (highest priority)
	"~/.config/palmscan/config.yaml", // User config
	"/etc/palmscan/config.yaml",      // System config (lowest priority)
}

// Loader handles configuration loading with priority merging
type Loader struct {
	configPaths []string
}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return &Loader{
		configPaths: ConfigPaths,
	}
}

// LoadConfig loads configuration from multiple sources with priority order:
// 1. Command line flags (handled by caller)
// 2. Environment variables
// 3. ./.palmscan.yaml
// 4. ~/.config/palmscan/config.yaml
// 5. /etc/palmscan/config.yaml
// 6. Built-in defaults
func (l *Loader) LoadConfig(customPath string) (*Config, error) {
	config := DefaultConfig()

	if customPath != "" {
		if err := validateConfigPath(customPath); err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		if err := l.loadFromFile(config, expandPath(customPath)); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", customPath, err)
		}
	} else {
		// lowest priority first so later files win
		for i := len(l.configPaths) - 1; i >= 0; i-- {
			expandedPath := expandPath(l.configPaths[i])
			if !fileExists(expandedPath) {
				continue
			}
			if err := l.loadFromFile(config, expandedPath); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: Failed to load config from %s: %v\n", expandedPath, err)
			}
		}
	}

	if err := l.applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// loadFromFile overlays the keys present in a YAML file onto config.
// Keys the file omits keep their current value; config is untouched on error.
func (l *Loader) loadFromFile(config *Config, path string) error {
	// #nosec G304 - path is validated by validateConfigPath() or comes from ConfigPaths
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	overlay := *config
	overlay.Upload.AllowedTypes = append([]string(nil), config.Upload.AllowedTypes...)
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	*config = overlay
	return nil
}

// applyEnvOverrides applies environment variable overrides to the config
func (l *Loader) applyEnvOverrides(config *Config) error {
	envMappings := map[string]func(string) error{
		// Server Config
		"PALMSCAN_SERVER_ENDPOINT":       func(v string) error { config.Server.Endpoint = v; return nil },
		"PALMSCAN_SERVER_ANALYZE_PATH":   func(v string) error { config.Server.AnalyzePath = v; return nil },
		"PALMSCAN_SERVER_TIMEOUT":        func(v string) error { return parseDuration(v, &config.Server.Timeout) },
		"PALMSCAN_SERVER_MAX_CONCURRENT": func(v string) error { return parseInt(v, &config.Server.MaxConcurrent) },

		// Upload Config
		"PALMSCAN_UPLOAD_MAX_SIZE": func(v string) error { return parseInt64(v, &config.Upload.MaxSize) },

		// Progress Config
		"PALMSCAN_PROGRESS_ENABLED": func(v string) error { return parseBool(v, &config.Progress.Enabled) },

		// Output Config
		"PALMSCAN_OUTPUT_FORMAT":        func(v string) error { config.Output.Format = v; return nil },
		"PALMSCAN_OUTPUT_REPORT_FORMAT": func(v string) error { config.Output.ReportFormat = v; return nil },
		"PALMSCAN_OUTPUT_REPORT_DIR":    func(v string) error { config.Output.ReportDir = v; return nil },
		"PALMSCAN_OUTPUT_COLOR_MODE":    func(v string) error { config.Output.ColorMode = v; return nil },
		"PALMSCAN_OUTPUT_EMOJI":         func(v string) error { return parseBool(v, &config.Output.Emoji) },
		"PALMSCAN_OUTPUT_VERBOSE":       func(v string) error { return parseBool(v, &config.Output.Verbose) },

		// UI Config
		"PALMSCAN_UI_THEME":      func(v string) error { config.UI.Theme = v; return nil },
		"PALMSCAN_UI_STATE_FILE": func(v string) error { config.UI.StateFile = v; return nil },

		// Watch Config
		"PALMSCAN_WATCH_DEBOUNCE": func(v string) error { return parseDuration(v, &config.Watch.Debounce) },
		"PALMSCAN_WATCH_EXPORT":   func(v string) error { return parseBool(v, &config.Watch.Export) },
	}

	for envVar, setter := range envMappings {
		if value := os.Getenv(envVar); value != "" {
			if err := setter(value); err != nil {
				return fmt.Errorf("invalid value for %s: %w", envVar, err)
			}
		}
	}

	// comma-separated list
	if types := os.Getenv("PALMSCAN_UPLOAD_ALLOWED_TYPES"); types != "" {
		config.Upload.AllowedTypes = nil
		for _, t := range strings.Split(types, ",") {
			if t = strings.TrimSpace(t); t != "" {
				config.Upload.AllowedTypes = append(config.Upload.AllowedTypes, t)
			}
		}
	}

	return nil
}

// GetConfigPaths returns the list of configuration file paths that will be searched
func GetConfigPaths() []string {
	paths := make([]string, 0, len(ConfigPaths))
	for _, path := range ConfigPaths {
		paths = append(paths, expandPath(path))
	}
	return paths
}

// FindConfigFile returns the highest priority config file that exists
func FindConfigFile() (string, bool) {
	for _, path := range GetConfigPaths() {
		if fileExists(path) {
			return path, true
		}
	}
	return "", false
}

// Helper functions

// validateConfigPath validates that a config path is safe to read
func validateConfigPath(path string) error {
	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("config file must have .yaml or .yml extension")
	}

	absPath, err := filepath.Abs(expandPath(cleanPath))
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if strings.HasPrefix(absPath, "/proc/") || strings.HasPrefix(absPath, "/sys/") {
		return fmt.Errorf("access to system files not allowed")
	}

	return nil
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func parseInt(s string, dst *int) error {
	val, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseInt64(s string, dst *int64) error {
	val, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseBool(s string, dst *bool) error {
	val, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseDuration(s string, dst *time.Duration) error {
	val, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}
