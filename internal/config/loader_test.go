package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolatedLoader searches only paths inside a temp dir
func isolatedLoader(t *testing.T, files map[string]string) *Loader {
	t.Helper()
	dir := t.TempDir()
	names := []string{"project.yaml", "user.yaml", "system.yaml"}
	paths := make([]string, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		if content, ok := files[name]; ok {
			if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
				t.Fatalf("Failed to write %s: %v", name, err)
			}
		}
		paths = append(paths, path)
	}
	return &Loader{configPaths: paths}
}

func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	if loader == nil {
		t.Fatal("NewLoader returned nil")
	}
	if len(loader.configPaths) != 3 {
		t.Errorf("Expected 3 config paths, got %d", len(loader.configPaths))
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := isolatedLoader(t, nil).LoadConfig("")
	if err != nil {
		t.Fatalf("Failed to load default config: %v", err)
	}

	if cfg.Server.Endpoint != "http://localhost:5000" {
		t.Errorf("Expected default endpoint, got %s", cfg.Server.Endpoint)
	}
	if cfg.Output.Format != "text" {
		t.Errorf("Expected default output format text, got %s", cfg.Output.Format)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "test-config.yaml")

	configContent := `version: "1.0"
server:
  endpoint: "https://palms.example.com"
  timeout: 45s
output:
  format: "json"
  report_format: "markdown"
  verbose: true
  emoji: false
upload:
  max_size: 2048
`

	if err := os.WriteFile(configPath, []byte(configContent), 0o600); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}

	cfg, err := NewLoader().LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config from file: %v", err)
	}

	if cfg.Server.Endpoint != "https://palms.example.com" {
		t.Errorf("Expected custom endpoint, got %s", cfg.Server.Endpoint)
	}
	if cfg.Server.Timeout != 45*time.Second {
		t.Errorf("Expected timeout 45s, got %v", cfg.Server.Timeout)
	}
	if cfg.Server.AnalyzePath != "/analyze" {
		t.Errorf("Expected analyze path to keep its default, got %s", cfg.Server.AnalyzePath)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("Expected output format json, got %s", cfg.Output.Format)
	}
	if cfg.Output.ReportFormat != "markdown" {
		t.Errorf("Expected report format markdown, got %s", cfg.Output.ReportFormat)
	}
	if !cfg.Output.Verbose {
		t.Errorf("Expected verbose to be true")
	}
	if cfg.Output.Emoji {
		t.Errorf("Expected emoji to be disabled by the file")
	}
	if cfg.Upload.MaxSize != 2048 {
		t.Errorf("Expected max size 2048, got %d", cfg.Upload.MaxSize)
	}
	if len(cfg.Upload.AllowedTypes) != 3 {
		t.Errorf("Expected default allowed types to survive, got %v", cfg.Upload.AllowedTypes)
	}
}

func TestLoadConfigPriority(t *testing.T) {
	loader := isolatedLoader(t, map[string]string{
		"system.yaml":  "output:\n  format: markdown\n  report_dir: /srv/reports\n",
		"user.yaml":    "output:\n  format: json\n",
		"project.yaml": "progress:\n  enabled: false\n",
	})

	cfg, err := loader.LoadConfig("")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Output.Format != "json" {
		t.Errorf("Expected user file to override system file, got %s", cfg.Output.Format)
	}
	if cfg.Output.ReportDir != "/srv/reports" {
		t.Errorf("Expected report dir from system file, got %s", cfg.Output.ReportDir)
	}
	if cfg.Progress.Enabled {
		t.Errorf("Expected project file to disable progress")
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid-config.yaml")

	invalidConfigContent := `version: "1.0"
server:
  endpoint: "http://localhost:5000"
  # Invalid YAML - missing closing quote
output:
  format: "json
  verbose: true
`

	if err := os.WriteFile(configPath, []byte(invalidConfigContent), 0o600); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}

	if _, err := NewLoader().LoadConfig(configPath); err == nil {
		t.Error("Expected error loading invalid YAML config, but got none")
	}
}

func TestLoadConfigInvalidValues(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "bad-values.yaml")
	if err := os.WriteFile(configPath, []byte("output:\n  report_format: pdf\n"), 0o600); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}

	_, err := NewLoader().LoadConfig(configPath)
	if err == nil {
		t.Fatal("Expected validation error, but got none")
	}
	if !strings.Contains(err.Error(), "invalid report format") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	envVars := map[string]string{
		"PALMSCAN_SERVER_ENDPOINT":      "https://inference.internal:8443",
		"PALMSCAN_SERVER_TIMEOUT":       "15s",
		"PALMSCAN_OUTPUT_VERBOSE":       "true",
		"PALMSCAN_OUTPUT_EMOJI":         "false",
		"PALMSCAN_UPLOAD_MAX_SIZE":      "5242880",
		"PALMSCAN_UPLOAD_ALLOWED_TYPES": "image/png, image/jpeg",
		"PALMSCAN_UI_THEME":             "dark",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg := DefaultConfig()
	if err := NewLoader().applyEnvOverrides(cfg); err != nil {
		t.Fatalf("Failed to apply env overrides: %v", err)
	}

	if cfg.Server.Endpoint != "https://inference.internal:8443" {
		t.Errorf("Expected endpoint override, got %s", cfg.Server.Endpoint)
	}
	if cfg.Server.Timeout != 15*time.Second {
		t.Errorf("Expected timeout 15s, got %v", cfg.Server.Timeout)
	}
	if !cfg.Output.Verbose {
		t.Errorf("Expected verbose to be true")
	}
	if cfg.Output.Emoji {
		t.Errorf("Expected emoji to be false")
	}
	if cfg.Upload.MaxSize != 5242880 {
		t.Errorf("Expected max size 5242880, got %d", cfg.Upload.MaxSize)
	}
	expectedTypes := []string{"image/png", "image/jpeg"}
	if len(cfg.Upload.AllowedTypes) != len(expectedTypes) {
		t.Fatalf("Expected %d allowed types, got %v", len(expectedTypes), cfg.Upload.AllowedTypes)
	}
	for i, expected := range expectedTypes {
		if cfg.Upload.AllowedTypes[i] != expected {
			t.Errorf("Expected allowed type %s, got %s", expected, cfg.Upload.AllowedTypes[i])
		}
	}
	if cfg.UI.Theme != "dark" {
		t.Errorf("Expected theme dark, got %s", cfg.UI.Theme)
	}
}

func TestApplyEnvOverridesInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		envVar string
		value  string
	}{
		{"invalid int", "PALMSCAN_SERVER_MAX_CONCURRENT", "not-a-number"},
		{"invalid int64", "PALMSCAN_UPLOAD_MAX_SIZE", "ten megabytes"},
		{"invalid bool", "PALMSCAN_OUTPUT_VERBOSE", "not-a-bool"},
		{"invalid duration", "PALMSCAN_SERVER_TIMEOUT", "not-a-duration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.envVar, tt.value)

			if err := NewLoader().applyEnvOverrides(DefaultConfig()); err == nil {
				t.Error("Expected error for invalid env var value, but got none")
			}
		})
	}
}

func TestParseHelpers(t *testing.T) {
	var duration time.Duration
	if err := parseDuration("800ms", &duration); err != nil || duration != 800*time.Millisecond {
		t.Errorf("parseDuration = %v, %v", duration, err)
	}
	if err := parseDuration("soon", &duration); err == nil {
		t.Error("Expected error for invalid duration")
	}

	var n int
	if err := parseInt("8", &n); err != nil || n != 8 {
		t.Errorf("parseInt = %d, %v", n, err)
	}

	var size int64
	if err := parseInt64("10485760", &size); err != nil || size != 10485760 {
		t.Errorf("parseInt64 = %d, %v", size, err)
	}

	var value bool
	if err := parseBool("true", &value); err != nil || !value {
		t.Errorf("parseBool = %v, %v", value, err)
	}
	if err := parseBool("maybe", &value); err == nil {
		t.Error("Expected error for invalid bool")
	}
}

func TestFileExists(t *testing.T) {
	if fileExists("/path/that/does/not/exist") {
		t.Error("Expected file to not exist, but fileExists returned true")
	}

	tempFile := filepath.Join(t.TempDir(), "test-file")
	if err := os.WriteFile(tempFile, []byte("test"), 0o600); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}

	if !fileExists(tempFile) {
		t.Error("Expected file to exist, but fileExists returned false")
	}
}

func TestValidateConfigPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
		errMsg  string
	}{
		{name: "valid yaml file", path: "config.yaml"},
		{name: "valid yml file", path: "config.yml"},
		{name: "relative path with valid extension", path: "./configs/app.yaml"},
		{name: "home path", path: "~/.config/palmscan/config.yaml"},
		{
			name:    "path traversal attempt",
			path:    "../../../etc/passwd",
			wantErr: true,
			errMsg:  "path traversal not allowed",
		},
		{
			name:    "non-yaml file",
			path:    "config.txt",
			wantErr: true,
			errMsg:  "config file must have .yaml or .yml extension",
		},
		{
			name:    "proc filesystem access",
			path:    "/proc/version.yaml",
			wantErr: true,
			errMsg:  "access to system files not allowed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfigPath(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error but got none")
				} else if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("Expected error message to contain '%s', got '%s'", tt.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}
