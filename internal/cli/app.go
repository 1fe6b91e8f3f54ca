package cli

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/yildizm/PalmScan/internal/client"
	"github.com/yildizm/PalmScan/internal/config"
	"github.com/yildizm/PalmScan/internal/controller"
	"github.com/yildizm/PalmScan/internal/formatter"
	"github.com/yildizm/PalmScan/internal/intake"
	"github.com/yildizm/PalmScan/internal/logger"
)

// newLogger returns a component logger gated by --verbose
func newLogger(component string) *logger.Logger {
	return logger.NewWithCallback(component, isVerbose)
}

// clientConfig maps the server section onto the service client settings
func clientConfig(cfg *config.Config) *client.Config {
	cc := client.DefaultConfig()
	cc.BaseURL = cfg.Server.Endpoint
	if cfg.Server.AnalyzePath != "" {
		cc.AnalyzePath = cfg.Server.AnalyzePath
	}
	if cfg.Server.HealthPath != "" {
		cc.HealthPath = cfg.Server.HealthPath
	}
	if cfg.Server.AnalyticsPath != "" {
		cc.AnalyticsPath = cfg.Server.AnalyticsPath
	}
	if cfg.Server.FeedbackPath != "" {
		cc.FeedbackPath = cfg.Server.FeedbackPath
	}
	if cfg.Server.ResetPath != "" {
		cc.ResetPath = cfg.Server.ResetPath
	}
	cc.Timeout = cfg.Server.Timeout
	return cc
}

// newClient builds the inference service client from cfg
func newClient(cfg *config.Config) (*client.Client, error) {
	return client.New(clientConfig(cfg), client.WithLogger(newLogger("client")))
}

// progressSchedule turns the configured delays into the progress sequence
func progressSchedule(cfg *config.Config) controller.Schedule {
	s := controller.DefaultSchedule()
	s.Steps[0].Delay = cfg.Progress.Preparing
	s.Steps[1].Delay = cfg.Progress.Uploading
	s.Steps[2].Delay = cfg.Progress.Preprocessing
	s.Finalize.Delay = cfg.Progress.Generating
	s.Complete.Delay = cfg.Progress.Complete
	return s
}

func sleeper(cfg *config.Config) controller.Sleeper {
	if cfg.Progress.Enabled {
		return controller.Sleep
	}
	return controller.NoSleep
}

func validator(cfg *config.Config) *intake.Validator {
	return &intake.Validator{
		AllowedTypes: cfg.Upload.AllowedTypes,
		MaxSize:      cfg.Upload.MaxSize,
	}
}

func exporter(cfg *config.Config) *formatter.Exporter {
	return &formatter.Exporter{
		Dir:    cfg.ReportDirPath(),
		Format: cfg.Output.ReportFormat,
	}
}

// controllerOptions returns the options shared by every command that analyzes
func controllerOptions(cfg *config.Config) []controller.Option {
	return []controller.Option{
		controller.WithValidator(validator(cfg)),
		controller.WithExporter(exporter(cfg)),
		controller.WithSchedule(progressSchedule(cfg)),
		controller.WithSleeper(sleeper(cfg)),
		controller.WithLogger(newLogger("controller")),
	}
}

// useColor resolves --no-color and the configured color mode against stdout
func useColor(cfg *config.Config) bool {
	if noColor {
		return false
	}
	fd := os.Stdout.Fd()
	return cfg.UseColor(isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd))
}

// getFormatter returns the appropriate formatter for the given format
func getFormatter(format string, color bool) (formatter.Formatter, error) {
	return formatter.New(format, formatter.Options{
		Color: color,
		Emoji: !isEmojiDisabled(),
	})
}
