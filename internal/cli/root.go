package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/yildizm/PalmScan/internal/config"
	"github.com/yildizm/PalmScan/internal/emoji"
)

var (
	cfgFile   string
	verbose   bool
	noColor   bool
	noEmoji   bool
	outputFmt string
	endpoint  string

	globalConfig *config.Config
)

// NewRootCommand creates the root command
func NewRootCommand(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "palmscan",
		Short: "Palm Tree Disease Detector",
		Long: `PalmScan uploads photos of palm trees to a disease inference service
and presents the diagnosis: the detected disease, confidence, severity,
symptoms, treatment and prevention advice.

Run without arguments to open the interactive upload form, or use the
subcommands for batch analysis, drop folders and service statistics.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewLoader().LoadConfig(cfgFile)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("endpoint") {
				cfg.Server.Endpoint = endpoint
			}
			if verbose {
				cfg.Output.Verbose = true
			}
			if !cmd.Flags().Changed("output") {
				outputFmt = cfg.Output.Format
			}
			globalConfig = cfg

			// Auto-disable emojis on Windows if not explicitly set
			if runtime.GOOS == "windows" && !cmd.Flags().Changed("no-emoji") {
				noEmoji = true
			}
			emoji.SetEmojiDisabled(noEmoji || !cfg.Output.Emoji)
			return nil
		},
		Args: cobra.MaximumNArgs(1),
		RunE: runUI,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&noEmoji, "no-emoji", false, "disable emoji output (useful for Windows terminals)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "text", "output format (text, json, markdown, report)")
	rootCmd.PersistentFlags().StringVar(&endpoint, "endpoint", "", "inference service URL (overrides config)")

	// Add subcommands
	rootCmd.AddCommand(newAnalyzeCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newUICommand())
	rootCmd.AddCommand(newHealthCommand())
	rootCmd.AddCommand(newStatsCommand())
	rootCmd.AddCommand(newFeedbackCommand())
	rootCmd.AddCommand(newThemeCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newVersionCommand(version, commit, date))

	return rootCmd
}

func newVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display version number, build commit, date, and runtime information",
		Run: func(cmd *cobra.Command, args []string) {
			displayVersion := version
			displayCommit := commit
			displayDate := date

			if version == "dev" || version == "" {
				displayVersion = "development"
			}
			if commit == "none" || commit == "" {
				displayCommit = "local-build"
			}
			if date == "unknown" || date == "" {
				displayDate = "local-build"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "PalmScan %s (%s) built on %s\n", displayVersion, displayCommit, displayDate)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

// GetGlobalConfig returns the configuration loaded for the running command
func GetGlobalConfig() *config.Config {
	if globalConfig == nil {
		return config.DefaultConfig()
	}
	return globalConfig
}

// Global helpers
func isVerbose() bool {
	return verbose || GetGlobalConfig().Output.Verbose
}

func getOutputFormat() string {
	return outputFmt
}

func isEmojiDisabled() bool {
	return emoji.IsEmojiDisabled()
}
