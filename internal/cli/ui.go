package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/yildizm/PalmScan/internal/config"
	"github.com/yildizm/PalmScan/internal/controller"
	"github.com/yildizm/PalmScan/internal/history"
	"github.com/yildizm/PalmScan/internal/logger"
	"github.com/yildizm/PalmScan/internal/theme"
	"github.com/yildizm/PalmScan/internal/ui"
)

func newUICommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ui [image]",
		Short: "Open the interactive upload form",
		Long: `Open the full-screen upload form.

Type or paste an image path (dragging a file onto most terminals pastes its
path), press enter to analyze and review the diagnosis. The optional argument
preselects an image.

Keys:
  o        choose an image      enter/a  analyze
  c        clear                r        try again after an error
  n        new analysis         d        download report
  t        toggle theme         s        session statistics
  h, ?     help                 q        quit`,
		Args: cobra.MaximumNArgs(1),
		RunE: runUI,
	}
}

func runUI(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()

	svc, err := newClient(cfg)
	if err != nil {
		return fmt.Errorf("invalid service configuration: %w", err)
	}

	themes := theme.NewStore(cfg.StateFilePath())
	mode, err := initialTheme(cfg, themes)
	if err != nil {
		return err
	}

	store := history.New(nil)
	binding := ui.NewBinding()
	opts := append(controllerOptions(cfg),
		controller.WithObserver(binding.Observe),
		controller.WithThemes(themes),
		controller.WithHistory(store),
	)
	ctrl := controller.New(svc, opts...)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if len(args) == 1 {
		// a rejected file opens the form on the Error panel
		if _, err := ctrl.Dispatch(ctx, controller.Command{Action: controller.SelectFile, Path: args[0]}); err != nil {
			newLogger("ui").Debug("preselected file rejected: %v", err)
		}
	}

	// the alt screen owns the terminal until the program exits
	logger.SetOutput(io.Discard)
	defer logger.SetOutput(os.Stderr)

	return ui.InteractiveRun(ctx, ui.Options{
		Controller: ctrl,
		History:    store,
		Theme:      mode,
	}, binding)
}

// initialTheme resolves the configured theme; auto defers to the saved preference
func initialTheme(cfg *config.Config, themes *theme.Store) (theme.Mode, error) {
	if cfg.UI.Theme == "" || cfg.UI.Theme == "auto" {
		return themes.Load(), nil
	}
	mode, err := theme.ParseMode(cfg.UI.Theme)
	if err != nil {
		return "", fmt.Errorf("invalid theme setting: %w", err)
	}
	return mode, nil
}
