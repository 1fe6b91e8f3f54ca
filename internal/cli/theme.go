package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yildizm/PalmScan/internal/theme"
)

func newThemeCommand() *cobra.Command {
	themeCmd := &cobra.Command{
		Use:   "theme",
		Short: "Show or change the saved color theme",
		Long: `Manage the light/dark theme preference used by the interactive form.

Without a saved preference the terminal background decides.`,
	}

	themeCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the active theme",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := themeStore()
			saved, ok, err := store.Saved()
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s %v\n", GetEmoji("warning"), err)
			}
			source := "saved"
			mode := saved
			if !ok {
				source = "detected"
				mode = store.Load()
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s, %s)\n", GetEmoji("theme"), mode, source, store.Path())
			return nil
		},
	})

	themeCmd.AddCommand(&cobra.Command{
		Use:   "toggle",
		Short: "Switch between light and dark",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := themeStore().Toggle()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Theme set to %s\n", GetEmoji("theme"), mode)
			return nil
		},
	})

	themeCmd.AddCommand(&cobra.Command{
		Use:       "set <light|dark>",
		Short:     "Save a theme",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(theme.Light), string(theme.Dark)},
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := theme.ParseMode(args[0])
			if err != nil {
				return err
			}
			if err := themeStore().Set(mode); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Theme set to %s\n", GetEmoji("theme"), mode)
			return nil
		},
	})

	return themeCmd
}

func themeStore() *theme.Store {
	return theme.NewStore(GetGlobalConfig().StateFilePath())
}
