package cmd

import (
	"github.com/spf13/cobra"

	"github.com/matheuskafuri/newsletter/internal/theme"
)

var themeCmd = &cobra.Command{
	Use:       "theme [light|dark|toggle]",
	Short:     "Show or change the terminal browser theme",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"light", "dark", "toggle"},
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := env.openPrefs()
		if err != nil {
			return err
		}
		defer store.Close()

		th := theme.New(store)
		current := th.Hydrate()
		if len(args) == 0 {
			env.printer.Print("%s", current)
			return nil
		}

		next := current.Other()
		if args[0] != "toggle" {
			if next, err = theme.Parse(args[0]); err != nil {
				return err
			}
		}
		if err := th.Set(next); err != nil {
			return err
		}
		env.printer.Success("Theme set to %s", next)
		return nil
	},
}
