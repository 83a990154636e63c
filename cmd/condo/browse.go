package main

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"condo/internal/model"
	"condo/internal/ui"
)

var browseCmd = &cobra.Command{
	Use:   "browse [resource]",
	Short: "Browse a list of records in the terminal",
	Long: `Opens a full screen list of chamados, gastos, moradores, usuarios,
reservas or avisos with the same search, sort and filters as the dashboard.
Without an argument the resource is asked for.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: resourceNames(),
	RunE:      runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func resourceNames() []string {
	names := make([]string, len(model.Resources))
	for i, r := range model.Resources {
		names[i] = r.String()
	}
	return names
}

func runBrowse(cmd *cobra.Command, args []string) error {
	var name string
	if len(args) == 1 {
		name = args[0]
	} else {
		err := askOneFunc(&survey.Select{
			Message: "Which list do you want to browse?",
			Options: resourceNames(),
			Default: model.Chamados.String(),
		}, &name)
		if err != nil {
			return err
		}
	}
	res, err := model.ParseResource(name)
	if err != nil {
		return err
	}

	a, err := openApp(cmd.Context(), nil)
	if err != nil {
		return err
	}
	defer a.Close()

	m, err := ui.NewResourceBrowser(a.api, res, ui.Options{Breakpoint: a.cfg.Layout.TerminalBreakpoint})
	if err != nil {
		return err
	}
	if err := ui.Run(m); err != nil {
		return fmt.Errorf("browser failed: %w", err)
	}
	return nil
}
