package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"condo/internal/listing"
	"condo/internal/mockapi"
	"condo/internal/model"
	"condo/internal/ui"
)

var avisosCmd = &cobra.Command{
	Use:   "avisos",
	Short: "Print the announcements, newest first",
	RunE:  runAvisos,
}

func init() {
	rootCmd.AddCommand(avisosCmd)
	avisosCmd.Flags().IntP("limit", "n", 5, "Number of announcements to show, 0 for all")
	avisosCmd.Flags().Bool("raw", false, "Print markdown without terminal styling")
}

// renderMarkdown is swapped in tests for a deterministic renderer.
var renderMarkdown = ui.RenderMarkdown

func runAvisos(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	raw, _ := cmd.Flags().GetBool("raw")

	a, err := openApp(cmd.Context(), nil)
	if err != nil {
		return err
	}
	defer a.Close()

	avisos, err := mockapi.ListAs[model.Aviso](cmd.Context(), a.api, model.Avisos)
	if err != nil {
		return err
	}
	slices.SortStableFunc(avisos, func(x, y model.Aviso) int {
		return y.PublicadoEm.Compare(x.PublicadoEm)
	})
	if limit > 0 && len(avisos) > limit {
		avisos = avisos[:limit]
	}
	if len(avisos) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Nenhum aviso publicado.")
		return nil
	}

	var b strings.Builder
	for i, av := range avisos {
		if i > 0 {
			b.WriteString("\n---\n\n")
		}
		fmt.Fprintf(&b, "## %s\n\n_%s · %s_\n\n%s\n", av.Titulo, listing.Date(av.PublicadoEm), av.Autor, av.Conteudo)
	}

	out := b.String()
	if !raw {
		if out, err = renderMarkdown(out); err != nil {
			return fmt.Errorf("failed to render announcements: %w", err)
		}
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}
