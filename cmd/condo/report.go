package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"condo/internal/listing"
	"condo/internal/mockapi"
	"condo/internal/model"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the expense and ticket report",
	RunE:  runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().Bool("json", false, "Print the report as JSON")
}

func runReport(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	a, err := openApp(cmd.Context(), nil)
	if err != nil {
		return err
	}
	defer a.Close()

	rep, err := a.api.Report(cmd.Context())
	if err != nil {
		return err
	}
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
	printReport(cmd.OutOrStdout(), rep)
	return nil
}

func printReport(w io.Writer, rep mockapi.Report) {
	fmt.Fprintf(w, "Total de gastos:    %s\n", listing.Money(rep.TotalGastos))
	fmt.Fprintf(w, "Total de chamados:  %d\n", rep.TotalChamados)
	fmt.Fprintf(w, "Total de moradores: %d\n", rep.TotalMoradores)

	fmt.Fprintln(w, "\nGastos por mês")
	for _, m := range rep.GastosPorMes {
		fmt.Fprintf(w, "  %s  %s\n", m.Mes, listing.Money(m.Total))
	}

	fmt.Fprintln(w, "\nGastos por categoria")
	for _, c := range rep.GastosPorCategoria {
		fmt.Fprintf(w, "  %-16s %14s  %s\n", model.Label(model.CategoriasGasto, c.Categoria), listing.Money(c.Valor), listing.Percent(c.Percentual))
	}

	fmt.Fprintln(w, "\nChamados por status")
	for _, s := range rep.ChamadosPorStatus {
		fmt.Fprintf(w, "  %-16s %4d  %s\n", model.Label(model.StatusChamado, s.Status), s.Quantidade, listing.Percent(s.Percentual))
	}
}
