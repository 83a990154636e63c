package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"condo/internal/mockapi"
	"condo/internal/model"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the sample condominium data into the store",
	Long: `Loads the sample users, tickets, expenses, residents, reservations and
announcements. Without --force an already populated store is left alone;
with it the sample records overwrite those with the same ids.`,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().Bool("force", false, "Overwrite sample records even if the store has data")
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	force, _ := cmd.Flags().GetBool("force")

	store, err := newStore(storeConfig())
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	ds := model.Seed()
	if force {
		err = mockapi.Load(ctx, store, ds, hashPassword)
	} else {
		var seeded bool
		seeded, err = mockapi.LoadIfEmpty(ctx, store, ds, hashPassword)
		if err == nil && !seeded {
			fmt.Fprintln(cmd.OutOrStdout(), "Store already has data; use --force to overwrite the sample records.")
			return nil
		}
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d usuarios, %d chamados, %d gastos, %d moradores, %d reservas, %d avisos into %s store.\n",
		len(ds.Usuarios), len(ds.Chamados), len(ds.Gastos), len(ds.Moradores), len(ds.Reservas), len(ds.Avisos),
		viper.GetString("store.type"))
	return nil
}
