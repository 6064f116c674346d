package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/deppfellow/medical-prescription/internal/service"
)

func importCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:       "import diseases|medicines|exams",
		Short:     "Load a catalog from a CSV file",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(service.ImportDiseases), string(service.ImportMedicines), string(service.ImportExams)},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()

			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()

			srv, stores, err := a.offlineServer(cmd.Context())
			if err != nil {
				return err
			}
			defer srv.DB.Close()

			catalog := service.NewCatalogService(srv, stores.Catalog, nil)
			inserted, err := catalog.Import(cmd.Context(), service.ImportKind(args[0]), f)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "imported %d %s\n", inserted, args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "CSV file to import")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
