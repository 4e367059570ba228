package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/jhoicas/erp-core/internal/bootstrap"
)

func newResolveCommand(newLogger loggerFactory) *cobra.Command {
	var quantity string
	var check bool

	cmd := &cobra.Command{
		Use:   "resolve <material-id>",
		Short: "Resuelve la lista de materiales a materiales atómicos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := decimal.NewFromString(quantity)
			if err != nil {
				return fmt.Errorf("quantity inválido %q: %w", quantity, err)
			}
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("cargar configuración: %w", err)
			}
			app, closeFn, err := bootstrap.Build(cmd.Context(), cfg, newLogger(cmd, cfg.App.Env))
			if err != nil {
				return err
			}
			defer closeFn()

			out := cmd.OutOrStdout()
			if !check {
				req, err := app.Availability.Requirements(cmd.Context(), args[0], qty)
				if err != nil {
					return err
				}
				for _, r := range req.Requirements {
					fmt.Fprintf(out, "%s\t%s\n", r.MaterialID, r.Quantity.String())
				}
				return nil
			}

			av, err := app.Availability.CheckMaterial(cmd.Context(), args[0], qty)
			if err != nil {
				return err
			}
			for _, r := range av.Requirements {
				fmt.Fprintf(out, "%s\t%s\n", r.MaterialID, r.Quantity.String())
			}
			for _, s := range av.Shortages {
				fmt.Fprintf(out, "faltante %s\trequerido=%s\tdisponible=%s\n",
					s.MaterialID, s.RequiredQuantity.String(), s.AvailableQuantity.String())
			}
			fmt.Fprintf(out, "disponible=%t\n", av.Available)
			return nil
		},
	}

	cmd.Flags().StringVarP(&quantity, "quantity", "q", "1", "unidades a fabricar")
	cmd.Flags().BoolVar(&check, "check", false, "comparar además con el stock disponible")

	return cmd
}
