package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/erp-core/internal/bootstrap"
)

func newVerifyCommand(newLogger loggerFactory) *cobra.Command {
	var onlyMismatches bool

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Compara el saldo almacenado de cada cuenta con la suma de sus asientos",
		Long:  "Recorre todas las cuentas y reporta diferencias. No corrige saldos; termina con error si hay inconsistencias.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("cargar configuración: %w", err)
			}
			app, closeFn, err := bootstrap.Build(cmd.Context(), cfg, newLogger(cmd, cfg.App.Env))
			if err != nil {
				return err
			}
			defer closeFn()

			checks, err := app.Ledger.VerifyAll(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			bad := 0
			for _, c := range checks {
				if !c.Consistent {
					bad++
				} else if onlyMismatches {
					continue
				}
				fmt.Fprintf(out, "%s\talmacenado=%s\tderivado=%s\tasientos=%d\tconsistente=%t\n",
					c.AccountID, c.Cached.String(), c.Derived.String(), c.Postings, c.Consistent)
			}
			fmt.Fprintf(out, "%d cuentas verificadas, %d inconsistentes\n", len(checks), bad)
			if bad > 0 {
				return fmt.Errorf("%d cuentas con saldo inconsistente", bad)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&onlyMismatches, "only-mismatches", false, "mostrar solo cuentas inconsistentes")

	return cmd
}
