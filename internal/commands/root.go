// Package commands implementa la CLI erpctl: migraciones, verificación de saldos y resolución de listas de materiales.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/jhoicas/erp-core/pkg/config"
	"github.com/jhoicas/erp-core/pkg/logger"
)

// loadConfig se reemplaza en tests.
var loadConfig = config.Load

// NewRootCommand crea el comando raíz con todos los subcomandos registrados.
func NewRootCommand() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "erpctl",
		Short: "Herramientas de operación del núcleo ERP",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log de depuración en stderr")

	newLogger := func(cmd *cobra.Command, env string) *logger.Logger {
		level := "warn"
		if verbose {
			level = "debug"
		}
		return logger.New(logger.Config{Env: env, Level: level, Output: cmd.ErrOrStderr()})
	}

	rootCmd.AddCommand(newMigrateCommand(newLogger))
	rootCmd.AddCommand(newVerifyCommand(newLogger))
	rootCmd.AddCommand(newResolveCommand(newLogger))

	return rootCmd
}

type loggerFactory func(cmd *cobra.Command, env string) *logger.Logger
