package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/erp-core/internal/infrastructure/postgres"
	"github.com/jhoicas/erp-core/pkg/config"
)

func newMigrateCommand(newLogger loggerFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Aplica o revierte las migraciones de PostgreSQL",
	}

	migrator := func(cmd *cobra.Command) (*postgres.Migrator, error) {
		cfg, err := loadConfig()
		if err != nil {
			return nil, fmt.Errorf("cargar configuración: %w", err)
		}
		if cfg.Storage.Driver != config.StoragePostgres {
			return nil, fmt.Errorf("migrate requiere STORAGE_DRIVER=postgres, actual %q", cfg.Storage.Driver)
		}
		return postgres.NewMigrator(cfg.DB.ConnectionString(), newLogger(cmd, cfg.App.Env)), nil
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Aplica todas las migraciones pendientes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := migrator(cmd)
			if err != nil {
				return err
			}
			if err := m.Up(cmd.Context()); err != nil {
				return err
			}
			return printVersion(cmd, m)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Revierte la última migración",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := migrator(cmd)
			if err != nil {
				return err
			}
			if err := m.Down(cmd.Context()); err != nil {
				return err
			}
			return printVersion(cmd, m)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Muestra el estado de cada migración",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := migrator(cmd)
			if err != nil {
				return err
			}
			return m.Status(cmd.Context())
		},
	})

	return cmd
}

func printVersion(cmd *cobra.Command, m *postgres.Migrator) error {
	v, err := m.Version(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "versión del esquema: %d\n", v)
	return nil
}
