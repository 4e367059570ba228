// Package bootstrap arma repositorios y casos de uso a partir de la configuración.
// Lo comparten la API HTTP y la CLI erpctl.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jhoicas/erp-core/internal/application/catalog"
	"github.com/jhoicas/erp-core/internal/application/inventory"
	"github.com/jhoicas/erp-core/internal/application/ledger"
	"github.com/jhoicas/erp-core/internal/application/ports"
	"github.com/jhoicas/erp-core/internal/application/sales"
	"github.com/jhoicas/erp-core/internal/domain/repository"
	"github.com/jhoicas/erp-core/internal/infrastructure/memory"
	"github.com/jhoicas/erp-core/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/erp-core/internal/infrastructure/pdf"
	"github.com/jhoicas/erp-core/internal/infrastructure/postgres"
	"github.com/jhoicas/erp-core/pkg/config"
	"github.com/jhoicas/erp-core/pkg/logger"
)

// TxRunner transacciones del ledger y de ventas sobre el mismo almacenamiento.
type TxRunner interface {
	ledger.TxRunner
	sales.TxRunner
}

// Repositories puertos de persistencia del driver configurado.
type Repositories struct {
	Materials repository.MaterialRepository
	BOMs      repository.BillOfMaterialRepository
	Stock     repository.StockRepository
	Accounts  repository.AccountRepository
	Postings  repository.PostingRepository
	Partners  repository.PartnerRepository
	Orders    repository.SalesOrderRepository
	Tx        TxRunner
}

// App casos de uso listos para exponer.
type App struct {
	Config       *config.Config
	Repos        Repositories
	Metrics      ports.Metrics
	Prometheus   *metrics.Prometheus // nil si METRICS_ENABLED=false
	Catalog      *catalog.CatalogUseCase
	Availability *inventory.AvailabilityUseCase
	Ledger       *ledger.Service
	Statements   *ledger.StatementUseCase
	Partners     *sales.PartnerUseCase
	Orders       *sales.OrderUseCase
	Coordinator  *sales.OrderCoordinator
}

// OpenRepositories abre el almacenamiento según STORAGE_DRIVER. close libera el pool si aplica.
func OpenRepositories(ctx context.Context, cfg *config.Config, log *logger.Logger) (repos Repositories, closeFn func(), err error) {
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		store := memory.NewStore()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al detener el proceso")
		return Repositories{
			Materials: store.Materials(),
			BOMs:      store.BillsOfMaterial(),
			Stock:     store.Stock(),
			Accounts:  store.Accounts(),
			Postings:  store.Postings(),
			Partners:  store.Partners(),
			Orders:    store.SalesOrders(),
			Tx:        memory.NewTxRunner(store),
		}, func() {}, nil

	case config.StoragePostgres:
		if cfg.Storage.MigrationsOnStart {
			if err := postgres.NewMigrator(cfg.DB.ConnectionString(), log).Up(ctx); err != nil {
				return Repositories{}, nil, fmt.Errorf("migraciones: %w", err)
			}
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return Repositories{}, nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		return Repositories{
			Materials: postgres.NewMaterialRepository(pool),
			BOMs:      postgres.NewBillOfMaterialRepository(pool),
			Stock:     postgres.NewStockRepository(pool),
			Accounts:  postgres.NewAccountRepository(pool),
			Postings:  postgres.NewPostingRepository(pool),
			Partners:  postgres.NewPartnerRepository(pool),
			Orders:    postgres.NewSalesOrderRepository(pool),
			Tx:        postgres.NewTxRunner(pool),
		}, pool.Close, nil

	default:
		return Repositories{}, nil, fmt.Errorf("STORAGE_DRIVER desconocido: %q", cfg.Storage.Driver)
	}
}

// Build abre el almacenamiento y construye todos los casos de uso.
func Build(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, func(), error) {
	repos, closeFn, err := OpenRepositories(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	app := Wire(cfg, repos, log)
	return app, closeFn, nil
}

// Wire construye los casos de uso sobre repositorios ya abiertos.
func Wire(cfg *config.Config, repos Repositories, log *logger.Logger) *App {
	app := &App{Config: cfg, Repos: repos, Metrics: ports.NopMetrics{}}
	if cfg.Metrics.Enabled {
		app.Prometheus = metrics.NewPrometheus()
		app.Metrics = app.Prometheus
	}

	repoCatalog := inventory.NewRepositoryCatalog(repos.Materials, repos.BOMs)
	app.Availability = inventory.NewAvailabilityUseCase(repoCatalog, repos.Stock, cfg.BOM.MaxDepth, app.Metrics, log)
	app.Catalog = catalog.NewCatalogUseCase(repos.Materials, repos.BOMs, repos.Stock, cfg.BOM.MaxDepth)

	app.Ledger = ledger.NewService(repos.Accounts, repos.Postings, repos.Tx, app.Metrics, log)
	app.Statements = ledger.NewStatementUseCase(app.Ledger, infrapdf.NewMarotoStatementGenerator())

	app.Partners = sales.NewPartnerUseCase(repos.Partners, repos.Accounts, app.Ledger, repos.Tx)
	app.Orders = sales.NewOrderUseCase(repos.Orders, repos.Partners, repos.Accounts, repos.Materials)
	app.Coordinator = sales.NewOrderCoordinator(
		repos.Orders, repos.Partners, app.Availability.Checker(), app.Ledger, repos.Tx, app.Metrics, log,
	)
	return app
}
