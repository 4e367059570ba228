package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/erp-core/internal/application/catalog"
	"github.com/jhoicas/erp-core/internal/application/inventory"
	"github.com/jhoicas/erp-core/internal/application/ledger"
	"github.com/jhoicas/erp-core/internal/application/sales"
	"github.com/jhoicas/erp-core/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CatalogUC      *catalog.CatalogUseCase
	AvailabilityUC *inventory.AvailabilityUseCase
	Ledger         *ledger.Service
	Statements     *ledger.StatementUseCase // opcional
	PartnerUC      *sales.PartnerUseCase
	OrderUC        *sales.OrderUseCase
	Coordinator    *sales.OrderCoordinator
	MetricsHandler nethttp.Handler // nil deshabilita /metrics
	MetricsPath    string
	Log            *logger.Logger // nil deshabilita el log de peticiones
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.MetricsHandler != nil {
		path := deps.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(deps.MetricsHandler))
	}

	api := app.Group("/api", RequestUser())
	if deps.Log != nil {
		api.Use(RequestLogger(deps.Log))
	}

	// Materiales y listas de materiales
	materials := api.Group("/materials")
	catalogHandler := NewCatalogHandler(deps.CatalogUC, deps.AvailabilityUC)
	materials.Post("/", catalogHandler.Create)
	materials.Get("/:id", catalogHandler.GetByID)
	materials.Put("/:id/bom", catalogHandler.SetBillOfMaterial)
	materials.Put("/:id/stock", catalogHandler.SetStock)
	materials.Get("/:id/requirements", catalogHandler.Requirements)
	materials.Get("/:id/availability", catalogHandler.Availability)

	// Inventario
	inventoryHandler := NewInventoryHandler(deps.AvailabilityUC)
	api.Post("/inventory/availability", inventoryHandler.CheckAvailability)

	// Cuentas y asientos
	accounts := api.Group("/accounts")
	ledgerHandler := NewLedgerHandler(deps.Ledger, deps.Statements)
	accounts.Get("/:id", ledgerHandler.GetAccount)
	accounts.Get("/:id/postings", ledgerHandler.ListPostings)
	accounts.Post("/:id/postings", ledgerHandler.AppendPosting)
	accounts.Delete("/:id/postings/:postingId", ledgerHandler.RemovePosting)
	accounts.Get("/:id/verify", ledgerHandler.Verify)
	if deps.Statements != nil {
		accounts.Get("/:id/statement", ledgerHandler.Statement)
	} else {
		accounts.Get("/:id/statement", statementUnavailable)
	}

	// Terceros y pedidos de venta
	salesHandler := NewSalesHandler(deps.PartnerUC, deps.OrderUC, deps.Coordinator)
	partners := api.Group("/partners")
	partners.Post("/", salesHandler.CreatePartner)
	partners.Get("/:id", salesHandler.GetPartner)

	orders := api.Group("/sales-orders")
	orders.Post("/", salesHandler.CreateOrder)
	orders.Get("/:id", salesHandler.GetOrder)
	orders.Post("/:id/items/:itemId/accept", salesHandler.AcceptItem)
}
