package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-core/internal/application/catalog"
	"github.com/jhoicas/erp-core/internal/application/dto"
	"github.com/jhoicas/erp-core/internal/application/inventory"
	"github.com/jhoicas/erp-core/internal/application/ledger"
	"github.com/jhoicas/erp-core/internal/application/sales"
	"github.com/jhoicas/erp-core/internal/infrastructure/memory"
	"github.com/jhoicas/erp-core/internal/infrastructure/metrics"
	"github.com/jhoicas/erp-core/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/erp-core/internal/interfaces/http"
	"github.com/jhoicas/erp-core/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// buildTestApp construye la API completa sobre el almacenamiento en memoria.
func buildTestApp(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	tx := memory.NewTxRunner(store)
	log := logger.Nop()
	prom := metrics.NewPrometheus()

	repoCatalog := inventory.NewRepositoryCatalog(store.Materials(), store.BillsOfMaterial())
	availability := inventory.NewAvailabilityUseCase(repoCatalog, store.Stock(), 16, prom, log)
	ledgerSvc := ledger.NewService(store.Accounts(), store.Postings(), tx, prom, log)

	app := apphttp.NewApp("erp-core-test")
	apphttp.Router(app, apphttp.RouterDeps{
		CatalogUC:      catalog.NewCatalogUseCase(store.Materials(), store.BillsOfMaterial(), store.Stock(), 16),
		AvailabilityUC: availability,
		Ledger:         ledgerSvc,
		Statements:     ledger.NewStatementUseCase(ledgerSvc, pdf.NewMarotoStatementGenerator()),
		PartnerUC:      sales.NewPartnerUseCase(store.Partners(), store.Accounts(), ledgerSvc, tx),
		OrderUC:        sales.NewOrderUseCase(store.SalesOrders(), store.Partners(), store.Accounts(), store.Materials()),
		Coordinator:    sales.NewOrderCoordinator(store.SalesOrders(), store.Partners(), availability.Checker(), ledgerSvc, tx, prom, log),
		MetricsHandler: prom.Handler(),
		Log:            log,
	})
	return app
}

// do lanza la petición con body JSON opcional y devuelve la respuesta.
func do(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(apphttp.HeaderUserID, "u-test")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func createMaterial(t *testing.T, app *fiber.App, code string, composite bool, stock int64) dto.MaterialResponse {
	t.Helper()
	resp := do(t, app, http.MethodPost, "/api/materials", dto.CreateMaterialRequest{
		Code: code, Name: code, Composite: composite, StockQuantity: decimal.NewFromInt(stock),
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	return decode[dto.MaterialResponse](t, resp)
}

func setBOM(t *testing.T, app *fiber.App, id string, items ...dto.BillOfMaterialItemDTO) *http.Response {
	t.Helper()
	return do(t, app, http.MethodPut, "/api/materials/"+id+"/bom", dto.SetBillOfMaterialRequest{Items: items})
}

func item(n int, componentID string, qty int64) dto.BillOfMaterialItemDTO {
	return dto.BillOfMaterialItemDTO{ItemID: n, ComponentID: componentID, Quantity: decimal.NewFromInt(qty)}
}

// kitScenario kit = 2 tornillos + 1 tuerca; devuelve los IDs de kit y tornillo.
func kitScenario(t *testing.T, app *fiber.App, screws int64) (string, string) {
	t.Helper()
	screw := createMaterial(t, app, "TORNILLO", false, screws)
	nut := createMaterial(t, app, "TUERCA", false, 100)
	kit := createMaterial(t, app, "KIT", true, 0)
	resp := setBOM(t, app, kit.ID, item(1, screw.ID, 2), item(2, nut.ID, 1))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	return kit.ID, screw.ID
}

func orderFor(t *testing.T, app *fiber.App, materialID string, qty int64, price string) (dto.PartnerResponse, dto.SalesOrderResponse) {
	t.Helper()
	resp := do(t, app, http.MethodPost, "/api/partners", dto.CreatePartnerRequest{Name: "ACME", TaxID: "900-1", Currency: "USD"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	partner := decode[dto.PartnerResponse](t, resp)

	resp = do(t, app, http.MethodPost, "/api/sales-orders", dto.CreateSalesOrderRequest{
		Number: "SO-1", PartnerID: partner.ID, Currency: "USD",
		Items: []dto.SalesOrderItemRequest{{MaterialID: materialID, Quantity: decimal.NewFromInt(qty), UnitPrice: decimal.RequireFromString(price)}},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	return partner, decode[dto.SalesOrderResponse](t, resp)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests materiales
// ──────────────────────────────────────────────────────────────────────────────

func TestMaterials_RequerimientosYDisponibilidad(t *testing.T) {
	app := buildTestApp(t)
	kitID, screwID := kitScenario(t, app, 5)

	resp := do(t, app, http.MethodGet, "/api/materials/"+kitID+"/requirements?quantity=3", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	req := decode[dto.RequirementsResponse](t, resp)
	require.Len(t, req.Requirements, 2)

	resp = do(t, app, http.MethodGet, "/api/materials/"+kitID+"/availability?quantity=3", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	av := decode[dto.AvailabilityResponse](t, resp)
	assert.False(t, av.Available)
	require.Len(t, av.Shortages, 1)
	assert.Equal(t, screwID, av.Shortages[0].MaterialID)
	assert.True(t, av.Shortages[0].RequiredQuantity.Equal(decimal.NewFromInt(6)))
	assert.True(t, av.Shortages[0].AvailableQuantity.Equal(decimal.NewFromInt(5)))
}

func TestMaterials_CantidadInvalida(t *testing.T) {
	app := buildTestApp(t)
	m := createMaterial(t, app, "X", false, 1)

	resp := do(t, app, http.MethodGet, "/api/materials/"+m.ID+"/requirements?quantity=abc", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = do(t, app, http.MethodGet, "/api/materials/"+m.ID+"/requirements?quantity=1.5", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestMaterials_CicloResponde422(t *testing.T) {
	app := buildTestApp(t)
	a := createMaterial(t, app, "A", true, 0)
	b := createMaterial(t, app, "B", true, 0)
	x := createMaterial(t, app, "X", false, 1)

	require.Equal(t, fiber.StatusOK, setBOM(t, app, a.ID, item(1, b.ID, 1), item(2, x.ID, 1)).StatusCode)

	resp := setBOM(t, app, b.ID, item(1, a.ID, 1))
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "CYCLIC_BOM", body.Code)
	assert.NotEmpty(t, body.Details)
}

// Los IDs de la ruta se guardan como claves; otras peticiones no deben alterarlos.
func TestMaterials_ListaGuardadaSobreviveAOtrasPeticiones(t *testing.T) {
	app := buildTestApp(t)
	a := createMaterial(t, app, "A", true, 0)
	b := createMaterial(t, app, "B", true, 0)
	x := createMaterial(t, app, "X", false, 10)

	require.Equal(t, fiber.StatusOK, setBOM(t, app, a.ID, item(1, b.ID, 1)).StatusCode)
	require.Equal(t, fiber.StatusOK, setBOM(t, app, b.ID, item(1, x.ID, 2)).StatusCode)

	for i := 0; i < 20; i++ {
		other := createMaterial(t, app, "OTRO-"+strings.Repeat("Z", i+1), false, 1)
		resp := do(t, app, http.MethodGet, "/api/materials/"+other.ID+"/requirements?quantity=1", nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp := setBOM(t, app, b.ID, item(1, a.ID, 1))
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "CYCLIC_BOM", decode[dto.ErrorResponse](t, resp).Code)

	resp = do(t, app, http.MethodGet, "/api/materials/"+a.ID+"/requirements?quantity=3", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	req := decode[dto.RequirementsResponse](t, resp)
	require.Len(t, req.Requirements, 1)
	assert.Equal(t, x.ID, req.Requirements[0].MaterialID)
	assert.True(t, req.Requirements[0].Quantity.Equal(decimal.NewFromInt(6)))
}

func TestMaterials_ErroresDeValidacion(t *testing.T) {
	app := buildTestApp(t)
	createMaterial(t, app, "DUP", false, 0)

	resp := do(t, app, http.MethodPost, "/api/materials", dto.CreateMaterialRequest{Code: "DUP", Name: "otro"})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", decode[dto.ErrorResponse](t, resp).Code)

	resp = do(t, app, http.MethodPost, "/api/materials", dto.CreateMaterialRequest{Code: "", Name: ""})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.GreaterOrEqual(t, len(body.Details), 2)

	req := httptest.NewRequest(http.MethodPost, "/api/materials", strings.NewReader("{no-json"))
	req.Header.Set("Content-Type", "application/json")
	raw, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, raw.StatusCode)
	assert.Equal(t, "INVALID_BODY", decode[dto.ErrorResponse](t, raw).Code)

	resp = do(t, app, http.MethodGet, "/api/materials/no-existe", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestInventory_VariasLineas(t *testing.T) {
	app := buildTestApp(t)
	kitID, _ := kitScenario(t, app, 10)

	resp := do(t, app, http.MethodPost, "/api/inventory/availability", dto.AvailabilityRequest{Lines: []dto.AvailabilityLineRequest{
		{ItemRef: "l1", MaterialID: kitID, Quantity: decimal.NewFromInt(2)},
		{ItemRef: "l2", MaterialID: kitID, Quantity: decimal.NewFromInt(50)},
	}})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	out := decode[dto.OrderAvailabilityResponse](t, resp)
	assert.False(t, out.Available)
	require.Len(t, out.Lines, 2)
	assert.True(t, out.Lines[0].Available)
	assert.False(t, out.Lines[1].Available)

	resp = do(t, app, http.MethodPost, "/api/inventory/availability", dto.AvailabilityRequest{})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests pedidos y cuentas
// ──────────────────────────────────────────────────────────────────────────────

func TestAccept_RegistraIngresoEnLaCuenta(t *testing.T) {
	app := buildTestApp(t)
	kitID, _ := kitScenario(t, app, 10)
	partner, order := orderFor(t, app, kitID, 5, "12.50")
	itemID := order.Items[0].ID

	resp := do(t, app, http.MethodPost, "/api/sales-orders/"+order.ID+"/items/"+itemID+"/accept", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	out := decode[dto.AcceptItemResponse](t, resp)
	assert.True(t, out.Accepted)
	require.NotNil(t, out.Posting)
	assert.Equal(t, "RECEIPT", out.Posting.Type)
	require.NotNil(t, out.Balance)
	assert.True(t, out.Balance.Equal(decimal.RequireFromString("62.50")))

	resp = do(t, app, http.MethodGet, "/api/accounts/"+partner.AccountID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	acc := decode[dto.AccountResponse](t, resp)
	assert.True(t, acc.Balance.Equal(decimal.RequireFromString("62.50")))

	resp = do(t, app, http.MethodGet, "/api/sales-orders/"+order.ID, nil)
	got := decode[dto.SalesOrderResponse](t, resp)
	assert.Equal(t, "ACCEPTED", got.Items[0].Status)
	assert.Equal(t, out.Posting.ID, got.Items[0].PostingID)

	resp = do(t, app, http.MethodPost, "/api/sales-orders/"+order.ID+"/items/"+itemID+"/accept", nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", decode[dto.ErrorResponse](t, resp).Code)

	resp = do(t, app, http.MethodDelete, "/api/accounts/"+partner.AccountID+"/postings/"+out.Posting.ID, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", decode[dto.ErrorResponse](t, resp).Code)
}

func TestAccept_FaltanteResponde409SinCambios(t *testing.T) {
	app := buildTestApp(t)
	kitID, screwID := kitScenario(t, app, 5)
	partner, order := orderFor(t, app, kitID, 3, "10.00")

	resp := do(t, app, http.MethodPost, "/api/sales-orders/"+order.ID+"/items/"+order.Items[0].ID+"/accept", nil)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
	out := decode[dto.AcceptItemResponse](t, resp)
	assert.False(t, out.Accepted)
	require.Len(t, out.Shortages, 1)
	assert.Equal(t, screwID, out.Shortages[0].MaterialID)
	assert.Nil(t, out.Posting)

	resp = do(t, app, http.MethodGet, "/api/accounts/"+partner.AccountID+"/postings", nil)
	list := decode[dto.PostingListResponse](t, resp)
	assert.Empty(t, list.Postings)
	assert.True(t, list.Balance.IsZero())
}

func TestAccounts_AsientosManualesYVerificacion(t *testing.T) {
	app := buildTestApp(t)
	resp := do(t, app, http.MethodPost, "/api/partners", dto.CreatePartnerRequest{Name: "ACME", TaxID: "900-2", Currency: "USD"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	partner := decode[dto.PartnerResponse](t, resp)
	base := "/api/accounts/" + partner.AccountID

	resp = do(t, app, http.MethodPost, base+"/postings", dto.AppendPostingRequest{Type: "RECEIPT", Amount: decimal.RequireFromString("100.00"), Currency: "USD"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp = do(t, app, http.MethodPost, base+"/postings", dto.AppendPostingRequest{Type: "DISBURSAL", Amount: decimal.RequireFromString("30.00"), Currency: "USD"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	second := decode[dto.PostingResultResponse](t, resp)
	assert.True(t, second.Balance.Equal(decimal.RequireFromString("70")))

	resp = do(t, app, http.MethodPost, base+"/postings", dto.AppendPostingRequest{Type: "RECEIPT", Amount: decimal.RequireFromString("5.00"), Currency: "EUR"})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_POSTING", decode[dto.ErrorResponse](t, resp).Code)

	resp = do(t, app, http.MethodGet, base+"/verify", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	check := decode[dto.BalanceCheckResponse](t, resp)
	assert.True(t, check.Consistent)
	assert.Equal(t, 2, check.Postings)

	resp = do(t, app, http.MethodDelete, base+"/postings/"+second.Posting.ID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	removed := decode[dto.PostingResultResponse](t, resp)
	assert.True(t, removed.Balance.Equal(decimal.RequireFromString("100")))

	resp = do(t, app, http.MethodGet, "/api/accounts/no-existe", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAccounts_ExtractoPDF(t *testing.T) {
	app := buildTestApp(t)
	resp := do(t, app, http.MethodPost, "/api/partners", dto.CreatePartnerRequest{Name: "ACME", TaxID: "900-3", Currency: "USD"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	partner := decode[dto.PartnerResponse](t, resp)

	resp = do(t, app, http.MethodGet, "/api/accounts/"+partner.AccountID+"/statement", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "extracto_"+partner.AccountID)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestMetrics_Expuestas(t *testing.T) {
	app := buildTestApp(t)
	kitScenario(t, app, 1)
	do(t, app, http.MethodGet, "/api/materials/no-existe/requirements", nil)

	resp := do(t, app, http.MethodGet, "/metrics", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `erp_bom_resolution_duration_seconds_count{outcome="not_found"} 1`)
}
