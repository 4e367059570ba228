package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-core/internal/application/dto"
	"github.com/jhoicas/erp-core/internal/application/ports"
	"github.com/jhoicas/erp-core/internal/domain"
	"github.com/jhoicas/erp-core/internal/domain/bom"
	domaininv "github.com/jhoicas/erp-core/internal/domain/inventory"
	"github.com/jhoicas/erp-core/pkg/logger"
)

// AvailabilityUseCase expone la resolución de listas de materiales y la verificación de inventario.
// Solo lectura: no reserva ni descuenta stock.
type AvailabilityUseCase struct {
	resolver *bom.Resolver
	checker  *domaininv.Checker
	metrics  ports.Metrics
	log      *logger.Logger
}

// NewAvailabilityUseCase construye el caso de uso sobre el catálogo y la fuente de stock.
func NewAvailabilityUseCase(
	catalog bom.Catalog,
	stock domaininv.StockLookup,
	maxDepth int,
	metrics ports.Metrics,
	log *logger.Logger,
) *AvailabilityUseCase {
	uc := &AvailabilityUseCase{
		resolver: bom.NewResolver(catalog, bom.WithMaxDepth(maxDepth)),
		metrics:  metrics,
		log:      log.Component("inventory"),
	}
	// El verificador resuelve a través del caso de uso para medir cada resolución.
	uc.checker = domaininv.NewChecker(uc, stock)
	return uc
}

// Checker verificador de disponibilidad (lo usa el coordinador de pedidos).
func (uc *AvailabilityUseCase) Checker() *domaininv.Checker {
	return uc.checker
}

// Resolve implementa domaininv.Resolver con registro de métricas.
func (uc *AvailabilityUseCase) Resolve(ctx context.Context, materialID string, quantity decimal.Decimal) (bom.Requirements, error) {
	start := time.Now()
	req, err := uc.resolver.Resolve(ctx, materialID, quantity)
	uc.metrics.ObserveResolution(resolutionOutcome(err), time.Since(start))
	if err != nil {
		uc.log.Debug().Err(err).Str("material_id", materialID).Str("quantity", quantity.String()).Msg("resolución de lista de materiales fallida")
		return nil, err
	}
	uc.log.Debug().Str("material_id", materialID).Int("materials", len(req)).Msg("lista de materiales resuelta")
	return req, nil
}

// Requirements devuelve los materiales atómicos requeridos para quantity unidades.
func (uc *AvailabilityUseCase) Requirements(ctx context.Context, materialID string, quantity decimal.Decimal) (*dto.RequirementsResponse, error) {
	req, err := uc.Resolve(ctx, materialID, quantity)
	if err != nil {
		return nil, err
	}
	return &dto.RequirementsResponse{
		MaterialID:   materialID,
		Quantity:     quantity,
		Requirements: toRequirementDTOs(req),
	}, nil
}

// CheckMaterial verifica si quantity unidades del material pueden cubrirse con el stock.
func (uc *AvailabilityUseCase) CheckMaterial(ctx context.Context, materialID string, quantity decimal.Decimal) (*dto.AvailabilityResponse, error) {
	av, err := uc.checker.Check(ctx, domaininv.Line{ItemRef: materialID, MaterialID: materialID, Quantity: quantity})
	if err != nil {
		return nil, err
	}
	uc.metrics.ObserveAvailability(av.OK(), len(av.Shortages))
	resp := ToAvailabilityResponse(av)
	return &resp, nil
}

// CheckLines verifica varias líneas en paralelo.
func (uc *AvailabilityUseCase) CheckLines(ctx context.Context, in dto.AvailabilityRequest) (*dto.OrderAvailabilityResponse, error) {
	if len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	lines := make([]domaininv.Line, 0, len(in.Lines))
	for _, l := range in.Lines {
		if l.MaterialID == "" {
			return nil, domain.ErrInvalidInput
		}
		ref := l.ItemRef
		if ref == "" {
			ref = l.MaterialID
		}
		lines = append(lines, domaininv.Line{ItemRef: ref, MaterialID: l.MaterialID, Quantity: l.Quantity})
	}
	results, err := uc.checker.CheckOrder(ctx, lines)
	if err != nil {
		return nil, err
	}
	resp := &dto.OrderAvailabilityResponse{Available: true, Lines: make([]dto.AvailabilityResponse, 0, len(results))}
	for _, av := range results {
		uc.metrics.ObserveAvailability(av.OK(), len(av.Shortages))
		if !av.OK() {
			resp.Available = false
		}
		resp.Lines = append(resp.Lines, ToAvailabilityResponse(av))
	}
	return resp, nil
}

// ToAvailabilityResponse convierte el resultado del verificador al DTO.
func ToAvailabilityResponse(av *domaininv.Availability) dto.AvailabilityResponse {
	return dto.AvailabilityResponse{
		ItemRef:      av.Line.ItemRef,
		MaterialID:   av.Line.MaterialID,
		Quantity:     av.Line.Quantity,
		Available:    av.OK(),
		Requirements: toRequirementDTOs(av.Requirements),
		Shortages:    ToShortageDTOs(av.Shortages),
	}
}

// ToShortageDTOs convierte faltantes de dominio al DTO.
func ToShortageDTOs(in []domain.Shortage) []dto.ShortageDTO {
	out := make([]dto.ShortageDTO, 0, len(in))
	for _, s := range in {
		out = append(out, dto.ShortageDTO{
			ItemRef:           s.ItemRef,
			OrderedMaterialID: s.OrderedMaterialID,
			MaterialID:        s.MaterialID,
			RequestedQuantity: s.RequestedQuantity,
			RequiredQuantity:  s.RequiredQuantity,
			AvailableQuantity: s.AvailableQuantity,
		})
	}
	return out
}

func toRequirementDTOs(req bom.Requirements) []dto.RequirementDTO {
	out := make([]dto.RequirementDTO, 0, len(req))
	for _, id := range req.MaterialIDs() {
		out = append(out, dto.RequirementDTO{MaterialID: id, Quantity: req[id]})
	}
	return out
}

func resolutionOutcome(err error) string {
	var cyc *domain.CyclicBillOfMaterialError
	var noItems *domain.NoItemsError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &cyc):
		return "cycle"
	case errors.As(err, &noItems):
		return "no_items"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
