package repository

import (
	"context"

	"github.com/jhoicas/erp-core/internal/domain/entity"
)

// PartnerRepository define el puerto de persistencia para terceros.
type PartnerRepository interface {
	Create(ctx context.Context, partner *entity.BusinessPartner) error
	GetByID(ctx context.Context, id string) (*entity.BusinessPartner, error)
	GetByTaxID(ctx context.Context, taxID string) (*entity.BusinessPartner, error)
}
