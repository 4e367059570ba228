package memory

import (
	"context"

	"github.com/jhoicas/erp-core/internal/domain"
	"github.com/jhoicas/erp-core/internal/domain/entity"
	"github.com/jhoicas/erp-core/internal/domain/repository"
)

var _ repository.PartnerRepository = (*PartnerRepo)(nil)

// PartnerRepo implementación en memoria de PartnerRepository.
type PartnerRepo struct {
	db backend
}

// NewPartnerRepository construye el repositorio.
func NewPartnerRepository(db backend) *PartnerRepo {
	return &PartnerRepo{db: db}
}

// Create inserta un tercero; el NIT/identificación tributaria es único.
func (r *PartnerRepo) Create(_ context.Context, p *entity.BusinessPartner) error {
	rec := *p
	own(&rec.ID, &rec.Name, &rec.TaxID, &rec.Email, &rec.AccountID)
	return r.db.write(func(st *state) error {
		if _, ok := st.partners[rec.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, e := range st.partners {
			if e.TaxID == rec.TaxID {
				return domain.ErrDuplicate
			}
		}
		return nil
	}, func(st *state) { st.partners[rec.ID] = rec })
}

// GetByID devuelve el tercero o (nil, nil).
func (r *PartnerRepo) GetByID(_ context.Context, id string) (*entity.BusinessPartner, error) {
	var out *entity.BusinessPartner
	r.db.read(func(st *state) {
		if p, ok := st.partners[id]; ok {
			out = &p
		}
	})
	return out, nil
}

// GetByTaxID busca por identificación tributaria.
func (r *PartnerRepo) GetByTaxID(_ context.Context, taxID string) (*entity.BusinessPartner, error) {
	var out *entity.BusinessPartner
	r.db.read(func(st *state) {
		for _, p := range st.partners {
			if p.TaxID == taxID {
				p := p
				out = &p
				return
			}
		}
	})
	return out, nil
}
