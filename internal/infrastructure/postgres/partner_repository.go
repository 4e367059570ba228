package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/erp-core/internal/domain"
	"github.com/jhoicas/erp-core/internal/domain/entity"
	"github.com/jhoicas/erp-core/internal/domain/repository"
)

var _ repository.PartnerRepository = (*PartnerRepo)(nil)

// PartnerRepo implementación de PartnerRepository sobre PostgreSQL (usable con pool o tx).
type PartnerRepo struct {
	q Querier
}

// NewPartnerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPartnerRepository(q Querier) *PartnerRepo {
	return &PartnerRepo{q: q}
}

const partnerColumns = `id, name, tax_id, email, account_id, created_at, updated_at`

// Create persiste el tercero.
func (r *PartnerRepo) Create(ctx context.Context, p *entity.BusinessPartner) error {
	query := `INSERT INTO business_partners (` + partnerColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, p.ID, p.Name, p.TaxID, p.Email, p.AccountID, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert partner: %w", err)
	}
	return nil
}

// GetByID obtiene un tercero por ID.
func (r *PartnerRepo) GetByID(ctx context.Context, id string) (*entity.BusinessPartner, error) {
	return r.getOne(ctx, `SELECT `+partnerColumns+` FROM business_partners WHERE id = $1`, id)
}

// GetByTaxID obtiene un tercero por identificación tributaria.
func (r *PartnerRepo) GetByTaxID(ctx context.Context, taxID string) (*entity.BusinessPartner, error) {
	return r.getOne(ctx, `SELECT `+partnerColumns+` FROM business_partners WHERE tax_id = $1`, taxID)
}

func (r *PartnerRepo) getOne(ctx context.Context, query, arg string) (*entity.BusinessPartner, error) {
	var p entity.BusinessPartner
	err := r.q.QueryRow(ctx, query, arg).Scan(&p.ID, &p.Name, &p.TaxID, &p.Email, &p.AccountID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get partner: %w", err)
	}
	return &p, nil
}
