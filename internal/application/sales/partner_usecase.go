package sales

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/erp-core/internal/application/dto"
	"github.com/jhoicas/erp-core/internal/application/ledger"
	"github.com/jhoicas/erp-core/internal/domain"
	"github.com/jhoicas/erp-core/internal/domain/entity"
	"github.com/jhoicas/erp-core/internal/domain/repository"
	"github.com/jhoicas/erp-core/internal/domain/validation"
)

// PartnerUseCase alta y consulta de terceros. Cada tercero nace con su cuenta.
type PartnerUseCase struct {
	partners repository.PartnerRepository
	accounts repository.AccountRepository
	ledger   *ledger.Service
	tx       TxRunner
}

// NewPartnerUseCase construye el caso de uso.
func NewPartnerUseCase(
	partners repository.PartnerRepository,
	accounts repository.AccountRepository,
	ledgerSvc *ledger.Service,
	tx TxRunner,
) *PartnerUseCase {
	return &PartnerUseCase{partners: partners, accounts: accounts, ledger: ledgerSvc, tx: tx}
}

// CreatePartner crea el tercero y abre su cuenta en la moneda indicada, ambos en una transacción.
func (uc *PartnerUseCase) CreatePartner(ctx context.Context, in dto.CreatePartnerRequest) (*dto.PartnerResponse, error) {
	now := time.Now()
	p := &entity.BusinessPartner{
		ID:        uuid.New().String(),
		Name:      in.Name,
		TaxID:     in.TaxID,
		Email:     in.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := validation.BusinessPartner(p); err != nil {
		return nil, err
	}
	account, err := uc.ledger.NewAccount(ledger.OpenAccountInput{
		PartnerID:   p.ID,
		Description: "Cuenta " + in.Name,
		Currency:    in.Currency,
	})
	if err != nil {
		return nil, err
	}
	p.AccountID = account.ID

	existing, err := uc.partners.GetByTaxID(ctx, p.TaxID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	err = uc.tx.RunSales(ctx, func(
		_ repository.SalesOrderRepository,
		partners repository.PartnerRepository,
		accounts repository.AccountRepository,
		_ repository.PostingRepository,
	) error {
		if err := accounts.Create(ctx, &account); err != nil {
			return err
		}
		return partners.Create(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return toPartnerResponse(p, &account), nil
}

// GetPartner devuelve el tercero con su cuenta.
func (uc *PartnerUseCase) GetPartner(ctx context.Context, id string) (*dto.PartnerResponse, error) {
	p, err := uc.partners.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	a, err := uc.accounts.GetByID(ctx, p.AccountID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	if err := validation.IdentifierMismatch("cuenta", "partner_id", a.PartnerID, p.ID); err != nil {
		return nil, err
	}
	return toPartnerResponse(p, a), nil
}

func toPartnerResponse(p *entity.BusinessPartner, a *entity.Account) *dto.PartnerResponse {
	return &dto.PartnerResponse{
		ID:        p.ID,
		Name:      p.Name,
		TaxID:     p.TaxID,
		Email:     p.Email,
		AccountID: p.AccountID,
		Account:   *ledger.ToAccountResponse(a),
	}
}
