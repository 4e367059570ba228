package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-core/internal/domain"
	"github.com/jhoicas/erp-core/internal/domain/entity"
	"github.com/jhoicas/erp-core/internal/domain/repository"
)

var _ repository.AccountRepository = (*AccountRepo)(nil)

// AccountRepo implementación en memoria de AccountRepository.
type AccountRepo struct {
	db backend
}

// NewAccountRepository construye el repositorio.
func NewAccountRepository(db backend) *AccountRepo {
	return &AccountRepo{db: db}
}

// Create inserta una cuenta.
func (r *AccountRepo) Create(_ context.Context, a *entity.Account) error {
	rec := *a
	own(&rec.ID, &rec.PartnerID, &rec.Description, &rec.Currency)
	return r.db.write(func(st *state) error {
		if _, ok := st.accounts[rec.ID]; ok {
			return domain.ErrDuplicate
		}
		return nil
	}, func(st *state) { st.accounts[rec.ID] = rec })
}

// GetByID devuelve la cuenta o (nil, nil).
func (r *AccountRepo) GetByID(_ context.Context, id string) (*entity.Account, error) {
	var out *entity.Account
	r.db.read(func(st *state) {
		if a, ok := st.accounts[id]; ok {
			out = &a
		}
	})
	return out, nil
}

// GetForUpdate equivale a GetByID: las transacciones en memoria ya son exclusivas.
func (r *AccountRepo) GetForUpdate(ctx context.Context, id string) (*entity.Account, error) {
	return r.GetByID(ctx, id)
}

// UpdateBalance reemplaza el saldo cacheado y la última secuencia asignada.
func (r *AccountRepo) UpdateBalance(_ context.Context, id string, balance decimal.Decimal, lastSequence int64, updatedAt time.Time) error {
	return r.db.write(func(st *state) error {
		if _, ok := st.accounts[id]; !ok {
			return fmt.Errorf("cuenta %s: %w", id, domain.ErrNotFound)
		}
		return nil
	}, func(st *state) {
		a := st.accounts[id]
		a.Balance = balance
		a.LastSequence = lastSequence
		a.UpdatedAt = updatedAt
		st.accounts[a.ID] = a
	})
}

// List cuentas ordenadas por fecha de creación e ID.
func (r *AccountRepo) List(_ context.Context, limit, offset int) ([]*entity.Account, error) {
	var all []*entity.Account
	r.db.read(func(st *state) {
		for _, a := range st.accounts {
			a := a
			all = append(all, &a)
		}
	})
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})
	return page(all, limit, offset), nil
}
