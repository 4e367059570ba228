package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/erp-core/internal/domain"
	"github.com/jhoicas/erp-core/internal/domain/entity"
	"github.com/jhoicas/erp-core/internal/domain/repository"
)

var _ repository.PostingRepository = (*PostingRepo)(nil)

// PostingRepo implementación en memoria de PostingRepository.
type PostingRepo struct {
	db backend
}

// NewPostingRepository construye el repositorio.
func NewPostingRepository(db backend) *PostingRepo {
	return &PostingRepo{db: db}
}

// Create agrega el asiento al final de la cuenta.
func (r *PostingRepo) Create(_ context.Context, p *entity.Posting) error {
	rec := *p
	own(&rec.ID, &rec.AccountID, &rec.Type, &rec.CounterpartyID, &rec.Currency, &rec.Reference, &rec.CreatedBy)
	return r.db.write(func(st *state) error {
		if _, ok := st.accounts[rec.AccountID]; !ok {
			return fmt.Errorf("cuenta %s: %w", rec.AccountID, domain.ErrNotFound)
		}
		for _, e := range st.postings[rec.AccountID] {
			if e.ID == rec.ID || e.Sequence == rec.Sequence {
				return domain.ErrDuplicate
			}
		}
		return nil
	}, func(st *state) { st.postings[rec.AccountID] = append(st.postings[rec.AccountID], rec) })
}

// ListByAccount asientos en orden de inserción.
func (r *PostingRepo) ListByAccount(_ context.Context, accountID string) ([]entity.Posting, error) {
	var out []entity.Posting
	r.db.read(func(st *state) {
		ps := st.postings[accountID]
		out = make([]entity.Posting, len(ps))
		copy(out, ps)
	})
	return out, nil
}

// Delete elimina un asiento de la cuenta salvo que lo referencie una línea de pedido.
func (r *PostingRepo) Delete(_ context.Context, accountID, postingID string) error {
	own(&accountID)
	return r.db.write(func(st *state) error {
		found := false
		for _, p := range st.postings[accountID] {
			if p.ID == postingID {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("asiento %s: %w", postingID, domain.ErrNotFound)
		}
		for _, o := range st.orders {
			for _, it := range o.Items {
				if it.PostingID == postingID {
					return fmt.Errorf("asiento %s referenciado por la línea %s: %w", postingID, it.ID, domain.ErrConflict)
				}
			}
		}
		return nil
	}, func(st *state) {
		ps := st.postings[accountID]
		kept := make([]entity.Posting, 0, len(ps))
		for _, p := range ps {
			if p.ID != postingID {
				kept = append(kept, p)
			}
		}
		st.postings[accountID] = kept
	})
}
