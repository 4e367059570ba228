package repository

import (
	"context"

	"github.com/jhoicas/erp-core/internal/domain/entity"
)

// PostingRepository persistencia de asientos (solo agregar; Delete es administrativo).
type PostingRepository interface {
	Create(ctx context.Context, posting *entity.Posting) error
	// ListByAccount devuelve los asientos en orden de inserción (Sequence ascendente).
	ListByAccount(ctx context.Context, accountID string) ([]entity.Posting, error)
	Delete(ctx context.Context, accountID, postingID string) error
}
