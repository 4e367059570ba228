// Package ledger orquesta el libro de cuentas: apertura, asientos, verificación de saldos
// y la eliminación administrativa de asientos.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-core/internal/application/dto"
	"github.com/jhoicas/erp-core/internal/application/ports"
	"github.com/jhoicas/erp-core/internal/domain"
	"github.com/jhoicas/erp-core/internal/domain/entity"
	domainledger "github.com/jhoicas/erp-core/internal/domain/ledger"
	"github.com/jhoicas/erp-core/internal/domain/repository"
	"github.com/jhoicas/erp-core/pkg/logger"
)

// verifyPageSize cuentas por página en VerifyAll.
const verifyPageSize = 100

// OpenAccountInput datos para abrir una cuenta.
type OpenAccountInput struct {
	PartnerID   string
	Description string
	Currency    string
}

// Service casos de uso del libro. Las escrituras sobre una misma cuenta se serializan
// con un candado en proceso y, en PostgreSQL, con SELECT ... FOR UPDATE.
type Service struct {
	accounts repository.AccountRepository
	postings repository.PostingRepository
	tx       TxRunner
	locks    *KeyedMutex
	metrics  ports.Metrics
	log      *logger.Logger
	now      func() time.Time
}

// NewService construye el servicio. accounts y postings se usan para lecturas fuera de transacción.
func NewService(
	accounts repository.AccountRepository,
	postings repository.PostingRepository,
	tx TxRunner,
	metrics ports.Metrics,
	log *logger.Logger,
) *Service {
	return &Service{
		accounts: accounts,
		postings: postings,
		tx:       tx,
		locks:    NewKeyedMutex(),
		metrics:  metrics,
		log:      log.Component("ledger"),
		now:      time.Now,
	}
}

// Lock serializa las escrituras sobre la cuenta en este proceso. Se toma antes de abrir la transacción.
func (s *Service) Lock(accountID string) (unlock func()) {
	return s.locks.Lock(accountID)
}

// NewAccount construye una cuenta validada con saldo cero, lista para persistir.
func (s *Service) NewAccount(in OpenAccountInput) (entity.Account, error) {
	now := s.now()
	l, err := domainledger.New(entity.Account{
		ID:          uuid.New().String(),
		PartnerID:   in.PartnerID,
		Description: in.Description,
		Currency:    in.Currency,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return entity.Account{}, err
	}
	return l.Account(), nil
}

// OpenAccount abre una cuenta nueva para un tercero.
func (s *Service) OpenAccount(ctx context.Context, in OpenAccountInput) (*dto.AccountResponse, error) {
	account, err := s.NewAccount(in)
	if err != nil {
		return nil, err
	}
	err = s.tx.RunLedger(ctx, func(accounts repository.AccountRepository, _ repository.PostingRepository) error {
		return accounts.Create(ctx, &account)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("account_id", account.ID).Str("currency", account.Currency).Msg("cuenta abierta")
	return ToAccountResponse(&account), nil
}

// GetAccount devuelve la cuenta con su saldo cacheado.
func (s *Service) GetAccount(ctx context.Context, id string) (*dto.AccountResponse, error) {
	a, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	return ToAccountResponse(a), nil
}

// ListPostings devuelve los asientos de la cuenta en orden de inserción.
func (s *Service) ListPostings(ctx context.Context, id string) (*dto.PostingListResponse, error) {
	l, err := s.load(ctx, s.accounts, s.postings, id, false)
	if err != nil {
		return nil, err
	}
	ps := l.Postings()
	out := &dto.PostingListResponse{AccountID: id, Balance: l.Balance(), Postings: make([]dto.PostingResponse, 0, len(ps))}
	for i := range ps {
		out.Postings = append(out.Postings, ToPostingResponse(&ps[i]))
	}
	return out, nil
}

// AppendPosting registra un asiento manual sobre la cuenta y devuelve el saldo resultante.
func (s *Service) AppendPosting(ctx context.Context, accountID, userID string, in dto.AppendPostingRequest) (*dto.PostingResultResponse, error) {
	p := entity.Posting{
		Type:           in.Type,
		Amount:         in.Amount,
		Currency:       in.Currency,
		CounterpartyID: in.CounterpartyID,
		Reference:      in.Reference,
		CreatedBy:      userID,
	}
	if in.Date != nil {
		p.Date = *in.Date
	}

	unlock := s.Lock(accountID)
	defer unlock()

	var (
		saved   entity.Posting
		balance decimal.Decimal
	)
	err := s.tx.RunLedger(ctx, func(accounts repository.AccountRepository, postings repository.PostingRepository) error {
		var err error
		saved, balance, err = s.AppendInTx(ctx, accounts, postings, accountID, p)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &dto.PostingResultResponse{Posting: ToPostingResponse(&saved), Balance: balance}, nil
}

// AppendInTx agrega el asiento con repos de una transacción abierta. El llamador debe tener
// tomado Lock(accountID). Si la contraparte viene vacía se usa el tercero titular de la cuenta.
func (s *Service) AppendInTx(
	ctx context.Context,
	accounts repository.AccountRepository,
	postings repository.PostingRepository,
	accountID string,
	p entity.Posting,
) (entity.Posting, decimal.Decimal, error) {
	l, err := s.load(ctx, accounts, postings, accountID, true)
	if err != nil {
		return entity.Posting{}, decimal.Zero, err
	}

	now := s.now()
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Date.IsZero() {
		p.Date = now
	}
	if p.CounterpartyID == "" {
		p.CounterpartyID = l.Account().PartnerID
	}
	p.CreatedAt = now

	balance, err := l.Append(p)
	if err != nil {
		s.metrics.ObservePosting(p.Type, p.Currency, "rejected")
		s.log.Debug().Err(err).Str("account_id", accountID).Msg("asiento rechazado")
		return entity.Posting{}, balance, err
	}
	saved, _ := l.Last()
	if err := postings.Create(ctx, &saved); err != nil {
		return entity.Posting{}, decimal.Zero, fmt.Errorf("guardar asiento: %w", err)
	}
	if err := accounts.UpdateBalance(ctx, accountID, balance, l.Account().LastSequence, now); err != nil {
		return entity.Posting{}, decimal.Zero, fmt.Errorf("actualizar saldo: %w", err)
	}

	s.metrics.ObservePosting(saved.Type, saved.Currency, "appended")
	s.log.Info().
		Str("account_id", accountID).
		Str("posting_id", saved.ID).
		Str("type", saved.Type).
		Str("amount", saved.Amount.String()).
		Str("balance", balance.String()).
		Msg("asiento registrado")
	return saved, balance, nil
}

// RecomputeBalance suma los asientos desde cero y compara con el saldo cacheado. No corrige.
func (s *Service) RecomputeBalance(ctx context.Context, accountID string) (*dto.BalanceCheckResponse, error) {
	l, err := s.load(ctx, s.accounts, s.postings, accountID, false)
	if err != nil {
		return nil, err
	}
	return s.report(l), nil
}

// RemovePosting elimina un asiento (operación administrativa) y re-deriva el saldo.
func (s *Service) RemovePosting(ctx context.Context, accountID, postingID, userID string) (*dto.PostingResultResponse, error) {
	unlock := s.Lock(accountID)
	defer unlock()

	var (
		removed entity.Posting
		balance decimal.Decimal
	)
	err := s.tx.RunLedger(ctx, func(accounts repository.AccountRepository, postings repository.PostingRepository) error {
		l, err := s.load(ctx, accounts, postings, accountID, true)
		if err != nil {
			return err
		}
		if removed, balance, err = l.Remove(postingID); err != nil {
			return err
		}
		if err := postings.Delete(ctx, accountID, postingID); err != nil {
			return fmt.Errorf("eliminar asiento: %w", err)
		}
		return accounts.UpdateBalance(ctx, accountID, balance, l.Account().LastSequence, s.now())
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ObservePosting(removed.Type, removed.Currency, "removed")
	s.log.Warn().
		Str("account_id", accountID).
		Str("posting_id", postingID).
		Str("user_id", userID).
		Str("amount", removed.Amount.String()).
		Str("balance", balance.String()).
		Msg("asiento eliminado: la cuenta deja de ser solo-agregar")
	return &dto.PostingResultResponse{Posting: ToPostingResponse(&removed), Balance: balance}, nil
}

// VerifyAll verifica el saldo de todas las cuentas y devuelve un reporte por cuenta.
func (s *Service) VerifyAll(ctx context.Context) ([]dto.BalanceCheckResponse, error) {
	var out []dto.BalanceCheckResponse
	for offset := 0; ; offset += verifyPageSize {
		page, err := s.accounts.List(ctx, verifyPageSize, offset)
		if err != nil {
			return nil, err
		}
		for _, a := range page {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			ps, err := s.postings.ListByAccount(ctx, a.ID)
			if err != nil {
				return nil, err
			}
			out = append(out, *s.report(domainledger.Restore(*a, ps)))
		}
		if len(page) < verifyPageSize {
			return out, nil
		}
	}
}

// Statement arma el extracto de la cuenta con saldo acumulado por asiento.
func (s *Service) Statement(ctx context.Context, accountID string) (*Statement, error) {
	l, err := s.load(ctx, s.accounts, s.postings, accountID, false)
	if err != nil {
		return nil, err
	}
	return BuildStatement(l.Account(), l.Postings(), s.now()), nil
}

func (s *Service) report(l *domainledger.Ledger) *dto.BalanceCheckResponse {
	a := l.Account()
	resp := &dto.BalanceCheckResponse{
		AccountID:  a.ID,
		Cached:     l.Balance(),
		Derived:    l.Recompute(),
		Consistent: true,
		Postings:   len(l.Postings()),
	}
	var mismatch *domain.BalanceMismatchError
	if err := l.Verify(); errors.As(err, &mismatch) {
		resp.Consistent = false
		s.log.Warn().Err(err).Str("account_id", a.ID).Msg("saldo inconsistente")
	}
	s.metrics.ObserveBalanceCheck(resp.Consistent)
	return resp
}

// load reconstruye el libro; forUpdate bloquea la fila de la cuenta en la transacción.
func (s *Service) load(
	ctx context.Context,
	accounts repository.AccountRepository,
	postings repository.PostingRepository,
	accountID string,
	forUpdate bool,
) (*domainledger.Ledger, error) {
	var (
		a   *entity.Account
		err error
	)
	if forUpdate {
		a, err = accounts.GetForUpdate(ctx, accountID)
	} else {
		a, err = accounts.GetByID(ctx, accountID)
	}
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("cuenta %s: %w", accountID, domain.ErrNotFound)
	}
	ps, err := postings.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return domainledger.Restore(*a, ps), nil
}

// ToAccountResponse convierte la entidad a DTO.
func ToAccountResponse(a *entity.Account) *dto.AccountResponse {
	return &dto.AccountResponse{
		ID:          a.ID,
		PartnerID:   a.PartnerID,
		Description: a.Description,
		Currency:    a.Currency,
		Balance:     a.Balance,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// ToPostingResponse convierte el asiento a DTO.
func ToPostingResponse(p *entity.Posting) dto.PostingResponse {
	return dto.PostingResponse{
		ID:             p.ID,
		AccountID:      p.AccountID,
		Sequence:       p.Sequence,
		Type:           p.Type,
		Date:           p.Date,
		CounterpartyID: p.CounterpartyID,
		Amount:         p.Amount,
		Currency:       p.Currency,
		Reference:      p.Reference,
	}
}
