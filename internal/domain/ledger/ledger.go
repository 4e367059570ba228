// Package ledger modela el libro de una cuenta: asientos inmutables en orden de inserción
// y un saldo materializado que solo cambia a través de Append y Remove.
package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-core/internal/domain"
	"github.com/jhoicas/erp-core/internal/domain/entity"
	"github.com/jhoicas/erp-core/internal/domain/validation"
)

// Ledger agregado cuenta + asientos. No es seguro para uso concurrente;
// la serialización por cuenta la hace el servicio de aplicación.
type Ledger struct {
	account  entity.Account
	postings []entity.Posting
	balance  decimal.Decimal
}

// New crea el libro de una cuenta recién abierta (saldo cero, sin asientos).
func New(account entity.Account) (*Ledger, error) {
	if err := validation.Account(&account); err != nil {
		return nil, err
	}
	account.Balance = decimal.Zero
	account.LastSequence = 0
	return &Ledger{account: account, balance: decimal.Zero}, nil
}

// Restore reconstruye el libro desde persistencia con el saldo cacheado de la cuenta.
// No corrige discrepancias: Verify las reporta.
func Restore(account entity.Account, postings []entity.Posting) *Ledger {
	ps := make([]entity.Posting, len(postings))
	copy(ps, postings)
	return &Ledger{account: account, postings: ps, balance: account.Balance}
}

// Account devuelve la cuenta con el saldo vigente.
func (l *Ledger) Account() entity.Account {
	a := l.account
	a.Balance = l.balance
	return a
}

// Balance saldo cacheado vigente.
func (l *Ledger) Balance() decimal.Decimal {
	return l.balance
}

// Postings copia de los asientos en orden de inserción.
func (l *Ledger) Postings() []entity.Posting {
	out := make([]entity.Posting, len(l.postings))
	copy(out, l.postings)
	return out
}

// Validate verifica el asiento contra la cuenta sin modificar nada.
func (l *Ledger) Validate(p entity.Posting) error {
	if p.AccountID != "" && p.AccountID != l.account.ID {
		return validation.IdentifierMismatch("asiento", "account_id", p.AccountID, l.account.ID)
	}

	var v validation.Violations
	v.Check("type", validation.OneOf(p.Type, entity.PostingTypeReceipt, entity.PostingTypeDisbursal))
	v.Check("counterparty_id", validation.NotBlank(p.CounterpartyID))
	v.Check("reference", validation.MaxLength(p.Reference, 64))
	if p.Date.IsZero() {
		v.Add("date", "not_null", "es obligatoria")
	}
	if p.Currency != l.account.Currency {
		v.Add("currency", "account_currency",
			fmt.Sprintf("la moneda %q no coincide con la de la cuenta %q", p.Currency, l.account.Currency))
	}
	v.Check("amount", validation.Positive(p.Amount))
	if p.Amount.IsPositive() {
		if scale, err := Scale(l.account.Currency); err == nil {
			min := decimal.New(1, -scale)
			v.Check("amount", validation.DecimalMin(p.Amount, min))
			if !p.Amount.Round(scale).Equal(p.Amount) {
				v.Add("amount", "granularity", fmt.Sprintf("no admite más de %d decimales en %s", scale, l.account.Currency))
			}
		}
	}
	if len(v) > 0 {
		return &domain.InvalidPostingError{AccountID: l.account.ID, Violations: v}
	}
	return nil
}

// Append valida y agrega el asiento; devuelve el nuevo saldo.
// Si la validación falla el libro queda intacto.
func (l *Ledger) Append(p entity.Posting) (decimal.Decimal, error) {
	if err := l.Validate(p); err != nil {
		return l.balance, err
	}
	p.AccountID = l.account.ID
	p.Sequence = l.nextSequence()
	l.account.LastSequence = p.Sequence
	l.postings = append(l.postings, p)
	l.balance = apply(l.balance, p)
	return l.balance, nil
}

// Last último asiento agregado.
func (l *Ledger) Last() (entity.Posting, bool) {
	if len(l.postings) == 0 {
		return entity.Posting{}, false
	}
	return l.postings[len(l.postings)-1], true
}

// Recompute suma los asientos desde cero en orden de inserción (no modifica el saldo cacheado).
func (l *Ledger) Recompute() decimal.Decimal {
	return Fold(l.postings)
}

// Verify compara el saldo cacheado con el derivado.
func (l *Ledger) Verify() error {
	derived := l.Recompute()
	if !derived.Equal(l.balance) {
		return &domain.BalanceMismatchError{AccountID: l.account.ID, Cached: l.balance, Derived: derived}
	}
	return nil
}

// Remove elimina un asiento (operación administrativa) y re-deriva el saldo con los restantes.
// Rompe la garantía de solo-agregar: el llamador debe dejar constancia.
func (l *Ledger) Remove(postingID string) (entity.Posting, decimal.Decimal, error) {
	for i, p := range l.postings {
		if p.ID != postingID {
			continue
		}
		remaining := make([]entity.Posting, 0, len(l.postings)-1)
		remaining = append(remaining, l.postings[:i]...)
		remaining = append(remaining, l.postings[i+1:]...)
		l.postings = remaining
		l.balance = Fold(remaining)
		return p, l.balance, nil
	}
	return entity.Posting{}, l.balance, fmt.Errorf("asiento %s: %w", postingID, domain.ErrNotFound)
}

// nextSequence no reutiliza la secuencia de un asiento eliminado: parte del
// máximo entregado en la cuenta.
func (l *Ledger) nextSequence() int64 {
	max := l.account.LastSequence
	for _, p := range l.postings {
		if p.Sequence > max {
			max = p.Sequence
		}
	}
	return max + 1
}

// Fold saldo derivado: RECEIPT suma, DISBURSAL resta, partiendo de cero.
func Fold(postings []entity.Posting) decimal.Decimal {
	balance := decimal.Zero
	for _, p := range postings {
		balance = apply(balance, p)
	}
	return balance
}

func apply(balance decimal.Decimal, p entity.Posting) decimal.Decimal {
	return balance.Add(p.SignedAmount())
}
