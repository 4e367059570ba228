package ledger

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-core/internal/domain"
	"github.com/jhoicas/erp-core/internal/domain/entity"
)

func newLedger(t *testing.T, currency string) *Ledger {
	t.Helper()
	l, err := New(entity.Account{ID: "acc-1", PartnerID: "p-1", Description: "Cliente", Currency: currency})
	require.NoError(t, err)
	return l
}

func posting(id, typ, amount, currency string) entity.Posting {
	return entity.Posting{
		ID:             id,
		Type:           typ,
		Date:           time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		CounterpartyID: "p-1",
		Amount:         decimal.RequireFromString(amount),
		Currency:       currency,
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestAppend_ReceiptLuegoDisbursal(t *testing.T) {
	l := newLedger(t, "USD")

	bal, err := l.Append(posting("p1", entity.PostingTypeReceipt, "100.00", "USD"))
	require.NoError(t, err)
	assert.True(t, bal.Equal(dec("100")))

	bal, err = l.Append(posting("p2", entity.PostingTypeDisbursal, "40.00", "USD"))
	require.NoError(t, err)
	assert.True(t, bal.Equal(dec("60")))

	assert.True(t, l.Recompute().Equal(dec("60")))
	assert.True(t, Fold(l.Postings()).Equal(dec("60")))
	assert.NoError(t, l.Verify())

	ps := l.Postings()
	require.Len(t, ps, 2)
	assert.Equal(t, int64(1), ps[0].Sequence)
	assert.Equal(t, int64(2), ps[1].Sequence)
	assert.Equal(t, "acc-1", ps[1].AccountID)
	assert.True(t, l.Account().Balance.Equal(dec("60")))
}

func TestAppend_RechazaSinModificarSaldo(t *testing.T) {
	cases := map[string]entity.Posting{
		"monto cero":        posting("x", entity.PostingTypeReceipt, "0", "USD"),
		"monto negativo":    posting("x", entity.PostingTypeReceipt, "-5.00", "USD"),
		"bajo unidad":       posting("x", entity.PostingTypeReceipt, "0.001", "USD"),
		"moneda distinta":   posting("x", entity.PostingTypeReceipt, "10.00", "EUR"),
		"tipo desconocido":  posting("x", "TRANSFER", "10.00", "USD"),
		"tipo vacío":        posting("x", "", "10.00", "USD"),
		"granularidad fina": posting("x", entity.PostingTypeDisbursal, "10.005", "USD"),
	}
	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			l := newLedger(t, "USD")
			_, err := l.Append(posting("seed", entity.PostingTypeReceipt, "50.00", "USD"))
			require.NoError(t, err)
			before := l.Balance()

			bal, err := l.Append(p)

			var ipe *domain.InvalidPostingError
			require.True(t, errors.As(err, &ipe), "se esperaba InvalidPostingError, recibido %v", err)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput))
			assert.True(t, bal.Equal(before))
			assert.True(t, l.Balance().Equal(before))
			assert.Len(t, l.Postings(), 1)
		})
	}
}

func TestAppend_CuentaDeOtroAsiento(t *testing.T) {
	l := newLedger(t, "USD")
	p := posting("x", entity.PostingTypeReceipt, "1.00", "USD")
	p.AccountID = "acc-2"

	_, err := l.Append(p)
	var mm *domain.IdentifierMismatchError
	assert.True(t, errors.As(err, &mm))
	assert.Empty(t, l.Postings())
}

func TestAppend_MonedaSinDecimales(t *testing.T) {
	l := newLedger(t, "JPY")

	_, err := l.Append(posting("x", entity.PostingTypeReceipt, "0.50", "JPY"))
	assert.Error(t, err)

	bal, err := l.Append(posting("y", entity.PostingTypeReceipt, "1", "JPY"))
	require.NoError(t, err)
	assert.True(t, bal.Equal(dec("1")))
}

func TestRemove_RederivaSaldo(t *testing.T) {
	l := newLedger(t, "USD")
	_, _ = l.Append(posting("p1", entity.PostingTypeReceipt, "100.00", "USD"))
	_, _ = l.Append(posting("p2", entity.PostingTypeDisbursal, "40.00", "USD"))
	_, _ = l.Append(posting("p3", entity.PostingTypeReceipt, "5.50", "USD"))

	removed, bal, err := l.Remove("p2")
	require.NoError(t, err)
	assert.Equal(t, "p2", removed.ID)
	assert.True(t, bal.Equal(dec("105.50")))
	assert.NoError(t, l.Verify())

	_, err = l.Append(posting("p4", entity.PostingTypeReceipt, "1.00", "USD"))
	require.NoError(t, err)
	last, ok := l.Last()
	require.True(t, ok)
	assert.Equal(t, int64(4), last.Sequence)

	_, _, err = l.Remove("nope")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestRemove_UltimoAsientoNoReutilizaSecuencia(t *testing.T) {
	l := newLedger(t, "USD")
	_, _ = l.Append(posting("p1", entity.PostingTypeReceipt, "10.00", "USD"))
	_, _ = l.Append(posting("p2", entity.PostingTypeReceipt, "20.00", "USD"))

	_, _, err := l.Remove("p2")
	require.NoError(t, err)
	assert.Equal(t, int64(2), l.Account().LastSequence)

	_, err = l.Append(posting("p3", entity.PostingTypeReceipt, "1.00", "USD"))
	require.NoError(t, err)
	last, _ := l.Last()
	assert.Equal(t, int64(3), last.Sequence)
	assert.Equal(t, int64(3), l.Account().LastSequence)

	// Restaurado desde persistencia tras eliminar el último: la cuenta recuerda la secuencia.
	acc := l.Account()
	_, _, err = l.Remove("p3")
	require.NoError(t, err)
	restored := Restore(acc, l.Postings())
	_, err = restored.Append(posting("p4", entity.PostingTypeReceipt, "1.00", "USD"))
	require.NoError(t, err)
	last, _ = restored.Last()
	assert.Equal(t, int64(4), last.Sequence)
}

func TestVerify_DetectaSaldoCorrupto(t *testing.T) {
	acc := entity.Account{ID: "acc-1", PartnerID: "p-1", Description: "x", Currency: "USD", Balance: dec("99")}
	l := Restore(acc, []entity.Posting{posting("p1", entity.PostingTypeReceipt, "100.00", "USD")})

	err := l.Verify()
	var bm *domain.BalanceMismatchError
	require.True(t, errors.As(err, &bm))
	assert.True(t, bm.Cached.Equal(dec("99")))
	assert.True(t, bm.Derived.Equal(dec("100")))
}

func TestNew_SaldoInicialCero(t *testing.T) {
	l, err := New(entity.Account{ID: "a", PartnerID: "p", Description: "x", Currency: "COP", Balance: dec("12")})
	require.NoError(t, err)
	assert.True(t, l.Balance().IsZero())

	_, err = New(entity.Account{ID: "a", PartnerID: "p", Description: "x", Currency: "??"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestMinimumAmount(t *testing.T) {
	min, err := MinimumAmount("USD")
	require.NoError(t, err)
	assert.True(t, min.Equal(dec("0.01")))

	min, err = MinimumAmount("JPY")
	require.NoError(t, err)
	assert.True(t, min.Equal(dec("1")))

	_, err = MinimumAmount("nope")
	assert.Error(t, err)
}
