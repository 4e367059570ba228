package sales_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-core/internal/application/dto"
	"github.com/jhoicas/erp-core/internal/domain"
)

func TestCreatePartner_AbreCuenta(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.partner(t, "900123")
	assert.NotEmpty(t, p.AccountID)
	assert.Equal(t, p.ID, p.Account.PartnerID)
	assert.True(t, p.Account.Balance.IsZero())

	got, err := f.partners.GetPartner(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.AccountID, got.Account.ID)

	_, err = f.partners.CreatePartner(ctx, dto.CreatePartnerRequest{Name: "Otro", TaxID: "900123", Currency: "USD"})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))
}

func TestCreatePartner_Invalido(t *testing.T) {
	f := newFixture(t)
	_, err := f.partners.CreatePartner(context.Background(), dto.CreatePartnerRequest{Name: "", TaxID: "1", Currency: "USD"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = f.partners.CreatePartner(context.Background(), dto.CreatePartnerRequest{Name: "X", TaxID: "1", Currency: "ZZ"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestCreateOrder_MonedaDistintaALaCuenta(t *testing.T) {
	f := newFixture(t)
	f.material(t, "tornillo", 1)
	p := f.partner(t, "900123")

	_, err := f.orders.CreateOrder(context.Background(), dto.CreateSalesOrderRequest{
		Number: "SO-1", PartnerID: p.ID, Currency: "EUR",
		Items: []dto.SalesOrderItemRequest{{MaterialID: "tornillo", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(1)}},
	})
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "currency", ve.Violations[0].Field)
}

func TestCreateOrder_MaterialOTerceroInexistente(t *testing.T) {
	f := newFixture(t)
	p := f.partner(t, "900123")
	items := []dto.SalesOrderItemRequest{{MaterialID: "fantasma", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(1)}}

	_, err := f.orders.CreateOrder(context.Background(), dto.CreateSalesOrderRequest{Number: "SO-1", PartnerID: p.ID, Currency: "USD", Items: items})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = f.orders.CreateOrder(context.Background(), dto.CreateSalesOrderRequest{Number: "SO-2", PartnerID: "nope", Currency: "USD", Items: items})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCreateOrder_LineasPendientes(t *testing.T) {
	f := newFixture(t)
	f.material(t, "tornillo", 1)
	p := f.partner(t, "900123")
	o := f.order(t, p.ID, "tornillo", 3, "2.5")

	require.Len(t, o.Items, 1)
	assert.Equal(t, "PENDING", o.Items[0].Status)
	assert.True(t, o.Items[0].Amount.Equal(decimal.RequireFromString("7.5")))
}

func TestCreateOrder_ImporteNoRegistrable(t *testing.T) {
	f := newFixture(t)
	f.material(t, "tornillo", 1)
	p := f.partner(t, "900123")

	cases := []struct {
		name       string
		qty        int64
		price      string
		constraint string
	}{
		{"precio cero", 1, "0", "min"},
		{"menor que la unidad mínima", 1, "0.005", "min"},
		{"más decimales que la moneda", 3, "0.333", "granularity"},
	}
	for i, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.orders.CreateOrder(context.Background(), dto.CreateSalesOrderRequest{
				Number: fmt.Sprintf("SO-%d", i), PartnerID: p.ID, Currency: "USD",
				Items: []dto.SalesOrderItemRequest{{MaterialID: "tornillo", Quantity: decimal.NewFromInt(tc.qty), UnitPrice: decimal.RequireFromString(tc.price)}},
			})
			var ve *domain.ValidationError
			require.True(t, errors.As(err, &ve))
			require.NotEmpty(t, ve.Violations)
			assert.Equal(t, "items[0].amount", ve.Violations[0].Field)
			assert.Equal(t, tc.constraint, ve.Violations[0].Constraint)
		})
	}

	_, err := f.orders.CreateOrder(context.Background(), dto.CreateSalesOrderRequest{
		Number: "SO-OK", PartnerID: p.ID, Currency: "USD",
		Items: []dto.SalesOrderItemRequest{{MaterialID: "tornillo", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.RequireFromString("0.005")}},
	})
	assert.NoError(t, err)
}
