package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-core/internal/application/dto"
	"github.com/jhoicas/erp-core/internal/application/ledger"
	"github.com/jhoicas/erp-core/internal/application/ports"
	"github.com/jhoicas/erp-core/internal/domain/entity"
	"github.com/jhoicas/erp-core/pkg/config"
	"github.com/jhoicas/erp-core/pkg/logger"
)

// Requiere una base PostgreSQL desechable: ERP_TEST_DATABASE_URL=postgres://... go test ./...
func testPool(t *testing.T) *TxRunner {
	t.Helper()
	dsn := os.Getenv("ERP_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("ERP_TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()
	require.NoError(t, NewMigrator(dsn, logger.Nop()).Up(ctx))
	pool, err := NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 4})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return NewTxRunner(pool)
}

func TestLedger_PostgresFlujoCompleto(t *testing.T) {
	tx := testPool(t)
	ctx := context.Background()
	svc := ledger.NewService(NewAccountRepository(tx.pool), NewPostingRepository(tx.pool), tx, ports.NopMetrics{}, logger.Nop())

	acc, err := svc.OpenAccount(ctx, ledger.OpenAccountInput{PartnerID: uuid.NewString(), Description: "Integración", Currency: "USD"})
	require.NoError(t, err)

	_, err = svc.AppendPosting(ctx, acc.ID, "test", dto.AppendPostingRequest{
		Type: entity.PostingTypeReceipt, Amount: decimal.RequireFromString("10.25"), Currency: "USD",
	})
	require.NoError(t, err)
	res, err := svc.AppendPosting(ctx, acc.ID, "test", dto.AppendPostingRequest{
		Type: entity.PostingTypeDisbursal, Amount: decimal.RequireFromString("0.25"), Currency: "USD",
	})
	require.NoError(t, err)
	assert.True(t, res.Balance.Equal(decimal.NewFromInt(10)))

	check, err := svc.RecomputeBalance(ctx, acc.ID)
	require.NoError(t, err)
	assert.True(t, check.Consistent)
	assert.Equal(t, 2, check.Postings)

	_, err = svc.RemovePosting(ctx, acc.ID, res.Posting.ID, "test")
	require.NoError(t, err)
	again, err := svc.AppendPosting(ctx, acc.ID, "test", dto.AppendPostingRequest{
		Type: entity.PostingTypeReceipt, Amount: decimal.RequireFromString("1.00"), Currency: "USD",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), again.Posting.Sequence)
}

func TestMaterialRepo_PostgresDuplicado(t *testing.T) {
	tx := testPool(t)
	ctx := context.Background()
	repo := NewMaterialRepository(tx.pool)
	code := "IT-" + uuid.NewString()[:8]

	require.NoError(t, repo.Create(ctx, &entity.Material{ID: uuid.NewString(), Code: code, Name: "x"}))
	err := repo.Create(ctx, &entity.Material{ID: uuid.NewString(), Code: code, Name: "y"})
	assert.Error(t, err)

	m, err := repo.GetByCode(ctx, code)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "x", m.Name)
}
