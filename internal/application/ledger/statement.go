package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-core/internal/domain/entity"
)

// StatementLine asiento con el saldo acumulado tras aplicarlo.
type StatementLine struct {
	Posting        entity.Posting
	RunningBalance decimal.Decimal
}

// Statement extracto de una cuenta.
type Statement struct {
	Account        entity.Account
	Lines          []StatementLine
	ClosingBalance decimal.Decimal // derivado de los asientos
	GeneratedAt    time.Time
}

// BuildStatement calcula el saldo acumulado en orden de inserción partiendo de cero.
func BuildStatement(account entity.Account, postings []entity.Posting, at time.Time) *Statement {
	st := &Statement{Account: account, Lines: make([]StatementLine, 0, len(postings)), GeneratedAt: at}
	running := decimal.Zero
	for _, p := range postings {
		running = running.Add(p.SignedAmount())
		st.Lines = append(st.Lines, StatementLine{Posting: p, RunningBalance: running})
	}
	st.ClosingBalance = running
	return st
}

// StatementPDFGenerator puerto de salida para renderizar el extracto.
type StatementPDFGenerator interface {
	GenerateStatementPDF(ctx context.Context, st *Statement) ([]byte, error)
}

// StatementUseCase genera el extracto en PDF.
type StatementUseCase struct {
	service   *Service
	generator StatementPDFGenerator
}

// NewStatementUseCase construye el caso de uso.
func NewStatementUseCase(service *Service, generator StatementPDFGenerator) *StatementUseCase {
	return &StatementUseCase{service: service, generator: generator}
}

// DownloadStatementPDF devuelve los bytes del PDF y el nombre de archivo sugerido.
func (uc *StatementUseCase) DownloadStatementPDF(ctx context.Context, accountID string) (pdfBytes []byte, filename string, err error) {
	st, err := uc.service.Statement(ctx, accountID)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err = uc.generator.GenerateStatementPDF(ctx, st)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("extracto_%s_%s.pdf", accountID, st.GeneratedAt.Format("20060102")), nil
}
