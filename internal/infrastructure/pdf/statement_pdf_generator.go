// Package pdf genera el extracto de cuenta en PDF con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Cuenta + Tercero     │  Moneda + Fecha de emisión   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | Fecha | Tipo | Referencia | Monto | Saldo        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  SALDO FINAL (derivado de los asientos)                      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	appledger "github.com/jhoicas/erp-core/internal/application/ledger"
	"github.com/jhoicas/erp-core/internal/domain/entity"
	domainledger "github.com/jhoicas/erp-core/internal/domain/ledger"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ appledger.StatementPDFGenerator = (*MarotoStatementGenerator)(nil)

// MarotoStatementGenerator implementa ledger.StatementPDFGenerator usando Maroto v2.
type MarotoStatementGenerator struct{}

// NewMarotoStatementGenerator construye el generador.
func NewMarotoStatementGenerator() *MarotoStatementGenerator { return &MarotoStatementGenerator{} }

// GenerateStatementPDF genera el PDF y devuelve sus bytes.
func (g *MarotoStatementGenerator) GenerateStatementPDF(_ context.Context, st *appledger.Statement) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Extracto de cuenta", true).
		Build()

	m := maroto.New(cfg)
	scale := currencyScale(st.Account.Currency)

	m.AddRows(headerRow(st))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableLineRows(st.Lines, scale) {
		m.AddRows(r)
	}
	if len(st.Lines) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Sin asientos registrados.", props.Text{Size: 8, Align: align.Center, Top: 2, Color: colorGray}),
		)))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(closingRow(st, scale))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: cuenta y tercero (izq), moneda y fecha (der).
func headerRow(st *appledger.Statement) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(st.Account.Description, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Cuenta: "+st.Account.ID, props.Text{Size: 8, Top: 9, Color: colorGray}),
			text.New("Tercero: "+st.Account.PartnerID, props.Text{Size: 8, Top: 13, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("EXTRACTO DE CUENTA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(st.Account.Currency, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Emitido: "+st.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("#", 1, align.Center),
		h("Fecha", 2, align.Left),
		h("Tipo", 2, align.Left),
		h("Referencia", 3, align.Left),
		h("Monto", 2, align.Right),
		h("Saldo", 2, align.Right),
	)
}

// tableLineRows: una fila por asiento; los egresos se muestran con signo negativo.
func tableLineRows(lines []appledger.StatementLine, scale int32) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		p := l.Posting
		amountProps := props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1}
		if p.Type == entity.PostingTypeDisbursal {
			amountProps.Color = colorRed
		}
		result = append(result, row.New(6).Add(
			col.New(1).Add(text.New(strconv.FormatInt(p.Sequence, 10), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(p.Date.Format("02/01/2006"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(postingLabel(p.Type), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(nonEmpty(p.Reference, "-"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(formatAmount(p.SignedAmount(), scale), amountProps)),
			col.New(2).Add(text.New(formatAmount(l.RunningBalance, scale), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func closingRow(st *appledger.Statement, scale int32) core.Row {
	return row.New(12).Add(
		col.New(6),
		col.New(3).Add(text.New("SALDO FINAL:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 3, Right: 2,
		})),
		col.New(3).Add(text.New(st.Account.Currency+" "+formatAmount(st.ClosingBalance, scale), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 3, Right: 1,
		})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func postingLabel(t string) string {
	switch t {
	case entity.PostingTypeReceipt:
		return "Ingreso"
	case entity.PostingTypeDisbursal:
		return "Egreso"
	default:
		return t
	}
}

func currencyScale(code string) int32 {
	scale, err := domainledger.Scale(code)
	if err != nil {
		return 2
	}
	return scale
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatAmount formatea con puntos de miles y coma decimal.
// Ej: 1234567.5 (escala 2) → "1.234.567,50"; -40 (escala 0) → "-40"
func formatAmount(d decimal.Decimal, scale int32) string {
	s := d.Abs().StringFixed(scale)
	intPart, frac, _ := strings.Cut(s, ".")
	out := groupThousands(intPart)
	if frac != "" {
		out += "," + frac
	}
	if d.IsNegative() {
		out = "-" + out
	}
	return out
}

// groupThousands inserta puntos de miles en un string numérico sin decimales.
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
