package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/erp-core/internal/domain"
	"github.com/jhoicas/erp-core/internal/domain/entity"
	"github.com/jhoicas/erp-core/internal/domain/repository"
)

var _ repository.MaterialRepository = (*MaterialRepo)(nil)

// MaterialRepo implementación del puerto MaterialRepository sobre PostgreSQL (usable con pool o tx).
type MaterialRepo struct {
	q Querier
}

// NewMaterialRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMaterialRepository(q Querier) *MaterialRepo {
	return &MaterialRepo{q: q}
}

const materialColumns = `id, code, name, composite, stock_quantity, unit_measure, created_at, updated_at`

// Create persiste un nuevo material.
func (r *MaterialRepo) Create(ctx context.Context, m *entity.Material) error {
	query := `
		INSERT INTO materials (` + materialColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.Code, m.Name, m.Composite, m.StockQuantity, m.UnitMeasure, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert material: %w", err)
	}
	return nil
}

// GetByID obtiene un material por ID.
func (r *MaterialRepo) GetByID(ctx context.Context, id string) (*entity.Material, error) {
	return r.getOne(ctx, `SELECT `+materialColumns+` FROM materials WHERE id = $1`, id)
}

// GetByCode obtiene un material por código.
func (r *MaterialRepo) GetByCode(ctx context.Context, code string) (*entity.Material, error) {
	return r.getOne(ctx, `SELECT `+materialColumns+` FROM materials WHERE code = $1`, code)
}

func (r *MaterialRepo) getOne(ctx context.Context, query string, arg any) (*entity.Material, error) {
	m, err := scanMaterial(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get material: %w", err)
	}
	return m, nil
}

// Update actualiza los datos del material.
func (r *MaterialRepo) Update(ctx context.Context, m *entity.Material) error {
	query := `
		UPDATE materials
		SET code = $2, name = $3, composite = $4, stock_quantity = $5, unit_measure = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, m.ID, m.Code, m.Name, m.Composite, m.StockQuantity, m.UnitMeasure, m.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update material: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista materiales ordenados por código.
func (r *MaterialRepo) List(ctx context.Context, limit, offset int) ([]*entity.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials ORDER BY code LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limitArg(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	defer rows.Close()

	var list []*entity.Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanMaterial(row pgx.Row) (*entity.Material, error) {
	var m entity.Material
	err := row.Scan(&m.ID, &m.Code, &m.Name, &m.Composite, &m.StockQuantity, &m.UnitMeasure, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
