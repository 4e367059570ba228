package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/erp-core/internal/domain/entity"
	"github.com/jhoicas/erp-core/internal/domain/repository"
)

var _ repository.BillOfMaterialRepository = (*BillOfMaterialRepo)(nil)

// BillOfMaterialRepo listas de materiales: cabecera en bills_of_material, ítems en bill_of_material_items.
type BillOfMaterialRepo struct {
	q Querier
}

// NewBillOfMaterialRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBillOfMaterialRepository(q Querier) *BillOfMaterialRepo {
	return &BillOfMaterialRepo{q: q}
}

// GetByMaterial obtiene la lista del material con sus ítems ordenados por item_id.
func (r *BillOfMaterialRepo) GetByMaterial(ctx context.Context, materialID string) (*entity.BillOfMaterial, error) {
	var b entity.BillOfMaterial
	err := r.q.QueryRow(ctx, `SELECT id, material_id FROM bills_of_material WHERE material_id = $1`, materialID).
		Scan(&b.ID, &b.MaterialID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bill of material: %w", err)
	}

	query := `
		SELECT bill_of_material_id, item_id, component_id, quantity
		FROM bill_of_material_items WHERE bill_of_material_id = $1 ORDER BY item_id`
	rows, err := r.q.Query(ctx, query, b.ID)
	if err != nil {
		return nil, fmt.Errorf("list bill of material items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.BillOfMaterialItem
		if err := rows.Scan(&it.BillOfMaterialID, &it.ItemID, &it.ComponentID, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan bill of material item: %w", err)
		}
		b.Items = append(b.Items, it)
	}
	return &b, rows.Err()
}

// Replace sustituye cabecera e ítems. Debe ejecutarse con pool (una sentencia por paso) o dentro de una tx.
func (r *BillOfMaterialRepo) Replace(ctx context.Context, b *entity.BillOfMaterial) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO bills_of_material (id, material_id) VALUES ($1, $2)
		ON CONFLICT (material_id) DO NOTHING`, b.ID, b.MaterialID)
	if err != nil {
		return fmt.Errorf("upsert bill of material: %w", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM bill_of_material_items WHERE bill_of_material_id = $1`, b.ID); err != nil {
		return fmt.Errorf("delete bill of material items: %w", err)
	}
	for _, it := range b.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO bill_of_material_items (bill_of_material_id, item_id, component_id, quantity)
			VALUES ($1, $2, $3, $4)`, b.ID, it.ItemID, it.ComponentID, it.Quantity)
		if err != nil {
			return fmt.Errorf("insert bill of material item: %w", err)
		}
	}
	return nil
}
