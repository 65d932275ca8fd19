package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/optica-suite/internal/domain"
	"github.com/jhoicas/optica-suite/internal/domain/entity"
	"github.com/jhoicas/optica-suite/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// saleSelect columnas de la cabecera más el nombre del cliente resuelto vía JOIN.
const saleSelect = `
	SELECT s.id, s.optic_id, s.client_id, s.unregistered_client_name,
		COALESCE(NULLIF(TRIM(c.first_name || ' ' || c.last_name), ''), s.unregistered_client_name) AS client_name,
		s.total_amount, s.sale_date, s.notes,
		s.od_sphere, s.od_cylinder, s.od_axis, s.od_addition,
		s.oi_sphere, s.oi_cylinder, s.oi_axis, s.oi_addition,
		s.created_at, s.updated_at, s.deleted_at
	FROM sales s
	LEFT JOIN clients c ON c.id = s.client_id`

// SaleRepo implementación de SaleRepository sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	err := row.Scan(&s.ID, &s.OpticID, &s.ClientID, &s.UnregisteredClientName, &s.ClientName,
		&s.TotalAmount, &s.SaleDate, &s.Notes,
		&s.PrescriptionOD.Sphere, &s.PrescriptionOD.Cylinder, &s.PrescriptionOD.Axis, &s.PrescriptionOD.Addition,
		&s.PrescriptionOI.Sphere, &s.PrescriptionOI.Cylinder, &s.PrescriptionOI.Axis, &s.PrescriptionOI.Addition,
		&s.CreatedAt, &s.UpdatedAt, &s.DeletedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create persiste la cabecera de la venta.
func (r *SaleRepo) Create(sale *entity.Sale) error {
	query := `
		INSERT INTO sales (id, optic_id, client_id, unregistered_client_name, total_amount, sale_date, notes,
			od_sphere, od_cylinder, od_axis, od_addition, oi_sphere, oi_cylinder, oi_axis, oi_addition,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.OpticID, sale.ClientID, sale.UnregisteredClientName,
		sale.TotalAmount, sale.SaleDate, sale.Notes,
		sale.PrescriptionOD.Sphere, sale.PrescriptionOD.Cylinder, sale.PrescriptionOD.Axis, sale.PrescriptionOD.Addition,
		sale.PrescriptionOI.Sphere, sale.PrescriptionOI.Cylinder, sale.PrescriptionOI.Axis, sale.PrescriptionOI.Addition,
		sale.CreatedAt, sale.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de la venta. Una violación de FK (el producto
// desapareció entre la validación y el insert) se reporta como no encontrado.
func (r *SaleRepo) CreateItem(item *entity.SaleItem) error {
	query := `
		INSERT INTO sale_items (id, sale_id, line_no, product_id, unregistered_product_name, quantity, unit_price, total_price, notes,
			od_sphere, od_cylinder, od_axis, od_addition, oi_sphere, oi_cylinder, oi_axis, oi_addition)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.SaleID, item.LineNo, item.ProductID, item.UnregisteredProductName,
		item.Quantity, item.UnitPrice, item.TotalPrice, item.Notes,
		item.PrescriptionOD.Sphere, item.PrescriptionOD.Cylinder, item.PrescriptionOD.Axis, item.PrescriptionOD.Addition,
		item.PrescriptionOI.Sphere, item.PrescriptionOI.Cylinder, item.PrescriptionOI.Axis, item.PrescriptionOI.Addition,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert sale item: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera activa dentro del scope, con el nombre del cliente resuelto.
func (r *SaleRepo) GetByID(id string, scope domain.Scope) (*entity.Sale, error) {
	query := saleSelect + ` WHERE s.id = $1 AND s.deleted_at IS NULL`
	args := []any{id}
	if !scope.Admin {
		query += ` AND s.optic_id = $2`
		args = append(args, scope.OpticID)
	}
	s, err := scanSale(r.q.QueryRow(context.Background(), query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return s, nil
}

// ListItems lista las líneas de una venta con el nombre del producto resuelto.
func (r *SaleRepo) ListItems(saleID string) ([]*entity.SaleItem, error) {
	query := `
		SELECT i.id, i.sale_id, i.line_no, i.product_id, i.unregistered_product_name, COALESCE(p.name, '') AS product_name,
			i.quantity, i.unit_price, i.total_price, i.notes,
			i.od_sphere, i.od_cylinder, i.od_axis, i.od_addition,
			i.oi_sphere, i.oi_cylinder, i.oi_axis, i.oi_addition
		FROM sale_items i
		LEFT JOIN products p ON p.id = i.product_id
		WHERE i.sale_id = $1
		ORDER BY i.line_no`
	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	var items []*entity.SaleItem
	for rows.Next() {
		var i entity.SaleItem
		if err := rows.Scan(&i.ID, &i.SaleID, &i.LineNo, &i.ProductID, &i.UnregisteredProductName, &i.ProductName,
			&i.Quantity, &i.UnitPrice, &i.TotalPrice, &i.Notes,
			&i.PrescriptionOD.Sphere, &i.PrescriptionOD.Cylinder, &i.PrescriptionOD.Axis, &i.PrescriptionOD.Addition,
			&i.PrescriptionOI.Sphere, &i.PrescriptionOI.Cylinder, &i.PrescriptionOI.Axis, &i.PrescriptionOI.Addition,
		); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		items = append(items, &i)
	}
	return items, rows.Err()
}

// List lista ventas activas del scope, más recientes primero.
func (r *SaleRepo) List(scope domain.Scope, limit, offset int) ([]*entity.Sale, error) {
	query := saleSelect + ` WHERE s.deleted_at IS NULL`
	args := []any{}
	if !scope.Admin {
		query += ` AND s.optic_id = $1`
		args = append(args, scope.OpticID)
	}
	query += fmt.Sprintf(` ORDER BY s.sale_date DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// MarkDeleted fija deleted_at en la cabecera y la devuelve para el snapshot de auditoría.
// Las líneas no se tocan: siguen colgando de la venta eliminada.
func (r *SaleRepo) MarkDeleted(id string, scope domain.Scope, at time.Time) (*entity.Sale, error) {
	query := `
		UPDATE sales SET deleted_at = $2, updated_at = $2
		WHERE id = $1 AND deleted_at IS NULL`
	args := []any{id, at}
	if !scope.Admin {
		query += ` AND optic_id = $3`
		args = append(args, scope.OpticID)
	}
	query += ` RETURNING id, optic_id, client_id, unregistered_client_name, '' AS client_name,
		total_amount, sale_date, notes,
		od_sphere, od_cylinder, od_axis, od_addition,
		oi_sphere, oi_cylinder, oi_axis, oi_addition,
		created_at, updated_at, deleted_at`
	s, err := scanSale(r.q.QueryRow(context.Background(), query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("soft delete sale: %w", err)
	}
	return s, nil
}
