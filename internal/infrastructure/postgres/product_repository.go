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

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, optic_id, name, brand, model, color, size, price, stock_quantity, image_url, description, created_at, updated_at, deleted_at`

// ProductRepo implementación de ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.OpticID, &p.Name, &p.Brand, &p.Model, &p.Color, &p.Size,
		&p.Price, &p.Stock, &p.ImageURL, &p.Description, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (id, optic_id, name, brand, model, color, size, price, stock_quantity, image_url, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.OpticID, product.Name, product.Brand, product.Model,
		product.Color, product.Size, product.Price, product.Stock,
		product.ImageURL, product.Description, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto activo dentro del scope. (nil, nil) si no existe.
func (r *ProductRepo) GetByID(id string, scope domain.Scope) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND deleted_at IS NULL`
	args := []any{id}
	if !scope.Admin {
		query += ` AND optic_id = $2`
		args = append(args, scope.OpticID)
	}
	p, err := scanProduct(r.q.QueryRow(context.Background(), query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// List lista productos activos del scope con paginación.
func (r *ProductRepo) List(scope domain.Scope, limit, offset int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE deleted_at IS NULL`
	args := []any{}
	if !scope.Admin {
		query += ` AND optic_id = $1`
		args = append(args, scope.OpticID)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)
	return r.queryProducts(query, args...)
}

// Search busca por substring case-insensitive en nombre, marca, modelo y color.
func (r *ProductRepo) Search(scope domain.Scope, term string) ([]*entity.Product, error) {
	pattern := "%" + term + "%"
	query := `SELECT ` + productColumns + ` FROM products
		WHERE deleted_at IS NULL
		AND (name ILIKE $1 OR brand ILIKE $1 OR model ILIKE $1 OR color ILIKE $1)`
	args := []any{pattern}
	if !scope.Admin {
		query += ` AND optic_id = $2`
		args = append(args, scope.OpticID)
	}
	query += ` ORDER BY name LIMIT 50`
	return r.queryProducts(query, args...)
}

func (r *ProductRepo) queryProducts(query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Update actualiza un producto activo. El stock no se toca aquí: solo cambia vía ventas
// (DecrementStock) o un valor explícito validado por el caso de uso.
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products SET name = $2, brand = $3, model = $4, color = $5, size = $6,
			price = $7, stock_quantity = $8, image_url = $9, description = $10, updated_at = $11
		WHERE id = $1 AND deleted_at IS NULL`
	cmd, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, product.Brand, product.Model, product.Color, product.Size,
		product.Price, product.Stock, product.ImageURL, product.Description, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkDeleted fija deleted_at y devuelve la fila para el snapshot de auditoría.
func (r *ProductRepo) MarkDeleted(id string, scope domain.Scope, at time.Time) (*entity.Product, error) {
	query := `
		UPDATE products SET deleted_at = $2, updated_at = $2
		WHERE id = $1 AND deleted_at IS NULL`
	args := []any{id, at}
	if !scope.Admin {
		query += ` AND optic_id = $3`
		args = append(args, scope.OpticID)
	}
	query += ` RETURNING ` + productColumns
	p, err := scanProduct(r.q.QueryRow(context.Background(), query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("soft delete product: %w", err)
	}
	return p, nil
}

// GetForUpdate obtiene un producto activo de la óptica y bloquea la fila (SELECT FOR UPDATE).
// Solo tiene sentido sobre un repo atado a una transacción.
func (r *ProductRepo) GetForUpdate(id, opticID string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
		WHERE id = $1 AND optic_id = $2 AND deleted_at IS NULL
		FOR UPDATE`
	p, err := scanProduct(r.q.QueryRow(context.Background(), query, id, opticID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product for update: %w", err)
	}
	return p, nil
}

// DecrementStock descuenta stock de forma condicional; 0 filas afectadas significa
// que el stock era insuficiente (o el producto desapareció bajo el lock).
func (r *ProductRepo) DecrementStock(id string, qty int) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE products SET stock_quantity = stock_quantity - $2, updated_at = now()
		 WHERE id = $1 AND stock_quantity >= $2 AND deleted_at IS NULL`,
		id, qty,
	)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrInsufficientStock
	}
	return nil
}
