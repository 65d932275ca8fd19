package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/optica-suite/internal/domain"
	"github.com/jhoicas/optica-suite/internal/domain/entity"
	"github.com/jhoicas/optica-suite/internal/domain/repository"
)

var _ repository.OpticRepository = (*OpticRepo)(nil)

const opticColumns = `id, name, address, phone, email, created_at, updated_at`

// OpticRepo implementación de OpticRepository sobre PostgreSQL (usable con pool o tx).
type OpticRepo struct {
	q Querier
}

// NewOpticRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOpticRepository(q Querier) *OpticRepo {
	return &OpticRepo{q: q}
}

func scanOptic(row pgx.Row) (*entity.Optic, error) {
	var o entity.Optic
	err := row.Scan(&o.ID, &o.Name, &o.Address, &o.Phone, &o.Email, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create persiste una nueva óptica.
func (r *OpticRepo) Create(optic *entity.Optic) error {
	query := `
		INSERT INTO optics (id, name, address, phone, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		optic.ID, optic.Name, optic.Address, optic.Phone, optic.Email,
		optic.CreatedAt, optic.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert optic: %w", err)
	}
	return nil
}

// GetByID obtiene una óptica por ID. (nil, nil) si no existe.
func (r *OpticRepo) GetByID(id string) (*entity.Optic, error) {
	o, err := scanOptic(r.q.QueryRow(context.Background(),
		`SELECT `+opticColumns+` FROM optics WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get optic: %w", err)
	}
	return o, nil
}

// GetByName obtiene una óptica por nombre exacto.
func (r *OpticRepo) GetByName(name string) (*entity.Optic, error) {
	o, err := scanOptic(r.q.QueryRow(context.Background(),
		`SELECT `+opticColumns+` FROM optics WHERE name = $1`, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get optic by name: %w", err)
	}
	return o, nil
}

// List lista ópticas con paginación (solo admin llega aquí).
func (r *OpticRepo) List(limit, offset int) ([]*entity.Optic, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+opticColumns+` FROM optics ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list optics: %w", err)
	}
	defer rows.Close()
	var list []*entity.Optic
	for rows.Next() {
		o, err := scanOptic(rows)
		if err != nil {
			return nil, fmt.Errorf("scan optic: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// Update actualiza los datos de contacto de una óptica.
func (r *OpticRepo) Update(optic *entity.Optic) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE optics SET name = $2, address = $3, phone = $4, email = $5, updated_at = $6 WHERE id = $1`,
		optic.ID, optic.Name, optic.Address, optic.Phone, optic.Email, optic.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update optic: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Stats calcula los agregados del dashboard en una sola query.
func (r *OpticRepo) Stats(opticID string) (*entity.OpticStats, error) {
	query := `
		SELECT
			(SELECT count(*) FROM clients WHERE optic_id = $1 AND deleted_at IS NULL),
			(SELECT count(*) FROM products WHERE optic_id = $1 AND deleted_at IS NULL),
			(SELECT count(*) FROM products WHERE optic_id = $1 AND deleted_at IS NULL AND stock_quantity < $2),
			(SELECT count(*) FROM sales WHERE optic_id = $1 AND deleted_at IS NULL
				AND sale_date >= date_trunc('month', now())),
			(SELECT COALESCE(sum(total_amount), 0) FROM sales WHERE optic_id = $1 AND deleted_at IS NULL
				AND sale_date >= date_trunc('month', now()))`
	var s entity.OpticStats
	err := r.q.QueryRow(context.Background(), query, opticID, entity.LowStockThreshold).Scan(
		&s.ActiveClients, &s.ActiveProducts, &s.LowStockProducts, &s.SalesThisMonth, &s.RevenueThisMonth,
	)
	if err != nil {
		return nil, fmt.Errorf("optic stats: %w", err)
	}
	return &s, nil
}
