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

var _ repository.ClientRepository = (*ClientRepo)(nil)

const clientColumns = `id, optic_id, dni, first_name, last_name, phone, email, notes, created_at, updated_at, deleted_at`

// ClientRepo implementación de ClientRepository sobre PostgreSQL (usable con pool o tx).
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

func scanClient(row pgx.Row) (*entity.Client, error) {
	var c entity.Client
	err := row.Scan(&c.ID, &c.OpticID, &c.DNI, &c.FirstName, &c.LastName,
		&c.Phone, &c.Email, &c.Notes, &c.CreatedAt, &c.UpdatedAt, &c.DeletedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create persiste un nuevo cliente. (optic_id, dni) duplicado -> domain.ErrDuplicate.
func (r *ClientRepo) Create(client *entity.Client) error {
	query := `
		INSERT INTO clients (id, optic_id, dni, first_name, last_name, phone, email, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		client.ID, client.OpticID, client.DNI, client.FirstName, client.LastName,
		client.Phone, client.Email, client.Notes, client.CreatedAt, client.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente activo dentro del scope. (nil, nil) si no existe.
func (r *ClientRepo) GetByID(id string, scope domain.Scope) (*entity.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1 AND deleted_at IS NULL`
	args := []any{id}
	if !scope.Admin {
		query += ` AND optic_id = $2`
		args = append(args, scope.OpticID)
	}
	c, err := scanClient(r.q.QueryRow(context.Background(), query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

// GetByDNI obtiene un cliente activo por óptica y documento.
func (r *ClientRepo) GetByDNI(opticID, dni string) (*entity.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients
		WHERE optic_id = $1 AND dni = $2 AND deleted_at IS NULL`
	c, err := scanClient(r.q.QueryRow(context.Background(), query, opticID, dni))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client by dni: %w", err)
	}
	return c, nil
}

// List lista clientes activos del scope con paginación.
func (r *ClientRepo) List(scope domain.Scope, limit, offset int) ([]*entity.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE deleted_at IS NULL`
	args := []any{}
	if !scope.Admin {
		query += ` AND optic_id = $1`
		args = append(args, scope.OpticID)
	}
	query += fmt.Sprintf(` ORDER BY first_name, last_name LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)
	return r.queryClients(query, args...)
}

// Search busca por substring case-insensitive en nombre, apellido, dni, teléfono y email.
func (r *ClientRepo) Search(scope domain.Scope, term string) ([]*entity.Client, error) {
	pattern := "%" + term + "%"
	query := `SELECT ` + clientColumns + ` FROM clients
		WHERE deleted_at IS NULL
		AND (first_name ILIKE $1 OR last_name ILIKE $1 OR dni ILIKE $1 OR phone ILIKE $1 OR email ILIKE $1)`
	args := []any{pattern}
	if !scope.Admin {
		query += ` AND optic_id = $2`
		args = append(args, scope.OpticID)
	}
	query += ` ORDER BY first_name, last_name LIMIT 50`
	return r.queryClients(query, args...)
}

func (r *ClientRepo) queryClients(query string, args ...any) ([]*entity.Client, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()
	var list []*entity.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Update actualiza los datos de un cliente activo.
func (r *ClientRepo) Update(client *entity.Client) error {
	query := `
		UPDATE clients SET dni = $2, first_name = $3, last_name = $4, phone = $5, email = $6, notes = $7, updated_at = $8
		WHERE id = $1 AND deleted_at IS NULL`
	cmd, err := r.q.Exec(context.Background(), query,
		client.ID, client.DNI, client.FirstName, client.LastName,
		client.Phone, client.Email, client.Notes, client.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update client: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkDeleted fija deleted_at y devuelve la fila tal como quedó para el snapshot de auditoría.
func (r *ClientRepo) MarkDeleted(id string, scope domain.Scope, at time.Time) (*entity.Client, error) {
	query := `
		UPDATE clients SET deleted_at = $2, updated_at = $2
		WHERE id = $1 AND deleted_at IS NULL`
	args := []any{id, at}
	if !scope.Admin {
		query += ` AND optic_id = $3`
		args = append(args, scope.OpticID)
	}
	query += ` RETURNING ` + clientColumns
	c, err := scanClient(r.q.QueryRow(context.Background(), query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("soft delete client: %w", err)
	}
	return c, nil
}
