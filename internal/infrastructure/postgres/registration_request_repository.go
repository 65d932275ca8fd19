package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/optica-suite/internal/domain/entity"
	"github.com/jhoicas/optica-suite/internal/domain/repository"
)

var _ repository.RegistrationRequestRepository = (*RegistrationRequestRepo)(nil)

const requestColumns = `id, username, email, password_hash, optic_name, optic_address, optic_phone, optic_email,
	status, admin_notes, reviewed_by, reviewed_at, user_id, optic_id, created_at, updated_at`

// RegistrationRequestRepo implementación de RegistrationRequestRepository (usable con pool o tx).
type RegistrationRequestRepo struct {
	q Querier
}

// NewRegistrationRequestRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRegistrationRequestRepository(q Querier) *RegistrationRequestRepo {
	return &RegistrationRequestRepo{q: q}
}

func scanRequest(row pgx.Row) (*entity.RegistrationRequest, error) {
	var req entity.RegistrationRequest
	err := row.Scan(&req.ID, &req.Username, &req.Email, &req.PasswordHash,
		&req.OpticName, &req.OpticAddress, &req.OpticPhone, &req.OpticEmail,
		&req.Status, &req.AdminNotes, &req.ReviewedBy, &req.ReviewedAt,
		&req.UserID, &req.OpticID, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// Create persiste una nueva solicitud en estado pending.
func (r *RegistrationRequestRepo) Create(req *entity.RegistrationRequest) error {
	query := `
		INSERT INTO registration_requests (id, username, email, password_hash,
			optic_name, optic_address, optic_phone, optic_email, status, admin_notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		req.ID, req.Username, req.Email, req.PasswordHash,
		req.OpticName, req.OpticAddress, req.OpticPhone, req.OpticEmail,
		req.Status, req.AdminNotes, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert registration request: %w", err)
	}
	return nil
}

// GetByID obtiene una solicitud por ID. (nil, nil) si no existe.
func (r *RegistrationRequestRepo) GetByID(id string) (*entity.RegistrationRequest, error) {
	req, err := scanRequest(r.q.QueryRow(context.Background(),
		`SELECT `+requestColumns+` FROM registration_requests WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get registration request: %w", err)
	}
	return req, nil
}

// List lista solicitudes, opcionalmente filtradas por estado.
func (r *RegistrationRequestRepo) List(status string, limit, offset int) ([]*entity.RegistrationRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM registration_requests`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list registration requests: %w", err)
	}
	defer rows.Close()
	var list []*entity.RegistrationRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan registration request: %w", err)
		}
		list = append(list, req)
	}
	return list, rows.Err()
}

// Resolve transiciona pending -> approved/rejected. El predicado status = 'pending'
// en el UPDATE hace que una segunda resolución afecte 0 filas: eso se reporta como
// false y el caso de uso lo traduce a conflicto.
func (r *RegistrationRequestRepo) Resolve(id, status, reviewerID, notes string, userID, opticID *string, at time.Time) (bool, error) {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE registration_requests
		 SET status = $2, reviewed_by = $3, reviewed_at = $4, admin_notes = $5, user_id = $6, optic_id = $7, updated_at = $4
		 WHERE id = $1 AND status = $8`,
		id, status, reviewerID, at, notes, userID, opticID, entity.RequestStatusPending,
	)
	if err != nil {
		return false, fmt.Errorf("resolve registration request: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}
