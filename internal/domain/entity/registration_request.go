package entity

import "time"

// Estados de una solicitud de registro. pending es el único estado no terminal.
const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)

// RegistrationRequest solicitud de alta de un nuevo usuario + óptica.
// Guarda desnormalizados los datos de la óptica deseada; la fila de Optic y la
// de User se crean recién al aprobar, de modo que un rechazo no deja rastro
// fuera de la propia solicitud. UserID/OpticID se completan en la aprobación.
type RegistrationRequest struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	OpticName    string
	OpticAddress string
	OpticPhone   string
	OpticEmail   string

	Status     string // pending | approved | rejected
	AdminNotes string
	ReviewedBy *string
	ReviewedAt *time.Time
	UserID     *string
	OpticID    *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
