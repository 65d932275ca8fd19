package dto

import "time"

// RegisterRequest body para POST /api/auth/register (alta self-service).
// Crea una solicitud pendiente; el usuario y la óptica se materializan al aprobarla.
type RegisterRequest struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	OpticName    string `json:"optic_name"`
	OpticAddress string `json:"optic_address"`
	OpticPhone   string `json:"optic_phone"`
	OpticEmail   string `json:"optic_email"`
}

// RegistrationRequestResponse solicitud en respuestas (sin el hash).
type RegistrationRequestResponse struct {
	ID         string     `json:"id"`
	Username   string     `json:"username"`
	Email      string     `json:"email"`
	OpticName  string     `json:"optic_name"`
	Status     string     `json:"status"`
	AdminNotes string     `json:"admin_notes,omitempty"`
	ReviewedBy *string    `json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
	UserID     *string    `json:"user_id,omitempty"`
	OpticID    *string    `json:"optic_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// RegistrationListResponse lista paginada de solicitudes (solo admin).
type RegistrationListResponse struct {
	Items []RegistrationRequestResponse `json:"items"`
	Page  PageResponse                  `json:"page"`
}

// ReviewRequest body para aprobar o rechazar una solicitud.
type ReviewRequest struct {
	Notes string `json:"notes"`
}
