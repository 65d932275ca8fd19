package entity

import "time"

// User representa un usuario del sistema (pertenece a una Optic).
// IsApproved false = cuenta pendiente de aprobación; no puede iniciar sesión.
type User struct {
	ID           string
	OpticID      string
	Username     string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         string // admin (visibilidad global) | user (solo su óptica)
	IsApproved   bool

	// Recuperación de contraseña: token aleatorio con vencimiento.
	ResetToken        *string
	ResetTokenExpires *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
