package dto

import "time"

// LoginRequest body para POST /api/auth/login. Username acepta username o email.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse token + usuario + óptica del caller.
type LoginResponse struct {
	Token string        `json:"token"`
	User  UserResponse  `json:"user"`
	Optic OpticResponse `json:"optic"`
}

// UserResponse usuario en respuestas (nunca incluye el hash).
type UserResponse struct {
	ID         string    `json:"id"`
	OpticID    string    `json:"optic_id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	IsApproved bool      `json:"is_approved"`
	CreatedAt  time.Time `json:"created_at"`
}

// PasswordResetRequest body para POST /api/auth/password-reset.
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// PasswordResetConfirm body para POST /api/auth/password-reset/confirm.
type PasswordResetConfirm struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}
