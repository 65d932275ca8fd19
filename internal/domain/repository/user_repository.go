package repository

import (
	"time"

	"github.com/jhoicas/optica-suite/internal/domain/entity"
)

// UserRepository puerto de persistencia para User.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	FindByUsername(username string) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
	// FindByUsernameOrEmail comprueba colisiones de identidad antes de crear usuarios.
	FindByUsernameOrEmail(username, email string) (*entity.User, error)
	SetResetToken(userID, token string, expires time.Time) error
	FindByResetToken(token string) (*entity.User, error)
	// UpdatePassword cambia el hash y limpia el token de reset.
	UpdatePassword(userID, passwordHash string) error
}
