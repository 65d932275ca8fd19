package repository

import (
	"time"

	"github.com/jhoicas/optica-suite/internal/domain/entity"
)

// RegistrationRequestRepository puerto de persistencia para RegistrationRequest.
type RegistrationRequestRepository interface {
	Create(req *entity.RegistrationRequest) error
	GetByID(id string) (*entity.RegistrationRequest, error)
	// List filtra por estado; status vacío = todas.
	List(status string, limit, offset int) ([]*entity.RegistrationRequest, error)
	// Resolve transiciona pending -> status con el predicado status = 'pending' en el
	// UPDATE; devuelve false si la solicitud ya estaba resuelta (0 filas afectadas).
	Resolve(id, status, reviewerID, notes string, userID, opticID *string, at time.Time) (bool, error)
}
