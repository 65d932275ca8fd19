package registro

import (
	"context"

	"github.com/jhoicas/optica-suite/internal/domain/repository"
)

// TxRunner ejecuta la aprobación de una solicitud dentro de una transacción:
// crear la óptica (si falta), crear el usuario y marcar la solicitud, todo o nada.
type TxRunner interface {
	RunApproval(ctx context.Context, fn func(
		opticRepo repository.OpticRepository,
		userRepo repository.UserRepository,
		requestRepo repository.RegistrationRequestRepository,
	) error) error
}
