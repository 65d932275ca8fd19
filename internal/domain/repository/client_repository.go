package repository

import (
	"time"

	"github.com/jhoicas/optica-suite/internal/domain"
	"github.com/jhoicas/optica-suite/internal/domain/entity"
)

// ClientRepository puerto de persistencia para Client.
// Los métodos de lectura reciben el Scope del caller y excluyen filas con baja lógica.
// GetByID retorna (nil, nil) si no existe o está fuera del scope.
type ClientRepository interface {
	Create(client *entity.Client) error
	GetByID(id string, scope domain.Scope) (*entity.Client, error)
	GetByDNI(opticID, dni string) (*entity.Client, error)
	List(scope domain.Scope, limit, offset int) ([]*entity.Client, error)
	Search(scope domain.Scope, term string) ([]*entity.Client, error)
	Update(client *entity.Client) error
	// MarkDeleted fija deleted_at y devuelve la entidad tal como quedó (para el snapshot
	// de auditoría). (nil, nil) si no existe, ya estaba eliminada o el scope no alcanza.
	MarkDeleted(id string, scope domain.Scope, at time.Time) (*entity.Client, error)
}
