package repository

import "github.com/jhoicas/optica-suite/internal/domain/entity"

// OpticRepository puerto de persistencia para Optic (tenants).
type OpticRepository interface {
	Create(optic *entity.Optic) error
	GetByID(id string) (*entity.Optic, error)
	GetByName(name string) (*entity.Optic, error)
	List(limit, offset int) ([]*entity.Optic, error)
	Update(optic *entity.Optic) error
	// Stats calcula los agregados del dashboard de una óptica.
	Stats(opticID string) (*entity.OpticStats, error)
}
