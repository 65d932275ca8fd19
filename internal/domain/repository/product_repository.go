package repository

import (
	"time"

	"github.com/jhoicas/optica-suite/internal/domain"
	"github.com/jhoicas/optica-suite/internal/domain/entity"
)

// ProductRepository puerto de persistencia para Product.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string, scope domain.Scope) (*entity.Product, error)
	List(scope domain.Scope, limit, offset int) ([]*entity.Product, error)
	Search(scope domain.Scope, term string) ([]*entity.Product, error)
	Update(product *entity.Product) error
	MarkDeleted(id string, scope domain.Scope, at time.Time) (*entity.Product, error)

	// GetForUpdate bloquea la fila del producto (SELECT ... FOR UPDATE) dentro de la
	// transacción en curso. Solo tiene sentido sobre un repo atado a una tx.
	// (nil, nil) si el producto no existe (o está eliminado) en esa óptica.
	GetForUpdate(id, opticID string) (*entity.Product, error)

	// DecrementStock descuenta qty de forma condicional
	// (UPDATE ... SET stock = stock - qty WHERE stock >= qty) y retorna
	// domain.ErrInsufficientStock si la condición no se cumple.
	DecrementStock(id string, qty int) error
}
