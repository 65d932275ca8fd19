package repository

import (
	"time"

	"github.com/jhoicas/optica-suite/internal/domain"
	"github.com/jhoicas/optica-suite/internal/domain/entity"
)

// SaleRepository puerto de persistencia para Sale y sus líneas.
// GetByID y List resuelven ClientName vía JOIN; ListItems resuelve ProductName.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	CreateItem(item *entity.SaleItem) error
	GetByID(id string, scope domain.Scope) (*entity.Sale, error)
	ListItems(saleID string) ([]*entity.SaleItem, error)
	List(scope domain.Scope, limit, offset int) ([]*entity.Sale, error)
	MarkDeleted(id string, scope domain.Scope, at time.Time) (*entity.Sale, error)
}
