package venta

import (
	"context"

	"github.com/jhoicas/optica-suite/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Garantiza que el descuento de stock, la cabecera y las líneas de
// una venta se persistan todo-o-nada, y lo mismo para la baja lógica con su auditoría.
type TxRunner interface {
	RunSale(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error) error

	RunSoftDelete(ctx context.Context, fn func(
		clientRepo repository.ClientRepository,
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
		logRepo repository.DeletionLogRepository,
	) error) error
}
