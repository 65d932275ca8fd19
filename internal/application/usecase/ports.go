package usecase

import (
	"context"

	"github.com/jhoicas/optica-suite/internal/domain/repository"
)

// SoftDeleteTxRunner ejecuta una baja lógica dentro de una transacción: el snapshot
// en deletion_logs y el UPDATE de deleted_at se persisten todo-o-nada.
type SoftDeleteTxRunner interface {
	RunSoftDelete(ctx context.Context, fn func(
		clientRepo repository.ClientRepository,
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
		logRepo repository.DeletionLogRepository,
	) error) error
}
