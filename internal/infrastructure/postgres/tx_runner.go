package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/optica-suite/internal/application/registro"
	"github.com/jhoicas/optica-suite/internal/application/usecase"
	"github.com/jhoicas/optica-suite/internal/application/venta"
	"github.com/jhoicas/optica-suite/internal/domain/repository"
)

// Ensure TxRunner implements los puertos transaccionales de la capa de aplicación.
var _ venta.TxRunner = (*TxRunner)(nil)
var _ usecase.SoftDeleteTxRunner = (*TxRunner)(nil)
var _ registro.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunSale inicia una transacción con los repos que necesita la creación de ventas
// (productos con FOR UPDATE + venta/items) y hace Commit o Rollback.
func (r *TxRunner) RunSale(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	productRepo := NewProductRepository(tx)
	saleRepo := NewSaleRepository(tx)

	if err := fn(productRepo, saleRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunSoftDelete inicia una transacción para una baja lógica: el snapshot en
// deletion_logs y el UPDATE de deleted_at quedan en la misma tx.
func (r *TxRunner) RunSoftDelete(ctx context.Context, fn func(
	clientRepo repository.ClientRepository,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	logRepo repository.DeletionLogRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	clientRepo := NewClientRepository(tx)
	productRepo := NewProductRepository(tx)
	saleRepo := NewSaleRepository(tx)
	logRepo := NewDeletionLogRepository(tx)

	if err := fn(clientRepo, productRepo, saleRepo, logRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunApproval inicia una transacción para aprobar una solicitud de registro:
// crear óptica (si falta), crear usuario y marcar la solicitud, todo o nada.
func (r *TxRunner) RunApproval(ctx context.Context, fn func(
	opticRepo repository.OpticRepository,
	userRepo repository.UserRepository,
	requestRepo repository.RegistrationRequestRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	opticRepo := NewOpticRepository(tx)
	userRepo := NewUserRepository(tx)
	requestRepo := NewRegistrationRequestRepository(tx)

	if err := fn(opticRepo, userRepo, requestRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
