package venta

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/optica-suite/internal/application/dto"
	"github.com/jhoicas/optica-suite/internal/domain"
	"github.com/jhoicas/optica-suite/internal/domain/entity"
	"github.com/jhoicas/optica-suite/internal/domain/repository"
)

// SaleUseCase crea ventas de forma transaccional: valida cliente y productos de la
// óptica, bloquea las filas de producto (SELECT FOR UPDATE), descuenta stock y
// persiste cabecera + líneas con Commit/Rollback. El total siempre se deriva de
// las líneas.
type SaleUseCase struct {
	txRunner   TxRunner
	clientRepo repository.ClientRepository
	saleRepo   repository.SaleRepository
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(txRunner TxRunner, clientRepo repository.ClientRepository, saleRepo repository.SaleRepository) *SaleUseCase {
	return &SaleUseCase{txRunner: txRunner, clientRepo: clientRepo, saleRepo: saleRepo}
}

// Create valida y persiste una venta. Cualquier fallo de validación aborta antes de
// escribir; un fallo dentro de la transacción revierte stock, cabecera y líneas.
func (uc *SaleUseCase) Create(ctx context.Context, scope domain.Scope, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	opticID := scope.OpticID
	if opticID == "" {
		return nil, domain.ErrUnauthorized
	}
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.ClientID != "" && in.UnregisteredClientName != "" {
		return nil, domain.ErrInvalidInput
	}

	// Las lecturas de la venta siempre quedan acotadas a la óptica del caller,
	// aunque sea admin: una venta se registra en la óptica propia.
	tenantScope := domain.Scope{OpticID: opticID}

	var clientID *string
	if in.ClientID != "" {
		client, err := uc.clientRepo.GetByID(in.ClientID, tenantScope)
		if err != nil {
			return nil, err
		}
		if client == nil {
			return nil, domain.ErrNotFound
		}
		clientID = &client.ID
	}

	for i := range in.Items {
		item := &in.Items[i]
		if item.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		hasProduct := item.ProductID != ""
		hasName := item.UnregisteredProductName != ""
		if hasProduct == hasName { // ni uno ni otro, o los dos
			return nil, domain.ErrInvalidInput
		}
		if !hasProduct && item.UnitPrice == nil {
			// Sin producto registrado no hay precio de catálogo al cual recurrir.
			return nil, domain.ErrInvalidInput
		}
		if item.UnitPrice != nil && item.UnitPrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}

	now := time.Now()
	saleDate := now
	if in.SaleDate != nil {
		saleDate = *in.SaleDate
	}
	saleID := uuid.New().String()

	err := uc.txRunner.RunSale(ctx, func(
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error {
		total := decimal.Zero
		items := make([]*entity.SaleItem, 0, len(in.Items))

		for i := range in.Items {
			req := &in.Items[i]
			item := &entity.SaleItem{
				ID:                      uuid.New().String(),
				SaleID:                  saleID,
				LineNo:                  i,
				UnregisteredProductName: req.UnregisteredProductName,
				Quantity:                req.Quantity,
				Notes:                   req.Notes,
				PrescriptionOD:          toPrescription(req.PrescriptionOD),
				PrescriptionOI:          toPrescription(req.PrescriptionOI),
			}
			if req.ProductID != "" {
				// Bloquea la fila del producto hasta el commit: dos ventas
				// concurrentes del mismo producto se serializan aquí.
				product, err := productRepo.GetForUpdate(req.ProductID, opticID)
				if err != nil {
					return err
				}
				if product == nil {
					return domain.ErrNotFound
				}
				if product.Stock < req.Quantity {
					return domain.ErrInsufficientStock
				}
				if err := productRepo.DecrementStock(product.ID, req.Quantity); err != nil {
					return err
				}
				item.ProductID = &product.ID
				item.ProductName = product.Name
				if req.UnitPrice != nil {
					item.UnitPrice = *req.UnitPrice
				} else {
					item.UnitPrice = product.Price
				}
			} else {
				item.UnitPrice = *req.UnitPrice
			}
			item.TotalPrice = item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
			total = total.Add(item.TotalPrice)
			items = append(items, item)
		}

		sale := &entity.Sale{
			ID:                     saleID,
			OpticID:                opticID,
			ClientID:               clientID,
			UnregisteredClientName: in.UnregisteredClientName,
			TotalAmount:            total,
			SaleDate:               saleDate,
			Notes:                  in.Notes,
			PrescriptionOD:         toPrescription(in.PrescriptionOD),
			PrescriptionOI:         toPrescription(in.PrescriptionOI),
			CreatedAt:              now,
			UpdatedAt:              now,
		}
		if err := saleRepo.Create(sale); err != nil {
			return err
		}
		for _, item := range items {
			if err := saleRepo.CreateItem(item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Lectura post-commit para resolver nombres de cliente/producto vía JOIN.
	return uc.GetByID(ctx, tenantScope, saleID)
}

// GetByID devuelve la venta con sus líneas y nombres resueltos.
func (uc *SaleUseCase) GetByID(ctx context.Context, scope domain.Scope, id string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(id, scope)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.saleRepo.ListItems(sale.ID)
	if err != nil {
		return nil, err
	}
	sale.Items = items
	return toSaleResponse(sale), nil
}

// List lista cabeceras de venta del scope, más recientes primero.
func (uc *SaleUseCase) List(ctx context.Context, scope domain.Scope, limit, offset int) (*dto.SaleListResponse, error) {
	sales, err := uc.saleRepo.List(scope, limit, offset)
	if err != nil {
		return nil, err
	}
	out := &dto.SaleListResponse{
		Items: make([]dto.SaleResponse, 0, len(sales)),
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}
	for _, s := range sales {
		out.Items = append(out.Items, *toSaleResponse(s))
	}
	return out, nil
}

// Delete hace la baja lógica de la venta: snapshot en deletion_logs y deleted_at
// en la misma transacción. El stock vendido no se restituye.
func (uc *SaleUseCase) Delete(ctx context.Context, scope domain.Scope, userID, id, reason string) error {
	return uc.txRunner.RunSoftDelete(ctx, func(
		_ repository.ClientRepository,
		_ repository.ProductRepository,
		saleRepo repository.SaleRepository,
		logRepo repository.DeletionLogRepository,
	) error {
		now := time.Now()
		sale, err := saleRepo.MarkDeleted(id, scope, now)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		snapshot, err := json.Marshal(sale)
		if err != nil {
			return fmt.Errorf("snapshot sale: %w", err)
		}
		return logRepo.Create(&entity.DeletionLog{
			ID:          uuid.New().String(),
			TableName:   "sales",
			RecordID:    sale.ID,
			DeletedBy:   userID,
			DeletedData: snapshot,
			Reason:      reason,
			DeletedAt:   now,
		})
	})
}

func toPrescription(in *dto.PrescriptionDTO) entity.Prescription {
	if in == nil {
		return entity.Prescription{}
	}
	return entity.Prescription{
		Sphere:   in.Sphere,
		Cylinder: in.Cylinder,
		Axis:     in.Axis,
		Addition: in.Addition,
	}
}

func fromPrescription(p entity.Prescription) *dto.PrescriptionDTO {
	if p.Empty() {
		return nil
	}
	return &dto.PrescriptionDTO{
		Sphere:   p.Sphere,
		Cylinder: p.Cylinder,
		Axis:     p.Axis,
		Addition: p.Addition,
	}
}

func toSaleResponse(s *entity.Sale) *dto.SaleResponse {
	out := &dto.SaleResponse{
		ID:                     s.ID,
		OpticID:                s.OpticID,
		ClientID:               s.ClientID,
		UnregisteredClientName: s.UnregisteredClientName,
		ClientName:             s.ClientName,
		TotalAmount:            s.TotalAmount,
		SaleDate:               s.SaleDate,
		Notes:                  s.Notes,
		PrescriptionOD:         fromPrescription(s.PrescriptionOD),
		PrescriptionOI:         fromPrescription(s.PrescriptionOI),
		Items:                  make([]dto.SaleItemResponse, 0, len(s.Items)),
		CreatedAt:              s.CreatedAt,
	}
	for _, item := range s.Items {
		out.Items = append(out.Items, dto.SaleItemResponse{
			ID:                      item.ID,
			ProductID:               item.ProductID,
			UnregisteredProductName: item.UnregisteredProductName,
			ProductName:             item.ProductName,
			Quantity:                item.Quantity,
			UnitPrice:               item.UnitPrice,
			TotalPrice:              item.TotalPrice,
			Notes:                   item.Notes,
			PrescriptionOD:          fromPrescription(item.PrescriptionOD),
			PrescriptionOI:          fromPrescription(item.PrescriptionOI),
		})
	}
	return out
}
