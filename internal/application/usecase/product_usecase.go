package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/optica-suite/internal/application/dto"
	"github.com/jhoicas/optica-suite/internal/domain"
	"github.com/jhoicas/optica-suite/internal/domain/entity"
	"github.com/jhoicas/optica-suite/internal/domain/repository"
)

// ProductUseCase CRUD del catálogo de productos, acotado por el Scope del caller.
// El stock solo cambia aquí por valor explícito validado; las ventas lo descuentan
// por su propio camino transaccional.
type ProductUseCase struct {
	productRepo repository.ProductRepository
	txRunner    SoftDeleteTxRunner
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(productRepo repository.ProductRepository, txRunner SoftDeleteTxRunner) *ProductUseCase {
	return &ProductUseCase{productRepo: productRepo, txRunner: txRunner}
}

// Create valida (nombre no vacío, precio y stock >= 0) y persiste un producto.
func (uc *ProductUseCase) Create(ctx context.Context, scope domain.Scope, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.Price.LessThan(decimal.Zero) || in.Stock < 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		OpticID:     scope.OpticID,
		Name:        name,
		Brand:       in.Brand,
		Model:       in.Model,
		Color:       in.Color,
		Size:        in.Size,
		Price:       in.Price,
		Stock:       in.Stock,
		ImageURL:    in.ImageURL,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.productRepo.Create(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto del scope.
func (uc *ProductUseCase) GetByID(ctx context.Context, scope domain.Scope, id string) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(id, scope)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// List lista productos activos con paginación.
func (uc *ProductUseCase) List(ctx context.Context, scope domain.Scope, limit, offset int) (*dto.ProductListResponse, error) {
	products, err := uc.productRepo.List(scope, limit, offset)
	if err != nil {
		return nil, err
	}
	out := &dto.ProductListResponse{
		Items: make([]dto.ProductResponse, 0, len(products)),
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}
	for _, p := range products {
		out.Items = append(out.Items, *toProductResponse(p))
	}
	return out, nil
}

// Search busca por substring case-insensitive en nombre, marca, modelo y color.
func (uc *ProductUseCase) Search(ctx context.Context, scope domain.Scope, term string) ([]dto.ProductResponse, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, domain.ErrInvalidInput
	}
	products, err := uc.productRepo.Search(scope, term)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, *toProductResponse(p))
	}
	return out, nil
}

// Update aplica cambios parciales. Precio y stock nuevos deben ser >= 0.
func (uc *ProductUseCase) Update(ctx context.Context, scope domain.Scope, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(id, scope)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		product.Name = name
	}
	if in.Price != nil {
		if in.Price.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product.Price = *in.Price
	}
	if in.Stock != nil {
		if *in.Stock < 0 {
			return nil, domain.ErrInvalidInput
		}
		product.Stock = *in.Stock
	}
	if in.Brand != nil {
		product.Brand = *in.Brand
	}
	if in.Model != nil {
		product.Model = *in.Model
	}
	if in.Color != nil {
		product.Color = *in.Color
	}
	if in.Size != nil {
		product.Size = *in.Size
	}
	if in.ImageURL != nil {
		product.ImageURL = *in.ImageURL
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	product.UpdatedAt = time.Now()
	if err := uc.productRepo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Delete baja lógica con auditoría en una sola transacción. Las ventas históricas
// que referencian el producto quedan intactas (la FK es ON DELETE SET NULL solo
// ante borrado físico, que aquí no ocurre).
func (uc *ProductUseCase) Delete(ctx context.Context, scope domain.Scope, userID, id, reason string) error {
	return uc.txRunner.RunSoftDelete(ctx, func(
		_ repository.ClientRepository,
		productRepo repository.ProductRepository,
		_ repository.SaleRepository,
		logRepo repository.DeletionLogRepository,
	) error {
		now := time.Now()
		product, err := productRepo.MarkDeleted(id, scope, now)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		snapshot, err := json.Marshal(product)
		if err != nil {
			return fmt.Errorf("snapshot product: %w", err)
		}
		return logRepo.Create(&entity.DeletionLog{
			ID:          uuid.New().String(),
			TableName:   "products",
			RecordID:    product.ID,
			DeletedBy:   userID,
			DeletedData: snapshot,
			Reason:      reason,
			DeletedAt:   now,
		})
	})
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:          p.ID,
		OpticID:     p.OpticID,
		Name:        p.Name,
		Brand:       p.Brand,
		Model:       p.Model,
		Color:       p.Color,
		Size:        p.Size,
		Price:       p.Price,
		Stock:       p.Stock,
		ImageURL:    p.ImageURL,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
