package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/optica-suite/internal/application/dto"
	"github.com/jhoicas/optica-suite/internal/application/usecase"
	"github.com/jhoicas/optica-suite/internal/domain"
	"github.com/jhoicas/optica-suite/internal/domain/entity"
	"github.com/jhoicas/optica-suite/internal/domain/repository"
)

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[string]*entity.Product{}}
}

func (r *fakeProductRepo) Create(p *entity.Product) error { r.products[p.ID] = p; return nil }

func (r *fakeProductRepo) GetByID(id string, scope domain.Scope) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok || p.DeletedAt != nil || !scope.CanAccess(p.OpticID) {
		return nil, nil
	}
	return p, nil
}

func (r *fakeProductRepo) List(scope domain.Scope, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.products {
		if p.DeletedAt == nil && scope.CanAccess(p.OpticID) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Search(scope domain.Scope, term string) ([]*entity.Product, error) {
	return r.List(scope, 0, 0)
}

func (r *fakeProductRepo) Update(p *entity.Product) error { r.products[p.ID] = p; return nil }

func (r *fakeProductRepo) MarkDeleted(id string, scope domain.Scope, at time.Time) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok || p.DeletedAt != nil || !scope.CanAccess(p.OpticID) {
		return nil, nil
	}
	p.DeletedAt = &at
	return p, nil
}

func (r *fakeProductRepo) GetForUpdate(id, opticID string) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok || p.DeletedAt != nil || p.OpticID != opticID {
		return nil, nil
	}
	return p, nil
}

func (r *fakeProductRepo) DecrementStock(id string, qty int) error {
	p, ok := r.products[id]
	if !ok || p.Stock < qty {
		return domain.ErrInsufficientStock
	}
	p.Stock -= qty
	return nil
}

type fakeProductDeleteRunner struct {
	productRepo *fakeProductRepo
	logRepo     *fakeLogRepo
}

func (r *fakeProductDeleteRunner) RunSoftDelete(ctx context.Context, fn func(
	clientRepo repository.ClientRepository,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	logRepo repository.DeletionLogRepository,
) error) error {
	return fn(nil, r.productRepo, nil, r.logRepo)
}

func newProductFixture() (*usecase.ProductUseCase, *fakeProductRepo, *fakeLogRepo) {
	productRepo := newFakeProductRepo()
	logRepo := &fakeLogRepo{}
	uc := usecase.NewProductUseCase(productRepo, &fakeProductDeleteRunner{productRepo: productRepo, logRepo: logRepo})
	return uc, productRepo, logRepo
}

func price(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestProductCreate_Valido(t *testing.T) {
	uc, _, _ := newProductFixture()

	out, err := uc.Create(context.Background(), scope(), dto.CreateProductRequest{
		Name: "Montura Ray-Ban", Brand: "Ray-Ban", Price: price("120.50"), Stock: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, "Montura Ray-Ban", out.Name)
	assert.Equal(t, 10, out.Stock)
	assert.True(t, price("120.50").Equal(out.Price))
	assert.Equal(t, opticID, out.OpticID)
}

func TestProductCreate_Invalido(t *testing.T) {
	uc, _, _ := newProductFixture()

	cases := []dto.CreateProductRequest{
		{Name: "   ", Price: price("10"), Stock: 1},     // nombre vacío
		{Name: "Montura", Price: price("-1"), Stock: 1}, // precio negativo
		{Name: "Montura", Price: price("10"), Stock: -1}, // stock negativo
	}
	for _, in := range cases {
		_, err := uc.Create(context.Background(), scope(), in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

func TestProductUpdate_Parcial(t *testing.T) {
	uc, _, _ := newProductFixture()
	created, err := uc.Create(context.Background(), scope(), dto.CreateProductRequest{
		Name: "Montura", Price: price("100.00"), Stock: 5,
	})
	require.NoError(t, err)

	newStock := 8
	out, err := uc.Update(context.Background(), scope(), created.ID, dto.UpdateProductRequest{Stock: &newStock})
	require.NoError(t, err)
	assert.Equal(t, 8, out.Stock)
	assert.True(t, price("100.00").Equal(out.Price), "el precio no enviado no debe cambiar")
}

func TestProductUpdate_StockNegativo_Invalido(t *testing.T) {
	uc, _, _ := newProductFixture()
	created, err := uc.Create(context.Background(), scope(), dto.CreateProductRequest{
		Name: "Montura", Price: price("100.00"), Stock: 5,
	})
	require.NoError(t, err)

	bad := -3
	_, err = uc.Update(context.Background(), scope(), created.ID, dto.UpdateProductRequest{Stock: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductDelete_BajaLogicaConAuditoria(t *testing.T) {
	uc, repo, logRepo := newProductFixture()
	created, err := uc.Create(context.Background(), scope(), dto.CreateProductRequest{
		Name: "Montura", Price: price("100.00"), Stock: 5,
	})
	require.NoError(t, err)

	err = uc.Delete(context.Background(), scope(), "user-1", created.ID, "descatalogado")
	require.NoError(t, err)

	assert.NotNil(t, repo.products[created.ID].DeletedAt)
	require.Len(t, logRepo.logs, 1)
	assert.Equal(t, "products", logRepo.logs[0].TableName)
	assert.Equal(t, created.ID, logRepo.logs[0].RecordID)

	_, err = uc.GetByID(context.Background(), scope(), created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound,
		"un producto con baja lógica no debe aparecer en consultas")
}

func TestProductSearch_TerminoVacio_Invalido(t *testing.T) {
	uc, _, _ := newProductFixture()

	_, err := uc.Search(context.Background(), scope(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
