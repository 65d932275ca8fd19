package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/optica-suite/internal/application/dto"
	"github.com/jhoicas/optica-suite/internal/domain"
	"github.com/jhoicas/optica-suite/internal/domain/entity"
	"github.com/jhoicas/optica-suite/internal/domain/repository"
)

// OpticUseCase consulta y administración de ópticas. Las ópticas se crean al
// aprobar una solicitud de registro, no por este camino.
type OpticUseCase struct {
	opticRepo repository.OpticRepository
}

// NewOpticUseCase construye el caso de uso.
func NewOpticUseCase(opticRepo repository.OpticRepository) *OpticUseCase {
	return &OpticUseCase{opticRepo: opticRepo}
}

// List lista todas las ópticas. Solo admin.
func (uc *OpticUseCase) List(ctx context.Context, scope domain.Scope, limit, offset int) (*dto.OpticListResponse, error) {
	if !scope.Admin {
		return nil, domain.ErrForbidden
	}
	optics, err := uc.opticRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := &dto.OpticListResponse{
		Items: make([]dto.OpticResponse, 0, len(optics)),
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}
	for _, o := range optics {
		out.Items = append(out.Items, *toOpticResponse(o))
	}
	return out, nil
}

// GetByID obtiene una óptica. Un usuario normal solo puede ver la suya.
func (uc *OpticUseCase) GetByID(ctx context.Context, scope domain.Scope, id string) (*dto.OpticResponse, error) {
	if !scope.CanAccess(id) {
		return nil, domain.ErrForbidden
	}
	optic, err := uc.opticRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if optic == nil {
		return nil, domain.ErrNotFound
	}
	return toOpticResponse(optic), nil
}

// Update actualiza los datos de contacto de una óptica del scope.
func (uc *OpticUseCase) Update(ctx context.Context, scope domain.Scope, id string, in dto.UpdateOpticRequest) (*dto.OpticResponse, error) {
	if !scope.CanAccess(id) {
		return nil, domain.ErrForbidden
	}
	optic, err := uc.opticRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if optic == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		optic.Name = name
	}
	if in.Address != nil {
		optic.Address = *in.Address
	}
	if in.Phone != nil {
		optic.Phone = *in.Phone
	}
	if in.Email != nil {
		optic.Email = *in.Email
	}
	optic.UpdatedAt = time.Now()
	if err := uc.opticRepo.Update(optic); err != nil {
		return nil, err
	}
	return toOpticResponse(optic), nil
}

// Stats calcula los números del dashboard de una óptica del scope.
func (uc *OpticUseCase) Stats(ctx context.Context, scope domain.Scope, id string) (*dto.OpticStatsResponse, error) {
	if !scope.CanAccess(id) {
		return nil, domain.ErrForbidden
	}
	stats, err := uc.opticRepo.Stats(id)
	if err != nil {
		return nil, err
	}
	return &dto.OpticStatsResponse{
		ActiveClients:    stats.ActiveClients,
		ActiveProducts:   stats.ActiveProducts,
		LowStockProducts: stats.LowStockProducts,
		SalesThisMonth:   stats.SalesThisMonth,
		RevenueThisMonth: stats.RevenueThisMonth,
	}, nil
}

func toOpticResponse(o *entity.Optic) *dto.OpticResponse {
	return &dto.OpticResponse{
		ID:        o.ID,
		Name:      o.Name,
		Address:   o.Address,
		Phone:     o.Phone,
		Email:     o.Email,
		CreatedAt: o.CreatedAt,
	}
}
