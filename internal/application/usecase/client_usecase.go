package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/optica-suite/internal/application/dto"
	"github.com/jhoicas/optica-suite/internal/domain"
	"github.com/jhoicas/optica-suite/internal/domain/entity"
	"github.com/jhoicas/optica-suite/internal/domain/repository"
)

// ClientUseCase CRUD de clientes, siempre acotado por el Scope del caller.
type ClientUseCase struct {
	clientRepo repository.ClientRepository
	txRunner   SoftDeleteTxRunner
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(clientRepo repository.ClientRepository, txRunner SoftDeleteTxRunner) *ClientUseCase {
	return &ClientUseCase{clientRepo: clientRepo, txRunner: txRunner}
}

// Create valida y persiste un cliente en la óptica del caller.
// DNI duplicado dentro de la óptica -> domain.ErrDuplicate.
func (uc *ClientUseCase) Create(ctx context.Context, scope domain.Scope, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	firstName := strings.TrimSpace(in.FirstName)
	if firstName == "" {
		return nil, domain.ErrInvalidInput
	}
	dni := normalizeDNI(in.DNI)
	if dni != nil {
		// Chequeo previo para un mensaje de error limpio; el índice único
		// parcial en la BD sigue siendo la garantía real ante concurrencia.
		existing, err := uc.clientRepo.GetByDNI(scope.OpticID, *dni)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}
	now := time.Now()
	client := &entity.Client{
		ID:        uuid.New().String(),
		OpticID:   scope.OpticID,
		DNI:       dni,
		FirstName: firstName,
		LastName:  strings.TrimSpace(in.LastName),
		Phone:     in.Phone,
		Email:     in.Email,
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.clientRepo.Create(client); err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// GetByID obtiene un cliente del scope.
func (uc *ClientUseCase) GetByID(ctx context.Context, scope domain.Scope, id string) (*dto.ClientResponse, error) {
	client, err := uc.clientRepo.GetByID(id, scope)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	return toClientResponse(client), nil
}

// List lista clientes activos con paginación.
func (uc *ClientUseCase) List(ctx context.Context, scope domain.Scope, limit, offset int) (*dto.ClientListResponse, error) {
	clients, err := uc.clientRepo.List(scope, limit, offset)
	if err != nil {
		return nil, err
	}
	out := &dto.ClientListResponse{
		Items: make([]dto.ClientResponse, 0, len(clients)),
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}
	for _, c := range clients {
		out.Items = append(out.Items, *toClientResponse(c))
	}
	return out, nil
}

// Search busca por substring case-insensitive sobre los campos de texto del cliente.
func (uc *ClientUseCase) Search(ctx context.Context, scope domain.Scope, term string) ([]dto.ClientResponse, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, domain.ErrInvalidInput
	}
	clients, err := uc.clientRepo.Search(scope, term)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ClientResponse, 0, len(clients))
	for _, c := range clients {
		out = append(out, *toClientResponse(c))
	}
	return out, nil
}

// Update aplica cambios parciales a un cliente del scope.
func (uc *ClientUseCase) Update(ctx context.Context, scope domain.Scope, id string, in dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	client, err := uc.clientRepo.GetByID(id, scope)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	if in.FirstName != nil {
		name := strings.TrimSpace(*in.FirstName)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		client.FirstName = name
	}
	if in.LastName != nil {
		client.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.DNI != nil {
		client.DNI = normalizeDNI(*in.DNI)
	}
	if in.Phone != nil {
		client.Phone = *in.Phone
	}
	if in.Email != nil {
		client.Email = *in.Email
	}
	if in.Notes != nil {
		client.Notes = *in.Notes
	}
	client.UpdatedAt = time.Now()
	if err := uc.clientRepo.Update(client); err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// Delete baja lógica con auditoría: snapshot + deleted_at en una sola transacción.
func (uc *ClientUseCase) Delete(ctx context.Context, scope domain.Scope, userID, id, reason string) error {
	return uc.txRunner.RunSoftDelete(ctx, func(
		clientRepo repository.ClientRepository,
		_ repository.ProductRepository,
		_ repository.SaleRepository,
		logRepo repository.DeletionLogRepository,
	) error {
		now := time.Now()
		client, err := clientRepo.MarkDeleted(id, scope, now)
		if err != nil {
			return err
		}
		if client == nil {
			return domain.ErrNotFound
		}
		snapshot, err := json.Marshal(client)
		if err != nil {
			return fmt.Errorf("snapshot client: %w", err)
		}
		return logRepo.Create(&entity.DeletionLog{
			ID:          uuid.New().String(),
			TableName:   "clients",
			RecordID:    client.ID,
			DeletedBy:   userID,
			DeletedData: snapshot,
			Reason:      reason,
			DeletedAt:   now,
		})
	})
}

// normalizeDNI convierte cadena vacía en NULL para que el índice único parcial
// no colisione entre clientes sin documento.
func normalizeDNI(dni string) *string {
	dni = strings.TrimSpace(dni)
	if dni == "" {
		return nil
	}
	return &dni
}

func toClientResponse(c *entity.Client) *dto.ClientResponse {
	out := &dto.ClientResponse{
		ID:        c.ID,
		OpticID:   c.OpticID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Phone:     c.Phone,
		Email:     c.Email,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.DNI != nil {
		out.DNI = *c.DNI
	}
	return out
}
