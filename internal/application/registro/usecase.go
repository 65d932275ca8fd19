package registro

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/optica-suite/internal/application/dto"
	"github.com/jhoicas/optica-suite/internal/domain"
	"github.com/jhoicas/optica-suite/internal/domain/entity"
	"github.com/jhoicas/optica-suite/internal/domain/repository"
)

// RegistrationUseCase maneja el ciclo de vida de las solicitudes de registro:
// pending -> approved (crea Optic y User) o pending -> rejected (no crea nada).
// Ambas transiciones son terminales y solo las ejecuta un admin.
type RegistrationUseCase struct {
	txRunner    TxRunner
	requestRepo repository.RegistrationRequestRepository
	userRepo    repository.UserRepository
}

// NewRegistrationUseCase construye el caso de uso.
func NewRegistrationUseCase(txRunner TxRunner, requestRepo repository.RegistrationRequestRepository, userRepo repository.UserRepository) *RegistrationUseCase {
	return &RegistrationUseCase{txRunner: txRunner, requestRepo: requestRepo, userRepo: userRepo}
}

// Submit guarda una solicitud pendiente con el password ya hasheado. Falla rápido
// si el username o email ya pertenece a un usuario existente.
func (uc *RegistrationUseCase) Submit(ctx context.Context, in dto.RegisterRequest) (*dto.RegistrationRequestResponse, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	opticName := strings.TrimSpace(in.OpticName)
	if username == "" || email == "" || opticName == "" || len(in.Password) < 6 {
		return nil, domain.ErrInvalidInput
	}

	existing, err := uc.userRepo.FindByUsernameOrEmail(username, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	req := &entity.RegistrationRequest{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		OpticName:    opticName,
		OpticAddress: in.OpticAddress,
		OpticPhone:   in.OpticPhone,
		OpticEmail:   in.OpticEmail,
		Status:       entity.RequestStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.requestRepo.Create(req); err != nil {
		return nil, err
	}
	return toRequestResponse(req), nil
}

// Approve aprueba una solicitud pendiente. En una sola transacción: reutiliza la
// óptica con el nombre solicitado o la crea, crea el usuario activo con rol user
// y marca la solicitud. Una solicitud ya resuelta retorna conflicto sin crear nada.
func (uc *RegistrationUseCase) Approve(ctx context.Context, reviewerID, requestID, notes string) (*dto.RegistrationRequestResponse, error) {
	req, err := uc.requestRepo.GetByID(requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	if req.Status != entity.RequestStatusPending {
		return nil, domain.ErrConflict
	}

	err = uc.txRunner.RunApproval(ctx, func(
		opticRepo repository.OpticRepository,
		userRepo repository.UserRepository,
		requestRepo repository.RegistrationRequestRepository,
	) error {
		// Colisión de identidad contra usuarios ya existentes: falla antes de crear filas.
		existing, err := userRepo.FindByUsernameOrEmail(req.Username, req.Email)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicate
		}

		now := time.Now()
		optic, err := opticRepo.GetByName(req.OpticName)
		if err != nil {
			return err
		}
		if optic == nil {
			optic = &entity.Optic{
				ID:        uuid.New().String(),
				Name:      req.OpticName,
				Address:   req.OpticAddress,
				Phone:     req.OpticPhone,
				Email:     req.OpticEmail,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := opticRepo.Create(optic); err != nil {
				return err
			}
		}

		user := &entity.User{
			ID:           uuid.New().String(),
			OpticID:      optic.ID,
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: req.PasswordHash,
			Role:         domain.RoleUser,
			IsApproved:   true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := userRepo.Create(user); err != nil {
			return err
		}

		resolved, err := requestRepo.Resolve(req.ID, entity.RequestStatusApproved, reviewerID, notes, &user.ID, &optic.ID, now)
		if err != nil {
			return err
		}
		if !resolved {
			// Otra resolución ganó la carrera; revierte usuario y óptica.
			return domain.ErrConflict
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.getResponse(requestID)
}

// Reject rechaza una solicitud pendiente: no crea ningún usuario ni óptica,
// solo estampa revisor y fecha. Una solicitud ya resuelta retorna conflicto.
func (uc *RegistrationUseCase) Reject(ctx context.Context, reviewerID, requestID, notes string) (*dto.RegistrationRequestResponse, error) {
	req, err := uc.requestRepo.GetByID(requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	if req.Status != entity.RequestStatusPending {
		return nil, domain.ErrConflict
	}
	resolved, err := uc.requestRepo.Resolve(req.ID, entity.RequestStatusRejected, reviewerID, notes, nil, nil, time.Now())
	if err != nil {
		return nil, err
	}
	if !resolved {
		return nil, domain.ErrConflict
	}
	return uc.getResponse(requestID)
}

// List lista solicitudes filtradas por estado (vacío = todas).
func (uc *RegistrationUseCase) List(ctx context.Context, status string, limit, offset int) (*dto.RegistrationListResponse, error) {
	reqs, err := uc.requestRepo.List(status, limit, offset)
	if err != nil {
		return nil, err
	}
	out := &dto.RegistrationListResponse{
		Items: make([]dto.RegistrationRequestResponse, 0, len(reqs)),
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}
	for _, req := range reqs {
		out.Items = append(out.Items, *toRequestResponse(req))
	}
	return out, nil
}

func (uc *RegistrationUseCase) getResponse(id string) (*dto.RegistrationRequestResponse, error) {
	req, err := uc.requestRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	return toRequestResponse(req), nil
}

func toRequestResponse(req *entity.RegistrationRequest) *dto.RegistrationRequestResponse {
	return &dto.RegistrationRequestResponse{
		ID:         req.ID,
		Username:   req.Username,
		Email:      req.Email,
		OpticName:  req.OpticName,
		Status:     req.Status,
		AdminNotes: req.AdminNotes,
		ReviewedBy: req.ReviewedBy,
		ReviewedAt: req.ReviewedAt,
		UserID:     req.UserID,
		OpticID:    req.OpticID,
		CreatedAt:  req.CreatedAt,
	}
}
