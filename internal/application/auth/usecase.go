package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/optica-suite/internal/application/dto"
	"github.com/jhoicas/optica-suite/internal/domain"
	"github.com/jhoicas/optica-suite/internal/domain/entity"
	"github.com/jhoicas/optica-suite/internal/domain/repository"
	"github.com/jhoicas/optica-suite/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// resetTokenTTL vigencia del token de recuperación de contraseña.
const resetTokenTTL = time.Hour

// AuthUseCase casos de uso de autenticación: login y recuperación de contraseña.
// El alta de usuarios no pasa por aquí: va por el flujo de solicitudes de registro.
type AuthUseCase struct {
	userRepo  repository.UserRepository
	opticRepo repository.OpticRepository
	jwtCfg    JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, opticRepo repository.OpticRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, opticRepo: opticRepo, jwtCfg: jwtCfg}
}

// Login verifica credenciales (username o email), exige cuenta aprobada, genera el
// JWT y retorna token + usuario + óptica.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	ident := strings.TrimSpace(in.Username)
	if ident == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	user, err := uc.userRepo.FindByUsername(ident)
	if err != nil {
		return nil, err
	}
	if user == nil && strings.Contains(ident, "@") {
		user, err = uc.userRepo.FindByEmail(ident)
		if err != nil {
			return nil, err
		}
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsApproved {
		return nil, domain.ErrForbidden
	}

	optic, err := uc.opticRepo.GetByID(user.OpticID)
	if err != nil {
		return nil, err
	}
	if optic == nil {
		return nil, domain.ErrNotFound
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.OpticID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *toUserResponse(user),
		Optic: dto.OpticResponse{
			ID:        optic.ID,
			Name:      optic.Name,
			Address:   optic.Address,
			Phone:     optic.Phone,
			Email:     optic.Email,
			CreatedAt: optic.CreatedAt,
		},
	}, nil
}

// RequestPasswordReset genera un token aleatorio con vencimiento de una hora.
// Si el email no existe responde sin error (no filtra qué cuentas existen);
// el token retornado queda en manos del caller (el envío de correo es externo).
func (uc *AuthUseCase) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := uc.userRepo.FindByEmail(strings.TrimSpace(email))
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", nil
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	token := hex.EncodeToString(buf)
	if err := uc.userRepo.SetResetToken(user.ID, token, time.Now().Add(resetTokenTTL)); err != nil {
		return "", err
	}
	return token, nil
}

// ResetPassword valida el token (existencia y vencimiento) y cambia la contraseña.
func (uc *AuthUseCase) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" || len(newPassword) < 6 {
		return domain.ErrInvalidInput
	}
	user, err := uc.userRepo.FindByResetToken(token)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrNotFound
	}
	if user.ResetTokenExpires == nil || user.ResetTokenExpires.Before(time.Now()) {
		return domain.ErrTokenExpired
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return uc.userRepo.UpdatePassword(user.ID, string(hash))
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:         u.ID,
		OpticID:    u.OpticID,
		Username:   u.Username,
		Email:      u.Email,
		Role:       u.Role,
		IsApproved: u.IsApproved,
		CreatedAt:  u.CreatedAt,
	}
}
