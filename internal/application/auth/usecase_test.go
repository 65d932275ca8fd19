package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/optica-suite/internal/application/auth"
	"github.com/jhoicas/optica-suite/internal/application/dto"
	"github.com/jhoicas/optica-suite/internal/domain"
	"github.com/jhoicas/optica-suite/internal/domain/entity"
	pkgjwt "github.com/jhoicas/optica-suite/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeUserRepo struct {
	users map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entity.User{}}
}

func (r *fakeUserRepo) Create(u *entity.User) error { r.users[u.ID] = u; return nil }

func (r *fakeUserRepo) GetByID(id string) (*entity.User, error) { return r.users[id], nil }

func (r *fakeUserRepo) FindByUsername(username string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByUsernameOrEmail(username, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Username == username || u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) SetResetToken(userID, token string, expires time.Time) error {
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.ResetToken = &token
	u.ResetTokenExpires = &expires
	return nil
}

func (r *fakeUserRepo) FindByResetToken(token string) (*entity.User, error) {
	for _, u := range r.users {
		if u.ResetToken != nil && *u.ResetToken == token {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) UpdatePassword(userID, passwordHash string) error {
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.ResetToken = nil
	u.ResetTokenExpires = nil
	return nil
}

type fakeOpticRepo struct {
	optics map[string]*entity.Optic
}

func (r *fakeOpticRepo) Create(o *entity.Optic) error            { r.optics[o.ID] = o; return nil }
func (r *fakeOpticRepo) GetByID(id string) (*entity.Optic, error) { return r.optics[id], nil }
func (r *fakeOpticRepo) GetByName(name string) (*entity.Optic, error) {
	for _, o := range r.optics {
		if o.Name == name {
			return o, nil
		}
	}
	return nil, nil
}
func (r *fakeOpticRepo) List(limit, offset int) ([]*entity.Optic, error) { return nil, nil }
func (r *fakeOpticRepo) Update(o *entity.Optic) error                    { r.optics[o.ID] = o; return nil }
func (r *fakeOpticRepo) Stats(opticID string) (*entity.OpticStats, error) {
	return &entity.OpticStats{}, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

const testSecret = "auth-test-secret"

func newFixture() (*auth.AuthUseCase, *fakeUserRepo) {
	userRepo := newFakeUserRepo()
	opticRepo := &fakeOpticRepo{optics: map[string]*entity.Optic{
		"optic-1": {ID: "optic-1", Name: "Óptica Central"},
	}}
	uc := auth.NewAuthUseCase(userRepo, opticRepo, auth.JWTConfig{
		Secret: testSecret, ExpMinutes: 60, Issuer: "optica-suite-test",
	})
	return uc, userRepo
}

func seedUser(t *testing.T, repo *fakeUserRepo, approved bool) *entity.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secreto123"), bcrypt.MinCost)
	require.NoError(t, err)
	u := &entity.User{
		ID:           "user-1",
		OpticID:      "optic-1",
		Username:     "maria",
		Email:        "maria@optica.example",
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		IsApproved:   approved,
	}
	repo.users[u.ID] = u
	return u
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_ConUsername(t *testing.T) {
	uc, repo := newFixture()
	seedUser(t, repo, true)

	out, err := uc.Login(context.Background(), dto.LoginRequest{Username: "maria", Password: "secreto123"})
	require.NoError(t, err)
	assert.Equal(t, "maria", out.User.Username)
	assert.Equal(t, "Óptica Central", out.Optic.Name)

	// El token lleva usuario, óptica y rol
	userID, opticID, role, err := pkgjwt.Parse(testSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, "optic-1", opticID)
	assert.Equal(t, domain.RoleUser, role)
}

func TestLogin_ConEmail(t *testing.T) {
	uc, repo := newFixture()
	seedUser(t, repo, true)

	out, err := uc.Login(context.Background(), dto.LoginRequest{
		Username: "maria@optica.example", Password: "secreto123",
	})
	require.NoError(t, err)
	assert.Equal(t, "maria", out.User.Username)
}

func TestLogin_PasswordIncorrecto_Unauthorized(t *testing.T) {
	uc, repo := newFixture()
	seedUser(t, repo, true)

	_, err := uc.Login(context.Background(), dto.LoginRequest{Username: "maria", Password: "incorrecto"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInexistente_Unauthorized(t *testing.T) {
	uc, _ := newFixture()

	_, err := uc.Login(context.Background(), dto.LoginRequest{Username: "nadie", Password: "lo-que-sea"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_CuentaSinAprobar_Forbidden(t *testing.T) {
	uc, repo := newFixture()
	seedUser(t, repo, false)

	_, err := uc.Login(context.Background(), dto.LoginRequest{Username: "maria", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrForbidden,
		"una cuenta pendiente de aprobación no debe poder iniciar sesión")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests recuperación de contraseña
// ──────────────────────────────────────────────────────────────────────────────

func TestPasswordReset_FlujoCompleto(t *testing.T) {
	uc, repo := newFixture()
	seedUser(t, repo, true)

	token, err := uc.RequestPasswordReset(context.Background(), "maria@optica.example")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	err = uc.ResetPassword(context.Background(), token, "nuevo-secreto")
	require.NoError(t, err)

	// La contraseña vieja deja de servir y la nueva funciona
	_, err = uc.Login(context.Background(), dto.LoginRequest{Username: "maria", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(context.Background(), dto.LoginRequest{Username: "maria", Password: "nuevo-secreto"})
	assert.NoError(t, err)

	// El token es de un solo uso
	err = uc.ResetPassword(context.Background(), token, "otro-mas")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPasswordReset_EmailDesconocido_NoFiltra(t *testing.T) {
	uc, _ := newFixture()

	token, err := uc.RequestPasswordReset(context.Background(), "nadie@optica.example")
	assert.NoError(t, err, "no debe revelarse si la cuenta existe")
	assert.Empty(t, token)
}

func TestResetPassword_TokenVencido(t *testing.T) {
	uc, repo := newFixture()
	user := seedUser(t, repo, true)

	token := "token-vencido"
	expired := time.Now().Add(-time.Minute)
	user.ResetToken = &token
	user.ResetTokenExpires = &expired

	err := uc.ResetPassword(context.Background(), token, "nuevo-secreto")
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestResetPassword_PasswordCorto_Invalido(t *testing.T) {
	uc, _ := newFixture()

	err := uc.ResetPassword(context.Background(), "algun-token", "abc")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
