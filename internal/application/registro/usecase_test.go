package registro_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/optica-suite/internal/application/dto"
	"github.com/jhoicas/optica-suite/internal/application/registro"
	"github.com/jhoicas/optica-suite/internal/domain"
	"github.com/jhoicas/optica-suite/internal/domain/entity"
	"github.com/jhoicas/optica-suite/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	optics   map[string]*entity.Optic
	users    map[string]*entity.User
	requests map[string]*entity.RegistrationRequest
}

func newMemStore() *memStore {
	return &memStore{
		optics:   map[string]*entity.Optic{},
		users:    map[string]*entity.User{},
		requests: map[string]*entity.RegistrationRequest{},
	}
}

func (s *memStore) snapshot() *memStore {
	cp := newMemStore()
	for id, o := range s.optics {
		oc := *o
		cp.optics[id] = &oc
	}
	for id, u := range s.users {
		uc := *u
		cp.users[id] = &uc
	}
	for id, r := range s.requests {
		rc := *r
		cp.requests[id] = &rc
	}
	return cp
}

func (s *memStore) restore(from *memStore) {
	s.optics = from.optics
	s.users = from.users
	s.requests = from.requests
}

type fakeOpticRepo struct{ store *memStore }

func (r *fakeOpticRepo) Create(o *entity.Optic) error { r.store.optics[o.ID] = o; return nil }

func (r *fakeOpticRepo) GetByID(id string) (*entity.Optic, error) { return r.store.optics[id], nil }

func (r *fakeOpticRepo) GetByName(name string) (*entity.Optic, error) {
	for _, o := range r.store.optics {
		if o.Name == name {
			return o, nil
		}
	}
	return nil, nil
}

func (r *fakeOpticRepo) List(limit, offset int) ([]*entity.Optic, error) { return nil, nil }

func (r *fakeOpticRepo) Update(o *entity.Optic) error { r.store.optics[o.ID] = o; return nil }

func (r *fakeOpticRepo) Stats(opticID string) (*entity.OpticStats, error) {
	return &entity.OpticStats{}, nil
}

type fakeUserRepo struct{ store *memStore }

func (r *fakeUserRepo) Create(u *entity.User) error { r.store.users[u.ID] = u; return nil }

func (r *fakeUserRepo) GetByID(id string) (*entity.User, error) { return r.store.users[id], nil }

func (r *fakeUserRepo) FindByUsername(username string) (*entity.User, error) {
	for _, u := range r.store.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*entity.User, error) {
	for _, u := range r.store.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByUsernameOrEmail(username, email string) (*entity.User, error) {
	for _, u := range r.store.users {
		if u.Username == username || u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) SetResetToken(userID, token string, expires time.Time) error { return nil }

func (r *fakeUserRepo) FindByResetToken(token string) (*entity.User, error) { return nil, nil }

func (r *fakeUserRepo) UpdatePassword(userID, passwordHash string) error { return nil }

type fakeRequestRepo struct{ store *memStore }

func (r *fakeRequestRepo) Create(req *entity.RegistrationRequest) error {
	r.store.requests[req.ID] = req
	return nil
}

func (r *fakeRequestRepo) GetByID(id string) (*entity.RegistrationRequest, error) {
	return r.store.requests[id], nil
}

func (r *fakeRequestRepo) List(status string, limit, offset int) ([]*entity.RegistrationRequest, error) {
	var out []*entity.RegistrationRequest
	for _, req := range r.store.requests {
		if status == "" || req.Status == status {
			out = append(out, req)
		}
	}
	return out, nil
}

// Resolve imita el UPDATE condicional: solo transiciona si el estado sigue pending.
func (r *fakeRequestRepo) Resolve(id, status, reviewerID, notes string, userID, opticID *string, at time.Time) (bool, error) {
	req, ok := r.store.requests[id]
	if !ok || req.Status != entity.RequestStatusPending {
		return false, nil
	}
	req.Status = status
	req.ReviewedBy = &reviewerID
	req.ReviewedAt = &at
	req.AdminNotes = notes
	req.UserID = userID
	req.OpticID = opticID
	req.UpdatedAt = at
	return true, nil
}

// fakeTxRunner emula la transacción con snapshot/restore: si fn falla, las filas
// creadas dentro (usuario, óptica) desaparecen.
type fakeTxRunner struct{ store *memStore }

func (r *fakeTxRunner) RunApproval(ctx context.Context, fn func(
	opticRepo repository.OpticRepository,
	userRepo repository.UserRepository,
	requestRepo repository.RegistrationRequestRepository,
) error) error {
	before := r.store.snapshot()
	if err := fn(&fakeOpticRepo{r.store}, &fakeUserRepo{r.store}, &fakeRequestRepo{r.store}); err != nil {
		r.store.restore(before)
		return err
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func newFixture() (*registro.RegistrationUseCase, *memStore) {
	store := newMemStore()
	uc := registro.NewRegistrationUseCase(&fakeTxRunner{store}, &fakeRequestRepo{store}, &fakeUserRepo{store})
	return uc, store
}

func submitRequest(t *testing.T, uc *registro.RegistrationUseCase) *dto.RegistrationRequestResponse {
	t.Helper()
	out, err := uc.Submit(context.Background(), dto.RegisterRequest{
		Username:  "maria",
		Email:     "maria@optica.example",
		Password:  "secreto123",
		OpticName: "Óptica Central",
	})
	require.NoError(t, err)
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Submit
// ──────────────────────────────────────────────────────────────────────────────

func TestSubmit_CreaSolicitudPendiente(t *testing.T) {
	uc, store := newFixture()

	out := submitRequest(t, uc)
	assert.Equal(t, entity.RequestStatusPending, out.Status)
	assert.Nil(t, out.UserID, "la solicitud pendiente no debe tener usuario")
	assert.Nil(t, out.OpticID, "la solicitud pendiente no debe tener óptica")

	// El password se guarda hasheado, nunca en claro
	req := store.requests[out.ID]
	require.NotNil(t, req)
	assert.NotEqual(t, "secreto123", req.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(req.PasswordHash), []byte("secreto123")))

	// Submit no crea filas de usuario ni de óptica
	assert.Empty(t, store.users)
	assert.Empty(t, store.optics)
}

func TestSubmit_PasswordCorto_Invalido(t *testing.T) {
	uc, _ := newFixture()

	_, err := uc.Submit(context.Background(), dto.RegisterRequest{
		Username: "maria", Email: "maria@optica.example", Password: "abc", OpticName: "Óptica",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSubmit_UsernameDeUsuarioExistente_Duplicado(t *testing.T) {
	uc, store := newFixture()
	store.users["u1"] = &entity.User{ID: "u1", Username: "maria", Email: "otra@x.example"}

	_, err := uc.Submit(context.Background(), dto.RegisterRequest{
		Username: "maria", Email: "maria@optica.example", Password: "secreto123", OpticName: "Óptica",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Approve / Reject
// ──────────────────────────────────────────────────────────────────────────────

func TestApprove_CreaOpticaYUsuario(t *testing.T) {
	uc, store := newFixture()
	req := submitRequest(t, uc)

	out, err := uc.Approve(context.Background(), "admin-1", req.ID, "todo en orden")
	require.NoError(t, err)

	assert.Equal(t, entity.RequestStatusApproved, out.Status)
	require.NotNil(t, out.UserID)
	require.NotNil(t, out.OpticID)
	assert.Equal(t, "admin-1", *out.ReviewedBy)
	require.NotNil(t, out.ReviewedAt)

	user := store.users[*out.UserID]
	require.NotNil(t, user, "la aprobación debe crear el usuario")
	assert.Equal(t, *out.OpticID, user.OpticID)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.True(t, user.IsApproved, "el usuario aprobado debe poder iniciar sesión")

	optic := store.optics[*out.OpticID]
	require.NotNil(t, optic, "la aprobación debe crear la óptica")
	assert.Equal(t, "Óptica Central", optic.Name)
}

func TestApprove_ReutilizaOpticaExistente(t *testing.T) {
	uc, store := newFixture()
	store.optics["o1"] = &entity.Optic{ID: "o1", Name: "Óptica Central"}
	req := submitRequest(t, uc)

	out, err := uc.Approve(context.Background(), "admin-1", req.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "o1", *out.OpticID, "debe reutilizarse la óptica con el mismo nombre")
	assert.Len(t, store.optics, 1)
}

func TestApprove_SolicitudYaResuelta_Conflicto(t *testing.T) {
	uc, store := newFixture()
	req := submitRequest(t, uc)

	_, err := uc.Approve(context.Background(), "admin-1", req.ID, "")
	require.NoError(t, err)

	usersAfterFirst := len(store.users)
	_, err = uc.Approve(context.Background(), "admin-2", req.ID, "")
	assert.ErrorIs(t, err, domain.ErrConflict, "la segunda aprobación debe fallar")
	assert.Len(t, store.users, usersAfterFirst, "no debe crearse un segundo usuario")
}

func TestApprove_ColisionDeIdentidad_RevierteTodo(t *testing.T) {
	uc, store := newFixture()
	req := submitRequest(t, uc)
	// Un usuario con el mismo username aparece entre el submit y la aprobación
	store.users["u1"] = &entity.User{ID: "u1", Username: "maria", Email: "otra@x.example"}

	_, err := uc.Approve(context.Background(), "admin-1", req.ID, "")
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Len(t, store.users, 1, "no debe quedar ningún usuario nuevo")
	assert.Empty(t, store.optics, "no debe quedar ninguna óptica nueva")
	assert.Equal(t, entity.RequestStatusPending, store.requests[req.ID].Status,
		"la solicitud debe seguir pendiente")
}

func TestReject_NoCreaEntidades(t *testing.T) {
	uc, store := newFixture()
	req := submitRequest(t, uc)

	out, err := uc.Reject(context.Background(), "admin-1", req.ID, "datos incompletos")
	require.NoError(t, err)

	assert.Equal(t, entity.RequestStatusRejected, out.Status)
	assert.Equal(t, "datos incompletos", out.AdminNotes)
	require.NotNil(t, out.ReviewedAt)
	assert.Nil(t, out.UserID)
	assert.Nil(t, out.OpticID)
	assert.Empty(t, store.users, "el rechazo no debe crear usuario")
	assert.Empty(t, store.optics, "el rechazo no debe crear óptica")
}

func TestReject_SolicitudYaResuelta_Conflicto(t *testing.T) {
	uc, _ := newFixture()
	req := submitRequest(t, uc)

	_, err := uc.Reject(context.Background(), "admin-1", req.ID, "")
	require.NoError(t, err)

	_, err = uc.Reject(context.Background(), "admin-2", req.ID, "")
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = uc.Approve(context.Background(), "admin-2", req.ID, "")
	assert.ErrorIs(t, err, domain.ErrConflict, "tampoco debe poder aprobarse tras el rechazo")
}

func TestApprove_SolicitudInexistente_NotFound(t *testing.T) {
	uc, _ := newFixture()

	_, err := uc.Approve(context.Background(), "admin-1", "no-existe", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests List
// ──────────────────────────────────────────────────────────────────────────────

func TestList_FiltraPorEstado(t *testing.T) {
	uc, _ := newFixture()
	req := submitRequest(t, uc)
	_, err := uc.Approve(context.Background(), "admin-1", req.ID, "")
	require.NoError(t, err)

	out, err := uc.Submit(context.Background(), dto.RegisterRequest{
		Username: "pedro", Email: "pedro@optica.example", Password: "secreto123", OpticName: "Óptica Sur",
	})
	require.NoError(t, err)
	_ = out

	pending, err := uc.List(context.Background(), entity.RequestStatusPending, 20, 0)
	require.NoError(t, err)
	require.Len(t, pending.Items, 1)
	assert.Equal(t, "pedro", pending.Items[0].Username)

	all, err := uc.List(context.Background(), "", 20, 0)
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)
}
