package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/optica-suite/internal/application/dto"
	"github.com/jhoicas/optica-suite/internal/application/usecase"
	"github.com/jhoicas/optica-suite/internal/domain"
	"github.com/jhoicas/optica-suite/internal/domain/entity"
	"github.com/jhoicas/optica-suite/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeClientRepo struct {
	clients map[string]*entity.Client
}

func newFakeClientRepo() *fakeClientRepo {
	return &fakeClientRepo{clients: map[string]*entity.Client{}}
}

func (r *fakeClientRepo) Create(c *entity.Client) error {
	// Imita el índice único parcial (optic_id, dni) sobre filas activas
	if c.DNI != nil {
		for _, other := range r.clients {
			if other.DeletedAt == nil && other.OpticID == c.OpticID &&
				other.DNI != nil && *other.DNI == *c.DNI {
				return domain.ErrDuplicate
			}
		}
	}
	r.clients[c.ID] = c
	return nil
}

func (r *fakeClientRepo) GetByID(id string, scope domain.Scope) (*entity.Client, error) {
	c, ok := r.clients[id]
	if !ok || c.DeletedAt != nil || !scope.CanAccess(c.OpticID) {
		return nil, nil
	}
	return c, nil
}

func (r *fakeClientRepo) GetByDNI(opticID, dni string) (*entity.Client, error) {
	for _, c := range r.clients {
		if c.DeletedAt == nil && c.OpticID == opticID && c.DNI != nil && *c.DNI == dni {
			return c, nil
		}
	}
	return nil, nil
}

func (r *fakeClientRepo) List(scope domain.Scope, limit, offset int) ([]*entity.Client, error) {
	var out []*entity.Client
	for _, c := range r.clients {
		if c.DeletedAt == nil && scope.CanAccess(c.OpticID) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeClientRepo) Search(scope domain.Scope, term string) ([]*entity.Client, error) {
	return r.List(scope, 0, 0)
}

func (r *fakeClientRepo) Update(c *entity.Client) error { r.clients[c.ID] = c; return nil }

func (r *fakeClientRepo) MarkDeleted(id string, scope domain.Scope, at time.Time) (*entity.Client, error) {
	c, ok := r.clients[id]
	if !ok || c.DeletedAt != nil || !scope.CanAccess(c.OpticID) {
		return nil, nil
	}
	c.DeletedAt = &at
	return c, nil
}

type fakeLogRepo struct {
	logs []*entity.DeletionLog
}

func (r *fakeLogRepo) Create(log *entity.DeletionLog) error {
	r.logs = append(r.logs, log)
	return nil
}

func (r *fakeLogRepo) ListByTable(tableName string, limit, offset int) ([]*entity.DeletionLog, error) {
	return r.logs, nil
}

// fakeSoftDeleteRunner pasa los repos fake directamente; los tests de rollback
// transaccional viven junto al caso de uso de ventas.
type fakeSoftDeleteRunner struct {
	clientRepo *fakeClientRepo
	logRepo    *fakeLogRepo
}

func (r *fakeSoftDeleteRunner) RunSoftDelete(ctx context.Context, fn func(
	clientRepo repository.ClientRepository,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	logRepo repository.DeletionLogRepository,
) error) error {
	return fn(r.clientRepo, nil, nil, r.logRepo)
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

const opticID = "optic-1"

func newClientFixture() (*usecase.ClientUseCase, *fakeClientRepo, *fakeLogRepo) {
	clientRepo := newFakeClientRepo()
	logRepo := &fakeLogRepo{}
	uc := usecase.NewClientUseCase(clientRepo, &fakeSoftDeleteRunner{clientRepo: clientRepo, logRepo: logRepo})
	return uc, clientRepo, logRepo
}

func scope() domain.Scope {
	return domain.Scope{OpticID: opticID}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestClientCreate_NormalizaDNI(t *testing.T) {
	uc, repo, _ := newClientFixture()

	out, err := uc.Create(context.Background(), scope(), dto.CreateClientRequest{
		FirstName: "Ana", LastName: "Suárez", DNI: "  12345678  ",
	})
	require.NoError(t, err)
	assert.Equal(t, "12345678", out.DNI)
	assert.Equal(t, opticID, out.OpticID)

	// DNI vacío se guarda como NULL, no como cadena vacía
	out2, err := uc.Create(context.Background(), scope(), dto.CreateClientRequest{
		FirstName: "Luis", DNI: "   ",
	})
	require.NoError(t, err)
	assert.Empty(t, out2.DNI)
	assert.Nil(t, repo.clients[out2.ID].DNI)
}

func TestClientCreate_SinNombre_Invalido(t *testing.T) {
	uc, _, _ := newClientFixture()

	_, err := uc.Create(context.Background(), scope(), dto.CreateClientRequest{FirstName: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestClientCreate_DNIDuplicadoEnLaOptica_Conflicto(t *testing.T) {
	uc, _, _ := newClientFixture()

	_, err := uc.Create(context.Background(), scope(), dto.CreateClientRequest{
		FirstName: "Ana", DNI: "12345678",
	})
	require.NoError(t, err)

	_, err = uc.Create(context.Background(), scope(), dto.CreateClientRequest{
		FirstName: "Otra Ana", DNI: "12345678",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestClientCreate_VariosSinDNI_Permitido(t *testing.T) {
	uc, _, _ := newClientFixture()

	for _, name := range []string{"Uno", "Dos", "Tres"} {
		_, err := uc.Create(context.Background(), scope(), dto.CreateClientRequest{FirstName: name})
		require.NoError(t, err, "clientes sin DNI no deben colisionar entre sí")
	}
}

func TestClientUpdate_Parcial(t *testing.T) {
	uc, _, _ := newClientFixture()
	created, err := uc.Create(context.Background(), scope(), dto.CreateClientRequest{
		FirstName: "Ana", LastName: "Suárez", Phone: "555-0001",
	})
	require.NoError(t, err)

	phone := "555-0002"
	out, err := uc.Update(context.Background(), scope(), created.ID, dto.UpdateClientRequest{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "555-0002", out.Phone)
	assert.Equal(t, "Ana", out.FirstName, "los campos no enviados no deben cambiar")
	assert.Equal(t, "Suárez", out.LastName)
}

func TestClientUpdate_NombreVacio_Invalido(t *testing.T) {
	uc, _, _ := newClientFixture()
	created, err := uc.Create(context.Background(), scope(), dto.CreateClientRequest{FirstName: "Ana"})
	require.NoError(t, err)

	empty := "   "
	_, err = uc.Update(context.Background(), scope(), created.ID, dto.UpdateClientRequest{FirstName: &empty})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestClientSearch_TerminoVacio_Invalido(t *testing.T) {
	uc, _, _ := newClientFixture()

	_, err := uc.Search(context.Background(), scope(), "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestClientGetByID_OtraOptica_NotFound(t *testing.T) {
	uc, repo, _ := newClientFixture()
	repo.clients["ajeno"] = &entity.Client{ID: "ajeno", OpticID: "otra-optica", FirstName: "X"}

	_, err := uc.GetByID(context.Background(), scope(), "ajeno")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClientGetByID_AdminVeTodasLasOpticas(t *testing.T) {
	uc, repo, _ := newClientFixture()
	repo.clients["ajeno"] = &entity.Client{ID: "ajeno", OpticID: "otra-optica", FirstName: "X"}

	out, err := uc.GetByID(context.Background(), domain.Scope{Admin: true}, "ajeno")
	require.NoError(t, err)
	assert.Equal(t, "ajeno", out.ID)
}

func TestClientDelete_BajaLogicaConAuditoria(t *testing.T) {
	uc, repo, logRepo := newClientFixture()
	created, err := uc.Create(context.Background(), scope(), dto.CreateClientRequest{
		FirstName: "Ana", DNI: "12345678",
	})
	require.NoError(t, err)

	err = uc.Delete(context.Background(), scope(), "user-1", created.ID, "registro duplicado")
	require.NoError(t, err)

	assert.NotNil(t, repo.clients[created.ID].DeletedAt)
	require.Len(t, logRepo.logs, 1)
	assert.Equal(t, "clients", logRepo.logs[0].TableName)
	assert.Equal(t, created.ID, logRepo.logs[0].RecordID)
	assert.Equal(t, "user-1", logRepo.logs[0].DeletedBy)
	assert.NotEmpty(t, logRepo.logs[0].DeletedData)

	// El cliente eliminado deja de ser visible y libera su DNI
	_, err = uc.GetByID(context.Background(), scope(), created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Create(context.Background(), scope(), dto.CreateClientRequest{
		FirstName: "Ana Nueva", DNI: "12345678",
	})
	assert.NoError(t, err, "el DNI de un cliente eliminado debe poder reutilizarse")
}

func TestClientDelete_Inexistente_NotFound(t *testing.T) {
	uc, _, logRepo := newClientFixture()

	err := uc.Delete(context.Background(), scope(), "user-1", "no-existe", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, logRepo.logs)
}
