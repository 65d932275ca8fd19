package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/optica-suite/internal/application/dto"
	"github.com/jhoicas/optica-suite/internal/application/registro"
)

// RegistrationHandler maneja el alta self-service (público) y la revisión de
// solicitudes (solo admin).
type RegistrationHandler struct {
	uc *registro.RegistrationUseCase
}

// NewRegistrationHandler construye el handler.
func NewRegistrationHandler(uc *registro.RegistrationUseCase) *RegistrationHandler {
	return &RegistrationHandler{uc: uc}
}

// Register godoc
// @Summary      Solicitar registro de usuario y óptica
// @Description  Crea una solicitud pendiente. El usuario y la óptica se materializan
// @Description  solo cuando un admin la aprueba.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "Datos del solicitante y su óptica"
// @Success      201   {object}  dto.RegistrationRequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/register [post]
func (h *RegistrationHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Submit(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar solicitudes de registro (solo admin)
// @Tags         registration
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Filtro por estado (pending|approved|rejected)"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200     {object}  dto.RegistrationListResponse
// @Router       /api/registration-requests [get]
func (h *RegistrationHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	page.DefaultPage()
	out, err := h.uc.List(c.Context(), c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Approve godoc
// @Summary      Aprobar solicitud (solo admin)
// @Description  Crea la óptica y el usuario, y marca la solicitud como aprobada,
// @Description  todo en una sola transacción. Una solicitud ya resuelta devuelve 409.
// @Tags         registration
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la solicitud"
// @Param        body  body  dto.ReviewRequest  false  "Notas del revisor"
// @Success      200   {object}  dto.RegistrationRequestResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/registration-requests/{id}/approve [post]
func (h *RegistrationHandler) Approve(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.ReviewRequest
	_ = c.BodyParser(&in)
	out, err := h.uc.Approve(c.Context(), GetUserID(c), id, in.Notes)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Reject godoc
// @Summary      Rechazar solicitud (solo admin)
// @Description  Marca la solicitud como rechazada sin crear usuario ni óptica.
// @Tags         registration
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la solicitud"
// @Param        body  body  dto.ReviewRequest  false  "Notas del revisor"
// @Success      200   {object}  dto.RegistrationRequestResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/registration-requests/{id}/reject [post]
func (h *RegistrationHandler) Reject(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.ReviewRequest
	_ = c.BodyParser(&in)
	out, err := h.uc.Reject(c.Context(), GetUserID(c), id, in.Notes)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
