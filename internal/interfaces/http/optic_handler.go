package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/optica-suite/internal/application/dto"
	"github.com/jhoicas/optica-suite/internal/application/usecase"
)

// OpticHandler maneja las peticiones HTTP para Optic (protegido).
// Un usuario normal solo ve su propia óptica; la ruta acepta "me" como alias.
type OpticHandler struct {
	uc *usecase.OpticUseCase
}

// NewOpticHandler construye el handler.
func NewOpticHandler(uc *usecase.OpticUseCase) *OpticHandler {
	return &OpticHandler{uc: uc}
}

// resolveID traduce el alias "me" al optic_id del token.
func resolveID(c *fiber.Ctx) string {
	id := c.Params("id")
	if id == "me" {
		return GetOpticID(c)
	}
	return id
}

// List godoc
// @Summary      Listar ópticas (solo admin)
// @Tags         optics
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.OpticListResponse
// @Failure      403     {object}  dto.ErrorResponse
// @Router       /api/optics [get]
func (h *OpticHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	page.DefaultPage()
	out, err := h.uc.List(c.Context(), GetScope(c), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener óptica por ID ("me" = la del token)
// @Tags         optics
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la óptica o 'me'"
// @Success      200  {object}  dto.OpticResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/optics/{id} [get]
func (h *OpticHandler) GetByID(c *fiber.Ctx) error {
	id := resolveID(c)
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.GetByID(c.Context(), GetScope(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar datos de la óptica
// @Tags         optics
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la óptica o 'me'"
// @Param        body  body  dto.UpdateOpticRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.OpticResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/optics/{id} [put]
func (h *OpticHandler) Update(c *fiber.Ctx) error {
	id := resolveID(c)
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.UpdateOpticRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(c.Context(), GetScope(c), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Stats godoc
// @Summary      Dashboard de la óptica (clientes, productos, stock bajo, ventas del mes)
// @Tags         optics
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la óptica o 'me'"
// @Success      200  {object}  dto.OpticStatsResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/optics/{id}/stats [get]
func (h *OpticHandler) Stats(c *fiber.Ctx) error {
	id := resolveID(c)
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.Stats(c.Context(), GetScope(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
