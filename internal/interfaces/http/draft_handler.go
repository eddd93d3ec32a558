package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cotizador-api/internal/application/dto"
	"github.com/jhoicas/Cotizador-api/internal/application/quotation"
)

// DraftHandler maneja el pipeline de borradores por chat y los borradores guardados.
type DraftHandler struct {
	uc *quotation.DraftUseCase
}

// NewDraftHandler construye el handler.
func NewDraftHandler(uc *quotation.DraftUseCase) *DraftHandler {
	return &DraftHandler{uc: uc}
}

// Draft genera una propuesta de cotización a partir del historial de chat.
// POST /api/v1/chat/quotation
func (h *DraftHandler) Draft(c *fiber.Ctx) error {
	var in dto.DraftRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.Draft(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// saveDraftRequest cuerpo de guardado: id opcional (vacío = borrador nuevo).
type saveDraftRequest struct {
	ID        string               `json:"id"`
	Quotation dto.QuotationPayload `json:"quotation"`
}

// Save guarda o reescribe un borrador editado.
// POST /api/v1/drafts
func (h *DraftHandler) Save(c *fiber.Ctx) error {
	var in saveDraftRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.Save(in.ID, in.Quotation)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// List devuelve borradores guardados.
// GET /api/v1/drafts?limit=&offset=
func (h *DraftHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	resp, err := h.uc.List(page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// Search busca borradores por subcadena.
// GET /api/v1/drafts/search?q=
func (h *DraftHandler) Search(c *fiber.Ctx) error {
	q := c.Query("q")
	if q == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetro q requerido"})
	}
	resp, err := h.uc.Search(q, c.QueryInt("limit"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// Get devuelve el payload completo de un borrador.
// GET /api/v1/drafts/:id
func (h *DraftHandler) Get(c *fiber.Ctx) error {
	resp, err := h.uc.Get(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// Delete elimina un borrador guardado.
// DELETE /api/v1/drafts/:id
func (h *DraftHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
