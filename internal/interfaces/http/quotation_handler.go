package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cotizador-api/internal/application/dto"
	"github.com/jhoicas/Cotizador-api/internal/application/quotation"
)

// QuotationHandler maneja cotizaciones persistidas y su PDF.
type QuotationHandler struct {
	uc    *quotation.QuotationUseCase
	pdfUC *quotation.PDFUseCase
}

// NewQuotationHandler construye el handler.
func NewQuotationHandler(uc *quotation.QuotationUseCase, pdfUC *quotation.PDFUseCase) *QuotationHandler {
	return &QuotationHandler{uc: uc, pdfUC: pdfUC}
}

// Create emite una cotización sobre un trabajo.
// POST /api/v1/quotations
func (h *QuotationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateQuotationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// List devuelve cotizaciones paginadas; client_id filtra por cliente.
// GET /api/v1/quotations?client_id=&limit=&offset=
func (h *QuotationHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	resp, err := h.uc.List(c.Query("client_id"), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// GetByID obtiene una cotización con sus líneas.
// GET /api/v1/quotations/:id
func (h *QuotationHandler) GetByID(c *fiber.Ctx) error {
	resp, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// GetByQuoNo obtiene una cotización por número completo (con revisión).
// GET /api/v1/quotations/no/:quo_no
func (h *QuotationHandler) GetByQuoNo(c *fiber.Ctx) error {
	resp, err := h.uc.GetByQuoNo(c.Params("quo_no"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// Update edita una cotización; los cambios de contenido emiten revisión nueva.
// PUT /api/v1/quotations/:id
func (h *QuotationHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateQuotationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// GetPDF genera y descarga el PDF de la cotización.
// GET /api/v1/quotations/:id/pdf
func (h *QuotationHandler) GetPDF(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.pdfUC.Generate(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}
