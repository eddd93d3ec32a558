package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cotizador-api/internal/application/agent"
	"github.com/jhoicas/Cotizador-api/internal/application/dto"
)

// AgentHandler expone el orquestador de agentes.
type AgentHandler struct {
	orchestrator *agent.Orchestrator
}

// NewAgentHandler construye el handler.
func NewAgentHandler(orchestrator *agent.Orchestrator) *AgentHandler {
	return &AgentHandler{orchestrator: orchestrator}
}

// Handle procesa una petición de texto libre. Siempre responde 200; el campo
// status (success | interrupt | fail) es el contrato con el frontend.
// POST /api/v1/agent
func (h *AgentHandler) Handle(c *fiber.Ctx) error {
	var in dto.OrchestratorRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if strings.TrimSpace(in.Message) == "" || strings.TrimSpace(in.SessionID) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "session_id y message requeridos"})
	}
	return c.JSON(h.orchestrator.Handle(c.Context(), in))
}

// History devuelve las trazas de ejecución de una sesión.
// GET /api/v1/agent/history/:session_id
func (h *AgentHandler) History(c *fiber.Ctx) error {
	flows, err := h.orchestrator.History(c.Params("session_id"), c.QueryInt("limit"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(flows)
}
