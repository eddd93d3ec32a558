package ports

import (
	"context"

	"github.com/jhoicas/Cotizador-api/internal/application/dto"
)

// LLMService define el puerto de salida hacia el servicio de chat-completion.
// Cualquier adaptador (OpenAI, Anthropic, Ollama, mock) debe implementar esta
// interfaz; la capa de aplicación solo conoce este contrato.
type LLMService interface {
	// DraftQuotation envía el historial de conversación y devuelve el JSON de
	// cotización propuesto por el modelo, ya limpio de fences markdown y
	// validado en forma. El contexto debe llevar timeout.
	DraftQuotation(ctx context.Context, messages []dto.ChatMessage) (*dto.QuotationPayload, error)

	// ClassifyIntents clasifica una petición de texto libre en las intenciones
	// que atiende la capa de servicios financieros (job_crud, quotation_crud,
	// invoice_crud, company_query). Una petición no financiera devuelve la
	// lista de intenciones vacía.
	ClassifyIntents(ctx context.Context, userInput string) (*dto.IntentClassification, error)
}
