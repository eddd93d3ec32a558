package dto

import "github.com/shopspring/decimal"

// ChatMessage mensaje del historial de conversación enviado al LLM.
type ChatMessage struct {
	Role    string `json:"role"` // system | user | assistant
	Content string `json:"content"`
}

// QuotationPayloadItem línea dentro del JSON que devuelve el modelo.
type QuotationPayloadItem struct {
	ItemDesc  string          `json:"itemDesc"`
	Quantity  decimal.Decimal `json:"quantity"`
	Unit      string          `json:"unit"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Amount    decimal.Decimal `json:"amount"`
}

// QuotationPayload es el objeto JSON que el modelo debe producir en su
// respuesta (posiblemente envuelto en fences markdown, que se eliminan antes
// de parsear). Los nombres de campo son el contrato con el prompt.
type QuotationPayload struct {
	QuotationNumber string                 `json:"quotationNumber"`
	Date            string                 `json:"date"`
	CompanyName     string                 `json:"companyName"`
	PhoneNumber     string                 `json:"phoneNumber"`
	Address         string                 `json:"address"`
	ProjectName     string                 `json:"projectName"`
	Items           []QuotationPayloadItem `json:"items"`
	TotalAmount     decimal.Decimal        `json:"totalAmount"`
	Currency        string                 `json:"currency"`
}

// DraftRequest entrada del pipeline de borrador por chat.
// Budget opcional: si el total propuesto por la IA lo supera, el borrador se
// rechaza con error explícito en lugar de recortarse en silencio.
type DraftRequest struct {
	SessionID string          `json:"session_id"`
	Messages  []ChatMessage   `json:"messages"`
	Budget    decimal.Decimal `json:"budget"`
}

// DraftResponse borrador generado, con la decisión de revisión ya aplicada.
type DraftResponse struct {
	DraftID   string           `json:"draft_id"`
	Revision  string           `json:"revision"` // etiqueta "1.0" / "1.1"
	Quotation QuotationPayload `json:"quotation"`
}

// DraftSummary entrada de listado/búsqueda de borradores guardados.
type DraftSummary struct {
	ID          string `json:"id"`
	QuoNo       string `json:"quo_no"`
	ClientName  string `json:"client_name"`
	ProjectName string `json:"project_name"`
	UpdatedAt   string `json:"updated_at"`
}

// IntentClassification resultado del clasificador de agentes.
type IntentClassification struct {
	Intents []string `json:"intents"`
	Message string   `json:"message"`
}
