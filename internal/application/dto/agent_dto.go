package dto

import "time"

// OrchestratorRequest petición de texto libre al orquestador de agentes.
type OrchestratorRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// OrchestratorResponse envolvente uniforme del orquestador. Status es
// success | interrupt | fail; el HTTP status es 200 en los tres casos y el
// cliente decide por el campo status (contrato heredado del frontend).
type OrchestratorResponse struct {
	Status    string `json:"status"`
	SessionID string `json:"session_id"`
	FlowUUID  string `json:"flow_uuid"`
	Result    any    `json:"result"`
}

// InterruptResult resultado de una interrupción: el agente necesita que el
// usuario revise el borrador en el formulario antes de continuar.
type InterruptResult struct {
	Message       string            `json:"message"`
	ShowQuoteForm bool              `json:"show_quote_form"`
	QuotationData *QuotationPayload `json:"quotation_data,omitempty"`
	NextStep      string            `json:"next_step,omitempty"`
}

// AgentResult resultado de un agente individual dentro de la respuesta agregada.
type AgentResult struct {
	Intent  string `json:"intent"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// AggregatedResult resultado final cuando todos los agentes terminaron.
type AggregatedResult struct {
	Message string        `json:"message"`
	Agents  []AgentResult `json:"agents,omitempty"`
}

// FlowResponse traza de una ejecución del orquestador en el historial.
type FlowResponse struct {
	FlowUUID  string    `json:"flow_uuid"`
	SessionID string    `json:"session_id"`
	UserInput string    `json:"user_input"`
	Intents   []string  `json:"intents"`
	Status    string    `json:"status"`
	Result    string    `json:"result,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
